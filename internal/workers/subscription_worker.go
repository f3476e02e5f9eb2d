package workers

import (
	"context"
	"time"

	"swipetonpro_backend/internal/logger"
	"swipetonpro_backend/internal/metrics"

	"gorm.io/gorm"
)

const subscriptionWorkerName = "subscription_expirer"

type SubscriptionExpirer interface {
	ExpireSubscriptions(db *gorm.DB) (int64, error)
}

// SubscriptionWorker снимает истекшие паки (и флаг unlimited)
type SubscriptionWorker struct {
	db       *gorm.DB
	expirer  SubscriptionExpirer
	interval time.Duration
}

func NewSubscriptionWorker(db *gorm.DB, expirer SubscriptionExpirer, interval time.Duration) *SubscriptionWorker {
	return &SubscriptionWorker{db: db, expirer: expirer, interval: interval}
}

// Start запускает фоновую проверку подписок
func (w *SubscriptionWorker) Start(ctx context.Context) {
	go w.checkExpiredSubscriptions(ctx)
}

func (w *SubscriptionWorker) checkExpiredSubscriptions(ctx context.Context) {
	// первая проверка сразу: сервер мог простоять дольше интервала
	w.RunOnce(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Subscription worker stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

func (w *SubscriptionWorker) RunOnce(ctx context.Context) int64 {
	expired, err := w.expirer.ExpireSubscriptions(w.db.WithContext(ctx))
	logger.WorkerLog(subscriptionWorkerName, "expire_subscriptions", expired, err)
	metrics.RecordWorkerRun(subscriptionWorkerName, err)
	return expired
}
