package workers

import (
	"context"
	"time"

	"swipetonpro_backend/internal/logger"
	"swipetonpro_backend/internal/metrics"

	"gorm.io/gorm"
)

const paymentWorkerName = "payment_reconciler"

// PendingPaymentReconciler - часть CreditService, нужная воркеру
type PendingPaymentReconciler interface {
	ReconcilePending(ctx context.Context, db *gorm.DB, olderThan time.Time, limit int) (int64, error)
}

// PaymentReconciler добивает платежи, по которым клиент не вернулся на
// страницу успеха: опрашивает Stripe и применяет оплаченные.
type PaymentReconciler struct {
	db         *gorm.DB
	reconciler PendingPaymentReconciler
	interval   time.Duration
	// платеж моложе grace еще может быть подтвержден самим клиентом
	grace     time.Duration
	batchSize int
}

func NewPaymentReconciler(db *gorm.DB, reconciler PendingPaymentReconciler, interval time.Duration) *PaymentReconciler {
	return &PaymentReconciler{
		db:         db,
		reconciler: reconciler,
		interval:   interval,
		grace:      2 * time.Minute,
		batchSize:  50,
	}
}

// Start запускает цикл в отдельной горутине
func (w *PaymentReconciler) Start(ctx context.Context) {
	go w.loop(ctx)
}

func (w *PaymentReconciler) loop(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Payment reconciler stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce - одна итерация, возвращает число примененных платежей
func (w *PaymentReconciler) RunOnce(ctx context.Context) int64 {
	applied, err := w.reconciler.ReconcilePending(ctx, w.db.WithContext(ctx), time.Now().Add(-w.grace), w.batchSize)
	logger.WorkerLog(paymentWorkerName, "reconcile_pending", applied, err)
	metrics.RecordWorkerRun(paymentWorkerName, err)
	return applied
}
