package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swipetonpro_http_requests_total",
			Help: "Всего HTTP запросов",
		},
		[]string{"method", "endpoint", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "swipetonpro_http_request_duration_seconds",
			Help:    "Длительность HTTP запросов (сек)",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	SwipesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swipetonpro_swipes_total",
			Help: "Свайпы по типу пользователя, действию и результату",
		},
		[]string{"user_type", "action", "result"},
	)

	MatchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "swipetonpro_matches_total",
			Help: "Созданные матчи",
		},
	)

	CreditsSpent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swipetonpro_credits_spent_total",
			Help: "Потраченные кредиты по причине",
		},
		[]string{"reason"},
	)

	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swipetonpro_login_attempts_total",
			Help: "Попытки входа по scope и результату",
		},
		[]string{"scope", "result"},
	)

	PaymentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swipetonpro_payments_total",
			Help: "Платежи по типу и статусу",
		},
		[]string{"kind", "status"},
	)

	WebsocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "swipetonpro_websocket_connections",
			Help: "Активные WebSocket соединения",
		},
	)

	WorkerRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "swipetonpro_worker_runs_total",
			Help: "Запуски фоновых воркеров",
		},
		[]string{"worker", "status"},
	)
)

func RecordHttpRequest(method, endpoint, status string, duration time.Duration) {
	HttpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	HttpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

func RecordSwipe(userType, action, result string) {
	SwipesTotal.WithLabelValues(userType, action, result).Inc()
}

func RecordMatch() {
	MatchesTotal.Inc()
}

func RecordCreditsSpent(reason string, amount int) {
	CreditsSpent.WithLabelValues(reason).Add(float64(amount))
}

func RecordLoginAttempt(scope, result string) {
	LoginAttempts.WithLabelValues(scope, result).Inc()
}

func RecordPayment(kind, status string) {
	PaymentsTotal.WithLabelValues(kind, status).Inc()
}

func RecordWorkerRun(worker string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	WorkerRuns.WithLabelValues(worker, status).Inc()
}
