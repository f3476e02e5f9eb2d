package services

import (
	"sync"
	"testing"
	"time"

	"swipetonpro_backend/internal/algorithms"
	"swipetonpro_backend/internal/auth"
	"swipetonpro_backend/internal/email"
	"swipetonpro_backend/internal/payments"
	"swipetonpro_backend/internal/ratelimit"
	"swipetonpro_backend/internal/repositories"
	"swipetonpro_backend/internal/storage"
	"swipetonpro_backend/internal/testutil"
	"swipetonpro_backend/pkg/apperrors"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// recordingNotifier запоминает отправленные в realtime события
type recordingNotifier struct {
	mu     sync.Mutex
	events map[string][]Event
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{events: make(map[string][]Event)}
}

func (n *recordingNotifier) NotifyUser(userID string, event Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events[userID] = append(n.events[userID], event)
}

func (n *recordingNotifier) typesFor(userID string) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.events[userID]))
	for _, e := range n.events[userID] {
		out = append(out, e.Type)
	}
	return out
}

type sentMail struct {
	To       []string
	Template string
	Data     email.TemplateData
}

// fakeMailProvider собирает письма вместо SMTP
type fakeMailProvider struct {
	mu   sync.Mutex
	sent []sentMail
}

func (p *fakeMailProvider) Send(*email.Email) error { return nil }

func (p *fakeMailProvider) SendTemplate(to []string, subject string, templateName string, data email.TemplateData) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, sentMail{To: to, Template: templateName, Data: data})
	return nil
}

func (p *fakeMailProvider) Validate() error { return nil }
func (p *fakeMailProvider) Close() error    { return nil }

func (p *fakeMailProvider) templates() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.sent))
	for _, m := range p.sent {
		out = append(out, m.Template)
	}
	return out
}

type testEnv struct {
	db       *gorm.DB
	notifier *recordingNotifier
	mail     *fakeMailProvider
	mailer   *MailServiceImpl
	gateway  *payments.FakeGateway
	redis    *miniredis.Miniredis

	userRepo    repositories.UserRepository
	matchRepo   repositories.MatchRepository
	swipeRepo   repositories.SwipeRepository
	paymentRepo repositories.PaymentRepository

	auth      AuthService
	swipes    SwipeService
	matches   MatchService
	documents DocumentService
	credits   CreditService
	configs   ConfigService
	admin     AdminService
	adminAuth AdminAuthService
	team      AdminTeamService
	audit     AuditService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewTestDB(t)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	limiter := ratelimit.NewLoginLimiter(client, 5, 15*time.Minute)

	store, err := storage.NewLocalStorage(storage.Config{BasePath: t.TempDir(), BaseURL: "http://localhost/files"})
	require.NoError(t, err)

	userRepo := repositories.NewUserRepository()
	profileRepo := repositories.NewProfileRepository()
	projectRepo := repositories.NewProjectRepository()
	swipeRepo := repositories.NewSwipeRepository()
	matchRepo := repositories.NewMatchRepository()
	messageRepo := repositories.NewMessageRepository()
	documentRepo := repositories.NewDocumentRepository()
	adminRepo := repositories.NewAdminRepository()
	reportRepo := repositories.NewReportRepository()
	auditRepo := repositories.NewAuditLogRepository()
	configRepo := repositories.NewConfigRepository()
	paymentRepo := repositories.NewPaymentRepository()
	notificationRepo := repositories.NewNotificationRepository()

	notifier := newRecordingNotifier()
	provider := &fakeMailProvider{}
	mailer := NewMailService(provider, "http://localhost:3000")
	gateway := payments.NewFakeGateway()

	auditService := NewAuditService(auditRepo)
	notificationService := NewNotificationService(notificationRepo, notifier)
	documentService := NewDocumentService(documentRepo, userRepo, profileRepo, store, notificationService, mailer, auditService,
		10<<20, []string{"application/pdf", "image/jpeg", "image/png"})

	env := &testEnv{
		db:       db,
		notifier: notifier,
		mail:     provider,
		mailer:   mailer,
		gateway:  gateway,
		redis:    mr,

		userRepo:    userRepo,
		matchRepo:   matchRepo,
		swipeRepo:   swipeRepo,
		paymentRepo: paymentRepo,

		auth: NewAuthService(userRepo, profileRepo,
			auth.NewTokenManager("test-secret", time.Hour, auth.AudienceUser), limiter, mailer),
		swipes: NewSwipeService(userRepo, profileRepo, projectRepo, swipeRepo, matchRepo, configRepo,
			algorithms.NewCandidateScorer(), notificationService, mailer, auditService),
		matches:   NewMatchService(matchRepo, messageRepo, userRepo, notificationService, 1),
		documents: documentService,
		credits: NewCreditService(userRepo, paymentRepo, matchRepo, configRepo, gateway, notificationService, auditService, CheckoutConfig{
			Currency:           "eur",
			SuccessURL:         "http://localhost:3000/success",
			CancelURL:          "http://localhost:3000/cancel",
			ConnectionFeeCents: 500,
		}),
		configs: NewConfigService(configRepo, userRepo, auditService),
		admin: NewAdminService(userRepo, profileRepo, adminRepo, matchRepo, swipeRepo, reportRepo, documentRepo, projectRepo,
			documentService, notificationService, auditService),
		adminAuth: NewAdminAuthService(adminRepo, auth.NewTokenManager("admin-secret", 30*time.Minute, auth.AudienceAdmin), limiter, auditService),
		team:      NewAdminTeamService(adminRepo, mailer, auditService),
		audit:     auditService,
	}
	return env
}

// requireAppError проверяет HTTP-код доменной ошибки
func requireAppError(t *testing.T, err error, httpCode int) *apperrors.AppError {
	t.Helper()
	require.Error(t, err)
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "ожидалась AppError, получено %T: %v", err, err)
	require.Equal(t, httpCode, appErr.HTTPCode, appErr.Message)
	return appErr
}
