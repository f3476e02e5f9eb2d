package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"swipetonpro_backend/internal/logger"
	"swipetonpro_backend/internal/metrics"
	"swipetonpro_backend/internal/models"
	"swipetonpro_backend/internal/payments"
	"swipetonpro_backend/internal/repositories"
	"swipetonpro_backend/internal/services/dto"
	"swipetonpro_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// CheckoutConfig - параметры Stripe Checkout из конфига
type CheckoutConfig struct {
	Currency           string
	SuccessURL         string
	CancelURL          string
	ConnectionFeeCents int64
}

type CreditService interface {
	Packs() []models.SubscriptionPack
	Current(db *gorm.DB, userID string) (*dto.SubscriptionStatusResponse, error)
	PurchasePack(ctx context.Context, db *gorm.DB, userID string, req *dto.PurchasePackRequest, meta *dto.RequestMeta) (*dto.CheckoutResponse, error)
	PurchaseCredits(ctx context.Context, db *gorm.DB, userID string, req *dto.PurchaseCreditsRequest, meta *dto.RequestMeta) (*dto.CheckoutResponse, error)
	ConnectionCheckout(ctx context.Context, db *gorm.DB, userID, matchID string, meta *dto.RequestMeta) (*dto.CheckoutResponse, error)

	// PaymentStatus опрашивает Stripe и применяет оплаченный платеж ровно один раз
	PaymentStatus(ctx context.Context, db *gorm.DB, userID, sessionID string) (*dto.PaymentStatusResponse, error)
	// ReconcilePending - то же для всех зависших платежей (воркер)
	ReconcilePending(ctx context.Context, db *gorm.DB, olderThan time.Time, limit int) (int64, error)
	ExpireSubscriptions(db *gorm.DB) (int64, error)
}

type CreditServiceImpl struct {
	userRepo            repositories.UserRepository
	paymentRepo         repositories.PaymentRepository
	matchRepo           repositories.MatchRepository
	configRepo          repositories.ConfigRepository
	gateway             payments.Gateway
	notificationService NotificationService
	auditService        AuditService
	cfg                 CheckoutConfig
}

func NewCreditService(
	userRepo repositories.UserRepository,
	paymentRepo repositories.PaymentRepository,
	matchRepo repositories.MatchRepository,
	configRepo repositories.ConfigRepository,
	gateway payments.Gateway,
	notificationService NotificationService,
	auditService AuditService,
	cfg CheckoutConfig,
) CreditService {
	if cfg.Currency == "" {
		cfg.Currency = "eur"
	}
	return &CreditServiceImpl{
		userRepo:            userRepo,
		paymentRepo:         paymentRepo,
		matchRepo:           matchRepo,
		configRepo:          configRepo,
		gateway:             gateway,
		notificationService: notificationService,
		auditService:        auditService,
		cfg:                 cfg,
	}
}

func (s *CreditServiceImpl) Packs() []models.SubscriptionPack {
	return models.SubscriptionPacks
}

func (s *CreditServiceImpl) Current(db *gorm.DB, userID string) (*dto.SubscriptionStatusResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	return &dto.SubscriptionStatusResponse{
		CurrentCredits:      user.Credits,
		SubscriptionPack:    user.SubscriptionPack,
		SubscriptionExpires: user.SubscriptionExpires,
		Unlimited:           user.UnlimitedCredits,
	}, nil
}

// =======================
// Checkout
// =======================

func (s *CreditServiceImpl) PurchasePack(ctx context.Context, db *gorm.DB, userID string, req *dto.PurchasePackRequest, meta *dto.RequestMeta) (*dto.CheckoutResponse, error) {
	pack, ok := models.FindPack(req.Pack)
	if !ok {
		return nil, apperrors.ErrUnknownPack
	}
	user, err := s.artisan(db, userID)
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		UserID:      userID,
		Kind:        models.PaymentKindPack,
		PackCode:    pack.Code,
		AmountCents: pack.PriceCents,
	}
	if !pack.IsUnlimited() {
		payment.Credits = pack.Credits
	}
	return s.checkout(ctx, db, user, payment, "Pack "+pack.Name, pack.PriceCents, 1, meta)
}

func (s *CreditServiceImpl) PurchaseCredits(ctx context.Context, db *gorm.DB, userID string, req *dto.PurchaseCreditsRequest, meta *dto.RequestMeta) (*dto.CheckoutResponse, error) {
	if req.Credits < 1 || req.Credits > 1000 {
		return nil, apperrors.ValidationError(map[string]string{"credits": "credits must be between 1 and 1000"})
	}
	user, err := s.artisan(db, userID)
	if err != nil {
		return nil, err
	}

	creditCfg, err := s.configRepo.GetCreditConfig(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	payment := &models.Payment{
		UserID:      userID,
		Kind:        models.PaymentKindCredits,
		Credits:     req.Credits,
		AmountCents: creditCfg.UnitPrice * int64(req.Credits),
	}
	return s.checkout(ctx, db, user, payment, creditCfg.Label, creditCfg.UnitPrice, int64(req.Credits), meta)
}

func (s *CreditServiceImpl) ConnectionCheckout(ctx context.Context, db *gorm.DB, userID, matchID string, meta *dto.RequestMeta) (*dto.CheckoutResponse, error) {
	match, err := s.matchRepo.FindByID(db, matchID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	if !match.HasParticipant(userID) {
		return nil, apperrors.ErrNotMatchParticipant
	}
	if match.IsChatUnlocked {
		return nil, apperrors.ErrInvalidOperation("match", "Chat is already unlocked")
	}

	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleRepoError(err)
	}

	payment := &models.Payment{
		UserID:      userID,
		Kind:        models.PaymentKindConnection,
		AmountCents: s.cfg.ConnectionFeeCents,
		MatchID:     &match.ID,
	}
	return s.checkout(ctx, db, user, payment, "Mise en relation", s.cfg.ConnectionFeeCents, 1, meta)
}

func (s *CreditServiceImpl) checkout(ctx context.Context, db *gorm.DB, user *models.User, payment *models.Payment, product string, unitAmount, quantity int64, meta *dto.RequestMeta) (*dto.CheckoutResponse, error) {
	metadata := map[string]string{
		"user_id": user.ID,
		"kind":    string(payment.Kind),
	}
	if payment.Credits > 0 {
		metadata["credits"] = strconv.Itoa(payment.Credits)
	}
	if payment.PackCode != "" {
		metadata["pack"] = payment.PackCode
	}
	if payment.MatchID != nil {
		metadata["match_id"] = *payment.MatchID
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, payments.CheckoutRequest{
		UserID:      user.ID,
		Email:       user.Email,
		ProductName: product,
		UnitAmount:  unitAmount,
		Quantity:    quantity,
		Currency:    s.cfg.Currency,
		Metadata:    metadata,
		SuccessURL:  s.cfg.SuccessURL,
		CancelURL:   s.cfg.CancelURL,
	})
	if err != nil {
		metrics.RecordPayment(string(payment.Kind), "provider_error")
		return nil, apperrors.ErrPaymentProvider.WithError(err)
	}

	payment.Currency = s.cfg.Currency
	payment.StripeSessionID = session.ID
	payment.CheckoutURL = session.URL
	payment.Status = models.PaymentStatusPending
	if err := s.paymentRepo.Create(db, payment); err != nil {
		return nil, apperrors.InternalError(err)
	}

	metrics.RecordPayment(string(payment.Kind), "created")
	logger.CtxInfo(ctx, "checkout session created", "user_id", user.ID, "session_id", session.ID, "kind", payment.Kind)
	s.auditService.Log(db, AuditEntry{
		UserID: user.ID,
		Action: AuditCheckoutCreated,
		Details: map[string]interface{}{
			"session_id":   session.ID,
			"kind":         payment.Kind,
			"amount_cents": payment.AmountCents,
		},
		Meta: meta,
	})

	return &dto.CheckoutResponse{
		CheckoutURL: session.URL,
		SessionID:   session.ID,
		AmountCents: payment.AmountCents,
		Currency:    payment.Currency,
	}, nil
}

// =======================
// Применение оплаты
// =======================

func (s *CreditServiceImpl) PaymentStatus(ctx context.Context, db *gorm.DB, userID, sessionID string) (*dto.PaymentStatusResponse, error) {
	payment, err := s.paymentRepo.FindBySessionID(db, sessionID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	// чужой платеж не раскрываем
	if payment.UserID != userID {
		return nil, apperrors.ErrPaymentNotFound
	}

	applied := false
	if payment.Status == models.PaymentStatusPending {
		applied, err = s.resolve(ctx, db, payment)
		if err != nil {
			return nil, err
		}
	}

	return &dto.PaymentStatusResponse{
		SessionID: payment.StripeSessionID,
		Status:    string(payment.Status),
		Kind:      string(payment.Kind),
		Credits:   payment.Credits,
		Applied:   applied,
	}, nil
}

func (s *CreditServiceImpl) ReconcilePending(ctx context.Context, db *gorm.DB, olderThan time.Time, limit int) (int64, error) {
	pending, err := s.paymentRepo.FindPending(db, olderThan, limit)
	if err != nil {
		return 0, err
	}

	var applied int64
	for i := range pending {
		if ctx.Err() != nil {
			return applied, ctx.Err()
		}
		ok, err := s.resolve(ctx, db, &pending[i])
		if err != nil {
			logger.CtxWarn(ctx, "failed to reconcile payment", "session_id", pending[i].StripeSessionID, "error", err)
			continue
		}
		if ok {
			applied++
		}
	}
	return applied, nil
}

// resolve сверяет платеж со Stripe. true - оплата применена этим вызовом.
func (s *CreditServiceImpl) resolve(ctx context.Context, db *gorm.DB, payment *models.Payment) (bool, error) {
	session, err := s.gateway.GetCheckoutSession(ctx, payment.StripeSessionID)
	if err != nil {
		return false, apperrors.ErrPaymentProvider.WithError(err)
	}

	switch session.Status {
	case payments.SessionPaid:
		return s.applyPaid(ctx, db, payment)
	case payments.SessionExpired:
		changed, err := s.paymentRepo.TransitionStatus(db, payment.ID, models.PaymentStatusExpired, time.Now())
		if err != nil {
			return false, apperrors.InternalError(err)
		}
		if changed {
			payment.Status = models.PaymentStatusExpired
			metrics.RecordPayment(string(payment.Kind), string(models.PaymentStatusExpired))
		}
	}
	return false, nil
}

// applyPaid переводит платеж в paid и начисляет покупку в одной транзакции.
// Условие status = pending гарантирует однократное применение.
func (s *CreditServiceImpl) applyPaid(ctx context.Context, db *gorm.DB, payment *models.Payment) (bool, error) {
	now := time.Now()

	tx := db.Begin()
	if tx.Error != nil {
		return false, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	changed, err := s.paymentRepo.TransitionStatus(tx, payment.ID, models.PaymentStatusPaid, now)
	if err != nil {
		return false, apperrors.InternalError(err)
	}
	if !changed {
		// уже применен параллельно
		payment.Status = models.PaymentStatusPaid
		return false, nil
	}

	if err := s.apply(tx, payment, now); err != nil {
		return false, err
	}

	if err := tx.Commit().Error; err != nil {
		return false, apperrors.InternalError(err)
	}

	payment.Status = models.PaymentStatusPaid
	payment.PaidAt = &now
	metrics.RecordPayment(string(payment.Kind), string(models.PaymentStatusPaid))
	logger.CtxInfo(ctx, "payment applied", "session_id", payment.StripeSessionID, "user_id", payment.UserID, "kind", payment.Kind)

	s.afterApply(db, payment)
	return true, nil
}

func (s *CreditServiceImpl) apply(tx *gorm.DB, payment *models.Payment, now time.Time) error {
	switch payment.Kind {
	case models.PaymentKindCredits:
		if _, err := s.userRepo.AdjustCredits(tx, payment.UserID, payment.Credits); err != nil {
			return handleRepoError(err)
		}
	case models.PaymentKindPack:
		pack, ok := models.FindPack(payment.PackCode)
		if !ok {
			return apperrors.ErrUnknownPack
		}
		if err := s.userRepo.ActivatePack(tx, payment.UserID, pack, now); err != nil {
			return handleRepoError(err)
		}
	case models.PaymentKindConnection:
		if payment.MatchID == nil {
			return apperrors.InternalError(errors.New("connection payment without match"))
		}
		// уже открытый чат - не ошибка, деньги просто подтверждают доступ
		if _, err := s.matchRepo.Unlock(tx, *payment.MatchID, payment.UserID, now); err != nil {
			return handleRepoError(err)
		}
	default:
		return apperrors.InternalError(fmt.Errorf("unknown payment kind %q", payment.Kind))
	}
	return nil
}

func (s *CreditServiceImpl) afterApply(db *gorm.DB, payment *models.Payment) {
	details := map[string]interface{}{
		"session_id": payment.StripeSessionID,
		"kind":       payment.Kind,
	}

	if payment.Kind == models.PaymentKindConnection {
		s.notificationService.Notify(db, payment.UserID, models.NotificationChatUnlocked, "Discussion débloquée", map[string]interface{}{
			"match_id": *payment.MatchID,
		})
		if match, err := s.matchRepo.FindByID(db, *payment.MatchID); err == nil {
			s.notificationService.Notify(db, match.OtherParticipant(payment.UserID), models.NotificationChatUnlocked, "Discussion débloquée", map[string]interface{}{
				"match_id": match.ID,
			})
		}
	} else {
		credits, err := s.userRepo.GetCredits(db, payment.UserID)
		if err == nil {
			details["credits"] = credits
		}
		s.notificationService.Notify(db, payment.UserID, models.NotificationCreditsUpdated, "Crédits mis à jour", map[string]interface{}{
			"credits": credits,
			"pack":    payment.PackCode,
		})
	}

	s.auditService.Log(db, AuditEntry{
		UserID:  payment.UserID,
		Action:  AuditPaymentApplied,
		Details: details,
	})
}

func (s *CreditServiceImpl) ExpireSubscriptions(db *gorm.DB) (int64, error) {
	return s.userRepo.ExpireSubscriptions(db, time.Now())
}

// artisan - покупки кредитов и паков доступны только артизанам
func (s *CreditServiceImpl) artisan(db *gorm.DB, userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	if !user.IsArtisan() {
		return nil, apperrors.ErrInvalidUserType
	}
	return user, nil
}
