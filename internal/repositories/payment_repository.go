package repositories

import (
	"errors"
	"time"

	"swipetonpro_backend/internal/models"

	"gorm.io/gorm"
)

var ErrPaymentNotFound = errors.New("payment not found")

type PaymentRepository interface {
	Create(db *gorm.DB, payment *models.Payment) error
	FindBySessionID(db *gorm.DB, sessionID string) (*models.Payment, error)
	FindPending(db *gorm.DB, olderThan time.Time, limit int) ([]models.Payment, error)
	FindByUser(db *gorm.DB, userID string) ([]models.Payment, error)
	TransitionStatus(db *gorm.DB, id string, to models.PaymentStatus, at time.Time) (bool, error)
}

type PaymentRepositoryImpl struct{}

func NewPaymentRepository() PaymentRepository {
	return &PaymentRepositoryImpl{}
}

func (r *PaymentRepositoryImpl) Create(db *gorm.DB, payment *models.Payment) error {
	if payment.Status == "" {
		payment.Status = models.PaymentStatusPending
	}
	return db.Create(payment).Error
}

func (r *PaymentRepositoryImpl) FindBySessionID(db *gorm.DB, sessionID string) (*models.Payment, error) {
	var payment models.Payment
	if err := db.First(&payment, "stripe_session_id = ?", sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return &payment, nil
}

// FindPending - ожидающие платежи, созданные раньше olderThan
func (r *PaymentRepositoryImpl) FindPending(db *gorm.DB, olderThan time.Time, limit int) ([]models.Payment, error) {
	var payments []models.Payment
	err := db.Where("status = ? AND created_at < ?", models.PaymentStatusPending, olderThan).
		Order("created_at ASC").Limit(limit).Find(&payments).Error
	return payments, err
}

func (r *PaymentRepositoryImpl) FindByUser(db *gorm.DB, userID string) ([]models.Payment, error) {
	var payments []models.Payment
	err := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&payments).Error
	return payments, err
}

// TransitionStatus переводит платеж из pending. false - платеж уже обработан.
func (r *PaymentRepositoryImpl) TransitionStatus(db *gorm.DB, id string, to models.PaymentStatus, at time.Time) (bool, error) {
	updates := map[string]interface{}{"status": to}
	if to == models.PaymentStatusPaid {
		updates["paid_at"] = at
	}
	result := db.Model(&models.Payment{}).
		Where("id = ? AND status = ?", id, models.PaymentStatusPending).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
