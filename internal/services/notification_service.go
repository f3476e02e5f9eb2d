package services

import (
	"time"

	"swipetonpro_backend/internal/logger"
	"swipetonpro_backend/internal/models"
	"swipetonpro_backend/internal/repositories"
	"swipetonpro_backend/internal/services/dto"
	"swipetonpro_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NotificationService interface {
	// Notify сохраняет уведомление и пушит его в WebSocket.
	// Ошибки только логируются: уведомление не должно ломать основную операцию.
	Notify(db *gorm.DB, userID, notificationType, title string, data map[string]interface{})
	List(db *gorm.DB, userID string, filter *dto.NotificationFilter) (*dto.NotificationListResponse, error)
	MarkRead(db *gorm.DB, userID, notificationID string) error
	MarkAllRead(db *gorm.DB, userID string) (int64, error)
}

type NotificationServiceImpl struct {
	notificationRepo repositories.NotificationRepository
	notifier         Notifier
}

func NewNotificationService(notificationRepo repositories.NotificationRepository, notifier Notifier) NotificationService {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	return &NotificationServiceImpl{
		notificationRepo: notificationRepo,
		notifier:         notifier,
	}
}

func (s *NotificationServiceImpl) Notify(db *gorm.DB, userID, notificationType, title string, data map[string]interface{}) {
	notification := &models.Notification{
		UserID: userID,
		Type:   notificationType,
		Title:  title,
		Data:   datatypes.JSONMap(data),
	}
	if err := s.notificationRepo.Create(db, notification); err != nil {
		logger.Error("failed to persist notification", "user_id", userID, "type", notificationType, "error", err)
		// офлайн-копии не будет, но онлайн-пользователь все равно получит событие
	}

	s.notifier.NotifyUser(userID, NewEvent(notificationType, notification))
}

func (s *NotificationServiceImpl) List(db *gorm.DB, userID string, filter *dto.NotificationFilter) (*dto.NotificationListResponse, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	notifications, err := s.notificationRepo.FindByUser(db, userID, filter.Unread, limit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	unread, err := s.notificationRepo.CountUnread(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.NotificationListResponse{
		Notifications: notifications,
		UnreadCount:   unread,
	}, nil
}

func (s *NotificationServiceImpl) MarkRead(db *gorm.DB, userID, notificationID string) error {
	return handleRepoError(s.notificationRepo.MarkRead(db, notificationID, userID, time.Now()))
}

func (s *NotificationServiceImpl) MarkAllRead(db *gorm.DB, userID string) (int64, error) {
	n, err := s.notificationRepo.MarkAllRead(db, userID, time.Now())
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return n, nil
}
