package services

import (
	"errors"

	"swipetonpro_backend/internal/repositories"
	"swipetonpro_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// handleRepoError переводит sentinel-ошибки репозиториев в AppError.
// Уже готовые AppError проходят как есть.
func handleRepoError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperrors.AsAppError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, repositories.ErrUserNotFound):
		return apperrors.ErrUserNotFound
	case errors.Is(err, repositories.ErrUserAlreadyExists):
		return apperrors.ErrEmailAlreadyExists
	case errors.Is(err, repositories.ErrInsufficientCredits):
		return apperrors.ErrInsufficientCredits
	case errors.Is(err, repositories.ErrProfileNotFound):
		return apperrors.ErrProfileNotFound
	case errors.Is(err, repositories.ErrProjectNotFound):
		return apperrors.ErrProjectNotFound
	case errors.Is(err, repositories.ErrDuplicateSwipe):
		return apperrors.ErrDuplicateSwipe
	case errors.Is(err, repositories.ErrMatchNotFound):
		return apperrors.ErrMatchNotFound
	case errors.Is(err, repositories.ErrDocumentNotFound):
		return apperrors.ErrDocumentNotFound
	case errors.Is(err, repositories.ErrAdminNotFound):
		return apperrors.ErrAdminNotFound
	case errors.Is(err, repositories.ErrAdminAlreadyExists):
		return apperrors.ErrAdminAlreadyExists
	case errors.Is(err, repositories.ErrInvitationNotFound):
		return apperrors.ErrInvitationInvalid
	case errors.Is(err, repositories.ErrReportNotFound):
		return apperrors.ErrReportNotFound
	case errors.Is(err, repositories.ErrPaymentNotFound):
		return apperrors.ErrPaymentNotFound
	case errors.Is(err, repositories.ErrNotificationNotFound):
		return apperrors.NewNotFoundError("notification", "Notification not found")
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.NewNotFoundError("system", "Record not found")
	}
	return apperrors.InternalError(err)
}

// pageOffset нормализует пагинацию: page от 1, pageSize 1..100 (20 по умолчанию)
func pageOffset(page, pageSize int) (int, int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize, (page - 1) * pageSize
}
