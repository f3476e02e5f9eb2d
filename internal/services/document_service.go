package services

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"swipetonpro_backend/internal/logger"
	"swipetonpro_backend/internal/models"
	"swipetonpro_backend/internal/repositories"
	"swipetonpro_backend/internal/services/dto"
	"swipetonpro_backend/internal/storage"
	"swipetonpro_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const signedURLTTL = 15 * time.Minute

type DocumentService interface {
	Upload(ctx context.Context, db *gorm.DB, userID string, upload *dto.DocumentUpload) (*models.Document, error)
	ListMine(ctx context.Context, db *gorm.DB, userID string) ([]models.Document, error)
	ListByUser(ctx context.Context, db *gorm.DB, userID string) ([]models.Document, error)

	// Админка
	List(ctx context.Context, db *gorm.DB, filter *dto.DocumentFilter) (*dto.PaginatedResponse, error)
	// Decide валидирует или отклоняет документ. Повтор того же решения ничего не меняет.
	Decide(ctx context.Context, db *gorm.DB, adminID, documentID string, status models.DocumentStatus, comment string, meta *dto.RequestMeta) (*models.Document, error)
}

type DocumentServiceImpl struct {
	documentRepo        repositories.DocumentRepository
	userRepo            repositories.UserRepository
	profileRepo         repositories.ProfileRepository
	storage             storage.Storage
	notificationService NotificationService
	mailService         MailService
	auditService        AuditService
	maxSize             int64
	allowedTypes        map[string]string // MIME -> расширение
}

func NewDocumentService(
	documentRepo repositories.DocumentRepository,
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	store storage.Storage,
	notificationService NotificationService,
	mailService MailService,
	auditService AuditService,
	maxSize int64,
	allowedTypes []string,
) DocumentService {
	allowed := make(map[string]string, len(allowedTypes))
	for _, t := range allowedTypes {
		allowed[t] = extensionFor(t)
	}
	return &DocumentServiceImpl{
		documentRepo:        documentRepo,
		userRepo:            userRepo,
		profileRepo:         profileRepo,
		storage:             store,
		notificationService: notificationService,
		mailService:         mailService,
		auditService:        auditService,
		maxSize:             maxSize,
		allowedTypes:        allowed,
	}
}

func (s *DocumentServiceImpl) Upload(ctx context.Context, db *gorm.DB, userID string, upload *dto.DocumentUpload) (*models.Document, error) {
	if upload.File == nil {
		return nil, apperrors.NewBadRequestError("File is required")
	}
	if s.maxSize > 0 && upload.Size > s.maxSize {
		return nil, apperrors.ErrFileTooLarge
	}

	// тип определяем по содержимому, а не по имени файла
	head := make([]byte, 512)
	n, err := io.ReadFull(upload.File, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, apperrors.InternalError(err)
	}
	head = head[:n]
	if n == 0 {
		return nil, apperrors.NewBadRequestError("File is empty")
	}

	contentType := strings.TrimSpace(strings.Split(http.DetectContentType(head), ";")[0])
	ext, ok := s.allowedTypes[contentType]
	if !ok {
		return nil, apperrors.ErrInvalidFileType.WithDetails(map[string]string{"content_type": contentType})
	}

	key := storage.DocumentKey(userID, ext)
	body := io.MultiReader(bytes.NewReader(head), upload.File)
	if err := s.storage.Save(ctx, key, body, contentType); err != nil {
		return nil, apperrors.InternalError(err)
	}

	name := upload.Name
	if name == "" {
		name = filepath.Base(upload.Filename)
	}
	if name == "" || name == "." {
		name = string(upload.DocumentType)
	}

	doc := &models.Document{
		UserID:       userID,
		Name:         name,
		DocumentType: models.DocumentType(upload.DocumentType),
		StorageKey:   key,
		ContentType:  contentType,
		Size:         upload.Size,
		Status:       models.DocumentStatusPending,
	}
	if err := s.documentRepo.Create(db, doc); err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			logger.CtxWarn(ctx, "failed to delete orphan document", "key", key, "error", delErr)
		}
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "document uploaded", "user_id", userID, "document_id", doc.ID, "type", doc.DocumentType)
	s.attachURL(ctx, doc)
	return doc, nil
}

func (s *DocumentServiceImpl) ListMine(ctx context.Context, db *gorm.DB, userID string) ([]models.Document, error) {
	return s.ListByUser(ctx, db, userID)
}

func (s *DocumentServiceImpl) ListByUser(ctx context.Context, db *gorm.DB, userID string) ([]models.Document, error) {
	docs, err := s.documentRepo.FindByUser(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	for i := range docs {
		s.attachURL(ctx, &docs[i])
	}
	return docs, nil
}

func (s *DocumentServiceImpl) List(ctx context.Context, db *gorm.DB, filter *dto.DocumentFilter) (*dto.PaginatedResponse, error) {
	page, pageSize, offset := pageOffset(filter.Page, filter.PageSize)
	docs, total, err := s.documentRepo.FindByStatus(db, models.DocumentStatus(filter.Status), pageSize, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	for i := range docs {
		s.attachURL(ctx, &docs[i])
	}
	return dto.NewPaginatedResponse(docs, total, page, pageSize), nil
}

func (s *DocumentServiceImpl) Decide(ctx context.Context, db *gorm.DB, adminID, documentID string, status models.DocumentStatus, comment string, meta *dto.RequestMeta) (*models.Document, error) {
	if status != models.DocumentStatusValidated && status != models.DocumentStatusRejected {
		return nil, apperrors.ErrInvalidOperation("document", "Status must be validated or rejected")
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	doc, err := s.documentRepo.FindByID(tx, documentID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	if doc.Status == status {
		s.attachURL(ctx, doc)
		return doc, nil
	}

	now := time.Now()
	if err := s.documentRepo.UpdateStatus(tx, doc.ID, status, comment, adminID, now); err != nil {
		return nil, handleRepoError(err)
	}
	doc.Status = status
	doc.AdminComment = comment
	doc.ValidatedBy = &adminID
	doc.ValidatedAt = &now

	user, err := s.userRepo.FindByID(tx, doc.UserID)
	if err != nil {
		return nil, handleRepoError(err)
	}

	// валидный документ артизана подтверждает профиль, обратного перехода нет
	if status == models.DocumentStatusValidated && user.IsArtisan() {
		if user.ArtisanProfile != nil && user.ArtisanProfile.ValidationStatus == models.ValidationStatusPending {
			if err := s.profileRepo.UpdateArtisanValidation(tx, user.ID, models.ValidationStatusValidated, ""); err != nil {
				return nil, handleRepoError(err)
			}
		}
		if user.Status == models.UserStatusGhost {
			if err := s.userRepo.UpdateStatus(tx, user.ID, models.UserStatusValidated); err != nil {
				return nil, handleRepoError(err)
			}
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "document decided", "document_id", doc.ID, "status", status, "admin_id", adminID)

	s.notificationService.Notify(db, doc.UserID, models.NotificationDocumentStatus, "Document "+string(status), map[string]interface{}{
		"document_id": doc.ID,
		"status":      status,
		"comment":     comment,
	})
	s.mailService.SendDocumentStatus(user, doc)
	s.auditService.Log(db, AuditEntry{
		UserID:  adminID,
		Action:  AuditDocumentDecided,
		Details: map[string]interface{}{"document_id": doc.ID, "user_id": doc.UserID, "status": status},
		Meta:    meta,
	})

	s.attachURL(ctx, doc)
	return doc, nil
}

// attachURL заполняет временную ссылку; если подпись не поддерживается,
// отдаем обычный URL
func (s *DocumentServiceImpl) attachURL(ctx context.Context, doc *models.Document) {
	url, err := s.storage.GetSignedURL(ctx, doc.StorageKey, signedURLTTL)
	if err != nil || url == "" {
		url, err = s.storage.GetURL(ctx, doc.StorageKey)
	}
	if err != nil {
		logger.CtxWarn(ctx, "failed to build document url", "document_id", doc.ID, "error", err)
		return
	}
	doc.URL = url
}

func extensionFor(contentType string) string {
	switch contentType {
	case "application/pdf":
		return ".pdf"
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	}
	return ".bin"
}
