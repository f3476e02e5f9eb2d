package services

import (
	"time"

	"swipetonpro_backend/internal/logger"
	"swipetonpro_backend/internal/metrics"
	"swipetonpro_backend/internal/models"
	"swipetonpro_backend/internal/repositories"
	"swipetonpro_backend/internal/services/dto"
	"swipetonpro_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type MatchService interface {
	List(db *gorm.DB, userID string) ([]dto.MatchResponse, error)
	// Unlock открывает чат. Повторный вызов ничего не списывает.
	Unlock(db *gorm.DB, userID, matchID string) (*dto.UnlockResponse, error)
	SendMessage(db *gorm.DB, senderID string, req *dto.SendMessageRequest) (*models.Message, error)
	GetMessages(db *gorm.DB, userID, matchID string, limit, offset int) ([]models.Message, error)
}

type MatchServiceImpl struct {
	matchRepo           repositories.MatchRepository
	messageRepo         repositories.MessageRepository
	userRepo            repositories.UserRepository
	notificationService NotificationService
	unlockCost          int
}

func NewMatchService(
	matchRepo repositories.MatchRepository,
	messageRepo repositories.MessageRepository,
	userRepo repositories.UserRepository,
	notificationService NotificationService,
	unlockCost int,
) MatchService {
	if unlockCost < 0 {
		unlockCost = 0
	}
	return &MatchServiceImpl{
		matchRepo:           matchRepo,
		messageRepo:         messageRepo,
		userRepo:            userRepo,
		notificationService: notificationService,
		unlockCost:          unlockCost,
	}
}

func (s *MatchServiceImpl) List(db *gorm.DB, userID string) ([]dto.MatchResponse, error) {
	matches, err := s.matchRepo.FindByUser(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if len(matches) == 0 {
		return []dto.MatchResponse{}, nil
	}

	otherIDs := make([]string, 0, len(matches))
	for _, m := range matches {
		otherIDs = append(otherIDs, m.OtherParticipant(userID))
	}
	others, err := s.userRepo.FindByIDs(db, otherIDs)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	byID := make(map[string]*models.User, len(others))
	for i := range others {
		byID[others[i].ID] = &others[i]
	}

	out := make([]dto.MatchResponse, 0, len(matches))
	for _, m := range matches {
		other, ok := byID[m.OtherParticipant(userID)]
		if !ok {
			// пользователь удален, матч больше не показываем
			continue
		}
		unread, err := s.messageRepo.CountUnread(db, m.ID, userID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		out = append(out, dto.MatchResponse{
			ID:             m.ID,
			OtherUser:      dto.NewPublicUser(other),
			IsChatUnlocked: m.IsChatUnlocked,
			UnlockedAt:     m.UnlockedAt,
			UnreadCount:    unread,
			CreatedAt:      m.CreatedAt,
		})
	}
	return out, nil
}

func (s *MatchServiceImpl) Unlock(db *gorm.DB, userID, matchID string) (*dto.UnlockResponse, error) {
	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	match, err := s.participantMatch(tx, userID, matchID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(tx, userID)
	if err != nil {
		return nil, handleRepoError(err)
	}

	if match.IsChatUnlocked {
		return &dto.UnlockResponse{
			Match:            match,
			AlreadyUnlocked:  true,
			CreditsRemaining: user.Credits,
		}, nil
	}

	cost := 0
	if user.IsArtisan() && !user.UnlimitedCredits {
		cost = s.unlockCost
	}
	if cost > 0 {
		if err := s.userRepo.DeductCredits(tx, userID, cost); err != nil {
			return nil, handleRepoError(err)
		}
	}

	now := time.Now()
	changed, err := s.matchRepo.Unlock(tx, matchID, userID, now)
	if err != nil {
		return nil, handleRepoError(err)
	}
	if !changed {
		// параллельный запрос успел раньше: списание откатывается вместе с tx
		tx.Rollback()
		fresh, err := s.matchRepo.FindByID(db, matchID)
		if err != nil {
			return nil, handleRepoError(err)
		}
		return &dto.UnlockResponse{Match: fresh, AlreadyUnlocked: true, CreditsRemaining: user.Credits}, nil
	}

	credits, err := s.userRepo.GetCredits(tx, userID)
	if err != nil {
		return nil, handleRepoError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	match.IsChatUnlocked = true
	match.UnlockedBy = &userID
	match.UnlockedAt = &now

	if cost > 0 {
		metrics.RecordCreditsSpent("unlock", cost)
	}
	logger.Info("chat unlocked", "match_id", matchID, "user_id", userID, "cost", cost)

	s.notificationService.Notify(db, match.OtherParticipant(userID), models.NotificationChatUnlocked, "Discussion débloquée", map[string]interface{}{
		"match_id": matchID,
	})

	return &dto.UnlockResponse{
		Match:            match,
		CreditsSpent:     cost,
		CreditsRemaining: credits,
	}, nil
}

func (s *MatchServiceImpl) SendMessage(db *gorm.DB, senderID string, req *dto.SendMessageRequest) (*models.Message, error) {
	match, err := s.participantMatch(db, senderID, req.MatchID)
	if err != nil {
		return nil, err
	}
	if !match.IsChatUnlocked {
		return nil, apperrors.ErrChatLocked
	}

	messageType := models.MessageType(req.MessageType)
	if messageType == "" {
		messageType = models.MessageTypeText
	}
	if messageType == models.MessageTypeQuoteRequest && req.QuoteAmount == nil {
		return nil, apperrors.ValidationError(map[string]string{"quote_amount": "quote_amount is required for quote_request"})
	}
	if messageType == models.MessageTypeMeetingRequest && req.MeetingDate == nil {
		return nil, apperrors.ValidationError(map[string]string{"meeting_date": "meeting_date is required for meeting_request"})
	}

	message := &models.Message{
		MatchID:     match.ID,
		SenderID:    senderID,
		Content:     req.Content,
		MessageType: messageType,
		QuoteAmount: req.QuoteAmount,
		MeetingDate: req.MeetingDate,
	}
	if err := s.messageRepo.Create(db, message); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.notificationService.Notify(db, match.OtherParticipant(senderID), models.NotificationNewMessage, "Nouveau message", map[string]interface{}{
		"match_id":   match.ID,
		"message_id": message.ID,
		"sender_id":  senderID,
		"preview":    preview(message.Content, 80),
	})
	return message, nil
}

func (s *MatchServiceImpl) GetMessages(db *gorm.DB, userID, matchID string, limit, offset int) ([]models.Message, error) {
	match, err := s.participantMatch(db, userID, matchID)
	if err != nil {
		return nil, err
	}

	messages, err := s.messageRepo.FindByMatch(db, match.ID, limit, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	if _, err := s.messageRepo.MarkRead(db, match.ID, userID); err != nil {
		logger.Warn("failed to mark messages read", "match_id", match.ID, "error", err)
	}
	return messages, nil
}

func (s *MatchServiceImpl) participantMatch(db *gorm.DB, userID, matchID string) (*models.Match, error) {
	match, err := s.matchRepo.FindByID(db, matchID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	if !match.HasParticipant(userID) {
		return nil, apperrors.ErrNotMatchParticipant
	}
	return match, nil
}

func preview(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "…"
}
