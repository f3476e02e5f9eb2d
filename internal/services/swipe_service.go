package services

import (
	"errors"
	"time"

	"swipetonpro_backend/internal/algorithms"
	"swipetonpro_backend/internal/logger"
	"swipetonpro_backend/internal/metrics"
	"swipetonpro_backend/internal/models"
	"swipetonpro_backend/internal/repositories"
	"swipetonpro_backend/internal/services/dto"
	"swipetonpro_backend/pkg/apperrors"

	"gorm.io/gorm"
)

const defaultCandidatesLimit = 20

type SwipeService interface {
	Candidates(db *gorm.DB, userID string, limit int) ([]dto.Candidate, error)
	Swipe(db *gorm.DB, actorID string, req *dto.SwipeRequest, meta *dto.RequestMeta) (*dto.SwipeResponse, error)
	Boost(db *gorm.DB, userID string) (*dto.BoostResponse, error)
}

type SwipeServiceImpl struct {
	userRepo            repositories.UserRepository
	profileRepo         repositories.ProfileRepository
	projectRepo         repositories.ProjectRepository
	swipeRepo           repositories.SwipeRepository
	matchRepo           repositories.MatchRepository
	configRepo          repositories.ConfigRepository
	scorer              *algorithms.CandidateScorer
	notificationService NotificationService
	mailService         MailService
	auditService        AuditService
}

func NewSwipeService(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	projectRepo repositories.ProjectRepository,
	swipeRepo repositories.SwipeRepository,
	matchRepo repositories.MatchRepository,
	configRepo repositories.ConfigRepository,
	scorer *algorithms.CandidateScorer,
	notificationService NotificationService,
	mailService MailService,
	auditService AuditService,
) SwipeService {
	return &SwipeServiceImpl{
		userRepo:            userRepo,
		profileRepo:         profileRepo,
		projectRepo:         projectRepo,
		swipeRepo:           swipeRepo,
		matchRepo:           matchRepo,
		configRepo:          configRepo,
		scorer:              scorer,
		notificationService: notificationService,
		mailService:         mailService,
		auditService:        auditService,
	}
}

// =======================
// Лента кандидатов
// =======================

func (s *SwipeServiceImpl) Candidates(db *gorm.DB, userID string, limit int) ([]dto.Candidate, error) {
	if limit <= 0 || limit > 50 {
		limit = defaultCandidatesLimit
	}

	actor, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	if actor.Status == models.UserStatusSuspended {
		return nil, apperrors.ErrUserSuspended
	}

	swiped, err := s.swipeRepo.SwipedTargetIDs(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	exclude := append(swiped, userID)

	var ranked []algorithms.Ranked[dto.Candidate]
	if actor.IsParticulier() {
		ranked, err = s.artisanCandidates(db, actor, exclude)
	} else {
		ranked, err = s.particulierCandidates(db, actor, exclude)
	}
	if err != nil {
		return nil, err
	}

	algorithms.SortByScore(ranked)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]dto.Candidate, 0, len(ranked))
	for _, r := range ranked {
		c := r.Item
		c.Score = r.Score.Score
		c.Reasons = r.Score.Reasons
		out = append(out, c)
	}
	return out, nil
}

// artisanCandidates - лента particulier: валидированные артизаны,
// оценка по лучшему из открытых проектов
func (s *SwipeServiceImpl) artisanCandidates(db *gorm.DB, actor *models.User, exclude []string) ([]algorithms.Ranked[dto.Candidate], error) {
	artisans, err := s.profileRepo.FindArtisanCandidates(db, exclude)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	own, err := s.projectRepo.FindByOwner(db, actor.ID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	open := make([]models.Project, 0, len(own))
	for _, p := range own {
		if p.Status == models.ProjectStatusOpen {
			open = append(open, p)
		}
	}

	var loc algorithms.Location
	if actor.ParticulierProfile != nil {
		loc = algorithms.Location{
			City:      actor.ParticulierProfile.City,
			Latitude:  actor.ParticulierProfile.Latitude,
			Longitude: actor.ParticulierProfile.Longitude,
		}
	}

	now := s.scorer.Now()
	ranked := make([]algorithms.Ranked[dto.Candidate], 0, len(artisans))
	for i := range artisans {
		artisan := &artisans[i]
		if artisan.ArtisanProfile == nil {
			continue
		}
		score, project := s.scorer.BestProjectScore(artisan.ArtisanProfile, artisan.IsFeatured, open, loc)
		ranked = append(ranked, algorithms.Ranked[dto.Candidate]{
			Item: dto.Candidate{
				User:    dto.NewPublicUser(artisan),
				Project: project,
				Boosted: artisan.ArtisanProfile.IsBoosted(now),
			},
			Score: score,
		})
	}
	return ranked, nil
}

// particulierCandidates - лента артизана: владельцы открытых проектов
func (s *SwipeServiceImpl) particulierCandidates(db *gorm.DB, actor *models.User, exclude []string) ([]algorithms.Ranked[dto.Candidate], error) {
	if actor.ArtisanProfile == nil {
		return nil, nil
	}

	projects, err := s.projectRepo.FindOpen(db, exclude)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if len(projects) == 0 {
		return nil, nil
	}

	byOwner := make(map[string][]models.Project)
	ownerIDs := make([]string, 0)
	for _, p := range projects {
		if _, ok := byOwner[p.OwnerID]; !ok {
			ownerIDs = append(ownerIDs, p.OwnerID)
		}
		byOwner[p.OwnerID] = append(byOwner[p.OwnerID], p)
	}

	owners, err := s.userRepo.FindByIDs(db, ownerIDs)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	ranked := make([]algorithms.Ranked[dto.Candidate], 0, len(owners))
	for i := range owners {
		owner := &owners[i]
		if !owner.IsParticulier() || owner.Status == models.UserStatusSuspended {
			continue
		}

		var loc algorithms.Location
		if owner.ParticulierProfile != nil {
			loc = algorithms.Location{
				City:      owner.ParticulierProfile.City,
				Latitude:  owner.ParticulierProfile.Latitude,
				Longitude: owner.ParticulierProfile.Longitude,
			}
		}

		score, project := s.scorer.BestProjectScore(actor.ArtisanProfile, owner.IsFeatured, byOwner[owner.ID], loc)
		ranked = append(ranked, algorithms.Ranked[dto.Candidate]{
			Item: dto.Candidate{
				User:    dto.NewPublicUser(owner),
				Project: project,
			},
			Score: score,
		})
	}
	return ranked, nil
}

// =======================
// Свайп
// =======================

// Swipe записывает свайп и, при взаимном лайке, создает матч.
// Лайк артизана списывает кредит в той же транзакции.
func (s *SwipeServiceImpl) Swipe(db *gorm.DB, actorID string, req *dto.SwipeRequest, meta *dto.RequestMeta) (*dto.SwipeResponse, error) {
	if actorID == req.TargetID {
		return nil, apperrors.ErrSelfSwipe
	}
	action := models.SwipeAction(req.Action)

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	actor, err := s.userRepo.FindByID(tx, actorID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	if actor.Status == models.UserStatusSuspended {
		return nil, apperrors.ErrUserSuspended
	}

	target, err := s.userRepo.FindByID(tx, req.TargetID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrSwipeTargetNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	if target.Status == models.UserStatusSuspended {
		return nil, apperrors.ErrSwipeTargetNotFound
	}
	if target.UserType == actor.UserType {
		return nil, apperrors.ErrInvalidOperation("swipe", "Target must be of the opposite user type")
	}

	// встречные лайки A->B и B->A сериализуются на блокировке пары
	if err := s.userRepo.LockPair(tx, actorID, req.TargetID); err != nil {
		return nil, handleRepoError(err)
	}

	// повтор отсекаем до списания, чтобы вернуть 409, а не 402
	exists, err := s.swipeRepo.Exists(tx, actorID, req.TargetID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if exists {
		metrics.RecordSwipe(string(actor.UserType), req.Action, "duplicate")
		return nil, apperrors.ErrDuplicateSwipe
	}

	charged := actor.IsArtisan() && action == models.SwipeActionLike && !actor.UnlimitedCredits
	if charged {
		if err := s.userRepo.DeductCredits(tx, actorID, 1); err != nil {
			if errors.Is(err, repositories.ErrInsufficientCredits) {
				metrics.RecordSwipe(string(actor.UserType), req.Action, "payment_required")
			}
			return nil, handleRepoError(err)
		}
	}

	swipe := &models.Swipe{
		ActorID:  actorID,
		TargetID: req.TargetID,
		Action:   action,
		Boosted:  actor.ArtisanProfile != nil && actor.ArtisanProfile.IsBoosted(time.Now()),
	}
	if err := s.swipeRepo.Create(tx, swipe); err != nil {
		return nil, handleRepoError(err)
	}

	var match *models.Match
	matchCreated := false
	if action == models.SwipeActionLike {
		reciprocal, err := s.swipeRepo.HasLiked(tx, req.TargetID, actorID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		if reciprocal {
			match, matchCreated, err = s.matchRepo.CreateIfAbsent(tx, actorID, req.TargetID)
			if err != nil {
				return nil, apperrors.InternalError(err)
			}
		}
	}

	credits, err := s.userRepo.GetCredits(tx, actorID)
	if err != nil {
		return nil, handleRepoError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.SwipeResponse{
		Swipe:            swipe,
		IsMatch:          match != nil,
		CreditsRemaining: credits,
		Unlimited:        actor.UnlimitedCredits,
	}
	if match != nil {
		resp.MatchID = &match.ID
	}

	result := "ok"
	if match != nil {
		result = "match"
	}
	metrics.RecordSwipe(string(actor.UserType), req.Action, result)
	if charged {
		metrics.RecordCreditsSpent("like", 1)
	}

	s.auditService.Log(db, AuditEntry{
		UserID:  actorID,
		Action:  AuditSwipe,
		Details: map[string]interface{}{"target_id": req.TargetID, "action": req.Action, "charged": charged},
		Meta:    meta,
	})

	if matchCreated {
		s.onMatchCreated(db, match, actor, target, meta)
	}
	return resp, nil
}

func (s *SwipeServiceImpl) onMatchCreated(db *gorm.DB, match *models.Match, actor, target *models.User, meta *dto.RequestMeta) {
	metrics.RecordMatch()
	logger.Info("match created", "match_id", match.ID, "user1_id", match.User1ID, "user2_id", match.User2ID)

	s.notificationService.Notify(db, actor.ID, models.NotificationMatchCreated, "Nouveau match !", map[string]interface{}{
		"match_id":   match.ID,
		"other_user": dto.NewPublicUser(target),
	})
	s.notificationService.Notify(db, target.ID, models.NotificationMatchCreated, "Nouveau match !", map[string]interface{}{
		"match_id":   match.ID,
		"other_user": dto.NewPublicUser(actor),
	})

	s.mailService.SendMatch(actor, target)
	s.mailService.SendMatch(target, actor)

	s.auditService.Log(db, AuditEntry{
		UserID:  actor.ID,
		Action:  AuditMatchCreated,
		Details: map[string]interface{}{"match_id": match.ID, "other_user_id": target.ID},
		Meta:    meta,
	})
}

// =======================
// Буст
// =======================

// Boost списывает cost кредитов и продлевает boosted_until.
// Безлимитный пак буст не покрывает.
func (s *SwipeServiceImpl) Boost(db *gorm.DB, userID string) (*dto.BoostResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	if !user.IsArtisan() {
		return nil, apperrors.ErrInvalidUserType
	}

	cfg, err := s.configRepo.GetBoostConfig(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !cfg.Enabled {
		return nil, apperrors.ErrBoostDisabled
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	if cfg.Cost > 0 {
		if err := s.userRepo.DeductCredits(tx, userID, cfg.Cost); err != nil {
			return nil, handleRepoError(err)
		}
	}

	profile, err := s.profileRepo.FindArtisanProfileByUserID(tx, userID)
	if err != nil {
		return nil, handleRepoError(err)
	}

	// активный буст продлевается, а не перезаписывается
	base := time.Now()
	if profile.BoostedUntil != nil && profile.BoostedUntil.After(base) {
		base = *profile.BoostedUntil
	}
	until := base.Add(time.Duration(cfg.DurationHours) * time.Hour)

	if err := s.profileRepo.SetBoostedUntil(tx, userID, until); err != nil {
		return nil, handleRepoError(err)
	}

	credits, err := s.userRepo.GetCredits(tx, userID)
	if err != nil {
		return nil, handleRepoError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	metrics.RecordCreditsSpent("boost", cfg.Cost)
	s.notificationService.Notify(db, userID, models.NotificationCreditsUpdated, "Profil boosté", map[string]interface{}{
		"credits":       credits,
		"boosted_until": until,
	})

	return &dto.BoostResponse{
		BoostedUntil:     until,
		Cost:             cfg.Cost,
		CreditsRemaining: credits,
	}, nil
}
