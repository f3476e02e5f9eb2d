package services

import (
	"swipetonpro_backend/internal/algorithms"
	"swipetonpro_backend/internal/models"
	"swipetonpro_backend/internal/repositories"
	"swipetonpro_backend/internal/services/dto"
	"swipetonpro_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProjectService interface {
	Create(db *gorm.DB, ownerID string, req *dto.CreateProjectRequest) (*models.Project, error)
	// List: свои проекты для particulier, подходящие открытые для artisan
	List(db *gorm.DB, userID string) ([]dto.ProjectView, error)
	Get(db *gorm.DB, userID, projectID string) (*dto.ProjectView, error)
	Close(db *gorm.DB, userID, projectID string) (*models.Project, error)
}

type ProjectServiceImpl struct {
	projectRepo repositories.ProjectRepository
	userRepo    repositories.UserRepository
}

func NewProjectService(projectRepo repositories.ProjectRepository, userRepo repositories.UserRepository) ProjectService {
	return &ProjectServiceImpl{
		projectRepo: projectRepo,
		userRepo:    userRepo,
	}
}

func (s *ProjectServiceImpl) Create(db *gorm.DB, ownerID string, req *dto.CreateProjectRequest) (*models.Project, error) {
	owner, err := s.userRepo.FindByID(db, ownerID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	if !owner.IsParticulier() {
		return nil, apperrors.ErrInvalidUserType
	}
	if req.BudgetMin != nil && req.BudgetMax != nil && *req.BudgetMin > *req.BudgetMax {
		return nil, apperrors.ErrInvalidBudget
	}

	urgency := req.Urgency
	if urgency == "" {
		urgency = "normal"
	}

	project := &models.Project{
		OwnerID:          ownerID,
		Title:            req.Title,
		Description:      req.Description,
		Professions:      datatypes.JSONSlice[string](uniqueStrings(req.Professions)),
		BudgetMin:        req.BudgetMin,
		BudgetMax:        req.BudgetMax,
		City:             req.City,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		Urgency:          urgency,
		TechnicalDetails: req.TechnicalDetails,
		Status:           models.ProjectStatusOpen,
	}
	// город и координаты по умолчанию берем из профиля
	if project.City == "" && owner.ParticulierProfile != nil {
		project.City = owner.ParticulierProfile.City
		if project.Latitude == nil {
			project.Latitude = owner.ParticulierProfile.Latitude
			project.Longitude = owner.ParticulierProfile.Longitude
		}
	}

	if err := s.projectRepo.Create(db, project); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return project, nil
}

func (s *ProjectServiceImpl) List(db *gorm.DB, userID string) ([]dto.ProjectView, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleRepoError(err)
	}

	if user.IsParticulier() {
		projects, err := s.projectRepo.FindByOwner(db, userID)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		views := make([]dto.ProjectView, 0, len(projects))
		for _, p := range projects {
			views = append(views, dto.ProjectView{Project: p})
		}
		return views, nil
	}

	var offered []string
	if user.ArtisanProfile != nil {
		offered = user.ArtisanProfile.Professions
	}

	projects, err := s.projectRepo.FindOpen(db, []string{userID})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	views := make([]dto.ProjectView, 0)
	for _, p := range projects {
		overlap := algorithms.ProfessionOverlap(p.Professions, offered)
		if len(overlap) == 0 {
			continue
		}
		views = append(views, dto.ProjectView{Project: p, MatchingProfessions: overlap})
	}
	return views, nil
}

func (s *ProjectServiceImpl) Get(db *gorm.DB, userID, projectID string) (*dto.ProjectView, error) {
	project, err := s.projectRepo.FindByID(db, projectID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	if project.OwnerID == userID {
		return &dto.ProjectView{Project: *project}, nil
	}

	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	// чужие проекты видят только артизаны и только открытые
	if !user.IsArtisan() || project.Status != models.ProjectStatusOpen {
		return nil, apperrors.ErrProjectNotFound
	}

	view := &dto.ProjectView{Project: *project}
	if user.ArtisanProfile != nil {
		view.MatchingProfessions = algorithms.ProfessionOverlap(project.Professions, user.ArtisanProfile.Professions)
	}
	return view, nil
}

func (s *ProjectServiceImpl) Close(db *gorm.DB, userID, projectID string) (*models.Project, error) {
	project, err := s.projectRepo.FindByID(db, projectID)
	if err != nil {
		return nil, handleRepoError(err)
	}
	if project.OwnerID != userID {
		return nil, apperrors.ErrInsufficientPermissions
	}
	if project.Status == models.ProjectStatusClosed {
		return project, nil
	}

	if err := s.projectRepo.Close(db, projectID); err != nil {
		return nil, handleRepoError(err)
	}
	project.Status = models.ProjectStatusClosed
	return project, nil
}
