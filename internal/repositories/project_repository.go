package repositories

import (
	"errors"

	"swipetonpro_backend/internal/models"

	"gorm.io/gorm"
)

var ErrProjectNotFound = errors.New("project not found")

type ProjectRepository interface {
	Create(db *gorm.DB, project *models.Project) error
	FindByID(db *gorm.DB, id string) (*models.Project, error)
	FindByOwner(db *gorm.DB, ownerID string) ([]models.Project, error)
	FindOpen(db *gorm.DB, excludeOwnerIDs []string) ([]models.Project, error)
	Close(db *gorm.DB, id string) error
	CountOpen(db *gorm.DB) (int64, error)
}

type ProjectRepositoryImpl struct{}

func NewProjectRepository() ProjectRepository {
	return &ProjectRepositoryImpl{}
}

func (r *ProjectRepositoryImpl) Create(db *gorm.DB, project *models.Project) error {
	if project.Status == "" {
		project.Status = models.ProjectStatusOpen
	}
	return db.Create(project).Error
}

func (r *ProjectRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Project, error) {
	var project models.Project
	if err := db.First(&project, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepositoryImpl) FindByOwner(db *gorm.DB, ownerID string) ([]models.Project, error) {
	var projects []models.Project
	err := db.Where("owner_id = ?", ownerID).Order("created_at DESC").Find(&projects).Error
	return projects, err
}

// FindOpen возвращает открытые проекты не заблокированных владельцев
func (r *ProjectRepositoryImpl) FindOpen(db *gorm.DB, excludeOwnerIDs []string) ([]models.Project, error) {
	var projects []models.Project
	query := db.Model(&models.Project{}).
		Joins("JOIN users ON users.id = projects.owner_id").
		Where("projects.status = ?", models.ProjectStatusOpen).
		Where("users.status <> ?", models.UserStatusSuspended)

	if len(excludeOwnerIDs) > 0 {
		query = query.Where("projects.owner_id NOT IN ?", excludeOwnerIDs)
	}

	err := query.Order("projects.created_at DESC").Find(&projects).Error
	return projects, err
}

func (r *ProjectRepositoryImpl) Close(db *gorm.DB, id string) error {
	result := db.Model(&models.Project{}).Where("id = ?", id).Update("status", models.ProjectStatusClosed)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}

func (r *ProjectRepositoryImpl) CountOpen(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&models.Project{}).Where("status = ?", models.ProjectStatusOpen).Count(&count).Error
	return count, err
}
