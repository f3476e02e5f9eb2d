package services

import (
	"errors"
	"strings"
	"time"

	"swipetonpro_backend/internal/auth"
	"swipetonpro_backend/internal/logger"
	"swipetonpro_backend/internal/models"
	"swipetonpro_backend/internal/repositories"
	"swipetonpro_backend/internal/services/dto"
	"swipetonpro_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const invitationTTL = 7 * 24 * time.Hour

// AdminTeamService - управление командой админов (только super_admin)
type AdminTeamService interface {
	ListAdmins(db *gorm.DB) ([]models.Admin, error)
	Invite(db *gorm.DB, inviterID string, req *dto.CreateAdminRequest, meta *dto.RequestMeta) (*dto.InvitationResponse, error)
	ListInvitations(db *gorm.DB) ([]models.Invitation, error)
	AcceptInvitation(db *gorm.DB, req *dto.AcceptInvitationRequest) (*models.Admin, error)
	UpdatePermissions(db *gorm.DB, actorID, adminID string, req *dto.UpdatePermissionsRequest, meta *dto.RequestMeta) (*models.Admin, error)
	DeleteAdmin(db *gorm.DB, actorID, adminID string, meta *dto.RequestMeta) error
	// EnsureFirstAdmin создает super_admin при пустой таблице admins
	EnsureFirstAdmin(db *gorm.DB, email, password string) (bool, error)
}

type AdminTeamServiceImpl struct {
	adminRepo    repositories.AdminRepository
	mailService  MailService
	auditService AuditService
}

func NewAdminTeamService(adminRepo repositories.AdminRepository, mailService MailService, auditService AuditService) AdminTeamService {
	return &AdminTeamServiceImpl{
		adminRepo:    adminRepo,
		mailService:  mailService,
		auditService: auditService,
	}
}

func (s *AdminTeamServiceImpl) ListAdmins(db *gorm.DB) ([]models.Admin, error) {
	admins, err := s.adminRepo.FindAll(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return admins, nil
}

func (s *AdminTeamServiceImpl) ListInvitations(db *gorm.DB) ([]models.Invitation, error) {
	invitations, err := s.adminRepo.FindInvitations(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return invitations, nil
}

// Invite создает неактивного админа и приглашение. Аккаунт включается
// только через AcceptInvitation.
func (s *AdminTeamServiceImpl) Invite(db *gorm.DB, inviterID string, req *dto.CreateAdminRequest, meta *dto.RequestMeta) (*dto.InvitationResponse, error) {
	role := models.AdminRole(req.Role)
	if !auth.IsValidAdminRole(role) {
		return nil, apperrors.ValidationError(map[string]string{"role": "unknown admin role"})
	}
	permissions := req.Permissions
	if len(permissions) == 0 {
		permissions = auth.DefaultPermissions[role]
	}

	token, err := auth.RandomToken(32)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	// пароль-заглушка, войти с ним нельзя: аккаунт неактивен до принятия
	placeholder, err := auth.RandomToken(32)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	placeholderHash, err := auth.HashPassword(placeholder)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	admin, err := s.adminRepo.FindByEmail(tx, req.Email)
	switch {
	case err == nil:
		if admin.IsActive {
			return nil, apperrors.ErrAdminAlreadyExists
		}
		// повторное приглашение неактивного админа обновляет роль
		admin.Role = role
		admin.Permissions = datatypes.JSONSlice[string](permissions)
		if req.Name != "" {
			admin.Name = req.Name
		}
		if err := s.adminRepo.Update(tx, admin); err != nil {
			return nil, apperrors.InternalError(err)
		}
	case errors.Is(err, repositories.ErrAdminNotFound):
		admin = &models.Admin{
			Email:        req.Email,
			Name:         req.Name,
			PasswordHash: placeholderHash,
			Role:         role,
			Permissions:  datatypes.JSONSlice[string](permissions),
			IsActive:     false,
		}
		if err := s.adminRepo.Create(tx, admin); err != nil {
			return nil, handleRepoError(err)
		}
	default:
		return nil, apperrors.InternalError(err)
	}

	invitation := &models.Invitation{
		Email:       admin.Email,
		Role:        role,
		Permissions: datatypes.JSONSlice[string](permissions),
		Token:       token,
		InvitedBy:   inviterID,
		ExpiresAt:   time.Now().Add(invitationTTL),
	}
	if err := s.adminRepo.CreateInvitation(tx, invitation); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.mailService.SendAdminInvitation(admin.Email, role, token, invitation.ExpiresAt)
	s.auditService.Log(db, AuditEntry{
		UserID:  inviterID,
		Action:  AuditAdminInvited,
		Details: map[string]interface{}{"email": admin.Email, "role": role, "admin_id": admin.ID},
		Meta:    meta,
	})

	return &dto.InvitationResponse{Invitation: invitation, Admin: admin, Token: token}, nil
}

func (s *AdminTeamServiceImpl) AcceptInvitation(db *gorm.DB, req *dto.AcceptInvitationRequest) (*models.Admin, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ValidationError(map[string]string{"password": err.Error()})
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	invitation, err := s.adminRepo.FindInvitationByToken(tx, strings.TrimSpace(req.Token))
	if err != nil {
		return nil, handleRepoError(err)
	}
	now := time.Now()
	if !invitation.IsUsable(now) {
		return nil, apperrors.ErrInvitationInvalid
	}

	accepted, err := s.adminRepo.MarkInvitationAccepted(tx, invitation.ID, now)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !accepted {
		return nil, apperrors.ErrInvitationInvalid
	}

	admin, err := s.adminRepo.FindByEmail(tx, invitation.Email)
	if err != nil {
		return nil, handleRepoError(err)
	}
	admin.PasswordHash = hash
	admin.IsActive = true
	admin.Role = invitation.Role
	admin.Permissions = invitation.Permissions
	if req.Name != "" {
		admin.Name = req.Name
	}
	if err := s.adminRepo.Update(tx, admin); err != nil {
		return nil, apperrors.InternalError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.Info("admin activated", "admin_id", admin.ID, "role", admin.Role)
	s.auditService.Log(db, AuditEntry{
		UserID:  admin.ID,
		Action:  AuditAdminActivated,
		Details: map[string]interface{}{"invitation_id": invitation.ID},
	})
	return admin, nil
}

func (s *AdminTeamServiceImpl) UpdatePermissions(db *gorm.DB, actorID, adminID string, req *dto.UpdatePermissionsRequest, meta *dto.RequestMeta) (*models.Admin, error) {
	if actorID == adminID {
		return nil, apperrors.ErrCannotModifySelf
	}
	admin, err := s.adminRepo.FindByID(db, adminID)
	if err != nil {
		return nil, handleRepoError(err)
	}

	if req.Role != "" {
		admin.Role = models.AdminRole(req.Role)
	}
	admin.Permissions = datatypes.JSONSlice[string](uniqueStrings(req.Permissions))
	if err := s.adminRepo.Update(db, admin); err != nil {
		return nil, apperrors.InternalError(err)
	}

	s.auditService.Log(db, AuditEntry{
		UserID:  actorID,
		Action:  AuditAdminPermissions,
		Details: map[string]interface{}{"admin_id": adminID, "role": admin.Role, "permissions": []string(admin.Permissions)},
		Meta:    meta,
	})
	return admin, nil
}

func (s *AdminTeamServiceImpl) DeleteAdmin(db *gorm.DB, actorID, adminID string, meta *dto.RequestMeta) error {
	if actorID == adminID {
		return apperrors.ErrCannotModifySelf
	}
	if err := s.adminRepo.Delete(db, adminID); err != nil {
		return handleRepoError(err)
	}
	s.auditService.Log(db, AuditEntry{
		UserID:  actorID,
		Action:  AuditAdminDeleted,
		Details: map[string]interface{}{"admin_id": adminID},
		Meta:    meta,
	})
	return nil
}

func (s *AdminTeamServiceImpl) EnsureFirstAdmin(db *gorm.DB, email, password string) (bool, error) {
	if email == "" || password == "" {
		return false, nil
	}
	count, err := s.adminRepo.CountAll(db)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return false, err
	}
	admin := &models.Admin{
		Email:        email,
		Name:         "Super Admin",
		PasswordHash: hash,
		Role:         models.AdminRoleSuperAdmin,
		Permissions:  datatypes.JSONSlice[string](auth.AllPermissions),
		IsActive:     true,
	}
	if err := s.adminRepo.Create(db, admin); err != nil {
		return false, err
	}
	logger.Info("first super admin created", "email", admin.Email)
	return true, nil
}
