package handlers

import (
	"net/http"

	"swipetonpro_backend/internal/middleware"
	"swipetonpro_backend/internal/services"
	"swipetonpro_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// AdminTeamHandler - управление администраторами (только super_admin)
type AdminTeamHandler struct {
	*BaseHandler
	teamService services.AdminTeamService
}

func NewAdminTeamHandler(base *BaseHandler, teamService services.AdminTeamService) *AdminTeamHandler {
	return &AdminTeamHandler{
		BaseHandler: base,
		teamService: teamService,
	}
}

func (h *AdminTeamHandler) RegisterRoutes(rg *gin.RouterGroup, adminMW gin.HandlerFunc) {
	// Публичный: приглашенный еще не имеет токена
	rg.POST("/invitations/accept", h.AcceptInvitation)

	team := rg.Group("", adminMW, middleware.RequireSuperAdmin())
	{
		team.GET("/admins", h.ListAdmins)
		team.GET("/admins/list", h.ListAdmins)
		team.POST("/admins/create", h.Invite)
		team.POST("/admins/invite", h.Invite)
		team.PUT("/admins/:id/permissions", h.UpdatePermissions)
		team.DELETE("/admins/:id", h.DeleteAdmin)
		team.GET("/invitations", h.ListInvitations)
	}
}

func (h *AdminTeamHandler) ListAdmins(c *gin.Context) {
	admins, err := h.teamService.ListAdmins(h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"admins": admins})
}

// Invite godoc
// @Summary Пригласить администратора
// @Description Создает неактивного админа и приглашение. Токен приходит на email.
// @Tags admin
// @Accept json
// @Produce json
// @Security AdminAuth
// @Param request body dto.CreateAdminRequest true "Новый админ"
// @Success 201 {object} dto.InvitationResponse
// @Failure 409 {object} apperrors.ErrorResponse "Админ уже существует"
// @Router /admin/admins/create [post]
func (h *AdminTeamHandler) Invite(c *gin.Context) {
	admin, ok := h.GetAdmin(c)
	if !ok {
		return
	}

	var req dto.CreateAdminRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.teamService.Invite(h.GetDB(c), admin.ID, &req, h.RequestMeta(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *AdminTeamHandler) ListInvitations(c *gin.Context) {
	invitations, err := h.teamService.ListInvitations(h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invitations": invitations})
}

// AcceptInvitation godoc
// @Summary Принять приглашение
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.AcceptInvitationRequest true "Токен и пароль"
// @Success 200 {object} models.Admin
// @Failure 400 {object} apperrors.ErrorResponse "Токен недействителен"
// @Router /admin/invitations/accept [post]
func (h *AdminTeamHandler) AcceptInvitation(c *gin.Context) {
	var req dto.AcceptInvitationRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	admin, err := h.teamService.AcceptInvitation(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, admin)
}

func (h *AdminTeamHandler) UpdatePermissions(c *gin.Context) {
	admin, ok := h.GetAdmin(c)
	if !ok {
		return
	}

	var req dto.UpdatePermissionsRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	updated, err := h.teamService.UpdatePermissions(h.GetDB(c), admin.ID, c.Param("id"), &req, h.RequestMeta(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *AdminTeamHandler) DeleteAdmin(c *gin.Context) {
	admin, ok := h.GetAdmin(c)
	if !ok {
		return
	}

	if err := h.teamService.DeleteAdmin(h.GetDB(c), admin.ID, c.Param("id"), h.RequestMeta(c)); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
