package handlers

import (
	"net/http"

	"swipetonpro_backend/internal/auth"
	"swipetonpro_backend/internal/middleware"
	"swipetonpro_backend/internal/models"
	"swipetonpro_backend/internal/services"
	"swipetonpro_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// AdminHandler - вход в админку, статистика, пользователи, журнал и конфиг
type AdminHandler struct {
	*BaseHandler
	adminAuthService services.AdminAuthService
	adminService     services.AdminService
	auditService     services.AuditService
	configService    services.ConfigService
}

func NewAdminHandler(
	base *BaseHandler,
	adminAuthService services.AdminAuthService,
	adminService services.AdminService,
	auditService services.AuditService,
	configService services.ConfigService,
) *AdminHandler {
	return &AdminHandler{
		BaseHandler:      base,
		adminAuthService: adminAuthService,
		adminService:     adminService,
		auditService:     auditService,
		configService:    configService,
	}
}

// RegisterRoutes: rg - группа /api/admin
func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup, adminMW gin.HandlerFunc) {
	rg.POST("/login", h.Login)

	protected := rg.Group("", adminMW)
	{
		protected.GET("/me", h.Me)
		protected.GET("/stats", h.Stats)
	}

	users := protected.Group("/users", middleware.RequirePermission(auth.PermissionManageUsers))
	{
		users.GET("", h.ListUsers)
		users.GET("/:id", h.GetUser)
		users.PUT("/:id", h.UpdateUserStatus)
		users.PUT("/:id/validate", h.setUserStatus(models.UserStatusValidated))
		users.PUT("/:id/suspend", h.setUserStatus(models.UserStatusSuspended))
		users.PUT("/:id/feature", h.FeatureUser)
		users.DELETE("/:id", h.DeleteUser)
		users.POST("/:id/credits", h.AdjustCredits)
	}

	superAdmin := protected.Group("", middleware.RequireSuperAdmin())
	{
		superAdmin.GET("/logs", h.Logs)
		superAdmin.GET("/credit-config", h.GetCreditConfig)
		superAdmin.PUT("/credit-config", h.UpdateCreditConfig)
		superAdmin.GET("/boost-config", h.GetBoostConfig)
		superAdmin.PUT("/boost-config", h.UpdateBoostConfig)
	}
}

// Login godoc
// @Summary Вход администратора
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.AdminLoginRequest true "Email и пароль"
// @Success 200 {object} dto.AdminAuthResponse
// @Failure 401 {object} apperrors.ErrorResponse
// @Failure 429 {object} apperrors.ErrorResponse
// @Router /admin/login [post]
func (h *AdminHandler) Login(c *gin.Context) {
	var req dto.AdminLoginRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.adminAuthService.Login(c.Request.Context(), h.GetDB(c), &req, h.RequestMeta(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) Me(c *gin.Context) {
	admin, ok := h.GetAdmin(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, admin)
}

// Stats godoc
// @Summary Статистика платформы
// @Tags admin
// @Produce json
// @Security AdminAuth
// @Success 200 {object} dto.StatsResponse
// @Router /admin/stats [get]
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.adminService.Stats(h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// ListUsers godoc
// @Summary Список пользователей
// @Tags admin
// @Produce json
// @Security AdminAuth
// @Param page query int false "Страница"
// @Param page_size query int false "Размер страницы"
// @Param status query string false "ghost, validated, suspended"
// @Param user_type query string false "particulier, artisan"
// @Param search query string false "Поиск по email и имени"
// @Success 200 {object} dto.PaginatedResponse
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	var filter dto.AdminUserFilter
	if !h.BindAndValidate_Query(c, &filter) {
		return
	}

	result, err := h.adminService.ListUsers(h.GetDB(c), &filter)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *AdminHandler) GetUser(c *gin.Context) {
	detail, err := h.adminService.GetUser(c.Request.Context(), h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// UpdateUserStatus godoc
// @Summary Сменить статус пользователя
// @Tags admin
// @Accept json
// @Produce json
// @Security AdminAuth
// @Param id path string true "ID пользователя"
// @Param request body dto.UpdateUserStatusRequest true "Новый статус"
// @Success 200 {object} models.User
// @Router /admin/users/{id} [put]
func (h *AdminHandler) UpdateUserStatus(c *gin.Context) {
	var req dto.UpdateUserStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	h.applyUserStatus(c, models.UserStatus(req.Status))
}

func (h *AdminHandler) setUserStatus(status models.UserStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.applyUserStatus(c, status)
	}
}

func (h *AdminHandler) applyUserStatus(c *gin.Context, status models.UserStatus) {
	admin, ok := h.GetAdmin(c)
	if !ok {
		return
	}

	user, err := h.adminService.UpdateUserStatus(h.GetDB(c), admin.ID, c.Param("id"), status, h.RequestMeta(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// FeatureUser godoc
// @Summary Сделать пользователя избранным
// @Description Предыдущий избранный пользователь снимается в той же транзакции
// @Tags admin
// @Produce json
// @Security AdminAuth
// @Param id path string true "ID пользователя"
// @Success 200 {object} models.User
// @Router /admin/users/{id}/feature [put]
func (h *AdminHandler) FeatureUser(c *gin.Context) {
	admin, ok := h.GetAdmin(c)
	if !ok {
		return
	}

	user, err := h.adminService.FeatureUser(h.GetDB(c), admin.ID, c.Param("id"), h.RequestMeta(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	admin, ok := h.GetAdmin(c)
	if !ok {
		return
	}

	if err := h.adminService.DeleteUser(h.GetDB(c), admin.ID, c.Param("id"), h.RequestMeta(c)); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AdjustCredits godoc
// @Summary Начислить или списать кредиты
// @Description Баланс не уходит ниже нуля
// @Tags admin
// @Accept json
// @Produce json
// @Security AdminAuth
// @Param id path string true "ID пользователя"
// @Param request body dto.AdjustCreditsRequest true "Изменение баланса"
// @Success 200 {object} dto.AdjustCreditsResponse
// @Router /admin/users/{id}/credits [post]
func (h *AdminHandler) AdjustCredits(c *gin.Context) {
	admin, ok := h.GetAdmin(c)
	if !ok {
		return
	}

	var req dto.AdjustCreditsRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.adminService.AdjustCredits(h.GetDB(c), admin.ID, c.Param("id"), &req, h.RequestMeta(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Logs godoc
// @Summary Журнал аудита
// @Tags admin
// @Produce json
// @Security AdminAuth
// @Param action query string false "Действие"
// @Param user_id query string false "ID пользователя или админа"
// @Param limit query int false "Максимум (до 500)"
// @Success 200 {array} models.AuditLog
// @Router /admin/logs [get]
func (h *AdminHandler) Logs(c *gin.Context) {
	var filter dto.LogsFilter
	if !h.BindAndValidate_Query(c, &filter) {
		return
	}

	logs, err := h.auditService.List(h.GetDB(c), &filter)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

func (h *AdminHandler) GetCreditConfig(c *gin.Context) {
	cfg, err := h.configService.GetCreditConfig(h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (h *AdminHandler) UpdateCreditConfig(c *gin.Context) {
	admin, ok := h.GetAdmin(c)
	if !ok {
		return
	}

	var req dto.CreditConfigRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	cfg, err := h.configService.UpdateCreditConfig(h.GetDB(c), admin.ID, &req, h.RequestMeta(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// GetBoostConfig godoc
// @Summary Настройки буста
// @Description С artisan_id возвращает персональную настройку, иначе глобальную
// @Tags admin
// @Produce json
// @Security AdminAuth
// @Param artisan_id query string false "ID артизана"
// @Success 200 {object} models.BoostConfig
// @Router /admin/boost-config [get]
func (h *AdminHandler) GetBoostConfig(c *gin.Context) {
	cfg, err := h.configService.GetBoostConfig(h.GetDB(c), c.Query("artisan_id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (h *AdminHandler) UpdateBoostConfig(c *gin.Context) {
	admin, ok := h.GetAdmin(c)
	if !ok {
		return
	}

	var req dto.BoostConfigRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	cfg, err := h.configService.UpdateBoostConfig(h.GetDB(c), admin.ID, &req, h.RequestMeta(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}
