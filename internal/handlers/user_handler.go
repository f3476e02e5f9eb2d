package handlers

import (
	"net/http"

	"swipetonpro_backend/internal/services"
	"swipetonpro_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	*BaseHandler
	userService   services.UserService
	reportService services.ReportService
}

func NewUserHandler(base *BaseHandler, userService services.UserService, reportService services.ReportService) *UserHandler {
	return &UserHandler{
		BaseHandler:   base,
		userService:   userService,
		reportService: reportService,
	}
}

func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	// Публичный
	rg.GET("/users/featured", h.GetFeatured)

	users := rg.Group("/users", authMW)
	{
		users.GET("/me", h.GetMe)
		users.PUT("/me", h.UpdateMe)
	}

	rg.POST("/reports", authMW, h.CreateReport)
}

// GetMe godoc
// @Summary Мой аккаунт
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Router /users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetMe(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateMe godoc
// @Summary Обновить имя и телефон
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateUserRequest true "Поля для обновления"
// @Success 200 {object} models.User
// @Failure 422 {object} apperrors.ErrorResponse
// @Router /users/me [put]
func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateMe(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetFeatured godoc
// @Summary Избранный артизан
// @Description Возвращает null, если никто не выбран
// @Tags users
// @Produce json
// @Success 200 {object} dto.PublicUser
// @Router /users/featured [get]
func (h *UserHandler) GetFeatured(c *gin.Context) {
	featured, err := h.userService.GetFeatured(h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"featured": featured})
}

// CreateReport godoc
// @Summary Пожаловаться на пользователя
// @Tags reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateReportRequest true "Жалоба"
// @Success 201 {object} models.Report
// @Router /reports [post]
func (h *UserHandler) CreateReport(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateReportRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	report, err := h.reportService.Create(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, report)
}
