package handlers

import (
	"net/http"

	"swipetonpro_backend/internal/middleware"
	"swipetonpro_backend/internal/models"
	"swipetonpro_backend/internal/services"
	"swipetonpro_backend/internal/services/dto"
	"swipetonpro_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	*BaseHandler
	profileService services.ProfileService
	maxImageSize   int64
}

func NewProfileHandler(base *BaseHandler, profileService services.ProfileService, maxImageSize int64) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler:    base,
		profileService: profileService,
		maxImageSize:   maxImageSize,
	}
}

func (h *ProfileHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	profiles := rg.Group("/profiles", authMW)
	{
		profiles.POST("", h.Upsert)
		profiles.PUT("/me", h.Upsert)
		profiles.GET("/me", h.GetMine)
		profiles.POST("/me/portfolio", middleware.RequireUserType(models.UserTypeArtisan), h.UploadPortfolio)
	}

	rg.GET("/artisan/profiles", authMW, h.SearchArtisans)
}

// GetMine godoc
// @Summary Мой профиль
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Router /profiles/me [get]
func (h *ProfileHandler) GetMine(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	user, err := h.profileService.GetMine(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// Upsert godoc
// @Summary Создать или обновить профиль
// @Description Набор полей зависит от user_type: artisan или particulier
// @Tags profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ProfileRequest true "Поля профиля"
// @Success 200 {object} models.User
// @Failure 422 {object} apperrors.ErrorResponse
// @Router /profiles/me [put]
func (h *ProfileHandler) Upsert(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ProfileRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.profileService.Upsert(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// SearchArtisans godoc
// @Summary Поиск артизанов
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Param profession query string false "Профессия"
// @Param city query string false "Город"
// @Param page query int false "Страница"
// @Param page_size query int false "Размер страницы"
// @Success 200 {object} dto.PaginatedResponse
// @Router /artisan/profiles [get]
func (h *ProfileHandler) SearchArtisans(c *gin.Context) {
	var req dto.ArtisanSearchRequest
	if !h.BindAndValidate_Query(c, &req) {
		return
	}

	result, err := h.profileService.SearchArtisans(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UploadPortfolio godoc
// @Summary Добавить фото в портфолио
// @Tags profiles
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Изображение"
// @Success 201 {object} dto.PortfolioResponse
// @Failure 413 {object} apperrors.ErrorResponse
// @Failure 415 {object} apperrors.ErrorResponse
// @Router /profiles/me/portfolio [post]
func (h *ProfileHandler) UploadPortfolio(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("File is required"))
		return
	}
	if h.maxImageSize > 0 && fileHeader.Size > h.maxImageSize {
		apperrors.HandleError(c, apperrors.ErrFileTooLarge)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	defer file.Close()

	resp, err := h.profileService.AddPortfolioImage(c.Request.Context(), h.GetDB(c), userID, file)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}
