package handlers

import (
	"net/http"

	"swipetonpro_backend/internal/middleware"
	"swipetonpro_backend/internal/models"
	"swipetonpro_backend/internal/services"
	"swipetonpro_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type SwipeHandler struct {
	*BaseHandler
	swipeService services.SwipeService
}

func NewSwipeHandler(base *BaseHandler, swipeService services.SwipeService) *SwipeHandler {
	return &SwipeHandler{
		BaseHandler:  base,
		swipeService: swipeService,
	}
}

func (h *SwipeHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	swipes := rg.Group("/swipes", authMW)
	{
		swipes.GET("/candidates", h.Candidates)
		swipes.POST("", h.Swipe)
	}

	// Старые пути мобильного клиента
	swipe := rg.Group("/swipe", authMW)
	{
		swipe.POST("", h.Swipe)
		swipe.POST("/boost", middleware.RequireUserType(models.UserTypeArtisan), h.Boost)
	}
}

// Candidates godoc
// @Summary Лента свайпов
// @Description Пользователи противоположного типа, которых вызывающий еще не свайпал, по убыванию релевантности
// @Tags swipes
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Максимум карточек (1-50)"
// @Success 200 {array} dto.Candidate
// @Router /swipes/candidates [get]
func (h *SwipeHandler) Candidates(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CandidatesRequest
	if !h.BindAndValidate_Query(c, &req) {
		return
	}

	candidates, err := h.swipeService.Candidates(h.GetDB(c), userID, req.Limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"candidates": candidates})
}

// Swipe godoc
// @Summary Свайп
// @Description Like списывает кредит у артизана. Взаимный like создает матч.
// @Tags swipes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SwipeRequest true "Цель и действие"
// @Success 201 {object} dto.SwipeResponse
// @Failure 402 {object} apperrors.ErrorResponse "Нет кредитов"
// @Failure 409 {object} apperrors.ErrorResponse "Уже свайпнут"
// @Router /swipes [post]
func (h *SwipeHandler) Swipe(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SwipeRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.swipeService.Swipe(h.GetDB(c), userID, &req, h.RequestMeta(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Boost godoc
// @Summary Буст профиля
// @Tags swipes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.BoostResponse
// @Failure 400 {object} apperrors.ErrorResponse "Буст выключен"
// @Failure 402 {object} apperrors.ErrorResponse
// @Router /swipe/boost [post]
func (h *SwipeHandler) Boost(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.swipeService.Boost(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
