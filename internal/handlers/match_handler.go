package handlers

import (
	"net/http"

	"swipetonpro_backend/internal/services"
	"swipetonpro_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type MatchHandler struct {
	*BaseHandler
	matchService  services.MatchService
	creditService services.CreditService
}

func NewMatchHandler(base *BaseHandler, matchService services.MatchService, creditService services.CreditService) *MatchHandler {
	return &MatchHandler{
		BaseHandler:   base,
		matchService:  matchService,
		creditService: creditService,
	}
}

func (h *MatchHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	matches := rg.Group("/matches", authMW)
	{
		matches.GET("", h.List)
		matches.POST("/:id/unlock", h.Unlock)
		matches.POST("/:id/unlock/checkout", h.UnlockCheckout)
	}

	messages := rg.Group("/messages", authMW)
	{
		messages.POST("", h.SendMessage)
		messages.GET("/:matchId", h.GetMessages)
	}
}

// List godoc
// @Summary Мои матчи
// @Tags matches
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.MatchResponse
// @Router /matches [get]
func (h *MatchHandler) List(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	matches, err := h.matchService.List(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

// Unlock godoc
// @Summary Открыть чат за кредиты
// @Description Повторный вызов ничего не списывает и возвращает already_unlocked=true
// @Tags matches
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID матча"
// @Success 200 {object} dto.UnlockResponse
// @Failure 402 {object} apperrors.ErrorResponse
// @Failure 403 {object} apperrors.ErrorResponse "Не участник"
// @Router /matches/{id}/unlock [post]
func (h *MatchHandler) Unlock(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.matchService.Unlock(h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UnlockCheckout godoc
// @Summary Открыть чат оплатой картой
// @Tags matches
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID матча"
// @Success 201 {object} dto.CheckoutResponse
// @Router /matches/{id}/unlock/checkout [post]
func (h *MatchHandler) UnlockCheckout(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.creditService.ConnectionCheckout(c.Request.Context(), h.GetDB(c), userID, c.Param("id"), h.RequestMeta(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// SendMessage godoc
// @Summary Отправить сообщение
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SendMessageRequest true "Сообщение"
// @Success 201 {object} models.Message
// @Failure 403 {object} apperrors.ErrorResponse "Чат закрыт"
// @Router /messages [post]
func (h *MatchHandler) SendMessage(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.SendMessageRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	message, err := h.matchService.SendMessage(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}

// GetMessages godoc
// @Summary История сообщений
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param matchId path string true "ID матча"
// @Param limit query int false "По умолчанию 50"
// @Param offset query int false "Смещение"
// @Success 200 {array} models.Message
// @Router /messages/{matchId} [get]
func (h *MatchHandler) GetMessages(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	limit, offset := ParseLimitOffset(c, 50, 200)

	messages, err := h.matchService.GetMessages(h.GetDB(c), userID, c.Param("matchId"), limit, offset)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}
