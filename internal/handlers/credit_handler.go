package handlers

import (
	"net/http"

	"swipetonpro_backend/internal/services"
	"swipetonpro_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// CreditHandler - паки, покупка кредитов и статус платежей Stripe
type CreditHandler struct {
	*BaseHandler
	creditService services.CreditService
}

func NewCreditHandler(base *BaseHandler, creditService services.CreditService) *CreditHandler {
	return &CreditHandler{
		BaseHandler:   base,
		creditService: creditService,
	}
}

func (h *CreditHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	subscription := rg.Group("/subscription")
	{
		subscription.GET("/packs", h.Packs)
		subscription.GET("/current", authMW, h.Current)
		subscription.POST("/purchase", authMW, h.PurchasePack)
	}

	rg.POST("/credits/purchase", authMW, h.PurchaseCredits)
	rg.GET("/payments/:sessionId/status", authMW, h.PaymentStatus)
}

// Packs godoc
// @Summary Каталог паков
// @Tags subscription
// @Produce json
// @Success 200 {array} models.SubscriptionPack
// @Router /subscription/packs [get]
func (h *CreditHandler) Packs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"packs": h.creditService.Packs()})
}

// Current godoc
// @Summary Баланс и активный пак
// @Tags subscription
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SubscriptionStatusResponse
// @Router /subscription/current [get]
func (h *CreditHandler) Current(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.creditService.Current(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// PurchasePack godoc
// @Summary Купить пак
// @Tags subscription
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.PurchasePackRequest true "starter, pro или unlimited"
// @Success 201 {object} dto.CheckoutResponse
// @Failure 403 {object} apperrors.ErrorResponse "Только для artisan"
// @Router /subscription/purchase [post]
func (h *CreditHandler) PurchasePack(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.PurchasePackRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.creditService.PurchasePack(c.Request.Context(), h.GetDB(c), userID, &req, h.RequestMeta(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// PurchaseCredits godoc
// @Summary Купить кредиты поштучно
// @Tags subscription
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.PurchaseCreditsRequest true "Количество"
// @Success 201 {object} dto.CheckoutResponse
// @Router /credits/purchase [post]
func (h *CreditHandler) PurchaseCredits(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.PurchaseCreditsRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.creditService.PurchaseCredits(c.Request.Context(), h.GetDB(c), userID, &req, h.RequestMeta(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// PaymentStatus godoc
// @Summary Статус оплаты
// @Description Опрашивает Stripe. Оплаченная сессия применяется ровно один раз.
// @Tags subscription
// @Produce json
// @Security BearerAuth
// @Param sessionId path string true "ID checkout-сессии"
// @Success 200 {object} dto.PaymentStatusResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /payments/{sessionId}/status [get]
func (h *CreditHandler) PaymentStatus(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.creditService.PaymentStatus(c.Request.Context(), h.GetDB(c), userID, c.Param("sessionId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
