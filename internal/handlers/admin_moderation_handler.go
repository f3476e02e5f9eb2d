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

// AdminModerationHandler - проверка документов и жалобы
type AdminModerationHandler struct {
	*BaseHandler
	documentService services.DocumentService
	reportService   services.ReportService
}

func NewAdminModerationHandler(base *BaseHandler, documentService services.DocumentService, reportService services.ReportService) *AdminModerationHandler {
	return &AdminModerationHandler{
		BaseHandler:     base,
		documentService: documentService,
		reportService:   reportService,
	}
}

func (h *AdminModerationHandler) RegisterRoutes(rg *gin.RouterGroup, adminMW gin.HandlerFunc) {
	documents := rg.Group("/documents", adminMW, middleware.RequirePermission(auth.PermissionValidateDocuments))
	{
		documents.GET("", h.ListDocuments)
		documents.GET("/pending", h.ListPendingDocuments)
		documents.PUT("/:id/validate", h.DecideDocument)
		documents.PUT("/:id/approve", h.ApproveDocument)
		documents.PUT("/:id/reject", h.RejectDocument)
	}

	reports := rg.Group("/reports", adminMW, middleware.RequirePermission(auth.PermissionManageReports))
	{
		reports.GET("", h.ListReports)
		reports.PUT("/:id/resolve", h.ResolveReport)
	}
}

// ListDocuments godoc
// @Summary Документы на проверке
// @Tags admin
// @Produce json
// @Security AdminAuth
// @Param status query string false "pending, validated, rejected"
// @Param page query int false "Страница"
// @Param page_size query int false "Размер страницы"
// @Success 200 {object} dto.PaginatedResponse
// @Router /admin/documents [get]
func (h *AdminModerationHandler) ListDocuments(c *gin.Context) {
	var filter dto.DocumentFilter
	if !h.BindAndValidate_Query(c, &filter) {
		return
	}
	h.listDocuments(c, &filter)
}

func (h *AdminModerationHandler) ListPendingDocuments(c *gin.Context) {
	var filter dto.DocumentFilter
	if !h.BindAndValidate_Query(c, &filter) {
		return
	}
	filter.Status = string(models.DocumentStatusPending)
	h.listDocuments(c, &filter)
}

func (h *AdminModerationHandler) listDocuments(c *gin.Context, filter *dto.DocumentFilter) {
	result, err := h.documentService.List(c.Request.Context(), h.GetDB(c), filter)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// DecideDocument godoc
// @Summary Решение по документу
// @Description validated валидирует профиль артизана и пользователя, rejected оставляет профиль на проверке
// @Tags admin
// @Accept json
// @Produce json
// @Security AdminAuth
// @Param id path string true "ID документа"
// @Param request body dto.ValidateDocumentRequest true "Решение"
// @Success 200 {object} models.Document
// @Router /admin/documents/{id}/validate [put]
func (h *AdminModerationHandler) DecideDocument(c *gin.Context) {
	var req dto.ValidateDocumentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}
	h.decide(c, models.DocumentStatus(req.Status), req.Comment)
}

func (h *AdminModerationHandler) ApproveDocument(c *gin.Context) {
	h.decide(c, models.DocumentStatusValidated, "")
}

func (h *AdminModerationHandler) RejectDocument(c *gin.Context) {
	var req dto.RejectDocumentRequest
	// тело необязательно
	if c.Request.ContentLength > 0 && !h.BindAndValidate_JSON(c, &req) {
		return
	}
	h.decide(c, models.DocumentStatusRejected, req.Comment)
}

func (h *AdminModerationHandler) decide(c *gin.Context, status models.DocumentStatus, comment string) {
	admin, ok := h.GetAdmin(c)
	if !ok {
		return
	}

	doc, err := h.documentService.Decide(c.Request.Context(), h.GetDB(c), admin.ID, c.Param("id"), status, comment, h.RequestMeta(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

func (h *AdminModerationHandler) ListReports(c *gin.Context) {
	var filter dto.ReportFilter
	if !h.BindAndValidate_Query(c, &filter) {
		return
	}

	result, err := h.reportService.List(h.GetDB(c), &filter)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ResolveReport godoc
// @Summary Закрыть жалобу
// @Tags admin
// @Accept json
// @Produce json
// @Security AdminAuth
// @Param id path string true "ID жалобы"
// @Param request body dto.ResolveReportRequest true "resolved или dismissed"
// @Success 200 {object} models.Report
// @Router /admin/reports/{id}/resolve [put]
func (h *AdminModerationHandler) ResolveReport(c *gin.Context) {
	admin, ok := h.GetAdmin(c)
	if !ok {
		return
	}

	var req dto.ResolveReportRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	report, err := h.reportService.Resolve(h.GetDB(c), admin.ID, c.Param("id"), &req, h.RequestMeta(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
