package handlers

import (
	"net/http"

	"swipetonpro_backend/internal/services"
	"swipetonpro_backend/internal/services/dto"
	"swipetonpro_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type DocumentHandler struct {
	*BaseHandler
	documentService services.DocumentService
}

func NewDocumentHandler(base *BaseHandler, documentService services.DocumentService) *DocumentHandler {
	return &DocumentHandler{
		BaseHandler:     base,
		documentService: documentService,
	}
}

func (h *DocumentHandler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	documents := rg.Group("/documents", authMW)
	{
		documents.POST("", h.Upload)
		documents.GET("/me", h.ListMine)
	}
}

// Upload godoc
// @Summary Загрузить документ на проверку
// @Description Принимаются pdf, jpeg и png. Тип определяется по содержимому файла.
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Файл"
// @Param document_type formData string true "kbis, carte_identite, justificatif_domicile, diplome, portfolio, other"
// @Param name formData string false "Название"
// @Success 201 {object} models.Document
// @Failure 413 {object} apperrors.ErrorResponse
// @Failure 415 {object} apperrors.ErrorResponse
// @Router /documents [post]
func (h *DocumentHandler) Upload(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var upload dto.DocumentUpload
	if !h.BindAndValidate_Form(c, &upload) {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("File is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	defer file.Close()

	upload.Filename = fileHeader.Filename
	upload.Size = fileHeader.Size
	upload.File = file

	doc, err := h.documentService.Upload(c.Request.Context(), h.GetDB(c), userID, &upload)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, doc)
}

// ListMine godoc
// @Summary Мои документы
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Document
// @Router /documents/me [get]
func (h *DocumentHandler) ListMine(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	docs, err := h.documentService.ListMine(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"documents": docs})
}
