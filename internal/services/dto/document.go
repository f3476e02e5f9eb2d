package dto

import "io"

// DocumentUpload собирается хендлером из multipart формы
type DocumentUpload struct {
	Name         string    `form:"name" validate:"omitempty,max=200"`
	DocumentType string    `form:"document_type" validate:"required,is-document-type"`
	Filename     string    `form:"-"`
	Size         int64     `form:"-"`
	File         io.Reader `form:"-" validate:"-"`
}

type ValidateDocumentRequest struct {
	Status  string `json:"status" validate:"required,is-document-status"`
	Comment string `json:"comment" validate:"omitempty,max=1000"`
}

type RejectDocumentRequest struct {
	Comment string `json:"comment" validate:"omitempty,max=1000"`
}

type DocumentFilter struct {
	Status   string `form:"status" validate:"omitempty,is-document-status"`
	Page     int    `form:"page" validate:"omitempty,gte=1"`
	PageSize int    `form:"page_size" validate:"omitempty,gte=1,lte=100"`
}
