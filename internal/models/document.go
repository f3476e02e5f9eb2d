package models

import "time"

type Document struct {
	BaseModel
	UserID       string         `gorm:"type:uuid;not null;index" json:"user_id"`
	Name         string         `gorm:"not null" json:"name"`
	DocumentType DocumentType   `gorm:"type:varchar(30);not null" json:"document_type"`
	StorageKey   string         `gorm:"not null" json:"-"`
	ContentType  string         `json:"content_type"`
	Size         int64          `json:"size"`
	Status       DocumentStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	AdminComment string         `json:"admin_comment,omitempty"`
	ValidatedBy  *string        `gorm:"type:uuid" json:"validated_by,omitempty"`
	ValidatedAt  *time.Time     `json:"validated_at,omitempty"`

	URL string `gorm:"-" json:"url,omitempty"`
}
