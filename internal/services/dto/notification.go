package dto

import "swipetonpro_backend/internal/models"

type NotificationFilter struct {
	Unread bool `form:"unread"`
	Limit  int  `form:"limit" validate:"omitempty,gte=1,lte=100"`
}

type NotificationListResponse struct {
	Notifications []models.Notification `json:"notifications"`
	UnreadCount   int64                 `json:"unread_count"`
}
