package model

import "time"

type NotificationStatus string

const (
	NotificationUnread NotificationStatus = "UNREAD"
	NotificationRead   NotificationStatus = "READ"
)

// swagger:model Notification
type Notification struct {
	BaseModel
	UserID    uint               `gorm:"index;not null" json:"userId"`
	QuizID    uint               `gorm:"index" json:"quizId"`
	Text      string             `gorm:"size:500;not null" json:"text"`
	Status    NotificationStatus `gorm:"size:20;not null;default:'UNREAD'" json:"status"`
	Timestamp time.Time          `json:"timestamp"`
}

func (Notification) TableName() string {
	return "notifications"
}
