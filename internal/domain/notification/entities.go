package notification

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("notification not found")
)

type Type string

const (
	TypeInfo    Type = "info"
	TypeSuccess Type = "success"
	TypeWarning Type = "warning"
	TypeError   Type = "error"
)

type Notification struct {
	ID             uint64         `gorm:"primaryKey;column:id" json:"-"`
	NotificationID string         `gorm:"size:36;uniqueIndex" json:"id"`
	UserID         string         `gorm:"size:32;index:idx_notifications_user" json:"user_id"`
	Title          string         `gorm:"size:255" json:"title"`
	Message        string         `gorm:"type:text" json:"message"`
	Type           Type           `gorm:"type:enum('info','success','warning','error');default:'info'" json:"type"`
	Read           bool           `json:"read"`
	CreatedAt      time.Time      `gorm:"autoCreateTime" json:"created_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Notification) TableName() string { return "notifications" }

// Welcome is the single notification seeded the first time a user's
// log is read.
func Welcome(userID, notificationID string) *Notification {
	return &Notification{
		NotificationID: notificationID,
		UserID:         userID,
		Title:          "Welcome to Cashcraft Loans",
		Message:        "Thank you for joining Cashcraft Loans. We're excited to help you with your financial needs!",
		Type:           TypeInfo,
	}
}
