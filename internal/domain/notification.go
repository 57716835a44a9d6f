package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Notification is a fire-and-forget in-app message (e.g. a government user
// being told its project received a new update).
type Notification struct {
	NotificationID uuid.UUID      `gorm:"column:notification_id;type:uuid;primaryKey" json:"notification_id"`
	RecipientID    uuid.UUID      `gorm:"column:recipient_id;type:uuid;not null;index" json:"recipient_id"`
	SenderID       *uuid.UUID     `gorm:"column:sender_id;type:uuid" json:"sender_id"`
	Type           string         `gorm:"column:type;not null" json:"type"`
	Message        string         `gorm:"column:message;not null" json:"message"`
	EntityID       *uuid.UUID     `gorm:"column:entity_id;type:uuid" json:"entity_id"`
	EntityType     string         `gorm:"column:entity_type" json:"entityType"`
	Metadata       datatypes.JSON `gorm:"column:metadata" json:"metadata"`
	Read           bool           `gorm:"column:read;not null;default:false" json:"read"`
	CreatedAt      time.Time      `json:"createdAt"`
}

func (Notification) TableName() string {
	return "Notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.NotificationID == uuid.Nil {
		n.NotificationID = uuid.New()
	}
	return nil
}
