package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is a public comment on a project; a non-nil ParentCommentID
// marks it as a reply.
type Comment struct {
	CommentID       uuid.UUID  `gorm:"column:comment_id;type:uuid;primaryKey" json:"comment_id"`
	ProjectID       uuid.UUID  `gorm:"column:project_id;type:uuid;not null;index" json:"project_id"`
	UserID          uuid.UUID  `gorm:"column:user_id;type:uuid;not null" json:"user_id"`
	ParentCommentID *uuid.UUID `gorm:"column:parent_comment_id;type:uuid" json:"parent_comment_id"`
	Content         string     `gorm:"column:content;not null" json:"content"`
	User            *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

func (Comment) TableName() string {
	return "Comments"
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.CommentID == uuid.Nil {
		c.CommentID = uuid.New()
	}
	return nil
}
