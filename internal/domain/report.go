package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Report statuses.
const (
	ReportPending       = "pending"
	ReportInvestigating = "investigating"
	ReportResolved      = "resolved"
	ReportRejected      = "rejected"
)

// Report attachment types.
const (
	AttachmentImage = "image"
	AttachmentPDF   = "pdf"
	AttachmentNone  = "none"
)

// Report is a corruption report filed against a project, optionally
// anonymous. AI fields are assigned once at creation.
type Report struct {
	ReportID        uuid.UUID      `gorm:"column:report_id;type:uuid;primaryKey" json:"report_id"`
	ProjectID       uuid.UUID      `gorm:"column:project_id;type:uuid;not null;index" json:"project_id"`
	Description     string         `gorm:"column:description;not null" json:"description"`
	FileURL         string         `gorm:"column:file_url" json:"fileUrl"`
	FileType        string         `gorm:"column:file_type;type:varchar(10);default:none" json:"fileType"`
	ReporterID      *uuid.UUID     `gorm:"column:reporter_id;type:uuid" json:"reporter_id"`
	IsAnonymous     bool           `gorm:"column:is_anonymous;not null;default:false" json:"isAnonymous"`
	Status          string         `gorm:"column:status;type:varchar(20);not null;default:pending" json:"status"`
	RejectionReason string         `gorm:"column:rejection_reason" json:"rejectionReason,omitempty"`
	AISeverity      int            `gorm:"column:ai_severity;not null;default:0" json:"aiSeverity"`
	AISummary       string         `gorm:"column:ai_summary" json:"aiSummary"`
	AIIsValid       bool           `gorm:"column:ai_is_valid;not null;default:true" json:"aiIsValid"`
	AITags          datatypes.JSON `gorm:"column:ai_tags" json:"aiTags"`
	Project         *Project       `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

func (Report) TableName() string {
	return "Reports"
}

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ReportID == uuid.Nil {
		r.ReportID = uuid.New()
	}
	return nil
}

// IsValidReportStatus returns true for a recognised status transition target.
func IsValidReportStatus(s string) bool {
	switch s {
	case ReportPending, ReportInvestigating, ReportResolved, ReportRejected:
		return true
	}
	return false
}
