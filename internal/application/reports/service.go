package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"proact-backend/internal/ai"
	"proact-backend/internal/application/notifications"
	"proact-backend/internal/domain"
	"proact-backend/internal/pkg/apperr"
	"proact-backend/internal/pkg/constants"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Service owns corruption reports: filing, triage and status transitions.
type Service struct {
	DB            *gorm.DB
	AI            ai.Classifier
	Notifications *notifications.Service
}

// CreateInput is one corruption report submission.
type CreateInput struct {
	Description string `json:"description"`
	FileURL     string `json:"fileUrl"`
	FileType    string `json:"fileType"`
	IsAnonymous bool   `json:"isAnonymous"`
}

// StatusInput carries a status transition. RejectionReason is required when
// moving to rejected.
type StatusInput struct {
	Status          string `json:"status"`
	RejectionReason string `json:"rejectionReason"`
}

// Create files a report against a project. The description is analysed
// immediately; analysis failure degrades to defaults and never blocks the
// filing.
func (s *Service) Create(ctx context.Context, projectID uuid.UUID, reporterID uuid.UUID, in CreateInput) (*domain.Report, error) {
	if strings.TrimSpace(in.Description) == "" {
		return nil, apperr.Validation("Report description is required")
	}
	fileType := in.FileType
	if fileType == "" {
		fileType = domain.AttachmentNone
	}
	if fileType != domain.AttachmentImage && fileType != domain.AttachmentPDF && fileType != domain.AttachmentNone {
		return nil, apperr.Validation("File type must be image, pdf or none")
	}
	var count int64
	if err := s.DB.WithContext(ctx).Model(&domain.Project{}).Where("project_id = ?", projectID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, apperr.NotFound("Project not found")
	}

	analysis := s.AI.AnalyzeReport(ctx, in.Description, fileType != domain.AttachmentNone)
	tags, _ := json.Marshal(analysis.Tags)

	report := domain.Report{
		ProjectID:   projectID,
		Description: in.Description,
		FileURL:     in.FileURL,
		FileType:    fileType,
		IsAnonymous: in.IsAnonymous,
		Status:      domain.ReportPending,
		AISeverity:  analysis.Severity,
		AISummary:   analysis.Summary,
		AIIsValid:   analysis.IsValidReport,
		AITags:      datatypes.JSON(tags),
	}
	if !in.IsAnonymous {
		report.ReporterID = &reporterID
	}
	if !analysis.IsValidReport {
		report.Status = domain.ReportRejected
		report.RejectionReason = "Automated screening could not validate this report"
	}
	if err := s.DB.WithContext(ctx).Create(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

// ListForProject returns a project's reports, most recent first. Reporter
// identities are withheld on anonymous reports.
func (s *Service) ListForProject(ctx context.Context, projectID uuid.UUID) ([]domain.Report, error) {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&domain.Project{}).Where("project_id = ?", projectID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, apperr.NotFound("Project not found")
	}
	var out []domain.Report
	if err := s.DB.WithContext(ctx).Where("project_id = ?", projectID).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].IsAnonymous {
			out[i].ReporterID = nil
		}
	}
	return out, nil
}

// ListForGovernment returns reports across every project the government
// owns, most recent first.
func (s *Service) ListForGovernment(ctx context.Context, governmentID uuid.UUID) ([]domain.Report, error) {
	var out []domain.Report
	err := s.DB.WithContext(ctx).
		Joins(`JOIN "Projects" ON "Projects".project_id = "Reports".project_id`).
		Where(`"Projects".government_id = ? AND "Projects".deleted_at IS NULL`, governmentID).
		Order(`"Reports".created_at DESC`).
		Preload("Project").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].IsAnonymous {
			out[i].ReporterID = nil
		}
	}
	return out, nil
}

// Get loads one report with its project.
func (s *Service) Get(ctx context.Context, reportID uuid.UUID) (*domain.Report, error) {
	var report domain.Report
	if err := s.DB.WithContext(ctx).Preload("Project").First(&report, "report_id = ?", reportID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("Report not found")
		}
		return nil, err
	}
	if report.IsAnonymous {
		report.ReporterID = nil
	}
	return &report, nil
}

// UpdateStatus transitions a report's status. Only the government owning the
// project, or an admin, may manage reports. A non-anonymous reporter is
// notified of the change.
func (s *Service) UpdateStatus(ctx context.Context, reportID, actorID uuid.UUID, actorRole string, in StatusInput) (*domain.Report, error) {
	if !domain.IsValidReportStatus(in.Status) {
		return nil, apperr.Validation("Status must be one of pending, investigating, resolved, rejected")
	}
	if in.Status == domain.ReportRejected && strings.TrimSpace(in.RejectionReason) == "" {
		return nil, apperr.Validation("A rejection reason is required when rejecting a report")
	}

	var report domain.Report
	if err := s.DB.WithContext(ctx).Preload("Project").First(&report, "report_id = ?", reportID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("Report not found")
		}
		return nil, err
	}
	if actorRole != constants.RoleAdmin && (report.Project == nil || report.Project.GovernmentID != actorID) {
		return nil, apperr.Forbidden("Only the owning government can manage this report")
	}

	report.Status = in.Status
	if in.Status == domain.ReportRejected {
		report.RejectionReason = in.RejectionReason
	} else {
		report.RejectionReason = ""
	}
	if err := s.DB.WithContext(ctx).Save(&report).Error; err != nil {
		return nil, err
	}

	if s.Notifications != nil && report.ReporterID != nil {
		s.notifyReporter(&report, actorID)
	}
	return &report, nil
}

func (s *Service) notifyReporter(report *domain.Report, senderID uuid.UUID) {
	var reporter domain.User
	email := ""
	if err := s.DB.First(&reporter, "user_id = ?", *report.ReporterID).Error; err == nil {
		email = reporter.Email
	}
	sender := senderID
	entity := report.ReportID
	go s.Notifications.Dispatch(notifications.Input{
		RecipientID:    *report.ReporterID,
		RecipientEmail: email,
		SenderID:       &sender,
		Type:           notifications.TypeReportStatus,
		Message:        fmt.Sprintf("Your report is now %s", report.Status),
		EntityID:       &entity,
		EntityType:     "report",
		Metadata:       map[string]interface{}{"projectId": report.ProjectID.String(), "status": report.Status},
	})
}
