package notifications

import (
	"context"
	"encoding/json"
	"time"

	"proact-backend/internal/domain"
	"proact-backend/internal/pkg/apperr"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Notification types.
const (
	TypeProjectUpdate = "PROJECT_UPDATE"
	TypeReportStatus  = "REPORT_STATUS"
)

// Service persists in-app notifications and optionally mirrors them to
// email when a mail sender is configured.
type Service struct {
	DB     *gorm.DB
	Mailer *Mailer
}

// Input is one notification to deliver.
type Input struct {
	RecipientID    uuid.UUID
	RecipientEmail string
	SenderID       *uuid.UUID
	Type           string
	Message        string
	EntityID       *uuid.UUID
	EntityType     string
	Metadata       map[string]interface{}
}

// Create stores one notification row.
func (s *Service) Create(ctx context.Context, in Input) (*domain.Notification, error) {
	var meta datatypes.JSON
	if in.Metadata != nil {
		b, err := json.Marshal(in.Metadata)
		if err != nil {
			return nil, err
		}
		meta = datatypes.JSON(b)
	}
	n := domain.Notification{
		RecipientID: in.RecipientID,
		SenderID:    in.SenderID,
		Type:        in.Type,
		Message:     in.Message,
		EntityID:    in.EntityID,
		EntityType:  in.EntityType,
		Metadata:    meta,
	}
	if err := s.DB.WithContext(ctx).Create(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

// Dispatch delivers a notification fire-and-forget: failures are logged,
// never returned to the caller.
func (s *Service) Dispatch(in Input) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := s.Create(ctx, in); err != nil {
		log.Error().Err(err).Str("type", in.Type).Str("recipient", in.RecipientID.String()).Msg("notification dispatch failed")
		return
	}
	if s.Mailer != nil && in.RecipientEmail != "" {
		if err := s.Mailer.Send(ctx, in.RecipientEmail, in.Type, in.Message); err != nil {
			log.Warn().Err(err).Str("recipient", in.RecipientEmail).Msg("notification email failed")
		}
	}
}

// ListForUser returns a user's notifications, newest first.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]domain.Notification, error) {
	q := s.DB.WithContext(ctx).Where("recipient_id = ?", userID).Order("created_at DESC")
	if unreadOnly {
		q = q.Where("read = ?", false)
	}
	var out []domain.Notification
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// MarkRead marks one of the user's notifications as read.
func (s *Service) MarkRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	res := s.DB.WithContext(ctx).Model(&domain.Notification{}).
		Where("notification_id = ? AND recipient_id = ?", notificationID, userID).
		Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Notification not found")
	}
	return nil
}
