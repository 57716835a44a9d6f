package comments

import (
	"context"
	"strings"

	"proact-backend/internal/domain"
	"proact-backend/internal/pkg/apperr"
	"proact-backend/internal/pkg/constants"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service owns project comments, including contractor replies.
type Service struct {
	DB *gorm.DB
}

// CreateInput is one comment submission. ParentCommentID threads a reply.
type CreateInput struct {
	Content         string `json:"content"`
	ParentCommentID string `json:"parentCommentId"`
}

// Create posts a comment on a project.
func (s *Service) Create(ctx context.Context, projectID, userID uuid.UUID, in CreateInput) (*domain.Comment, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, apperr.Validation("Comment content is required")
	}
	var count int64
	if err := s.DB.WithContext(ctx).Model(&domain.Project{}).Where("project_id = ?", projectID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, apperr.NotFound("Project not found")
	}

	comment := domain.Comment{ProjectID: projectID, UserID: userID, Content: in.Content}
	if in.ParentCommentID != "" {
		parentID, err := uuid.Parse(in.ParentCommentID)
		if err != nil {
			return nil, apperr.Validation("Invalid parent comment id")
		}
		var parent domain.Comment
		if err := s.DB.WithContext(ctx).First(&parent, "comment_id = ? AND project_id = ?", parentID, projectID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, apperr.NotFound("Parent comment not found")
			}
			return nil, err
		}
		comment.ParentCommentID = &parentID
	}
	if err := s.DB.WithContext(ctx).Create(&comment).Error; err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Preload("User").First(&comment, "comment_id = ?", comment.CommentID).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListForProject returns a project's comments with authors, oldest first.
func (s *Service) ListForProject(ctx context.Context, projectID uuid.UUID) ([]domain.Comment, error) {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&domain.Project{}).Where("project_id = ?", projectID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, apperr.NotFound("Project not found")
	}
	var out []domain.Comment
	if err := s.DB.WithContext(ctx).Preload("User").
		Where("project_id = ?", projectID).Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes a comment. Only the author or an admin may delete; replies
// to the comment are kept.
func (s *Service) Delete(ctx context.Context, commentID, actorID uuid.UUID, actorRole string) error {
	var comment domain.Comment
	if err := s.DB.WithContext(ctx).First(&comment, "comment_id = ?", commentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return apperr.NotFound("Comment not found")
		}
		return err
	}
	if actorRole != constants.RoleAdmin && comment.UserID != actorID {
		return apperr.Forbidden("You can only delete your own comments")
	}
	return s.DB.WithContext(ctx).Delete(&comment).Error
}
