package projects

import (
	"context"
	"strings"

	"proact-backend/internal/domain"
	"proact-backend/internal/pkg/apperr"
	"proact-backend/internal/pkg/constants"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service owns project lifecycle and public voting.
type Service struct {
	DB *gorm.DB
}

// CreateInput for project creation by a government user.
type CreateInput struct {
	Title         string  `json:"title"`
	BannerURL     string  `json:"bannerUrl"`
	PDFURL        string  `json:"pdfUrl"`
	Description   string  `json:"description"`
	LocationLat   float64 `json:"locationLat"`
	LocationLng   float64 `json:"locationLng"`
	LocationPlace string  `json:"locationPlace"`
	Budget        float64 `json:"budget"`
	ContractorID  string  `json:"contractorId"`
}

// UpdateInput carries the mutable project fields. Pointers distinguish
// omitted fields from zero values.
type UpdateInput struct {
	Title         *string  `json:"title"`
	BannerURL     *string  `json:"bannerUrl"`
	PDFURL        *string  `json:"pdfUrl"`
	Description   *string  `json:"description"`
	LocationLat   *float64 `json:"locationLat"`
	LocationLng   *float64 `json:"locationLng"`
	LocationPlace *string  `json:"locationPlace"`
	Budget        *float64 `json:"budget"`
}

// VoteCounts summarizes a project's likes and dislikes plus the caller's
// own vote.
type VoteCounts struct {
	Likes    int64  `json:"likes"`
	Dislikes int64  `json:"dislikes"`
	UserVote string `json:"userVote,omitempty"`
}

// ProjectView is a project with derived vote counts.
type ProjectView struct {
	domain.Project
	Votes VoteCounts `json:"votes"`
}

// Create creates a project owned by the government user.
func (s *Service) Create(ctx context.Context, governmentID uuid.UUID, in CreateInput) (*domain.Project, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperr.Validation("Project title is required")
	}
	if in.Budget < 0 {
		return nil, apperr.Validation("Budget cannot be negative")
	}
	contractorID, err := uuid.Parse(in.ContractorID)
	if err != nil {
		return nil, apperr.Validation("A valid contractor id is required")
	}

	var contractor domain.User
	if err := s.DB.WithContext(ctx).First(&contractor, "user_id = ?", contractorID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("Contractor not found")
		}
		return nil, err
	}
	if contractor.Role != constants.RoleContractor {
		return nil, apperr.Validation("Assigned user is not a contractor")
	}

	project := domain.Project{
		Title:         in.Title,
		BannerURL:     in.BannerURL,
		PDFURL:        in.PDFURL,
		Description:   in.Description,
		LocationLat:   in.LocationLat,
		LocationLng:   in.LocationLng,
		LocationPlace: in.LocationPlace,
		Budget:        in.Budget,
		GovernmentID:  governmentID,
		ContractorID:  contractorID,
	}
	if err := s.DB.WithContext(ctx).Create(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// Get loads one project with its inventory, used items and updates, plus
// derived vote counts. viewerID may be uuid.Nil for anonymous reads.
func (s *Service) Get(ctx context.Context, projectID, viewerID uuid.UUID) (*ProjectView, error) {
	var project domain.Project
	err := s.DB.WithContext(ctx).
		Preload("Inventory", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("UsedItems", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Updates", func(db *gorm.DB) *gorm.DB { return db.Order("date DESC") }).
		First(&project, "project_id = ?", projectID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("Project not found")
		}
		return nil, err
	}
	votes, err := s.countVotes(ctx, projectID, viewerID)
	if err != nil {
		return nil, err
	}
	return &ProjectView{Project: project, Votes: *votes}, nil
}

// List returns projects, optionally filtered by government or contractor.
func (s *Service) List(ctx context.Context, governmentID, contractorID *uuid.UUID) ([]domain.Project, error) {
	q := s.DB.WithContext(ctx).Order("created_at DESC")
	if governmentID != nil {
		q = q.Where("government_id = ?", *governmentID)
	}
	if contractorID != nil {
		q = q.Where("contractor_id = ?", *contractorID)
	}
	var out []domain.Project
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Update applies field changes. Only the owning government or an admin may
// modify a project.
func (s *Service) Update(ctx context.Context, projectID, actorID uuid.UUID, actorRole string, in UpdateInput) (*domain.Project, error) {
	var project domain.Project
	if err := s.DB.WithContext(ctx).First(&project, "project_id = ?", projectID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("Project not found")
		}
		return nil, err
	}
	if actorRole != constants.RoleAdmin && actorID != project.GovernmentID {
		return nil, apperr.Forbidden("Only the owning government can modify this project")
	}
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, apperr.Validation("Project title is required")
		}
		project.Title = *in.Title
	}
	if in.BannerURL != nil {
		project.BannerURL = *in.BannerURL
	}
	if in.PDFURL != nil {
		project.PDFURL = *in.PDFURL
	}
	if in.Description != nil {
		project.Description = *in.Description
	}
	if in.LocationLat != nil {
		project.LocationLat = *in.LocationLat
	}
	if in.LocationLng != nil {
		project.LocationLng = *in.LocationLng
	}
	if in.LocationPlace != nil {
		project.LocationPlace = *in.LocationPlace
	}
	if in.Budget != nil {
		if *in.Budget < project.Expenditure {
			return nil, apperr.BusinessRule("Budget cannot be reduced below current expenditure %.2f", project.Expenditure)
		}
		project.Budget = *in.Budget
	}
	if err := s.DB.WithContext(ctx).Save(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// Delete soft-deletes a project. Administrative operation.
func (s *Service) Delete(ctx context.Context, projectID uuid.UUID) error {
	res := s.DB.WithContext(ctx).Where("project_id = ?", projectID).Delete(&domain.Project{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Project not found")
	}
	return nil
}

// Like records a like, replacing a prior dislike by the same user.
func (s *Service) Like(ctx context.Context, projectID, userID uuid.UUID) (*VoteCounts, error) {
	return s.vote(ctx, projectID, userID, domain.VoteLike)
}

// Dislike records a dislike, replacing a prior like by the same user.
func (s *Service) Dislike(ctx context.Context, projectID, userID uuid.UUID) (*VoteCounts, error) {
	return s.vote(ctx, projectID, userID, domain.VoteDislike)
}

// Unlike removes the user's like if present.
func (s *Service) Unlike(ctx context.Context, projectID, userID uuid.UUID) (*VoteCounts, error) {
	return s.unvote(ctx, projectID, userID, domain.VoteLike)
}

// Undislike removes the user's dislike if present.
func (s *Service) Undislike(ctx context.Context, projectID, userID uuid.UUID) (*VoteCounts, error) {
	return s.unvote(ctx, projectID, userID, domain.VoteDislike)
}

func (s *Service) vote(ctx context.Context, projectID, userID uuid.UUID, kind string) (*VoteCounts, error) {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.Project{}).Where("project_id = ?", projectID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return apperr.NotFound("Project not found")
		}
		var existing domain.ProjectVote
		err := tx.Where("project_id = ? AND user_id = ?", projectID, userID).First(&existing).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			return tx.Create(&domain.ProjectVote{ProjectID: projectID, UserID: userID, Kind: kind}).Error
		case err != nil:
			return err
		case existing.Kind == kind:
			return nil
		default:
			existing.Kind = kind
			return tx.Save(&existing).Error
		}
	})
	if err != nil {
		return nil, err
	}
	return s.countVotes(ctx, projectID, userID)
}

func (s *Service) unvote(ctx context.Context, projectID, userID uuid.UUID, kind string) (*VoteCounts, error) {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&domain.Project{}).Where("project_id = ?", projectID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, apperr.NotFound("Project not found")
	}
	if err := s.DB.WithContext(ctx).
		Where("project_id = ? AND user_id = ? AND kind = ?", projectID, userID, kind).
		Delete(&domain.ProjectVote{}).Error; err != nil {
		return nil, err
	}
	return s.countVotes(ctx, projectID, userID)
}

func (s *Service) countVotes(ctx context.Context, projectID, viewerID uuid.UUID) (*VoteCounts, error) {
	var likes, dislikes int64
	if err := s.DB.WithContext(ctx).Model(&domain.ProjectVote{}).
		Where("project_id = ? AND kind = ?", projectID, domain.VoteLike).Count(&likes).Error; err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Model(&domain.ProjectVote{}).
		Where("project_id = ? AND kind = ?", projectID, domain.VoteDislike).Count(&dislikes).Error; err != nil {
		return nil, err
	}
	out := VoteCounts{Likes: likes, Dislikes: dislikes}
	if viewerID != uuid.Nil {
		var mine domain.ProjectVote
		if err := s.DB.WithContext(ctx).Where("project_id = ? AND user_id = ?", projectID, viewerID).First(&mine).Error; err == nil {
			out.UserVote = mine.Kind
		}
	}
	return &out, nil
}
