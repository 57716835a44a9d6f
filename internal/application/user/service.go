package user

import (
	"context"

	"proact-backend/internal/domain"
	"proact-backend/internal/pkg/apperr"
	"proact-backend/internal/pkg/constants"
	"proact-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Service holds DB and Redis for profile operations. Redis carries the
// identity cache invalidated on profile changes.
type Service struct {
	DB  *gorm.DB
	Rdb *redis.Client
}

// UpdateInput carries the mutable profile fields.
type UpdateInput struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	PhotoURL *string `json:"photoUrl"`
	Password *string `json:"password"`
}

// Get loads one user by id.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	var user domain.User
	if err := s.DB.WithContext(ctx).First(&user, "user_id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("User not found")
		}
		return nil, err
	}
	return &user, nil
}

// Update applies profile changes and invalidates the cached identity.
func (s *Service) Update(ctx context.Context, userID uuid.UUID, in UpdateInput) (*domain.User, error) {
	var user domain.User
	if err := s.DB.WithContext(ctx).First(&user, "user_id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("User not found")
		}
		return nil, err
	}
	if in.Name != nil {
		if !validation.IsValidName(*in.Name) {
			return nil, apperr.Validation("Name may only contain letters, spaces, hyphens and apostrophes")
		}
		user.Name = *in.Name
	}
	if in.Phone != nil {
		user.Phone = *in.Phone
	}
	if in.PhotoURL != nil {
		user.PhotoURL = *in.PhotoURL
	}
	if in.Password != nil {
		if !validation.IsValidPassword(*in.Password) {
			return nil, apperr.Validation("Password must be at least 8 characters with a letter, a number and a special character")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if err := s.DB.WithContext(ctx).Save(&user).Error; err != nil {
		return nil, err
	}
	s.invalidateIdentity(ctx, &user)
	return &user, nil
}

// UpdateRole changes a user's role. Admin operation.
func (s *Service) UpdateRole(ctx context.Context, userID uuid.UUID, role string) (*domain.User, error) {
	if !constants.IsValidRole(role) {
		return nil, apperr.Validation("Invalid role")
	}
	var user domain.User
	if err := s.DB.WithContext(ctx).First(&user, "user_id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("User not found")
		}
		return nil, err
	}
	user.Role = role
	if err := s.DB.WithContext(ctx).Save(&user).Error; err != nil {
		return nil, err
	}
	s.invalidateIdentity(ctx, &user)
	return &user, nil
}

// ListContractors returns every contractor account, for project assignment.
func (s *Service) ListContractors(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	if err := s.DB.WithContext(ctx).Where("role = ?", constants.RoleContractor).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// invalidateIdentity drops the cached identity after a profile change so
// a stale role does not linger for the cache TTL.
func (s *Service) invalidateIdentity(ctx context.Context, user *domain.User) {
	if s.Rdb == nil {
		return
	}
	s.Rdb.Del(ctx, "identity:"+user.UserID.String())
}
