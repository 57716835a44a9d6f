package auth

import (
	"context"
	"time"

	"proact-backend/internal/domain"
	"proact-backend/internal/pkg/constants"
	"proact-backend/internal/pkg/validation"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const tokenTTL = 24 * time.Hour

// Service issues and honours bearer credentials.
type Service struct {
	DB     *gorm.DB
	Secret string
}

// RegisterInput for account creation.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// LoginInput for login.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register validates input, hashes the password and creates the account.
// Role defaults to PUBLIC when omitted.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if !validation.IsValidName(in.Name) {
		return nil, ErrInvalidName
	}
	if !validation.IsValidEmail(in.Email) {
		return nil, ErrInvalidEmail
	}
	if !validation.IsValidPassword(in.Password) {
		return nil, ErrWeakPassword
	}
	if in.Role == "" {
		in.Role = constants.RolePublic
	}
	if !constants.IsValidRole(in.Role) {
		return nil, ErrInvalidRole
	}

	var count int64
	if err := s.DB.WithContext(ctx).Model(&domain.User{}).Where("email = ?", in.Email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := domain.User{
		Name:         in.Name,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: string(hash),
		Role:         in.Role,
	}
	if err := s.DB.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Login verifies credentials and returns the user plus a signed token.
func (s *Service) Login(ctx context.Context, in LoginInput) (*domain.User, string, error) {
	if in.Email == "" || in.Password == "" {
		return nil, "", ErrEmailPasswordRequired
	}
	var user domain.User
	if err := s.DB.WithContext(ctx).Where("email = ?", in.Email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, "", ErrIncorrectCredentials
		}
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return nil, "", ErrIncorrectCredentials
	}

	token, err := s.IssueToken(&user)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// IssueToken signs a 24h bearer token for the user.
func (s *Service) IssueToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.UserID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.Secret))
}
