package auth

import (
	"context"
	"testing"

	"proact-backend/internal/domain"
	"proact-backend/internal/pkg/constants"

	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func setupAuthTest(t *testing.T) *Service {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}))
	return &Service{DB: db, Secret: "test-secret"}
}

func TestRegister_DefaultsToPublicRole(t *testing.T) {
	svc := setupAuthTest(t)

	user, err := svc.Register(context.Background(), RegisterInput{
		Name:     "Ada Obi",
		Email:    "ada@example.com",
		Password: "s3cure!Pass",
	})
	require.NoError(t, err)
	assert.Equal(t, constants.RolePublic, user.Role)
	assert.NotEqual(t, "s3cure!Pass", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cure!Pass")))
}

func TestRegister_Validation(t *testing.T) {
	svc := setupAuthTest(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "Ada123", Email: "a@example.com", Password: "s3cure!Pass"})
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = svc.Register(ctx, RegisterInput{Name: "Ada Obi", Email: "not-an-email", Password: "s3cure!Pass"})
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = svc.Register(ctx, RegisterInput{Name: "Ada Obi", Email: "a@example.com", Password: "short"})
	assert.ErrorIs(t, err, ErrWeakPassword)

	_, err = svc.Register(ctx, RegisterInput{Name: "Ada Obi", Email: "a@example.com", Password: "s3cure!Pass", Role: "SUPERUSER"})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := setupAuthTest(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "Ada Obi", Email: "ada@example.com", Password: "s3cure!Pass"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Name: "Other Ada", Email: "ada@example.com", Password: "s3cure!Pass"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin_RoundTrip(t *testing.T) {
	svc := setupAuthTest(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterInput{
		Name:     "Ada Obi",
		Email:    "ada@example.com",
		Password: "s3cure!Pass",
		Role:     constants.RoleContractor,
	})
	require.NoError(t, err)

	user, token, err := svc.Login(ctx, LoginInput{Email: "ada@example.com", Password: "s3cure!Pass"})
	require.NoError(t, err)
	assert.Equal(t, registered.UserID, user.UserID)
	require.NotEmpty(t, token)

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(svc.Secret), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, registered.UserID.String(), claims.Subject)
}

func TestLogin_IncorrectCredentials(t *testing.T) {
	svc := setupAuthTest(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "Ada Obi", Email: "ada@example.com", Password: "s3cure!Pass"})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, LoginInput{Email: "ada@example.com", Password: "wrongPass1"})
	assert.ErrorIs(t, err, ErrIncorrectCredentials)

	// Unknown address gets the same error so it cannot be probed.
	_, _, err = svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "s3cure!Pass"})
	assert.ErrorIs(t, err, ErrIncorrectCredentials)

	_, _, err = svc.Login(ctx, LoginInput{Email: "", Password: ""})
	assert.ErrorIs(t, err, ErrEmailPasswordRequired)
}
