package middleware

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"proact-backend/internal/domain"
	"proact-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const identityLocal = "identity"
const identityCachePrefix = "identity:"
const identityCacheTTL = 10 * time.Minute

// Identity is the resolved caller attached to each authenticated request.
type Identity struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
	Phone string    `json:"phone"`
	Role  string    `json:"role"`
}

// Verifier resolves bearer tokens to identities. Resolved identities are
// cached in Redis so every request does not hit the Users table.
type Verifier struct {
	DB     *gorm.DB
	Rdb    *redis.Client
	Secret string
}

// RequireAuth verifies the Authorization bearer token and attaches the
// resolved Identity to Locals. 401 on any failure.
func (v *Verifier) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			return response.Unauthorized(c, "Unauthorized: Token required")
		}
		tokenStr := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(v.Secret), nil
		})
		if err != nil || !token.Valid || claims.Subject == "" {
			return response.Unauthorized(c, "Unauthorized: Invalid token")
		}
		userID, err := uuid.Parse(claims.Subject)
		if err != nil {
			return response.Unauthorized(c, "Unauthorized: Invalid token")
		}

		ident, err := v.resolve(c.Context(), userID)
		if err != nil {
			return response.Unauthorized(c, "Unauthorized: User does not exist")
		}

		c.Locals(identityLocal, ident)
		return c.Next()
	}
}

func (v *Verifier) resolve(ctx context.Context, userID uuid.UUID) (*Identity, error) {
	key := identityCachePrefix + userID.String()
	if v.Rdb != nil {
		if b, err := v.Rdb.Get(ctx, key).Bytes(); err == nil {
			var ident Identity
			if json.Unmarshal(b, &ident) == nil {
				return &ident, nil
			}
		}
	}

	var user domain.User
	if err := v.DB.WithContext(ctx).Where("user_id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}
	ident := &Identity{
		ID:    user.UserID,
		Email: user.Email,
		Name:  user.Name,
		Phone: user.Phone,
		Role:  user.Role,
	}
	if v.Rdb != nil {
		if b, err := json.Marshal(ident); err == nil {
			v.Rdb.Set(ctx, key, b, identityCacheTTL)
		}
	}
	return ident, nil
}

// CurrentUser returns the authenticated identity, nil when absent.
func CurrentUser(c *fiber.Ctx) *Identity {
	ident, _ := c.Locals(identityLocal).(*Identity)
	return ident
}

// SetCurrentUser attaches an identity directly; handler tests use this in
// place of the full verifier chain.
func SetCurrentUser(c *fiber.Ctx, ident *Identity) {
	c.Locals(identityLocal, ident)
}
