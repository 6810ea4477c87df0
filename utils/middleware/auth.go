package middleware

import (
	"strings"

	"github.com/edu-empower/backend/model"
	"github.com/edu-empower/backend/utils/auth"
	"github.com/edu-empower/backend/utils/response"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AuthMiddleware consumes identity-provider JWT claims and resolves the
// corresponding user row once per request
type AuthMiddleware struct {
	verifier *auth.TokenVerifier
	db       *gorm.DB
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(verifier *auth.TokenVerifier, db *gorm.DB) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		db:       db,
	}
}

func (m *AuthMiddleware) authenticate(c *fiber.Ctx) (*model.User, *auth.Claims, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, nil, response.Unauthorized(c, "Missing authorization token")
	}

	// Extract token from "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, nil, response.Unauthorized(c, "Invalid authorization format")
	}

	claims, err := m.verifier.ValidateToken(parts[1])
	if err != nil {
		if err == auth.ErrExpiredToken {
			return nil, nil, response.Unauthorized(c, "Token has expired")
		}
		return nil, nil, response.Unauthorized(c, "Invalid token")
	}

	var user model.User
	if err := m.db.Where("id = ?", claims.UserID()).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, response.Unauthorized(c, "User not found")
		}
		return nil, nil, response.InternalServerError(c, "Failed to load user")
	}

	return &user, claims, nil
}

// Required is middleware that requires a valid identity-provider token
func (m *AuthMiddleware) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, claims, err := m.authenticate(c)
		if err != nil {
			return err
		}

		c.Locals("user_id", user.ID)
		c.Locals("user_role", string(user.Role))
		c.Locals("claims", claims)
		c.Locals("user", user)

		return c.Next()
	}
}

// Optional is middleware that allows requests with or without a token
func (m *AuthMiddleware) Optional() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Next()
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Next()
		}

		claims, err := m.verifier.ValidateToken(parts[1])
		if err != nil {
			return c.Next()
		}

		var user model.User
		if err := m.db.Where("id = ?", claims.UserID()).First(&user).Error; err != nil {
			return c.Next()
		}

		c.Locals("user_id", user.ID)
		c.Locals("user_role", string(user.Role))
		c.Locals("claims", claims)
		c.Locals("user", &user)

		return c.Next()
	}
}

// RequireRole is middleware that requires one of the given roles on top of
// a valid token
func (m *AuthMiddleware) RequireRole(roles ...model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, claims, err := m.authenticate(c)
		if err != nil {
			return err
		}

		allowed := false
		for _, r := range roles {
			if user.Role == r {
				allowed = true
				break
			}
		}
		if !allowed {
			return response.Forbidden(c, "Insufficient permissions")
		}

		c.Locals("user_id", user.ID)
		c.Locals("user_role", string(user.Role))
		c.Locals("claims", claims)
		c.Locals("user", user)

		return c.Next()
	}
}

// RequireAdmin is middleware that requires the ADMIN role
func (m *AuthMiddleware) RequireAdmin() fiber.Handler {
	return m.RequireRole(model.RoleAdmin)
}

// GetUserID extracts user ID from context
func GetUserID(c *fiber.Ctx) (string, bool) {
	userID := c.Locals("user_id")
	if userID == nil {
		return "", false
	}
	id, ok := userID.(string)
	return id, ok
}

// GetUserRole extracts user role from context
func GetUserRole(c *fiber.Ctx) (string, bool) {
	role := c.Locals("user_role")
	if role == nil {
		return "", false
	}
	r, ok := role.(string)
	return r, ok
}

// GetUser extracts full user object from context
func GetUser(c *fiber.Ctx) (*model.User, bool) {
	user := c.Locals("user")
	if user == nil {
		return nil, false
	}
	u, ok := user.(*model.User)
	return u, ok
}
