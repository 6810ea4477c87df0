package user

import (
	"github.com/edu-empower/backend/database"
	"github.com/edu-empower/backend/model"
	"github.com/edu-empower/backend/utils/response"
	"github.com/edu-empower/backend/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// UserHandler handles user-related requests
type UserHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewUserHandler creates a new user handler
func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// RegisterOrUpdateRequest represents the body for POST /users/registerorupdate.
// UserID and the role claim come from the identity provider at sign-up.
type RegisterOrUpdateRequest struct {
	UserID string `json:"userId" validate:"required,min=1,max=64"`
	Name   string `json:"name" validate:"required,min=1,max=255"`
	Email  string `json:"email" validate:"required,email"`
	Role   string `json:"role" validate:"omitempty,oneof=STUDENT ORGANIZATION DONOR ADMIN"`
}

// RegisterOrUpdate handles POST /users/registerorupdate.
// Creates the user on first sign-in (role required), updates name/email on
// subsequent calls. The role is immutable: a differing role is rejected.
func (h *UserHandler) RegisterOrUpdate(c *fiber.Ctx) error {
	var req RegisterOrUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFailed(c, validation.FormatValidationErrors(err))
	}

	req.Name = validation.SanitizeString(req.Name)

	var user model.User
	err := h.db.Where("id = ?", req.UserID).First(&user).Error
	if err == nil {
		if req.Role != "" && model.Role(req.Role) != user.Role {
			return response.BadRequest(c, "Role cannot be changed after registration")
		}

		user.Name = req.Name
		user.Email = req.Email
		if err := h.db.Save(&user).Error; err != nil {
			return response.InternalServerError(c, "Failed to update user")
		}
		return response.SuccessWithMessage(c, "User updated successfully", user)
	}
	if err != gorm.ErrRecordNotFound {
		return response.InternalServerError(c, "Failed to fetch user")
	}

	if req.Role == "" {
		return response.ValidationFailed(c, map[string]string{
			"role": "Role is required",
		})
	}

	user = model.User{
		ID:    req.UserID,
		Name:  req.Name,
		Email: req.Email,
		Role:  model.Role(req.Role),
	}
	if err := h.db.Create(&user).Error; err != nil {
		return response.InternalServerError(c, "Failed to register user")
	}

	return response.Created(c, user)
}

// GetUser handles GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id := c.Params("id")

	var user model.User
	if err := h.db.Where("id = ?", id).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to fetch user")
	}

	return response.Success(c, user)
}

// ListUsers handles GET /api/v1/users with an optional ?role= filter
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	query := h.db.Model(&model.User{})

	if role := c.Query("role"); role != "" {
		if !model.ValidRole(model.Role(role)) {
			return response.ValidationFailed(c, map[string]string{
				"role": "Role must be one of: STUDENT ORGANIZATION DONOR ADMIN",
			})
		}
		query = query.Where("role = ?", role)
	}

	var users []model.User
	if err := query.Order("created_at DESC").Find(&users).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch users")
	}

	return response.Success(c, users)
}

// DeleteUser handles DELETE /api/v1/users/:id (admin only).
// Removes the user and all dependent rows in one atomic cascade.
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id := c.Params("id")

	var user model.User
	if err := h.db.Where("id = ?", id).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to fetch user")
	}

	if err := database.DeleteUserCascade(h.db, id); err != nil {
		return response.InternalServerError(c, "Failed to delete user")
	}

	return response.SuccessWithMessage(c, "User and all related data deleted successfully", nil)
}
