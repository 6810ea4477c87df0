package fundraiser

import (
	"time"

	"github.com/edu-empower/backend/model"
	"github.com/edu-empower/backend/utils/middleware"
	"github.com/edu-empower/backend/utils/response"
	"github.com/edu-empower/backend/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// FundraiserHandler handles fundraiser requests
type FundraiserHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewFundraiserHandler creates a new fundraiser handler
func NewFundraiserHandler(db *gorm.DB) *FundraiserHandler {
	return &FundraiserHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateFundraiserRequest represents the body for POST /fundraisers
type CreateFundraiserRequest struct {
	Title       string    `json:"title" validate:"required,min=1,max=255"`
	Description string    `json:"description" validate:"required,min=1"`
	GoalAmount  float64   `json:"goalAmount" validate:"required,gt=0"`
	Deadline    time.Time `json:"deadline" validate:"required"`
}

// UpdateFundraiserRequest accepts a partial update
type UpdateFundraiserRequest struct {
	Title       string     `json:"title" validate:"omitempty,min=1,max=255"`
	Description string     `json:"description" validate:"omitempty,min=1"`
	GoalAmount  *float64   `json:"goalAmount" validate:"omitempty,gt=0"`
	Deadline    *time.Time `json:"deadline"`
}

// CreateFundraiser handles POST /api/v1/fundraisers.
// The caller must be an organization with a submitted profile.
func (h *FundraiserHandler) CreateFundraiser(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}
	if user.Role != model.RoleOrganization {
		return response.Forbidden(c, "Only organizations can create fundraisers")
	}

	var details model.OrganizationDetails
	if err := h.db.Where("user_id = ?", user.ID).First(&details).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.Forbidden(c, "Submit organization details before creating fundraisers")
		}
		return response.InternalServerError(c, "Failed to fetch organization details")
	}

	var req CreateFundraiserRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFailed(c, validation.FormatValidationErrors(err))
	}

	if !req.Deadline.After(time.Now()) {
		return response.ValidationFailed(c, map[string]string{
			"deadline": "Deadline must be in the future",
		})
	}

	fundraiser := model.Fundraiser{
		OrganizationID: user.ID,
		Title:          validation.SanitizeString(req.Title),
		Description:    validation.SanitizeString(req.Description),
		GoalAmount:     req.GoalAmount,
		Deadline:       req.Deadline,
	}

	if err := h.db.Create(&fundraiser).Error; err != nil {
		return response.InternalServerError(c, "Failed to create fundraiser")
	}

	return response.Created(c, fundraiser)
}

// ListFundraisers handles GET /api/v1/fundraisers with an optional
// ?completed= filter
func (h *FundraiserHandler) ListFundraisers(c *fiber.Ctx) error {
	query := h.db.Model(&model.Fundraiser{})

	if completed := c.Query("completed"); completed != "" {
		switch completed {
		case "true":
			query = query.Where("completed = ?", true)
		case "false":
			query = query.Where("completed = ?", false)
		default:
			return response.ValidationFailed(c, map[string]string{
				"completed": "Completed must be true or false",
			})
		}
	}

	var fundraisers []model.Fundraiser
	if err := query.Order("created_at DESC").Find(&fundraisers).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch fundraisers")
	}

	return response.Success(c, fundraisers)
}

// GetFundraiser handles GET /api/v1/fundraisers/:id
func (h *FundraiserHandler) GetFundraiser(c *fiber.Ctx) error {
	id := c.Params("id")

	var fundraiser model.Fundraiser
	if err := h.db.Preload("Donations").Where("id = ?", id).
		First(&fundraiser).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Fundraiser not found")
		}
		return response.InternalServerError(c, "Failed to fetch fundraiser")
	}

	return response.Success(c, fundraiser)
}

// UpdateFundraiser handles PUT /api/v1/fundraisers/:id
func (h *FundraiserHandler) UpdateFundraiser(c *fiber.Ctx) error {
	id := c.Params("id")

	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	var fundraiser model.Fundraiser
	if err := h.db.Where("id = ?", id).First(&fundraiser).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Fundraiser not found")
		}
		return response.InternalServerError(c, "Failed to fetch fundraiser")
	}

	if fundraiser.OrganizationID != user.ID && user.Role != model.RoleAdmin {
		return response.Forbidden(c, "Not authorized to update this fundraiser")
	}

	var req UpdateFundraiserRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFailed(c, validation.FormatValidationErrors(err))
	}

	if req.Title != "" {
		fundraiser.Title = validation.SanitizeString(req.Title)
	}
	if req.Description != "" {
		fundraiser.Description = validation.SanitizeString(req.Description)
	}
	if req.GoalAmount != nil {
		fundraiser.GoalAmount = *req.GoalAmount
	}
	if req.Deadline != nil {
		if !req.Deadline.After(time.Now()) {
			return response.ValidationFailed(c, map[string]string{
				"deadline": "Deadline must be in the future",
			})
		}
		fundraiser.Deadline = *req.Deadline
		fundraiser.Completed = false
	}

	if err := h.db.Save(&fundraiser).Error; err != nil {
		return response.InternalServerError(c, "Failed to update fundraiser")
	}

	return response.SuccessWithMessage(c, "Fundraiser updated successfully", fundraiser)
}

// DeleteFundraiser handles DELETE /api/v1/fundraisers/:id.
// Donations go with it; linked scholarships survive with the link cleared.
func (h *FundraiserHandler) DeleteFundraiser(c *fiber.Ctx) error {
	id := c.Params("id")

	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	var fundraiser model.Fundraiser
	if err := h.db.Where("id = ?", id).First(&fundraiser).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Fundraiser not found")
		}
		return response.InternalServerError(c, "Failed to fetch fundraiser")
	}

	if fundraiser.OrganizationID != user.ID && user.Role != model.RoleAdmin {
		return response.Forbidden(c, "Not authorized to delete this fundraiser")
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("fundraiser_id = ?", id).
			Delete(&model.Donation{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Scholarship{}).
			Where("fundraiser_id = ?", id).
			Update("fundraiser_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&fundraiser).Error
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to delete fundraiser")
	}

	return response.NoContent(c)
}
