package organization

import (
	"time"

	"github.com/edu-empower/backend/model"
	"github.com/edu-empower/backend/utils/middleware"
	"github.com/edu-empower/backend/utils/response"
	"github.com/edu-empower/backend/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// OrganizationHandler handles organization profile requests
type OrganizationHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewOrganizationHandler creates a new organization handler
func NewOrganizationHandler(db *gorm.DB) *OrganizationHandler {
	return &OrganizationHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateOrganizationRequest represents the body for POST /organizations
type CreateOrganizationRequest struct {
	OrganizationName   string `json:"organizationName" validate:"required,min=1,max=255"`
	RegistrationNumber string `json:"registrationNumber" validate:"required,min=1,max=100"`
	ContactPerson      string `json:"contactPerson" validate:"required,min=1,max=255"`
	ContactEmail       string `json:"contactEmail" validate:"required,email"`
	ContactNumber      string `json:"contactNumber" validate:"required,inphone"`
	Address            string `json:"address" validate:"required,min=5"`
	WebsiteURL         string `json:"websiteUrl" validate:"omitempty,url"`
	DocumentURL        string `json:"documentUrl" validate:"omitempty,url"`
}

// UpdateOrganizationRequest accepts a partial profile update.
// Verification status is never accepted from this endpoint.
type UpdateOrganizationRequest struct {
	OrganizationName   string `json:"organizationName" validate:"omitempty,min=1,max=255"`
	RegistrationNumber string `json:"registrationNumber" validate:"omitempty,min=1,max=100"`
	ContactPerson      string `json:"contactPerson" validate:"omitempty,min=1,max=255"`
	ContactEmail       string `json:"contactEmail" validate:"omitempty,email"`
	ContactNumber      string `json:"contactNumber" validate:"omitempty,inphone"`
	Address            string `json:"address" validate:"omitempty,min=5"`
	WebsiteURL         string `json:"websiteUrl" validate:"omitempty,url"`
	DocumentURL        string `json:"documentUrl" validate:"omitempty,url"`
}

// CreateOrganization handles POST /api/v1/organizations
func (h *OrganizationHandler) CreateOrganization(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}
	if user.Role != model.RoleOrganization {
		return response.Forbidden(c, "Only organizations can submit an organization profile")
	}

	var req CreateOrganizationRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFailed(c, validation.FormatValidationErrors(err))
	}

	var existing model.OrganizationDetails
	if err := h.db.Where("user_id = ?", user.ID).First(&existing).Error; err == nil {
		return response.Conflict(c, "Organization details already exist for this user")
	}

	details := model.OrganizationDetails{
		UserID:             user.ID,
		OrganizationName:   validation.SanitizeString(req.OrganizationName),
		RegistrationNumber: validation.SanitizeString(req.RegistrationNumber),
		ContactPerson:      validation.SanitizeString(req.ContactPerson),
		ContactEmail:       req.ContactEmail,
		ContactNumber:      req.ContactNumber,
		Address:            validation.SanitizeString(req.Address),
		WebsiteURL:         req.WebsiteURL,
		DocumentURL:        req.DocumentURL,
	}

	if err := h.db.Create(&details).Error; err != nil {
		return response.InternalServerError(c, "Failed to create organization details")
	}

	return response.Created(c, details)
}

// GetOrganization handles GET /api/v1/organizations/:userId
func (h *OrganizationHandler) GetOrganization(c *fiber.Ctx) error {
	userID := c.Params("userId")

	var details model.OrganizationDetails
	if err := h.db.Where("user_id = ?", userID).First(&details).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Organization details not found")
		}
		return response.InternalServerError(c, "Failed to fetch organization details")
	}

	return response.Success(c, details)
}

// ListOrganizations handles GET /api/v1/organizations with an optional
// ?verified= filter
func (h *OrganizationHandler) ListOrganizations(c *fiber.Ctx) error {
	query := h.db.Model(&model.OrganizationDetails{})

	if verified := c.Query("verified"); verified != "" {
		switch verified {
		case "true":
			query = query.Where("verified = ?", true)
		case "false":
			query = query.Where("verified = ?", false)
		default:
			return response.ValidationFailed(c, map[string]string{
				"verified": "Verified must be true or false",
			})
		}
	}

	var orgs []model.OrganizationDetails
	if err := query.Order("created_at DESC").Find(&orgs).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch organizations")
	}

	return response.Success(c, orgs)
}

// UpdateOrganization handles PUT /api/v1/organizations/:id.
// Only the owning organization or an admin may update.
func (h *OrganizationHandler) UpdateOrganization(c *fiber.Ctx) error {
	id := c.Params("id")

	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	var details model.OrganizationDetails
	if err := h.db.Where("id = ?", id).First(&details).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Organization details not found")
		}
		return response.InternalServerError(c, "Failed to fetch organization details")
	}

	if details.UserID != user.ID && user.Role != model.RoleAdmin {
		return response.Forbidden(c, "Not authorized to update this organization")
	}

	var req UpdateOrganizationRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFailed(c, validation.FormatValidationErrors(err))
	}

	if req.OrganizationName != "" {
		details.OrganizationName = validation.SanitizeString(req.OrganizationName)
	}
	if req.RegistrationNumber != "" {
		details.RegistrationNumber = validation.SanitizeString(req.RegistrationNumber)
	}
	if req.ContactPerson != "" {
		details.ContactPerson = validation.SanitizeString(req.ContactPerson)
	}
	if req.ContactEmail != "" {
		details.ContactEmail = req.ContactEmail
	}
	if req.ContactNumber != "" {
		details.ContactNumber = req.ContactNumber
	}
	if req.Address != "" {
		details.Address = validation.SanitizeString(req.Address)
	}
	if req.WebsiteURL != "" {
		details.WebsiteURL = req.WebsiteURL
	}
	if req.DocumentURL != "" {
		details.DocumentURL = req.DocumentURL
	}

	if err := h.db.Save(&details).Error; err != nil {
		return response.InternalServerError(c, "Failed to update organization details")
	}

	return response.SuccessWithMessage(c, "Organization details updated successfully", details)
}

// VerifyOrganization handles PUT /api/v1/organizations/:id/verify (admin only).
// Verification is one way: re-verifying an already verified organization
// returns a conflict.
func (h *OrganizationHandler) VerifyOrganization(c *fiber.Ctx) error {
	id := c.Params("id")

	var details model.OrganizationDetails
	if err := h.db.Where("id = ?", id).First(&details).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Organization details not found")
		}
		return response.InternalServerError(c, "Failed to fetch organization details")
	}

	if details.Verified {
		return response.Conflict(c, "Organization is already verified")
	}

	now := time.Now()
	details.Verified = true
	details.VerifiedAt = &now

	if err := h.db.Save(&details).Error; err != nil {
		return response.InternalServerError(c, "Failed to verify organization")
	}

	return response.SuccessWithMessage(c, "Organization verified successfully", details)
}

// DeleteOrganization handles DELETE /api/v1/organizations/:id
func (h *OrganizationHandler) DeleteOrganization(c *fiber.Ctx) error {
	id := c.Params("id")

	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	var details model.OrganizationDetails
	if err := h.db.Where("id = ?", id).First(&details).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Organization details not found")
		}
		return response.InternalServerError(c, "Failed to fetch organization details")
	}

	if details.UserID != user.ID && user.Role != model.RoleAdmin {
		return response.Forbidden(c, "Not authorized to delete this organization")
	}

	if err := h.db.Delete(&details).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete organization details")
	}

	return response.SuccessWithMessage(c, "Organization details deleted successfully", nil)
}
