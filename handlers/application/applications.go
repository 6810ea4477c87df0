package application

import (
	"errors"

	"github.com/edu-empower/backend/model"
	"github.com/edu-empower/backend/utils/middleware"
	"github.com/edu-empower/backend/utils/response"
	"github.com/edu-empower/backend/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ApplicationHandler handles scholarship application requests
type ApplicationHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(db *gorm.DB) *ApplicationHandler {
	return &ApplicationHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateApplicationRequest represents the body for POST /applications
type CreateApplicationRequest struct {
	ScholarshipID     string `json:"scholarshipId" validate:"required,uuid"`
	ScholarshipReason string `json:"scholarshipReason" validate:"required,min=1"`
}

// UpdateStatusRequest represents the body for PATCH /applications/:id/status
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING APPROVED REJECTED"`
}

// CreateApplication handles POST /api/v1/applications.
// A student may apply to a scholarship at most once.
func (h *ApplicationHandler) CreateApplication(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}
	if user.Role != model.RoleStudent {
		return response.Forbidden(c, "Only students can apply for scholarships")
	}

	var req CreateApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFailed(c, validation.FormatValidationErrors(err))
	}

	var scholarship model.Scholarship
	if err := h.db.Where("id = ?", req.ScholarshipID).First(&scholarship).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Scholarship not found")
		}
		return response.InternalServerError(c, "Failed to fetch scholarship")
	}

	var existing model.Application
	err := h.db.Where("student_id = ? AND scholarship_id = ?", user.ID, req.ScholarshipID).
		First(&existing).Error
	if err == nil {
		return response.Conflict(c, "You have already applied to this scholarship")
	}
	if err != gorm.ErrRecordNotFound {
		return response.InternalServerError(c, "Failed to check existing applications")
	}

	application := model.Application{
		StudentID:         user.ID,
		ScholarshipID:     req.ScholarshipID,
		ScholarshipReason: validation.SanitizeString(req.ScholarshipReason),
	}

	if err := h.db.Create(&application).Error; err != nil {
		// Backstop for two submissions racing past the existence check:
		// the unique (student, scholarship) index decides the loser
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return response.Conflict(c, "You have already applied to this scholarship")
		}
		return response.InternalServerError(c, "Failed to create application")
	}

	return response.Created(c, application)
}

// ListApplications handles GET /api/v1/applications with an optional
// ?status= filter
func (h *ApplicationHandler) ListApplications(c *fiber.Ctx) error {
	query := h.db.Model(&model.Application{}).Preload("Scholarship")

	if status := c.Query("status"); status != "" {
		if !model.ValidApplicationStatus(model.ApplicationStatus(status)) {
			return response.ValidationFailed(c, map[string]string{
				"status": "Status must be one of: PENDING APPROVED REJECTED",
			})
		}
		query = query.Where("status = ?", status)
	}

	var applications []model.Application
	if err := query.Order("created_at DESC").Find(&applications).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch applications")
	}

	return response.Success(c, applications)
}

// GetApplication handles GET /api/v1/applications/:id
func (h *ApplicationHandler) GetApplication(c *fiber.Ctx) error {
	id := c.Params("id")

	var application model.Application
	if err := h.db.Preload("Scholarship").Where("id = ?", id).
		First(&application).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Application not found")
		}
		return response.InternalServerError(c, "Failed to fetch application")
	}

	return response.Success(c, application)
}

// ListStudentApplications handles GET /api/v1/applications/student/:studentId
func (h *ApplicationHandler) ListStudentApplications(c *fiber.Ctx) error {
	studentID := c.Params("studentId")

	var applications []model.Application
	if err := h.db.Preload("Scholarship").
		Where("student_id = ?", studentID).
		Order("created_at DESC").Find(&applications).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch applications")
	}

	return response.Success(c, applications)
}

// UpdateApplicationStatus handles PATCH /api/v1/applications/:id/status.
// Only the scholarship's organization or an admin may decide, and a
// decided application cannot be re-decided.
func (h *ApplicationHandler) UpdateApplicationStatus(c *fiber.Ctx) error {
	id := c.Params("id")

	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	var application model.Application
	if err := h.db.Preload("Scholarship").Where("id = ?", id).
		First(&application).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Application not found")
		}
		return response.InternalServerError(c, "Failed to fetch application")
	}

	if application.Scholarship.OrganizationID != user.ID && user.Role != model.RoleAdmin {
		return response.Forbidden(c, "Not authorized to decide this application")
	}

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFailed(c, validation.FormatValidationErrors(err))
	}

	newStatus := model.ApplicationStatus(req.Status)
	if !model.CanTransition(application.Status, newStatus) {
		return response.Conflict(c, "Application has already been decided")
	}

	application.Status = newStatus
	if err := h.db.Save(&application).Error; err != nil {
		return response.InternalServerError(c, "Failed to update application status")
	}

	return response.SuccessWithMessage(c, "Application status updated successfully", application)
}

// DeleteApplication handles DELETE /api/v1/applications/:id.
// The applicant may withdraw their own application; admins may remove any.
func (h *ApplicationHandler) DeleteApplication(c *fiber.Ctx) error {
	id := c.Params("id")

	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	var application model.Application
	if err := h.db.Where("id = ?", id).First(&application).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Application not found")
		}
		return response.InternalServerError(c, "Failed to fetch application")
	}

	if application.StudentID != user.ID && user.Role != model.RoleAdmin {
		return response.Forbidden(c, "Not authorized to delete this application")
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("application_id = ?", id).
			Delete(&model.StudentRanking{}).Error; err != nil {
			return err
		}
		return tx.Delete(&application).Error
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to delete application")
	}

	return response.SuccessWithMessage(c, "Application deleted successfully", nil)
}
