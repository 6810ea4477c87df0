package disbursement

import (
	"github.com/edu-empower/backend/model"
	"github.com/edu-empower/backend/utils/response"
	"github.com/edu-empower/backend/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// DisbursementHandler handles scholarship disbursement requests
type DisbursementHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewDisbursementHandler creates a new disbursement handler
func NewDisbursementHandler(db *gorm.DB) *DisbursementHandler {
	return &DisbursementHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateDisbursementRequest represents the body for POST /disbursements.
// Status defaults to PENDING when omitted.
type CreateDisbursementRequest struct {
	ScholarshipID string  `json:"scholarshipId" validate:"required,uuid"`
	StudentID     string  `json:"studentId" validate:"required,min=1,max=64"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	Status        string  `json:"status" validate:"omitempty,oneof=PENDING PROCESSING COMPLETED FAILED"`
}

// UpdateDisbursementRequest represents the body for PUT /disbursements/:id
type UpdateDisbursementRequest struct {
	Amount *float64 `json:"amount" validate:"omitempty,gt=0"`
	Status string   `json:"status" validate:"omitempty,oneof=PENDING PROCESSING COMPLETED FAILED"`
}

// CreateDisbursement handles POST /api/v1/disbursements.
// Both the scholarship and the student's profile must exist before
// funds can be released.
func (h *DisbursementHandler) CreateDisbursement(c *fiber.Ctx) error {
	var req CreateDisbursementRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFailed(c, validation.FormatValidationErrors(err))
	}

	var scholarship model.Scholarship
	if err := h.db.Where("id = ?", req.ScholarshipID).First(&scholarship).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.BadRequest(c, "Scholarship does not exist")
		}
		return response.InternalServerError(c, "Failed to fetch scholarship")
	}

	var details model.StudentDetails
	if err := h.db.Where("user_id = ?", req.StudentID).First(&details).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.BadRequest(c, "Student details do not exist")
		}
		return response.InternalServerError(c, "Failed to fetch student details")
	}

	disbursement := model.Disbursement{
		ScholarshipID: req.ScholarshipID,
		StudentID:     req.StudentID,
		Amount:        req.Amount,
		Status:        model.DisbursementStatus(req.Status),
	}

	if err := h.db.Create(&disbursement).Error; err != nil {
		return response.InternalServerError(c, "Failed to create disbursement")
	}

	return response.Created(c, disbursement)
}

// ListDisbursements handles GET /api/v1/disbursements with an optional
// ?status= filter
func (h *DisbursementHandler) ListDisbursements(c *fiber.Ctx) error {
	query := h.db.Model(&model.Disbursement{}).Preload("Scholarship")

	if status := c.Query("status"); status != "" {
		if !model.ValidDisbursementStatus(model.DisbursementStatus(status)) {
			return response.ValidationFailed(c, map[string]string{
				"status": "Status must be one of: PENDING PROCESSING COMPLETED FAILED",
			})
		}
		query = query.Where("status = ?", status)
	}

	var disbursements []model.Disbursement
	if err := query.Order("created_at DESC").Find(&disbursements).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch disbursements")
	}

	return response.Success(c, disbursements)
}

// GetDisbursement handles GET /api/v1/disbursements/:id
func (h *DisbursementHandler) GetDisbursement(c *fiber.Ctx) error {
	id := c.Params("id")

	var disbursement model.Disbursement
	if err := h.db.Preload("Scholarship").Where("id = ?", id).
		First(&disbursement).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Disbursement not found")
		}
		return response.InternalServerError(c, "Failed to fetch disbursement")
	}

	return response.Success(c, disbursement)
}

// ListStudentDisbursements handles GET /api/v1/disbursements/student/:studentId
func (h *DisbursementHandler) ListStudentDisbursements(c *fiber.Ctx) error {
	studentID := c.Params("studentId")

	var disbursements []model.Disbursement
	if err := h.db.Preload("Scholarship").
		Where("student_id = ?", studentID).
		Order("created_at DESC").Find(&disbursements).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch disbursements")
	}

	return response.Success(c, disbursements)
}

// UpdateDisbursement handles PUT /api/v1/disbursements/:id
func (h *DisbursementHandler) UpdateDisbursement(c *fiber.Ctx) error {
	id := c.Params("id")

	var disbursement model.Disbursement
	if err := h.db.Where("id = ?", id).First(&disbursement).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Disbursement not found")
		}
		return response.InternalServerError(c, "Failed to fetch disbursement")
	}

	var req UpdateDisbursementRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFailed(c, validation.FormatValidationErrors(err))
	}

	if req.Amount != nil {
		disbursement.Amount = *req.Amount
	}
	if req.Status != "" {
		disbursement.Status = model.DisbursementStatus(req.Status)
	}

	if err := h.db.Save(&disbursement).Error; err != nil {
		return response.InternalServerError(c, "Failed to update disbursement")
	}

	return response.SuccessWithMessage(c, "Disbursement updated successfully", disbursement)
}

// DeleteDisbursement handles DELETE /api/v1/disbursements/:id
func (h *DisbursementHandler) DeleteDisbursement(c *fiber.Ctx) error {
	id := c.Params("id")

	var disbursement model.Disbursement
	if err := h.db.Where("id = ?", id).First(&disbursement).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Disbursement not found")
		}
		return response.InternalServerError(c, "Failed to fetch disbursement")
	}

	if err := h.db.Delete(&disbursement).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete disbursement")
	}

	return response.SuccessWithMessage(c, "Disbursement deleted successfully", nil)
}
