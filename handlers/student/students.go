package student

import (
	"fmt"
	"log"
	"mime/multipart"
	"path/filepath"

	"github.com/edu-empower/backend/model"
	"github.com/edu-empower/backend/services/storage"
	"github.com/edu-empower/backend/utils/middleware"
	"github.com/edu-empower/backend/utils/response"
	"github.com/edu-empower/backend/utils/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// documentFields are the multipart file fields accepted on profile submission
var documentFields = []string{"tenthResult", "twelfthResult", "incomeCert", "domicileCert"}

// StudentHandler handles student profile requests
type StudentHandler struct {
	db        *gorm.DB
	validator *validation.Validator
	storage   *storage.Client
}

// NewStudentHandler creates a new student handler. The storage client may be
// nil in environments without object storage; document uploads then fail
// with 503 while plain profile writes keep working.
func NewStudentHandler(db *gorm.DB, storageClient *storage.Client) *StudentHandler {
	return &StudentHandler{
		db:        db,
		validator: validation.NewValidator(),
		storage:   storageClient,
	}
}

// CreateStudentRequest represents the multipart form fields for POST /students.
// Dates use the canonical YYYY-MM-DD format; phone numbers are +91 numbers.
type CreateStudentRequest struct {
	FullName        string  `json:"fullName" form:"fullName" validate:"required,min=1,max=255"`
	DateOfBirth     string  `json:"dateOfBirth" form:"dateOfBirth" validate:"required,isodate"`
	Gender          string  `json:"gender" form:"gender" validate:"required,oneof=Male Female Other"`
	Nationality     string  `json:"nationality" form:"nationality" validate:"omitempty,max=100"`
	ContactNumber   string  `json:"contactNumber" form:"contactNumber" validate:"required,inphone"`
	Address         string  `json:"address" form:"address" validate:"required,min=5"`
	FatherName      string  `json:"fatherName" form:"fatherName" validate:"required,min=1,max=255"`
	MotherName      string  `json:"motherName" form:"motherName" validate:"required,min=1,max=255"`
	GuardianName    string  `json:"guardianName" form:"guardianName" validate:"omitempty,max=255"`
	GuardianContact string  `json:"guardianContact" form:"guardianContact" validate:"omitempty,inphone"`
	AboutMe         string  `json:"aboutMe" form:"aboutMe" validate:"omitempty,max=2000"`
	FamilyIncome    float64 `json:"familyIncome" form:"familyIncome" validate:"gte=0"`
}

// UpdateStudentRequest accepts a partial profile; present fields are
// validated with the same per-field rules as on creation
type UpdateStudentRequest struct {
	FullName        string   `json:"fullName" form:"fullName" validate:"omitempty,min=1,max=255"`
	DateOfBirth     string   `json:"dateOfBirth" form:"dateOfBirth" validate:"omitempty,isodate"`
	Gender          string   `json:"gender" form:"gender" validate:"omitempty,oneof=Male Female Other"`
	Nationality     string   `json:"nationality" form:"nationality" validate:"omitempty,max=100"`
	ContactNumber   string   `json:"contactNumber" form:"contactNumber" validate:"omitempty,inphone"`
	Address         string   `json:"address" form:"address" validate:"omitempty,min=5"`
	FatherName      string   `json:"fatherName" form:"fatherName" validate:"omitempty,min=1,max=255"`
	MotherName      string   `json:"motherName" form:"motherName" validate:"omitempty,min=1,max=255"`
	GuardianName    string   `json:"guardianName" form:"guardianName" validate:"omitempty,max=255"`
	GuardianContact string   `json:"guardianContact" form:"guardianContact" validate:"omitempty,inphone"`
	AboutMe         string   `json:"aboutMe" form:"aboutMe" validate:"omitempty,max=2000"`
	FamilyIncome    *float64 `json:"familyIncome" form:"familyIncome" validate:"omitempty,gte=0"`
}

// IncomeExtractionRequest is posted by the PDF-extraction pipeline
type IncomeExtractionRequest struct {
	Name   string  `json:"name" validate:"required,min=1"`
	Income float64 `json:"income" validate:"gte=0"`
}

func (h *StudentHandler) uploadDocument(c *fiber.Ctx, userID, field string, file *multipart.FileHeader) (url string, key string, err error) {
	if h.storage == nil {
		return "", "", fmt.Errorf("object storage not configured")
	}

	src, err := file.Open()
	if err != nil {
		return "", "", err
	}
	defer src.Close()

	key = fmt.Sprintf("students/%s/%s-%s%s", userID, field, uuid.NewString(), filepath.Ext(file.Filename))
	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err = h.storage.UploadFile(c.Context(), key, src, contentType)
	if err != nil {
		return "", "", err
	}
	return url, key, nil
}

// setDocument stores an uploaded document's URL and key on the record,
// returning the storage key it replaced (if any)
func setDocument(details *model.StudentDetails, field, url, key string) (oldKey string) {
	switch field {
	case "tenthResult":
		oldKey = details.TenthKey
		details.TenthResult, details.TenthKey = url, key
	case "twelfthResult":
		oldKey = details.TwelfthKey
		details.TwelfthResult, details.TwelfthKey = url, key
	case "incomeCert":
		oldKey = details.IncomeCertKey
		details.IncomeCert, details.IncomeCertKey = url, key
	case "domicileCert":
		oldKey = details.DomicileCertKey
		details.DomicileCert, details.DomicileCertKey = url, key
	}
	return oldKey
}

// CreateStudent handles POST /api/v1/students (multipart)
func (h *StudentHandler) CreateStudent(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}
	if user.Role != model.RoleStudent {
		return response.Forbidden(c, "Only students can submit a student profile")
	}

	var req CreateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFailed(c, validation.FormatValidationErrors(err))
	}

	var existing model.StudentDetails
	if err := h.db.Where("user_id = ?", user.ID).First(&existing).Error; err == nil {
		return response.Conflict(c, "Student details already exist for this user")
	}

	details := model.StudentDetails{
		UserID:          user.ID,
		FullName:        validation.SanitizeString(req.FullName),
		DateOfBirth:     req.DateOfBirth,
		Gender:          req.Gender,
		Nationality:     req.Nationality,
		ContactNumber:   req.ContactNumber,
		Address:         validation.SanitizeString(req.Address),
		FatherName:      validation.SanitizeString(req.FatherName),
		MotherName:      validation.SanitizeString(req.MotherName),
		GuardianName:    validation.SanitizeString(req.GuardianName),
		GuardianContact: req.GuardianContact,
		AboutMe:         validation.SanitizeString(req.AboutMe),
		FamilyIncome:    req.FamilyIncome,
	}

	for _, field := range documentFields {
		file, err := c.FormFile(field)
		if err != nil {
			continue // field not present in the form
		}
		url, key, err := h.uploadDocument(c, user.ID, field, file)
		if err != nil {
			return response.ServiceUnavailable(c, "Failed to upload "+field)
		}
		setDocument(&details, field, url, key)
	}

	if err := h.db.Create(&details).Error; err != nil {
		return response.InternalServerError(c, "Failed to create student details")
	}

	return response.Created(c, details)
}

// GetStudent handles GET /api/v1/students/:userId
func (h *StudentHandler) GetStudent(c *fiber.Ctx) error {
	userID := c.Params("userId")

	var details model.StudentDetails
	if err := h.db.Where("user_id = ?", userID).First(&details).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Student details not found")
		}
		return response.InternalServerError(c, "Failed to fetch student details")
	}

	return response.Success(c, details)
}

// UpdateStudent handles PUT /api/v1/students/:userId (multipart).
// Only the profile owner or an admin may update; re-uploaded documents
// replace the previous object in storage.
func (h *StudentHandler) UpdateStudent(c *fiber.Ctx) error {
	userID := c.Params("userId")

	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}
	if user.ID != userID && user.Role != model.RoleAdmin {
		return response.Forbidden(c, "Not authorized to update this profile")
	}

	var details model.StudentDetails
	if err := h.db.Where("user_id = ?", userID).First(&details).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Student details not found")
		}
		return response.InternalServerError(c, "Failed to fetch student details")
	}

	var req UpdateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFailed(c, validation.FormatValidationErrors(err))
	}

	if req.FullName != "" {
		details.FullName = validation.SanitizeString(req.FullName)
	}
	if req.DateOfBirth != "" {
		details.DateOfBirth = req.DateOfBirth
	}
	if req.Gender != "" {
		details.Gender = req.Gender
	}
	if req.Nationality != "" {
		details.Nationality = req.Nationality
	}
	if req.ContactNumber != "" {
		details.ContactNumber = req.ContactNumber
	}
	if req.Address != "" {
		details.Address = validation.SanitizeString(req.Address)
	}
	if req.FatherName != "" {
		details.FatherName = validation.SanitizeString(req.FatherName)
	}
	if req.MotherName != "" {
		details.MotherName = validation.SanitizeString(req.MotherName)
	}
	if req.GuardianName != "" {
		details.GuardianName = validation.SanitizeString(req.GuardianName)
	}
	if req.GuardianContact != "" {
		details.GuardianContact = req.GuardianContact
	}
	if req.AboutMe != "" {
		details.AboutMe = validation.SanitizeString(req.AboutMe)
	}
	if req.FamilyIncome != nil {
		details.FamilyIncome = *req.FamilyIncome
	}

	var replacedKeys []string
	for _, field := range documentFields {
		file, err := c.FormFile(field)
		if err != nil {
			continue
		}
		url, key, err := h.uploadDocument(c, userID, field, file)
		if err != nil {
			return response.ServiceUnavailable(c, "Failed to upload "+field)
		}
		if oldKey := setDocument(&details, field, url, key); oldKey != "" {
			replacedKeys = append(replacedKeys, oldKey)
		}
	}

	if err := h.db.Save(&details).Error; err != nil {
		return response.InternalServerError(c, "Failed to update student details")
	}

	// Replaced objects are removed after the row is saved
	if h.storage != nil {
		for _, key := range replacedKeys {
			if err := h.storage.DeleteFile(c.Context(), key); err != nil {
				log.Printf("failed to delete replaced document %s: %v", key, err)
			}
		}
	}

	return response.SuccessWithMessage(c, "Student details updated successfully", details)
}

// DeleteStudent handles DELETE /api/v1/students/:userId.
// Deleting a profile also removes the associated uploaded files.
func (h *StudentHandler) DeleteStudent(c *fiber.Ctx) error {
	userID := c.Params("userId")

	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}
	if user.ID != userID && user.Role != model.RoleAdmin {
		return response.Forbidden(c, "Not authorized to delete this profile")
	}

	var details model.StudentDetails
	if err := h.db.Where("user_id = ?", userID).First(&details).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Student details not found")
		}
		return response.InternalServerError(c, "Failed to fetch student details")
	}

	if err := h.db.Delete(&details).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete student details")
	}

	if h.storage != nil {
		for _, key := range details.DocumentKeys() {
			_ = h.storage.DeleteFile(c.Context(), key) // best effort
		}
	}

	return response.SuccessWithMessage(c, "Student details deleted successfully", nil)
}

// VerifyStudent handles PUT /api/v1/students/:userId/verify (admin only).
// Marks the profile as reviewed so the student can apply for scholarships.
func (h *StudentHandler) VerifyStudent(c *fiber.Ctx) error {
	userID := c.Params("userId")

	var details model.StudentDetails
	if err := h.db.Where("user_id = ?", userID).First(&details).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Student details not found")
		}
		return response.InternalServerError(c, "Failed to fetch student details")
	}

	if details.Verified {
		return response.Conflict(c, "Student profile is already verified")
	}

	details.Verified = true
	if err := h.db.Save(&details).Error; err != nil {
		return response.InternalServerError(c, "Failed to verify student profile")
	}

	return response.SuccessWithMessage(c, "Student profile verified successfully", details)
}

// RecordExtractedIncome handles POST /api/v1/students/income-extraction.
// Consumed by the PDF-extraction pipeline: records the income parsed from
// an income certificate on the matching student profile.
func (h *StudentHandler) RecordExtractedIncome(c *fiber.Ctx) error {
	var req IncomeExtractionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFailed(c, validation.FormatValidationErrors(err))
	}

	var details model.StudentDetails
	if err := h.db.Where("full_name = ?", validation.SanitizeString(req.Name)).
		First(&details).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "No student profile matches the extracted name")
		}
		return response.InternalServerError(c, "Failed to fetch student details")
	}

	details.ExtractedIncome = &req.Income
	if err := h.db.Save(&details).Error; err != nil {
		return response.InternalServerError(c, "Failed to record extracted income")
	}

	return response.SuccessWithMessage(c, "Extracted income recorded", details)
}
