package scholarship

import (
	"context"
	"log"
	"time"

	"github.com/edu-empower/backend/model"
	"github.com/edu-empower/backend/utils/cache"
	"github.com/edu-empower/backend/utils/middleware"
	"github.com/edu-empower/backend/utils/response"
	"github.com/edu-empower/backend/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const (
	activeCacheKey  = "scholarships:active"
	expiredCacheKey = "scholarships:expired"
	listingCacheTTL = 60 * time.Second
)

// ScholarshipHandler handles scholarship requests
type ScholarshipHandler struct {
	db        *gorm.DB
	validator *validation.Validator
	cache     *cache.RedisCache
}

// NewScholarshipHandler creates a new scholarship handler. The cache may be
// nil; listings then always hit the database.
func NewScholarshipHandler(db *gorm.DB, redisCache *cache.RedisCache) *ScholarshipHandler {
	return &ScholarshipHandler{
		db:        db,
		validator: validation.NewValidator(),
		cache:     redisCache,
	}
}

// CreateScholarshipRequest represents the body for POST /scholarships
type CreateScholarshipRequest struct {
	Title           string    `json:"title" validate:"required,min=1,max=255"`
	Description     string    `json:"description" validate:"required,min=1"`
	TotalAmount     float64   `json:"totalAmount" validate:"required,gt=0"`
	MaxFamilyIncome float64   `json:"maxFamilyIncome" validate:"gte=0"`
	ExpiredAt       time.Time `json:"expiredAt" validate:"required"`
	FundraiserID    string    `json:"fundraiserId" validate:"omitempty,uuid"`
}

// UpdateScholarshipRequest accepts a partial update
type UpdateScholarshipRequest struct {
	Title           string     `json:"title" validate:"omitempty,min=1,max=255"`
	Description     string     `json:"description" validate:"omitempty,min=1"`
	TotalAmount     *float64   `json:"totalAmount" validate:"omitempty,gt=0"`
	MaxFamilyIncome *float64   `json:"maxFamilyIncome" validate:"omitempty,gte=0"`
	ExpiredAt       *time.Time `json:"expiredAt"`
}

// invalidateListings drops the cached active/expired listings after a write
func (h *ScholarshipHandler) invalidateListings(ctx context.Context) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Delete(ctx, activeCacheKey, expiredCacheKey); err != nil {
		log.Printf("failed to invalidate scholarship listing cache: %v", err)
	}
}

// CreateScholarship handles POST /api/v1/scholarships.
// Only verified organizations may create scholarships.
func (h *ScholarshipHandler) CreateScholarship(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}
	if user.Role != model.RoleOrganization {
		return response.Forbidden(c, "Only organizations can create scholarships")
	}

	decision, err := middleware.CheckVerified(h.db, user)
	if err != nil {
		return response.InternalServerError(c, "Failed to verify organization")
	}
	if !decision.Allowed {
		return response.Forbidden(c, decision.Reason)
	}

	var req CreateScholarshipRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFailed(c, validation.FormatValidationErrors(err))
	}

	if !req.ExpiredAt.After(time.Now()) {
		return response.ValidationFailed(c, map[string]string{
			"expiredAt": "Expiry must be in the future",
		})
	}

	scholarship := model.Scholarship{
		OrganizationID:  user.ID,
		Title:           validation.SanitizeString(req.Title),
		Description:     validation.SanitizeString(req.Description),
		TotalAmount:     req.TotalAmount,
		MaxFamilyIncome: req.MaxFamilyIncome,
		ExpiredAt:       req.ExpiredAt,
	}

	if req.FundraiserID != "" {
		var fundraiser model.Fundraiser
		if err := h.db.Where("id = ?", req.FundraiserID).First(&fundraiser).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return response.NotFound(c, "Fundraiser not found")
			}
			return response.InternalServerError(c, "Failed to fetch fundraiser")
		}
		scholarship.FundraiserID = &fundraiser.ID
	}

	if err := h.db.Create(&scholarship).Error; err != nil {
		return response.InternalServerError(c, "Failed to create scholarship")
	}

	h.invalidateListings(c.Context())

	return response.Created(c, scholarship)
}

// ListScholarships handles GET /api/v1/scholarships
func (h *ScholarshipHandler) ListScholarships(c *fiber.Ctx) error {
	var scholarships []model.Scholarship
	if err := h.db.Preload("Fundraiser").Order("created_at DESC").
		Find(&scholarships).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch scholarships")
	}

	return response.Success(c, scholarships)
}

// ListActiveScholarships handles GET /api/v1/scholarships/active.
// Results are cached briefly since this backs the public listing page.
func (h *ScholarshipHandler) ListActiveScholarships(c *fiber.Ctx) error {
	if h.cache != nil {
		var cached []model.Scholarship
		if err := h.cache.GetJSON(c.Context(), activeCacheKey, &cached); err == nil {
			return response.Success(c, cached)
		}
	}

	var scholarships []model.Scholarship
	if err := h.db.Where("expired_at > ?", time.Now()).
		Order("expired_at ASC").Find(&scholarships).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch active scholarships")
	}

	if h.cache != nil {
		if err := h.cache.SetJSON(c.Context(), activeCacheKey, scholarships, listingCacheTTL); err != nil {
			log.Printf("failed to cache active scholarships: %v", err)
		}
	}

	return response.Success(c, scholarships)
}

// ListExpiredScholarships handles GET /api/v1/scholarships/expired
func (h *ScholarshipHandler) ListExpiredScholarships(c *fiber.Ctx) error {
	if h.cache != nil {
		var cached []model.Scholarship
		if err := h.cache.GetJSON(c.Context(), expiredCacheKey, &cached); err == nil {
			return response.Success(c, cached)
		}
	}

	var scholarships []model.Scholarship
	if err := h.db.Where("expired_at <= ?", time.Now()).
		Order("expired_at DESC").Find(&scholarships).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch expired scholarships")
	}

	if h.cache != nil {
		if err := h.cache.SetJSON(c.Context(), expiredCacheKey, scholarships, listingCacheTTL); err != nil {
			log.Printf("failed to cache expired scholarships: %v", err)
		}
	}

	return response.Success(c, scholarships)
}

// GetScholarship handles GET /api/v1/scholarships/:id
func (h *ScholarshipHandler) GetScholarship(c *fiber.Ctx) error {
	id := c.Params("id")

	var scholarship model.Scholarship
	if err := h.db.Preload("Fundraiser").Preload("Applications").
		Where("id = ?", id).First(&scholarship).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Scholarship not found")
		}
		return response.InternalServerError(c, "Failed to fetch scholarship")
	}

	return response.Success(c, scholarship)
}

// UpdateScholarship handles PUT /api/v1/scholarships/:id.
// Expired scholarships are immutable.
func (h *ScholarshipHandler) UpdateScholarship(c *fiber.Ctx) error {
	id := c.Params("id")

	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	var scholarship model.Scholarship
	if err := h.db.Where("id = ?", id).First(&scholarship).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Scholarship not found")
		}
		return response.InternalServerError(c, "Failed to fetch scholarship")
	}

	if scholarship.OrganizationID != user.ID && user.Role != model.RoleAdmin {
		return response.Forbidden(c, "Not authorized to update this scholarship")
	}

	if scholarship.Expired(time.Now()) {
		return response.BadRequest(c, "Expired scholarships cannot be updated")
	}

	var req UpdateScholarshipRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFailed(c, validation.FormatValidationErrors(err))
	}

	if req.Title != "" {
		scholarship.Title = validation.SanitizeString(req.Title)
	}
	if req.Description != "" {
		scholarship.Description = validation.SanitizeString(req.Description)
	}
	if req.TotalAmount != nil {
		scholarship.TotalAmount = *req.TotalAmount
	}
	if req.MaxFamilyIncome != nil {
		scholarship.MaxFamilyIncome = *req.MaxFamilyIncome
	}
	if req.ExpiredAt != nil {
		if !req.ExpiredAt.After(time.Now()) {
			return response.ValidationFailed(c, map[string]string{
				"expiredAt": "Expiry must be in the future",
			})
		}
		scholarship.ExpiredAt = *req.ExpiredAt
	}

	if err := h.db.Save(&scholarship).Error; err != nil {
		return response.InternalServerError(c, "Failed to update scholarship")
	}

	h.invalidateListings(c.Context())

	return response.SuccessWithMessage(c, "Scholarship updated successfully", scholarship)
}

// DeleteScholarship handles DELETE /api/v1/scholarships/:id.
// Dependent applications, rankings and disbursements go with it.
func (h *ScholarshipHandler) DeleteScholarship(c *fiber.Ctx) error {
	id := c.Params("id")

	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	var scholarship model.Scholarship
	if err := h.db.Where("id = ?", id).First(&scholarship).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Scholarship not found")
		}
		return response.InternalServerError(c, "Failed to fetch scholarship")
	}

	if scholarship.OrganizationID != user.ID && user.Role != model.RoleAdmin {
		return response.Forbidden(c, "Not authorized to delete this scholarship")
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("scholarship_id = ?", id).
			Delete(&model.StudentRanking{}).Error; err != nil {
			return err
		}
		if err := tx.Where("scholarship_id = ?", id).
			Delete(&model.Disbursement{}).Error; err != nil {
			return err
		}
		if err := tx.Where("scholarship_id = ?", id).
			Delete(&model.Application{}).Error; err != nil {
			return err
		}
		return tx.Delete(&scholarship).Error
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to delete scholarship")
	}

	h.invalidateListings(c.Context())

	return response.SuccessWithMessage(c, "Scholarship deleted successfully", nil)
}
