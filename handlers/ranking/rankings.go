package ranking

import (
	"math"

	"github.com/edu-empower/backend/model"
	"github.com/edu-empower/backend/utils/response"
	"github.com/edu-empower/backend/utils/validation"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// RankingHandler handles student ranking requests
type RankingHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewRankingHandler creates a new ranking handler
func NewRankingHandler(db *gorm.DB) *RankingHandler {
	return &RankingHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// CreateRankingRequest represents the body for POST /rankings
type CreateRankingRequest struct {
	ApplicationID string  `json:"applicationId" validate:"required,uuid"`
	Score         float64 `json:"score" validate:"gte=0,lte=100"`
	Rank          float64 `json:"rank" validate:"required"`
}

// UpdateRankingRequest represents the body for PUT /rankings/:id
type UpdateRankingRequest struct {
	Score *float64 `json:"score" validate:"omitempty,gte=0,lte=100"`
	Rank  *float64 `json:"rank"`
}

// validRank reports whether a rank is a positive whole number. Ranks arrive
// as JSON numbers, so fractional values must be rejected explicitly.
func validRank(rank float64) bool {
	return rank == math.Trunc(rank) && rank >= 1
}

// CreateRanking handles POST /api/v1/rankings
func (h *RankingHandler) CreateRanking(c *fiber.Ctx) error {
	var req CreateRankingRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFailed(c, validation.FormatValidationErrors(err))
	}

	if !validRank(req.Rank) {
		return response.ValidationFailed(c, map[string]string{
			"rank": "Rank must be a whole number of at least 1",
		})
	}

	var application model.Application
	if err := h.db.Where("id = ?", req.ApplicationID).First(&application).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Application not found")
		}
		return response.InternalServerError(c, "Failed to fetch application")
	}

	var existing model.StudentRanking
	if err := h.db.Where("application_id = ?", req.ApplicationID).
		First(&existing).Error; err == nil {
		return response.Conflict(c, "Ranking already exists for this application")
	}

	ranking := model.StudentRanking{
		ApplicationID: req.ApplicationID,
		ScholarshipID: application.ScholarshipID,
		Score:         req.Score,
		Rank:          int(req.Rank),
	}

	if err := h.db.Create(&ranking).Error; err != nil {
		return response.InternalServerError(c, "Failed to create ranking")
	}

	return response.Created(c, ranking)
}

// ListRankings handles GET /api/v1/rankings
func (h *RankingHandler) ListRankings(c *fiber.Ctx) error {
	var rankings []model.StudentRanking
	if err := h.db.Order("rank ASC").Find(&rankings).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch rankings")
	}

	return response.Success(c, rankings)
}

// GetRanking handles GET /api/v1/rankings/:id
func (h *RankingHandler) GetRanking(c *fiber.Ctx) error {
	id := c.Params("id")

	var ranking model.StudentRanking
	if err := h.db.Where("id = ?", id).First(&ranking).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Ranking not found")
		}
		return response.InternalServerError(c, "Failed to fetch ranking")
	}

	return response.Success(c, ranking)
}

// ListScholarshipRankings handles GET /api/v1/rankings/scholarship/:scholarshipId
func (h *RankingHandler) ListScholarshipRankings(c *fiber.Ctx) error {
	scholarshipID := c.Params("scholarshipId")

	var rankings []model.StudentRanking
	if err := h.db.Where("scholarship_id = ?", scholarshipID).
		Order("rank ASC").Find(&rankings).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch rankings")
	}

	return response.Success(c, rankings)
}

// UpdateRanking handles PUT /api/v1/rankings/:id
func (h *RankingHandler) UpdateRanking(c *fiber.Ctx) error {
	id := c.Params("id")

	var ranking model.StudentRanking
	if err := h.db.Where("id = ?", id).First(&ranking).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Ranking not found")
		}
		return response.InternalServerError(c, "Failed to fetch ranking")
	}

	var req UpdateRankingRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFailed(c, validation.FormatValidationErrors(err))
	}

	if req.Score != nil {
		ranking.Score = *req.Score
	}
	if req.Rank != nil {
		if !validRank(*req.Rank) {
			return response.ValidationFailed(c, map[string]string{
				"rank": "Rank must be a whole number of at least 1",
			})
		}
		ranking.Rank = int(*req.Rank)
	}

	if err := h.db.Save(&ranking).Error; err != nil {
		return response.InternalServerError(c, "Failed to update ranking")
	}

	return response.SuccessWithMessage(c, "Ranking updated successfully", ranking)
}

// DeleteRanking handles DELETE /api/v1/rankings/:id
func (h *RankingHandler) DeleteRanking(c *fiber.Ctx) error {
	id := c.Params("id")

	var ranking model.StudentRanking
	if err := h.db.Where("id = ?", id).First(&ranking).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Ranking not found")
		}
		return response.InternalServerError(c, "Failed to fetch ranking")
	}

	if err := h.db.Delete(&ranking).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete ranking")
	}

	return response.SuccessWithMessage(c, "Ranking deleted successfully", nil)
}
