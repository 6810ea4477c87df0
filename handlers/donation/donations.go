package donation

import (
	"fmt"
	"math"

	"github.com/edu-empower/backend/model"
	"github.com/edu-empower/backend/services/payment"
	"github.com/edu-empower/backend/utils/middleware"
	"github.com/edu-empower/backend/utils/response"
	"github.com/edu-empower/backend/utils/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DonationHandler handles donation requests
type DonationHandler struct {
	db        *gorm.DB
	validator *validation.Validator
	payments  *payment.Client
}

// NewDonationHandler creates a new donation handler. The payment client may
// be nil when no gateway is configured; order creation then returns 503.
func NewDonationHandler(db *gorm.DB, payments *payment.Client) *DonationHandler {
	return &DonationHandler{
		db:        db,
		validator: validation.NewValidator(),
		payments:  payments,
	}
}

// CreateDonationRequest represents the body for POST /donations
type CreateDonationRequest struct {
	FundraiserID string  `json:"fundraiserId" validate:"required,uuid"`
	Amount       float64 `json:"amount" validate:"required,gt=0"`
}

// CreateOrderRequest represents the body for POST /donations/order
type CreateOrderRequest struct {
	FundraiserID string  `json:"fundraiserId" validate:"required,uuid"`
	Amount       float64 `json:"amount" validate:"required,gt=0"`
}

// CreateDonation handles POST /api/v1/donations.
// Records a completed donation against a fundraiser and bumps its total.
func (h *DonationHandler) CreateDonation(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req CreateDonationRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFailed(c, validation.FormatValidationErrors(err))
	}

	var fundraiser model.Fundraiser
	if err := h.db.Where("id = ?", req.FundraiserID).First(&fundraiser).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Fundraiser not found")
		}
		return response.InternalServerError(c, "Failed to fetch fundraiser")
	}

	donation := model.Donation{
		DonorID:      user.ID,
		FundraiserID: req.FundraiserID,
		Amount:       req.Amount,
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&donation).Error; err != nil {
			return err
		}
		return tx.Model(&model.Fundraiser{}).
			Where("id = ?", req.FundraiserID).
			Update("raised_amount", gorm.Expr("raised_amount + ?", req.Amount)).Error
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to record donation")
	}

	return response.Created(c, donation)
}

// CreateOrder handles POST /api/v1/donations/order.
// Creates a payment-gateway order for the donation amount; the donation
// itself is recorded once the gateway confirms payment.
func (h *DonationHandler) CreateOrder(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	if h.payments == nil {
		return response.ServiceUnavailable(c, "Payment gateway not configured")
	}

	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationFailed(c, validation.FormatValidationErrors(err))
	}

	var fundraiser model.Fundraiser
	if err := h.db.Where("id = ?", req.FundraiserID).First(&fundraiser).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Fundraiser not found")
		}
		return response.InternalServerError(c, "Failed to fetch fundraiser")
	}

	// Gateway amounts are in paise
	amountMinor := int64(math.Round(req.Amount * 100))
	receipt := fmt.Sprintf("donation-%s", uuid.NewString())

	order, err := h.payments.CreateOrder(c.Context(), amountMinor, "INR", receipt)
	if err != nil {
		return response.ServiceUnavailable(c, "Failed to create payment order")
	}

	return response.Created(c, order)
}

// ListDonations handles GET /api/v1/donations
func (h *DonationHandler) ListDonations(c *fiber.Ctx) error {
	var donations []model.Donation
	if err := h.db.Order("created_at DESC").Find(&donations).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch donations")
	}

	return response.Success(c, donations)
}

// GetDonation handles GET /api/v1/donations/:id
func (h *DonationHandler) GetDonation(c *fiber.Ctx) error {
	id := c.Params("id")

	var donation model.Donation
	if err := h.db.Where("id = ?", id).First(&donation).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Donation not found")
		}
		return response.InternalServerError(c, "Failed to fetch donation")
	}

	return response.Success(c, donation)
}

// ListFundraiserDonations handles GET /api/v1/donations/fundraiser/:fundraiserId
func (h *DonationHandler) ListFundraiserDonations(c *fiber.Ctx) error {
	fundraiserID := c.Params("fundraiserId")

	var donations []model.Donation
	if err := h.db.Where("fundraiser_id = ?", fundraiserID).
		Order("created_at DESC").Find(&donations).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch donations")
	}

	return response.Success(c, donations)
}

// DeleteDonation handles DELETE /api/v1/donations/:id (admin only).
// The fundraiser total is adjusted back down in the same transaction.
func (h *DonationHandler) DeleteDonation(c *fiber.Ctx) error {
	id := c.Params("id")

	var donation model.Donation
	if err := h.db.Where("id = ?", id).First(&donation).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Donation not found")
		}
		return response.InternalServerError(c, "Failed to fetch donation")
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&donation).Error; err != nil {
			return err
		}
		return tx.Model(&model.Fundraiser{}).
			Where("id = ?", donation.FundraiserID).
			Update("raised_amount", gorm.Expr("GREATEST(raised_amount - ?, 0)", donation.Amount)).Error
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to delete donation")
	}

	return response.SuccessWithMessage(c, "Donation deleted successfully", nil)
}
