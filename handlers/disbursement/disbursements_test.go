package disbursement

import (
	"testing"

	"github.com/edu-empower/backend/utils/validation"
	"github.com/google/uuid"
)

func TestCreateDisbursementRequestStatus(t *testing.T) {
	v := validation.NewValidator()

	base := CreateDisbursementRequest{
		ScholarshipID: uuid.NewString(),
		StudentID:     "user_1",
		Amount:        100,
	}

	// Omitted status and every enumeration member are accepted
	for _, status := range []string{"", "PENDING", "PROCESSING", "COMPLETED", "FAILED"} {
		req := base
		req.Status = status
		if err := v.ValidateStruct(req); err != nil {
			t.Errorf("status %q: unexpected error: %v", status, err)
		}
	}

	// Anything outside the enumeration is rejected
	for _, status := range []string{"BOGUS", "pending", "DONE", "CANCELLED"} {
		req := base
		req.Status = status
		if err := v.ValidateStruct(req); err == nil {
			t.Errorf("status %q: expected a validation error", status)
		} else if msg, ok := validation.FormatValidationErrors(err)["status"]; !ok {
			t.Errorf("status %q: expected a status field error, got %v", status, msg)
		}
	}
}
