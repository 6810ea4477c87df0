package scholarship

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/edu-empower/backend/database"
	organization_handlers "github.com/edu-empower/backend/handlers/organization"
	"github.com/edu-empower/backend/model"
	"github.com/edu-empower/backend/utils/auth"
	"github.com/edu-empower/backend/utils/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const testSecret = "integration-test-secret"

func mintToken(t *testing.T, userID string, role model.Role) string {
	t.Helper()

	claims := auth.Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

// TestScholarshipCreationRequiresVerifiedOrganization drives the full
// gate sequence: an unverified organization is rejected, verification
// unlocks creation, and a past expiry is still rejected afterwards.
func TestScholarshipCreationRequiresVerifiedOrganization(t *testing.T) {
	if os.Getenv("RUN_INTEGRATION_TESTS") != "true" {
		t.Skip("Skipping integration test. Set RUN_INTEGRATION_TESTS=true to run")
	}

	store, err := database.StartGORM()
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	db := store.GetDB().(*gorm.DB)

	verifier := auth.NewTokenVerifier(auth.VerifierConfig{Secret: testSecret})
	authMiddleware := middleware.NewAuthMiddleware(verifier, db)
	scholarshipHandler := NewScholarshipHandler(db, nil)
	organizationHandler := organization_handlers.NewOrganizationHandler(db)

	app := fiber.New()
	app.Post("/api/v1/scholarships/", authMiddleware.Required(), scholarshipHandler.CreateScholarship)
	app.Put("/api/v1/organizations/:id/verify", authMiddleware.RequireAdmin(), organizationHandler.VerifyOrganization)

	suffix := uuid.NewString()[:8]
	orgID := "itest_sch_org_" + suffix
	adminID := "itest_sch_admin_" + suffix

	org := model.User{ID: orgID, Name: "Scholarship Org", Email: "sch-org-" + suffix + "@test.local", Role: model.RoleOrganization}
	admin := model.User{ID: adminID, Name: "Scholarship Admin", Email: "sch-admin-" + suffix + "@test.local", Role: model.RoleAdmin}
	for _, u := range []model.User{org, admin} {
		if err := db.Create(&u).Error; err != nil {
			t.Fatalf("failed to create user: %v", err)
		}
	}
	defer func() {
		database.DeleteUserCascade(db, orgID)
		database.DeleteUserCascade(db, adminID)
	}()

	details := model.OrganizationDetails{
		UserID:             orgID,
		OrganizationName:   "Scholarship Org Trust",
		RegistrationNumber: "SOT-" + suffix,
		ContactPerson:      "Meera Iyer",
		ContactEmail:       "sot-" + suffix + "@test.local",
		ContactNumber:      "+919812345670",
		Address:            "14 MG Road, Pune",
	}
	if err := db.Create(&details).Error; err != nil {
		t.Fatalf("failed to create organization details: %v", err)
	}

	orgToken := mintToken(t, orgID, model.RoleOrganization)
	adminToken := mintToken(t, adminID, model.RoleAdmin)

	createScholarship := func(expiredAt time.Time) *http.Response {
		body, _ := json.Marshal(map[string]interface{}{
			"title":           "Gate Test Scholarship",
			"description":     "fixture",
			"totalAmount":     10000,
			"maxFamilyIncome": 300000,
			"expiredAt":       expiredAt.Format(time.RFC3339),
		})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/scholarships/", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+orgToken)
		resp, err := app.Test(req, 10000)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		return resp
	}

	// Unverified organization cannot create
	resp := createScholarship(time.Now().Add(30 * 24 * time.Hour))
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("unverified create: status = %d, want 403", resp.StatusCode)
	}

	// Admin verifies the organization
	req := httptest.NewRequest(http.MethodPut, "/api/v1/organizations/"+details.ID+"/verify", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err = app.Test(req, 10000)
	if err != nil {
		t.Fatalf("verify request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("verify: status = %d, want 200", resp.StatusCode)
	}

	// Retry with a future expiry succeeds
	resp = createScholarship(time.Now().Add(30 * 24 * time.Hour))
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("verified create: status = %d, want 201", resp.StatusCode)
	}

	var created struct {
		Data model.Scholarship `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created.Data.OrganizationID != orgID {
		t.Errorf("organization_id = %q, want %q", created.Data.OrganizationID, orgID)
	}

	// A past expiry is rejected even for a verified organization
	resp = createScholarship(time.Now().Add(-time.Hour))
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("past expiry: status = %d, want 400", resp.StatusCode)
	}
}
