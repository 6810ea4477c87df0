package organization

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/edu-empower/backend/database"
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

// TestOrganizationVerificationFlow covers profile submission, the duplicate
// guard, admin verification and the already-verified conflict.
func TestOrganizationVerificationFlow(t *testing.T) {
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
	handler := NewOrganizationHandler(db)

	app := fiber.New()
	organizations := app.Group("/api/v1/organizations")
	organizations.Post("/", authMiddleware.Required(), handler.CreateOrganization)
	organizations.Put("/:id/verify", authMiddleware.RequireAdmin(), handler.VerifyOrganization)

	suffix := uuid.NewString()[:8]
	orgID := "itest_verify_org_" + suffix
	adminID := "itest_verify_admin_" + suffix

	org := model.User{ID: orgID, Name: "Verify Org", Email: "verify-org-" + suffix + "@test.local", Role: model.RoleOrganization}
	admin := model.User{ID: adminID, Name: "Verify Admin", Email: "verify-admin-" + suffix + "@test.local", Role: model.RoleAdmin}
	for _, u := range []model.User{org, admin} {
		if err := db.Create(&u).Error; err != nil {
			t.Fatalf("failed to create user: %v", err)
		}
	}
	defer func() {
		database.DeleteUserCascade(db, orgID)
		database.DeleteUserCascade(db, adminID)
	}()

	orgToken := mintToken(t, orgID, model.RoleOrganization)
	adminToken := mintToken(t, adminID, model.RoleAdmin)

	createBody, _ := json.Marshal(map[string]string{
		"organizationName":   "Verify Org Trust",
		"registrationNumber": "VOT-" + suffix,
		"contactPerson":      "Meera Iyer",
		"contactEmail":       "contact-" + suffix + "@test.local",
		"contactNumber":      "+919812345670",
		"address":            "14 MG Road, Pune",
	})

	post := func(token string) *http.Response {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/organizations/", bytes.NewReader(createBody))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req, 10000)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		return resp
	}

	// Submit the profile
	resp := post(orgToken)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: status = %d, want 201", resp.StatusCode)
	}

	var created struct {
		Data model.OrganizationDetails `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created.Data.Verified {
		t.Error("new organization should start unverified")
	}

	// Submitting again conflicts
	resp = post(orgToken)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate profile: status = %d, want 409", resp.StatusCode)
	}

	verify := func(token string) *http.Response {
		req := httptest.NewRequest(http.MethodPut, "/api/v1/organizations/"+created.Data.ID+"/verify", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req, 10000)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		return resp
	}

	// Non-admin cannot verify
	resp = verify(orgToken)
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("non-admin verify: status = %d, want 403", resp.StatusCode)
	}

	// Admin verifies
	resp = verify(adminToken)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("verify: status = %d, want 200", resp.StatusCode)
	}

	var details model.OrganizationDetails
	if err := db.Where("id = ?", created.Data.ID).First(&details).Error; err != nil {
		t.Fatalf("failed to reload details: %v", err)
	}
	if !details.Verified || details.VerifiedAt == nil {
		t.Error("expected verified flag and timestamp to be set")
	}

	// Verification is one way
	resp = verify(adminToken)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("re-verify: status = %d, want 409", resp.StatusCode)
	}
}
