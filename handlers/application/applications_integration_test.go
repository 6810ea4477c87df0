package application

import (
	"bytes"
	"encoding/json"
	"errors"
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

func setupTestApp(t *testing.T) (*fiber.App, *gorm.DB, func()) {
	t.Helper()

	store, err := database.StartGORM()
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}
	if err := store.Init(); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	db := store.GetDB().(*gorm.DB)

	verifier := auth.NewTokenVerifier(auth.VerifierConfig{Secret: testSecret})
	authMiddleware := middleware.NewAuthMiddleware(verifier, db)
	handler := NewApplicationHandler(db)

	app := fiber.New()
	applications := app.Group("/api/v1/applications", authMiddleware.Required())
	applications.Post("/", handler.CreateApplication)
	applications.Patch("/:id/status", handler.UpdateApplicationStatus)

	return app, db, func() { store.Close() }
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, payload interface{}) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, 10000)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

// TestApplicationLifecycle covers the duplicate-application guard and the
// one-way status transition through the real HTTP surface.
func TestApplicationLifecycle(t *testing.T) {
	if os.Getenv("RUN_INTEGRATION_TESTS") != "true" {
		t.Skip("Skipping integration test. Set RUN_INTEGRATION_TESTS=true to run")
	}

	app, db, teardown := setupTestApp(t)
	defer teardown()

	suffix := uuid.NewString()[:8]
	studentID := "itest_app_student_" + suffix
	orgID := "itest_app_org_" + suffix

	student := model.User{ID: studentID, Name: "App Student", Email: "app-student-" + suffix + "@test.local", Role: model.RoleStudent}
	org := model.User{ID: orgID, Name: "App Org", Email: "app-org-" + suffix + "@test.local", Role: model.RoleOrganization}
	for _, u := range []model.User{student, org} {
		if err := db.Create(&u).Error; err != nil {
			t.Fatalf("failed to create user: %v", err)
		}
	}
	defer func() {
		database.DeleteUserCascade(db, studentID)
		database.DeleteUserCascade(db, orgID)
	}()

	scholarship := model.Scholarship{
		OrganizationID: orgID,
		Title:          "Lifecycle Scholarship",
		Description:    "fixture",
		TotalAmount:    10000,
		ExpiredAt:      time.Now().Add(24 * time.Hour),
	}
	if err := db.Create(&scholarship).Error; err != nil {
		t.Fatalf("failed to create scholarship: %v", err)
	}

	studentToken := mintToken(t, studentID, model.RoleStudent)
	orgToken := mintToken(t, orgID, model.RoleOrganization)

	createBody := map[string]string{
		"scholarshipId":     scholarship.ID,
		"scholarshipReason": "I need support for tuition fees.",
	}

	// First application succeeds
	resp := doJSON(t, app, http.MethodPost, "/api/v1/applications/", studentToken, createBody)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("first application: status = %d, want 201", resp.StatusCode)
	}

	var created struct {
		Data model.Application `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created.Data.Status != model.ApplicationPending {
		t.Errorf("new application status = %s, want PENDING", created.Data.Status)
	}

	// Second application to the same scholarship conflicts
	resp = doJSON(t, app, http.MethodPost, "/api/v1/applications/", studentToken, createBody)
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("duplicate application: status = %d, want 409", resp.StatusCode)
	}

	// A racing insert that slips past the existence check loses against the
	// unique index and surfaces as a translated duplicate-key error, which
	// the handler maps to the same 409
	dup := model.Application{
		StudentID:         studentID,
		ScholarshipID:     scholarship.ID,
		ScholarshipReason: "racing submission",
	}
	if err := db.Create(&dup).Error; !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Errorf("duplicate insert error = %v, want gorm.ErrDuplicatedKey", err)
	}

	// The owning organization approves
	statusPath := "/api/v1/applications/" + created.Data.ID + "/status"
	resp = doJSON(t, app, http.MethodPatch, statusPath, orgToken, map[string]string{"status": "APPROVED"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("approve: status = %d, want 200", resp.StatusCode)
	}

	// A decided application cannot be re-decided
	resp = doJSON(t, app, http.MethodPatch, statusPath, orgToken, map[string]string{"status": "REJECTED"})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("re-decide: status = %d, want 409", resp.StatusCode)
	}

	// The applicant cannot decide their own application
	resp = doJSON(t, app, http.MethodPatch, statusPath, studentToken, map[string]string{"status": "REJECTED"})
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("student deciding own application: status = %d, want 403", resp.StatusCode)
	}
}
