package response

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func performRequest(t *testing.T, handler fiber.Handler) (*http.Response, map[string]interface{}) {
	t.Helper()

	app := fiber.New()
	app.Get("/", handler)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}

	var body map[string]interface{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Fatalf("failed to decode body %q: %v", raw, err)
		}
	}
	return resp, body
}

func TestSuccessEnvelope(t *testing.T) {
	resp, body := performRequest(t, func(c *fiber.Ctx) error {
		return Success(c, fiber.Map{"hello": "world"})
	})

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if body["success"] != true {
		t.Error("expected success=true")
	}
	if body["error"] != nil {
		t.Error("expected no error object")
	}
}

func TestNotFoundEnvelope(t *testing.T) {
	resp, body := performRequest(t, func(c *fiber.Ctx) error {
		return NotFound(c, "Scholarship not found")
	})

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	if body["success"] != false {
		t.Error("expected success=false")
	}

	errObj, ok := body["error"].(map[string]interface{})
	if !ok {
		t.Fatal("expected an error object")
	}
	if errObj["code"] != "NOT_FOUND" {
		t.Errorf("code = %v, want NOT_FOUND", errObj["code"])
	}
	if errObj["message"] != "Scholarship not found" {
		t.Errorf("message = %v", errObj["message"])
	}
}

func TestValidationFailedEnvelope(t *testing.T) {
	resp, body := performRequest(t, func(c *fiber.Ctx) error {
		return ValidationFailed(c, map[string]string{"contactNumber": "Invalid phone"})
	})

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}

	errObj, ok := body["error"].(map[string]interface{})
	if !ok {
		t.Fatal("expected an error object")
	}
	if errObj["code"] != "VALIDATION_ERROR" {
		t.Errorf("code = %v, want VALIDATION_ERROR", errObj["code"])
	}

	fields, ok := errObj["fields"].(map[string]interface{})
	if !ok {
		t.Fatal("expected a fields map")
	}
	if fields["contactNumber"] != "Invalid phone" {
		t.Errorf("fields = %v", fields)
	}
}
