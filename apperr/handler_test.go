package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func newApp(err error) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: Handler})
	app.Get("/", func(c *fiber.Ctx) error { return err })
	return app
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func TestHandlerStatuses(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"validation", Validation(map[string]string{"name": "Name is required"}), http.StatusBadRequest, "Bad Request"},
		{"unauthenticated", Unauthenticated("Invalid credentials"), http.StatusUnauthorized, "Invalid credentials"},
		{"forbidden", Forbidden(), http.StatusForbidden, "Forbidden"},
		{"not found", NotFound("Spot couldn't be found"), http.StatusNotFound, "Spot couldn't be found"},
		{"conflict", Conflict("User already has a review for this spot"), http.StatusConflict, "User already has a review for this spot"},
		{"wrapped", fmt.Errorf("service: %w", Forbidden()), http.StatusForbidden, "Forbidden"},
		{"fiber", fiber.NewError(fiber.StatusMethodNotAllowed, "nope"), http.StatusMethodNotAllowed, "nope"},
		{"unknown", errors.New("db exploded"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := newApp(tc.err).Test(httptest.NewRequest(http.MethodGet, "/", nil))
			if err != nil {
				t.Fatalf("request: %v", err)
			}
			if resp.StatusCode != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, resp.StatusCode)
			}
			body := decode(t, resp)
			if body["message"] != tc.msg {
				t.Fatalf("expected message %q, got %v", tc.msg, body["message"])
			}
		})
	}
}

func TestHandlerValidationFields(t *testing.T) {
	resp, err := newApp(Validation(map[string]string{"lat": "Latitude must be within -90 and 90"})).
		Test(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	body := decode(t, resp)
	fields, ok := body["errors"].(map[string]any)
	if !ok || fields["lat"] != "Latitude must be within -90 and 90" {
		t.Fatalf("expected field errors, got %v", body)
	}
}

func TestKindOf(t *testing.T) {
	if KindOf(NotFound("x")) != KindNotFound {
		t.Fatalf("expected not found kind")
	}
	if KindOf(errors.New("plain")) != KindInternal {
		t.Fatalf("expected internal kind")
	}
}
