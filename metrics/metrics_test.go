package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/krishkalaria12/spot-serve/apperr"
)

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/test/record", "200"))
	RecordAPIRequest("GET", "/test/record", 200, 10*time.Millisecond)
	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/test/record", "200"))
	if after != before+1 {
		t.Fatalf("expected counter to increase by 1, got %v -> %v", before, after)
	}
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: apperr.Handler})
	app.Use(Middleware())
	app.Get("/things/:id", func(c *fiber.Ctx) error {
		if c.Params("id") == "missing" {
			return apperr.NotFound("Thing couldn't be found")
		}
		return c.SendStatus(fiber.StatusOK)
	})

	ok := APIRequestsTotal.WithLabelValues("GET", "/things/:id", "200")
	notFound := APIRequestsTotal.WithLabelValues("GET", "/things/:id", "404")
	okBefore, nfBefore := testutil.ToFloat64(ok), testutil.ToFloat64(notFound)

	for _, path := range []string{"/things/1", "/things/2", "/things/missing"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		if err != nil {
			t.Fatalf("request %s: %v", path, err)
		}
		resp.Body.Close()
	}

	if got := testutil.ToFloat64(ok) - okBefore; got != 2 {
		t.Fatalf("expected 2 ok requests, got %v", got)
	}
	if got := testutil.ToFloat64(notFound) - nfBefore; got != 1 {
		t.Fatalf("expected 1 not found request, got %v", got)
	}
	if got := testutil.ToFloat64(APIActiveRequests); got != 0 {
		t.Fatalf("expected no active requests, got %v", got)
	}
}
