package main

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/krishkalaria12/spot-serve/config"
)

func TestNewAppWithoutDatabaseTraffic(t *testing.T) {
	cfg := config.Settings{JWTSecret: "secret", Port: "0", UserCacheTTL: time.Minute}
	app, cleanup := NewApp(cfg, nil, nil)
	defer cleanup()

	for _, tc := range []struct {
		path, want string
	}{
		{"/health", `"status":"ok"`},
		{"/api/session", `{"user":null}`},
		{"/metrics", "api_requests_total"},
	} {
		resp, err := app.Test(httptest.NewRequest("GET", tc.path, nil), -1)
		if err != nil {
			t.Fatalf("%s: %v", tc.path, err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != 200 {
			t.Fatalf("%s: expected 200, got %d", tc.path, resp.StatusCode)
		}
		if !strings.Contains(string(body), tc.want) {
			t.Fatalf("%s: expected %q in %s", tc.path, tc.want, body)
		}
	}
}

func TestUnknownRouteIs404JSON(t *testing.T) {
	app, cleanup := NewApp(config.Settings{JWTSecret: "secret"}, nil, nil)
	defer cleanup()

	resp, err := app.Test(httptest.NewRequest("GET", "/api/nowhere", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("expected json error body, got %q", ct)
	}
}
