package middleware

import (
	"context"
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/krishkalaria12/spot-serve/apperr"
	"github.com/krishkalaria12/spot-serve/auth"
	"github.com/krishkalaria12/spot-serve/models"
	"github.com/krishkalaria12/spot-serve/repositories/memory"
	"github.com/krishkalaria12/spot-serve/services"
)

func setupApp(t *testing.T) (*fiber.App, *auth.TokenService, *models.User) {
	t.Helper()
	store := memory.NewStore()
	user := &models.User{FirstName: "Demo", LastName: "User", Username: "demo", Email: "demo@example.com", HashedPassword: "x"}
	if err := store.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	tokens := auth.NewTokenService("secret", time.Hour)
	cache := auth.NewUserCache(store.Users(), time.Minute)
	t.Cleanup(cache.Stop)
	sessions := services.NewSessionService(store.Users(), cache, tokens)

	app := fiber.New(fiber.Config{ErrorHandler: apperr.Handler})
	app.Use(RestoreUser(sessions, CookieConfig{}))
	app.Get("/whoami", func(c *fiber.Ctx) error {
		if u := CurrentUser(c); u != nil {
			return c.SendString(u.Username)
		}
		return c.SendString("anonymous")
	})
	app.Get("/private", RequireAuth(), func(c *fiber.Ctx) error {
		id, err := CurrentUserID(c)
		if err != nil {
			return err
		}
		return c.SendString(strconv.FormatUint(uint64(id), 10))
	})
	return app, tokens, user
}

func do(t *testing.T, app *fiber.App, path string, headers map[string]string) (int, string, string) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b), resp.Header.Get("Set-Cookie")
}

func TestRestoreUserFromCookie(t *testing.T) {
	app, tokens, user := setupApp(t)
	signed, err := tokens.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	status, got, _ := do(t, app, "/whoami", map[string]string{"Cookie": auth.CookieName + "=" + signed})
	if status != fiber.StatusOK || got != "demo" {
		t.Fatalf("expected demo, got %d %q", status, got)
	}
}

func TestRestoreUserFromBearer(t *testing.T) {
	app, tokens, user := setupApp(t)
	signed, err := tokens.Issue(user)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	status, got, _ := do(t, app, "/private", map[string]string{"Authorization": "Bearer " + signed})
	if status != fiber.StatusOK || got != strconv.FormatUint(uint64(user.ID), 10) {
		t.Fatalf("expected user id, got %d %q", status, got)
	}
}

func TestAnonymousRequests(t *testing.T) {
	app, _, _ := setupApp(t)

	status, got, _ := do(t, app, "/whoami", nil)
	if status != fiber.StatusOK || got != "anonymous" {
		t.Fatalf("expected anonymous, got %d %q", status, got)
	}

	status, got, _ = do(t, app, "/private", nil)
	if status != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", status)
	}
	if !strings.Contains(got, MsgAuthRequired) {
		t.Fatalf("expected %q in body, got %s", MsgAuthRequired, got)
	}
}

func TestInvalidTokenClearsCookie(t *testing.T) {
	app, _, _ := setupApp(t)

	status, got, cookie := do(t, app, "/whoami", map[string]string{"Cookie": auth.CookieName + "=not-a-token"})
	if status != fiber.StatusOK || got != "anonymous" {
		t.Fatalf("expected anonymous, got %d %q", status, got)
	}
	if !strings.HasPrefix(cookie, auth.CookieName+"=;") {
		t.Fatalf("expected cleared session cookie, got %q", cookie)
	}
}

func TestBearerToken(t *testing.T) {
	tests := map[string]string{
		"Bearer abc":  "abc",
		"bearer abc":  "abc",
		"Bearer ":     "",
		"Basic abc":   "",
		"":            "",
		"Bearer  abc": "abc",
	}
	for header, want := range tests {
		if got := bearerToken(header); got != want {
			t.Errorf("bearerToken(%q) = %q, want %q", header, got, want)
		}
	}
}
