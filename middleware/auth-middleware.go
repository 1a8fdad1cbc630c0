package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/krishkalaria12/spot-serve/apperr"
	"github.com/krishkalaria12/spot-serve/auth"
	"github.com/krishkalaria12/spot-serve/logging"
	"github.com/krishkalaria12/spot-serve/models"
	"github.com/krishkalaria12/spot-serve/services"
)

const userKey = "user"

const MsgAuthRequired = "Authentication required"

// RestoreUser loads the user behind the session token, if any, and stores
// it in the request locals. Requests with a bad token continue anonymously
// and have the session cookie cleared.
func RestoreUser(sessions services.SessionService, cookies CookieConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := bearerToken(c.Get(fiber.HeaderAuthorization))
		if tokenStr == "" {
			tokenStr = c.Cookies(auth.CookieName)
		}
		if tokenStr == "" {
			return c.Next()
		}

		user, err := sessions.Restore(c.UserContext(), tokenStr)
		if errors.Is(err, auth.ErrInvalidToken) {
			logging.Debug().Err(err).Str("path", c.Path()).Msg("discarding session token")
			ClearSessionCookie(c, cookies)
			return c.Next()
		}
		if err != nil {
			return err
		}

		c.Locals(userKey, user)
		return c.Next()
	}
}

// RequireAuth rejects requests without a restored user.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentUser(c) == nil {
			return apperr.Unauthenticated(MsgAuthRequired)
		}
		return c.Next()
	}
}

// CurrentUser returns the restored user or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userKey).(*models.User)
	return user
}

func CurrentUserID(c *fiber.Ctx) (uint, error) {
	user := CurrentUser(c)
	if user == nil {
		return 0, apperr.Unauthenticated(MsgAuthRequired)
	}
	return user.ID, nil
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
