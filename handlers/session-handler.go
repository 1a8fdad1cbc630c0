package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/krishkalaria12/spot-serve/dto"
	"github.com/krishkalaria12/spot-serve/middleware"
	"github.com/krishkalaria12/spot-serve/services"
)

type SessionHandler struct {
	sessions services.SessionService
	cookies  middleware.CookieConfig
}

func NewSessionHandler(sessions services.SessionService, cookies middleware.CookieConfig) *SessionHandler {
	return &SessionHandler{sessions: sessions, cookies: cookies}
}

// Login checks the credential and password and sets the session cookie.
func (h *SessionHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(err, req)
	}

	session, err := h.sessions.Login(c.UserContext(), req)
	if err != nil {
		return err
	}

	middleware.SetSessionCookie(c, session.Token, h.cookies)
	return c.JSON(dto.UserEnvelope{User: dto.NewSafeUser(session.User)})
}

func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	middleware.ClearSessionCookie(c, h.cookies)
	return c.JSON(dto.MessageResponse{Message: "success"})
}

// Restore reports the current user, or a null user for anonymous requests.
func (h *SessionHandler) Restore(c *fiber.Ctx) error {
	return c.JSON(dto.UserEnvelope{User: dto.NewSafeUser(middleware.CurrentUser(c))})
}

func (h *SessionHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(err, req)
	}

	session, err := h.sessions.Signup(c.UserContext(), req)
	if err != nil {
		return err
	}

	middleware.SetSessionCookie(c, session.Token, h.cookies)
	return c.Status(fiber.StatusCreated).JSON(dto.UserEnvelope{User: dto.NewSafeUser(session.User)})
}
