package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/krishkalaria12/spot-serve/apperr"
	"github.com/krishkalaria12/spot-serve/auth"
	"github.com/krishkalaria12/spot-serve/dto"
	"github.com/krishkalaria12/spot-serve/logging"
	"github.com/krishkalaria12/spot-serve/models"
	"github.com/krishkalaria12/spot-serve/repositories"
	"github.com/krishkalaria12/spot-serve/validation"
)

// Tokens issues and verifies session tokens.
type Tokens interface {
	Issue(user *models.User) (string, error)
	Parse(signed string) (uint, error)
}

// UserLookup resolves a user id restored from a session token.
type UserLookup interface {
	Get(ctx context.Context, id uint) (*models.User, error)
}

// Session pairs an authenticated user with the token for its cookie.
type Session struct {
	User  *models.User
	Token string
}

type SessionService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*Session, error)
	Signup(ctx context.Context, req dto.SignupRequest) (*Session, error)
	// Restore returns the user a token was issued to. It returns
	// auth.ErrInvalidToken for bad tokens and tokens of deleted users.
	Restore(ctx context.Context, token string) (*models.User, error)
}

type sessionService struct {
	users  repositories.UserRepository
	lookup UserLookup
	tokens Tokens
}

func NewSessionService(users repositories.UserRepository, lookup UserLookup, tokens Tokens) SessionService {
	return &sessionService{users: users, lookup: lookup, tokens: tokens}
}

func (s *sessionService) Login(ctx context.Context, req dto.LoginRequest) (*Session, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.users.GetByCredential(ctx, strings.TrimSpace(req.Credential))
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperr.Unauthenticated(MsgInvalidCredentials)
	}
	if err != nil {
		return nil, fmt.Errorf("SessionService.Login: %w", err)
	}
	if !auth.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, apperr.Unauthenticated(MsgInvalidCredentials)
	}

	return s.open(user)
}

func (s *sessionService) Signup(ctx context.Context, req dto.SignupRequest) (*Session, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("SessionService.Signup: %w", err)
	}
	user := &models.User{
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		Email:          strings.TrimSpace(req.Email),
		Username:       strings.TrimSpace(req.Username),
		HashedPassword: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperr.Conflict(MsgUserExists)
		}
		return nil, fmt.Errorf("SessionService.Signup: %w", err)
	}

	logging.Info().Uint("user_id", user.ID).Msg("user signed up")
	return s.open(user)
}

func (s *sessionService) Restore(ctx context.Context, token string) (*models.User, error) {
	id, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	user, err := s.lookup.Get(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("%w: user %d no longer exists", auth.ErrInvalidToken, id)
	}
	if err != nil {
		return nil, fmt.Errorf("SessionService.Restore: %w", err)
	}
	return user, nil
}

func (s *sessionService) open(user *models.User) (*Session, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("SessionService.open: %w", err)
	}
	return &Session{User: user, Token: token}, nil
}
