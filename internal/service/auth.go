package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/projects_api/internal/hash"
	"github.com/Skotchmaster/projects_api/internal/logging"
	"github.com/Skotchmaster/projects_api/internal/models"
	"github.com/Skotchmaster/projects_api/internal/repo"
	"github.com/Skotchmaster/projects_api/internal/tokens"
)

type AuthService struct {
	Repo   *repo.GormRepo
	Hasher hash.Hasher
	Tokens *tokens.Service

	// compared against when the username is unknown so both login
	// failure paths pay for one bcrypt comparison
	dummyHash string
}

func NewAuthService(r *repo.GormRepo, h hash.Hasher, ts *tokens.Service) (*AuthService, error) {
	dummy, err := h.HashPassword("not-a-real-password")
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}
	return &AuthService{Repo: r, Hasher: h, Tokens: ts, dummyHash: dummy}, nil
}

type LoginResult struct {
	AccessToken string
	User        *models.User
}

func (s *AuthService) Register(ctx context.Context, username, password, role string) (*models.User, error) {
	username = strings.TrimSpace(username)
	l := logging.FromContext(ctx).With("svc", "auth.register", "username", username)

	if username == "" || password == "" {
		return nil, newError(ErrValidation, "username and password are required")
	}
	r, err := models.ParseRole(role)
	if err != nil {
		return nil, newError(ErrValidation, "Invalid role. Use 'admin' or 'user'.")
	}

	pwHash, err := s.Hasher.HashPassword(password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := &models.User{
		Username:     username,
		PasswordHash: pwHash,
		Role:         r,
	}
	if err := s.Repo.CreateUserIfNotExists(ctx, user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			l.Warn("register_error", "status", 409, "reason", "user already exist")
			return nil, newError(ErrConflict, "Username already registered")
		}
		l.Error("register_error", "status", 500, "reason", "cannot create user", "error", err)
		return nil, err
	}

	l.Info("register_successful", "user_id", user.ID, "role", user.Role.String())
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	if username == "" || password == "" {
		return nil, newError(ErrValidation, "username and password are required")
	}

	user, err := s.Repo.GetUserByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			l.Error("login_failed", "status", 500, "error", err)
			return nil, err
		}
		s.Hasher.CheckPassword(s.dummyHash, password)
		l.Warn("login_failed", "status", 401, "reason", "unknown username")
		return nil, ErrInvalidCredentials
	}

	if !s.Hasher.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "password mismatch")
		return nil, ErrInvalidCredentials
	}

	token, err := s.Tokens.Issue(strconv.FormatUint(uint64(user.ID), 10), user.Role)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot sign token", "error", err)
		return nil, err
	}

	l.Info("login_successful", "user_id", user.ID)
	return &LoginResult{AccessToken: token, User: user}, nil
}
