package service

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/academic-records-api/internal/models"
	appErrors "github.com/noah-isme/academic-records-api/pkg/errors"
)

type actorDirectory interface {
	TeacherByAPIKey(ctx context.Context, key string) (*models.Teacher, error)
	AdminByAPIKey(ctx context.Context, key string) (*models.Admin, error)
}

// AuthService resolves static API keys to principals.
type AuthService struct {
	actors actorDirectory
	now    func() time.Time
	logger *zap.Logger
}

// NewAuthService creates a service instance.
func NewAuthService(actors actorDirectory, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{actors: actors, now: time.Now, logger: logger}
}

// Authenticate maps a credential to a principal. A key matches only while
// the account is active and the expiration date is strictly in the future.
// The teacher set is checked before the admin set; that resolution order is
// part of the contract.
func (s *AuthService) Authenticate(ctx context.Context, apiKey string) (*models.Principal, error) {
	if apiKey == "" {
		return nil, appErrors.ErrMissingAPIKey
	}
	now := s.now().UTC()

	teacher, err := s.actors.TeacherByAPIKey(ctx, apiKey)
	if err != nil && err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up teacher credential")
	}
	if teacher != nil && teacher.Active && teacher.ExpirationDate.After(now) {
		return &models.Principal{Kind: models.ActorTeacher, ID: teacher.ID, Name: teacher.Name}, nil
	}

	admin, err := s.actors.AdminByAPIKey(ctx, apiKey)
	if err != nil && err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up admin credential")
	}
	if admin != nil && admin.Active && admin.ExpirationDate.After(now) {
		return &models.Principal{Kind: models.ActorAdmin, ID: admin.ID, Name: admin.Name}, nil
	}

	return nil, appErrors.ErrInvalidAPIKey
}

// Login resolves the credential and returns the redacted account profile.
// A missing key is a 400 on this path, unlike the 401 of the auth header.
func (s *AuthService) Login(ctx context.Context, apiKey string) (*models.Profile, error) {
	if apiKey == "" {
		return nil, appErrors.New(appErrors.ErrValidation.Code, http.StatusBadRequest, "API key required")
	}
	now := s.now().UTC()

	teacher, err := s.actors.TeacherByAPIKey(ctx, apiKey)
	if err != nil && err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up teacher credential")
	}
	if teacher != nil && teacher.Active && teacher.ExpirationDate.After(now) {
		profile := models.TeacherProfile(teacher)
		return &profile, nil
	}

	admin, err := s.actors.AdminByAPIKey(ctx, apiKey)
	if err != nil && err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up admin credential")
	}
	if admin != nil && admin.Active && admin.ExpirationDate.After(now) {
		profile := models.AdminProfile(admin)
		return &profile, nil
	}

	return nil, appErrors.ErrInvalidAPIKey
}
