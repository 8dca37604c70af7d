package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"

	"github.com/crabstertechnology/EZCirkit/internal/db"
	"github.com/crabstertechnology/EZCirkit/internal/models"
)

// Custom errors for the AccountService
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidDisplayName = errors.New("display name must not be empty")
)

// accountService implements the AccountService interface.
type accountService struct {
	userRepo   db.UserRepository
	authClient *auth.Client
	logger     *zap.Logger
}

// NewAccountService creates a new AccountService instance. The auth client
// may be nil in tests; display name changes then only touch the profile
// document.
func NewAccountService(ur db.UserRepository, ac *auth.Client, logger *zap.Logger) AccountService {
	return &accountService{
		userRepo:   ur,
		authClient: ac,
		logger:     logger,
	}
}

// Initialize returns the caller's profile document, creating it from the
// token claims on first sign-in. IsAdmin always starts false; it is only ever
// set by hand in the database.
func (s *accountService) Initialize(ctx context.Context, viewer Viewer) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, viewer.UserID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("failed to get user '%s': %w", viewer.UserID, err)
	}

	user = &models.User{
		ID:          viewer.UserID,
		Email:       viewer.Email,
		DisplayName: viewer.Name,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create profile for user '%s': %w", viewer.UserID, err)
	}
	s.logger.Info("created profile for first sign-in", zap.String("userId", viewer.UserID))
	return user, nil
}

// Get returns a profile document.
func (s *accountService) Get(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: '%s'", ErrUserNotFound, userID)
		}
		return nil, fmt.Errorf("failed to get user '%s': %w", userID, err)
	}
	return user, nil
}

// UpdateDisplayName changes the display name on both the profile document and
// the Firebase Auth account, so future ID tokens carry the new name.
func (s *accountService) UpdateDisplayName(ctx context.Context, userID, displayName string) (*models.User, error) {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return nil, ErrInvalidDisplayName
	}

	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.DisplayName = displayName
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile of user '%s': %w", userID, err)
	}

	if s.authClient != nil {
		update := (&auth.UserToUpdate{}).DisplayName(displayName)
		if _, err := s.authClient.UpdateUser(ctx, userID, update); err != nil {
			// The profile document is authoritative for rendering; an auth
			// mismatch heals on the next update attempt.
			s.logger.Warn("failed to propagate display name to auth account",
				zap.String("userId", userID),
				zap.Error(err))
		}
	}
	return user, nil
}

// ListUsers returns every profile document for the admin view.
func (s *accountService) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
