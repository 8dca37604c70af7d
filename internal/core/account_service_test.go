package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/crabstertechnology/EZCirkit/internal/models"
)

func TestAccountService_InitializeCreatesProfileOnce(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewAccountService(userRepo, nil, zap.NewNop())
	ctx := context.Background()
	viewer := Viewer{UserID: "user-1", Email: "asha@example.com", Name: "Asha", Authenticated: true}

	user, err := svc.Initialize(ctx, viewer)
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, "asha@example.com", user.Email)
	assert.False(t, user.IsAdmin)

	// A second call returns the stored profile, not a fresh one.
	userRepo.users["user-1"].DisplayName = "Asha K"
	user, err = svc.Initialize(ctx, viewer)
	require.NoError(t, err)
	assert.Equal(t, "Asha K", user.DisplayName)
}

func TestAccountService_UpdateDisplayName(t *testing.T) {
	userRepo := newFakeUserRepo()
	userRepo.users["user-1"] = &models.User{ID: "user-1", DisplayName: "Asha"}
	svc := NewAccountService(userRepo, nil, zap.NewNop())
	ctx := context.Background()

	user, err := svc.UpdateDisplayName(ctx, "user-1", "  Asha Kumar  ")
	require.NoError(t, err)
	assert.Equal(t, "Asha Kumar", user.DisplayName)
	assert.Equal(t, "Asha Kumar", userRepo.users["user-1"].DisplayName)

	_, err = svc.UpdateDisplayName(ctx, "user-1", "   ")
	assert.ErrorIs(t, err, ErrInvalidDisplayName)

	_, err = svc.UpdateDisplayName(ctx, "no-such-user", "Name")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
