package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rakhulsr/sho-storefront/app/models"
	"github.com/Rakhulsr/sho-storefront/app/repositories"
)

func TestAuthService(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	svc := NewAuthService(repositories.NewUserRepository(db))

	user, err := svc.Register(ctx, "Ravi", " Ravi@Example.com ", "secret-pass", "")
	require.NoError(t, err)
	assert.Equal(t, "ravi@example.com", user.Email)
	assert.Equal(t, models.RoleCustomer, user.Role)
	assert.NotEqual(t, "secret-pass", user.Password)

	_, err = svc.Register(ctx, "Ravi", "ravi@example.com", "another-pass", "")
	assert.ErrorIs(t, err, ErrEmailTaken)

	found, err := svc.Authenticate(ctx, "RAVI@example.com", "secret-pass")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = svc.Authenticate(ctx, "ravi@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, "nobody@example.com", "secret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	withProfile, err := svc.FindUser(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, withProfile.Profile)
	assert.False(t, withProfile.Profile.FirstOrderOfferUsed)
}
