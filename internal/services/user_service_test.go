package services

import (
	"context"
	"errors"
	"testing"

	"github.com/franciscosanchezn/thunder-road-api/internal/models"
	"github.com/franciscosanchezn/thunder-road-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAuthenticate(t *testing.T) {
	service := NewUserService(testutil.NewTestDB(t))
	ctx := context.Background()
	require.NoError(t, service.CreateUser(ctx, &models.User{Email: "Chef@Example.com", Password: "s3cret", Role: RoleAdmin}))

	user, err := service.Authenticate(ctx, "chef@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, user.Role)
	assert.Empty(t, user.Password)

	_, err = service.Authenticate(ctx, "chef@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = service.Authenticate(ctx, "nobody@example.com", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	service := NewUserService(testutil.NewTestDB(t))
	ctx := context.Background()
	require.NoError(t, service.CreateUser(ctx, &models.User{Email: "a@example.com", Password: "x"}))

	err := service.CreateUser(ctx, &models.User{Email: "A@example.com", Password: "y"})
	assert.ErrorIs(t, err, ErrConflict)

	err = service.CreateUser(ctx, &models.User{Email: "b@example.com"})
	var validationErr *ValidationError
	assert.True(t, errors.As(err, &validationErr))
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	service := NewUserService(testutil.NewTestDB(t))
	ctx := context.Background()

	first, created, err := service.EnsureAdmin(ctx, "admin@example.com", "", "pw")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, RoleAdmin, first.Role)
	assert.Equal(t, "Administrator", first.Name)

	second, created, err := service.EnsureAdmin(ctx, "admin@example.com", "Other", "changed")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.CheckPassword("pw"))
}

func TestClientLifecycle(t *testing.T) {
	db := testutil.NewTestDB(t)
	users := NewUserService(db)
	clients := NewClientService(db)
	ctx := context.Background()

	owner, _, err := users.EnsureAdmin(ctx, "admin@example.com", "Admin", "pw")
	require.NoError(t, err)

	client, secret, err := clients.CreateClient(ctx, NewClient{Name: "POS", OwnerID: owner.ID})
	require.NoError(t, err)
	assert.NotEmpty(t, secret)
	assert.NotEqual(t, secret, client.Secret)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(client.Secret), []byte(secret)))
	assert.True(t, client.VerifyPassword(secret))

	listed, err := clients.ListClients(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	owned, err := clients.GetClientsByUserID(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, owned, 1)

	require.NoError(t, clients.DeleteClient(ctx, client.ID))
	assert.ErrorIs(t, clients.DeleteClient(ctx, client.ID), ErrNotFound)
	_, err = clients.GetClientByID(ctx, client.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateClientNeedsKnownOwner(t *testing.T) {
	clients := NewClientService(testutil.NewTestDB(t))

	_, _, err := clients.CreateClient(context.Background(), NewClient{Name: "POS"})
	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))

	_, _, err = clients.CreateClient(context.Background(), NewClient{Name: "POS", OwnerID: 42})
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "unknown user", validationErr.Fields["owner"])
}
