package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homeserve/internal/database"
	jwtsvc "homeserve/internal/pkg/jwt"
)

func setupAuthService(t *testing.T) *Service {
	t.Helper()
	db, err := database.Connect(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}))

	repo := NewUserRepository(db)
	j := jwtsvc.New("test-secret", time.Hour)
	return NewService(repo, j)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	u, token, err := svc.Register(ctx, RegisterParams{
		Email:    "anna@example.com",
		Password: "secret123",
		Role:     RoleCustomer,
		Name:     "Anna",
		Phone:    "+1 555 0101",
	})
	require.NoError(t, err)
	assert.NotZero(t, u.ID)
	assert.NotEmpty(t, token)
	assert.NotEqual(t, "secret123", u.PasswordHash, "password must be stored hashed")

	got, loginToken, err := svc.Login(ctx, "anna@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.NotEmpty(t, loginToken)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, RegisterParams{Email: "anna@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, _, err = svc.Register(ctx, RegisterParams{Email: "anna@example.com", Password: "other456"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterDefaultsToCustomerRole(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	u, _, err := svc.Register(ctx, RegisterParams{Email: "x@example.com", Password: "secret123", Role: "admin"})
	require.NoError(t, err)
	assert.Equal(t, RoleCustomer, u.Role)

	h, _, err := svc.Register(ctx, RegisterParams{Email: "h@example.com", Password: "secret123", Role: RoleHelper})
	require.NoError(t, err)
	assert.Equal(t, RoleHelper, h.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	_, _, err := svc.Register(ctx, RegisterParams{Email: "anna@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "anna@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@example.com", "secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginTokenCarriesIdentity(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	u, token, err := svc.Register(ctx, RegisterParams{Email: "h@example.com", Password: "secret123", Role: RoleHelper})
	require.NoError(t, err)

	j := jwtsvc.New("test-secret", time.Hour)
	claims, err := j.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, string(RoleHelper), claims.Role)
}

func TestUpdateProfilePartial(t *testing.T) {
	svc := setupAuthService(t)
	ctx := context.Background()

	u, _, err := svc.Register(ctx, RegisterParams{
		Email:    "anna@example.com",
		Password: "secret123",
		Name:     "Anna",
		Phone:    "+1 555 0101",
		Address:  "12 Main Street",
	})
	require.NoError(t, err)

	got, err := svc.UpdateProfile(ctx, u.ID, UpdateProfileParams{Phone: "+1 555 0202"})
	require.NoError(t, err)
	assert.Equal(t, "+1 555 0202", got.Phone)
	assert.Equal(t, "Anna", got.Name)
	assert.Equal(t, "12 Main Street", got.Address)
}
