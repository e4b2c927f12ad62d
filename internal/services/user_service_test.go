package services_test

import (
	"context"
	"testing"

	"pasar/internal/models"
	"pasar/internal/repositories"
	"pasar/internal/services"
	"pasar/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUsers(t *testing.T, users *repositories.MockUserRepository) (admin, customer *models.User) {
	t.Helper()
	admin = &models.User{Email: "admin@example.com", Role: models.RoleAdmin, IsActive: true}
	customer = &models.User{Email: "customer@example.com", Role: models.RoleCustomer, IsActive: true}
	require.NoError(t, users.Create(context.Background(), admin))
	require.NoError(t, users.Create(context.Background(), customer))
	return admin, customer
}

func TestGetUsersRequiresAdmin(t *testing.T) {
	users := repositories.NewMockUserRepository()
	svc := services.NewUserService(users)
	admin, _ := seedUsers(t, users)
	ctx := context.Background()

	_, err := svc.GetUsers(ctx, models.RoleCustomer)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	_, err = svc.GetUsers(ctx, models.RoleSeller)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	listed, err := svc.GetUsers(ctx, admin.Role)
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

func TestGetUserByIDSelfOrAdmin(t *testing.T) {
	users := repositories.NewMockUserRepository()
	svc := services.NewUserService(users)
	admin, customer := seedUsers(t, users)
	ctx := context.Background()

	got, err := svc.GetUserByID(ctx, customer.ID, customer.ID, customer.Role)
	require.NoError(t, err)
	assert.Equal(t, customer.Email, got.Email)

	_, err = svc.GetUserByID(ctx, admin.ID, customer.ID, customer.Role)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	_, err = svc.GetUserByID(ctx, customer.ID, admin.ID, admin.Role)
	assert.NoError(t, err)

	_, err = svc.GetUserByID(ctx, 999, admin.ID, admin.Role)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestSetUserStatusDeactivatesAccount(t *testing.T) {
	users := repositories.NewMockUserRepository()
	svc := services.NewUserService(users)
	auth := services.NewAuthService(users, testJWTSecret)
	admin, _ := seedUsers(t, users)
	ctx := context.Background()

	registered, err := auth.Register(ctx, services.RegisterInput{
		Email:    "bob@example.com",
		Password: "s3cret",
	})
	require.NoError(t, err)
	_, _, err = auth.Login(ctx, "bob@example.com", "s3cret")
	require.NoError(t, err)

	updated, err := svc.SetUserStatus(ctx, registered.ID, false, admin.ID, admin.Role)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	// A deactivated account can no longer authenticate.
	_, _, err = auth.Login(ctx, "bob@example.com", "s3cret")
	assert.EqualError(t, err, "account is disabled")

	// Reactivation restores access.
	_, err = svc.SetUserStatus(ctx, registered.ID, true, admin.ID, admin.Role)
	require.NoError(t, err)
	_, _, err = auth.Login(ctx, "bob@example.com", "s3cret")
	assert.NoError(t, err)
}

func TestSetUserStatusGuards(t *testing.T) {
	users := repositories.NewMockUserRepository()
	svc := services.NewUserService(users)
	admin, customer := seedUsers(t, users)
	ctx := context.Background()

	_, err := svc.SetUserStatus(ctx, admin.ID, false, customer.ID, customer.Role)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	_, err = svc.SetUserStatus(ctx, admin.ID, false, admin.ID, admin.Role)
	assert.Equal(t, apperr.KindInvalidState, apperr.KindOf(err), "admins cannot deactivate themselves")

	_, err = svc.SetUserStatus(ctx, 999, false, admin.ID, admin.Role)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
