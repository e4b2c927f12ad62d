package repositories_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"pasar/internal/models"
	"pasar/internal/repositories"

	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return db
}

// The unique index on email must surface as ErrDuplicate, not as a raw
// driver error. This depends on TranslateError being set at gorm.Open.
func TestGORMUserCreateDuplicateEmail(t *testing.T) {
	repo := repositories.NewGORMUserRepository(openTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{
		Email:    "alice@example.com",
		Password: "hash",
		Role:     models.RoleCustomer,
		IsActive: true,
	}))

	err := repo.Create(ctx, &models.User{
		Email:    "alice@example.com",
		Password: "other-hash",
		Role:     models.RoleCustomer,
		IsActive: true,
	})
	require.ErrorIs(t, err, repositories.ErrDuplicate)
}
