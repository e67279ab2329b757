package repository

import (
	"context"
	"fmt"
	"os"
	"testing"

	"plantstore/internal/domain/model"
	"plantstore/internal/infra/db"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// openTestDB はTEST_DATABASE_DSNのPostgresに繋ぎ、テーブルを空にして返す。
// DSNが無ければskip。
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	require.NoError(t, gdb.Exec(
		"TRUNCATE TABLE order_items, orders, cart_items, carts, audit_logs, plants, users RESTART IDENTITY CASCADE",
	).Error)

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

// seedUser はordersの外部キー用
func seedUser(t *testing.T, gdb *gorm.DB, n int) model.User {
	t.Helper()

	u := model.User{
		FirstName:       fmt.Sprintf("User%d", n),
		LastName:        "Test",
		Email:           fmt.Sprintf("user%d@example.com", n),
		Phone:           fmt.Sprintf("98765%05d", n),
		PasswordHash:    "x",
		Role:            model.RoleCustomer,
		AccountVerified: true,
	}
	require.NoError(t, NewUserGormRepository(gdb).Create(context.Background(), &u))
	return u
}
