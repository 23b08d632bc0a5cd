package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/serviconnect/backend/internal/db"
	"github.com/serviconnect/backend/internal/model"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// DB opens a migrated sqlite database private to the test. A single
// connection is used so that transactions serialise the way row locks do on
// MySQL; code under test must not touch the outer handle inside a transaction.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), "test.db")
	gdb, err := gorm.Open(sqlite.Open(path+"?_busy_timeout=5000&_foreign_keys=off"), &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		tb.Fatalf("open test db: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		tb.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() {
		_ = sqlDB.Close()
	})
	if err := db.Migrate(gdb); err != nil {
		tb.Fatalf("migrate test db: %v", err)
	}
	return gdb
}

func Logger(tb testing.TB) *zap.Logger {
	tb.Helper()
	return zaptest.NewLogger(tb)
}

// ObservedLogger records every entry at info and above.
func ObservedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.InfoLevel)
	return zap.New(core), logs
}

func SeedUser(tb testing.TB, ctx context.Context, gdb *gorm.DB, id string) *model.User {
	tb.Helper()
	u := &model.User{ID: id, Name: "User " + id, Email: id + "@example.com"}
	if err := gdb.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedOffering(tb testing.TB, ctx context.Context, gdb *gorm.DB, providerID string) *model.Offering {
	tb.Helper()
	o := &model.Offering{ProviderID: providerID, Title: "Corte de cabelo", Description: "Corte masculino", PriceCents: 4500}
	if err := gdb.WithContext(ctx).Create(o).Error; err != nil {
		tb.Fatalf("seed offering: %v", err)
	}
	return o
}

// SeedBadge stores a badge for rule. It fails the test if the rule does not
// encode.
func SeedBadge(tb testing.TB, ctx context.Context, gdb *gorm.DB, name string, rule model.BadgeRule) *model.Badge {
	tb.Helper()
	b := &model.Badge{Name: name, Description: name}
	if err := b.SetRule(rule); err != nil {
		tb.Fatalf("seed badge rule: %v", err)
	}
	if err := gdb.WithContext(ctx).Create(b).Error; err != nil {
		tb.Fatalf("seed badge: %v", err)
	}
	return b
}
