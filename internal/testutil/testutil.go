// Package testutil provides throwaway storage for package tests: a migrated
// on-disk SQLite database and an in-process Redis.
package testutil

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/clinic-scheduler/internal/db"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// NewDB opens a fresh database with the production schema. A single
// connection serialises transactions, so code running inside a transaction
// must only use the transaction handle.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "clinic.db") + "?_pragma=busy_timeout(5000)&_time_format=sqlite"

	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return gdb
}

// NewRedis starts an in-process Redis. Use the returned server to move
// the clock with FastForward.
func NewRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return client, mr
}

// Logger discards everything.
func Logger() zerolog.Logger {
	return zerolog.Nop()
}

var seq int

// CreateUser inserts a user with the given role and a unique email.
func CreateUser(t *testing.T, gdb *gorm.DB, role string) *models.User {
	t.Helper()

	seq++
	u := &models.User{
		Name:         fmt.Sprintf("%s %d", role, seq),
		Email:        fmt.Sprintf("%s%d@clinic.test", role, seq),
		PasswordHash: "not-a-real-hash",
		Role:         role,
	}
	if role == models.RoleProfessional {
		u.Specialty = "Clínico Geral"
	}

	if err := gdb.Create(u).Error; err != nil {
		t.Fatalf("create %s: %v", role, err)
	}
	return u
}

func CreateUnit(t *testing.T, gdb *gorm.DB) *models.Unit {
	t.Helper()

	u := &models.Unit{
		Name:  "UBS Centro",
		Phone: "1133334444",
		Address: &models.Address{
			ZipCode: "01001000",
			State:   "SP",
			City:    "São Paulo",
			Street:  "Praça da Sé",
			Number:  "1",
		},
	}
	if err := gdb.Create(u).Error; err != nil {
		t.Fatalf("create unit: %v", err)
	}
	return u
}

// Slot returns a fixed UTC instant offset by the given number of hours.
func Slot(hours int) time.Time {
	return time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC).Add(time.Duration(hours) * time.Hour)
}
