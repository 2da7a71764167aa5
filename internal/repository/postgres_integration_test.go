//go:build integration

package repository

import (
	"context"
	"database/sql"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	"apartment-data/common/config"
	"apartment-data/common/database"
	"apartment-data/internal/domain"
	"apartment-data/internal/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return def
}

// getTestDB connects to TEST_DB_* and migrates the schema, skipping when unreachable.
func getTestDB(t *testing.T) *sql.DB {
	cfg := &config.DatabaseConfig{
		Host:     getEnv("TEST_DB_HOST", "localhost"),
		Port:     getEnvInt("TEST_DB_PORT", 5432),
		User:     getEnv("TEST_DB_USER", "postgres"),
		Password: getEnv("TEST_DB_PASSWORD", "postgres"),
		Database: getEnv("TEST_DB_NAME", "apartments_test"),
		SSLMode:  getEnv("TEST_DB_SSLMODE", "disable"),
		MaxConns: 20,
	}

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		t.Skipf("Skipping integration test: cannot connect to database: %v", err)
		return nil
	}
	gdb, err := schema.OpenPostgres(cfg)
	require.NoError(t, err)
	require.NoError(t, schema.Migrate(gdb))
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}

	_, err = db.Exec(`TRUNCATE residents, flats, apartments RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestPostgresIntegration_FlatUniqueness(t *testing.T) {
	db := getTestDB(t)
	ctx := context.Background()
	apartments := NewPostgresApartmentsRepository(db)
	flats := NewPostgresFlatsRepository(db)

	aptID, err := apartments.CreateApartment(ctx, &domain.Apartment{Name: "Oakwood", Address: "123 Main St"})
	require.NoError(t, err)
	_, err = flats.CreateFlat(ctx, &domain.Flat{FlatNumber: "101", Floor: 1, ApartmentID: aptID})
	require.NoError(t, err)

	_, err = flats.CreateFlat(ctx, &domain.Flat{FlatNumber: "101", Floor: 2, ApartmentID: aptID})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = flats.CreateFlat(ctx, &domain.Flat{FlatNumber: "101", Floor: 2, ApartmentID: aptID + 1000})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPostgresIntegration_ConcurrentMoveInsRespectLimit(t *testing.T) {
	db := getTestDB(t)
	ctx := context.Background()
	apartments := NewPostgresApartmentsRepository(db)
	flats := NewPostgresFlatsRepository(db)
	residents := NewPostgresResidentsRepository(db)

	aptID, err := apartments.CreateApartment(ctx, &domain.Apartment{Name: "Oakwood", Address: "123 Main St"})
	require.NoError(t, err)
	flatID, err := flats.CreateFlat(ctx, &domain.Flat{FlatNumber: "101", Floor: 1, ApartmentID: aptID})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := &domain.Resident{FullName: "R", PhoneNumber: "1", Email: "e", FlatID: flatID, MoveInDate: time.Now().UTC()}
			_, _ = residents.CreateResident(ctx, r, domain.MaxActiveResidentsPerFlat)
		}()
	}
	wg.Wait()

	n, err := residents.CountActiveResidentsByFlat(ctx, flatID)
	require.NoError(t, err)
	assert.Equal(t, domain.MaxActiveResidentsPerFlat, n)

	// restrict: the flat cannot go while residents reference it
	assert.Error(t, flats.DeleteFlat(ctx, flatID))
}
