package schema

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	dsn := filepath.Join(t.TempDir(), "schema.db") + "?_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func TestMigrate_CreatesTablesAndIndexes(t *testing.T) {
	db := setupTestDB(t)

	pending, err := Pending(db)
	require.NoError(t, err)
	assert.Len(t, pending, 6)

	require.NoError(t, Migrate(db))

	m := db.Migrator()
	assert.True(t, m.HasTable("apartments"))
	assert.True(t, m.HasTable("flats"))
	assert.True(t, m.HasTable("residents"))
	assert.True(t, m.HasIndex(&FlatRecord{}, "idx_flats_apartment_number"))
	assert.True(t, m.HasIndex(&ResidentRecord{}, "idx_residents_active_flat"))

	pending, err = Pending(db)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestMigrate_IsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, Migrate(db))
	assert.NoError(t, Migrate(db))
}

func TestMigrate_FlatNumberUniquePerApartment(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, Migrate(db))

	a := ApartmentRecord{Name: "Oakwood", Address: "123 Main St"}
	b := ApartmentRecord{Name: "Elm Court", Address: "9 Elm St"}
	require.NoError(t, db.Create(&a).Error)
	require.NoError(t, db.Create(&b).Error)

	require.NoError(t, db.Create(&FlatRecord{FlatNumber: "101", Floor: 1, ApartmentID: a.ID}).Error)
	assert.Error(t, db.Create(&FlatRecord{FlatNumber: "101", Floor: 2, ApartmentID: a.ID}).Error)
	assert.NoError(t, db.Create(&FlatRecord{FlatNumber: "101", Floor: 1, ApartmentID: b.ID}).Error)
}

func TestMigrate_ForeignKeyActions(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, Migrate(db))

	apt := ApartmentRecord{Name: "Oakwood", Address: "123 Main St"}
	require.NoError(t, db.Create(&apt).Error)
	flat := FlatRecord{FlatNumber: "101", Floor: 1, ApartmentID: apt.ID}
	require.NoError(t, db.Create(&flat).Error)
	resident := ResidentRecord{
		FullName: "Jane Doe", PhoneNumber: "555-0100", Email: "jane@example.com",
		FlatID: flat.ID, MoveInDate: time.Now().UTC(),
	}
	require.NoError(t, db.Create(&resident).Error)

	// residents restrict flat deletion
	assert.Error(t, db.Delete(&FlatRecord{}, flat.ID).Error)

	require.NoError(t, db.Delete(&ResidentRecord{}, resident.ID).Error)
	require.NoError(t, db.Delete(&ApartmentRecord{}, apt.ID).Error)

	var flats int64
	require.NoError(t, db.Model(&FlatRecord{}).Count(&flats).Error)
	assert.Equal(t, int64(0), flats)
}
