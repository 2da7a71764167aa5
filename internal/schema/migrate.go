package schema

import (
	"fmt"

	"apartment-data/common/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ObjectStatus reports whether one table or index exists.
type ObjectStatus struct {
	Kind    string // "table" or "index"
	Name    string
	Present bool
}

type indexRef struct {
	model interface{}
	name  string
}

var expectedIndexes = []indexRef{
	{&FlatRecord{}, "idx_flats_apartment_number"},
	{&ResidentRecord{}, "idx_residents_flat_id"},
	{&ResidentRecord{}, "idx_residents_active_flat"},
}

// OpenPostgres opens a gorm handle on the configured database.
func OpenPostgres(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.GetDSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the apartments, flats and residents tables
// together with their indexes and foreign keys.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Status lists every table and index the schema expects and whether it exists.
func Status(db *gorm.DB) ([]ObjectStatus, error) {
	m := db.Migrator()
	out := make([]ObjectStatus, 0, len(Models())+len(expectedIndexes))
	for _, model := range Models() {
		name := model.(interface{ TableName() string }).TableName()
		out = append(out, ObjectStatus{Kind: "table", Name: name, Present: m.HasTable(model)})
	}
	for _, idx := range expectedIndexes {
		out = append(out, ObjectStatus{Kind: "index", Name: idx.name, Present: m.HasIndex(idx.model, idx.name)})
	}
	return out, nil
}

// Pending returns the objects Migrate would create.
func Pending(db *gorm.DB) ([]ObjectStatus, error) {
	all, err := Status(db)
	if err != nil {
		return nil, err
	}
	var pending []ObjectStatus
	for _, s := range all {
		if !s.Present {
			pending = append(pending, s)
		}
	}
	return pending, nil
}
