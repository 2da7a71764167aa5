package schema

import "time"

// ApartmentRecord is the storage shape of an apartment.
type ApartmentRecord struct {
	ID      int64        `gorm:"primaryKey"`
	Name    string       `gorm:"size:200;not null"`
	Address string       `gorm:"size:500;not null"`
	Flats   []FlatRecord `gorm:"foreignKey:ApartmentID;constraint:OnDelete:CASCADE"`
}

func (ApartmentRecord) TableName() string { return "apartments" }

// FlatRecord: flat numbers are unique within one apartment.
type FlatRecord struct {
	ID          int64            `gorm:"primaryKey"`
	FlatNumber  string           `gorm:"size:50;not null;uniqueIndex:idx_flats_apartment_number,priority:2"`
	Floor       int              `gorm:"not null;check:chk_flats_floor,floor >= 0"`
	ApartmentID int64            `gorm:"not null;uniqueIndex:idx_flats_apartment_number,priority:1"`
	Residents   []ResidentRecord `gorm:"foreignKey:FlatID;constraint:OnDelete:RESTRICT"`
}

func (FlatRecord) TableName() string { return "flats" }

// ResidentRecord: move_out_date NULL means the resident is active.
type ResidentRecord struct {
	ID           int64      `gorm:"primaryKey"`
	FullName     string     `gorm:"size:150;not null"`
	PhoneNumber  string     `gorm:"size:20;not null"`
	Email        string     `gorm:"size:70;not null"`
	FlatID       int64      `gorm:"not null;index:idx_residents_flat_id;index:idx_residents_active_flat,where:move_out_date IS NULL"`
	ResidentType int        `gorm:"not null;default:0"`
	MoveInDate   time.Time  `gorm:"not null"`
	MoveOutDate  *time.Time
}

func (ResidentRecord) TableName() string { return "residents" }

// Models returns every record type in dependency order.
func Models() []interface{} {
	return []interface{}{&ApartmentRecord{}, &FlatRecord{}, &ResidentRecord{}}
}
