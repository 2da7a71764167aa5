package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ResidentType category of a resident, stored as an integer
type ResidentType int

const (
	ResidentOwner ResidentType = iota
	ResidentTenant
	ResidentFamilyMember
	ResidentGuest
)

var residentTypeNames = map[ResidentType]string{
	ResidentOwner:        "owner",
	ResidentTenant:       "tenant",
	ResidentFamilyMember: "family_member",
	ResidentGuest:        "guest",
}

func (t ResidentType) String() string {
	if s, ok := residentTypeNames[t]; ok {
		return s
	}
	return "ResidentType(" + strconv.Itoa(int(t)) + ")"
}

// Valid reports whether t is a known enumerant.
func (t ResidentType) Valid() bool {
	_, ok := residentTypeNames[t]
	return ok
}

// ParseResidentType accepts a name ("tenant") or the numeric value ("1").
func ParseResidentType(s string) (ResidentType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for t, name := range residentTypeNames {
		if name == s {
			return t, nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && ResidentType(n).Valid() {
		return ResidentType(n), nil
	}
	return 0, Validation("ParseResidentType", fmt.Sprintf("unknown resident type %q", s))
}

// Resident a person living in a flat (residents table)
// Active while MoveOutDate is nil; MoveOut is one-way.
type Resident struct {
	ID           int64        `db:"id"`
	FullName     string       `db:"full_name"`     // NOT NULL, VARCHAR(150)
	PhoneNumber  string       `db:"phone_number"`  // VARCHAR(20)
	Email        string       `db:"email"`         // VARCHAR(70)
	FlatID       int64        `db:"flat_id"`       // FK flats.id ON DELETE RESTRICT
	ResidentType ResidentType `db:"resident_type"` // INTEGER
	MoveInDate   time.Time    `db:"move_in_date"`  // UTC
	MoveOutDate  *time.Time   `db:"move_out_date"` // nullable, UTC
}

// NewResident validates its arguments and stamps MoveInDate with now in UTC.
func NewResident(fullName, phoneNumber, email string, flatID int64, residentType ResidentType, now time.Time) (*Resident, error) {
	const op = "NewResident"
	if err := requireText(op, "resident full name", fullName, MaxResidentNameLength); err != nil {
		return nil, err
	}
	if err := requireText(op, "phone number", phoneNumber, MaxPhoneNumberLength); err != nil {
		return nil, err
	}
	if err := requireText(op, "email", email, MaxEmailLength); err != nil {
		return nil, err
	}
	if err := requireID(op, "flat id", flatID); err != nil {
		return nil, err
	}
	if !residentType.Valid() {
		return nil, Validation(op, "invalid resident type")
	}
	return &Resident{
		FullName:     strings.TrimSpace(fullName),
		PhoneNumber:  strings.TrimSpace(phoneNumber),
		Email:        strings.TrimSpace(email),
		FlatID:       flatID,
		ResidentType: residentType,
		MoveInDate:   now.UTC(),
	}, nil
}

// IsActive reports whether the resident has not moved out.
func (r *Resident) IsActive() bool {
	return r.MoveOutDate == nil
}

// MoveOut stamps MoveOutDate with now in UTC. No-op when already moved out.
func (r *Resident) MoveOut(now time.Time) {
	if !r.IsActive() {
		return
	}
	t := now.UTC()
	r.MoveOutDate = &t
}

// ChangeResidentType is allowed in either state.
func (r *Resident) ChangeResidentType(t ResidentType) error {
	if !t.Valid() {
		return Validation("ChangeResidentType", "invalid resident type")
	}
	r.ResidentType = t
	return nil
}
