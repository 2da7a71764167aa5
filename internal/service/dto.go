package service

import (
	"time"

	"apartment-data/internal/domain"
	"apartment-data/internal/repository"
)

// ApartmentDTO apartment with the number of flats it holds
type ApartmentDTO struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	FlatCount int    `json:"flat_count"`
}

type FlatDTO struct {
	ID          int64  `json:"id"`
	FlatNumber  string `json:"flat_number"`
	Floor       int    `json:"floor"`
	ApartmentID int64  `json:"apartment_id"`
}

// ResidentDTO resident enriched with its flat's number and floor
type ResidentDTO struct {
	ID           int64      `json:"id"`
	FullName     string     `json:"full_name"`
	PhoneNumber  string     `json:"phone_number"`
	Email        string     `json:"email"`
	FlatID       int64      `json:"flat_id"`
	FlatNumber   string     `json:"flat_number,omitempty"`
	Floor        int        `json:"floor"`
	ResidentType string     `json:"resident_type"`
	MoveInDate   time.Time  `json:"move_in_date"`
	MoveOutDate  *time.Time `json:"move_out_date,omitempty"`
	IsActive     bool       `json:"is_active"`
}

func toApartmentDTO(a *domain.Apartment, flatCount int) ApartmentDTO {
	return ApartmentDTO{ID: a.ID, Name: a.Name, Address: a.Address, FlatCount: flatCount}
}

func toFlatDTO(f *domain.Flat) FlatDTO {
	return FlatDTO{ID: f.ID, FlatNumber: f.FlatNumber, Floor: f.Floor, ApartmentID: f.ApartmentID}
}

func toFlatDTOs(flats []*domain.Flat) []FlatDTO {
	out := make([]FlatDTO, 0, len(flats))
	for _, f := range flats {
		out = append(out, toFlatDTO(f))
	}
	return out
}

func toResidentDTO(r *domain.Resident, flat *domain.Flat) ResidentDTO {
	dto := ResidentDTO{
		ID:           r.ID,
		FullName:     r.FullName,
		PhoneNumber:  r.PhoneNumber,
		Email:        r.Email,
		FlatID:       r.FlatID,
		ResidentType: r.ResidentType.String(),
		MoveInDate:   r.MoveInDate,
		MoveOutDate:  r.MoveOutDate,
		IsActive:     r.IsActive(),
	}
	if flat != nil {
		dto.FlatNumber = flat.FlatNumber
		dto.Floor = flat.Floor
	}
	return dto
}

func residentWithFlatDTO(item *repository.ResidentWithFlat) ResidentDTO {
	return toResidentDTO(item.Resident, &domain.Flat{
		ID:         item.Resident.FlatID,
		FlatNumber: item.FlatNumber,
		Floor:      item.Floor,
	})
}
