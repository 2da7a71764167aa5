package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"apartment-data/internal/domain"
)

// ErrFlatHasResidents mirrors the residents.flat_id ON DELETE RESTRICT failure
var ErrFlatHasResidents = errors.New("flat still has residents")

// MemoryRepo: in-process store used when the database is disabled and by tests.
// - implements ApartmentsRepository, FlatsRepository and ResidentsRepository
// - ids are sequential per table, starting at 1
// - apartment delete cascades to flats; flat delete is restricted by residents
type MemoryRepo struct {
	mu sync.RWMutex

	apartments map[int64]domain.Apartment
	flats      map[int64]domain.Flat
	residents  map[int64]domain.Resident

	nextApartmentID int64
	nextFlatID      int64
	nextResidentID  int64
}

var (
	_ ApartmentsRepository = (*MemoryRepo)(nil)
	_ FlatsRepository      = (*MemoryRepo)(nil)
	_ ResidentsRepository  = (*MemoryRepo)(nil)
)

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		apartments: map[int64]domain.Apartment{},
		flats:      map[int64]domain.Flat{},
		residents:  map[int64]domain.Resident{},
	}
}

// ---- apartments ----

func (m *MemoryRepo) GetApartment(_ context.Context, apartmentID int64) (*domain.Apartment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.apartments[apartmentID]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (m *MemoryRepo) ListApartments(_ context.Context) ([]*ApartmentWithFlatCount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := map[int64]int{}
	for _, f := range m.flats {
		counts[f.ApartmentID]++
	}
	out := make([]*ApartmentWithFlatCount, 0, len(m.apartments))
	for _, a := range m.apartments {
		a := a
		out = append(out, &ApartmentWithFlatCount{Apartment: &a, FlatCount: counts[a.ID]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Apartment.ID < out[j].Apartment.ID })
	return out, nil
}

func (m *MemoryRepo) CreateApartment(_ context.Context, apartment *domain.Apartment) (int64, error) {
	if apartment == nil {
		return 0, fmt.Errorf("apartment is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextApartmentID++
	apartment.ID = m.nextApartmentID
	m.apartments[apartment.ID] = *apartment
	return apartment.ID, nil
}

func (m *MemoryRepo) UpdateApartment(_ context.Context, apartment *domain.Apartment) error {
	if apartment == nil {
		return fmt.Errorf("apartment is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.apartments[apartment.ID]; !ok {
		return domain.NotFound("UpdateApartment", fmt.Sprintf("apartment %d not found", apartment.ID))
	}
	m.apartments[apartment.ID] = *apartment
	return nil
}

func (m *MemoryRepo) DeleteApartment(_ context.Context, apartmentID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.apartments[apartmentID]; !ok {
		return nil
	}
	for id, f := range m.flats {
		if f.ApartmentID != apartmentID {
			continue
		}
		if m.flatHasResidentsLocked(id) {
			return fmt.Errorf("failed to delete apartment: flat %d: %w", id, ErrFlatHasResidents)
		}
	}
	for id, f := range m.flats {
		if f.ApartmentID == apartmentID {
			delete(m.flats, id)
		}
	}
	delete(m.apartments, apartmentID)
	return nil
}

func (m *MemoryRepo) ApartmentExists(_ context.Context, apartmentID int64) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.apartments[apartmentID]
	return ok, nil
}

// ---- flats ----

func (m *MemoryRepo) GetFlat(_ context.Context, flatID int64) (*domain.Flat, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	f, ok := m.flats[flatID]
	if !ok {
		return nil, nil
	}
	return &f, nil
}

func (m *MemoryRepo) ListFlatsByApartment(_ context.Context, apartmentID int64) ([]*domain.Flat, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*domain.Flat{}
	for _, f := range m.flats {
		if f.ApartmentID == apartmentID {
			f := f
			out = append(out, &f)
		}
	}
	sortFlats(out)
	return out, nil
}

func (m *MemoryRepo) ListFlats(_ context.Context) ([]*domain.Flat, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Flat, 0, len(m.flats))
	for _, f := range m.flats {
		f := f
		out = append(out, &f)
	}
	sortFlats(out)
	return out, nil
}

// same order as the SQL: apartment, floor, flat number, id
func sortFlats(flats []*domain.Flat) {
	sort.Slice(flats, func(i, j int) bool {
		a, b := flats[i], flats[j]
		if a.ApartmentID != b.ApartmentID {
			return a.ApartmentID < b.ApartmentID
		}
		if a.Floor != b.Floor {
			return a.Floor < b.Floor
		}
		if a.FlatNumber != b.FlatNumber {
			return a.FlatNumber < b.FlatNumber
		}
		return a.ID < b.ID
	})
}

func (m *MemoryRepo) CreateFlat(_ context.Context, flat *domain.Flat) (int64, error) {
	if flat == nil {
		return 0, fmt.Errorf("flat is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.apartments[flat.ApartmentID]; !ok {
		return 0, domain.NotFound("CreateFlat", fmt.Sprintf("apartment %d not found", flat.ApartmentID))
	}
	if m.flatNumberTakenLocked(flat.ApartmentID, flat.FlatNumber) {
		return 0, domain.Conflict("CreateFlat", fmt.Sprintf("flat '%s' already exists in this apartment", flat.FlatNumber))
	}
	m.nextFlatID++
	flat.ID = m.nextFlatID
	m.flats[flat.ID] = *flat
	return flat.ID, nil
}

func (m *MemoryRepo) DeleteFlat(_ context.Context, flatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.flats[flatID]; !ok {
		return nil
	}
	if m.flatHasResidentsLocked(flatID) {
		return fmt.Errorf("failed to delete flat: %w", ErrFlatHasResidents)
	}
	delete(m.flats, flatID)
	return nil
}

func (m *MemoryRepo) FlatNumberExists(_ context.Context, apartmentID int64, flatNumber string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.flatNumberTakenLocked(apartmentID, flatNumber), nil
}

func (m *MemoryRepo) CountFlatsByApartment(_ context.Context, apartmentID int64) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, f := range m.flats {
		if f.ApartmentID == apartmentID {
			n++
		}
	}
	return n, nil
}

func (m *MemoryRepo) flatNumberTakenLocked(apartmentID int64, flatNumber string) bool {
	for _, f := range m.flats {
		if f.ApartmentID == apartmentID && f.FlatNumber == flatNumber {
			return true
		}
	}
	return false
}

func (m *MemoryRepo) flatHasResidentsLocked(flatID int64) bool {
	for _, r := range m.residents {
		if r.FlatID == flatID {
			return true
		}
	}
	return false
}

// ---- residents ----

func cloneResident(r domain.Resident) *domain.Resident {
	if r.MoveOutDate != nil {
		t := *r.MoveOutDate
		r.MoveOutDate = &t
	}
	return &r
}

func sortResidents[T any](items []T, resident func(T) *domain.Resident) {
	sort.Slice(items, func(i, j int) bool {
		a, b := resident(items[i]), resident(items[j])
		if !a.MoveInDate.Equal(b.MoveInDate) {
			return a.MoveInDate.Before(b.MoveInDate)
		}
		return a.ID < b.ID
	})
}

func (m *MemoryRepo) GetResident(_ context.Context, residentID int64) (*domain.Resident, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.residents[residentID]
	if !ok {
		return nil, nil
	}
	return cloneResident(r), nil
}

func (m *MemoryRepo) ListResidentsByFlat(_ context.Context, flatID int64) ([]*domain.Resident, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*domain.Resident{}
	for _, r := range m.residents {
		if r.FlatID == flatID {
			out = append(out, cloneResident(r))
		}
	}
	sortResidents(out, func(r *domain.Resident) *domain.Resident { return r })
	return out, nil
}

func (m *MemoryRepo) ListResidents(_ context.Context) ([]*ResidentWithFlat, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*ResidentWithFlat, 0, len(m.residents))
	for _, r := range m.residents {
		f := m.flats[r.FlatID]
		out = append(out, &ResidentWithFlat{Resident: cloneResident(r), FlatNumber: f.FlatNumber, Floor: f.Floor})
	}
	sortResidents(out, func(r *ResidentWithFlat) *domain.Resident { return r.Resident })
	return out, nil
}

func (m *MemoryRepo) CountActiveResidentsByFlat(_ context.Context, flatID int64) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.activeCountLocked(flatID), nil
}

func (m *MemoryRepo) activeCountLocked(flatID int64) int {
	n := 0
	for _, r := range m.residents {
		if r.FlatID == flatID && r.IsActive() {
			n++
		}
	}
	return n
}

func (m *MemoryRepo) CreateResident(_ context.Context, resident *domain.Resident, maxActive int) (int64, error) {
	const op = "CreateResident"
	if resident == nil {
		return 0, fmt.Errorf("resident is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.flats[resident.FlatID]; !ok {
		return 0, domain.NotFound(op, "flat does not exist")
	}
	if maxActive > 0 && m.activeCountLocked(resident.FlatID) >= maxActive {
		return 0, domain.Capacity(op, "flat occupancy limit reached")
	}
	m.nextResidentID++
	resident.ID = m.nextResidentID
	m.residents[resident.ID] = *cloneResident(*resident)
	return resident.ID, nil
}

func (m *MemoryRepo) UpdateResidentType(_ context.Context, residentID int64, residentType domain.ResidentType) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.residents[residentID]
	if !ok {
		return domain.NotFound("UpdateResidentType", fmt.Sprintf("resident %d not found", residentID))
	}
	r.ResidentType = residentType
	m.residents[residentID] = r
	return nil
}

func (m *MemoryRepo) MoveOutResident(_ context.Context, residentID int64, at time.Time) error {
	const op = "MoveOutResident"
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.residents[residentID]
	if !ok {
		return domain.NotFound(op, "resident not found")
	}
	if !r.IsActive() {
		return domain.Conflict(op, "resident is already moved out")
	}
	r.MoveOut(at)
	m.residents[residentID] = r
	return nil
}

func (m *MemoryRepo) DeleteResident(_ context.Context, residentID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.residents, residentID)
	return nil
}
