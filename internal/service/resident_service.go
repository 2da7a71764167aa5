package service

import (
	"context"

	"apartment-data/internal/domain"
	"apartment-data/internal/events"
	"apartment-data/internal/repository"

	"go.uber.org/zap"
)

// ResidentService resident lifecycle: move in, move out, type change, delete.
//
// A resident is Active until moved out; moving out is terminal. A flat holds
// at most maxActive active residents (5 unless overridden); the count and the
// insert run atomically inside the repository.
type ResidentService interface {
	CreateResident(ctx context.Context, req CreateResidentRequest) (*CreateResidentResponse, error)
	MoveOutResident(ctx context.Context, req MoveOutResidentRequest) (*MoveOutResidentResponse, error)
	ChangeResidentType(ctx context.Context, req ChangeResidentTypeRequest) (*ChangeResidentTypeResponse, error)
	ListResidentsByFlat(ctx context.Context, req ListResidentsByFlatRequest) (*ListResidentsResponse, error)
	ListResidents(ctx context.Context, req ListResidentsRequest) (*ListResidentsResponse, error)
	DeleteResident(ctx context.Context, req DeleteResidentRequest) (*DeleteResidentResponse, error)
}

type residentService struct {
	residents repository.ResidentsRepository
	flats     repository.FlatsRepository
	logger    *zap.Logger
	opts      options
}

func NewResidentService(residents repository.ResidentsRepository, flats repository.FlatsRepository, logger *zap.Logger, opts ...Option) ResidentService {
	return &residentService{
		residents: residents,
		flats:     flats,
		logger:    logger,
		opts:      buildOptions(opts),
	}
}

type CreateResidentRequest struct {
	FullName     string
	PhoneNumber  string
	Email        string
	FlatID       int64
	ResidentType domain.ResidentType
}

type CreateResidentResponse struct {
	Resident ResidentDTO `json:"resident"`
}

type MoveOutResidentRequest struct {
	ResidentID int64
}

type MoveOutResidentResponse struct {
	Resident ResidentDTO `json:"resident"`
}

type ChangeResidentTypeRequest struct {
	ResidentID   int64
	ResidentType domain.ResidentType
}

type ChangeResidentTypeResponse struct {
	Resident ResidentDTO `json:"resident"`
}

type ListResidentsByFlatRequest struct {
	FlatID int64
}

type ListResidentsRequest struct{}

type ListResidentsResponse struct {
	Items []ResidentDTO `json:"items"`
}

type DeleteResidentRequest struct {
	ResidentID int64
}

type DeleteResidentResponse struct {
	Success bool `json:"success"`
}

func (s *residentService) CreateResident(ctx context.Context, req CreateResidentRequest) (*CreateResidentResponse, error) {
	const op = "CreateResident"
	resident, err := domain.NewResident(req.FullName, req.PhoneNumber, req.Email, req.FlatID, req.ResidentType, s.opts.now())
	if err != nil {
		return nil, err
	}

	flat, err := s.flats.GetFlat(ctx, resident.FlatID)
	if err != nil {
		s.logger.Error("CreateResident failed to load flat", zap.Int64("flat_id", resident.FlatID), zap.Error(err))
		return nil, storageError("get flat", err)
	}
	if flat == nil {
		return nil, domain.NotFound(op, "flat does not exist")
	}

	id, err := s.residents.CreateResident(ctx, resident, s.opts.maxActive)
	if err != nil {
		if domain.KindOf(err) == "" {
			s.logger.Error("CreateResident failed", zap.Int64("flat_id", resident.FlatID), zap.Error(err))
		} else {
			s.logger.Info("CreateResident rejected", zap.Int64("flat_id", resident.FlatID), zap.Error(err))
		}
		return nil, storageError("create resident", err)
	}

	dto := toResidentDTO(resident, flat)
	s.logger.Info("Resident moved in", zap.Int64("resident_id", id), zap.Int64("flat_id", flat.ID))
	s.opts.publish(ctx, s.logger, events.ResidentMovedIn, id, dto)
	return &CreateResidentResponse{Resident: dto}, nil
}

func (s *residentService) MoveOutResident(ctx context.Context, req MoveOutResidentRequest) (*MoveOutResidentResponse, error) {
	const op = "MoveOutResident"
	if err := domain.ValidateID(op, "resident id", req.ResidentID); err != nil {
		return nil, err
	}

	resident, err := s.loadResident(ctx, op, req.ResidentID)
	if err != nil {
		return nil, err
	}
	if !resident.IsActive() {
		return nil, domain.Conflict(op, "resident is already moved out")
	}

	now := s.opts.now()
	// conditional update: a concurrent move-out loses with a conflict
	if err := s.residents.MoveOutResident(ctx, resident.ID, now.UTC()); err != nil {
		if domain.KindOf(err) == "" {
			s.logger.Error("MoveOutResident failed", zap.Int64("resident_id", resident.ID), zap.Error(err))
		}
		return nil, storageError("move out resident", err)
	}
	resident.MoveOut(now)

	dto := s.residentDTO(ctx, resident)
	s.logger.Info("Resident moved out", zap.Int64("resident_id", resident.ID))
	s.opts.publish(ctx, s.logger, events.ResidentMovedOut, resident.ID, dto)
	return &MoveOutResidentResponse{Resident: dto}, nil
}

func (s *residentService) ChangeResidentType(ctx context.Context, req ChangeResidentTypeRequest) (*ChangeResidentTypeResponse, error) {
	const op = "ChangeResidentType"
	if err := domain.ValidateID(op, "resident id", req.ResidentID); err != nil {
		return nil, err
	}
	if !req.ResidentType.Valid() {
		return nil, domain.Validation(op, "invalid resident type")
	}

	if err := s.residents.UpdateResidentType(ctx, req.ResidentID, req.ResidentType); err != nil {
		if domain.KindOf(err) == "" {
			s.logger.Error("ChangeResidentType failed", zap.Int64("resident_id", req.ResidentID), zap.Error(err))
		}
		return nil, storageError("update resident type", err)
	}
	// reload so the response carries any move-out that landed concurrently
	resident, err := s.loadResident(ctx, op, req.ResidentID)
	if err != nil {
		return nil, err
	}

	dto := s.residentDTO(ctx, resident)
	s.opts.publish(ctx, s.logger, events.ResidentTypeChanged, resident.ID, dto)
	return &ChangeResidentTypeResponse{Resident: dto}, nil
}

func (s *residentService) ListResidentsByFlat(ctx context.Context, req ListResidentsByFlatRequest) (*ListResidentsResponse, error) {
	if err := domain.ValidateID("ListResidentsByFlat", "flat id", req.FlatID); err != nil {
		return nil, err
	}

	residents, err := s.residents.ListResidentsByFlat(ctx, req.FlatID)
	if err != nil {
		s.logger.Error("ListResidentsByFlat failed", zap.Int64("flat_id", req.FlatID), zap.Error(err))
		return nil, storageError("list residents", err)
	}

	var flat *domain.Flat
	if len(residents) > 0 {
		if flat, err = s.flats.GetFlat(ctx, req.FlatID); err != nil {
			s.logger.Error("ListResidentsByFlat failed to load flat", zap.Int64("flat_id", req.FlatID), zap.Error(err))
			return nil, storageError("get flat", err)
		}
	}

	out := make([]ResidentDTO, 0, len(residents))
	for _, r := range residents {
		out = append(out, toResidentDTO(r, flat))
	}
	return &ListResidentsResponse{Items: out}, nil
}

func (s *residentService) ListResidents(ctx context.Context, _ ListResidentsRequest) (*ListResidentsResponse, error) {
	items, err := s.residents.ListResidents(ctx)
	if err != nil {
		s.logger.Error("ListResidents failed", zap.Error(err))
		return nil, storageError("list residents", err)
	}
	out := make([]ResidentDTO, 0, len(items))
	for _, item := range items {
		out = append(out, residentWithFlatDTO(item))
	}
	return &ListResidentsResponse{Items: out}, nil
}

// DeleteResident is a no-op for unknown ids.
func (s *residentService) DeleteResident(ctx context.Context, req DeleteResidentRequest) (*DeleteResidentResponse, error) {
	if err := domain.ValidateID("DeleteResident", "resident id", req.ResidentID); err != nil {
		return nil, err
	}

	resident, err := s.residents.GetResident(ctx, req.ResidentID)
	if err != nil {
		s.logger.Error("DeleteResident failed to load resident", zap.Int64("resident_id", req.ResidentID), zap.Error(err))
		return nil, storageError("get resident", err)
	}
	if resident == nil {
		return &DeleteResidentResponse{Success: true}, nil
	}

	if err := s.residents.DeleteResident(ctx, req.ResidentID); err != nil {
		s.logger.Error("DeleteResident failed", zap.Int64("resident_id", req.ResidentID), zap.Error(err))
		return nil, storageError("delete resident", err)
	}

	s.opts.publish(ctx, s.logger, events.ResidentDeleted, req.ResidentID, nil)
	return &DeleteResidentResponse{Success: true}, nil
}

func (s *residentService) loadResident(ctx context.Context, op string, residentID int64) (*domain.Resident, error) {
	resident, err := s.residents.GetResident(ctx, residentID)
	if err != nil {
		s.logger.Error(op+" failed to load resident", zap.Int64("resident_id", residentID), zap.Error(err))
		return nil, storageError("get resident", err)
	}
	if resident == nil {
		return nil, domain.NotFound(op, "resident not found")
	}
	return resident, nil
}

// residentDTO enriches with flat details on a best-effort basis.
func (s *residentService) residentDTO(ctx context.Context, r *domain.Resident) ResidentDTO {
	flat, err := s.flats.GetFlat(ctx, r.FlatID)
	if err != nil {
		s.logger.Warn("Failed to load flat for resident", zap.Int64("resident_id", r.ID), zap.Error(err))
	}
	return toResidentDTO(r, flat)
}
