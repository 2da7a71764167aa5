package service

import (
	"context"
	"fmt"

	"apartment-data/internal/domain"
	"apartment-data/internal/events"
	"apartment-data/internal/repository"

	"go.uber.org/zap"
)

// FlatService flat management
type FlatService interface {
	ListFlatsByApartment(ctx context.Context, req ListFlatsByApartmentRequest) (*ListFlatsResponse, error)
	ListFlats(ctx context.Context, req ListFlatsRequest) (*ListFlatsResponse, error)
	CreateFlat(ctx context.Context, req CreateFlatRequest) (*CreateFlatResponse, error)
	DeleteFlat(ctx context.Context, req DeleteFlatRequest) (*DeleteFlatResponse, error)
}

type flatService struct {
	flats      repository.FlatsRepository
	apartments repository.ApartmentsRepository
	logger     *zap.Logger
	opts       options
}

func NewFlatService(flats repository.FlatsRepository, apartments repository.ApartmentsRepository, logger *zap.Logger, opts ...Option) FlatService {
	return &flatService{
		flats:      flats,
		apartments: apartments,
		logger:     logger,
		opts:       buildOptions(opts),
	}
}

type ListFlatsByApartmentRequest struct {
	ApartmentID int64
}

type ListFlatsRequest struct{}

type ListFlatsResponse struct {
	Items []FlatDTO `json:"items"`
}

type CreateFlatRequest struct {
	FlatNumber  string
	Floor       int
	ApartmentID int64
}

type CreateFlatResponse struct {
	FlatID int64 `json:"flat_id"`
}

type DeleteFlatRequest struct {
	FlatID int64
}

type DeleteFlatResponse struct {
	Success bool `json:"success"`
}

func (s *flatService) ListFlatsByApartment(ctx context.Context, req ListFlatsByApartmentRequest) (*ListFlatsResponse, error) {
	if err := domain.ValidateID("ListFlatsByApartment", "apartment id", req.ApartmentID); err != nil {
		return nil, err
	}
	flats, err := s.flats.ListFlatsByApartment(ctx, req.ApartmentID)
	if err != nil {
		s.logger.Error("ListFlatsByApartment failed", zap.Int64("apartment_id", req.ApartmentID), zap.Error(err))
		return nil, storageError("list flats", err)
	}
	return &ListFlatsResponse{Items: toFlatDTOs(flats)}, nil
}

func (s *flatService) ListFlats(ctx context.Context, _ ListFlatsRequest) (*ListFlatsResponse, error) {
	flats, err := s.flats.ListFlats(ctx)
	if err != nil {
		s.logger.Error("ListFlats failed", zap.Error(err))
		return nil, storageError("list flats", err)
	}
	return &ListFlatsResponse{Items: toFlatDTOs(flats)}, nil
}

// CreateFlat rejects a flat number already used in the same apartment. The
// unique index on (apartment_id, flat_number) settles concurrent inserts.
func (s *flatService) CreateFlat(ctx context.Context, req CreateFlatRequest) (*CreateFlatResponse, error) {
	const op = "CreateFlat"
	flat, err := domain.NewFlat(req.FlatNumber, req.Floor, req.ApartmentID)
	if err != nil {
		return nil, err
	}

	exists, err := s.apartments.ApartmentExists(ctx, flat.ApartmentID)
	if err != nil {
		s.logger.Error("CreateFlat failed to check apartment", zap.Int64("apartment_id", flat.ApartmentID), zap.Error(err))
		return nil, storageError("check apartment", err)
	}
	if !exists {
		return nil, domain.NotFound(op, "apartment not found")
	}

	taken, err := s.flats.FlatNumberExists(ctx, flat.ApartmentID, flat.FlatNumber)
	if err != nil {
		s.logger.Error("CreateFlat failed to check flat number",
			zap.Int64("apartment_id", flat.ApartmentID),
			zap.String("flat_number", flat.FlatNumber),
			zap.Error(err),
		)
		return nil, storageError("check flat number", err)
	}
	if taken {
		return nil, domain.Conflict(op, fmt.Sprintf("flat '%s' already exists in this apartment", flat.FlatNumber))
	}

	id, err := s.flats.CreateFlat(ctx, flat)
	if err != nil {
		if domain.KindOf(err) == "" {
			s.logger.Error("CreateFlat failed",
				zap.Int64("apartment_id", flat.ApartmentID),
				zap.String("flat_number", flat.FlatNumber),
				zap.Error(err),
			)
		}
		return nil, storageError("create flat", err)
	}

	s.logger.Info("Flat created", zap.Int64("flat_id", id), zap.Int64("apartment_id", flat.ApartmentID))
	s.opts.publish(ctx, s.logger, events.FlatCreated, id, toFlatDTO(flat))
	return &CreateFlatResponse{FlatID: id}, nil
}

// DeleteFlat is a no-op for unknown ids. Residents still referencing the flat
// make the store reject the delete, surfaced as a storage failure.
func (s *flatService) DeleteFlat(ctx context.Context, req DeleteFlatRequest) (*DeleteFlatResponse, error) {
	if err := domain.ValidateID("DeleteFlat", "flat id", req.FlatID); err != nil {
		return nil, err
	}

	flat, err := s.flats.GetFlat(ctx, req.FlatID)
	if err != nil {
		s.logger.Error("DeleteFlat failed to load flat", zap.Int64("flat_id", req.FlatID), zap.Error(err))
		return nil, storageError("get flat", err)
	}
	if flat == nil {
		return &DeleteFlatResponse{Success: true}, nil
	}

	if err := s.flats.DeleteFlat(ctx, req.FlatID); err != nil {
		s.logger.Error("DeleteFlat failed", zap.Int64("flat_id", req.FlatID), zap.Error(err))
		return nil, storageError("delete flat", err)
	}

	s.logger.Info("Flat deleted", zap.Int64("flat_id", req.FlatID))
	s.opts.publish(ctx, s.logger, events.FlatDeleted, req.FlatID, toFlatDTO(flat))
	return &DeleteFlatResponse{Success: true}, nil
}
