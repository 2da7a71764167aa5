package service

import (
	"context"

	"apartment-data/internal/domain"
	"apartment-data/internal/events"
	"apartment-data/internal/repository"

	"go.uber.org/zap"
)

// ApartmentService apartment management
type ApartmentService interface {
	ListApartments(ctx context.Context, req ListApartmentsRequest) (*ListApartmentsResponse, error)
	GetApartment(ctx context.Context, req GetApartmentRequest) (*GetApartmentResponse, error)
	CreateApartment(ctx context.Context, req CreateApartmentRequest) (*CreateApartmentResponse, error)
	UpdateApartment(ctx context.Context, req UpdateApartmentRequest) (*UpdateApartmentResponse, error)
	DeleteApartment(ctx context.Context, req DeleteApartmentRequest) (*DeleteApartmentResponse, error)
}

type apartmentService struct {
	apartments repository.ApartmentsRepository
	flats      repository.FlatsRepository
	logger     *zap.Logger
	opts       options
}

func NewApartmentService(apartments repository.ApartmentsRepository, flats repository.FlatsRepository, logger *zap.Logger, opts ...Option) ApartmentService {
	return &apartmentService{
		apartments: apartments,
		flats:      flats,
		logger:     logger,
		opts:       buildOptions(opts),
	}
}

type ListApartmentsRequest struct{}

type ListApartmentsResponse struct {
	Items []ApartmentDTO `json:"items"`
}

type GetApartmentRequest struct {
	ApartmentID int64
}

type GetApartmentResponse struct {
	Apartment ApartmentDTO `json:"apartment"`
}

type CreateApartmentRequest struct {
	Name    string
	Address string
}

type CreateApartmentResponse struct {
	ApartmentID int64 `json:"apartment_id"`
}

type UpdateApartmentRequest struct {
	ApartmentID int64
	Name        string
	Address     string
}

type UpdateApartmentResponse struct {
	Success bool `json:"success"`
}

type DeleteApartmentRequest struct {
	ApartmentID int64
}

type DeleteApartmentResponse struct {
	Success bool `json:"success"`
}

func (s *apartmentService) ListApartments(ctx context.Context, _ ListApartmentsRequest) (*ListApartmentsResponse, error) {
	items, err := s.apartments.ListApartments(ctx)
	if err != nil {
		s.logger.Error("ListApartments failed", zap.Error(err))
		return nil, storageError("list apartments", err)
	}
	out := make([]ApartmentDTO, 0, len(items))
	for _, item := range items {
		out = append(out, toApartmentDTO(item.Apartment, item.FlatCount))
	}
	return &ListApartmentsResponse{Items: out}, nil
}

func (s *apartmentService) GetApartment(ctx context.Context, req GetApartmentRequest) (*GetApartmentResponse, error) {
	const op = "GetApartment"
	if err := domain.ValidateID(op, "apartment id", req.ApartmentID); err != nil {
		return nil, err
	}
	a, err := s.apartments.GetApartment(ctx, req.ApartmentID)
	if err != nil {
		s.logger.Error("GetApartment failed", zap.Int64("apartment_id", req.ApartmentID), zap.Error(err))
		return nil, storageError("get apartment", err)
	}
	if a == nil {
		return nil, domain.NotFound(op, "apartment not found")
	}

	count, err := s.flats.CountFlatsByApartment(ctx, a.ID)
	if err != nil {
		s.logger.Error("GetApartment failed to count flats", zap.Int64("apartment_id", req.ApartmentID), zap.Error(err))
		return nil, storageError("count flats", err)
	}
	return &GetApartmentResponse{Apartment: toApartmentDTO(a, count)}, nil
}

func (s *apartmentService) CreateApartment(ctx context.Context, req CreateApartmentRequest) (*CreateApartmentResponse, error) {
	a, err := domain.NewApartment(req.Name, req.Address)
	if err != nil {
		return nil, err
	}

	id, err := s.apartments.CreateApartment(ctx, a)
	if err != nil {
		s.logger.Error("CreateApartment failed",
			zap.String("name", a.Name),
			zap.Error(err),
		)
		return nil, storageError("create apartment", err)
	}

	s.logger.Info("Apartment created", zap.Int64("apartment_id", id))
	s.opts.publish(ctx, s.logger, events.ApartmentCreated, id, toApartmentDTO(a, 0))
	return &CreateApartmentResponse{ApartmentID: id}, nil
}

func (s *apartmentService) UpdateApartment(ctx context.Context, req UpdateApartmentRequest) (*UpdateApartmentResponse, error) {
	const op = "UpdateApartment"
	if err := domain.ValidateID(op, "apartment id", req.ApartmentID); err != nil {
		return nil, err
	}
	if err := domain.ValidateApartmentDetails(req.Name, req.Address); err != nil {
		return nil, err
	}

	a, err := s.apartments.GetApartment(ctx, req.ApartmentID)
	if err != nil {
		s.logger.Error("UpdateApartment failed to load apartment", zap.Int64("apartment_id", req.ApartmentID), zap.Error(err))
		return nil, storageError("get apartment", err)
	}
	if a == nil {
		return nil, domain.NotFound(op, "apartment not found")
	}
	if err := a.UpdateDetails(req.Name, req.Address); err != nil {
		return nil, err
	}
	if err := s.apartments.UpdateApartment(ctx, a); err != nil {
		s.logger.Error("UpdateApartment failed", zap.Int64("apartment_id", req.ApartmentID), zap.Error(err))
		return nil, storageError("update apartment", err)
	}

	s.opts.publish(ctx, s.logger, events.ApartmentUpdated, a.ID, toApartmentDTO(a, 0))
	return &UpdateApartmentResponse{Success: true}, nil
}

func (s *apartmentService) DeleteApartment(ctx context.Context, req DeleteApartmentRequest) (*DeleteApartmentResponse, error) {
	const op = "DeleteApartment"
	if err := domain.ValidateID(op, "apartment id", req.ApartmentID); err != nil {
		return nil, err
	}

	exists, err := s.apartments.ApartmentExists(ctx, req.ApartmentID)
	if err != nil {
		s.logger.Error("DeleteApartment failed to check apartment", zap.Int64("apartment_id", req.ApartmentID), zap.Error(err))
		return nil, storageError("check apartment", err)
	}
	if !exists {
		return nil, domain.NotFound(op, "apartment not found")
	}

	// flats go with the apartment through the foreign key
	if err := s.apartments.DeleteApartment(ctx, req.ApartmentID); err != nil {
		s.logger.Error("DeleteApartment failed", zap.Int64("apartment_id", req.ApartmentID), zap.Error(err))
		return nil, storageError("delete apartment", err)
	}

	s.logger.Info("Apartment deleted", zap.Int64("apartment_id", req.ApartmentID))
	s.opts.publish(ctx, s.logger, events.ApartmentDeleted, req.ApartmentID, nil)
	return &DeleteApartmentResponse{Success: true}, nil
}
