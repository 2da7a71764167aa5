package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"apartment-data/internal/domain"
	"apartment-data/internal/events"
	"apartment-data/internal/repository"

	"go.uber.org/zap"
)

var fixedNow = time.Date(2025, 4, 1, 9, 30, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}

// failingRepo fails selected reads to exercise storage-failure paths.
type failingRepo struct {
	*repository.MemoryRepo
	err error
}

func (f failingRepo) ListFlats(context.Context) ([]*domain.Flat, error) { return nil, f.err }

func (f failingRepo) GetApartment(context.Context, int64) (*domain.Apartment, error) {
	return nil, f.err
}

var errStorage = errors.New("connection refused")

type fixture struct {
	repo       *repository.MemoryRepo
	pub        *recordingPublisher
	apartments ApartmentService
	flats      FlatService
	residents  ResidentService
	clock      *time.Time
}

func newFixture() *fixture {
	repo := repository.NewMemoryRepo()
	pub := &recordingPublisher{}
	now := fixedNow
	f := &fixture{repo: repo, pub: pub, clock: &now}
	opts := []Option{
		WithPublisher(pub),
		WithClock(func() time.Time { return *f.clock }),
	}
	logger := zap.NewNop()
	f.apartments = NewApartmentService(repo, repo, logger, opts...)
	f.flats = NewFlatService(repo, repo, logger, opts...)
	f.residents = NewResidentService(repo, repo, logger, opts...)
	return f
}

func (f *fixture) advance(d time.Duration) {
	*f.clock = f.clock.Add(d)
}

func nopLogger() *zap.Logger { return zap.NewNop() }
