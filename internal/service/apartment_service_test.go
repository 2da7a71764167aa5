package service

import (
	"context"
	"strings"
	"testing"

	"apartment-data/internal/domain"
	"apartment-data/internal/events"
	"apartment-data/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestApartmentService_CreateAndList(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	created, err := f.apartments.CreateApartment(ctx, CreateApartmentRequest{Name: " Oakwood ", Address: "123 Main St"})
	require.NoError(t, err)
	_, err = f.flats.CreateFlat(ctx, CreateFlatRequest{FlatNumber: "101", Floor: 1, ApartmentID: created.ApartmentID})
	require.NoError(t, err)

	resp, err := f.apartments.ListApartments(ctx, ListApartmentsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, ApartmentDTO{ID: created.ApartmentID, Name: "Oakwood", Address: "123 Main St", FlatCount: 1}, resp.Items[0])

	got, err := f.apartments.GetApartment(ctx, GetApartmentRequest{ApartmentID: created.ApartmentID})
	require.NoError(t, err)
	assert.Equal(t, 1, got.Apartment.FlatCount)

	assert.Equal(t, []events.Type{events.ApartmentCreated, events.FlatCreated}, f.pub.types())
}

func TestApartmentService_CreateApartment_Validation(t *testing.T) {
	f := newFixture()
	cases := []CreateApartmentRequest{
		{Name: "", Address: "123 Main St"},
		{Name: "Oakwood", Address: "   "},
		{Name: strings.Repeat("n", domain.MaxApartmentNameLength+1), Address: "123 Main St"},
	}
	for _, req := range cases {
		_, err := f.apartments.CreateApartment(context.Background(), req)
		assert.ErrorIs(t, err, domain.ErrValidation)
	}
	assert.Empty(t, f.pub.types())
}

func TestApartmentService_UpdateApartment(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	created, err := f.apartments.CreateApartment(ctx, CreateApartmentRequest{Name: "Oakwood", Address: "123 Main St"})
	require.NoError(t, err)

	t.Run("invalid id", func(t *testing.T) {
		_, err := f.apartments.UpdateApartment(ctx, UpdateApartmentRequest{ApartmentID: 0, Name: "x", Address: "y"})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("blank details leave apartment unchanged", func(t *testing.T) {
		_, err := f.apartments.UpdateApartment(ctx, UpdateApartmentRequest{ApartmentID: created.ApartmentID, Name: " ", Address: "y"})
		assert.ErrorIs(t, err, domain.ErrValidation)

		got, err := f.apartments.GetApartment(ctx, GetApartmentRequest{ApartmentID: created.ApartmentID})
		require.NoError(t, err)
		assert.Equal(t, "Oakwood", got.Apartment.Name)
	})

	t.Run("missing apartment", func(t *testing.T) {
		_, err := f.apartments.UpdateApartment(ctx, UpdateApartmentRequest{ApartmentID: 404, Name: "x", Address: "y"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("success", func(t *testing.T) {
		_, err := f.apartments.UpdateApartment(ctx, UpdateApartmentRequest{ApartmentID: created.ApartmentID, Name: "Elm Court", Address: "9 Elm St"})
		require.NoError(t, err)

		got, err := f.apartments.GetApartment(ctx, GetApartmentRequest{ApartmentID: created.ApartmentID})
		require.NoError(t, err)
		assert.Equal(t, "Elm Court", got.Apartment.Name)
		assert.Equal(t, "9 Elm St", got.Apartment.Address)
	})
}

func TestApartmentService_DeleteApartment(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	created, err := f.apartments.CreateApartment(ctx, CreateApartmentRequest{Name: "Oakwood", Address: "123 Main St"})
	require.NoError(t, err)
	_, err = f.flats.CreateFlat(ctx, CreateFlatRequest{FlatNumber: "101", Floor: 1, ApartmentID: created.ApartmentID})
	require.NoError(t, err)

	_, err = f.apartments.DeleteApartment(ctx, DeleteApartmentRequest{ApartmentID: -1})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.apartments.DeleteApartment(ctx, DeleteApartmentRequest{ApartmentID: 999})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.apartments.DeleteApartment(ctx, DeleteApartmentRequest{ApartmentID: created.ApartmentID})
	require.NoError(t, err)

	flats, err := f.flats.ListFlats(ctx, ListFlatsRequest{})
	require.NoError(t, err)
	assert.Empty(t, flats.Items)

	_, err = f.apartments.GetApartment(ctx, GetApartmentRequest{ApartmentID: created.ApartmentID})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApartmentService_StorageFailureIsWrapped(t *testing.T) {
	repo := failingRepo{MemoryRepo: repository.NewMemoryRepo(), err: errStorage}
	svc := NewApartmentService(repo, repo, zap.NewNop())

	_, err := svc.UpdateApartment(context.Background(), UpdateApartmentRequest{ApartmentID: 1, Name: "x", Address: "y"})

	assert.ErrorIs(t, err, errStorage)
	assert.Equal(t, domain.ErrorKind(""), domain.KindOf(err))
}

func TestApartmentService_PublishFailureDoesNotFailMutation(t *testing.T) {
	pub := &recordingPublisher{err: errStorage}
	repo := repository.NewMemoryRepo()
	svc := NewApartmentService(repo, repo, zap.NewNop(), WithPublisher(pub))

	resp, err := svc.CreateApartment(context.Background(), CreateApartmentRequest{Name: "Oakwood", Address: "123 Main St"})

	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.ApartmentID)
}
