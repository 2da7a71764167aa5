package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"apartment-data/internal/repository"
	"apartment-data/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) *Router {
	t.Helper()
	logger := zap.NewNop()
	repo := repository.NewMemoryRepo()
	apartments := service.NewApartmentService(repo, repo, logger)
	flats := service.NewFlatService(repo, repo, logger)
	residents := service.NewResidentService(repo, repo, logger)

	router := NewRouter(logger)
	router.RegisterApartmentRoutes(NewApartmentHandler(apartments, flats, logger))
	router.RegisterFlatRoutes(NewFlatHandler(flats, logger))
	router.RegisterResidentRoutes(NewResidentHandler(residents, logger))
	return router
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) Result[T] {
	t.Helper()
	var out Result[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestRouter(t), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ResultSuccess, decode[map[string]string](t, rec).Code)
}

func TestApartmentAndFlatEndpoints(t *testing.T) {
	router := newTestRouter(t)

	rec := do(t, router, http.MethodPost, "/api/v1/apartments", `{"name":"Oakwood","address":"123 Main St"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	apt := decode[service.CreateApartmentResponse](t, rec).Result
	assert.Equal(t, int64(1), apt.ApartmentID)

	rec = do(t, router, http.MethodPost, "/api/v1/flats", `{"flat_number":"101","floor":1,"apartment_id":1}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, router, http.MethodPost, "/api/v1/flats", `{"flat_number":"101","floor":2,"apartment_id":1}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	failed := decode[ErrorDetail](t, rec)
	assert.Equal(t, ResultError, failed.Code)
	assert.Equal(t, "flat '101' already exists in this apartment", failed.Message)
	assert.NotEmpty(t, failed.Result.ErrorID)

	rec = do(t, router, http.MethodGet, "/api/v1/apartments", "")
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[service.ListApartmentsResponse](t, rec).Result
	require.Len(t, list.Items, 1)
	assert.Equal(t, 1, list.Items[0].FlatCount)

	rec = do(t, router, http.MethodGet, "/api/v1/apartments/1/flats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	flats := decode[service.ListFlatsResponse](t, rec).Result
	require.Len(t, flats.Items, 1)
	assert.Equal(t, "101", flats.Items[0].FlatNumber)

	rec = do(t, router, http.MethodGet, "/api/v1/flats?apartment_id=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[service.ListFlatsResponse](t, rec).Result.Items, 1)

	rec = do(t, router, http.MethodPut, "/api/v1/apartments/1", `{"name":"Elm Court","address":"9 Elm St"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, router, http.MethodGet, "/api/v1/apartments/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Elm Court", decode[service.ApartmentDTO](t, rec).Result.Name)

	rec = do(t, router, http.MethodDelete, "/api/v1/flats/9999", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodDelete, "/api/v1/apartments/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, router, http.MethodDelete, "/api/v1/apartments/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestErrorStatusMapping(t *testing.T) {
	router := newTestRouter(t)
	cases := []struct {
		method, path, body string
		status             int
	}{
		{http.MethodPost, "/api/v1/apartments", `{"name":"  ","address":"x"}`, http.StatusBadRequest},
		{http.MethodPost, "/api/v1/apartments", `{not json`, http.StatusBadRequest},
		{http.MethodGet, "/api/v1/apartments/abc", "", http.StatusBadRequest},
		{http.MethodGet, "/api/v1/apartments/0", "", http.StatusBadRequest},
		{http.MethodGet, "/api/v1/apartments/42", "", http.StatusNotFound},
		{http.MethodPost, "/api/v1/flats", `{"flat_number":"1","floor":0,"apartment_id":42}`, http.StatusNotFound},
		{http.MethodPost, "/api/v1/residents/5/move-out", "", http.StatusNotFound},
		{http.MethodPatch, "/api/v1/apartments", "", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/v1/apartments/1/rooms", "", http.StatusNotFound},
		{http.MethodGet, "/api/v1/residents/export/x", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		rec := do(t, router, tc.method, tc.path, tc.body)
		assert.Equal(t, tc.status, rec.Code, "%s %s: %s", tc.method, tc.path, rec.Body.String())
	}
}

func TestResidentEndpoints(t *testing.T) {
	router := newTestRouter(t)
	require.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/api/v1/apartments", `{"name":"Oakwood","address":"123 Main St"}`).Code)
	require.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/api/v1/flats", `{"flat_number":"101","floor":1,"apartment_id":1}`).Code)

	body := `{"full_name":"Jane Doe","phone_number":"555-0100","email":"jane@example.com","flat_id":1,"resident_type":"tenant"}`
	for i := 0; i < 5; i++ {
		rec := do(t, router, http.MethodPost, "/api/v1/residents", body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}
	rec := do(t, router, http.MethodPost, "/api/v1/residents", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "flat occupancy limit reached", decode[ErrorDetail](t, rec).Message)

	rec = do(t, router, http.MethodPost, "/api/v1/residents", `{"full_name":"x","phone_number":"1","email":"e","flat_id":1,"resident_type":"landlord"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodPost, "/api/v1/residents/1/move-out", "")
	require.Equal(t, http.StatusOK, rec.Code)
	moved := decode[service.ResidentDTO](t, rec).Result
	assert.False(t, moved.IsActive)
	assert.NotNil(t, moved.MoveOutDate)

	rec = do(t, router, http.MethodPost, "/api/v1/residents/1/move-out", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, router, http.MethodPut, "/api/v1/residents/2/type", `{"resident_type":3}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "guest", decode[service.ResidentDTO](t, rec).Result.ResidentType)

	rec = do(t, router, http.MethodPut, "/api/v1/residents/2/type", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/v1/residents?flat_id=1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[service.ListResidentsResponse](t, rec).Result.Items, 5)

	rec = do(t, router, http.MethodDelete, "/api/v1/residents/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, router, http.MethodDelete, "/api/v1/residents/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, router, http.MethodGet, "/api/v1/residents", "")
	require.Equal(t, http.StatusOK, rec.Code)
	all := decode[service.ListResidentsResponse](t, rec).Result
	require.Len(t, all.Items, 4)
	assert.Equal(t, "101", all.Items[0].FlatNumber)
}

func TestExportResidents(t *testing.T) {
	router := newTestRouter(t)
	require.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/api/v1/apartments", `{"name":"Oakwood","address":"123 Main St"}`).Code)
	require.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/api/v1/flats", `{"flat_number":"7B","floor":7,"apartment_id":1}`).Code)
	require.Equal(t, http.StatusCreated, do(t, router, http.MethodPost, "/api/v1/residents",
		`{"full_name":"Jane Doe","phone_number":"555-0100","email":"jane@example.com","flat_id":1,"resident_type":0}`).Code)

	rec := do(t, router, http.MethodGet, "/api/v1/residents/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "residents.xlsx")

	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(rosterSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, ResidentRosterHeader, rows[0])
	assert.Equal(t, "Jane Doe", rows[1][1])
	assert.Equal(t, "7B", rows[1][4])
	assert.Equal(t, "owner", rows[1][6])
	assert.Equal(t, "Yes", rows[1][9])
}

func TestRouter_RecoversFromPanic(t *testing.T) {
	router := NewRouter(zap.NewNop())
	router.Handle("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })

	rec := do(t, router, http.MethodGet, "/boom", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	out := decode[ErrorDetail](t, rec)
	assert.Equal(t, internalErrorMessage, out.Message)
	assert.NotEmpty(t, out.Result.ErrorID)
}
