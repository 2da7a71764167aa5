package httpapi

import (
	"net/http"

	"apartment-data/internal/service"

	"go.uber.org/zap"
)

const flatsPath = "/api/v1/flats"

type FlatHandler struct {
	flats  service.FlatService
	logger *zap.Logger
}

func NewFlatHandler(flats service.FlatService, logger *zap.Logger) *FlatHandler {
	return &FlatHandler{flats: flats, logger: logger}
}

type flatBody struct {
	FlatNumber  string `json:"flat_number"`
	Floor       int    `json:"floor"`
	ApartmentID int64  `json:"apartment_id"`
}

func (h *FlatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	parts := pathParts(r.URL.Path, flatsPath)
	switch {
	case len(parts) == 0 && r.Method == http.MethodGet:
		h.ListFlats(w, r)
	case len(parts) == 0 && r.Method == http.MethodPost:
		h.CreateFlat(w, r)
	case len(parts) == 1 && r.Method == http.MethodDelete:
		id, err := parseID("flat id", parts[0])
		if err != nil {
			writeError(w, r, h.logger, err)
			return
		}
		h.DeleteFlat(w, r, id)
	case len(parts) <= 1:
		w.WriteHeader(http.StatusMethodNotAllowed)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// ListFlats lists every flat, or one apartment's flats with ?apartment_id=.
func (h *FlatHandler) ListFlats(w http.ResponseWriter, r *http.Request) {
	var (
		resp *service.ListFlatsResponse
		err  error
	)
	if raw := r.URL.Query().Get("apartment_id"); raw != "" {
		var id int64
		if id, err = parseID("apartment id", raw); err == nil {
			resp, err = h.flats.ListFlatsByApartment(r.Context(), service.ListFlatsByApartmentRequest{ApartmentID: id})
		}
	} else {
		resp, err = h.flats.ListFlats(r.Context(), service.ListFlatsRequest{})
	}
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

func (h *FlatHandler) CreateFlat(w http.ResponseWriter, r *http.Request) {
	var body flatBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	resp, err := h.flats.CreateFlat(r.Context(), service.CreateFlatRequest{
		FlatNumber:  body.FlatNumber,
		Floor:       body.Floor,
		ApartmentID: body.ApartmentID,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(resp))
}

func (h *FlatHandler) DeleteFlat(w http.ResponseWriter, r *http.Request, id int64) {
	resp, err := h.flats.DeleteFlat(r.Context(), service.DeleteFlatRequest{FlatID: id})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}
