package httpapi

import (
	"net/http"

	"apartment-data/internal/service"

	"go.uber.org/zap"
)

const apartmentsPath = "/api/v1/apartments"

// ApartmentHandler serves /api/v1/apartments and the flats of one apartment.
type ApartmentHandler struct {
	apartments service.ApartmentService
	flats      service.FlatService
	logger     *zap.Logger
}

func NewApartmentHandler(apartments service.ApartmentService, flats service.FlatService, logger *zap.Logger) *ApartmentHandler {
	return &ApartmentHandler{apartments: apartments, flats: flats, logger: logger}
}

type apartmentBody struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

func (h *ApartmentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	parts := pathParts(r.URL.Path, apartmentsPath)
	switch {
	case len(parts) == 0 && r.Method == http.MethodGet:
		h.ListApartments(w, r)
	case len(parts) == 0 && r.Method == http.MethodPost:
		h.CreateApartment(w, r)
	case len(parts) == 0:
		w.WriteHeader(http.StatusMethodNotAllowed)
	case len(parts) == 1:
		id, err := parseID("apartment id", parts[0])
		if err != nil {
			writeError(w, r, h.logger, err)
			return
		}
		switch r.Method {
		case http.MethodGet:
			h.GetApartment(w, r, id)
		case http.MethodPut:
			h.UpdateApartment(w, r, id)
		case http.MethodDelete:
			h.DeleteApartment(w, r, id)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	case len(parts) == 2 && parts[1] == "flats":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		id, err := parseID("apartment id", parts[0])
		if err != nil {
			writeError(w, r, h.logger, err)
			return
		}
		h.ListApartmentFlats(w, r, id)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *ApartmentHandler) ListApartments(w http.ResponseWriter, r *http.Request) {
	resp, err := h.apartments.ListApartments(r.Context(), service.ListApartmentsRequest{})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

func (h *ApartmentHandler) GetApartment(w http.ResponseWriter, r *http.Request, id int64) {
	resp, err := h.apartments.GetApartment(r.Context(), service.GetApartmentRequest{ApartmentID: id})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp.Apartment))
}

func (h *ApartmentHandler) CreateApartment(w http.ResponseWriter, r *http.Request) {
	var body apartmentBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	resp, err := h.apartments.CreateApartment(r.Context(), service.CreateApartmentRequest{
		Name:    body.Name,
		Address: body.Address,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(resp))
}

func (h *ApartmentHandler) UpdateApartment(w http.ResponseWriter, r *http.Request, id int64) {
	var body apartmentBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	resp, err := h.apartments.UpdateApartment(r.Context(), service.UpdateApartmentRequest{
		ApartmentID: id,
		Name:        body.Name,
		Address:     body.Address,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

func (h *ApartmentHandler) DeleteApartment(w http.ResponseWriter, r *http.Request, id int64) {
	resp, err := h.apartments.DeleteApartment(r.Context(), service.DeleteApartmentRequest{ApartmentID: id})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

func (h *ApartmentHandler) ListApartmentFlats(w http.ResponseWriter, r *http.Request, id int64) {
	resp, err := h.flats.ListFlatsByApartment(r.Context(), service.ListFlatsByApartmentRequest{ApartmentID: id})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}
