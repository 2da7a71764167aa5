package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"apartment-data/internal/domain"
	"apartment-data/internal/service"

	"go.uber.org/zap"
)

const residentsPath = "/api/v1/residents"

type ResidentHandler struct {
	residents service.ResidentService
	logger    *zap.Logger
}

func NewResidentHandler(residents service.ResidentService, logger *zap.Logger) *ResidentHandler {
	return &ResidentHandler{residents: residents, logger: logger}
}

// residentTypeParam accepts "tenant" or 1.
type residentTypeParam struct {
	Value domain.ResidentType
}

func (p *residentTypeParam) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	t, err := domain.ParseResidentType(strings.Trim(string(b), `"`))
	if err != nil {
		return err
	}
	p.Value = t
	return nil
}

type residentBody struct {
	FullName     string            `json:"full_name"`
	PhoneNumber  string            `json:"phone_number"`
	Email        string            `json:"email"`
	FlatID       int64             `json:"flat_id"`
	ResidentType residentTypeParam `json:"resident_type"`
}

type residentTypeBody struct {
	ResidentType *residentTypeParam `json:"resident_type"`
}

func (h *ResidentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	parts := pathParts(r.URL.Path, residentsPath)
	switch {
	case len(parts) == 0 && r.Method == http.MethodGet:
		h.ListResidents(w, r)
	case len(parts) == 0 && r.Method == http.MethodPost:
		h.CreateResident(w, r)
	case len(parts) == 1 && parts[0] == "export":
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		h.ExportResidents(w, r)
	case len(parts) == 1 && r.Method == http.MethodDelete:
		if id, ok := h.pathID(w, r, parts[0]); ok {
			h.DeleteResident(w, r, id)
		}
	case len(parts) == 2 && parts[1] == "move-out":
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if id, ok := h.pathID(w, r, parts[0]); ok {
			h.MoveOutResident(w, r, id)
		}
	case len(parts) == 2 && parts[1] == "type":
		if r.Method != http.MethodPut {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if id, ok := h.pathID(w, r, parts[0]); ok {
			h.ChangeResidentType(w, r, id)
		}
	case len(parts) <= 1:
		w.WriteHeader(http.StatusMethodNotAllowed)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *ResidentHandler) pathID(w http.ResponseWriter, r *http.Request, raw string) (int64, bool) {
	id, err := parseID("resident id", raw)
	if err != nil {
		writeError(w, r, h.logger, err)
		return 0, false
	}
	return id, true
}

// ListResidents lists all residents, or one flat's residents with ?flat_id=.
func (h *ResidentHandler) ListResidents(w http.ResponseWriter, r *http.Request) {
	var (
		resp *service.ListResidentsResponse
		err  error
	)
	if raw := r.URL.Query().Get("flat_id"); raw != "" {
		var id int64
		if id, err = parseID("flat id", raw); err == nil {
			resp, err = h.residents.ListResidentsByFlat(r.Context(), service.ListResidentsByFlatRequest{FlatID: id})
		}
	} else {
		resp, err = h.residents.ListResidents(r.Context(), service.ListResidentsRequest{})
	}
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

func (h *ResidentHandler) CreateResident(w http.ResponseWriter, r *http.Request) {
	var body residentBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	resp, err := h.residents.CreateResident(r.Context(), service.CreateResidentRequest{
		FullName:     body.FullName,
		PhoneNumber:  body.PhoneNumber,
		Email:        body.Email,
		FlatID:       body.FlatID,
		ResidentType: body.ResidentType.Value,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, Ok(resp.Resident))
}

func (h *ResidentHandler) MoveOutResident(w http.ResponseWriter, r *http.Request, id int64) {
	resp, err := h.residents.MoveOutResident(r.Context(), service.MoveOutResidentRequest{ResidentID: id})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp.Resident))
}

func (h *ResidentHandler) ChangeResidentType(w http.ResponseWriter, r *http.Request, id int64) {
	var body residentTypeBody
	if err := decodeBody(r, &body); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if body.ResidentType == nil {
		writeError(w, r, h.logger, domain.Validation("ChangeResidentType", "resident_type is required"))
		return
	}
	resp, err := h.residents.ChangeResidentType(r.Context(), service.ChangeResidentTypeRequest{
		ResidentID:   id,
		ResidentType: body.ResidentType.Value,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp.Resident))
}

func (h *ResidentHandler) DeleteResident(w http.ResponseWriter, r *http.Request, id int64) {
	resp, err := h.residents.DeleteResident(r.Context(), service.DeleteResidentRequest{ResidentID: id})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, Ok(resp))
}

// ExportResidents streams the roster as an .xlsx workbook.
func (h *ResidentHandler) ExportResidents(w http.ResponseWriter, r *http.Request) {
	resp, err := h.residents.ListResidents(r.Context(), service.ListResidentsRequest{})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	data, err := GenerateResidentRoster(resp.Items)
	if err != nil {
		writeError(w, r, h.logger, fmt.Errorf("failed to generate roster: %w", err))
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename=residents.xlsx")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
