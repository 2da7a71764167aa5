package httpapi

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Router wraps http.ServeMux; a panic in a handler becomes a 500 with an error_id.
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	r := &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
	r.Handle("/health", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, Ok(map[string]string{"status": "ok"}))
	})
	return r
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			errorID := uuid.NewString()
			r.logger.Error("Handler panic",
				zap.String("error_id", errorID),
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.String("panic", fmt.Sprint(rec)),
			)
			writeJSON(w, http.StatusInternalServerError, FailWithID(internalErrorMessage, errorID))
		}
	}()
	r.mux.ServeHTTP(w, req)
}

func (r *Router) RegisterApartmentRoutes(h *ApartmentHandler) {
	r.Handle("/api/v1/apartments", h.ServeHTTP)
	r.Handle("/api/v1/apartments/", h.ServeHTTP)
}

func (r *Router) RegisterFlatRoutes(h *FlatHandler) {
	r.Handle("/api/v1/flats", h.ServeHTTP)
	r.Handle("/api/v1/flats/", h.ServeHTTP)
}

func (r *Router) RegisterResidentRoutes(h *ResidentHandler) {
	r.Handle("/api/v1/residents", h.ServeHTTP)
	r.Handle("/api/v1/residents/", h.ServeHTTP)
}
