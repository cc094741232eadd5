package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/estateflow/estateflow/internal/core"
	"github.com/estateflow/estateflow/internal/logging"
)

// handleGetProperty returns a property point lookup
// GET /api/v1/properties/{propertyID}
func (s *Server) handleGetProperty(w http.ResponseWriter, r *http.Request) {
	propertyID := core.PropertyID(chi.URLParam(r, "propertyID"))

	property, err := s.propertyStore.GetByID(propertyID)
	if err != nil {
		if errors.Is(err, core.ErrPropertyNotFound) {
			s.respondError(w, http.StatusNotFound, "property not found")
			return
		}
		logging.WithField("error", err).Error("property fetch failed")
		s.respondError(w, http.StatusInternalServerError, "request failed, please try again")
		return
	}

	s.respondJSON(w, http.StatusOK, property)
}
