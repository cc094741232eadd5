package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/estateflow/estateflow/internal/ledger"
	"github.com/estateflow/estateflow/internal/logging"
)

// AuditAPI provides read-only access to the audit trail
type AuditAPI struct {
	store *ledger.Store
}

// NewAuditAPI creates a new audit API
func NewAuditAPI(store *ledger.Store) *AuditAPI {
	return &AuditAPI{store: store}
}

// RegisterRoutes registers audit API routes (all read-only)
func (api *AuditAPI) RegisterRoutes(r chi.Router) {
	r.Route("/audit", func(r chi.Router) {
		r.Get("/", api.handleListEntries)
		r.Get("/verify", api.handleVerifyChain)
		r.Get("/entity/{type}/{id}", api.handleGetEntityHistory)
	})
}

func (api *AuditAPI) respondError(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	writeJSON(w, map[string]string{"error": "request failed, please try again"})
}

// handleListEntries returns audit entries with optional filtering
// GET /api/v1/audit?action=&actor=&entity_type=&entity_id=&since=&limit=
func (api *AuditAPI) handleListEntries(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	opts := ledger.QueryOptions{
		Action:     query.Get("action"),
		Actor:      query.Get("actor"),
		EntityType: query.Get("entity_type"),
		EntityID:   query.Get("entity_id"),
		Limit:      100,
	}

	if since := query.Get("since"); since != "" {
		if t, err := time.Parse(time.RFC3339, since); err == nil {
			opts.Since = t
		}
	}
	if limit := query.Get("limit"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil && l > 0 {
			opts.Limit = l
		}
	}

	entries, err := api.store.Query(opts)
	if err != nil {
		logging.WithField("error", err).Error("audit query failed")
		api.respondError(w, http.StatusInternalServerError)
		return
	}

	count, _ := api.store.Count()

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]interface{}{
		"entries": entries,
		"total":   count,
	})
}

// handleVerifyChain checks ledger integrity
// GET /api/v1/audit/verify
func (api *AuditAPI) handleVerifyChain(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := api.store.VerifyChain(); err != nil {
		logging.WithField("error", err).Error("audit chain verification failed")
		writeJSON(w, map[string]interface{}{"valid": false})
		return
	}

	writeJSON(w, map[string]interface{}{"valid": true})
}

// handleGetEntityHistory returns the full trail for one entity
// GET /api/v1/audit/entity/{type}/{id}
func (api *AuditAPI) handleGetEntityHistory(w http.ResponseWriter, r *http.Request) {
	entityType := chi.URLParam(r, "type")
	entityID := chi.URLParam(r, "id")

	entries, err := api.store.GetEntityHistory(entityType, entityID)
	if err != nil {
		logging.WithField("error", err).Error("audit history query failed")
		api.respondError(w, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]interface{}{
		"entity_type": entityType,
		"entity_id":   entityID,
		"entries":     entries,
	})
}
