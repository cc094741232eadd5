package api

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	_ "modernc.org/sqlite"

	"github.com/estateflow/estateflow/internal/ledger"
)

func TestAuditAPI_QueryFailureHidesCause(t *testing.T) {
	// A database with no ledger table makes every query fail.
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	auditAPI := NewAuditAPI(ledger.NewStore(db))
	r := chi.NewRouter()
	auditAPI.RegisterRoutes(r)

	for _, path := range []string{"/audit", "/audit/entity/lead/lead-1"} {
		req := httptest.NewRequest("GET", path, nil)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)

		if rr.Code != http.StatusInternalServerError {
			t.Errorf("GET %s: status = %d, want 500", path, rr.Code)
		}
		body := rr.Body.String()
		if strings.Contains(body, "no such table") {
			t.Errorf("GET %s: response leaks internal cause: %q", path, body)
		}
		if !strings.Contains(body, "request failed") {
			t.Errorf("GET %s: response = %q, want generic message", path, body)
		}
	}

	// Chain verification reports invalid without detailing the cause.
	req := httptest.NewRequest("GET", "/audit/verify", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	body := rr.Body.String()
	if !strings.Contains(body, `"valid":false`) {
		t.Errorf("verify response = %q, want valid:false", body)
	}
	if strings.Contains(body, "no such table") {
		t.Errorf("verify response leaks internal cause: %q", body)
	}
}
