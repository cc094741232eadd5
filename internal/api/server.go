// Package api provides the HTTP API server for EstateFlow.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/estateflow/estateflow/internal/advisor"
	"github.com/estateflow/estateflow/internal/handoff"
	"github.com/estateflow/estateflow/internal/ledger"
	"github.com/estateflow/estateflow/internal/logging"
	"github.com/estateflow/estateflow/internal/storage"
)

// Server is the HTTP API server
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	wsHub      *WebSocketHub

	// Services
	handoffService *handoff.Service
	chatAdvisor    *advisor.Advisor

	// Stores
	leadStore     *storage.LeadStore
	agentStore    *storage.AgentStore
	profileStore  *storage.ProfileStore
	propertyStore *storage.PropertyStore
	tokenStore    *storage.TokenStore

	// Audit
	ledgerStore    *ledger.Store
	ledgerRecorder *ledger.Recorder
}

// Config for the server
type Config struct {
	Port           int
	DB             *storage.DB
	HandoffService *handoff.Service
	ChatAdvisor    *advisor.Advisor
	LedgerStore    *ledger.Store
	LedgerRecorder *ledger.Recorder
	WSHub          *WebSocketHub
}

// New creates a new API server
func New(cfg Config) *Server {
	wsHub := cfg.WSHub
	if wsHub == nil {
		wsHub = NewWebSocketHub()
	}

	s := &Server{
		wsHub:          wsHub,
		handoffService: cfg.HandoffService,
		chatAdvisor:    cfg.ChatAdvisor,
		leadStore:      storage.NewLeadStore(cfg.DB),
		agentStore:     storage.NewAgentStore(cfg.DB),
		profileStore:   storage.NewProfileStore(cfg.DB),
		propertyStore:  storage.NewPropertyStore(cfg.DB),
		tokenStore:     storage.NewTokenStore(cfg.DB),
		ledgerStore:    cfg.LedgerStore,
		ledgerRecorder: cfg.LedgerRecorder,
	}

	s.setupRouter()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Streaming chat responses manage their own deadlines
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRouter configures all routes
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.sessionMiddleware)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(30 * time.Second))

			// Handoff
			r.Post("/handoff", s.handleSubmitHandoff)

			// Leads (agent workspace / admin)
			r.Get("/leads", s.handleListLeads)
			r.Get("/leads/{leadID}", s.handleGetLead)
			r.Put("/leads/{leadID}/status", s.handleUpdateLeadStatus)

			// Agents (admin)
			r.Get("/agents", s.handleListAgents)
			r.Post("/agents", s.handleCreateAgent)
			r.Put("/agents/{agentID}/verify", s.handleVerifyAgent)

			// Properties
			r.Get("/properties/{propertyID}", s.handleGetProperty)

			// Audit trail (read-only, admin)
			if s.ledgerStore != nil {
				auditAPI := NewAuditAPI(s.ledgerStore)
				r.Group(func(r chi.Router) {
					r.Use(s.requireRoles("admin"))
					auditAPI.RegisterRoutes(r)
				})
			}
		})

		// Chat streams over SSE; it runs outside the request timeout.
		if s.chatAdvisor != nil {
			r.Post("/chat", s.handleChat)
		}
	})

	// Live lead feed for dashboards
	r.Get("/ws", s.handleWebSocket)

	s.router = r
}

// Start starts the HTTP server
func (s *Server) Start() error {
	go s.wsHub.Run()

	logging.WithField("addr", s.httpServer.Addr).Info("API server starting")
	return s.httpServer.ListenAndServe()
}

// Stop gracefully stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Hub returns the websocket hub for event broadcasting
func (s *Server) Hub() *WebSocketHub {
	return s.wsHub
}

// --- Response helpers ---

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	json.NewEncoder(w).Encode(data)
}
