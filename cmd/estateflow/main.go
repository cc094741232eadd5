// EstateFlow Daemon - the lead-generation backend service
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/estateflow/estateflow/internal/advisor"
	"github.com/estateflow/estateflow/internal/api"
	"github.com/estateflow/estateflow/internal/config"
	"github.com/estateflow/estateflow/internal/handoff"
	"github.com/estateflow/estateflow/internal/ledger"
	"github.com/estateflow/estateflow/internal/llm"
	"github.com/estateflow/estateflow/internal/logging"
	"github.com/estateflow/estateflow/internal/match"
	"github.com/estateflow/estateflow/internal/storage"
)

var (
	dataDir    string
	configPath string
	port       int
	debug      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "estateflow",
		Short: "EstateFlow - real-estate lead generation backend",
		RunE:  runDaemon,
	}

	home, _ := os.UserHomeDir()
	defaultDataDir := filepath.Join(home, ".estateflow")

	rootCmd.Flags().StringVar(&dataDir, "data-dir", defaultDataDir, "Data directory")
	rootCmd.Flags().StringVar(&configPath, "config", "", "Config file path")
	rootCmd.Flags().IntVar(&port, "port", 0, "HTTP server port (overrides config)")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("data-dir") {
		cfg.DataDir = dataDir
	}
	if port != 0 {
		cfg.Server.Port = port
	}
	if debug || cfg.Features.DebugMode {
		logging.SetLevel(logging.DEBUG)
	}

	logging.WithField("data_dir", cfg.DataDir).Info("EstateFlow daemon starting")

	dbPath := filepath.Join(cfg.DataDir, "estateflow.db")
	db, err := storage.Open(storage.Config{Path: dbPath})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	// Audit ledger
	ledgerStore := ledger.NewStore(db.Conn())
	recorder := ledger.NewRecorder(ledgerStore)
	if err := ledgerStore.VerifyChain(); err != nil {
		return fmt.Errorf("audit chain verification failed: %w", err)
	}
	logging.Info("audit chain verified")

	// Agent matching
	matcher := match.NewWeighted(
		storage.NewAgentStore(db),
		storage.NewProfileStore(db),
		match.Weights{
			Area:     cfg.Matching.AreaWeight,
			Location: cfg.Matching.LocationWeight,
			Type:     cfg.Matching.TypeWeight,
		},
	)

	// Live lead feed
	var hub *api.WebSocketHub
	if cfg.Features.EnableLiveFeed {
		hub = api.NewWebSocketHub()
	}

	// Handoff orchestration
	var notifier handoff.Notifier
	if hub != nil {
		notifier = hub
	}
	handoffService := handoff.New(storage.NewLeadStore(db), matcher, recorder, notifier)

	// Chat advisors
	var chatAdvisor *advisor.Advisor
	if cfg.Features.EnableChat {
		client := llm.NewClient(llm.Config{
			APIKey:  cfg.Chat.APIKey,
			BaseURL: cfg.Chat.BaseURL,
			Model:   cfg.Chat.Model,
		})
		if !client.IsConfigured() {
			logging.Warn("ESTATEFLOW_CHAT_API_KEY not set, chat advisors disabled")
		} else {
			chatAdvisor = advisor.New(client)
			logging.WithField("model", client.Model()).Info("chat advisors enabled")
		}
	}

	server := api.New(api.Config{
		Port:           cfg.Server.Port,
		DB:             db,
		HandoffService: handoffService,
		ChatAdvisor:    chatAdvisor,
		LedgerStore:    ledgerStore,
		LedgerRecorder: recorder,
		WSHub:          hub,
	})

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh

		logging.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Stop(ctx)
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
