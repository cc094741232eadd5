// EstateFlow CLI - operator commands for leads, agents, and the audit trail.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/estateflow/estateflow/internal/core"
	"github.com/estateflow/estateflow/internal/ledger"
	"github.com/estateflow/estateflow/internal/storage"
)

var (
	dataDir string

	version = "0.1.0"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "efctl",
		Short: "EstateFlow operator CLI",
	}

	home, _ := os.UserHomeDir()
	defaultDataDir := filepath.Join(home, ".estateflow")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", defaultDataDir, "data directory")

	rootCmd.AddCommand(leadsCmd())
	rootCmd.AddCommand(agentsCmd())
	rootCmd.AddCommand(auditCmd())
	rootCmd.AddCommand(tokenCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openDB() (*storage.DB, error) {
	dbPath := filepath.Join(dataDir, "estateflow.db")
	db, err := storage.Open(storage.Config{Path: dbPath})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return db, nil
}

func leadsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leads",
		Short: "Inspect and manage handoff leads",
	}

	var status string
	var limit int
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recent leads",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			store := storage.NewLeadStore(db)
			var leads []*core.Lead
			if status != "" {
				leads, err = store.GetByStatus(core.LeadStatus(status), limit)
			} else {
				leads, err = store.GetRecent(limit)
			}
			if err != nil {
				return err
			}

			if len(leads) == 0 {
				fmt.Println("No leads found.")
				return nil
			}
			for _, lead := range leads {
				agent := "-"
				if lead.AssignedAgentID != "" {
					agent = string(lead.AssignedAgentID)
				}
				fmt.Printf("%s  %-10s %-10s %-18s agent=%s  %s\n",
					lead.ID, lead.Status, lead.Priority, lead.Type, agent,
					lead.CreatedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
	listCmd.Flags().StringVar(&status, "status", "", "filter by status")
	listCmd.Flags().IntVar(&limit, "limit", 20, "max leads to show")
	cmd.AddCommand(listCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "show <lead-id>",
		Short: "Show a lead in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			lead, err := storage.NewLeadStore(db).GetByID(core.LeadID(args[0]))
			if err != nil {
				return err
			}
			data, _ := json.MarshalIndent(lead, "", "  ")
			fmt.Println(string(data))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "status <lead-id> <new-status>",
		Short: "Transition a lead to a new status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			store := storage.NewLeadStore(db)
			lead, err := store.GetByID(core.LeadID(args[0]))
			if err != nil {
				return err
			}

			next := core.LeadStatus(args[1])
			if !lead.Status.CanTransitionTo(next) {
				return fmt.Errorf("%w: %s -> %s", core.ErrInvalidTransition, lead.Status, next)
			}
			if err := store.UpdateStatus(lead.ID, next); err != nil {
				return err
			}

			recorder := ledger.NewRecorder(ledger.NewStore(db.Conn()))
			if err := recorder.RecordLeadStatusChanged(ledger.ActorAdmin, lead.ID, lead.Status, next); err != nil {
				fmt.Fprintf(os.Stderr, "warning: audit append failed: %v\n", err)
			}

			fmt.Printf("Lead %s: %s -> %s\n", lead.ID, lead.Status, next)
			return nil
		},
	})

	return cmd
}

func agentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agents",
		Short: "Inspect and manage agents",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all agents",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			agents, err := storage.NewAgentStore(db).GetAll()
			if err != nil {
				return err
			}
			if len(agents) == 0 {
				fmt.Println("No agents found.")
				return nil
			}
			for _, agent := range agents {
				mark := " "
				if agent.Verified {
					mark = "✓"
				}
				fmt.Printf("%s %s  %-30s rating=%.1f\n", mark, agent.ID, agent.AgencyName, agent.RatingOrZero())
			}
			return nil
		},
	})

	verifyCmd := &cobra.Command{
		Use:   "verify <agent-id>",
		Short: "Mark an agent as verified",
		Args:  cobra.ExactArgs(1),
		RunE:  setVerified(true),
	}
	unverifyCmd := &cobra.Command{
		Use:   "unverify <agent-id>",
		Short: "Remove an agent's verified mark",
		Args:  cobra.ExactArgs(1),
		RunE:  setVerified(false),
	}
	cmd.AddCommand(verifyCmd)
	cmd.AddCommand(unverifyCmd)

	return cmd
}

func setVerified(verified bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		agentID := core.AgentID(args[0])
		if err := storage.NewAgentStore(db).SetVerified(agentID, verified); err != nil {
			return err
		}

		recorder := ledger.NewRecorder(ledger.NewStore(db.Conn()))
		if err := recorder.RecordAgentVerified(ledger.ActorAdmin, agentID, verified); err != nil {
			fmt.Fprintf(os.Stderr, "warning: audit append failed: %v\n", err)
		}

		if verified {
			fmt.Printf("Agent %s verified.\n", agentID)
		} else {
			fmt.Printf("Agent %s unverified.\n", agentID)
		}
		return nil
	}
}

func auditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect the audit ledger",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "verify",
		Short: "Verify the hash chain end to end",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			store := ledger.NewStore(db.Conn())
			if err := store.VerifyChain(); err != nil {
				return fmt.Errorf("chain verification FAILED: %w", err)
			}
			count, _ := store.Count()
			fmt.Printf("Chain valid: %d entries.\n", count)
			return nil
		},
	})

	recentCmd := &cobra.Command{
		Use:   "recent [limit]",
		Short: "Show the most recent audit entries",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit := 20
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid limit %q", args[0])
				}
				limit = n
			}

			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			entries, err := ledger.NewStore(db.Conn()).GetRecent(limit)
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Printf("%s  %-24s %-10s %s/%s\n",
					e.Timestamp.Format("2006-01-02 15:04:05"), e.Action, e.Actor,
					e.EntityType, e.EntityID)
			}
			return nil
		},
	}
	cmd.AddCommand(recentCmd)

	return cmd
}

func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage API bearer tokens",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "issue <user-id>",
		Short: "Issue a bearer token for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB()
			if err != nil {
				return err
			}
			defer db.Close()

			token := uuid.NewString()
			if err := storage.NewTokenStore(db).Put(token, args[0]); err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		},
	})

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("efctl %s\n", version)
		},
	}
}
