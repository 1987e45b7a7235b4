// Command migrate applies or reverts schema changesets.
//
// Usage:
//
//	migrate up      apply every pending changeset in order
//	migrate down    revert the most recently applied changeset
//	migrate status  list changesets and their ledger state
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"identity_backend/internal/app/migrations"
	"identity_backend/internal/platform/config"
	infradb "identity_backend/internal/platform/db"
	"identity_backend/internal/platform/migrate"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: migrate <up|down|status>")
		os.Exit(2)
	}
	cmd := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := infradb.Open(cfg)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	runner, err := migrate.NewRunner(db, migrations.All())
	if err != nil {
		slog.Error("invalid changeset declaration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	switch cmd {
	case "up":
		n, err := runner.Up(ctx)
		if err != nil {
			slog.Error("migration failed", "error", err)
			os.Exit(1)
		}
		slog.Info("changesets applied", "count", n)
	case "down":
		if err := runner.Down(ctx); err != nil {
			if errors.Is(err, migrate.ErrNothingApplied) {
				slog.Info("nothing to revert")
				return
			}
			slog.Error("rollback failed", "error", err)
			os.Exit(1)
		}
		slog.Info("reverted one changeset")
	case "status":
		statuses, err := runner.Status(ctx)
		if err != nil {
			slog.Error("status failed", "error", err)
			os.Exit(1)
		}
		for _, st := range statuses {
			state := "pending"
			if st.Applied {
				state = "applied " + st.AppliedAt.Format("2006-01-02 15:04:05")
			}
			fmt.Printf("%d  %-35s %s\n", st.ID, st.Name, state)
		}
	default:
		fmt.Fprintln(os.Stderr, "usage: migrate <up|down|status>")
		os.Exit(2)
	}
}
