package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/natterhq/natter/internal/app"
	"github.com/natterhq/natter/internal/config"
)

// RunCleanExpiredTokens deletes token records whose expiry has passed.
// Expired tokens are already invisible to reads; this reclaims the storage.
// Supports dry-run mode to preview the deletion count and both text/JSON
// output formats.
//
// Requirements: Database must be migrated and accessible.
func RunCleanExpiredTokens(ctx context.Context, dryRun bool, format string) error {
	cfg := config.Load()

	container := app.NewContainer(cfg)

	logger := container.Logger()
	logger.Info("cleaning expired tokens", slog.Bool("dry_run", dryRun))

	// Ensure cleanup on exit
	defer closeContainer(container, logger)

	tokenRepo, err := container.TokenRepository()
	if err != nil {
		return fmt.Errorf("failed to initialize token repository: %w", err)
	}

	now := time.Now()
	var count int64
	if dryRun {
		count, err = tokenRepo.CountExpired(ctx, now)
	} else {
		count, err = tokenRepo.DeleteExpired(ctx, now)
	}
	if err != nil {
		return fmt.Errorf("failed to clean expired tokens: %w", err)
	}

	if format == "json" {
		outputCleanExpiredJSON(count, dryRun)
	} else {
		outputCleanExpiredText(count, dryRun)
	}

	logger.Info("cleanup completed",
		slog.Int64("count", count),
		slog.Bool("dry_run", dryRun),
	)

	return nil
}

// outputCleanExpiredText outputs the result in human-readable text format.
func outputCleanExpiredText(count int64, dryRun bool) {
	if dryRun {
		fmt.Printf("Dry-run mode: Would delete %d expired token(s)\n", count)
	} else {
		fmt.Printf("Successfully deleted %d expired token(s)\n", count)
	}
}

// outputCleanExpiredJSON outputs the result in JSON format for machine
// consumption.
func outputCleanExpiredJSON(count int64, dryRun bool) {
	result := map[string]interface{}{
		"count":   count,
		"dry_run": dryRun,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	fmt.Println(string(jsonBytes))
}
