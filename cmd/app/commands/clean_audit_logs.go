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

// RunCleanAuditLogs deletes audit log entries older than the specified
// number of days. Supports dry-run mode to preview the deletion count and
// both text/JSON output formats.
//
// Requirements: Database must be migrated and accessible.
func RunCleanAuditLogs(ctx context.Context, days int, dryRun bool, format string) error {
	// Validate days parameter
	if days < 0 {
		return fmt.Errorf("days must be a positive number, got: %d", days)
	}

	cfg := config.Load()

	container := app.NewContainer(cfg)

	logger := container.Logger()
	logger.Info("cleaning audit logs",
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	// Ensure cleanup on exit
	defer closeContainer(container, logger)

	auditUseCase, err := container.AuditUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize audit use case: %w", err)
	}

	before := time.Now().UTC().AddDate(0, 0, -days)
	count, err := auditUseCase.Purge(ctx, before, dryRun)
	if err != nil {
		return fmt.Errorf("failed to delete audit logs: %w", err)
	}

	if format == "json" {
		outputCleanJSON(count, days, dryRun)
	} else {
		outputCleanText(count, days, dryRun)
	}

	logger.Info("cleanup completed",
		slog.Int64("count", count),
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	return nil
}

// outputCleanText outputs the result in human-readable text format.
func outputCleanText(count int64, days int, dryRun bool) {
	if dryRun {
		fmt.Printf("Dry-run mode: Would delete %d audit log(s) older than %d day(s)\n", count, days)
	} else {
		fmt.Printf("Successfully deleted %d audit log(s) older than %d day(s)\n", count, days)
	}
}

// outputCleanJSON outputs the result in JSON format for machine consumption.
func outputCleanJSON(count int64, days int, dryRun bool) {
	result := map[string]interface{}{
		"count":   count,
		"days":    days,
		"dry_run": dryRun,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	fmt.Println(string(jsonBytes))
}
