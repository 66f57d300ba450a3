package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/natterhq/natter/internal/app"
	"github.com/natterhq/natter/internal/config"
)

// RunGrantPermission grants a user a permission string on a space from the
// command line. This is the only way to grant access to the audit log space
// (space 0), which has no owner that can add members through the API.
//
// Requirements: Database must be migrated and accessible.
func RunGrantPermission(ctx context.Context, spaceID int64, username, perms, format string) error {
	cfg := config.Load()

	container := app.NewContainer(cfg)

	logger := container.Logger()
	logger.Info("granting permission",
		slog.Int64("space_id", spaceID),
		slog.String("username", username),
		slog.String("perms", perms),
	)

	// Ensure cleanup on exit
	defer closeContainer(container, logger)

	spaceUseCase, err := container.SpaceUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize space use case: %w", err)
	}

	if err := spaceUseCase.GrantPermission(ctx, spaceID, username, perms); err != nil {
		return fmt.Errorf("failed to grant permission: %w", err)
	}

	if format == "json" {
		outputGrantPermissionJSON(spaceID, username, perms)
	} else {
		outputGrantPermissionText(spaceID, username, perms)
	}

	logger.Info("permission granted",
		slog.Int64("space_id", spaceID),
		slog.String("username", username),
	)
	return nil
}

// outputGrantPermissionText outputs the result in human-readable text format.
func outputGrantPermissionText(spaceID int64, username, perms string) {
	fmt.Printf("Successfully granted %q on space %d to user %q\n", perms, spaceID, username)
}

// outputGrantPermissionJSON outputs the result in JSON format for machine
// consumption.
func outputGrantPermissionJSON(spaceID int64, username, perms string) {
	result := map[string]interface{}{
		"space_id": spaceID,
		"username": username,
		"perms":    perms,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	fmt.Println(string(jsonBytes))
}
