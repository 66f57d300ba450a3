package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/natterhq/natter/internal/app"
	"github.com/natterhq/natter/internal/config"
	userUsecase "github.com/natterhq/natter/internal/user/usecase"
)

// RunCreateUser registers a new user account from the command line. Useful
// for bootstrapping administrative accounts without going through the API.
//
// Requirements: Database must be migrated and accessible.
func RunCreateUser(ctx context.Context, username, password, format string) error {
	cfg := config.Load()

	container := app.NewContainer(cfg)

	logger := container.Logger()
	logger.Info("creating user", slog.String("username", username))

	// Ensure cleanup on exit
	defer closeContainer(container, logger)

	userUseCase, err := container.UserUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize user use case: %w", err)
	}

	user, err := userUseCase.Register(ctx, userUsecase.RegisterInput{
		Username: username,
		Password: password,
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	if format == "json" {
		outputCreateUserJSON(user.Username)
	} else {
		outputCreateUserText(user.Username)
	}

	logger.Info("user created", slog.String("username", user.Username))
	return nil
}

// outputCreateUserText outputs the result in human-readable text format.
func outputCreateUserText(username string) {
	fmt.Printf("Successfully created user %q\n", username)
}

// outputCreateUserJSON outputs the result in JSON format for machine
// consumption.
func outputCreateUserJSON(username string) {
	result := map[string]interface{}{
		"username": username,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	fmt.Println(string(jsonBytes))
}
