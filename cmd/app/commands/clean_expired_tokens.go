package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/allisson/tokengate/internal/app"
	"github.com/allisson/tokengate/internal/config"
	tokenUsecase "github.com/allisson/tokengate/internal/token/usecase"
)

// RunCleanExpiredTokens deletes tokens that expired more than days days ago.
// Supports dry-run mode to preview the deletion count and both text and JSON
// output formats.
//
// Requirements: Database must be migrated and accessible.
func RunCleanExpiredTokens(ctx context.Context, days int, dryRun bool, format string) error {
	cfg := config.Load()

	container := app.NewContainer(cfg)
	logger := container.Logger()
	defer closeContainer(container, logger)

	tokenUseCase, err := container.TokenUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize token use case: %w", err)
	}

	return cleanExpiredTokens(ctx, tokenUseCase, logger, os.Stdout, days, dryRun, format)
}

// cleanExpiredTokens executes the cleanup and writes the result to out.
func cleanExpiredTokens(
	ctx context.Context,
	tokenUseCase tokenUsecase.TokenUseCase,
	logger *slog.Logger,
	out io.Writer,
	days int,
	dryRun bool,
	format string,
) error {
	logger.Info("cleaning expired tokens",
		slog.Int("days", days),
		slog.Bool("dry_run", dryRun),
	)

	count, err := tokenUseCase.CleanExpired(ctx, days, dryRun)
	if err != nil {
		return fmt.Errorf("failed to clean expired tokens: %w", err)
	}

	if format == "json" {
		result := map[string]any{
			"count":   count,
			"days":    days,
			"dry_run": dryRun,
		}
		jsonBytes, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(out, string(jsonBytes))
	} else if dryRun {
		fmt.Fprintf(out, "Dry-run mode: Would delete %d expired token(s) older than %d day(s)\n", count, days)
	} else {
		fmt.Fprintf(out, "Successfully deleted %d expired token(s) older than %d day(s)\n", count, days)
	}

	logger.Info("cleanup completed",
		slog.Int64("count", count),
		slog.Bool("dry_run", dryRun),
	)

	return nil
}
