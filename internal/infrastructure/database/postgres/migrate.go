package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrate applies every embedded migration in lexical order. Each script is
// written to be idempotent so it is safe to run on every start.
func Migrate(ctx context.Context, db DBPool, logger *slog.Logger) error {
	names, err := fs.Glob(migrationFiles, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("failed to list migrations: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		script, err := migrationFiles.ReadFile(name)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", name, err)
		}

		logger.InfoContext(ctx, "Applying migration", slog.String("migration", name))
		if _, err := db.Exec(ctx, string(script)); err != nil {
			logger.ErrorContext(ctx, "Migration failed", slog.String("migration", name), slog.Any("error", err))
			return fmt.Errorf("failed to apply migration %s: %w", name, err)
		}
	}

	logger.InfoContext(ctx, "Database schema is up to date", slog.Int("migrations", len(names)))
	return nil
}
