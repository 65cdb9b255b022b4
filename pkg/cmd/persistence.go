package cmd

import (
	"context"
	"log/slog"
	"strings"

	"github.com/fluxion-ai/fluxion/pkg/persistence"
	"github.com/fluxion-ai/fluxion/pkg/persistence/file"
	"github.com/fluxion-ai/fluxion/pkg/persistence/postgresql"
)

// NewPersistence picks a persistence backend from the database URL
// scheme. postgres:// and postgresql:// URLs get PostgreSQL, anything
// else is treated as a file root.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (persistence.Persistence, error) {
	switch parsePersistenceProvider(databaseURL) {
	case "postgres", "postgresql":
		return postgresql.NewPersistence(ctx, logger, databaseURL)
	default:
		return file.NewPersistence(databaseURL), nil
	}
}

func parsePersistenceProvider(databaseURL string) string {
	scheme, _, found := strings.Cut(databaseURL, "://")
	if !found {
		return "file"
	}

	return scheme
}
