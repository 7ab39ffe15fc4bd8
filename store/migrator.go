package store

import (
	"context"
	"embed"
	"fmt"
	"log/slog"

	"github.com/pkg/errors"
)

// Migration System Overview:
//
// The dashboard core owns no write path, so the migration surface is small:
// when a fresh database is detected (no "user" table), the full schema from
// migration/{driver}/LATEST.sql is applied. Incremental schema evolution is
// the chat application's concern, not this service's.

//go:embed migration
var migrationFS embed.FS

// LatestSchemaFileName is the full schema file applied to fresh installations.
const LatestSchemaFileName = "LATEST.sql"

// Migrate initializes the schema when the database is fresh. It is a no-op
// against an already-initialized database.
func (s *Store) Migrate(ctx context.Context) error {
	initialized, err := s.driver.IsInitialized(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to check database initialization")
	}
	if initialized {
		return nil
	}

	schemaPath := fmt.Sprintf("migration/%s/%s", s.profile.Driver, LatestSchemaFileName)
	buf, err := migrationFS.ReadFile(schemaPath)
	if err != nil {
		return errors.Wrapf(err, "failed to read latest schema file %q", schemaPath)
	}

	if _, err := s.driver.GetDB().ExecContext(ctx, string(buf)); err != nil {
		return errors.Wrap(err, "failed to apply latest schema")
	}

	slog.Info("database schema initialized", "driver", s.profile.Driver)
	return nil
}
