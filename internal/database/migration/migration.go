package migration

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"kioskdesk/internal/logging"
)

type migrationStep struct {
	Name string
	SQL  string
}

// sentinelTable is created by the last table step; its presence means the schema is in place.
const sentinelTable = "public.attachments"

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id            UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  email         TEXT        NOT NULL,
  name          TEXT        NOT NULL,
  password_hash TEXT        NOT NULL,
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_users_email",
		SQL:  `CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users (lower(email));`,
	},
	{
		Name: "create_table_workspaces",
		SQL: `CREATE TABLE IF NOT EXISTS workspaces (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  name       TEXT        NOT NULL,
  created_by UUID        NOT NULL REFERENCES users (id),
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_workspace_users",
		SQL: `CREATE TABLE IF NOT EXISTS workspace_users (
  workspace_id UUID        NOT NULL REFERENCES workspaces (id) ON DELETE CASCADE,
  user_id      UUID        NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  role         TEXT        NOT NULL CHECK (role IN ('ADMIN', 'MEMBER', 'VIEWER')),
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
  PRIMARY KEY (workspace_id, user_id)
);`,
	},
	{
		Name: "create_index_workspace_users_user",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_workspace_users_user ON workspace_users (user_id);`,
	},
	{
		Name: "create_table_kiosks",
		SQL: `CREATE TABLE IF NOT EXISTS kiosks (
  id            UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  workspace_id  UUID        NOT NULL REFERENCES workspaces (id) ON DELETE CASCADE,
  serial_number TEXT        NOT NULL,
  name          TEXT        NOT NULL,
  location      TEXT        NOT NULL DEFAULT '',
  status        TEXT        NOT NULL CHECK (status IN ('ACTIVE', 'INACTIVE', 'MAINTENANCE')),
  notes         TEXT        NOT NULL DEFAULT '',
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  UNIQUE (workspace_id, serial_number)
);`,
	},
	{
		Name: "create_table_tickets",
		SQL: `CREATE TABLE IF NOT EXISTS tickets (
  id           UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  workspace_id UUID        NOT NULL REFERENCES workspaces (id) ON DELETE CASCADE,
  kiosk_id     UUID        NOT NULL REFERENCES kiosks (id),
  title        TEXT        NOT NULL,
  description  TEXT        NOT NULL DEFAULT '',
  status       TEXT        NOT NULL CHECK (status IN ('OPEN', 'IN_PROGRESS', 'RESOLVED', 'CLOSED')),
  priority     TEXT        NOT NULL CHECK (priority IN ('LOW', 'MEDIUM', 'HIGH', 'URGENT')),
  assignee_id  UUID        NULL REFERENCES users (id) ON DELETE SET NULL,
  created_by   UUID        NOT NULL REFERENCES users (id),
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
  resolved_at  TIMESTAMPTZ NULL
);`,
	},
	{
		Name: "create_index_tickets_workspace_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_tickets_workspace_status ON tickets (workspace_id, status);`,
	},
	{
		Name: "create_index_tickets_kiosk",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_tickets_kiosk ON tickets (kiosk_id);`,
	},
	{
		Name: "create_table_comments",
		SQL: `CREATE TABLE IF NOT EXISTS comments (
  id           UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  workspace_id UUID        NOT NULL REFERENCES workspaces (id) ON DELETE CASCADE,
  ticket_id    UUID        NOT NULL REFERENCES tickets (id) ON DELETE CASCADE,
  author_id    UUID        NOT NULL REFERENCES users (id),
  body         TEXT        NOT NULL,
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_comments_ticket",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_comments_ticket ON comments (ticket_id, created_at);`,
	},
	{
		Name: "create_table_attachments",
		SQL: `CREATE TABLE IF NOT EXISTS attachments (
  id           UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  workspace_id UUID        NOT NULL REFERENCES workspaces (id) ON DELETE CASCADE,
  ticket_id    UUID        NOT NULL REFERENCES tickets (id) ON DELETE CASCADE,
  filename     TEXT        NOT NULL,
  storage_path TEXT        NOT NULL UNIQUE,
  size         BIGINT      NOT NULL CHECK (size >= 0),
  content_type TEXT        NOT NULL,
  uploaded_by  UUID        NOT NULL REFERENCES users (id),
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_attachments_ticket",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_attachments_ticket ON attachments (ticket_id);`,
	},
}

// EnsureMigrated checks for the sentinel table and applies every step when it is missing.
// Steps are idempotent, so a run interrupted halfway is completed by the next one.
func EnsureMigrated(ctx context.Context, db *sql.DB, dbHost string) error {
	start := time.Now()
	log := logging.FromContext(ctx).With(
		slog.String("component", "database"),
		slog.String("db_host", dbHost),
	)

	log.Info("db_migration_check", slog.String("status", "starting"))

	var exists bool
	query := "SELECT to_regclass($1) IS NOT NULL"
	if err := db.QueryRowContext(ctx, query, sentinelTable).Scan(&exists); err != nil {
		log.Error("db_migration_failed",
			slog.String("status", "error"),
			slog.String("error_message", fmt.Sprintf("failed to check sentinel table: %v", err)),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip",
			slog.String("status", "success"),
			slog.String("detail", "schema already exists, skipping migration"),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil
	}

	log.Info("db_migration_start", slog.String("status", "in_progress"), slog.Int("steps", len(steps)))

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				slog.String("status", "error"),
				slog.String("migration_step", step.Name),
				slog.String("error_message", err.Error()),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
				slog.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
			)
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info("db_migration_step",
			slog.String("status", "success"),
			slog.String("migration_step", step.Name),
			slog.Int64("step_duration_ms", time.Since(stepStart).Milliseconds()),
		)
	}

	log.Info("db_migration_success",
		slog.String("status", "success"),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return nil
}
