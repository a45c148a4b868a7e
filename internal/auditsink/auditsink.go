// Package auditsink records every grouped DRGResult plus its note
// trace as an audit row in Postgres, for batch runs started with
// drggroup's -pg flag. It is an optional collaborator: grouping itself
// has no dependency on persistence.
package auditsink

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"msdrggrouper/internal/grouping"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS drg_audit (
    id           BIGSERIAL PRIMARY KEY,
    run_id       UUID NOT NULL,
    encounter_id TEXT NOT NULL,
    drg          TEXT NOT NULL,
    mdc          TEXT,
    description  TEXT NOT NULL,
    drg_type     TEXT NOT NULL,
    mcc_dx       TEXT,
    cc_dx        TEXT,
    notes        TEXT NOT NULL,
    recorded_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const insertSQL = `
INSERT INTO drg_audit (run_id, encounter_id, drg, mdc, description, drg_type, mcc_dx, cc_dx, notes)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

// Sink writes grouped results to a Postgres audit table. Every row
// carries the same RunID, generated once per batch invocation.
type Sink struct {
	pool  *pgxpool.Pool
	ctx   context.Context
	RunID uuid.UUID
}

// Open connects to connStr, ensures the audit table exists, and
// assigns a fresh run ID.
func Open(ctx context.Context, connStr string) (*Sink, error) {
	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse connection: %w", err)
	}
	poolConfig.MaxConns = 4

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	if _, err := pool.Exec(ctx, createTableSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create audit table: %w", err)
	}

	return &Sink{pool: pool, ctx: ctx, RunID: uuid.New()}, nil
}

// Record inserts one audit row for a grouped encounter.
func (s *Sink) Record(encounterID string, res grouping.DRGResult) error {
	_, err := s.pool.Exec(s.ctx, insertSQL,
		s.RunID,
		encounterID,
		res.DRG,
		optText(res.MDC),
		sanitizeUTF8(res.Description),
		res.Type,
		optText(res.MCCDx),
		optText(res.CCDx),
		sanitizeUTF8(strings.Join(res.Notes, "; ")),
	)
	if err != nil {
		return fmt.Errorf("insert audit row: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Sink) Close() {
	s.pool.Close()
}

func optText(s string) pgtype.Text {
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

func sanitizeUTF8(s string) string {
	return strings.ToValidUTF8(s, " ")
}
