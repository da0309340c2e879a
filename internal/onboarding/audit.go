package onboarding

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// AuditSink stores the record of every onboarding run.
type AuditSink interface {
	Record(ctx context.Context, out *Outcome) error
}

type NopAudit struct{}

func (NopAudit) Record(context.Context, *Outcome) error { return nil }

// Execer is satisfied by *database.PostgresClient and *sql.DB.
type Execer interface {
	Exec(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

const createAuditTable = `CREATE TABLE IF NOT EXISTS onboarding_audit (
	id            BIGSERIAL PRIMARY KEY,
	applicant_id  BIGINT      NOT NULL,
	business_name TEXT        NOT NULL,
	status        TEXT        NOT NULL,
	business_id   BIGINT,
	admin_id      BIGINT,
	steps         JSONB       NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL
)`

const insertAudit = `INSERT INTO onboarding_audit
	(applicant_id, business_name, status, business_id, admin_id, steps, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

type PostgresAudit struct {
	db  Execer
	now func() time.Time
}

func NewPostgresAudit(db Execer) *PostgresAudit {
	return &PostgresAudit{db: db, now: time.Now}
}

// EnsureSchema creates the audit table when it does not exist.
func (a *PostgresAudit) EnsureSchema(ctx context.Context) error {
	if _, err := a.db.Exec(ctx, createAuditTable); err != nil {
		return fmt.Errorf("create onboarding_audit: %w", err)
	}
	return nil
}

type auditStep struct {
	Step       string `json:"step"`
	Status     int    `json:"status"`
	OK         bool   `json:"ok"`
	Message    string `json:"message,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

func (a *PostgresAudit) Record(ctx context.Context, out *Outcome) error {
	steps := make([]auditStep, 0, len(out.Steps))
	for _, s := range out.Steps {
		steps = append(steps, auditStep{
			Step:       s.Step,
			Status:     s.Status,
			OK:         s.OK,
			Message:    s.Message,
			DurationMs: s.Duration.Milliseconds(),
		})
	}
	data, err := json.Marshal(steps)
	if err != nil {
		return fmt.Errorf("encode audit steps: %w", err)
	}

	var businessID, adminID sql.NullInt64
	if out.Business != nil {
		businessID = sql.NullInt64{Int64: out.Business.ID, Valid: true}
	}
	if out.Admin != nil && out.Admin.ID != 0 {
		adminID = sql.NullInt64{Int64: out.Admin.ID, Valid: true}
	}

	_, err = a.db.Exec(ctx, insertAudit,
		out.Applicant.ID, out.Applicant.BusinessName, out.status(),
		businessID, adminID, string(data), a.now().UTC())
	if err != nil {
		return fmt.Errorf("insert onboarding_audit: %w", err)
	}
	return nil
}
