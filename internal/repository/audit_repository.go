package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/equipment-rental/internal/model"
)

// AuditRepo appends and reads the append-only audit log.  Entries
// for mutations that run inside a transaction are written through
// RecordTx so the log and the mutation commit together.
type AuditRepo struct{ DB *sql.DB }

func NewAuditRepo(db *sql.DB) *AuditRepo { return &AuditRepo{DB: db} }

// Record appends an entry outside of any transaction.
func (r *AuditRepo) Record(ctx context.Context, e model.AuditEntry) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO audit_log (actor_id, action, entity, entity_id, detail) VALUES (?,?,?,?,?)",
		e.ActorID, e.Action, e.Entity, e.EntityID, e.Detail)
	return err
}

// RecordTx appends an entry within the caller's transaction.
func (r *AuditRepo) RecordTx(ctx context.Context, tx *sql.Tx, e model.AuditEntry) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO audit_log (actor_id, action, entity, entity_id, detail) VALUES (?,?,?,?,?)",
		e.ActorID, e.Action, e.Entity, e.EntityID, e.Detail)
	return err
}

// List returns audit entries, newest first, optionally filtered by
// actor and/or entity name.  Limit caps the page size; values
// outside (0,500] fall back to 100.
func (r *AuditRepo) List(ctx context.Context, actorID uint64, entity string, limit int) ([]model.AuditEntry, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	q := "SELECT id, actor_id, action, entity, entity_id, detail, created_at FROM audit_log WHERE 1=1"
	args := make([]interface{}, 0, 3)
	if actorID != 0 {
		q += " AND actor_id=?"
		args = append(args, actorID)
	}
	if entity != "" {
		q += " AND entity=?"
		args = append(args, entity)
	}
	q += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.AuditEntry, 0)
	for rows.Next() {
		var e model.AuditEntry
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.Entity, &e.EntityID, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
