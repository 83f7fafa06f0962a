package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/stagecraft-cd/stagecraft/internal/domain"
)

// PlanRepo implements [domain.PlanRepository] backed by SQLite. Records
// are immutable once written; there is no update path.
type PlanRepo struct {
	DB *sql.DB
}

func (r *PlanRepo) Put(ctx context.Context, rec domain.PlanRecord) error {
	injected, err := json.Marshal(rec.Injected)
	if err != nil {
		return fmt.Errorf("marshal injected stages: %w", err)
	}
	steps, err := json.Marshal(rec.Steps)
	if err != nil {
		return fmt.Errorf("marshal steps: %w", err)
	}

	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO plan_records (id, application, account, cluster, strategy, phase, outcome, error, injected, steps, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Application, rec.Account, rec.Cluster, rec.Strategy,
		string(rec.Phase), string(rec.Outcome), rec.Error,
		string(injected), string(steps), rec.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("plan %q: %w", rec.ID, domain.ErrAlreadyExists)
		}
		return fmt.Errorf("insert plan record: %w", err)
	}
	return nil
}

func (r *PlanRepo) Get(ctx context.Context, id string) (domain.PlanRecord, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT id, application, account, cluster, strategy, phase, outcome, error, injected, steps, created_at
		 FROM plan_records WHERE id = ?`,
		id,
	)
	return scanPlan(row)
}

func (r *PlanRepo) ListByCluster(ctx context.Context, application, account, cluster string) ([]domain.PlanRecord, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, application, account, cluster, strategy, phase, outcome, error, injected, steps, created_at
		 FROM plan_records
		 WHERE application = ? AND account = ? AND cluster = ?
		 ORDER BY created_at, id`,
		application, account, cluster,
	)
	if err != nil {
		return nil, fmt.Errorf("list plan records: %w", err)
	}
	defer rows.Close()

	var records []domain.PlanRecord
	for rows.Next() {
		rec, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPlan(s scanner) (domain.PlanRecord, error) {
	var rec domain.PlanRecord
	var phase, outcome, injectedJSON, stepsJSON, createdAtStr string
	err := s.Scan(&rec.ID, &rec.Application, &rec.Account, &rec.Cluster, &rec.Strategy,
		&phase, &outcome, &rec.Error, &injectedJSON, &stepsJSON, &createdAtStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rec, fmt.Errorf("%w", domain.ErrNotFound)
		}
		return rec, fmt.Errorf("scan plan record: %w", err)
	}
	rec.Phase = domain.PlanPhase(phase)
	rec.Outcome = domain.PlanOutcome(outcome)

	if err := json.Unmarshal([]byte(injectedJSON), &rec.Injected); err != nil {
		return rec, fmt.Errorf("unmarshal injected stages: %w", err)
	}
	if err := json.Unmarshal([]byte(stepsJSON), &rec.Steps); err != nil {
		return rec, fmt.Errorf("unmarshal steps: %w", err)
	}

	t, err := time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return rec, fmt.Errorf("parse created_at: %w", err)
	}
	rec.CreatedAt = t
	return rec, nil
}
