package training

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/epochml/epoch-ml/internal/models"
)

// PGStore is the postgres-backed SessionStore. Rows carry a sequence column
// so List can return insertion order without relying on timestamps.
type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

const sessionColumns = `id, owner_id, model_ref, dataset_id, target_column, parameters, status, progress, cost, created_at, completed_at`

func (p *PGStore) Create(ctx context.Context, s *models.TrainingSession) error {
	_, err := p.db.Exec(ctx,
		`INSERT INTO training_sessions (id, owner_id, model_ref, dataset_id, target_column, parameters, status, progress, cost, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		s.ID, s.OwnerID, s.ModelRef, s.DatasetID, s.TargetColumn, s.Parameters, s.Status, s.Progress, s.Cost, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (p *PGStore) FindByID(ctx context.Context, id uuid.UUID) (*models.TrainingSession, error) {
	var s models.TrainingSession
	err := p.db.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM training_sessions WHERE id = $1`, id,
	).Scan(&s.ID, &s.OwnerID, &s.ModelRef, &s.DatasetID, &s.TargetColumn, &s.Parameters,
		&s.Status, &s.Progress, &s.Cost, &s.CreatedAt, &s.CompletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &s, nil
}

func (p *PGStore) UpdateByID(ctx context.Context, id uuid.UUID, patch Patch) error {
	sets := make([]string, 0, 3)
	args := []interface{}{id}
	idx := 2

	if patch.Status != nil {
		sets = append(sets, fmt.Sprintf("status = $%d", idx))
		args = append(args, *patch.Status)
		idx++
	}
	if patch.Progress != nil {
		sets = append(sets, fmt.Sprintf("progress = $%d", idx))
		args = append(args, *patch.Progress)
		idx++
	}
	if patch.CompletedAt != nil {
		sets = append(sets, fmt.Sprintf("completed_at = $%d", idx))
		args = append(args, *patch.CompletedAt)
		idx++
	}
	if len(sets) == 0 {
		return nil
	}

	// Missing rows update zero rows, which is the contract's no-op.
	_, err := p.db.Exec(ctx,
		`UPDATE training_sessions SET `+strings.Join(sets, ", ")+` WHERE id = $1`, args...)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

func (p *PGStore) List(ctx context.Context, f Filter) ([]models.TrainingSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM training_sessions`
	args := []interface{}{}
	if f.OwnerID != nil {
		query += ` WHERE owner_id = $1`
		args = append(args, *f.OwnerID)
	}
	query += ` ORDER BY seq`

	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.TrainingSession
	for rows.Next() {
		var s models.TrainingSession
		if err := rows.Scan(&s.ID, &s.OwnerID, &s.ModelRef, &s.DatasetID, &s.TargetColumn, &s.Parameters,
			&s.Status, &s.Progress, &s.Cost, &s.CreatedAt, &s.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

func (p *PGStore) DeleteByID(ctx context.Context, id, ownerID uuid.UUID) error {
	tag, err := p.db.Exec(ctx,
		`DELETE FROM training_sessions WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
