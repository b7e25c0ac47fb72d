package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/epochml/epoch-ml/internal/cache"
	"github.com/epochml/epoch-ml/internal/models"
)

var ErrNotFound = errors.New("model not found")

const listCacheTTL = 5 * time.Minute

// Service serves model configurations: the built-in catalog plus
// user-created configs persisted in postgres. Built-ins are resolved from
// memory and never touch the database.
type Service struct {
	db       *pgxpool.Pool
	cache    *cache.Cache
	builtins map[string]models.ModelConfig
	order    []string
}

func NewService(db *pgxpool.Pool, c *cache.Cache) *Service {
	s := &Service{
		db:       db,
		cache:    c,
		builtins: make(map[string]models.ModelConfig),
	}
	for _, m := range builtinConfigs() {
		s.builtins[m.ID] = m
		s.order = append(s.order, m.ID)
	}
	return s
}

func (s *Service) Get(ctx context.Context, id string) (*models.ModelConfig, error) {
	if m, ok := s.builtins[id]; ok {
		cp := m
		return &cp, nil
	}
	if s.db == nil {
		return nil, ErrNotFound
	}

	var m models.ModelConfig
	var params json.RawMessage
	err := s.db.QueryRow(ctx,
		`SELECT id, name, type, description, architecture, parameters, is_active, created_by, created_at, updated_at
		 FROM model_configs WHERE id = $1`, id,
	).Scan(&m.ID, &m.Name, &m.Type, &m.Description, &m.Architecture, &params, &m.IsActive, &m.CreatedBy, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get model config: %w", err)
	}
	if err := json.Unmarshal(params, &m.Parameters); err != nil {
		return nil, fmt.Errorf("decode model parameters: %w", err)
	}
	return &m, nil
}

// List returns active built-ins followed by the owner's configs. The
// per-owner slice is cached briefly; cache misses and failures just fall
// through to the database.
func (s *Service) List(ctx context.Context, ownerID uuid.UUID) ([]models.ModelConfig, error) {
	out := make([]models.ModelConfig, 0, len(s.order))
	for _, id := range s.order {
		m := s.builtins[id]
		if m.IsActive {
			out = append(out, m)
		}
	}

	if s.db == nil {
		return out, nil
	}

	cacheKey := "catalog:" + ownerID.String()
	if s.cache != nil {
		var cached []models.ModelConfig
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return append(out, cached...), nil
		}
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, name, type, description, architecture, parameters, is_active, created_by, created_at, updated_at
		 FROM model_configs WHERE created_by = $1 AND is_active ORDER BY created_at`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list model configs: %w", err)
	}
	defer rows.Close()

	var own []models.ModelConfig
	for rows.Next() {
		var m models.ModelConfig
		var params json.RawMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Type, &m.Description, &m.Architecture, &params, &m.IsActive, &m.CreatedBy, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan model config: %w", err)
		}
		if err := json.Unmarshal(params, &m.Parameters); err != nil {
			return nil, fmt.Errorf("decode model parameters: %w", err)
		}
		own = append(own, m)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, own, listCacheTTL); err != nil {
			slog.Debug("catalog cache set failed", "error", err)
		}
	}

	return append(out, own...), nil
}

type CreateRequest struct {
	Name         string               `json:"name"`
	Type         string               `json:"type"`
	Description  string               `json:"description"`
	Architecture string               `json:"architecture"`
	Parameters   models.ModelDefaults `json:"parameters"`
}

func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, req CreateRequest) (*models.ModelConfig, error) {
	params, err := json.Marshal(req.Parameters)
	if err != nil {
		return nil, fmt.Errorf("encode model parameters: %w", err)
	}

	id := uuid.New().String()
	var m models.ModelConfig
	var rawParams json.RawMessage
	err = s.db.QueryRow(ctx,
		`INSERT INTO model_configs (id, name, type, description, architecture, parameters, is_active, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, true, $7)
		 RETURNING id, name, type, description, architecture, parameters, is_active, created_by, created_at, updated_at`,
		id, req.Name, req.Type, req.Description, req.Architecture, params, ownerID,
	).Scan(&m.ID, &m.Name, &m.Type, &m.Description, &m.Architecture, &rawParams, &m.IsActive, &m.CreatedBy, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert model config: %w", err)
	}
	if err := json.Unmarshal(rawParams, &m.Parameters); err != nil {
		return nil, fmt.Errorf("decode model parameters: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, "catalog:"+ownerID.String()); err != nil {
			slog.Debug("catalog cache invalidation failed", "error", err)
		}
	}

	return &m, nil
}
