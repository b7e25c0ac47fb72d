package training

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/epochml/epoch-ml/internal/models"
)

var (
	ErrModelNotFound = errors.New("model configuration not found")
	ErrNotOwner      = errors.New("model configuration does not belong to user")
)

// CatalogLookup resolves a model configuration by id.
type CatalogLookup interface {
	Get(ctx context.Context, id string) (*models.ModelConfig, error)
}

// CreditLedger debits training costs. Spend returns the remaining balance
// or an error when the balance is too low.
type CreditLedger interface {
	Spend(ctx context.Context, userID uuid.UUID, amount int) (int, error)
}

// Service is the HTTP-facing layer over the Manager: it validates the
// request against the catalog, charges credits and only then launches the
// session. The Manager itself never touches credits or the catalog.
type Service struct {
	mgr     *Manager
	store   SessionStore
	catalog CatalogLookup
	credits CreditLedger
}

func NewService(mgr *Manager, store SessionStore, catalog CatalogLookup, credits CreditLedger) *Service {
	return &Service{mgr: mgr, store: store, catalog: catalog, credits: credits}
}

type StartTrainingRequest struct {
	ModelID      string          `json:"model_id"`
	DatasetID    string          `json:"dataset_id"`
	TargetColumn string          `json:"target_column,omitempty"`
	Parameters   json.RawMessage `json:"parameters"`
}

type StartTrainingResult struct {
	Session          *models.TrainingSession `json:"session"`
	Cost             int                     `json:"cost"`
	CreditsRemaining int                     `json:"credits_remaining"`
}

func (s *Service) Start(ctx context.Context, ownerID uuid.UUID, req StartTrainingRequest) (*StartTrainingResult, error) {
	model, err := s.catalog.Get(ctx, req.ModelID)
	if err != nil {
		return nil, ErrModelNotFound
	}

	// Built-in configurations are trainable by anyone; user-created ones
	// only by their creator.
	if model.CreatedBy != nil && *model.CreatedBy != ownerID {
		return nil, ErrNotOwner
	}

	cost := CostFor(model.Type)
	remaining, err := s.credits.Spend(ctx, ownerID, cost)
	if err != nil {
		return nil, err
	}

	session, err := s.mgr.StartSession(ctx, StartRequest{
		OwnerID:      ownerID,
		ModelRef:     req.ModelID,
		DatasetID:    req.DatasetID,
		TargetColumn: req.TargetColumn,
		Parameters:   req.Parameters,
		Cost:         cost,
	})
	if err != nil {
		return nil, err
	}

	return &StartTrainingResult{Session: session, Cost: cost, CreditsRemaining: remaining}, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.TrainingSession, error) {
	return s.mgr.GetSession(ctx, id)
}

// SessionDetail is a session joined with its model configuration for
// history views.
type SessionDetail struct {
	models.TrainingSession
	ModelName string `json:"model_name"`
	ModelType string `json:"model_type"`
}

// History lists the owner's sessions in insertion order, decorated with
// catalog details. A since-deleted model shows up as unknown rather than
// dropping the session.
func (s *Service) History(ctx context.Context, ownerID uuid.UUID) ([]SessionDetail, error) {
	sessions, err := s.mgr.ListSessions(ctx, Filter{OwnerID: &ownerID})
	if err != nil {
		return nil, err
	}

	details := make([]SessionDetail, 0, len(sessions))
	for _, sess := range sessions {
		d := SessionDetail{TrainingSession: sess, ModelName: "Unknown Model", ModelType: "Unknown"}
		if model, err := s.catalog.Get(ctx, sess.ModelRef); err == nil {
			d.ModelName = model.Name
			d.ModelType = model.Type
		}
		details = append(details, d)
	}
	return details, nil
}

func (s *Service) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	return s.store.DeleteByID(ctx, id, ownerID)
}

// ValidateParameters enforces the request-level hyperparameter bounds. The
// Manager trusts its callers, so this runs before any session exists.
func ValidateParameters(p models.TrainingParameters) error {
	if p.Epochs < 1 || p.Epochs > 1000 {
		return fmt.Errorf("epochs must be an integer between 1 and 1000")
	}
	if p.LearningRate < 0.0001 || p.LearningRate > 1 {
		return fmt.Errorf("learning rate must be between 0.0001 and 1")
	}
	if p.BatchSize < 1 || p.BatchSize > 512 {
		return fmt.Errorf("batch size must be an integer between 1 and 512")
	}
	return nil
}
