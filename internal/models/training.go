package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TrainingSession tracks one requested training run from launch to its
// terminal state. Status moves forward only: pending -> running ->
// {completed, failed}. Progress is a raw percentage reported by the trainer
// process and is frozen once the session is terminal.
type TrainingSession struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	OwnerID      uuid.UUID       `json:"owner_id" db:"owner_id"`
	ModelRef     string          `json:"model_id" db:"model_ref"`
	DatasetID    string          `json:"dataset_id,omitempty" db:"dataset_id"`
	TargetColumn string          `json:"target_column,omitempty" db:"target_column"`
	Parameters   json.RawMessage `json:"parameters" db:"parameters"`
	Status       string          `json:"status" db:"status"`
	Progress     int             `json:"progress" db:"progress"`
	Cost         int             `json:"cost" db:"cost"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty" db:"completed_at"`
}

const (
	SessionStatusPending   = "pending"
	SessionStatusRunning   = "running"
	SessionStatusCompleted = "completed"
	SessionStatusFailed    = "failed"
)

// Terminal reports whether no further transitions can occur.
func (s *TrainingSession) Terminal() bool {
	return s.Status == SessionStatusCompleted || s.Status == SessionStatusFailed
}

// TrainingParameters is the validated shape of the hyperparameter bag. The
// session itself stores the raw JSON and passes it verbatim to the trainer
// process; this struct exists for request validation only.
type TrainingParameters struct {
	Epochs       int     `json:"epochs,omitempty"`
	LearningRate float64 `json:"learningRate,omitempty"`
	BatchSize    int     `json:"batchSize,omitempty"`
	Timesteps    int     `json:"timesteps,omitempty"`
	Environment  string  `json:"environment,omitempty"`
}
