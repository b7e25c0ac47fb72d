package models

import (
	"time"

	"github.com/google/uuid"
)

// ModelConfig is a trainable model configuration: an architecture plus
// default hyperparameters. The built-in catalog entries have the string IDs
// "1".."10"; user-created configs get UUID strings.
type ModelConfig struct {
	ID           string        `json:"id" db:"id"`
	Name         string        `json:"name" db:"name"`
	Type         string        `json:"type" db:"type"`
	Description  string        `json:"description" db:"description"`
	Architecture string        `json:"architecture" db:"architecture"`
	Parameters   ModelDefaults `json:"parameters" db:"parameters"`
	IsActive     bool          `json:"is_active" db:"is_active"`
	CreatedBy    *uuid.UUID    `json:"created_by,omitempty" db:"created_by"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" db:"updated_at"`
}

// ModelDefaults carries the default hyperparameters a configuration is
// trained with when the request doesn't override them.
type ModelDefaults struct {
	InputSize    int     `json:"inputSize,omitempty"`
	HiddenSize   int     `json:"hiddenSize,omitempty"`
	OutputSize   int     `json:"outputSize,omitempty"`
	Layers       int     `json:"layers,omitempty"`
	LearningRate float64 `json:"learningRate,omitempty"`
	Epochs       int     `json:"epochs,omitempty"`
	BatchSize    int     `json:"batchSize,omitempty"`
	Timesteps    int     `json:"timesteps,omitempty"`
	Environment  string  `json:"environment,omitempty"`
}
