package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Webhook struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	OwnerID   uuid.UUID       `json:"owner_id" db:"owner_id"`
	URL       string          `json:"url" db:"url"`
	Events    json.RawMessage `json:"events" db:"events"`
	Secret    string          `json:"secret,omitempty" db:"-"`
	IsActive  bool            `json:"is_active" db:"is_active"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

type WebhookDelivery struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	WebhookID      uuid.UUID  `json:"webhook_id" db:"webhook_id"`
	Event          string     `json:"event" db:"event"`
	Payload        []byte     `json:"-" db:"payload"`
	ResponseStatus int        `json:"response_status" db:"response_status"`
	Attempts       int        `json:"attempts" db:"attempts"`
	DeliveredAt    *time.Time `json:"delivered_at,omitempty" db:"delivered_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

// Webhook event names emitted when a training session reaches a terminal
// state. Mirrors the statuses a polling client would observe.
const (
	EventTrainingCompleted = "training.completed"
	EventTrainingFailed    = "training.failed"
)
