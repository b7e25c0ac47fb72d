package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/epochml/epoch-ml/internal/queue"
	"github.com/epochml/epoch-ml/internal/training"
	"github.com/epochml/epoch-ml/internal/webhook"
)

// NotifyWorker turns terminal training sessions into webhook deliveries.
type NotifyWorker struct {
	sessions training.SessionStore
	webhooks *webhook.Service
}

func NewNotifyWorker(sessions training.SessionStore, webhooks *webhook.Service) *NotifyWorker {
	return &NotifyWorker{sessions: sessions, webhooks: webhooks}
}

func (w *NotifyWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.TrainingNotifyPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	sessionID, err := uuid.Parse(payload.SessionID)
	if err != nil {
		return fmt.Errorf("parse session id: %w", err)
	}
	ownerID, err := uuid.Parse(payload.OwnerID)
	if err != nil {
		return fmt.Errorf("parse owner id: %w", err)
	}

	session, err := w.sessions.FindByID(ctx, sessionID)
	if errors.Is(err, training.ErrNotFound) {
		// Session was deleted before the notification ran; nothing to send.
		slog.Warn("skipping notification for missing session", "session_id", sessionID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	slog.Info("dispatching training event",
		"session_id", sessionID,
		"event", payload.Event,
		"status", session.Status,
	)

	if err := w.webhooks.Dispatch(ctx, ownerID, payload.Event, session); err != nil {
		return fmt.Errorf("dispatch webhooks: %w", err)
	}
	return nil
}
