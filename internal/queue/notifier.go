package queue

import (
	"log/slog"

	"github.com/epochml/epoch-ml/internal/models"
)

// TrainingNotifier bridges terminal training sessions onto the task queue.
// It satisfies training.Notifier.
type TrainingNotifier struct {
	client *Client
}

func NewTrainingNotifier(client *Client) *TrainingNotifier {
	return &TrainingNotifier{client: client}
}

func (n *TrainingNotifier) SessionFinished(s *models.TrainingSession) {
	event := models.EventTrainingCompleted
	if s.Status == models.SessionStatusFailed {
		event = models.EventTrainingFailed
	}

	err := n.client.EnqueueTrainingNotify(TrainingNotifyPayload{
		SessionID: s.ID.String(),
		OwnerID:   s.OwnerID.String(),
		Event:     event,
	})
	if err != nil {
		slog.Error("failed to enqueue training notification", "session_id", s.ID, "error", err)
	}
}
