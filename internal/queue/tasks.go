package queue

const (
	TypeTrainingNotify = "training:notify"
)

// TrainingNotifyPayload carries a terminal training session from the API
// process to the worker that fans out webhook deliveries.
type TrainingNotifyPayload struct {
	SessionID string `json:"session_id"`
	OwnerID   string `json:"owner_id"`
	Event     string `json:"event"`
}
