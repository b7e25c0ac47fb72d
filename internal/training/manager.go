package training

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"time"

	"github.com/google/uuid"

	"github.com/epochml/epoch-ml/internal/models"
)

// Notifier is told when a session reaches a terminal state. Implementations
// must not block; the manager calls it from the process goroutine.
type Notifier interface {
	SessionFinished(s *models.TrainingSession)
}

// Manager owns the training session lifecycle: it persists a session record,
// launches one trainer process per session, tracks progress markers on the
// process's stdout and transitions the session to a terminal state when the
// process exits. Sessions are never touched by another session's process.
//
// There is no admission control: every StartSession spawns its own process
// regardless of how many are already running.
type Manager struct {
	store      SessionStore
	resolver   *Resolver
	notifier   Notifier
	runTimeout time.Duration
}

type ManagerOption func(*Manager)

// WithNotifier wires terminal-state notifications, e.g. webhook delivery.
func WithNotifier(n Notifier) ManagerOption {
	return func(m *Manager) { m.notifier = n }
}

// WithRunTimeout bounds trainer process lifetime. Zero means no deadline:
// a hung trainer stays running forever.
func WithRunTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) { m.runTimeout = d }
}

func NewManager(store SessionStore, resolver *Resolver, opts ...ManagerOption) *Manager {
	m := &Manager{store: store, resolver: resolver}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// StartRequest carries everything a validated start-training call provides.
// Parameters are passed verbatim to the trainer process; the caller has
// already validated their ranges.
type StartRequest struct {
	OwnerID      uuid.UUID
	ModelRef     string
	DatasetID    string
	TargetColumn string
	Parameters   json.RawMessage
	Cost         int
}

// StartSession persists a new session and launches its trainer process. The
// returned record is already in the running state: the transition happens at
// launch time, not when the trainer produces its first output. Everything
// after the launch is asynchronous; failures there surface only through the
// session's status.
func (m *Manager) StartSession(ctx context.Context, req StartRequest) (*models.TrainingSession, error) {
	params := req.Parameters
	if len(params) == 0 {
		params = json.RawMessage(`{}`)
	}

	s := &models.TrainingSession{
		ID:           uuid.New(),
		OwnerID:      req.OwnerID,
		ModelRef:     req.ModelRef,
		DatasetID:    req.DatasetID,
		TargetColumn: req.TargetColumn,
		Parameters:   params,
		Status:       models.SessionStatusPending,
		Progress:     0,
		Cost:         req.Cost,
		CreatedAt:    time.Now().UTC(),
	}

	if err := m.store.Create(ctx, s); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	program := m.resolver.Resolve(req.ModelRef)

	running := models.SessionStatusRunning
	if err := m.store.UpdateByID(ctx, s.ID, Patch{Status: &running}); err != nil {
		return nil, fmt.Errorf("mark session running: %w", err)
	}
	s.Status = running

	slog.Info("training session started",
		"session_id", s.ID, "owner_id", s.OwnerID, "model_ref", s.ModelRef, "trainer", program)

	go m.run(s.ID, program, params)

	return s, nil
}

// GetSession fetches a session by id. Progress updates are visible here
// while the trainer runs because the record is mutated in place.
func (m *Manager) GetSession(ctx context.Context, id uuid.UUID) (*models.TrainingSession, error) {
	return m.store.FindByID(ctx, id)
}

// ListSessions returns sessions in insertion order, optionally filtered by
// owner. Display sorting is the caller's concern.
func (m *Manager) ListSessions(ctx context.Context, f Filter) ([]models.TrainingSession, error) {
	return m.store.List(ctx, f)
}

// run executes the trainer process for one session and keeps the record
// synchronized with its lifecycle. It runs on its own goroutine; stdout
// lines are consumed here, so the exit transition always happens after the
// last progress update.
func (m *Manager) run(id uuid.UUID, program string, params json.RawMessage) {
	ctx := context.Background()
	cancel := func() {}
	if m.runTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, m.runTimeout)
	}
	defer cancel()

	cmd := exec.CommandContext(ctx, program, string(params))

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		slog.Error("trainer stdout pipe failed", "session_id", id, "error", err)
		m.finish(id, models.SessionStatusFailed)
		return
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		slog.Error("trainer stderr pipe failed", "session_id", id, "error", err)
		m.finish(id, models.SessionStatusFailed)
		return
	}

	if err := cmd.Start(); err != nil {
		slog.Error("trainer spawn failed", "session_id", id, "program", program, "error", err)
		m.finish(id, models.SessionStatusFailed)
		return
	}

	go m.drainStderr(id, stderr)
	m.scanStdout(ctx, id, stdout)

	if err := cmd.Wait(); err != nil {
		slog.Warn("trainer exited with failure", "session_id", id, "error", err)
		m.finish(id, models.SessionStatusFailed)
		return
	}
	m.finish(id, models.SessionStatusCompleted)
}

// maxTrainerLine bounds a single line of trainer output. Lines beyond it
// are dropped, not fatal; the pipe keeps draining either way.
const maxTrainerLine = 1 << 20

// scanStdout watches trainer output for progress markers. The most recent
// marker wins; values are written through without aggregation or clamping.
func (m *Manager) scanStdout(ctx context.Context, id uuid.UUID, r io.Reader) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxTrainerLine)
	for scanner.Scan() {
		line := scanner.Text()
		v, ok := parseProgress(line)
		if !ok {
			continue
		}
		if err := m.store.UpdateByID(ctx, id, Patch{Progress: &v}); err != nil {
			slog.Error("progress update failed", "session_id", id, "error", err)
		}
	}
	if err := scanner.Err(); err != nil {
		slog.Warn("trainer stdout read error", "session_id", id, "error", err)
		io.Copy(io.Discard, r)
	}
}

// drainStderr logs trainer diagnostics. stderr never affects status or
// progress, but leaving the pipe unread would stall the process.
func (m *Manager) drainStderr(id uuid.UUID, r io.Reader) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxTrainerLine)
	for scanner.Scan() {
		slog.Warn("trainer stderr", "session_id", id, "line", scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		slog.Warn("trainer stderr read error", "session_id", id, "error", err)
		io.Copy(io.Discard, r)
	}
}

// finish records the terminal transition. No session writes happen after
// this; the record is frozen.
func (m *Manager) finish(id uuid.UUID, status string) {
	ctx := context.Background()
	now := time.Now().UTC()

	if err := m.store.UpdateByID(ctx, id, Patch{Status: &status, CompletedAt: &now}); err != nil {
		slog.Error("terminal transition failed", "session_id", id, "status", status, "error", err)
		return
	}

	slog.Info("training session finished", "session_id", id, "status", status)

	if m.notifier == nil {
		return
	}
	s, err := m.store.FindByID(ctx, id)
	if err != nil {
		slog.Error("load finished session for notify", "session_id", id, "error", err)
		return
	}
	m.notifier.SessionFinished(s)
}
