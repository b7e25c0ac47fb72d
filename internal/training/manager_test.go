package training

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/epochml/epoch-ml/internal/models"
)

// stubTrainer writes an executable shell script named like the generic
// trainer into a temp dir, so any unrecognized model reference resolves to
// it. Returns the scripts dir.
func stubTrainer(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, scriptGeneric)
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub trainer: %v", err)
	}
	return dir
}

// waitTerminal polls the store until the session leaves the running state.
func waitTerminal(t *testing.T, store SessionStore, id uuid.UUID) *models.TrainingSession {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		s, err := store.FindByID(context.Background(), id)
		if err != nil {
			t.Fatalf("FindByID: %v", err)
		}
		if s.Terminal() {
			return s
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("session never reached a terminal state")
	return nil
}

func startStub(t *testing.T, store SessionStore, scriptsDir string, opts ...ManagerOption) *models.TrainingSession {
	t.Helper()
	mgr := NewManager(store, NewResolver(scriptsDir), opts...)
	s, err := mgr.StartSession(context.Background(), StartRequest{
		OwnerID:    uuid.New(),
		ModelRef:   "xyz-unknown",
		Parameters: json.RawMessage(`{"epochs":5,"learningRate":0.01,"batchSize":16}`),
	})
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	return s
}

func TestStartSessionReturnsRunning(t *testing.T) {
	store := NewMemStore()
	dir := stubTrainer(t, "sleep 0.2")

	s := startStub(t, store, dir)

	if s.ID == uuid.Nil {
		t.Error("session id is empty")
	}
	if s.Status != models.SessionStatusRunning {
		t.Errorf("status = %q immediately after start, want running", s.Status)
	}
	if s.Progress != 0 {
		t.Errorf("progress = %d, want 0", s.Progress)
	}
	if s.CompletedAt != nil {
		t.Error("completedAt set before the trainer exited")
	}

	waitTerminal(t, store, s.ID)
}

func TestExitCodeMapping(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus string
	}{
		{name: "zero exit completes", body: "exit 0", wantStatus: models.SessionStatusCompleted},
		{name: "nonzero exit fails", body: "exit 3", wantStatus: models.SessionStatusFailed},
		{name: "any nonzero code fails", body: "exit 111", wantStatus: models.SessionStatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemStore()
			s := startStub(t, store, stubTrainer(t, tt.body))

			got := waitTerminal(t, store, s.ID)
			if got.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", got.Status, tt.wantStatus)
			}
			if got.CompletedAt == nil {
				t.Error("completedAt not set on terminal transition")
			}
		})
	}
}

func TestProgressMarkerUpdates(t *testing.T) {
	store := NewMemStore()
	s := startStub(t, store, stubTrainer(t, `echo "starting up"
echo "PROGRESS:50"
exit 0`))

	got := waitTerminal(t, store, s.ID)
	if got.Status != models.SessionStatusCompleted {
		t.Fatalf("status = %q, want completed", got.Status)
	}
	if got.Progress != 50 {
		t.Errorf("progress = %d, want 50", got.Progress)
	}
}

func TestLastMarkerWinsNotMaximum(t *testing.T) {
	store := NewMemStore()
	s := startStub(t, store, stubTrainer(t, `echo "PROGRESS:10"
echo "PROGRESS:5"
exit 0`))

	got := waitTerminal(t, store, s.ID)
	if got.Progress != 5 {
		t.Errorf("progress = %d, want 5 (last write wins, no aggregation)", got.Progress)
	}
}

func TestMalformedMarkerIgnored(t *testing.T) {
	store := NewMemStore()
	s := startStub(t, store, stubTrainer(t, `echo "PROGRESS:abc"
exit 0`))

	got := waitTerminal(t, store, s.ID)
	if got.Progress != 0 {
		t.Errorf("progress = %d after malformed marker, want 0", got.Progress)
	}
	if got.Status != models.SessionStatusCompleted {
		t.Errorf("status = %q, want completed", got.Status)
	}
}

func TestStderrDoesNotAffectSession(t *testing.T) {
	store := NewMemStore()
	s := startStub(t, store, stubTrainer(t, `echo "PROGRESS:99" 1>&2
exit 0`))

	got := waitTerminal(t, store, s.ID)
	if got.Progress != 0 {
		t.Errorf("progress = %d from stderr output, want 0", got.Progress)
	}
	if got.Status != models.SessionStatusCompleted {
		t.Errorf("status = %q, want completed", got.Status)
	}
}

func TestSpawnFailureFailsWithoutError(t *testing.T) {
	store := NewMemStore()

	// Resolver points at a directory with no trainer scripts at all.
	s := startStub(t, store, filepath.Join(t.TempDir(), "nonexistent"))

	if s.Status != models.SessionStatusRunning {
		t.Errorf("status = %q on return, want running even when spawn will fail", s.Status)
	}

	got := waitTerminal(t, store, s.ID)
	if got.Status != models.SessionStatusFailed {
		t.Errorf("status = %q, want failed", got.Status)
	}
	if got.CompletedAt == nil {
		t.Error("completedAt not set for spawn failure")
	}
}

type captureNotifier struct {
	ch chan *models.TrainingSession
}

func (c *captureNotifier) SessionFinished(s *models.TrainingSession) {
	c.ch <- s
}

func TestNotifierCalledOnTerminalState(t *testing.T) {
	store := NewMemStore()
	n := &captureNotifier{ch: make(chan *models.TrainingSession, 1)}

	s := startStub(t, store, stubTrainer(t, `echo "PROGRESS:100"
exit 0`), WithNotifier(n))

	select {
	case got := <-n.ch:
		if got.ID != s.ID {
			t.Errorf("notified session %s, want %s", got.ID, s.ID)
		}
		if got.Status != models.SessionStatusCompleted {
			t.Errorf("notified status %q, want completed", got.Status)
		}
		if got.Progress != 100 {
			t.Errorf("notified progress %d, want 100", got.Progress)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("notifier never called")
	}
}

func TestProgressFrozenAfterTerminal(t *testing.T) {
	store := NewMemStore()
	s := startStub(t, store, stubTrainer(t, `echo "PROGRESS:80"
exit 0`))

	got := waitTerminal(t, store, s.ID)
	progress := got.Progress
	completedAt := got.CompletedAt

	// Give any stray goroutine a moment; nothing should write afterwards.
	time.Sleep(50 * time.Millisecond)

	again, err := store.FindByID(context.Background(), s.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if again.Progress != progress {
		t.Errorf("progress changed after terminal state: %d -> %d", progress, again.Progress)
	}
	if again.CompletedAt == nil || completedAt == nil || !again.CompletedAt.Equal(*completedAt) {
		t.Error("completedAt changed after terminal state")
	}
}

func TestLongOutputLineStillCarriesProgress(t *testing.T) {
	store := NewMemStore()
	s := startStub(t, store, stubTrainer(t, `head -c 70000 /dev/zero | tr '\0' x
echo ""
head -c 262144 /dev/zero | tr '\0' y
echo ""
echo "PROGRESS:50"
exit 0`))

	got := waitTerminal(t, store, s.ID)
	if got.Status != models.SessionStatusCompleted {
		t.Fatalf("status = %q, want completed", got.Status)
	}
	if got.Progress != 50 {
		t.Errorf("progress = %d, want 50", got.Progress)
	}
}

func TestOversizedOutputLineStillReachesExit(t *testing.T) {
	store := NewMemStore()
	s := startStub(t, store, stubTrainer(t, `head -c 2097600 /dev/zero | tr '\0' x
echo ""
head -c 524288 /dev/zero | tr '\0' y
echo ""
exit 0`))

	got := waitTerminal(t, store, s.ID)
	if got.Status != models.SessionStatusCompleted {
		t.Fatalf("status = %q, want completed", got.Status)
	}
}
