package training

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/epochml/epoch-ml/internal/models"
)

type fakeCatalog struct {
	configs map[string]*models.ModelConfig
}

func (f *fakeCatalog) Get(ctx context.Context, id string) (*models.ModelConfig, error) {
	c, ok := f.configs[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return c, nil
}

type fakeLedger struct {
	balances map[uuid.UUID]int
	spent    int
}

var errInsufficient = errors.New("insufficient credits")

func (f *fakeLedger) Spend(ctx context.Context, userID uuid.UUID, amount int) (int, error) {
	bal := f.balances[userID]
	if bal < amount {
		return 0, errInsufficient
	}
	f.balances[userID] = bal - amount
	f.spent += amount
	return bal - amount, nil
}

func newTestService(t *testing.T, catalog *fakeCatalog, ledger *fakeLedger) (*Service, *MemStore) {
	t.Helper()
	store := NewMemStore()
	mgr := NewManager(store, NewResolver(stubTrainer(t, "exit 0")))
	return NewService(mgr, store, catalog, ledger), store
}

func TestServiceStartChargesCost(t *testing.T) {
	owner := uuid.New()
	catalog := &fakeCatalog{configs: map[string]*models.ModelConfig{
		"3": {ID: "3", Name: "GPT Text Generator", Type: "GPT-2"},
	}}
	ledger := &fakeLedger{balances: map[uuid.UUID]int{owner: 100}}
	svc, store := newTestService(t, catalog, ledger)

	res, err := svc.Start(context.Background(), owner, StartTrainingRequest{
		ModelID:    "3",
		DatasetID:  "dataset-1",
		Parameters: json.RawMessage(`{"epochs":5,"learningRate":0.01,"batchSize":16}`),
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	if res.Cost != 20 {
		t.Errorf("cost = %d, want 20 for GPT-2", res.Cost)
	}
	if res.CreditsRemaining != 80 {
		t.Errorf("credits remaining = %d, want 80", res.CreditsRemaining)
	}
	if res.Session.Status != models.SessionStatusRunning {
		t.Errorf("session status = %q, want running", res.Session.Status)
	}

	waitTerminal(t, store, res.Session.ID)
}

func TestServiceStartInsufficientCredits(t *testing.T) {
	owner := uuid.New()
	catalog := &fakeCatalog{configs: map[string]*models.ModelConfig{
		"big": {ID: "big", Name: "Huge", Type: "GPT-4"},
	}}
	ledger := &fakeLedger{balances: map[uuid.UUID]int{owner: 10}}
	svc, _ := newTestService(t, catalog, ledger)

	_, err := svc.Start(context.Background(), owner, StartTrainingRequest{ModelID: "big"})
	if !errors.Is(err, errInsufficient) {
		t.Errorf("Start = %v, want insufficient-credits error", err)
	}
	if ledger.spent != 0 {
		t.Errorf("ledger spent %d on a rejected start", ledger.spent)
	}
}

func TestServiceStartUnknownModel(t *testing.T) {
	svc, _ := newTestService(t, &fakeCatalog{configs: map[string]*models.ModelConfig{}},
		&fakeLedger{balances: map[uuid.UUID]int{}})

	_, err := svc.Start(context.Background(), uuid.New(), StartTrainingRequest{ModelID: "nope"})
	if !errors.Is(err, ErrModelNotFound) {
		t.Errorf("Start = %v, want ErrModelNotFound", err)
	}
}

func TestServiceStartForeignModel(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()
	catalog := &fakeCatalog{configs: map[string]*models.ModelConfig{
		"mine": {ID: "mine", Name: "Custom", Type: "CNN", CreatedBy: &owner},
	}}
	ledger := &fakeLedger{balances: map[uuid.UUID]int{stranger: 100}}
	svc, _ := newTestService(t, catalog, ledger)

	_, err := svc.Start(context.Background(), stranger, StartTrainingRequest{ModelID: "mine"})
	if !errors.Is(err, ErrNotOwner) {
		t.Errorf("Start = %v, want ErrNotOwner", err)
	}
}

func TestServiceHistoryJoinsCatalog(t *testing.T) {
	owner := uuid.New()
	catalog := &fakeCatalog{configs: map[string]*models.ModelConfig{
		"2": {ID: "2", Name: "CNN Image Classifier", Type: "CNN"},
	}}
	ledger := &fakeLedger{balances: map[uuid.UUID]int{owner: 100}}
	svc, store := newTestService(t, catalog, ledger)

	res, err := svc.Start(context.Background(), owner, StartTrainingRequest{ModelID: "2"})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	waitTerminal(t, store, res.Session.ID)

	history, err := svc.History(context.Background(), owner)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("history has %d entries, want 1", len(history))
	}
	if history[0].ModelName != "CNN Image Classifier" || history[0].ModelType != "CNN" {
		t.Errorf("history entry = %q/%q, want catalog details", history[0].ModelName, history[0].ModelType)
	}
}

func TestValidateParameters(t *testing.T) {
	valid := models.TrainingParameters{Epochs: 5, LearningRate: 0.01, BatchSize: 16}

	tests := []struct {
		name    string
		mutate  func(*models.TrainingParameters)
		wantErr bool
	}{
		{name: "valid", mutate: func(p *models.TrainingParameters) {}, wantErr: false},
		{name: "epochs too low", mutate: func(p *models.TrainingParameters) { p.Epochs = 0 }, wantErr: true},
		{name: "epochs too high", mutate: func(p *models.TrainingParameters) { p.Epochs = 1001 }, wantErr: true},
		{name: "learning rate too low", mutate: func(p *models.TrainingParameters) { p.LearningRate = 0.00001 }, wantErr: true},
		{name: "learning rate too high", mutate: func(p *models.TrainingParameters) { p.LearningRate = 1.5 }, wantErr: true},
		{name: "batch size too low", mutate: func(p *models.TrainingParameters) { p.BatchSize = 0 }, wantErr: true},
		{name: "batch size too high", mutate: func(p *models.TrainingParameters) { p.BatchSize = 513 }, wantErr: true},
		{name: "boundary values", mutate: func(p *models.TrainingParameters) {
			p.Epochs = 1000
			p.LearningRate = 1
			p.BatchSize = 512
		}, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			err := ValidateParameters(p)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateParameters(%+v) = %v, wantErr %v", p, err, tt.wantErr)
			}
		})
	}
}

func TestCostFor(t *testing.T) {
	tests := []struct {
		modelType string
		want      int
	}{
		{"GPT-4", 100},
		{"BERT", 50},
		{"PPO", 30},
		{"DQN", 20},
		{"CNN", 10},
		{"Random Forest", 10},
		{"SomethingNew", 10},
	}
	for _, tt := range tests {
		if got := CostFor(tt.modelType); got != tt.want {
			t.Errorf("CostFor(%q) = %d, want %d", tt.modelType, got, tt.want)
		}
	}
}
