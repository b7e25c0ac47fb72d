package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestBuiltinCatalog(t *testing.T) {
	svc := NewService(nil, nil)
	ctx := context.Background()

	tests := []struct {
		id       string
		wantName string
		wantType string
	}{
		{"1", "Basic RNN", "RNN"},
		{"2", "CNN Image Classifier", "CNN"},
		{"3", "GPT Text Generator", "GPT-2"},
		{"5", "Deep Q-Network (DQN)", "DQN"},
		{"10", "Random Forest Ensemble", "Random Forest"},
	}

	for _, tt := range tests {
		m, err := svc.Get(ctx, tt.id)
		if err != nil {
			t.Fatalf("Get(%q): %v", tt.id, err)
		}
		if m.Name != tt.wantName || m.Type != tt.wantType {
			t.Errorf("Get(%q) = %q/%q, want %q/%q", tt.id, m.Name, m.Type, tt.wantName, tt.wantType)
		}
		if m.CreatedBy != nil {
			t.Errorf("builtin %q has an owner", tt.id)
		}
	}
}

func TestBuiltinListOrder(t *testing.T) {
	svc := NewService(nil, nil)

	list, err := svc.List(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 10 {
		t.Fatalf("List returned %d builtins, want 10", len(list))
	}
	for i, m := range list {
		if m.ID != listIDs[i] {
			t.Errorf("list[%d].ID = %q, want %q", i, m.ID, listIDs[i])
		}
	}
}

var listIDs = []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}

func TestGetUnknownModel(t *testing.T) {
	svc := NewService(nil, nil)

	_, err := svc.Get(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(nope) = %v, want ErrNotFound", err)
	}
}
