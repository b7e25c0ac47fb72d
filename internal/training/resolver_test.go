package training

import (
	"path/filepath"
	"testing"
)

func TestResolverFamilyRouting(t *testing.T) {
	r := NewResolver("training")

	tests := []struct {
		name     string
		modelRef string
		want     string
	}{
		{name: "CNN token", modelRef: "CNN-model-2", want: scriptCNN},
		{name: "numeric convolutional id", modelRef: "2", want: scriptCNN},
		{name: "numeric recurrent id", modelRef: "1", want: scriptRNN},
		{name: "LSTM token", modelRef: "my LSTM forecaster", want: scriptRNN},
		{name: "GRU token", modelRef: "GRU", want: scriptRNN},
		{name: "GPT token", modelRef: "GPT Text Generator", want: scriptGPT},
		{name: "BERT token", modelRef: "BERT Transformer", want: scriptGPT},
		{name: "DQN token", modelRef: "Deep Q-Network (DQN)", want: scriptRL},
		{name: "PPO token", modelRef: "PPO", want: scriptRL},
		{name: "numeric rl id", modelRef: "7", want: scriptRL},
		{name: "forest token", modelRef: "Random Forest Ensemble", want: scriptEnsemble},
		{name: "ensemble id beats recurrent id", modelRef: "10", want: scriptEnsemble},
		{name: "unknown falls back to generic", modelRef: "xyz-unknown", want: scriptGeneric},
		{name: "empty falls back to generic", modelRef: "", want: scriptGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Resolve(tt.modelRef)
			want := filepath.Join("training", tt.want)
			if got != want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.modelRef, got, want)
			}
		})
	}
}

func TestResolverFirstMatchWins(t *testing.T) {
	r := NewResolver("")

	// "CNN-GPT-hybrid" carries two family tokens; the pattern list is
	// ordered and CNN comes first.
	if got := r.Resolve("CNN-GPT-hybrid"); got != scriptCNN {
		t.Errorf("Resolve(CNN-GPT-hybrid) = %q, want %q", got, scriptCNN)
	}
}
