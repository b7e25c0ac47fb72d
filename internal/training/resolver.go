package training

import (
	"path/filepath"
	"strings"
)

// Trainer script names under the configured scripts directory. One script
// per model family plus a generic fallback.
const (
	scriptRNN      = "train_rnn.py"
	scriptCNN      = "train_cnn.py"
	scriptGPT      = "train_gpt.py"
	scriptRL       = "train_rl_model.py"
	scriptEnsemble = "train_ensemble.py"
	scriptGeneric  = "train_model.py"
)

// trainerPatterns maps substrings of a model reference to the trainer
// script for that family. The list is ordered and the first match wins;
// numeric catalog IDs come after the named tokens so "10" resolves to the
// ensemble family before "1" can claim it for the recurrent one.
var trainerPatterns = []struct {
	token  string
	script string
}{
	{"RNN", scriptRNN},
	{"LSTM", scriptRNN},
	{"GRU", scriptRNN},
	{"CNN", scriptCNN},
	{"Conv", scriptCNN},
	{"GPT", scriptGPT},
	{"BERT", scriptGPT},
	{"Transformer", scriptGPT},
	{"T5", scriptGPT},
	{"DQN", scriptRL},
	{"PPO", scriptRL},
	{"A2C", scriptRL},
	{"SAC", scriptRL},
	{"TD3", scriptRL},
	{"Reinforcement", scriptRL},
	{"RL", scriptRL},
	{"Forest", scriptEnsemble},
	{"Boost", scriptEnsemble},
	{"Ensemble", scriptEnsemble},
	{"10", scriptEnsemble},
	{"1", scriptRNN},
	{"2", scriptCNN},
	{"3", scriptGPT},
	{"4", scriptGPT},
	{"5", scriptRL},
	{"6", scriptRL},
	{"7", scriptRL},
	{"8", scriptRL},
	{"9", scriptRL},
}

// Resolver picks the trainer program for a model reference.
type Resolver struct {
	dir string
}

func NewResolver(scriptsDir string) *Resolver {
	return &Resolver{dir: scriptsDir}
}

// Resolve returns the trainer program path for modelRef. Unrecognized
// references fall back to the generic trainer; a miss is not an error.
func (r *Resolver) Resolve(modelRef string) string {
	for _, p := range trainerPatterns {
		if strings.Contains(modelRef, p.token) {
			return filepath.Join(r.dir, p.script)
		}
	}
	return filepath.Join(r.dir, scriptGeneric)
}
