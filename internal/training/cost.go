package training

// baseTrainingCost applies to model types without an explicit entry.
const baseTrainingCost = 10

var trainingCosts = map[string]int{
	"GPT-4": 100,

	"GPT-3.5": 50,
	"BERT":    50,
	"T5":      50,

	"GPT-3":     30,
	"ResNet":    30,
	"Inception": 30,
	"PPO":       30,
	"SAC":       30,

	"GPT-2": 20,
	"VGG":   20,
	"DQN":   20,
	"A2C":   20,
	"DDPG":  20,
	"TD3":   20,

	"LSTM":              10,
	"GRU":               10,
	"CNN":               10,
	"RNN":               10,
	"Random Forest":     10,
	"Gradient Boosting": 10,
	"XGBoost":           10,
	"LightGBM":          10,
}

// CostFor returns the credit cost of one training session for a model type.
func CostFor(modelType string) int {
	if c, ok := trainingCosts[modelType]; ok {
		return c
	}
	return baseTrainingCost
}

// Pricing returns a copy of the per-model-type cost table.
func Pricing() map[string]int {
	out := make(map[string]int, len(trainingCosts))
	for k, v := range trainingCosts {
		out[k] = v
	}
	return out
}
