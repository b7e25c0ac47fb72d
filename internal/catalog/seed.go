package catalog

import (
	"time"

	"github.com/epochml/epoch-ml/internal/models"
)

// builtinConfigs is the stock catalog every deployment ships with. IDs are
// stable strings so the frontend can hardcode references to them.
func builtinConfigs() []models.ModelConfig {
	now := time.Now().UTC()
	mk := func(id, name, typ, desc, arch string, p models.ModelDefaults) models.ModelConfig {
		return models.ModelConfig{
			ID:           id,
			Name:         name,
			Type:         typ,
			Description:  desc,
			Architecture: arch,
			Parameters:   p,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
	}

	return []models.ModelConfig{
		mk("1", "Basic RNN", "RNN",
			"A simple recurrent neural network for sequence prediction", "SimpleRNN",
			models.ModelDefaults{InputSize: 100, HiddenSize: 128, OutputSize: 10, Layers: 1, LearningRate: 0.001, Epochs: 10, BatchSize: 32}),
		mk("2", "CNN Image Classifier", "CNN",
			"Convolutional neural network for image classification", "Conv2D",
			models.ModelDefaults{InputSize: 28 * 28, HiddenSize: 128, OutputSize: 10, Layers: 3, LearningRate: 0.001, Epochs: 10, BatchSize: 32}),
		mk("3", "GPT Text Generator", "GPT-2",
			"Generative Pre-trained Transformer for text generation", "Transformer",
			models.ModelDefaults{InputSize: 100, HiddenSize: 768, OutputSize: 50257, Layers: 12, LearningRate: 0.00005, Epochs: 3, BatchSize: 8}),
		mk("4", "BERT Transformer", "BERT",
			"Bidirectional Encoder Representations from Transformers for NLP tasks", "BERT",
			models.ModelDefaults{InputSize: 512, HiddenSize: 768, OutputSize: 30522, Layers: 12, LearningRate: 0.00002, Epochs: 3, BatchSize: 16}),
		mk("5", "Deep Q-Network (DQN)", "DQN",
			"Deep Q-Learning network for decision making tasks", "DQN",
			models.ModelDefaults{InputSize: 4, HiddenSize: 64, OutputSize: 2, LearningRate: 0.001, Timesteps: 10000, BatchSize: 32, Environment: "CartPole-v1"}),
		mk("6", "Proximal Policy Optimization (PPO)", "PPO",
			"Policy gradient method for reinforcement learning", "PPO",
			models.ModelDefaults{InputSize: 4, HiddenSize: 64, OutputSize: 2, LearningRate: 0.0003, Timesteps: 10000, BatchSize: 64, Environment: "CartPole-v1"}),
		mk("7", "Advantage Actor-Critic (A2C)", "A2C",
			"Synchronous implementation of Advantage Actor-Critic", "A2C",
			models.ModelDefaults{InputSize: 4, HiddenSize: 64, OutputSize: 2, LearningRate: 0.0007, Timesteps: 10000, BatchSize: 64, Environment: "CartPole-v1"}),
		mk("8", "Soft Actor-Critic (SAC)", "SAC",
			"Off-policy maximum entropy deep reinforcement learning", "SAC",
			models.ModelDefaults{InputSize: 4, HiddenSize: 64, OutputSize: 2, LearningRate: 0.0003, Timesteps: 10000, BatchSize: 256, Environment: "Pendulum-v1"}),
		mk("9", "Twin Delayed DDPG (TD3)", "TD3",
			"Actor-critic algorithm with twin critics", "TD3",
			models.ModelDefaults{InputSize: 3, HiddenSize: 256, OutputSize: 1, LearningRate: 0.001, Timesteps: 10000, BatchSize: 100, Environment: "Pendulum-v1"}),
		mk("10", "Random Forest Ensemble", "Random Forest",
			"Ensemble method combining multiple decision trees", "RandomForest",
			models.ModelDefaults{InputSize: 10, HiddenSize: 100, OutputSize: 1, LearningRate: 0.01, Epochs: 1, BatchSize: 32}),
	}
}
