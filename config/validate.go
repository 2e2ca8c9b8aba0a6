package config

import "github.com/pkg/errors"

// InferenceTrainer is the trainer name that selects evaluation only.
const InferenceTrainer = "inference"

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if c.ModelName == "" {
		return errors.New("model_name is required")
	}
	if c.TrainerName == "" {
		return errors.New("trainer_name is required")
	}
	if c.TrainerName != InferenceTrainer && c.DatasetName == "" {
		return errors.New("dataset_name is required for training")
	}
	if err := c.Model.validate(); err != nil {
		return errors.Wrap(err, "model")
	}
	if c.NumTrainingSteps < 0 {
		return errors.New("num_training_steps must be non-negative")
	}
	if c.LogSummarySteps < 0 || c.LogEvalSteps < 0 || c.CheckpointSteps < 0 {
		return errors.New("step intervals must be non-negative")
	}
	if c.TrainSubsetSize < 0 {
		return errors.New("train_subset_size must be non-negative")
	}
	if f := c.DatasetConfigs.ValidFraction; f < 0 || f >= 1 {
		return errors.Errorf("dataset_configs.valid_fraction must be in [0, 1), got %v", f)
	}
	if c.Transfer.FreezeLayers < 0 {
		return errors.New("transfer.freeze_layers must be non-negative")
	}
	for _, split := range c.Inference.Splits {
		switch split {
		case "train", "valid", "test":
		default:
			return errors.Errorf("inference.splits: unknown split %q", split)
		}
	}
	return nil
}

func (m *ModelConfig) validate() error {
	if len(m.Patches.Size) != 2 || m.Patches.Size[0] <= 0 || m.Patches.Size[1] <= 0 {
		return errors.Errorf("patches.size must be two positive integers, got %v", m.Patches.Size)
	}
	if len(m.Pool) != 2 || m.Pool[0] <= 0 || m.Pool[1] <= 0 {
		return errors.Errorf("pool must be two positive integers, got %v", m.Pool)
	}
	if m.NumHeads <= 0 || m.NumHeads > 16 {
		return errors.Errorf("num_heads must be between 1 and 16, got %d", m.NumHeads)
	}
	if m.QuantizeBits <= 0 || m.QuantizeBits > 8 {
		return errors.Errorf("quantize_bits must be between 1 and 8, got %d", m.QuantizeBits)
	}
	return nil
}
