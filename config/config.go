package config

// Config is the experiment configuration. Unknown keys are kept in Extra so
// trainers can read parameters this package doesn't know about.
type Config struct {
	ModelName   string `yaml:"model_name"`
	TrainerName string `yaml:"trainer_name"`
	DatasetName string `yaml:"dataset_name"`

	DatasetConfigs DatasetConfigs `yaml:"dataset_configs"`
	Model          ModelConfig    `yaml:"model"`
	Learning       LearningConfig `yaml:"learning"`

	// NumTrainingSteps is the number of hashtron retraining attempts
	NumTrainingSteps int `yaml:"num_training_steps"`
	LogSummarySteps  int `yaml:"log_summary_steps"`
	LogEvalSteps     int `yaml:"log_eval_steps"`
	CheckpointSteps  int `yaml:"checkpoint_steps"`

	MaxCheckpointsToKeep int `yaml:"max_checkpoints_to_keep"`

	// TrainSubsetSize caps the number of training examples tallied per step, 0 means all
	TrainSubsetSize int `yaml:"train_subset_size"`

	InitFrom  InitFromConfig  `yaml:"init_from"`
	Transfer  TransferConfig  `yaml:"transfer"`
	Inference InferenceConfig `yaml:"inference"`

	Extra map[string]any `yaml:",inline"`
}

// DatasetConfigs is passed to the dataset builder, possibly over the
// dataset service, hence the json tags.
type DatasetConfigs struct {
	TrainPath string `yaml:"train_path" json:"train_path,omitempty"`
	EvalPath  string `yaml:"eval_path" json:"eval_path,omitempty"`
	TestPath  string `yaml:"test_path" json:"test_path,omitempty"`

	// ValidFraction of the training examples become the valid split when EvalPath is empty
	ValidFraction float64 `yaml:"valid_fraction" json:"valid_fraction,omitempty"`

	// MaxCoverage clips coverage values before they are scaled to a byte
	MaxCoverage int `yaml:"max_coverage" json:"max_coverage,omitempty"`

	Synthetic *SyntheticConfig `yaml:"synthetic" json:"synthetic,omitempty"`
}

// SyntheticConfig generates simulated deletion pileups instead of reading files
type SyntheticConfig struct {
	NumTrain int     `yaml:"num_train" json:"num_train"`
	NumEval  int     `yaml:"num_eval" json:"num_eval"`
	NumTest  int     `yaml:"num_test" json:"num_test"`
	Width    int     `yaml:"width" json:"width"`
	Height   int     `yaml:"height" json:"height"`
	Depth    int     `yaml:"depth" json:"depth"`
	Noise    float64 `yaml:"noise" json:"noise"`
}

type PatchesConfig struct {
	Size []int `yaml:"size"`
}

type ModelConfig struct {
	Patches      PatchesConfig `yaml:"patches"`
	NumHeads     int           `yaml:"num_heads"`
	Premodulo    uint32        `yaml:"premodulo"`
	QuantizeBits int           `yaml:"quantize_bits"`

	// Pool is the patch grid pooling window of the topological model
	Pool []int `yaml:"pool"`
}

// LearningConfig tunes the hashtron solver
type LearningConfig struct {
	Threads       int    `yaml:"threads"`
	DeadlineMs    int    `yaml:"deadline_ms"`
	DeadlineRetry int    `yaml:"deadline_retry"`
	MaxAttempts   int    `yaml:"max_attempts"`
	FinalSize     int    `yaml:"final_size"`
	Factor        uint32 `yaml:"factor"`
	Numerator     uint32 `yaml:"numerator"`
	Denominator   uint32 `yaml:"denominator"`
	Subtractor    uint32 `yaml:"subtractor"`
}

type InitFromConfig struct {
	CheckpointPath string `yaml:"checkpoint_path"`
	// Step selects a checkpoint, 0 means the newest one
	Step int `yaml:"step"`
}

type TransferConfig struct {
	// FreezeLayers is the number of lowest hashtron layers left untouched
	FreezeLayers int  `yaml:"freeze_layers"`
	ResetHead    bool `yaml:"reset_head"`
}

type InferenceConfig struct {
	Splits []string `yaml:"splits"`
}

// Get returns an extra parameter
func (c *Config) Get(key string) (any, bool) {
	v, ok := c.Extra[key]
	return v, ok
}
