package config

// Config holds ragmeta configuration.
// Stored at: {home}/config.yaml
type Config struct {
	OpenAI    OpenAICfg    `mapstructure:"openai" yaml:"openai"`
	Partition PartitionCfg `mapstructure:"partition" yaml:"partition"`
	Describe  DescribeCfg  `mapstructure:"describe" yaml:"describe"`
	Dataset   DatasetCfg   `mapstructure:"dataset" yaml:"dataset"`
	Team      TeamCfg      `mapstructure:"team" yaml:"team"`
}

// OpenAICfg configures the OpenAI-backed stages.
type OpenAICfg struct {
	APIKey                string `mapstructure:"api_key" yaml:"api_key"` // Supports ${ENV_VAR} syntax
	BaseURL               string `mapstructure:"base_url" yaml:"base_url"`
	BatchModel            string `mapstructure:"batch_model" yaml:"batch_model"`
	BatchCompletionTokens int    `mapstructure:"batch_completion_tokens" yaml:"batch_completion_tokens"`
	DescribeModel         string `mapstructure:"describe_model" yaml:"describe_model"`
	AnswerModel           string `mapstructure:"answer_model" yaml:"answer_model"`
	TimeoutSeconds        int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// PartitionCfg configures the document partitioning service.
type PartitionCfg struct {
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`
	Strategy string `mapstructure:"strategy" yaml:"strategy"`
}

// DescribeCfg configures the image/table description stage.
type DescribeCfg struct {
	MaxConcurrent     int `mapstructure:"max_concurrent" yaml:"max_concurrent"`
	MaxRetries        int `mapstructure:"max_retries" yaml:"max_retries"`
	RetryDelaySeconds int `mapstructure:"retry_delay_seconds" yaml:"retry_delay_seconds"`
}

// DatasetCfg points at the challenge dataset inputs.
type DatasetCfg struct {
	Archive string `mapstructure:"archive" yaml:"archive"` // Zip of rounds, each holding PDFs
	Subset  string `mapstructure:"subset" yaml:"subset"`   // subset.json listing target documents
}

// TeamCfg identifies the team on answer submissions.
type TeamCfg struct {
	Email          string `mapstructure:"email" yaml:"email"`
	SubmissionName string `mapstructure:"submission_name" yaml:"submission_name"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		OpenAI: OpenAICfg{
			APIKey:                "${OPENAI_API_KEY}",
			BatchModel:            "gpt-4o-mini",
			BatchCompletionTokens: 6000,
			DescribeModel:         "gpt-4o-mini",
			AnswerModel:           "gpt-4o-mini",
			TimeoutSeconds:        500,
		},
		Partition: PartitionCfg{
			Endpoint: "http://localhost:8000/general/v0/general",
			Strategy: "hi_res",
		},
		Describe: DescribeCfg{
			MaxConcurrent:     5,
			MaxRetries:        3,
			RetryDelaySeconds: 2,
		},
		Dataset: DatasetCfg{
			Archive: "data.zip",
			Subset:  "subset.json",
		},
		Team: TeamCfg{
			SubmissionName: "ragmeta",
		},
	}
}
