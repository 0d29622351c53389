package model

import "time"

// Config holds the full pipeline configuration
type Config struct {
	Research  ResearchConfig  `yaml:"research" mapstructure:"research"`
	Critic    CriticConfig    `yaml:"critic" mapstructure:"critic"`
	Storyline StorylineConfig `yaml:"storyline" mapstructure:"storyline"`
	LLM       LLMConfig       `yaml:"llm" mapstructure:"llm"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
}

// ResearchConfig tunes the research engine
type ResearchConfig struct {
	Subtopics         int           `yaml:"subtopics" mapstructure:"subtopics"`                     // Subtopic count for topic decomposition (bounded 3-6)
	ConfidenceFloor   float64       `yaml:"confidence_floor" mapstructure:"confidence_floor"`       // Findings below this are insufficient grounding
	MaxRetries        int           `yaml:"max_retries" mapstructure:"max_retries"`                 // Fetch attempts before ResearchUnavailable
	RetryBaseWait     time.Duration `yaml:"retry_base_wait" mapstructure:"retry_base_wait"`         // Base wait for exponential backoff
	Workers           int           `yaml:"workers" mapstructure:"workers"`                         // Concurrent research calls
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"` // Provider rate limit
	Burst             int           `yaml:"burst" mapstructure:"burst"`
}

// CriticConfig tunes the consistency engine
type CriticConfig struct {
	Tolerance    float64 `yaml:"tolerance" mapstructure:"tolerance"`         // Relative numeric tolerance (0.01 = 1%)
	MaxRevisions int     `yaml:"max_revisions" mapstructure:"max_revisions"` // Auto re-synthesis budget per slide
}

// StorylineConfig tunes outline generation
type StorylineConfig struct {
	TargetSlides int    `yaml:"target_slides" mapstructure:"target_slides"`
	Audience     string `yaml:"audience" mapstructure:"audience"` // Target audience for framework selection
}

// LLMConfig configures the grounded-search provider
type LLMConfig struct {
	Provider   string `yaml:"provider" mapstructure:"provider"` // "openai" or "" (must be supplied externally)
	Model      string `yaml:"model" mapstructure:"model"`
	APIKey     string `yaml:"-" mapstructure:"-"` // From environment, never from file
	BaseURL    string `yaml:"base_url" mapstructure:"base_url"`
	Timeout    int    `yaml:"timeout" mapstructure:"timeout"` // Seconds per request
	MaxTokens  int    `yaml:"max_tokens" mapstructure:"max_tokens"`
	HTTPProxy  string `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy    string `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// OutputConfig controls artifact and snapshot output
type OutputConfig struct {
	Dir         string `yaml:"dir" mapstructure:"dir"`                   // Artifact output directory
	SnapshotDir string `yaml:"snapshot_dir" mapstructure:"snapshot_dir"` // Orchestrator snapshot directory
	Verbose     bool   `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns the standard configuration
func DefaultConfig() *Config {
	return &Config{
		Research: ResearchConfig{
			Subtopics:         5,
			ConfidenceFloor:   0.4,
			MaxRetries:        3,
			RetryBaseWait:     time.Second,
			Workers:           3,
			RequestsPerSecond: 2,
			Burst:             4,
		},
		Critic: CriticConfig{
			Tolerance:    0.01,
			MaxRevisions: 2,
		},
		Storyline: StorylineConfig{
			TargetSlides: 12,
			Audience:     "business executives",
		},
		LLM: LLMConfig{
			Provider:  "openai",
			Timeout:   30,
			MaxTokens: 1500,
		},
		Output: OutputConfig{
			Dir:         "decks",
			SnapshotDir: ".deckforge",
		},
	}
}
