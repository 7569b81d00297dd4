package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"hn-digest/models"
)

const ENV_FILE = ".env"
const CONFIG_FILE = "config.yaml"

// AppConfig is the full application configuration loaded from config.yaml.
// The pipeline core never reads this directly; cmd wires the relevant
// sections into explicit value objects.
type AppConfig struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Listing    ListingConfig    `yaml:"listing"`
	Extractor  ExtractorConfig  `yaml:"extractor"`
	Summarizer SummarizerConfig `yaml:"summarizer"`
	Scoring    ScoringConfig    `yaml:"scoring"`
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	Profile    models.Profile   `yaml:"profile"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// ListingConfig selects the story listing source.
// Source is "api" (HackerNews Firebase API) or "rss" (hnrss.org feeds).
type ListingConfig struct {
	Source  string `yaml:"source"`
	BaseURL string `yaml:"base_url"`
	Timeout int    `yaml:"timeout_seconds"`
}

type ExtractorConfig struct {
	Timeout         int  `yaml:"timeout_seconds"`
	MaxContentChars int  `yaml:"max_content_chars"`
	UseRenderer     bool `yaml:"use_renderer"`
}

type SummarizerConfig struct {
	Model           string `yaml:"model"`
	BatchSize       int    `yaml:"batch_size"`
	MaxContentChars int    `yaml:"max_content_chars"`
}

type ScoringConfig struct {
	RelevanceWeight  float64 `yaml:"relevance_weight"`
	PopularityWeight float64 `yaml:"popularity_weight"`
	PopularityCap    float64 `yaml:"popularity_cap"`
}

type PipelineConfig struct {
	MaxConcurrentExtractions int `yaml:"max_concurrent_extractions"`
}

var config *AppConfig

// InitApp loads the .env file and config.yaml from the nearest ancestor
// directory containing config.yaml.
func InitApp() {
	godotenv.Load(filepath.Join(GetBasePath(), ENV_FILE))

	data, err := os.ReadFile(filepath.Join(GetBasePath(), CONFIG_FILE))
	if err != nil {
		panic(err)
	}

	var c AppConfig
	if err := yaml.Unmarshal(data, &c); err != nil {
		panic(err)
	}
	c.applyDefaults()
	config = &c
}

func GetConfig() AppConfig {
	if config == nil {
		InitApp()
	}
	return *config
}

func (c *AppConfig) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Listing.Source == "" {
		c.Listing.Source = "api"
	}
	if c.Listing.Timeout <= 0 {
		c.Listing.Timeout = 30
	}
	if c.Extractor.Timeout <= 0 {
		c.Extractor.Timeout = 15
	}
	if c.Extractor.MaxContentChars <= 0 {
		c.Extractor.MaxContentChars = 8000
	}
	if c.Summarizer.Model == "" {
		c.Summarizer.Model = "gemini-2.0-flash"
	}
	if c.Summarizer.BatchSize <= 0 {
		c.Summarizer.BatchSize = 5
	}
	if c.Summarizer.MaxContentChars <= 0 {
		c.Summarizer.MaxContentChars = 8000
	}
	if c.Scoring.RelevanceWeight == 0 && c.Scoring.PopularityWeight == 0 {
		c.Scoring.RelevanceWeight = 0.7
		c.Scoring.PopularityWeight = 0.3
	}
	if c.Scoring.PopularityCap <= 0 {
		c.Scoring.PopularityCap = 500
	}
	if c.Pipeline.MaxConcurrentExtractions <= 0 {
		c.Pipeline.MaxConcurrentExtractions = 10
	}
}

// GetBasePath walks up from the working directory looking for config.yaml,
// so commands work from any subdirectory of the repository.
func GetBasePath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		cfgPath := filepath.Join(dir, CONFIG_FILE)
		if info, err := os.Stat(cfgPath); err == nil && !info.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
