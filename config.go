package tutorkb

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all tutorkb configuration.
type Config struct {
	DBPath       string       `yaml:"db_path"`
	KnowledgeDir string       `yaml:"knowledge_dir"`
	Search       SearchConfig `yaml:"search"`
}

// SearchConfig controls query behaviour.
type SearchConfig struct {
	// Limit caps single-kind full-text searches.
	Limit int `yaml:"limit"`
	// CombinedLimit caps each kind in a combined search.
	CombinedLimit int `yaml:"combined_limit"`
	// LogSearches appends combined searches to the search log.
	LogSearches *bool `yaml:"log_searches"`
}

func (c *Config) defaults() {
	if c.DBPath == "" {
		c.DBPath = "tutorkb.db"
	}
	if c.KnowledgeDir == "" {
		c.KnowledgeDir = "knowledge"
	}
	if c.Search.Limit <= 0 {
		c.Search.Limit = 10
	}
	if c.Search.CombinedLimit <= 0 {
		c.Search.CombinedLimit = 5
	}
	if c.Search.LogSearches == nil {
		on := true
		c.Search.LogSearches = &on
	}
}

// LoadConfigFile reads a YAML config file.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
