package serve

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config controls the wire vocabulary of a Server.
type Config struct {
	// SuccessToken is written after a request whose report was produced.
	SuccessToken string `yaml:"success_token"`

	// FailureToken is written after a request that failed at any step.
	FailureToken string `yaml:"failure_token"`

	// Terminator is the request line that ends the loop with no response.
	Terminator string `yaml:"terminator"`

	// ReadyFile, when set, is written once the server starts accepting
	// requests, for harnesses that wait on a flag file.
	ReadyFile string `yaml:"ready_file"`
}

// DefaultConfig returns the stock vocabulary: OK, KO, end.
func DefaultConfig() Config {
	return Config{
		SuccessToken: "OK",
		FailureToken: "KO",
		Terminator:   "end",
	}
}

// LoadConfig reads a YAML config file. Keys absent from the file keep
// their default values.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	cfg.fillDefaults()
	return cfg, nil
}

// fillDefaults restores any token emptied by configuration; an empty
// token or terminator cannot be spoken on the wire.
func (c *Config) fillDefaults() {
	d := DefaultConfig()
	if c.SuccessToken == "" {
		c.SuccessToken = d.SuccessToken
	}
	if c.FailureToken == "" {
		c.FailureToken = d.FailureToken
	}
	if c.Terminator == "" {
		c.Terminator = d.Terminator
	}
}
