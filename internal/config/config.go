package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr          string        `yaml:"addr"`
	JWTSecret     string        `yaml:"jwt_secret"`
	APITimeout    time.Duration `yaml:"timeout"`
	DatabasePath  string        `yaml:"database_path"`
	TokenDuration time.Duration `yaml:"token_duration"`
	Engine        EngineConfig  `yaml:"engine"`
	Ollama        OllamaConfig  `yaml:"ollama"`
	Timers        TimerConfig   `yaml:"timers"`
	Workers       int           `yaml:"workers"`
}

type EngineConfig struct {
	Model   string        `yaml:"model"`
	Timeout time.Duration `yaml:"timeout"`
}

type OllamaConfig struct {
	BaseURL                 string        `yaml:"base_url"`
	Timeout                 time.Duration `yaml:"timeout"`
	Retries                 int           `yaml:"retries"`
	Backoff                 time.Duration `yaml:"backoff"`
	CircuitFailureThreshold int           `yaml:"circuit_failure_threshold"`
	CircuitReset            time.Duration `yaml:"circuit_reset"`
}

// TimerConfig sets the per-question countdown by difficulty.
type TimerConfig struct {
	Easy   time.Duration `yaml:"easy"`
	Medium time.Duration `yaml:"medium"`
	Hard   time.Duration `yaml:"hard"`
}

func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Addr:          getEnv("INTERVIEWD_ADDR", ":8080"),
		JWTSecret:     getEnv("INTERVIEWD_JWT_SECRET", "supersecretkey"),
		APITimeout:    15 * time.Second,
		DatabasePath:  getEnv("INTERVIEWD_DATABASE_PATH", "interviewd.db"),
		TokenDuration: 1 * time.Hour,
		Engine: EngineConfig{
			Model: getEnv("INTERVIEWD_MODEL", "llama3.1"),
		},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate checks required fields and fills defaults for anything left unset.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	if c.JWTSecret == "supersecretkey" && getEnv("INTERVIEWD_ENV", "development") != "development" {
		return fmt.Errorf("jwt_secret must be set outside development")
	}
	if c.Engine.Model == "" {
		return fmt.Errorf("engine.model is required")
	}
	if c.Engine.Timeout <= 0 {
		c.Engine.Timeout = 30 * time.Second
	}
	if c.Ollama.BaseURL == "" {
		c.Ollama.BaseURL = getEnv("OLLAMA_HOST", "http://localhost:11434")
	}
	if c.Ollama.Timeout <= 0 {
		c.Ollama.Timeout = 60 * time.Second
	}
	if c.Ollama.Retries == 0 {
		c.Ollama.Retries = 2
	}
	if c.Ollama.Backoff <= 0 {
		c.Ollama.Backoff = 500 * time.Millisecond
	}
	if c.Ollama.CircuitFailureThreshold <= 0 {
		c.Ollama.CircuitFailureThreshold = 5
	}
	if c.Ollama.CircuitReset <= 0 {
		c.Ollama.CircuitReset = 30 * time.Second
	}
	if c.Timers.Easy <= 0 {
		c.Timers.Easy = 20 * time.Second
	}
	if c.Timers.Medium <= 0 {
		c.Timers.Medium = 60 * time.Second
	}
	if c.Timers.Hard <= 0 {
		c.Timers.Hard = 120 * time.Second
	}
	if c.Workers <= 0 {
		c.Workers = 2
	}
	return nil
}

// Duration returns the countdown length for a question difficulty.
func (t TimerConfig) Duration(d string) time.Duration {
	switch d {
	case "Easy":
		return t.Easy
	case "Medium":
		return t.Medium
	default:
		return t.Hard
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}
