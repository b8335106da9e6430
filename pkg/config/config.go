package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Console struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"console"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Deriv struct {
		WebSocketURL string        `yaml:"websocket_url"`
		AppID        string        `yaml:"app_id"`
		Token        string        `yaml:"token"` // opaque, optional; absent means public data
		Symbols      []string      `yaml:"symbols"`
		PingInterval time.Duration `yaml:"ping_interval"`
		DialTimeout  time.Duration `yaml:"dial_timeout"`
	} `yaml:"deriv"`
	Store struct {
		MaxPoints int `yaml:"max_points"`
	} `yaml:"store"`
	Ingest struct {
		MaxRPS int `yaml:"max_rps"` // per-symbol throttle on the live feed
	} `yaml:"ingest"`
	Fetch struct {
		Burst        int     `yaml:"burst"`          // snapshot fetches allowed back to back per instrument
		RefillPerSec float64 `yaml:"refill_per_sec"` // token refill rate
	} `yaml:"fetch"`
	Aliases map[string]string `yaml:"aliases"` // user pair name -> provider symbol
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("DERIV_TOKEN"); v != "" {
		c.Deriv.Token = v
	}
	if v := os.Getenv("DERIV_APP_ID"); v != "" {
		c.Deriv.AppID = v
	}
	if v := os.Getenv("SYMBOLS"); v != "" {
		c.Deriv.Symbols = strings.Split(v, ",")
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
	if c.Store.MaxPoints == 0 {
		c.Store.MaxPoints = 500
	}
	if c.Ingest.MaxRPS == 0 {
		c.Ingest.MaxRPS = 50
	}
	if c.Fetch.Burst == 0 {
		c.Fetch.Burst = 2
	}
	if c.Fetch.RefillPerSec == 0 {
		c.Fetch.RefillPerSec = 0.2
	}
	if c.Deriv.PingInterval == 0 {
		c.Deriv.PingInterval = 30 * time.Second
	}
	if c.Deriv.DialTimeout == 0 {
		c.Deriv.DialTimeout = 10 * time.Second
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Deriv.WebSocketURL == "" {
		return fmt.Errorf("deriv.websocket_url is required")
	}
	if c.Deriv.AppID == "" {
		return fmt.Errorf("deriv.app_id is required")
	}
	if c.Store.MaxPoints < 0 {
		return fmt.Errorf("store.max_points must not be negative")
	}
	return nil
}
