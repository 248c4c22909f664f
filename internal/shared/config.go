package shared

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Addr            string   `yaml:"addr"`             // ":8080"
		AllowedOrigins  []string `yaml:"allowed_origins"`  // ["*"]
		SessionDuration int      `yaml:"session_duration"` // minutes
	} `yaml:"server"`

	Database struct {
		Driver string `yaml:"driver"` // "sqlite" (default)
		DSN    string `yaml:"dsn"`    // "./rerender.db"
	} `yaml:"database"`

	Analysis struct {
		MaxInputBytes int    `yaml:"max_input_bytes"` // cap on analyzed fragments
		RulePack      string `yaml:"rule_pack"`       // optional YAML pack path
	} `yaml:"analysis"`

	Reporting struct {
		OutDir string `yaml:"out_dir"` // "./reports"
	} `yaml:"reporting"`

	Logging struct {
		Format string `yaml:"format"` // "json"|"text"
		Level  string `yaml:"level"`  // "info"|"debug"|"warn"|"error"
	} `yaml:"logging"`
}

func DefaultConfig() Config {
	var c Config
	c.Server.Addr = ":8080"
	c.Server.AllowedOrigins = []string{"*"}
	c.Server.SessionDuration = 12 * 60
	c.Database.Driver = "sqlite"
	c.Database.DSN = "./rerender.db"
	c.Analysis.MaxInputBytes = 512 * 1024
	c.Reporting.OutDir = "./reports"
	c.Logging.Format = "json"
	c.Logging.Level = "info"
	return c
}

func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	if path != "" {
		if b, err := os.ReadFile(path); err == nil {
			_ = yaml.Unmarshal(b, &c)
		}
	}
	// Env overrides (simple, explicit)
	if v := os.Getenv("RERENDER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("RERENDER_DB_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("RERENDER_RULE_PACK"); v != "" {
		c.Analysis.RulePack = v
	}
	if v := os.Getenv("RERENDER_MAX_INPUT_BYTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Analysis.MaxInputBytes = n
		}
	}
	if v := os.Getenv("RERENDER_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("RERENDER_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("RERENDER_OUT_DIR"); v != "" {
		c.Reporting.OutDir = v
	}
	return c, nil
}
