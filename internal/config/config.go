package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root run configuration for the engine.
type Config struct {
	App struct {
		DataDir  string `yaml:"data_dir"`
		Headless bool   `yaml:"headless"`
	} `yaml:"app"`

	Operator struct {
		FirstName  string `yaml:"first_name"`
		LastName   string `yaml:"last_name"`
		Email      string `yaml:"email"`
		Phone      string `yaml:"phone"`
		ResumePath string `yaml:"resume_path"`
	} `yaml:"operator"`

	Search struct {
		Keywords        []string `yaml:"keywords"`
		Locations       []string `yaml:"locations"`
		ExcludeKeywords []string `yaml:"exclude_keywords"`
	} `yaml:"search"`

	Apply struct {
		MaxApplications int `yaml:"max_applications"`
	} `yaml:"apply"`

	Platforms struct {
		LinkedIn  bool `yaml:"linkedin"`
		Indeed    bool `yaml:"indeed"`
		Glassdoor bool `yaml:"glassdoor"`
	} `yaml:"platforms"`

	Boards struct {
		Enabled   bool    `yaml:"enabled"`
		Companies []Board `yaml:"companies"`
	} `yaml:"boards"`

	Email struct {
		Enabled     bool   `yaml:"enabled"`
		IMAPHost    string `yaml:"imap_host"`
		IMAPPort    int    `yaml:"imap_port"`
		Username    string `yaml:"username"`
		MaxMessages int    `yaml:"max_messages"`
	} `yaml:"email"`

	Captcha struct {
		MaxWait time.Duration `yaml:"-"`
	} `yaml:"-"`
}

// Board is one public job board to pull during search.
type Board struct {
	Slug string `yaml:"slug"`
	Name string `yaml:"name"`
}

// rawConfig mirrors Config for YAML unmarshaling where durations arrive as
// strings.
type rawConfig struct {
	Captcha struct {
		MaxWait string `yaml:"max_wait"`
	} `yaml:"captcha"`
}

// DefaultCaptchaMaxWait bounds the human-in-the-loop challenge wait.
const DefaultCaptchaMaxWait = 5 * time.Minute

// Load reads and parses the YAML config at path. Environment variables in the
// file are expanded before parsing.
func Load(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	expanded := os.ExpandEnv(string(b))
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	cfg.Captcha.MaxWait = DefaultCaptchaMaxWait
	if raw.Captcha.MaxWait != "" {
		d, err := time.ParseDuration(raw.Captcha.MaxWait)
		if err != nil {
			return cfg, fmt.Errorf("parse captcha.max_wait %q: %w", raw.Captcha.MaxWait, err)
		}
		cfg.Captcha.MaxWait = d
	}

	applyDefaults(&cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.DataDir == "" {
		cfg.App.DataDir = "."
	}
	if cfg.Apply.MaxApplications <= 0 {
		cfg.Apply.MaxApplications = 10
	}
	if cfg.Email.IMAPPort <= 0 {
		cfg.Email.IMAPPort = 993
	}
	if cfg.Email.MaxMessages <= 0 {
		cfg.Email.MaxMessages = 50
	}
}
