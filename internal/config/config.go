package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration accepts values like "1m" or "90s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

type ReportsConfig struct {
	Dir      string `yaml:"dir"`
	FontPath string `yaml:"font_path"`
}

type RemindersConfig struct {
	DispatchInterval Duration `yaml:"dispatch_interval"`
	BatchSize        int      `yaml:"batch_size"`
	DefaultOffsetMin int      `yaml:"default_offset_minutes"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
}

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	Auth struct {
		JWTSecret string `yaml:"jwt_secret"`
	} `yaml:"auth"`
	Log struct {
		Level    string `yaml:"level"`
		Encoding string `yaml:"encoding"`
	} `yaml:"log"`
	DefaultTimezone string          `yaml:"default_timezone"`
	DefaultLocale   string          `yaml:"default_locale"`
	Reports         ReportsConfig   `yaml:"reports"`
	Reminders       RemindersConfig `yaml:"reminders"`
	Telegram        TelegramConfig  `yaml:"telegram"`
}

func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.DefaultTimezone == "" {
		cfg.DefaultTimezone = "Europe/Stockholm"
	}
	if cfg.DefaultLocale == "" {
		cfg.DefaultLocale = "en"
	}
	if cfg.Reports.Dir == "" {
		cfg.Reports.Dir = "./reports"
	}
	if cfg.Reminders.DispatchInterval <= 0 {
		cfg.Reminders.DispatchInterval = Duration(time.Minute)
	}
	if cfg.Reminders.BatchSize <= 0 {
		cfg.Reminders.BatchSize = 100
	}
	if cfg.Reminders.DefaultOffsetMin <= 0 {
		cfg.Reminders.DefaultOffsetMin = 30
	}
	return &cfg, nil
}
