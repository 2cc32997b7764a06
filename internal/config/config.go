package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/clubsoiree/sondage/internal/utils"
)

// Config is the full server configuration. Values come from an optional YAML
// file, then environment variables override field by field.
type Config struct {
	Addr      string `yaml:"addr"`
	DBPath    string `yaml:"db_path"`
	StaticDir string `yaml:"static_dir"`

	// AdminPassword may be a plain password or a bcrypt hash.
	AdminPassword string `yaml:"admin_password"`
	JWTSecret     string `yaml:"jwt_secret"`

	AnswerThreshold      int `yaml:"answer_threshold"`
	RateLimitMS          int `yaml:"rate_limit_ms"`
	ModerationTTLSeconds int `yaml:"moderation_ttl_seconds"`
}

func defaults() Config {
	return Config{
		Addr:                 ":8080",
		DBPath:               "sondage.db",
		StaticDir:            "public",
		AdminPassword:        "dodo",
		AnswerThreshold:      100,
		RateLimitMS:          800,
		ModerationTTLSeconds: 30,
	}
}

// Load reads the YAML file at path when it exists, then applies SONDAGE_*
// environment overrides. An empty path skips the file step entirely.
func Load(path string) (Config, error) {
	cfg := defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.Addr = utils.SafeEnv("SONDAGE_ADDR", cfg.Addr)
	cfg.DBPath = utils.SafeEnv("SONDAGE_DB_PATH", cfg.DBPath)
	cfg.StaticDir = utils.SafeEnv("SONDAGE_STATIC_DIR", cfg.StaticDir)
	cfg.AdminPassword = utils.SafeEnv("SONDAGE_ADMIN_PASSWORD", cfg.AdminPassword)
	cfg.JWTSecret = utils.SafeEnv("SONDAGE_JWT_SECRET", cfg.JWTSecret)
	cfg.AnswerThreshold = utils.SafeEnvInt("SONDAGE_ANSWER_THRESHOLD", cfg.AnswerThreshold)
	cfg.RateLimitMS = utils.SafeEnvInt("SONDAGE_RATE_LIMIT_MS", cfg.RateLimitMS)
	cfg.ModerationTTLSeconds = utils.SafeEnvInt("SONDAGE_MODERATION_TTL_SECONDS", cfg.ModerationTTLSeconds)

	if cfg.AnswerThreshold <= 0 {
		cfg.AnswerThreshold = 100
	}
	if cfg.RateLimitMS < 0 {
		cfg.RateLimitMS = 0
	}
	return cfg, nil
}
