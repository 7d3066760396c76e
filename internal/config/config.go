package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigPath is used when --config is not provided.
	DefaultConfigPath = "config.yml"

	defaultPort            = 2440
	defaultEnv             = "development"
	defaultBatchSize       = 60
	defaultTargetLanguage  = "en"
	defaultDefaultLanguage = "ko"
	defaultStoreDir        = "data/ai-translations"
	defaultSyncInterval    = 6 * time.Hour
	defaultTimezone        = "Asia/Seoul"
)

// Load reads the YAML config file, applies defaults and environment-variable
// fallbacks. A missing file is not an error: everything can come from the
// environment.
func Load(path string) (*AppConfig, error) {
	cfg := &AppConfig{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// env-only setup
	default:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnv(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

// applyEnv layers well-known environment variables under explicit YAML
// values. The names follow the ones the site has always used.
func applyEnv(cfg *AppConfig) {
	setIfEmpty(&cfg.Notion.PageID, os.Getenv("NOTION_PAGE_ID"))
	setIfEmpty(&cfg.Notion.Token, os.Getenv("NOTION_API_TOKEN"))
	setIfEmpty(&cfg.Translation.Provider.APIKey, os.Getenv("OPENAI_API_KEY"))
	setIfEmpty(&cfg.Translation.Provider.Model, os.Getenv("OPENAI_MODEL"))
	setIfEmpty(&cfg.Translation.Publish.Token, os.Getenv("NOTION_TRANSLATION_TOKEN"))
	setIfEmpty(&cfg.Translation.Publish.ParentPageID, os.Getenv("NOTION_TRANSLATION_PARENT_PAGE_ID"))
	setIfEmpty(&cfg.RedisURL, os.Getenv("REDIS_URL"))
	setIfEmpty(&cfg.Timezone, os.Getenv("VISITOR_TIMEZONE"))

	if v := strings.TrimSpace(os.Getenv("AI_TRANSLATIONS_DISABLED")); v != "" && v != "0" {
		cfg.Translation.Disabled = true
	}
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.Env == "" {
		cfg.Env = defaultEnv
	}
	if cfg.Timezone == "" {
		cfg.Timezone = defaultTimezone
	}
	t := &cfg.Translation
	if t.BatchSize <= 0 {
		t.BatchSize = defaultBatchSize
	}
	if t.TargetLanguage == "" {
		t.TargetLanguage = defaultTargetLanguage
	}
	if t.DefaultLanguage == "" {
		t.DefaultLanguage = defaultDefaultLanguage
	}
	if t.StoreDir == "" {
		t.StoreDir = defaultStoreDir
	}
	if t.SyncInterval <= 0 {
		t.SyncInterval = defaultSyncInterval
	}
}

func setIfEmpty(dst *string, value string) {
	if strings.TrimSpace(*dst) == "" && strings.TrimSpace(value) != "" {
		*dst = strings.TrimSpace(value)
	}
}
