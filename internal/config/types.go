package config

import "time"

// AppConfig holds runtime startup configuration loaded from YAML.
type AppConfig struct {
	Port           int               `yaml:"port"`
	Env            string            `yaml:"env"` // "development" | "production"
	DSN            string            `yaml:"dsn"` // MySQL DSN; empty disables the database store
	AllowedOrigins []string          `yaml:"allowed_origins"`
	RedisURL       string            `yaml:"redis_url"`
	AdminToken     string            `yaml:"admin_token"`
	Timezone       string            `yaml:"timezone"`
	Notion         NotionConfig      `yaml:"notion"`
	Translation    TranslationConfig `yaml:"translation"`
}

// NotionConfig points the content source at a Notion database view.
type NotionConfig struct {
	PageID  string `yaml:"page_id"`
	Token   string `yaml:"token"` // token_v2, optional for public pages
	APIBase string `yaml:"api_base"`
}

// AIProvider selects and authenticates the translation provider.
type AIProvider struct {
	Type     string `yaml:"type"` // OpenAI | OpenAI-Compatible | Anthropic
	APIKey   string `yaml:"api_key"`
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
}

// PublishConfig enables mirroring generated drafts back into a Notion page.
type PublishConfig struct {
	Token        string `yaml:"token"`
	ParentPageID string `yaml:"parent_page_id"`
}

// TranslationConfig drives the language-merge and translation sync pipeline.
type TranslationConfig struct {
	// Disabled turns generation off entirely while previously stored drafts
	// keep being served.
	Disabled        bool       `yaml:"disabled"`
	Provider        AIProvider `yaml:"provider"`
	BatchSize       int        `yaml:"batch_size"`
	TargetLanguage  string     `yaml:"target_language"`
	DefaultLanguage string     `yaml:"default_language"`
	// IncludeUntaggedAsSource decides whether posts without a language tag
	// may serve as translation sources.
	IncludeUntaggedAsSource *bool         `yaml:"include_untagged_as_source"`
	StoreDir                string        `yaml:"store_dir"`
	LegacyStoreDir          string        `yaml:"legacy_store_dir"`
	SyncInterval            time.Duration `yaml:"sync_interval"`
	Publish                 PublishConfig `yaml:"publish"`
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool { return c.Env != "production" }

// UntaggedAsSource resolves the pointer flag with its default (true, matching
// the permissive source-selection behavior).
func (t TranslationConfig) UntaggedAsSource() bool {
	if t.IncludeUntaggedAsSource == nil {
		return true
	}
	return *t.IncludeUntaggedAsSource
}

// HasCredential reports whether the provider can actually be called.
func (t TranslationConfig) HasCredential() bool {
	return t.Provider.APIKey != ""
}
