package docxfill

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.LogLevel != "warn" {
		t.Errorf("DefaultConfig LogLevel = %s, want warn", config.LogLevel)
	}
	if config.MaxBlockDepth != 32 {
		t.Errorf("DefaultConfig MaxBlockDepth = %d, want 32", config.MaxBlockDepth)
	}
	if config.CacheMaxSize != 100 {
		t.Errorf("DefaultConfig CacheMaxSize = %d, want 100", config.CacheMaxSize)
	}
	if !config.RenderHeadersFooters {
		t.Error("DefaultConfig RenderHeadersFooters = false, want true")
	}
	if err := config.Validate(); err != nil {
		t.Errorf("DefaultConfig is invalid: %v", err)
	}
}

func TestConfigFromEnvironment(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		check   func(t *testing.T, config *Config)
	}{
		{
			name: "all variables",
			envVars: map[string]string{
				"DOCXFILL_LOG_LEVEL":              " DEBUG ",
				"DOCXFILL_LOCALE":                 "en",
				"DOCXFILL_LOCALE_TABLE":           "/etc/docxfill/locales.yaml",
				"DOCXFILL_MAX_BLOCK_DEPTH":        "4",
				"DOCXFILL_CACHE_MAX_SIZE":         "10",
				"DOCXFILL_CACHE_TTL":              "5m",
				"DOCXFILL_RENDER_HEADERS_FOOTERS": "off",
			},
			check: func(t *testing.T, config *Config) {
				if config.LogLevel != "debug" {
					t.Errorf("LogLevel = %q, want debug", config.LogLevel)
				}
				if config.Locale != "en" || config.LocaleTable != "/etc/docxfill/locales.yaml" {
					t.Errorf("locale settings = %q, %q", config.Locale, config.LocaleTable)
				}
				if config.MaxBlockDepth != 4 || config.CacheMaxSize != 10 {
					t.Errorf("MaxBlockDepth = %d, CacheMaxSize = %d", config.MaxBlockDepth, config.CacheMaxSize)
				}
				if config.CacheTTL != 5*time.Minute {
					t.Errorf("CacheTTL = %v, want 5m", config.CacheTTL)
				}
				if config.RenderHeadersFooters {
					t.Error("RenderHeadersFooters should be false")
				}
			},
		},
		{
			name: "invalid values keep defaults",
			envVars: map[string]string{
				"DOCXFILL_MAX_BLOCK_DEPTH": "deep",
				"DOCXFILL_CACHE_TTL":       "soon",
			},
			check: func(t *testing.T, config *Config) {
				if config.MaxBlockDepth != 32 {
					t.Errorf("MaxBlockDepth = %d, want 32", config.MaxBlockDepth)
				}
				if config.CacheTTL != 0 {
					t.Errorf("CacheTTL = %v, want 0", config.CacheTTL)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}
			tt.check(t, ConfigFromEnvironment())
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"negative cache size", func(c *Config) { c.CacheMaxSize = -1 }, true},
		{"negative ttl", func(c *Config) { c.CacheTTL = -time.Second }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, true},
		{"off log level", func(c *Config) { c.LogLevel = "off" }, false},
		{"zero block depth", func(c *Config) { c.MaxBlockDepth = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.modify(config)
			if err := config.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGlobalConfig(t *testing.T) {
	original := GetGlobalConfig()
	defer SetGlobalConfig(original)

	config := DefaultConfig()
	config.LogLevel = "error"
	SetGlobalConfig(config)

	got := GetGlobalConfig()
	if got.LogLevel != "error" {
		t.Errorf("GetGlobalConfig().LogLevel = %q", got.LogLevel)
	}
	got.LogLevel = "debug"
	if GetGlobalConfig().LogLevel != "error" {
		t.Error("GetGlobalConfig should return a copy")
	}
	if GetLogger().Level() != LogError {
		t.Errorf("global logger level = %v, want ERROR", GetLogger().Level())
	}
}
