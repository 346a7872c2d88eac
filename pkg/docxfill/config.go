package docxfill

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Config contains all configuration options for the docxfill engine
type Config struct {
	// LogLevel controls the verbosity of logging (debug, info, warn, error, off)
	LogLevel string
	// Locale is the locale identifier used when a render call does not name
	// one. Empty means detect from the operating system.
	Locale string
	// LocaleTable is the path of a JSON or YAML translation table. Empty means
	// the built-in table.
	LocaleTable string
	// MaxBlockDepth bounds the nesting of repeating blocks. Deeper block
	// markers are left as literal text.
	MaxBlockDepth int
	// CacheMaxSize is the maximum number of prepared templates to cache. 0 disables caching.
	CacheMaxSize int
	// CacheTTL is the time-to-live for cached templates. 0 means no expiration.
	CacheTTL time.Duration
	// RenderHeadersFooters also renders word/headerN.xml and word/footerN.xml.
	RenderHeadersFooters bool
}

var (
	globalConfig      *Config
	globalConfigMutex sync.RWMutex
	configOnce        sync.Once
)

func loadGlobalConfig() {
	configOnce.Do(func() {
		globalConfig = ConfigFromEnvironment()
	})
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		LogLevel:             "warn",
		MaxBlockDepth:        32,
		CacheMaxSize:         100,
		RenderHeadersFooters: true,
	}
}

// ConfigFromEnvironment creates a configuration from DOCXFILL_* environment
// variables. Unparseable values keep their defaults.
func ConfigFromEnvironment() *Config {
	config := DefaultConfig()

	if val := os.Getenv("DOCXFILL_LOG_LEVEL"); val != "" {
		config.LogLevel = strings.ToLower(strings.TrimSpace(val))
	}

	if val := os.Getenv("DOCXFILL_LOCALE"); val != "" {
		config.Locale = strings.TrimSpace(val)
	}

	if val := os.Getenv("DOCXFILL_LOCALE_TABLE"); val != "" {
		config.LocaleTable = val
	}

	if val := os.Getenv("DOCXFILL_MAX_BLOCK_DEPTH"); val != "" {
		if depth, err := strconv.Atoi(val); err == nil {
			config.MaxBlockDepth = depth
		}
	}

	if val := os.Getenv("DOCXFILL_CACHE_MAX_SIZE"); val != "" {
		if size, err := strconv.Atoi(val); err == nil {
			config.CacheMaxSize = size
		}
	}

	if val := os.Getenv("DOCXFILL_CACHE_TTL"); val != "" {
		if duration, err := time.ParseDuration(val); err == nil {
			config.CacheTTL = duration
		}
	}

	if val := os.Getenv("DOCXFILL_RENDER_HEADERS_FOOTERS"); val != "" {
		config.RenderHeadersFooters = parseBool(val)
	}

	return config
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.CacheMaxSize < 0 {
		return errors.New("cache max size cannot be negative")
	}

	if c.CacheTTL < 0 {
		return errors.New("cache TTL cannot be negative")
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error", "off":
	default:
		return errors.New("invalid log level: " + c.LogLevel)
	}

	if c.MaxBlockDepth <= 0 {
		return errors.New("max block depth must be positive")
	}

	return nil
}

// GetGlobalConfig returns a copy of the global configuration
func GetGlobalConfig() *Config {
	loadGlobalConfig()
	globalConfigMutex.RLock()
	defer globalConfigMutex.RUnlock()

	if globalConfig == nil {
		return DefaultConfig()
	}
	configCopy := *globalConfig
	return &configCopy
}

// SetGlobalConfig sets the global configuration and updates the global
// logger's level.
func SetGlobalConfig(config *Config) {
	loadGlobalConfig()
	globalConfigMutex.Lock()
	globalConfig = config
	globalConfigMutex.Unlock()

	UpdateLoggerFromConfig()
}

func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}
