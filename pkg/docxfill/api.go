package docxfill

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/benjaminschreck/go-docxfill/pkg/docxfill/locale"
)

// Engine provides the main API for working with templates.
// Use New() to create a new engine instance.
type Engine struct {
	config *Config
	cache  *TemplateCache
	log    *Logger

	tableOnce sync.Once
	table     *locale.Table
	tableErr  error
}

// New creates a new template engine with the global configuration.
func New() *Engine {
	return NewWithConfig(GetGlobalConfig())
}

// NewWithConfig creates a new template engine with custom configuration.
// A nil config means DefaultConfig.
func NewWithConfig(config *Config) *Engine {
	if config == nil {
		config = DefaultConfig()
	}
	return &Engine{
		config: config,
		cache: NewTemplateCache(CacheConfig{
			MaxSize: config.CacheMaxSize,
			TTL:     config.CacheTTL,
		}),
	}
}

// Option represents a configuration option for the engine.
type Option func(*Engine)

// WithLogger returns an option that makes the engine log to logger instead of
// the global logger.
func WithLogger(logger *Logger) Option {
	return func(e *Engine) {
		e.log = logger
	}
}

// WithLocaleTable returns an option that sets the translation table, taking
// precedence over Config.LocaleTable.
func WithLocaleTable(table *locale.Table) Option {
	return func(e *Engine) {
		e.tableOnce.Do(func() {
			e.table = table
		})
	}
}

// WithCache returns an option that sets the cache size (0 disables caching).
func WithCache(maxSize int) Option {
	return func(e *Engine) {
		e.config.CacheMaxSize = maxSize
		e.cache = NewTemplateCache(CacheConfig{MaxSize: maxSize, TTL: e.config.CacheTTL})
	}
}

// NewWithOptions creates a new engine from config with the specified options.
func NewWithOptions(config *Config, opts ...Option) *Engine {
	if config == nil {
		config = GetGlobalConfig()
	} else {
		c := *config
		config = &c
	}
	engine := NewWithConfig(config)
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// Config returns the engine's configuration.
func (e *Engine) Config() *Config {
	return e.config
}

func (e *Engine) logger() *Logger {
	if e.log != nil {
		return e.log
	}
	return GetLogger()
}

func (e *Engine) maxBlockDepth() int {
	if e.config.MaxBlockDepth > 0 {
		return e.config.MaxBlockDepth
	}
	return DefaultConfig().MaxBlockDepth
}

// LocaleTable returns the translation table: the one set with
// WithLocaleTable, else the file named by Config.LocaleTable, else the
// built-in table. The file is loaded once.
func (e *Engine) LocaleTable() (*locale.Table, error) {
	e.tableOnce.Do(func() {
		if e.config.LocaleTable == "" {
			e.table = locale.Default()
			return
		}
		e.table, e.tableErr = locale.LoadFile(e.config.LocaleTable)
	})
	return e.table, e.tableErr
}

// Locale returns the locale to render with. An empty id falls back to
// Config.Locale and then to the operating system locale; ids missing from
// the table fall back to locale.FallbackID.
func (e *Engine) Locale(id string) (locale.Locale, error) {
	table, err := e.LocaleTable()
	if err != nil {
		return locale.Locale{}, err
	}
	if id == "" {
		id = e.config.Locale
	}
	if id == "" {
		id = locale.Detect()
	}
	selected := table.Select(id, locale.FallbackID)
	if selected != id {
		e.logger().Debug("locale %q not in table, using %q", id, selected)
	}
	return locale.New(table, selected), nil
}

// PrepareFile loads a template from a file path. The template is cached if
// caching is enabled; a file that changed on disk is prepared again.
func (e *Engine) PrepareFile(path string) (*PreparedTemplate, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, NewDocumentError("open", path, err)
	}
	key := cacheKey(path, info)

	if e.config.CacheMaxSize > 0 {
		if tmpl, ok := e.cache.Get(key); ok {
			e.logger().Debug("template %s served from cache", path)
			return tmpl, nil
		}
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, NewDocumentError("open", path, err)
	}
	defer file.Close()

	tmpl, err := e.Prepare(file)
	if err != nil {
		return nil, err
	}

	if e.config.CacheMaxSize > 0 {
		e.cache.Set(key, tmpl)
	}
	return tmpl, nil
}

func cacheKey(path string, info os.FileInfo) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return fmt.Sprintf("%s@%d:%d", path, info.ModTime().UnixNano(), info.Size())
}

// Prepare loads a template from an io.Reader.
func (e *Engine) Prepare(r io.Reader) (*PreparedTemplate, error) {
	return prepare(e, r)
}

// ClearCache removes all templates from the cache.
func (e *Engine) ClearCache() {
	e.cache.Clear()
}

// DefaultEngine is the global default engine instance.
// It uses the global configuration.
var DefaultEngine = New()

// PrepareFile loads a template from a file path using the default engine.
func PrepareFile(path string) (*PreparedTemplate, error) {
	return DefaultEngine.PrepareFile(path)
}

// Prepare loads a template from an io.Reader using the default engine.
func Prepare(r io.Reader) (*PreparedTemplate, error) {
	return DefaultEngine.Prepare(r)
}
