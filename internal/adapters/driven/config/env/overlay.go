// Package env layers environment variables over another driven.ConfigStore.
//
// Every known key can be overridden with COURTFETCH_<KEY>, where dots become
// underscores (ingest.max_pages is COURTFETCH_INGEST_MAX_PAGES). The short
// names used by earlier deployments (PORT, SECRET_KEY, MAX_PDF_SIZE and so
// on) are honoured too, with lower precedence than the prefixed form.
package env

import (
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/court-case-fetcher/internal/core/ports/driven"
)

// Prefix is prepended to every derived variable name.
const Prefix = "COURTFETCH_"

// Ensure Overlay implements the interface.
var _ driven.ConfigStore = (*Overlay)(nil)

// Alias maps a legacy variable onto a config key.
type Alias struct {
	Var   string
	Key   string
	Value func(string) string
}

// LegacyAliases are the variable names the service has always read.
var LegacyAliases = []Alias{
	{Var: "REQUEST_TIMEOUT", Key: "ingest.request_timeout", Value: seconds},
	{Var: "MAX_PDF_SIZE", Key: "ingest.max_document_bytes"},
	{Var: "PDF_CHUNK_SIZE", Key: "ingest.chunk_size"},
	{Var: "UPLOAD_FOLDER", Key: "ingest.download_dir"},
	{Var: "RATE_LIMIT", Key: "rate_limit.requests_per_minute"},
	{Var: "LOG_LEVEL", Key: "logging.level", Value: strings.ToLower},
	{Var: "LOG_FILE", Key: "logging.file"},
	{Var: "SECRET_KEY", Key: "server.secret_key"},
	{Var: "DEBUG", Key: "server.debug", Value: strings.ToLower},
	{Var: "PORT", Key: "server.addr", Value: func(p string) string { return ":" + p }},
}

// Overlay reads from the environment first and falls back to the base store.
// Writes always go to the base store.
type Overlay struct {
	base    driven.ConfigStore
	lookup  func(string) (string, bool)
	known   map[string]bool
	aliases map[string][]Alias
}

// Option configures an Overlay.
type Option func(*Overlay)

// WithLookup replaces os.LookupEnv.
func WithLookup(fn func(string) (string, bool)) Option {
	return func(o *Overlay) { o.lookup = fn }
}

// WithAliases replaces LegacyAliases.
func WithAliases(aliases ...Alias) Option {
	return func(o *Overlay) {
		o.aliases = make(map[string][]Alias)
		for _, a := range aliases {
			o.aliases[a.Key] = append(o.aliases[a.Key], a)
		}
	}
}

// New wraps base. keys lists the keys that may be overridden.
func New(base driven.ConfigStore, keys []string, opts ...Option) *Overlay {
	o := &Overlay{
		base:   base,
		lookup: os.LookupEnv,
		known:  make(map[string]bool, len(keys)),
	}
	for _, k := range keys {
		o.known[k] = true
	}
	WithAliases(LegacyAliases...)(o)
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// VarName returns the prefixed variable name for key.
func VarName(key string) string {
	return Prefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Source reports which variable overrides key, if any.
func (o *Overlay) Source(key string) (string, bool) {
	_, name, ok := o.fromEnv(key)
	return name, ok
}

func (o *Overlay) fromEnv(key string) (string, string, bool) {
	if !o.known[key] {
		return "", "", false
	}
	name := VarName(key)
	if v, ok := o.lookup(name); ok {
		return v, name, true
	}
	for _, a := range o.aliases[key] {
		if v, ok := o.lookup(a.Var); ok && v != "" {
			if a.Value != nil {
				v = a.Value(v)
			}
			return v, a.Var, true
		}
	}
	return "", "", false
}

// Get retrieves a configuration value by key.
func (o *Overlay) Get(key string) (any, bool) {
	if v, _, ok := o.fromEnv(key); ok {
		return v, true
	}
	return o.base.Get(key)
}

// GetString retrieves a string configuration value.
func (o *Overlay) GetString(key string) string {
	if v, _, ok := o.fromEnv(key); ok {
		return v
	}
	return o.base.GetString(key)
}

// GetInt parses an overriding variable as an integer.
func (o *Overlay) GetInt(key string) int {
	if v, _, ok := o.fromEnv(key); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0
		}
		return n
	}
	return o.base.GetInt(key)
}

// GetBool parses an overriding variable with strconv.ParseBool.
func (o *Overlay) GetBool(key string) bool {
	if v, _, ok := o.fromEnv(key); ok {
		b, _ := strconv.ParseBool(strings.TrimSpace(v))
		return b
	}
	return o.base.GetBool(key)
}

// GetStringSlice splits an overriding variable on commas.
func (o *Overlay) GetStringSlice(key string) []string {
	if v, _, ok := o.fromEnv(key); ok {
		var out []string
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	}
	return o.base.GetStringSlice(key)
}

// Keys returns base keys plus any key currently overridden.
func (o *Overlay) Keys() []string {
	seen := make(map[string]bool)
	keys := o.base.Keys()
	for _, k := range keys {
		seen[k] = true
	}
	for k := range o.known {
		if seen[k] {
			continue
		}
		if _, _, ok := o.fromEnv(k); ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// Set writes to the base store. An environment override still wins on read.
func (o *Overlay) Set(key string, value any) error {
	return o.base.Set(key, value)
}

// Save persists the base store.
func (o *Overlay) Save() error {
	return o.base.Save()
}

// Load reloads the base store. The environment is read on every access.
func (o *Overlay) Load() error {
	return o.base.Load()
}

// Path returns the base store path.
func (o *Overlay) Path() string {
	return o.base.Path()
}

// seconds turns a bare integer into a duration string.
func seconds(v string) string {
	if _, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
		return strings.TrimSpace(v) + "s"
	}
	return v
}
