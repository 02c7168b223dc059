package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/court-case-fetcher/internal/core/domain"
	"github.com/custodia-labs/court-case-fetcher/internal/core/ports/driven"
	"github.com/custodia-labs/court-case-fetcher/internal/core/ports/driving"
	"github.com/custodia-labs/court-case-fetcher/internal/logger"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyProfile           = "profile"
	KeyRequestTimeout    = "ingest.request_timeout"
	KeyMaxDocumentBytes  = "ingest.max_document_bytes"
	KeyAllowedHosts      = "ingest.allowed_hosts"
	KeyMaxTextLength     = "ingest.max_text_length"
	KeyMaxPages          = "ingest.max_pages"
	KeyChunkSize         = "ingest.chunk_size"
	KeyDownloadDir       = "ingest.download_dir"
	KeyServerAddr        = "server.addr"
	KeySecretKey         = "server.secret_key"
	KeyDebug             = "server.debug"
	KeyRequestsPerMinute = "rate_limit.requests_per_minute"
	KeyLogLevel          = "logging.level"
	KeyLogFile           = "logging.file"
)

// settingKind is how a raw string value is parsed.
type settingKind int

const (
	kindString settingKind = iota
	kindInt
	kindBool
	kindDuration
	kindList
)

type settingDef struct {
	kind  settingKind
	apply func(s *domain.AppSettings, v any)
}

var settingDefs = map[string]settingDef{
	KeyProfile: {kindString, func(s *domain.AppSettings, v any) { s.Profile = domain.Profile(v.(string)) }},
	KeyRequestTimeout: {kindDuration, func(s *domain.AppSettings, v any) {
		s.Ingest.RequestTimeout = v.(time.Duration)
	}},
	KeyMaxDocumentBytes: {kindInt, func(s *domain.AppSettings, v any) { s.Ingest.MaxDocumentBytes = int64(v.(int)) }},
	KeyAllowedHosts:     {kindList, func(s *domain.AppSettings, v any) { s.Ingest.AllowedHosts = v.([]string) }},
	KeyMaxTextLength:    {kindInt, func(s *domain.AppSettings, v any) { s.Ingest.MaxTextLength = v.(int) }},
	KeyMaxPages:         {kindInt, func(s *domain.AppSettings, v any) { s.Ingest.MaxPages = v.(int) }},
	KeyChunkSize:        {kindInt, func(s *domain.AppSettings, v any) { s.Ingest.ChunkSize = v.(int) }},
	KeyDownloadDir:      {kindString, func(s *domain.AppSettings, v any) { s.Ingest.DownloadDir = v.(string) }},
	KeyServerAddr:       {kindString, func(s *domain.AppSettings, v any) { s.Server.Addr = v.(string) }},
	KeySecretKey:        {kindString, func(s *domain.AppSettings, v any) { s.Server.SecretKey = v.(string) }},
	KeyDebug:            {kindBool, func(s *domain.AppSettings, v any) { s.Server.Debug = v.(bool) }},
	KeyRequestsPerMinute: {kindInt, func(s *domain.AppSettings, v any) {
		s.RateLimit.RequestsPerMinute = v.(int)
	}},
	KeyLogLevel: {kindString, func(s *domain.AppSettings, v any) { s.Logging.Level = v.(string) }},
	KeyLogFile:  {kindString, func(s *domain.AppSettings, v any) { s.Logging.File = v.(string) }},
}

// SettingKeys returns every settable key, sorted.
func SettingKeys() []string {
	keys := make([]string, 0, len(settingDefs))
	for k := range settingDefs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
	}
}

// Get retrieves current application settings. Values that are missing or
// unparseable fall back to the defaults of the configured profile.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := s.GetDefaults()

	settings := &domain.AppSettings{
		Profile: defaults.Profile,
		Ingest: domain.IngestSettings{
			RequestTimeout:   s.getDuration(KeyRequestTimeout, defaults.Ingest.RequestTimeout),
			MaxDocumentBytes: int64(s.getInt(KeyMaxDocumentBytes, int(defaults.Ingest.MaxDocumentBytes))),
			AllowedHosts:     s.getStringSlice(KeyAllowedHosts, defaults.Ingest.AllowedHosts),
			MaxTextLength:    s.getInt(KeyMaxTextLength, defaults.Ingest.MaxTextLength),
			MaxPages:         s.getInt(KeyMaxPages, defaults.Ingest.MaxPages),
			ChunkSize:        s.getInt(KeyChunkSize, defaults.Ingest.ChunkSize),
			DownloadDir:      s.getString(KeyDownloadDir, defaults.Ingest.DownloadDir),
		},
		Server: domain.ServerSettings{
			Addr:      s.getString(KeyServerAddr, defaults.Server.Addr),
			SecretKey: s.configStore.GetString(KeySecretKey),
			Debug:     s.getBool(KeyDebug, defaults.Server.Debug),
		},
		RateLimit: domain.RateLimitSettings{
			RequestsPerMinute: s.getInt(KeyRequestsPerMinute, defaults.RateLimit.RequestsPerMinute),
		},
		Logging: domain.LoggingSettings{
			Level: s.getLogLevel(defaults.Logging.Level),
			File:  s.configStore.GetString(KeyLogFile),
		},
	}

	return settings, nil
}

// Set parses value for key, validates the resulting settings and persists
// the typed value.
func (s *SettingsService) Set(key, value string) error {
	def, ok := settingDefs[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	typed, err := parseSetting(def.kind, value)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, key, err)
	}
	if key == KeyLogLevel {
		if _, err := logger.ParseLevel(value); err != nil {
			return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, key, err)
		}
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	def.apply(settings, typed)
	if err := settings.Validate(); err != nil {
		return err
	}

	// Durations are stored in their readable form.
	if d, ok := typed.(time.Duration); ok {
		typed = d.String()
	}
	if err := s.configStore.Set(key, typed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns the settable keys.
func (s *SettingsService) Keys() []string {
	return SettingKeys()
}

// GetDefaults returns default settings for the configured profile.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	profile := domain.Profile(s.configStore.GetString(KeyProfile))
	if !profile.IsValid() {
		profile = domain.ProfileDevelopment
	}
	return domain.ProfileDefaults(profile)
}

// Path returns where settings are persisted.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}

func parseSetting(kind settingKind, value string) (any, error) {
	value = strings.TrimSpace(value)
	switch kind {
	case kindInt:
		return strconv.Atoi(value)
	case kindBool:
		return strconv.ParseBool(value)
	case kindDuration:
		return parseDuration(value)
	case kindList:
		var out []string
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out, nil
	default:
		return value, nil
	}
}

// parseDuration accepts Go durations and bare integers as seconds.
func parseDuration(value string) (time.Duration, error) {
	if n, err := strconv.Atoi(value); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(value)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getStringSlice(key string, defaultVal []string) []string {
	val := s.configStore.GetStringSlice(key)
	if len(val) == 0 {
		return append([]string(nil), defaultVal...)
	}
	return val
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	raw, ok := s.configStore.Get(key)
	if !ok {
		return defaultVal
	}
	var d time.Duration
	switch v := raw.(type) {
	case string:
		parsed, err := parseDuration(strings.TrimSpace(v))
		if err != nil {
			return defaultVal
		}
		d = parsed
	case int64:
		d = time.Duration(v) * time.Second
	case int:
		d = time.Duration(v) * time.Second
	}
	if d <= 0 {
		return defaultVal
	}
	return d
}

func (s *SettingsService) getLogLevel(defaultVal string) string {
	val := s.configStore.GetString(KeyLogLevel)
	if val == "" {
		return defaultVal
	}
	if _, err := logger.ParseLevel(val); err != nil {
		return defaultVal
	}
	return val
}
