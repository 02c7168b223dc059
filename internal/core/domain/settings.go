package domain

import (
	"fmt"
	"time"
)

// DefaultCourtHost is the only host order documents may be fetched from
// unless the allow-list is configured otherwise.
const DefaultCourtHost = "delhihighcourt.nic.in"

// Ingestion defaults.
const (
	DefaultRequestTimeout   = 30 * time.Second
	DefaultMaxDocumentBytes = 50 * 1024 * 1024
	DefaultMaxTextLength    = 1_000_000
	DefaultMaxPages         = 1000
	DefaultChunkSize        = 8192
	DefaultDownloadDir      = "downloads"
)

// Profile selects a bundle of defaults.
type Profile string

// Available profiles.
const (
	ProfileDevelopment Profile = "development"
	ProfileProduction  Profile = "production"
	ProfileTesting     Profile = "testing"
)

// IsValid returns true if the profile is recognised.
func (p Profile) IsValid() bool {
	switch p {
	case ProfileDevelopment, ProfileProduction, ProfileTesting:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p Profile) String() string {
	return string(p)
}

// IngestSettings bound the download and extraction pipeline.
type IngestSettings struct {
	RequestTimeout   time.Duration
	MaxDocumentBytes int64
	AllowedHosts     []string
	MaxTextLength    int
	MaxPages         int
	ChunkSize        int
	DownloadDir      string
}

// ServerSettings configure the web interface.
type ServerSettings struct {
	Addr      string
	SecretKey string
	Debug     bool
}

// RateLimitSettings configure per-client throttling of the web interface.
type RateLimitSettings struct {
	RequestsPerMinute int
}

// LoggingSettings configure the process logger.
type LoggingSettings struct {
	Level string
	File  string
}

// AppSettings contains all application settings.
type AppSettings struct {
	Profile   Profile
	Ingest    IngestSettings
	Server    ServerSettings
	RateLimit RateLimitSettings
	Logging   LoggingSettings
}

// DefaultAppSettings returns settings with sensible defaults.
func DefaultAppSettings() AppSettings {
	return ProfileDefaults(ProfileDevelopment)
}

// ProfileDefaults returns the defaults for the given profile.
// Unknown profiles get the development defaults.
func ProfileDefaults(p Profile) AppSettings {
	s := AppSettings{
		Profile: ProfileDevelopment,
		Ingest: IngestSettings{
			RequestTimeout:   DefaultRequestTimeout,
			MaxDocumentBytes: DefaultMaxDocumentBytes,
			AllowedHosts:     []string{DefaultCourtHost},
			MaxTextLength:    DefaultMaxTextLength,
			MaxPages:         DefaultMaxPages,
			ChunkSize:        DefaultChunkSize,
			DownloadDir:      DefaultDownloadDir,
		},
		Server: ServerSettings{
			Addr:  ":5000",
			Debug: true,
		},
		RateLimit: RateLimitSettings{RequestsPerMinute: 60},
		Logging:   LoggingSettings{Level: "info"},
	}

	switch p {
	case ProfileProduction:
		s.Profile = ProfileProduction
		s.Server.Debug = false
		s.Logging.Level = "warn"
	case ProfileTesting:
		s.Profile = ProfileTesting
		s.Server.Debug = false
		s.Logging.Level = "debug"
		s.RateLimit.RequestsPerMinute = 1000
	}
	return s
}

// Validate checks the settings for values the pipeline cannot run with.
func (s AppSettings) Validate() error {
	if !s.Profile.IsValid() {
		return fmt.Errorf("%w: unknown profile %q", ErrInvalidInput, s.Profile)
	}
	if s.Ingest.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request timeout must be positive", ErrInvalidInput)
	}
	if s.Ingest.MaxDocumentBytes <= 0 {
		return fmt.Errorf("%w: max document bytes must be positive", ErrInvalidInput)
	}
	if len(s.Ingest.AllowedHosts) == 0 {
		return fmt.Errorf("%w: allowed hosts must not be empty", ErrInvalidInput)
	}
	if s.Ingest.MaxTextLength <= 0 || s.Ingest.MaxPages <= 0 {
		return fmt.Errorf("%w: extraction ceilings must be positive", ErrInvalidInput)
	}
	if s.RateLimit.RequestsPerMinute <= 0 {
		return fmt.Errorf("%w: rate limit must be positive", ErrInvalidInput)
	}
	return nil
}
