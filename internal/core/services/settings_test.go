package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/court-case-fetcher/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/court-case-fetcher/internal/core/domain"
)

func TestNewSettingsService(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	require.NotNil(t, service)
	assert.Equal(t, ":memory:", service.Path())
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings(), *settings)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		KeyRequestTimeout:    "10s",
		KeyMaxDocumentBytes:  int64(1024),
		KeyAllowedHosts:      []any{"delhihighcourt.nic.in", "dhc.nic.in"},
		KeyMaxPages:          int64(20),
		KeyDownloadDir:       "/srv/orders",
		KeyDebug:             false,
		KeyRequestsPerMinute: 5,
		KeyLogLevel:          "debug",
		KeySecretKey:         "s3cret",
	})
	service := NewSettingsService(store)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, settings.Ingest.RequestTimeout)
	assert.Equal(t, int64(1024), settings.Ingest.MaxDocumentBytes)
	assert.Equal(t, []string{"delhihighcourt.nic.in", "dhc.nic.in"}, settings.Ingest.AllowedHosts)
	assert.Equal(t, 20, settings.Ingest.MaxPages)
	assert.Equal(t, domain.DefaultMaxTextLength, settings.Ingest.MaxTextLength)
	assert.Equal(t, "/srv/orders", settings.Ingest.DownloadDir)
	assert.False(t, settings.Server.Debug)
	assert.Equal(t, "s3cret", settings.Server.SecretKey)
	assert.Equal(t, 5, settings.RateLimit.RequestsPerMinute)
	assert.Equal(t, "debug", settings.Logging.Level)
}

func TestSettingsService_Get_DurationForms(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  time.Duration
	}{
		{"go duration", "1m30s", 90 * time.Second},
		{"bare seconds string", "45", 45 * time.Second},
		{"toml integer", int64(12), 12 * time.Second},
		{"garbage", "soon", domain.DefaultRequestTimeout},
		{"negative", "-5s", domain.DefaultRequestTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewConfigStore(map[string]any{KeyRequestTimeout: tt.value})
			settings, err := NewSettingsService(store).Get()
			require.NoError(t, err)
			assert.Equal(t, tt.want, settings.Ingest.RequestTimeout)
		})
	}
}

func TestSettingsService_Get_InvalidValuesReturnDefaults(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{
		KeyProfile:  "staging",
		KeyMaxPages: int64(-3),
		KeyLogLevel: "loud",
	})

	settings, err := NewSettingsService(store).Get()

	require.NoError(t, err)
	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.Profile, settings.Profile)
	assert.Equal(t, defaults.Ingest.MaxPages, settings.Ingest.MaxPages)
	assert.Equal(t, defaults.Logging.Level, settings.Logging.Level)
}

func TestSettingsService_Get_ProfileDefaults(t *testing.T) {
	store := memory.NewConfigStore(map[string]any{KeyProfile: "production"})
	service := NewSettingsService(store)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.ProfileProduction, settings.Profile)
	assert.False(t, settings.Server.Debug)
	assert.Equal(t, "warn", settings.Logging.Level)
	assert.Equal(t, domain.ProfileDefaults(domain.ProfileProduction), service.GetDefaults())
}

func TestSettingsService_Set(t *testing.T) {
	tests := []struct {
		key    string
		value  string
		stored any
	}{
		{KeyMaxPages, "250", 250},
		{KeyRequestTimeout, "15", "15s"},
		{KeyRequestTimeout, "2m", "2m0s"},
		{KeyAllowedHosts, "delhihighcourt.nic.in, dhc.nic.in", []string{"delhihighcourt.nic.in", "dhc.nic.in"}},
		{KeyDebug, "false", false},
		{KeyProfile, "testing", "testing"},
		{KeyLogLevel, "warning", "warning"},
		{KeyServerAddr, "127.0.0.1:8080", "127.0.0.1:8080"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			store := memory.NewConfigStore()
			service := NewSettingsService(store)

			require.NoError(t, service.Set(tt.key, tt.value))

			val, ok := store.Get(tt.key)
			require.True(t, ok)
			assert.Equal(t, tt.stored, val)
		})
	}
}

func TestSettingsService_Set_RoundTrip(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore())

	require.NoError(t, service.Set(KeyRequestTimeout, "5s"))
	require.NoError(t, service.Set(KeyMaxTextLength, "500"))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, settings.Ingest.RequestTimeout)
	assert.Equal(t, 500, settings.Ingest.MaxTextLength)
}

func TestSettingsService_Set_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown key", "search.mode", "hybrid"},
		{"not an int", KeyMaxPages, "many"},
		{"zero ceiling", KeyMaxPages, "0"},
		{"negative bytes", KeyMaxDocumentBytes, "-1"},
		{"bad duration", KeyRequestTimeout, "soon"},
		{"zero duration", KeyRequestTimeout, "0"},
		{"empty allow-list", KeyAllowedHosts, " , "},
		{"bad bool", KeyDebug, "maybe"},
		{"bad profile", KeyProfile, "staging"},
		{"bad log level", KeyLogLevel, "loud"},
		{"zero rate", KeyRequestsPerMinute, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewConfigStore()
			service := NewSettingsService(store)

			err := service.Set(tt.key, tt.value)

			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput))
			assert.Empty(t, store.Keys())
		})
	}
}

func TestSettingsService_Keys(t *testing.T) {
	keys := NewSettingsService(memory.NewConfigStore()).Keys()

	assert.Contains(t, keys, KeyMaxPages)
	assert.Contains(t, keys, KeyAllowedHosts)
	assert.Len(t, keys, 14)
	assert.IsNonDecreasing(t, keys)
}
