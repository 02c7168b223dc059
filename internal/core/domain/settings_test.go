package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, ProfileDevelopment, s.Profile)
	assert.Equal(t, 30*time.Second, s.Ingest.RequestTimeout)
	assert.Equal(t, int64(50*1024*1024), s.Ingest.MaxDocumentBytes)
	assert.Equal(t, []string{"delhihighcourt.nic.in"}, s.Ingest.AllowedHosts)
	assert.Equal(t, 1_000_000, s.Ingest.MaxTextLength)
	assert.Equal(t, 1000, s.Ingest.MaxPages)
	assert.Equal(t, 8192, s.Ingest.ChunkSize)
	assert.Equal(t, 60, s.RateLimit.RequestsPerMinute)
	assert.NoError(t, s.Validate())
}

func TestProfileDefaults(t *testing.T) {
	assert.False(t, ProfileDefaults(ProfileProduction).Server.Debug)
	assert.Equal(t, "warn", ProfileDefaults(ProfileProduction).Logging.Level)
	assert.Equal(t, ProfileTesting, ProfileDefaults(ProfileTesting).Profile)
	assert.Equal(t, ProfileDevelopment, ProfileDefaults("staging").Profile)
}

func TestProfile_IsValid(t *testing.T) {
	assert.True(t, ProfileDevelopment.IsValid())
	assert.True(t, ProfileProduction.IsValid())
	assert.True(t, ProfileTesting.IsValid())
	assert.False(t, Profile("staging").IsValid())
}

func TestAppSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppSettings)
	}{
		{"bad profile", func(s *AppSettings) { s.Profile = "x" }},
		{"zero timeout", func(s *AppSettings) { s.Ingest.RequestTimeout = 0 }},
		{"zero max bytes", func(s *AppSettings) { s.Ingest.MaxDocumentBytes = 0 }},
		{"empty allow-list", func(s *AppSettings) { s.Ingest.AllowedHosts = nil }},
		{"zero pages", func(s *AppSettings) { s.Ingest.MaxPages = 0 }},
		{"zero rate", func(s *AppSettings) { s.RateLimit.RequestsPerMinute = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultAppSettings()
			tt.mutate(&s)
			assert.ErrorIs(t, s.Validate(), ErrInvalidInput)
		})
	}
}
