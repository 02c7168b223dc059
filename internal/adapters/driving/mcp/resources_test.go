package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/court-case-fetcher/internal/core/domain"
)

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestExtractCaseID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected int64
	}{
		{"valid case URI", "courtfetch://cases/42", 42},
		{"invalid prefix", "file://cases/42", 0},
		{"not a number", "courtfetch://cases/abc", 0},
		{"list URI", "courtfetch://cases", 0},
		{"empty URI", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractCaseID(tt.uri))
		})
	}
}

func TestServer_handleCasesResource(t *testing.T) {
	ctx := context.Background()

	t.Run("lists cases without orders", func(t *testing.T) {
		server, err := NewServer(&Ports{Cases: &mockCaseService{cases: []domain.Case{*sampleCase()}}})
		require.NoError(t, err)

		result, err := server.handleCasesResource(ctx, makeReadResourceRequest("courtfetch://cases"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		text := result.Contents[0].Text
		assert.Contains(t, text, `"case_number": "ABC123"`)
		assert.NotContains(t, text, "orders")
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
	})

	t.Run("empty store gives empty list", func(t *testing.T) {
		server, err := NewServer(&Ports{Cases: &mockCaseService{}})
		require.NoError(t, err)

		result, err := server.handleCasesResource(ctx, makeReadResourceRequest("courtfetch://cases"))

		require.NoError(t, err)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("returns error on list failure", func(t *testing.T) {
		server, err := NewServer(&Ports{Cases: &mockCaseService{err: errors.New("database error")}})
		require.NoError(t, err)

		_, err = server.handleCasesResource(ctx, makeReadResourceRequest("courtfetch://cases"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing cases")
	})
}

func TestServer_handleCaseResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns case with orders", func(t *testing.T) {
		server, err := NewServer(&Ports{Cases: &mockCaseService{found: sampleCase()}})
		require.NoError(t, err)

		result, err := server.handleCaseResource(ctx, makeReadResourceRequest("courtfetch://cases/4"))

		require.NoError(t, err)
		assert.Contains(t, result.Contents[0].Text, `"pdf_text": "extracted"`)
	})

	t.Run("invalid URI returns not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Cases: &mockCaseService{found: sampleCase()}})
		require.NoError(t, err)

		_, err = server.handleCaseResource(ctx, makeReadResourceRequest("courtfetch://cases/x"))

		require.Error(t, err)
	})

	t.Run("unknown case returns not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Cases: &mockCaseService{}})
		require.NoError(t, err)

		_, err = server.handleCaseResource(ctx, makeReadResourceRequest("courtfetch://cases/9"))

		require.Error(t, err)
	})

	t.Run("store failure is wrapped", func(t *testing.T) {
		server, err := NewServer(&Ports{Cases: &mockCaseService{err: errors.New("database error")}})
		require.NoError(t, err)

		_, err = server.handleCaseResource(ctx, makeReadResourceRequest("courtfetch://cases/9"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "getting case")
	})
}
