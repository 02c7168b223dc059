package cli

import (
	"context"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd(t *testing.T) {
	originalVersion := version
	version = "test-version-1.0.0"
	defer func() {
		version = originalVersion
		versionShort = false
	}()

	out, err := run(context.Background(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "courtfetch version test-version-1.0.0")
	assert.Contains(t, out, runtime.Version())

	out, err = run(context.Background(), "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "test-version-1.0.0", strings.TrimSpace(out))
}

func TestSetVersion(t *testing.T) {
	originalVersion := version
	defer func() { version = originalVersion }()

	SetVersion("")
	assert.Equal(t, originalVersion, version)
	SetVersion("v2.0.0")
	assert.Equal(t, "v2.0.0", version)
	assert.Equal(t, "v2.0.0", resolvedVersion())
}
