// Package filename derives local file names for downloaded order documents.
package filename

import (
	"crypto/md5" //nolint:gosec // G501: content fingerprint for naming, not security
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// MaxLength is the longest name Sanitize returns, in bytes.
const MaxLength = 255

// Extension is appended to every generated name.
const Extension = ".pdf"

// Generate returns <type>_<number>_<year>_<hash8>.pdf, sanitized.
// The hash is the first 8 hex characters of the MD5 of rawURL, so the same
// inputs always produce the same name and distinct URLs rarely collide.
func Generate(caseType, caseNumber, filingYear, rawURL string) string {
	sum := md5.Sum([]byte(rawURL)) //nolint:gosec // see import
	hash := hex.EncodeToString(sum[:])[:8]
	return Sanitize(fmt.Sprintf("%s_%s_%s_%s%s", caseType, caseNumber, filingYear, hash, Extension))
}

// Sanitize replaces characters that are unsafe in file names with '_',
// strips leading and trailing dots and spaces, and caps the name at
// MaxLength bytes while keeping its extension.
func Sanitize(name string) string {
	name = strings.Map(replaceUnsafe, name)
	name = strings.Trim(name, ". ")

	if len(name) <= MaxLength {
		return name
	}

	ext := filepath.Ext(name)
	if len(ext) >= MaxLength {
		ext = ""
	}
	base := truncate(strings.TrimSuffix(name, ext), MaxLength-len(ext))
	return strings.TrimRight(base, ". ") + ext
}

func replaceUnsafe(r rune) rune {
	switch r {
	case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
		return '_'
	}
	if r < 0x20 || r == 0x7f {
		return '_'
	}
	return r
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// FormatSize renders a byte count for humans: 512 B, 1.5 KB, 2.0 MB.
func FormatSize(n int64) string {
	if n < 0 {
		n = 0
	}
	size := float64(n)
	for _, unit := range []string{"B", "KB", "MB"} {
		if size < 1024 {
			if unit == "B" {
				return fmt.Sprintf("%d B", n)
			}
			return fmt.Sprintf("%.1f %s", size, unit)
		}
		size /= 1024
	}
	return fmt.Sprintf("%.1f GB", size)
}
