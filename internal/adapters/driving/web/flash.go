package web

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
)

const flashCookie = "courtfetch_flash"

// Flash categories.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a one-shot message shown on the next page view.
type Flash struct {
	Category string `json:"c"`
	Message  string `json:"m"`
}

// flasher stores flashes in a cookie signed with HMAC-SHA256.
type flasher struct {
	key []byte
}

// newFlasher signs with secret, or with a random per-process key when
// secret is empty.
func newFlasher(secret string) *flasher {
	if secret != "" {
		return &flasher{key: []byte(secret)}
	}
	key := make([]byte, 32)
	rand.Read(key) // never fails since Go 1.24
	return &flasher{key: key}
}

func (f *flasher) set(w http.ResponseWriter, flash Flash) {
	payload, err := json.Marshal(flash)
	if err != nil {
		return
	}
	encoded := base64.RawURLEncoding.EncodeToString(payload)
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    encoded + "." + f.sign(encoded),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// pop returns the pending flash, if it carries a valid signature, and
// clears the cookie.
func (f *flasher) pop(w http.ResponseWriter, r *http.Request) *Flash {
	cookie, err := r.Cookie(flashCookie)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	encoded, sig, ok := strings.Cut(cookie.Value, ".")
	if !ok || !hmac.Equal([]byte(sig), []byte(f.sign(encoded))) {
		return nil
	}
	payload, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil
	}
	var flash Flash
	if err := json.Unmarshal(payload, &flash); err != nil {
		return nil
	}
	return &flash
}

func (f *flasher) sign(encoded string) string {
	mac := hmac.New(sha256.New, f.key)
	mac.Write([]byte(encoded))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
