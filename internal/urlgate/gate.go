// Package urlgate decides which URLs the fetcher may touch.
//
// A URL passes only if it parses with both a scheme and a host, carries no
// userinfo, and its host (port included) is an exact, case-sensitive member
// of the allow-list. Subdomains of an allowed host are not allowed.
package urlgate

import (
	"fmt"
	"net/url"
	"slices"
	"sync"

	"github.com/custodia-labs/court-case-fetcher/internal/core/domain"
)

// IsWellFormed reports whether raw parses with a non-empty scheme and host.
func IsWellFormed(raw string) bool {
	_, err := parse(raw)
	return err == nil
}

// IsSafe reports whether raw is well-formed and its host is allow-listed.
// With no allowed hosts the default court host is used.
func IsSafe(raw string, allowed ...string) bool {
	if len(allowed) == 0 {
		allowed = []string{domain.DefaultCourtHost}
	}
	return New(allowed).Allows(raw)
}

// Gate is an allow-list check shared by everything that fetches.
// It is safe for concurrent use; Replace swaps the list on config reload.
type Gate struct {
	mu    sync.RWMutex
	hosts []string
}

// New creates a gate for the given hosts. Empty entries are ignored.
// A gate with no hosts rejects everything.
func New(hosts []string) *Gate {
	g := &Gate{}
	g.Replace(hosts)
	return g
}

// Replace swaps the allow-list.
func (g *Gate) Replace(hosts []string) {
	var list []string
	for _, h := range hosts {
		if h != "" && !slices.Contains(list, h) {
			list = append(list, h)
		}
	}
	g.mu.Lock()
	g.hosts = list
	g.mu.Unlock()
}

// Hosts returns a copy of the allow-list.
func (g *Gate) Hosts() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return slices.Clone(g.hosts)
}

// Allows reports whether raw passes the gate.
func (g *Gate) Allows(raw string) bool {
	return g.Check(raw) == nil
}

// Check returns an error wrapping domain.ErrUnsafeURL when raw is rejected.
func (g *Gate) Check(raw string) error {
	u, err := parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUnsafeURL, err)
	}
	return g.checkURL(u)
}

// CheckURL is Check for an already parsed URL, as seen on redirects.
func (g *Gate) CheckURL(u *url.URL) error {
	if u == nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: missing scheme or host", domain.ErrUnsafeURL)
	}
	return g.checkURL(u)
}

func (g *Gate) checkURL(u *url.URL) error {
	if u.User != nil {
		return fmt.Errorf("%w: userinfo not allowed", domain.ErrUnsafeURL)
	}
	g.mu.RLock()
	allowed := slices.Contains(g.hosts, u.Host)
	g.mu.RUnlock()
	if !allowed {
		return fmt.Errorf("%w: host %q is not allowed", domain.ErrUnsafeURL, u.Host)
	}
	return nil
}

func parse(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("url %q is missing a scheme or host", raw)
	}
	return u, nil
}
