package config

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// DefaultBlockedDomains lists paid course marketplaces whose links are never
// returned to learners.
var DefaultBlockedDomains = []string{
	"udemy.com",
	"coursera.org",
	"pluralsight.com",
	"skillshare.com",
	"udacity.com",
	"lynda.com",
	"codecademy.com",
}

// BlocklistConfig configures the domain blocklist applied to model resources.
type BlocklistConfig struct {
	Domains []string `mapstructure:"domains" json:"domains"`
}

// Normalize cleans entries and removes duplicates. An empty list falls back
// to DefaultBlockedDomains.
func (c BlocklistConfig) Normalize() BlocklistConfig {
	norm := c
	norm.Domains = sanitizeDomainList(norm.Domains)
	if len(norm.Domains) == 0 {
		norm.Domains = sanitizeDomainList(DefaultBlockedDomains)
	}
	return norm
}

// Validate ensures every configured entry is a bare host name.
func (c BlocklistConfig) Validate() error {
	for _, raw := range c.Domains {
		host := NormalizeHost(raw)
		if host == "" {
			continue
		}
		if strings.ContainsAny(host, "/ ?#") {
			return fmt.Errorf("blocklist entry %q is not a host name", raw)
		}
		if !strings.Contains(host, ".") {
			return fmt.Errorf("blocklist entry %q must include a top-level domain", raw)
		}
	}
	return nil
}

func sanitizeDomainList(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	for _, raw := range values {
		host := NormalizeHost(raw)
		if host == "" {
			continue
		}
		seen[host] = struct{}{}
	}
	if len(seen) == 0 {
		return nil
	}
	out := make([]string, 0, len(seen))
	for host := range seen {
		out = append(out, host)
	}
	sort.Strings(out)
	return out
}

// NormalizeHost reduces a host name or URL to a lower-case bare host with
// any "www." prefix and trailing dot removed. Blank input yields "".
func NormalizeHost(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return ""
	}
	if strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
		if u, err := url.Parse(value); err == nil && u.Host != "" {
			value = u.Hostname()
		}
	}
	value = strings.TrimPrefix(value, "www.")
	return strings.TrimSuffix(value, ".")
}
