package policy

import (
	"strings"

	"github.com/mohammad-safakhou/learnmap/config"
)

// DomainPolicy rejects resources hosted on blocklisted domains. A domain
// blocks itself and every subdomain beneath it.
type DomainPolicy struct {
	blocked map[string]struct{}
}

// NewDomainPolicy builds a DomainPolicy from configuration. An empty
// configuration yields the default marketplace blocklist.
func NewDomainPolicy(cfg config.BlocklistConfig) (DomainPolicy, error) {
	if err := cfg.Validate(); err != nil {
		return DomainPolicy{}, err
	}
	cfg = cfg.Normalize()
	return DomainPolicy{blocked: listToSet(cfg.Domains)}, nil
}

// DefaultDomainPolicy returns the policy for config.DefaultBlockedDomains.
func DefaultDomainPolicy() DomainPolicy {
	return DomainPolicy{blocked: listToSet(config.DefaultBlockedDomains)}
}

// IsBlockedDomain reports whether hostname equals a blocked domain or is a
// subdomain of one. Matching is case-insensitive and ignores a leading "www.".
func (p DomainPolicy) IsBlockedDomain(hostname string) bool {
	host := config.NormalizeHost(hostname)
	if host == "" {
		return false
	}
	for {
		if _, ok := p.blocked[host]; ok {
			return true
		}
		idx := strings.IndexByte(host, '.')
		if idx < 0 {
			return false
		}
		host = host[idx+1:]
	}
}

// Domains returns the blocked domains in no particular order.
func (p DomainPolicy) Domains() []string {
	out := make([]string, 0, len(p.blocked))
	for host := range p.blocked {
		out = append(out, host)
	}
	return out
}

func listToSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		host := config.NormalizeHost(item)
		if host == "" {
			continue
		}
		set[host] = struct{}{}
	}
	return set
}
