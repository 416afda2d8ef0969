package validation

import (
	"context"

	"github.com/mohammad-safakhou/learnmap/internal/policy"
)

var (
	defaultChecker = NewHTTPChecker()
	defaultDomains = policy.DefaultDomainPolicy()
)

// IsReachable probes rawURL with the default HTTP checker.
func IsReachable(ctx context.Context, rawURL string) bool {
	return defaultChecker.IsReachable(ctx, rawURL)
}

// IsBlockedDomain checks hostname against the default marketplace blocklist.
func IsBlockedDomain(hostname string) bool {
	return defaultDomains.IsBlockedDomain(hostname)
}
