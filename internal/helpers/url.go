package helpers

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net"
	"net/url"
	"path"
	"sort"
	"strings"
)

var (
	// ErrRelativeURL is returned when a reference has no scheme.
	ErrRelativeURL = errors.New("url is not absolute")
	// ErrMissingHost is returned when a web URL has no host component.
	ErrMissingHost = errors.New("url missing host")
)

var trackingQueryParams = map[string]struct{}{
	"utm_source":   {},
	"utm_medium":   {},
	"utm_campaign": {},
	"utm_term":     {},
	"utm_content":  {},
	"utm_id":       {},
	"gclid":        {},
	"dclid":        {},
	"fbclid":       {},
	"msclkid":      {},
	"igshid":       {},
}

// ParseAbsoluteURL parses raw and requires a scheme. Web URLs (http/https)
// must also carry a host. Scheme and host are lower-cased, the default port
// is dropped and an empty path becomes "/", so String() yields the canonical
// serialisation a browser would produce.
func ParseAbsoluteURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("empty url")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if parsed.Scheme == "" {
		return nil, ErrRelativeURL
	}
	parsed.Scheme = strings.ToLower(parsed.Scheme)
	if !IsWebScheme(parsed.Scheme) {
		return parsed, nil
	}
	if parsed.Host == "" {
		return nil, ErrMissingHost
	}
	parsed.Host = stripDefaultPort(parsed.Scheme, strings.ToLower(parsed.Host))
	if parsed.Path == "" && parsed.Opaque == "" {
		parsed.Path = "/"
	}
	return parsed, nil
}

// IsWebScheme reports whether scheme is http or https.
func IsWebScheme(scheme string) bool {
	switch strings.ToLower(scheme) {
	case "http", "https":
		return true
	default:
		return false
	}
}

func stripDefaultPort(scheme, host string) string {
	h, port, err := net.SplitHostPort(host)
	if err != nil {
		return host
	}
	if (scheme == "http" && port == "80") || (scheme == "https" && port == "443") {
		if strings.Contains(h, ":") {
			return "[" + h + "]"
		}
		return h
	}
	return host
}

// CanonicalURL normalises a URL for fingerprinting: fragment dropped, path
// cleaned, tracking parameters removed and remaining query parameters sorted.
// Schemeless input defaults to https.
func CanonicalURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("empty url")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + strings.TrimPrefix(raw, "//")
	}
	parsed, err := ParseAbsoluteURL(raw)
	if err != nil {
		return "", err
	}
	if parsed.Host == "" {
		return "", ErrMissingHost
	}

	cleanPath := path.Clean(parsed.Path)
	if cleanPath == "." {
		cleanPath = "/"
	}
	if cleanPath != "/" && strings.HasSuffix(parsed.Path, "/") {
		cleanPath += "/"
	}
	parsed.Path = cleanPath
	parsed.RawPath = ""
	parsed.Fragment = ""

	query := parsed.Query()
	keys := make([]string, 0, len(query))
	for key := range query {
		if _, drop := trackingQueryParams[strings.ToLower(key)]; drop {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, key := range keys {
		values := append([]string(nil), query[key]...)
		sort.Strings(values)
		for _, value := range values {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(key))
			if value != "" {
				b.WriteByte('=')
				b.WriteString(url.QueryEscape(value))
			}
		}
	}
	parsed.RawQuery = b.String()
	return parsed.String(), nil
}

// URLFingerprint returns a SHA-256 hex digest of the canonical URL.
func URLFingerprint(raw string) (string, error) {
	canonical, err := CanonicalURL(raw)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:]), nil
}
