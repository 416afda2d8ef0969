package policy

import (
	"testing"

	"github.com/mohammad-safakhou/learnmap/config"
)

func TestDefaultDomainPolicy(t *testing.T) {
	t.Parallel()
	p := DefaultDomainPolicy()
	tests := []struct {
		host string
		want bool
	}{
		{host: "udemy.com", want: true},
		{host: "www.udemy.com", want: true},
		{host: "WWW.UDEMY.COM", want: true},
		{host: "www.udemy.com.", want: true},
		{host: "https://learn.pluralsight.com./paths", want: true},
		{host: "blog.coursera.org", want: true},
		{host: "a.b.skillshare.com", want: true},
		{host: "codecademy.com", want: true},
		{host: "notudemy.com", want: false},
		{host: "udemy.com.evil.net", want: false},
		{host: "developer.mozilla.org", want: false},
		{host: "", want: false},
	}
	for _, tt := range tests {
		if got := p.IsBlockedDomain(tt.host); got != tt.want {
			t.Fatalf("IsBlockedDomain(%q) = %v, want %v", tt.host, got, tt.want)
		}
	}
}

func TestNewDomainPolicyFromConfig(t *testing.T) {
	t.Parallel()
	p, err := NewDomainPolicy(config.BlocklistConfig{Domains: []string{"https://www.Example.org/paid", "ads.test.com"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.IsBlockedDomain("shop.example.org") {
		t.Fatalf("expected subdomain of configured entry to be blocked")
	}
	if !p.IsBlockedDomain("ads.test.com") {
		t.Fatalf("expected exact match to be blocked")
	}
	if p.IsBlockedDomain("udemy.com") {
		t.Fatalf("explicit config should replace the default list")
	}
	if len(p.Domains()) != 2 {
		t.Fatalf("unexpected domains: %#v", p.Domains())
	}
}

func TestNewDomainPolicyValidation(t *testing.T) {
	t.Parallel()
	if _, err := NewDomainPolicy(config.BlocklistConfig{Domains: []string{"localhost"}}); err == nil {
		t.Fatalf("expected validation error for host without top-level domain")
	}
}

func TestNewDomainPolicyDefaultsWhenEmpty(t *testing.T) {
	t.Parallel()
	p, err := NewDomainPolicy(config.BlocklistConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.IsBlockedDomain("lynda.com") {
		t.Fatalf("expected default blocklist")
	}
}
