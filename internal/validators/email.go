package validators

import (
	"context"
	"net"
	"strings"
	"time"
)

const domainLookupTimeout = 3 * time.Second

// DomainResolver is the part of *net.Resolver the domain check needs.
type DomainResolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// EmailDomainChecker accepts an address whose domain has an MX record or,
// failing that, resolves to an address.
type EmailDomainChecker struct {
	Resolver DomainResolver
	Timeout  time.Duration
}

func (c EmailDomainChecker) Valid(ctx context.Context, email string) bool {
	_, domain, ok := strings.Cut(strings.TrimSpace(email), "@")
	domain = strings.TrimSuffix(strings.ToLower(domain), ".")
	if !ok || domain == "" || strings.Contains(domain, "@") {
		return false
	}

	resolver := c.Resolver
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = domainLookupTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if mx, err := resolver.LookupMX(ctx, domain); err == nil && len(mx) > 0 {
		return true
	}

	ips, err := resolver.LookupIPAddr(ctx, domain)
	return err == nil && len(ips) > 0
}

// IsEmailDomainValid runs the check against the system resolver.
func IsEmailDomainValid(email string) bool {
	return EmailDomainChecker{}.Valid(context.Background(), email)
}
