package accounts

import (
	"context"
	"fmt"
	"net"
	"strings"
)

type DomainVerifier interface {
	Verify(ctx context.Context, domain string) VerificationStatus
}

// CNAMEVerifier checks that domain is a CNAME pointing at Target.
type CNAMEVerifier struct {
	Target   string
	Resolver *net.Resolver
}

func (v CNAMEVerifier) Verify(ctx context.Context, domain string) VerificationStatus {
	domain = strings.TrimSpace(domain)
	resolver := v.Resolver
	if resolver == nil {
		resolver = net.DefaultResolver
	}

	cname, err := resolver.LookupCNAME(ctx, domain)
	if err == nil && sameHost(cname, v.Target) {
		return VerificationStatus{
			Success: true,
			Message: fmt.Sprintf("%s domain is correctly configured!", domain),
		}
	}
	return VerificationStatus{
		Success: false,
		Message: fmt.Sprintf("Domain verification failed. Please make sure you have correctly configured the DNS record for %s.", domain),
	}
}

func sameHost(a, b string) bool {
	norm := func(s string) string {
		return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), ".")
	}
	return norm(b) != "" && norm(a) == norm(b)
}
