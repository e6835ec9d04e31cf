package dnsx

import (
	"context"
	"net"
)

// StdResolver implements Resolver using the standard library resolver.
// Nameserver selection is left to the operating system.
type StdResolver struct {
	resolver *net.Resolver
}

// NewStdResolver creates a resolver backed by net.DefaultResolver.
func NewStdResolver() *StdResolver {
	return &StdResolver{resolver: net.DefaultResolver}
}

// NewStdResolverWithDialer creates a resolver with a custom dial
// function, which allows pointing at specific DNS servers.
func NewStdResolverWithDialer(dial func(ctx context.Context, network, address string) (net.Conn, error)) *StdResolver {
	return &StdResolver{
		resolver: &net.Resolver{
			PreferGo: true,
			Dial:     dial,
		},
	}
}

// LookupIP resolves A and AAAA records for the domain.
func (r *StdResolver) LookupIP(ctx context.Context, domain string) ([]net.IP, error) {
	ips, err := r.resolver.LookupIP(ctx, "ip", domain)
	if err != nil {
		return nil, convertError(err)
	}
	if len(ips) == 0 {
		return nil, ErrNotFound
	}
	return ips, nil
}

// LookupMX resolves MX records for the domain.
func (r *StdResolver) LookupMX(ctx context.Context, domain string) ([]*net.MX, error) {
	records, err := r.resolver.LookupMX(ctx, domain)
	if err != nil {
		return nil, convertError(err)
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return records, nil
}

// LookupTXT resolves TXT records for the name.
func (r *StdResolver) LookupTXT(ctx context.Context, name string) ([]string, error) {
	records, err := r.resolver.LookupTXT(ctx, name)
	if err != nil {
		return nil, convertError(err)
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return records, nil
}
