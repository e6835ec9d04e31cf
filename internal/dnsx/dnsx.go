// Package dnsx defines the DNS resolver boundary used by the
// verification pipeline. All probes resolve through the Resolver
// interface so tests can substitute a mock and so the DNSBL NXDOMAIN
// distinction stays observable to callers.
package dnsx

import (
	"context"
	"errors"
	"net"
)

var (
	// ErrNotFound is returned when the queried name does not exist (NXDOMAIN)
	// or exists with no records of the requested type.
	ErrNotFound = errors.New("dnsx: name not found")

	// ErrTimeout is returned when a query exceeds its deadline.
	ErrTimeout = errors.New("dnsx: query timed out")

	// ErrServFail is returned on SERVFAIL and other temporary upstream failures.
	ErrServFail = errors.New("dnsx: server failure")

	// ErrRefused is returned when the upstream refuses the query.
	ErrRefused = errors.New("dnsx: query refused")
)

// Resolver is the capability set the pipeline needs from DNS:
// existence records, mail exchangers and TXT policy records.
// Implementations must honor the context deadline per call.
type Resolver interface {
	// LookupIP resolves A/AAAA records for the domain.
	LookupIP(ctx context.Context, domain string) ([]net.IP, error)

	// LookupMX resolves MX records for the domain.
	LookupMX(ctx context.Context, domain string) ([]*net.MX, error)

	// LookupTXT resolves TXT records for the name.
	LookupTXT(ctx context.Context, name string) ([]string, error)
}

// IsNotFound reports whether err means the name definitively does not
// exist, as opposed to a transient resolution failure.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// convertError maps standard library DNS errors to package sentinels.
func convertError(err error) error {
	if err == nil {
		return nil
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		switch {
		case dnsErr.IsNotFound:
			return ErrNotFound
		case dnsErr.IsTimeout:
			return ErrTimeout
		case dnsErr.IsTemporary:
			return ErrServFail
		}
	}
	return err
}
