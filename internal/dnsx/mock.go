package dnsx

import (
	"context"
	"net"
	"slices"
	"sync/atomic"
	"time"
)

// MockResolver is a map-backed Resolver for tests. Keys are the queried
// names exactly as the pipeline asks for them (no trailing dot).
type MockResolver struct {
	A   map[string][]string
	MX  map[string][]*net.MX
	TXT map[string][]string

	// Fail lists queries that return ErrServFail instead of a result.
	// Format: "type name", e.g. "txt example.com" with lowercase type.
	Fail []string

	// Delay stalls every lookup for the duration, honoring context
	// cancellation, to simulate a slow or unreachable upstream.
	Delay time.Duration

	queries atomic.Int64
}

var _ Resolver = (*MockResolver)(nil)

// Queries returns how many lookups have been issued, across all types.
func (m *MockResolver) Queries() int64 {
	return m.queries.Load()
}

func (m *MockResolver) check(ctx context.Context, kind, name string) error {
	m.queries.Add(1)
	if m.Delay > 0 {
		timer := time.NewTimer(m.Delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if slices.Contains(m.Fail, kind+" "+name) {
		return ErrServFail
	}
	return nil
}

// LookupIP returns configured A records for the domain.
func (m *MockResolver) LookupIP(ctx context.Context, domain string) ([]net.IP, error) {
	if err := m.check(ctx, "a", domain); err != nil {
		return nil, err
	}

	raw, ok := m.A[domain]
	if !ok || len(raw) == 0 {
		return nil, ErrNotFound
	}

	ips := make([]net.IP, 0, len(raw))
	for _, s := range raw {
		if ip := net.ParseIP(s); ip != nil {
			ips = append(ips, ip)
		}
	}
	return ips, nil
}

// LookupMX returns configured MX records for the domain.
func (m *MockResolver) LookupMX(ctx context.Context, domain string) ([]*net.MX, error) {
	if err := m.check(ctx, "mx", domain); err != nil {
		return nil, err
	}

	records, ok := m.MX[domain]
	if !ok || len(records) == 0 {
		return nil, ErrNotFound
	}
	return records, nil
}

// LookupTXT returns configured TXT records for the name.
func (m *MockResolver) LookupTXT(ctx context.Context, name string) ([]string, error) {
	if err := m.check(ctx, "txt", name); err != nil {
		return nil, err
	}

	records, ok := m.TXT[name]
	if !ok || len(records) == 0 {
		return nil, ErrNotFound
	}
	return records, nil
}
