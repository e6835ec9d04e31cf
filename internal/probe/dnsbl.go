package probe

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/mailprobe/internal/core"
	"github.com/mikey/mailprobe/internal/dnsx"
)

// DefaultDNSBLZones are the blacklist zones walked when none are configured.
var DefaultDNSBLZones = []string{
	"zen.spamhaus.org",
	"bl.spamcop.net",
	"b.barracudacentral.org",
}

// BlacklistProbe walks DNSBL zones against the IPv4 addresses of each
// of the domain's mail exchangers. Query volume is
// O(MX hosts x IPs x zones), so the queries fan out over a bounded
// worker pool with a per-query timeout.
//
// Error policy is asymmetric on purpose: a lookup that resolves is a
// listing hit, NXDOMAIN is a clean result, and every other resolution
// error is inconclusive and skipped.
type BlacklistProbe struct {
	resolver dnsx.Resolver
	zones    []string
	workers  int
	timeout  time.Duration
	logger   *zap.Logger
}

// NewBlacklistProbe creates the DNSBL probe. workers bounds concurrent
// zone queries; timeout applies per query.
func NewBlacklistProbe(resolver dnsx.Resolver, zones []string, workers int, timeout time.Duration, logger *zap.Logger) *BlacklistProbe {
	if len(zones) == 0 {
		zones = DefaultDNSBLZones
	}
	if workers <= 0 {
		workers = 8
	}
	return &BlacklistProbe{
		resolver: resolver,
		zones:    zones,
		workers:  workers,
		timeout:  timeout,
		logger:   logger,
	}
}

// Probe fills dnsblValidation: 1 when no MX IP is listed in any zone.
// A domain with no mail infrastructure has nothing to blacklist and is
// treated as clean.
func (p *BlacklistProbe) Probe(ctx context.Context, email core.ParsedEmail) map[int]float64 {
	mctx, cancel := context.WithTimeout(ctx, p.timeout)
	mxs, err := p.resolver.LookupMX(mctx, email.Domain)
	cancel()
	if err != nil || len(mxs) == 0 {
		return map[int]float64{core.SlotDNSBLValidation: 1}
	}

	queries := p.collectQueries(ctx, mxs)
	if len(queries) == 0 {
		return map[int]float64{core.SlotDNSBLValidation: 1}
	}

	// Fan out. The first hit cancels everything still pending.
	qctx, stop := context.WithCancel(ctx)
	defer stop()

	jobs := make(chan string)
	var listed atomic.Bool
	var wg sync.WaitGroup

	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for query := range jobs {
				if listed.Load() {
					continue
				}
				if p.isListed(qctx, query) {
					listed.Store(true)
					stop()
				}
			}
		}()
	}

	for _, q := range queries {
		select {
		case jobs <- q:
		case <-qctx.Done():
		}
		if listed.Load() || qctx.Err() != nil {
			break
		}
	}
	close(jobs)
	wg.Wait()

	if listed.Load() {
		p.logger.Debug("Domain mail exchanger is blacklisted", zap.String("domain", email.Domain))
		return map[int]float64{core.SlotDNSBLValidation: 0}
	}
	return map[int]float64{core.SlotDNSBLValidation: 1}
}

// collectQueries resolves every MX host to its IPv4 addresses and
// builds the <reversed-ip>.<zone> query names.
func (p *BlacklistProbe) collectQueries(ctx context.Context, mxs []*net.MX) []string {
	var queries []string
	seen := make(map[string]struct{})

	for _, mx := range mxs {
		host := strings.TrimSuffix(mx.Host, ".")
		if host == "" {
			continue
		}

		hctx, cancel := context.WithTimeout(ctx, p.timeout)
		ips, err := p.resolver.LookupIP(hctx, host)
		cancel()
		if err != nil {
			p.logger.Debug("MX host resolution failed", zap.String("host", host), zap.Error(err))
			continue
		}

		for _, ip := range ips {
			v4 := ip.To4()
			if v4 == nil {
				continue
			}
			reversed := reverseOctets(v4)
			for _, zone := range p.zones {
				query := reversed + "." + zone
				if _, dup := seen[query]; dup {
					continue
				}
				seen[query] = struct{}{}
				queries = append(queries, query)
			}
		}
	}
	return queries
}

// isListed reports a positive blacklist hit for the query. NXDOMAIN is
// clean; any other error is inconclusive and counts as clean too.
func (p *BlacklistProbe) isListed(ctx context.Context, query string) bool {
	qctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	_, err := p.resolver.LookupIP(qctx, query)
	if err == nil {
		return true
	}
	if !dnsx.IsNotFound(err) {
		p.logger.Debug("DNSBL query inconclusive", zap.String("query", query), zap.Error(err))
	}
	return false
}

// reverseOctets renders a.b.c.d as d.c.b.a for DNSBL queries.
func reverseOctets(ip net.IP) string {
	return fmt.Sprintf("%d.%d.%d.%d", ip[3], ip[2], ip[1], ip[0])
}
