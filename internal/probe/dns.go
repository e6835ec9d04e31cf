package probe

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/mailprobe/internal/core"
	"github.com/mikey/mailprobe/internal/dnsx"
)

// mxCountCap divides the MX record count feature; five or more
// exchangers clamp to 1.
const mxCountCap = 5

// DNSProbe resolves the existence records for the domain: A records and
// mail exchangers. Resolution errors of any kind map to a zero feature;
// DNS unavailability is business as usual, never a system fault.
type DNSProbe struct {
	resolver dnsx.Resolver
	timeout  time.Duration
	logger   *zap.Logger
}

// NewDNSProbe creates the existence-record probe.
func NewDNSProbe(resolver dnsx.Resolver, timeout time.Duration, logger *zap.Logger) *DNSProbe {
	return &DNSProbe{resolver: resolver, timeout: timeout, logger: logger}
}

// Probe fills dnsValidation, mxValidation and mxRecordCount.
func (p *DNSProbe) Probe(ctx context.Context, email core.ParsedEmail) map[int]float64 {
	slots := map[int]float64{
		core.SlotDNSValidation: 0,
		core.SlotMXValidation:  0,
		core.SlotMXRecordCount: 0,
	}

	actx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	ips, err := p.resolver.LookupIP(actx, email.Domain)
	if err != nil {
		p.logger.Debug("A record lookup failed", zap.String("domain", email.Domain), zap.Error(err))
	} else {
		// Existence means an A record; an AAAA-only answer does not count.
		for _, ip := range ips {
			if ip.To4() != nil {
				slots[core.SlotDNSValidation] = 1
				break
			}
		}
	}

	mctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	mxs, err := p.resolver.LookupMX(mctx, email.Domain)
	if err != nil {
		p.logger.Debug("MX lookup failed", zap.String("domain", email.Domain), zap.Error(err))
		return slots
	}

	usable := 0
	for _, mx := range mxs {
		if strings.TrimSpace(strings.TrimSuffix(mx.Host, ".")) != "" {
			usable++
		}
	}
	if usable > 0 {
		slots[core.SlotMXValidation] = 1
	}
	slots[core.SlotMXRecordCount] = clamp(float64(usable) / mxCountCap)

	return slots
}
