package probe

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/mailprobe/internal/adapters/smtpcheck"
	"github.com/mikey/mailprobe/internal/core"
	"github.com/mikey/mailprobe/internal/dnsx"
)

// SMTPProbe opens a bounded-timeout SMTP handshake against the
// domain's best mail exchanger. It is the most expensive and least
// reliable probe: every network error, timeout or protocol rejection
// collapses to a zero feature.
type SMTPProbe struct {
	resolver dnsx.Resolver
	dialer   smtpcheck.Dialer
	timeout  time.Duration
	maxHosts int
	logger   *zap.Logger
}

// NewSMTPProbe creates the deliverability probe. maxHosts caps how many
// exchangers are tried, lowest preference first.
func NewSMTPProbe(resolver dnsx.Resolver, dialer smtpcheck.Dialer, timeout time.Duration, maxHosts int, logger *zap.Logger) *SMTPProbe {
	if maxHosts <= 0 {
		maxHosts = 2
	}
	return &SMTPProbe{
		resolver: resolver,
		dialer:   dialer,
		timeout:  timeout,
		maxHosts: maxHosts,
		logger:   logger,
	}
}

// Probe fills smtpValidation.
func (p *SMTPProbe) Probe(ctx context.Context, email core.ParsedEmail) map[int]float64 {
	slots := map[int]float64{core.SlotSMTPValidation: 0}

	mctx, cancel := context.WithTimeout(ctx, p.timeout)
	mxs, err := p.resolver.LookupMX(mctx, email.Domain)
	cancel()
	if err != nil || len(mxs) == 0 {
		return slots
	}

	sort.Slice(mxs, func(i, j int) bool { return mxs[i].Pref < mxs[j].Pref })

	tried := 0
	for _, mx := range mxs {
		if tried >= p.maxHosts || ctx.Err() != nil {
			break
		}
		host := strings.TrimSuffix(mx.Host, ".")
		if host == "" {
			continue
		}
		tried++

		hctx, cancel := context.WithTimeout(ctx, p.timeout)
		err := p.dialer.Handshake(hctx, host, email.Address)
		cancel()
		if err == nil {
			slots[core.SlotSMTPValidation] = 1
			return slots
		}
		p.logger.Debug("SMTP handshake failed",
			zap.String("host", host),
			zap.String("domain", email.Domain),
			zap.Error(err))
	}
	return slots
}
