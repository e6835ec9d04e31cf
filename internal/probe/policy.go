package probe

import (
	"context"
	"net"
	"sort"
	"strings"
	"time"

	"blitiri.com.ar/go/spf"
	"go.uber.org/zap"

	"github.com/mikey/mailprobe/internal/core"
	"github.com/mikey/mailprobe/internal/dnsx"
)

// DefaultDKIMSelectors is the ordered selector list tried during the
// DKIM walk. The extended tail covers the selectors the large providers
// publish under.
var DefaultDKIMSelectors = []string{
	"default", "google", "k1", "selector1", "selector2", "dkim",
	"s1", "s2", "mail", "smtp", "mandrill", "zmail",
}

// PolicyRecordProbe resolves the three published mail-authentication
// policies: SPF, DMARC and DKIM. The sub-checks are independent and
// each one collapses any DNS error to a failed feature; absence of a
// policy record is bad news, not an error.
type PolicyRecordProbe struct {
	resolver  dnsx.Resolver
	selectors []string
	timeout   time.Duration
	logger    *zap.Logger
}

// NewPolicyRecordProbe creates the policy-record probe.
func NewPolicyRecordProbe(resolver dnsx.Resolver, selectors []string, timeout time.Duration, logger *zap.Logger) *PolicyRecordProbe {
	if len(selectors) == 0 {
		selectors = DefaultDKIMSelectors
	}
	return &PolicyRecordProbe{
		resolver:  resolver,
		selectors: selectors,
		timeout:   timeout,
		logger:    logger,
	}
}

// Probe fills spfValidation, dmarcValidation and dkimValidation.
func (p *PolicyRecordProbe) Probe(ctx context.Context, email core.ParsedEmail) map[int]float64 {
	slots := map[int]float64{
		core.SlotSPFValidation:   0,
		core.SlotDMARCValidation: 0,
		core.SlotDKIMValidation:  0,
	}

	if p.hasRecordWithPrefix(ctx, email.Domain, "v=spf1") {
		slots[core.SlotSPFValidation] = 1
	}
	if p.hasRecordWithPrefix(ctx, "_dmarc."+email.Domain, "v=DMARC1") {
		slots[core.SlotDMARCValidation] = 1
	}
	if p.hasDKIM(ctx, email.Domain) {
		slots[core.SlotDKIMValidation] = 1
	}

	return slots
}

// hasRecordWithPrefix reports whether any TXT record under name starts
// with the given prefix (case-insensitive).
func (p *PolicyRecordProbe) hasRecordWithPrefix(ctx context.Context, name, prefix string) bool {
	tctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	records, err := p.resolver.LookupTXT(tctx, name)
	if err != nil {
		p.logger.Debug("TXT lookup failed", zap.String("name", name), zap.Error(err))
		return false
	}

	want := strings.ToLower(prefix)
	for _, record := range records {
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(record)), want) {
			return true
		}
	}
	return false
}

// hasDKIM walks the selector list in order and stops at the first
// selector publishing a v=DKIM1 record. Exhausting the list is a fail,
// not an error.
func (p *PolicyRecordProbe) hasDKIM(ctx context.Context, domain string) bool {
	for _, selector := range p.selectors {
		if ctx.Err() != nil {
			return false
		}
		name := selector + "._domainkey." + domain
		if p.hasRecordWithPrefix(ctx, name, "v=DKIM1") {
			return true
		}
	}
	return false
}

// EvaluateSPF runs a full SPF evaluation for the domain's primary mail
// exchanger: would the domain's published policy authorize its own MX
// to send? A mismatch is a strong misconfiguration signal. The verdict
// is advisory only and never feeds the feature vector.
func (p *PolicyRecordProbe) EvaluateSPF(ctx context.Context, email core.ParsedEmail) (string, error) {
	mctx, cancel := context.WithTimeout(ctx, p.timeout)
	mxs, err := p.resolver.LookupMX(mctx, email.Domain)
	cancel()
	if err != nil || len(mxs) == 0 {
		return "", err
	}

	sort.Slice(mxs, func(i, j int) bool { return mxs[i].Pref < mxs[j].Pref })
	host := strings.TrimSuffix(mxs[0].Host, ".")

	ictx, cancel := context.WithTimeout(ctx, p.timeout)
	ips, err := p.resolver.LookupIP(ictx, host)
	cancel()
	if err != nil || len(ips) == 0 {
		return "", err
	}

	var ip net.IP
	for _, candidate := range ips {
		if v4 := candidate.To4(); v4 != nil {
			ip = v4
			break
		}
	}
	if ip == nil {
		ip = ips[0]
	}

	type outcome struct {
		result spf.Result
		err    error
	}
	ch := make(chan outcome, 1)
	go func() {
		result, err := spf.CheckHostWithSender(ip, email.Domain, "postmaster@"+email.Domain)
		ch <- outcome{result, err}
	}()

	select {
	case out := <-ch:
		if out.err != nil && out.result == "" {
			return "", out.err
		}
		return string(out.result), nil
	case <-time.After(p.timeout):
		return "", dnsx.ErrTimeout
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
