package probe

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/mailprobe/internal/core"
)

// networkProbe is one independent network reconnaissance step. A probe
// returns the slot values it owns; it never returns an error — faults
// are collapsed to conservative values inside the probe.
type networkProbe interface {
	Probe(ctx context.Context, email core.ParsedEmail) map[int]float64
}

// Aggregator orchestrates every probe against one address and
// assembles the feature vector in canonical label order.
//
// Policy: if the parser rejects the input, every slot stays 0 and no
// network probe runs at all. Otherwise the network probes fan out
// concurrently under the call deadline; a probe that panics or misses
// the deadline contributes 0 for its slots while completed results are
// preserved.
type Aggregator struct {
	syntax      *SyntaxChecker
	reputation  *ReputationScorer
	network     []namedProbe
	callTimeout time.Duration
	logger      *zap.Logger
}

type namedProbe struct {
	name  string
	probe networkProbe
}

// NewAggregator wires the pipeline. smtp may be nil when the SMTP
// probe is disabled under load; its slot then defaults to 0.
func NewAggregator(
	syntax *SyntaxChecker,
	reputation *ReputationScorer,
	dns *DNSProbe,
	dnsbl *BlacklistProbe,
	policy *PolicyRecordProbe,
	smtp *SMTPProbe,
	callTimeout time.Duration,
	logger *zap.Logger,
) *Aggregator {
	a := &Aggregator{
		syntax:      syntax,
		reputation:  reputation,
		callTimeout: callTimeout,
		logger:      logger,
	}
	a.network = append(a.network,
		namedProbe{"dns", dns},
		namedProbe{"dnsbl", dnsbl},
		namedProbe{"policy", policy},
	)
	if smtp != nil {
		a.network = append(a.network, namedProbe{"smtp", smtp})
	}
	return a
}

// Extract produces the feature vector for one raw address. The boolean
// reports whether the input parsed; a false return means the vector is
// all-zero and no network traffic was generated.
func (a *Aggregator) Extract(ctx context.Context, rawAddress string) (core.FeatureVector, bool) {
	vec := core.NewFeatureVector()

	email, ok := ParseAddress(rawAddress)
	if !ok {
		a.logger.Debug("Input rejected by parser", zap.String("input", rawAddress))
		return vec, false
	}
	vec[core.SlotInputValidation] = 1

	// Local probes run inline: pure computation, no I/O.
	if a.syntax.Check(email) {
		vec[core.SlotSyntaxValidation] = 1
	}
	a.reputation.Score(email, vec)

	a.fanOut(ctx, email, vec)
	return vec, true
}

// fanOut runs the network probes concurrently and merges their slots.
// Each probe writes to its own result cell, so no lock is needed when
// merging after the wait.
func (a *Aggregator) fanOut(ctx context.Context, email core.ParsedEmail, vec core.FeatureVector) {
	cctx, cancel := context.WithTimeout(ctx, a.callTimeout)
	defer cancel()

	results := make([]map[int]float64, len(a.network))
	var wg sync.WaitGroup

	for i, np := range a.network {
		wg.Add(1)
		go func(i int, np namedProbe) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					// One broken probe must not blank the vector;
					// its slots stay at the default 0.
					a.logger.Warn("Probe panicked",
						zap.String("probe", np.name),
						zap.Any("panic", r))
					results[i] = nil
				}
			}()
			results[i] = np.probe.Probe(cctx, email)
		}(i, np)
	}
	wg.Wait()

	for i, slots := range results {
		if slots == nil {
			a.logger.Debug("Probe contributed defaults", zap.String("probe", a.network[i].name))
			continue
		}
		for slot, value := range slots {
			vec[slot] = value
		}
	}
}
