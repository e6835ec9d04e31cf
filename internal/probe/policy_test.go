package probe_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/mikey/mailprobe/internal/core"
	"github.com/mikey/mailprobe/internal/dnsx"
	"github.com/mikey/mailprobe/internal/probe"
)

func TestPolicyRecordProbe(t *testing.T) {
	tests := []struct {
		name      string
		txt       map[string][]string
		wantSPF   float64
		wantDMARC float64
		wantDKIM  float64
	}{
		{
			name: "all policies published",
			txt: map[string][]string{
				"example.com":                    {"v=spf1 mx -all"},
				"_dmarc.example.com":             {"v=DMARC1; p=reject"},
				"default._domainkey.example.com": {"v=DKIM1; k=rsa; p=MIGf"},
			},
			wantSPF: 1, wantDMARC: 1, wantDKIM: 1,
		},
		{
			name: "prefix match is case insensitive",
			txt: map[string][]string{
				"example.com":        {"V=SPF1 include:_spf.example.com ~all"},
				"_dmarc.example.com": {"v=dmarc1; p=none"},
			},
			wantSPF: 1, wantDMARC: 1, wantDKIM: 0,
		},
		{
			name: "unrelated TXT records ignored",
			txt: map[string][]string{
				"example.com": {"google-site-verification=abc123"},
			},
			wantSPF: 0, wantDMARC: 0, wantDKIM: 0,
		},
		{
			name:    "nothing published",
			wantSPF: 0, wantDMARC: 0, wantDKIM: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := &dnsx.MockResolver{TXT: tt.txt}
			p := probe.NewPolicyRecordProbe(resolver, nil, time.Second, zap.NewNop())

			slots := p.Probe(context.Background(), parsed(t, "user@example.com"))

			assert.Equal(t, tt.wantSPF, slots[core.SlotSPFValidation])
			assert.Equal(t, tt.wantDMARC, slots[core.SlotDMARCValidation])
			assert.Equal(t, tt.wantDKIM, slots[core.SlotDKIMValidation])
		})
	}
}

func TestPolicyDKIMSelectorWalkShortCircuits(t *testing.T) {
	resolver := &dnsx.MockResolver{TXT: map[string][]string{
		"b._domainkey.example.com": {"v=DKIM1; p=MIGf"},
	}}
	selectors := []string{"a", "b", "c", "d"}
	p := probe.NewPolicyRecordProbe(resolver, selectors, time.Second, zap.NewNop())

	slots := p.Probe(context.Background(), parsed(t, "user@example.com"))
	assert.Equal(t, 1.0, slots[core.SlotDKIMValidation])

	// SPF + DMARC + two selector lookups: the walk stopped at "b".
	assert.Equal(t, int64(4), resolver.Queries())
}

func TestPolicyDKIMSelectorWalkExhausts(t *testing.T) {
	resolver := &dnsx.MockResolver{}
	selectors := []string{"a", "b", "c"}
	p := probe.NewPolicyRecordProbe(resolver, selectors, time.Second, zap.NewNop())

	slots := p.Probe(context.Background(), parsed(t, "user@example.com"))
	assert.Equal(t, 0.0, slots[core.SlotDKIMValidation])
	assert.Equal(t, int64(2+len(selectors)), resolver.Queries())
}

func TestPolicyLookupFailureIsZeroFeature(t *testing.T) {
	resolver := &dnsx.MockResolver{
		TXT:  map[string][]string{"example.com": {"v=spf1 -all"}},
		Fail: []string{"txt _dmarc.example.com"},
	}
	p := probe.NewPolicyRecordProbe(resolver, []string{"default"}, time.Second, zap.NewNop())

	slots := p.Probe(context.Background(), parsed(t, "user@example.com"))
	assert.Equal(t, 1.0, slots[core.SlotSPFValidation])
	assert.Equal(t, 0.0, slots[core.SlotDMARCValidation])
}
