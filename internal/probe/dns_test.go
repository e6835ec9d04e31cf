package probe_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/mailprobe/internal/core"
	"github.com/mikey/mailprobe/internal/dnsx"
	"github.com/mikey/mailprobe/internal/probe"
)

func parsed(t *testing.T, raw string) core.ParsedEmail {
	t.Helper()
	email, ok := probe.ParseAddress(raw)
	require.True(t, ok)
	return email
}

func TestDNSProbe(t *testing.T) {
	tests := []struct {
		name        string
		a           map[string][]string
		mx          map[string][]*net.MX
		fail        []string
		wantDNS     float64
		wantMX      float64
		wantMXCount float64
	}{
		{
			name: "domain with A and MX",
			a:    map[string][]string{"example.com": {"93.184.216.34"}},
			mx: map[string][]*net.MX{"example.com": {
				{Host: "mx1.example.com.", Pref: 10},
				{Host: "mx2.example.com.", Pref: 20},
			}},
			wantDNS: 1, wantMX: 1, wantMXCount: 2.0 / 5.0,
		},
		{
			name:    "A record only",
			a:       map[string][]string{"example.com": {"93.184.216.34"}},
			wantDNS: 1, wantMX: 0, wantMXCount: 0,
		},
		{
			name:    "AAAA only does not count as existence",
			a:       map[string][]string{"example.com": {"2001:db8::1"}},
			wantDNS: 0, wantMX: 0, wantMXCount: 0,
		},
		{
			name: "MX only",
			mx:   map[string][]*net.MX{"example.com": {{Host: "mx.example.com.", Pref: 10}}},
			wantDNS: 0, wantMX: 1, wantMXCount: 1.0 / 5.0,
		},
		{
			name: "blank MX hosts unusable",
			mx:   map[string][]*net.MX{"example.com": {{Host: ".", Pref: 10}}},
			wantDNS: 0, wantMX: 0, wantMXCount: 0,
		},
		{
			name: "server failure is a zero feature",
			fail: []string{"a example.com", "mx example.com"},
			wantDNS: 0, wantMX: 0, wantMXCount: 0,
		},
		{
			name: "mx count clamps at five",
			mx: map[string][]*net.MX{"example.com": {
				{Host: "mx1.example.com.", Pref: 1},
				{Host: "mx2.example.com.", Pref: 2},
				{Host: "mx3.example.com.", Pref: 3},
				{Host: "mx4.example.com.", Pref: 4},
				{Host: "mx5.example.com.", Pref: 5},
				{Host: "mx6.example.com.", Pref: 6},
			}},
			wantDNS: 0, wantMX: 1, wantMXCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := &dnsx.MockResolver{A: tt.a, MX: tt.mx, Fail: tt.fail}
			p := probe.NewDNSProbe(resolver, time.Second, zap.NewNop())

			slots := p.Probe(context.Background(), parsed(t, "user@example.com"))

			assert.Equal(t, tt.wantDNS, slots[core.SlotDNSValidation])
			assert.Equal(t, tt.wantMX, slots[core.SlotMXValidation])
			assert.InDelta(t, tt.wantMXCount, slots[core.SlotMXRecordCount], 1e-9)
		})
	}
}
