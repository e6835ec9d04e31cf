package probe_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikey/mailprobe/internal/core"
	"github.com/mikey/mailprobe/internal/probe"
	"github.com/mikey/mailprobe/internal/refdata"
)

func scoreAddress(t *testing.T, raw string) core.FeatureVector {
	t.Helper()
	email, ok := probe.ParseAddress(raw)
	require.True(t, ok)

	scorer := probe.NewReputationScorer(refdata.NewDisposableSet(nil))
	vec := core.NewFeatureVector()
	scorer.Score(email, vec)
	return vec
}

func TestReputationLengthFeatures(t *testing.T) {
	vec := scoreAddress(t, "john.doe@example.com")

	assert.InDelta(t, 20.0/50.0, vec[core.SlotEmailLength], 1e-9)
	assert.InDelta(t, 8.0/30.0, vec[core.SlotLocalPartLength], 1e-9)
	assert.InDelta(t, 11.0/30.0, vec[core.SlotDomainLength], 1e-9)
}

func TestReputationLengthsClampToOne(t *testing.T) {
	local := make([]byte, 60)
	for i := range local {
		local[i] = 'a'
	}
	vec := scoreAddress(t, string(local)+"@example.com")

	assert.Equal(t, 1.0, vec[core.SlotEmailLength])
	assert.Equal(t, 1.0, vec[core.SlotLocalPartLength])
}

func TestReputationCommonProvider(t *testing.T) {
	vec := scoreAddress(t, "user@gmail.com")

	assert.Equal(t, 1.0, vec[core.SlotCommonDomain])
	assert.Equal(t, 0.0, vec[core.SlotDomainTypoScore])
	assert.Equal(t, 1.0, vec[core.SlotTLDPopularity])
}

func TestReputationTypoDistance(t *testing.T) {
	// Two edits away from gmail.com, below the clamp.
	vec := scoreAddress(t, "user@gmial.com")

	assert.Equal(t, 0.0, vec[core.SlotCommonDomain])
	assert.InDelta(t, 2.0/3.0, vec[core.SlotDomainTypoScore], 1e-9)
}

func TestReputationTypoDistanceClamps(t *testing.T) {
	vec := scoreAddress(t, "user@completely-unrelated-corp.com")
	assert.Equal(t, 1.0, vec[core.SlotDomainTypoScore])
}

func TestReputationDisposableDomain(t *testing.T) {
	email, ok := probe.ParseAddress("user@burner.example")
	require.True(t, ok)

	scorer := probe.NewReputationScorer(refdata.NewDisposableSet([]string{"burner.example"}))
	vec := core.NewFeatureVector()
	scorer.Score(email, vec)

	assert.Equal(t, 1.0, vec[core.SlotDisposableDomain])
}

func TestReputationTLDPenalty(t *testing.T) {
	vec := scoreAddress(t, "user@example.xyz")
	assert.Equal(t, 0.5, vec[core.SlotTLDPopularity])
}

func TestReputationLocalPartShape(t *testing.T) {
	tests := []struct {
		name            string
		address         string
		wantNumbers     float64
		wantSpecials    float64
		wantConsecutive float64
	}{
		{
			name:        "plain alphabetic",
			address:     "johndoe@example.com",
			wantNumbers: 0, wantSpecials: 0, wantConsecutive: 0,
		},
		{
			name:        "digits present",
			address:     "john1984@example.com",
			wantNumbers: 1, wantSpecials: 0, wantConsecutive: 0,
		},
		{
			name:        "underscore is not special",
			address:     "john_doe@example.com",
			wantNumbers: 0, wantSpecials: 0, wantConsecutive: 0,
		},
		{
			name:        "single dot counts once",
			address:     "john.doe@example.com",
			wantNumbers: 0, wantSpecials: 1.0 / 5.0, wantConsecutive: 0,
		},
		{
			name:        "consecutive specials flagged",
			address:     "john..doe@example.com",
			wantNumbers: 0, wantSpecials: 2.0 / 5.0, wantConsecutive: 1,
		},
		{
			name:        "at sign in quoted local part is not special",
			address:     `"a@b"@example.com`,
			wantNumbers: 0, wantSpecials: 2.0 / 5.0, wantConsecutive: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vec := scoreAddress(t, tt.address)
			assert.Equal(t, tt.wantNumbers, vec[core.SlotHasNumbers])
			assert.InDelta(t, tt.wantSpecials, vec[core.SlotSpecialCharCount], 1e-9)
			assert.Equal(t, tt.wantConsecutive, vec[core.SlotConsecutiveSpecialChars])
		})
	}
}
