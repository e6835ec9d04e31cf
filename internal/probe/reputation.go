package probe

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/mikey/mailprobe/internal/core"
	"github.com/mikey/mailprobe/internal/levenshtein"
	"github.com/mikey/mailprobe/internal/refdata"
)

// Normalization caps for the length features.
const (
	emailLengthCap  = 50
	localLengthCap  = 30
	domainLengthCap = 30

	// typoDistanceCap divides the edit distance to the nearest common
	// provider; distances of 3 or more clamp to 1.
	typoDistanceCap = 3

	// specialCharCap divides the special character count.
	specialCharCap = 5
)

var consecutiveSpecials = regexp.MustCompile(`[^a-zA-Z0-9_]{2,}`)

// ReputationScorer computes the static, non-blocking reputation
// features over the parsed address. No network I/O happens here.
type ReputationScorer struct {
	disposable *refdata.DisposableSet
}

// NewReputationScorer creates a scorer against the given disposable set.
func NewReputationScorer(disposable *refdata.DisposableSet) *ReputationScorer {
	return &ReputationScorer{disposable: disposable}
}

// Score fills the reputation-derived slots for the address.
func (s *ReputationScorer) Score(email core.ParsedEmail, vec core.FeatureVector) {
	vec[core.SlotEmailLength] = clamp(float64(len(email.Address)) / emailLengthCap)
	vec[core.SlotLocalPartLength] = clamp(float64(len(email.LocalPart)) / localLengthCap)
	vec[core.SlotDomainLength] = clamp(float64(len(email.Domain)) / domainLengthCap)

	if s.disposable.Contains(email.Domain) {
		vec[core.SlotDisposableDomain] = 1
	}
	if refdata.IsCommonProvider(email.Domain) {
		vec[core.SlotCommonDomain] = 1
	}

	vec[core.SlotDomainTypoScore] = s.typoScore(email.Domain)

	// Unknown TLDs are penalized but never disqualified.
	if refdata.IsPopularTLD(email.Domain) {
		vec[core.SlotTLDPopularity] = 1.0
	} else {
		vec[core.SlotTLDPopularity] = 0.5
	}

	if strings.ContainsFunc(email.LocalPart, unicode.IsDigit) {
		vec[core.SlotHasNumbers] = 1
	}
	vec[core.SlotSpecialCharCount] = clamp(float64(countSpecials(email.LocalPart)) / specialCharCap)
	if consecutiveSpecials.MatchString(email.LocalPart) {
		vec[core.SlotConsecutiveSpecialChars] = 1
	}
}

// typoScore is the minimum edit distance from the domain to any common
// provider, normalized by typoDistanceCap and clamped to 1. Zero for a
// domain that is itself a common provider.
func (s *ReputationScorer) typoScore(domain string) float64 {
	best := -1
	for _, provider := range refdata.CommonProviders {
		if domain == provider {
			return 0
		}
		d := levenshtein.Distance(domain, provider)
		if best < 0 || d < best {
			best = d
		}
	}
	if best < 0 {
		return 1
	}
	return clamp(float64(best) / typoDistanceCap)
}

// countSpecials counts characters outside [a-zA-Z0-9_]. The at sign is
// not a special: quoted local parts may legally contain one.
func countSpecials(s string) int {
	n := 0
	for _, r := range s {
		if r == '_' || r == '@' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			continue
		}
		n++
	}
	return n
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < 0 {
		return 0
	}
	return v
}
