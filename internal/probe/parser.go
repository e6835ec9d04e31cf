// Package probe implements the verification pipeline: address parsing,
// syntax and reputation scoring, DNS/DNSBL/policy-record/SMTP probes,
// and the aggregator that composes them into the canonical feature
// vector.
package probe

import (
	"strings"

	"golang.org/x/net/idna"

	"github.com/mikey/mailprobe/internal/core"
)

// ParseAddress sanitizes raw input and splits it into local part and
// domain. It rejects blank input, input containing address separators
// (comma or semicolon) and input holding more than one whitespace
// token. Rejection is a normal outcome, not an error: the caller fills
// an all-zero vector and runs no probes.
func ParseAddress(raw string) (core.ParsedEmail, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return core.ParsedEmail{}, false
	}
	if strings.ContainsAny(trimmed, ",;") {
		return core.ParsedEmail{}, false
	}
	if len(strings.Fields(trimmed)) != 1 {
		return core.ParsedEmail{}, false
	}

	address := strings.ToLower(trimmed)
	at := strings.LastIndex(address, "@")
	if at <= 0 || at == len(address)-1 {
		return core.ParsedEmail{}, false
	}

	local := address[:at]
	domain := address[at+1:]

	// Internationalized domains go on the wire in ASCII form. A domain
	// that fails IDNA mapping is kept verbatim so the syntax check can
	// flag it instead of the parser rejecting outright.
	if ascii, err := idna.Lookup.ToASCII(domain); err == nil {
		domain = ascii
	}

	return core.ParsedEmail{
		Address:   local + "@" + domain,
		LocalPart: local,
		Domain:    domain,
	}, true
}
