package probe

import (
	"strings"

	"github.com/badoux/checkmail"

	"github.com/mikey/mailprobe/internal/core"
)

// SyntaxChecker applies the standard email grammar check to the full
// sanitized address. A failed check never aborts the pipeline; the
// remaining probes still run so the vector records which checks failed.
type SyntaxChecker struct{}

// NewSyntaxChecker creates a syntax checker.
func NewSyntaxChecker() *SyntaxChecker {
	return &SyntaxChecker{}
}

// Check reports whether the address has valid syntax. The grammar check
// is stricter than the format regexp alone: a domain without a TLD
// (no dot) is not a routable mail domain, and no DNS label may begin or
// end with a hyphen.
func (c *SyntaxChecker) Check(email core.ParsedEmail) bool {
	if err := checkmail.ValidateFormat(email.Address); err != nil {
		return false
	}

	labels := strings.Split(email.Domain, ".")
	if len(labels) < 2 {
		return false
	}
	for _, label := range labels {
		if label == "" || strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
			return false
		}
	}
	return true
}
