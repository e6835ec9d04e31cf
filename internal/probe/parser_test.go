package probe_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mikey/mailprobe/internal/probe"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantOK     bool
		wantLocal  string
		wantDomain string
	}{
		{
			name:       "plain address",
			input:      "john.doe@example.com",
			wantOK:     true,
			wantLocal:  "john.doe",
			wantDomain: "example.com",
		},
		{
			name:       "surrounding whitespace trimmed",
			input:      "  user@example.com\t",
			wantOK:     true,
			wantLocal:  "user",
			wantDomain: "example.com",
		},
		{
			name:       "upper case folded",
			input:      "John.Doe@Example.COM",
			wantOK:     true,
			wantLocal:  "john.doe",
			wantDomain: "example.com",
		},
		{
			name:       "last at sign splits",
			input:      `"a@b"@example.com`,
			wantOK:     true,
			wantLocal:  `"a@b"`,
			wantDomain: "example.com",
		},
		{name: "empty input", input: "", wantOK: false},
		{name: "whitespace only", input: "   ", wantOK: false},
		{name: "comma separator", input: "a@b.com,c@d.com", wantOK: false},
		{name: "semicolon separator", input: "a@b.com;c@d.com", wantOK: false},
		{name: "multiple tokens", input: "a@b.com c@d.com", wantOK: false},
		{name: "no at sign", input: "not-an-email", wantOK: false},
		{name: "missing local part", input: "@example.com", wantOK: false},
		{name: "missing domain", input: "user@", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email, ok := probe.ParseAddress(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				return
			}
			assert.Equal(t, tt.wantLocal, email.LocalPart)
			assert.Equal(t, tt.wantDomain, email.Domain)
			assert.Equal(t, tt.wantLocal+"@"+tt.wantDomain, email.Address)
		})
	}
}

func TestParseAddressIDNADomain(t *testing.T) {
	email, ok := probe.ParseAddress("user@bücher.de")
	assert.True(t, ok)
	assert.Equal(t, "xn--bcher-kva.de", email.Domain)
}
