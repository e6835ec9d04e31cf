package probe_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mikey/mailprobe/internal/core"
	"github.com/mikey/mailprobe/internal/probe"
)

func TestSyntaxChecker(t *testing.T) {
	checker := probe.NewSyntaxChecker()

	tests := []struct {
		address string
		want    bool
	}{
		{"john.doe@example.com", true},
		{"user+tag@example.co.uk", true},
		{"user_name@sub.example.com", true},
		{"user@sub-domain.example.com", true},
		{"user name@example.com", false},
		{"user@-example.com", false},
		{"user@example-.com", false},
		{"user@example..com", false},
		{"invalid@email", false},
	}

	for _, tt := range tests {
		t.Run(tt.address, func(t *testing.T) {
			at := strings.LastIndex(tt.address, "@")
			email := core.ParsedEmail{
				Address: tt.address,
				Domain:  tt.address[at+1:],
			}
			assert.Equal(t, tt.want, checker.Check(email))
		})
	}
}
