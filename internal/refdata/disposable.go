// Package refdata holds the immutable reference data the verification
// pipeline consults: known disposable domains, common mail providers and
// popular TLDs. Everything here is loaded once at process start and
// safely shared across concurrent validation calls.
package refdata

import (
	"bufio"
	_ "embed"
	"fmt"
	"os"
	"strings"
)

//go:embed disposable.txt
var embeddedDisposable string

// DisposableSet answers membership queries against the disposable-domain
// list. The set is immutable after construction.
type DisposableSet struct {
	domains map[string]struct{}
}

// NewDisposableSet builds the set from the embedded list plus any extra
// domains supplied by configuration.
func NewDisposableSet(extra []string) *DisposableSet {
	s := &DisposableSet{domains: make(map[string]struct{})}
	for _, line := range strings.Split(embeddedDisposable, "\n") {
		s.add(line)
	}
	for _, d := range extra {
		s.add(d)
	}
	return s
}

// NewDisposableSetFromFile merges a newline-separated domain file into
// the embedded list. Comment lines start with '#'.
func NewDisposableSetFromFile(path string, extra []string) (*DisposableSet, error) {
	s := NewDisposableSet(extra)
	if path == "" {
		return s, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open disposable list: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		s.add(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read disposable list: %w", err)
	}
	return s, nil
}

func (s *DisposableSet) add(line string) {
	line = strings.ToLower(strings.TrimSpace(line))
	if line == "" || strings.HasPrefix(line, "#") {
		return
	}
	s.domains[line] = struct{}{}
}

// Contains reports whether domain is a known disposable domain.
func (s *DisposableSet) Contains(domain string) bool {
	_, ok := s.domains[strings.ToLower(domain)]
	return ok
}

// Len returns the number of domains in the set.
func (s *DisposableSet) Len() int {
	return len(s.domains)
}
