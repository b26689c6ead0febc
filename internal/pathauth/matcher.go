package pathauth

import (
	"errors"
	"strings"
	"unicode/utf8"
)

var ErrConfigNotUTF8 = errors.New("pathauth: matcher config is not valid utf-8")

// MatcherConfig is the parsed filter configuration: the shared signing
// secret and the ordered list of protected path prefixes. It is immutable
// after construction and shared read-only across in-flight requests; a
// reconfiguration builds a new value and swaps the whole reference.
type MatcherConfig struct {
	Secret   string
	Prefixes []string
}

// Enabled reports whether the filter does any work at all. An empty
// secret or an empty prefix list each disable the filter on their own.
func (c MatcherConfig) Enabled() bool {
	return c.Secret != "" && len(c.Prefixes) > 0
}

// Load parses raw configuration bytes into a MatcherConfig.
//
// The wire format is a single line: <secret>|<prefix>,<prefix>,...
// Both fields are kept verbatim: secrets are not trimmed and prefix
// elements are not cleaned up, so an empty element in the list matches
// every path. That behavior is relied on by deployed configurations and
// must not be corrected here.
//
// Any shape other than exactly two |-separated fields yields the zero
// MatcherConfig with a nil error: a disabled filter, not a fault. An
// operator typo must never take the gateway down. Only non-UTF-8 input
// is an error, and that one aborts startup.
func Load(raw []byte) (MatcherConfig, error) {
	if !utf8.Valid(raw) {
		return MatcherConfig{}, ErrConfigNotUTF8
	}
	fields := strings.Split(string(raw), "|")
	if len(fields) != 2 {
		return MatcherConfig{}, nil
	}
	return MatcherConfig{
		Secret:   fields[0],
		Prefixes: strings.Split(fields[1], ","),
	}, nil
}
