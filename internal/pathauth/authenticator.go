package pathauth

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// Outcome is the terminal result of one authentication attempt.
type Outcome string

const (
	// OutcomePass: the path matched no protected prefix (or the filter is
	// disabled); the request continues with its path untouched.
	OutcomePass Outcome = "pass"
	// OutcomeForward: the checksum validated; the request continues with
	// Decision.RewrittenPath.
	OutcomeForward Outcome = "forward"
	// OutcomeReject: the caller must answer 401 Unauthorized and stop.
	OutcomeReject Outcome = "reject"
)

// Reason distinguishes the reject causes for diagnostics. Both reject
// reasons map to the same 401 at the boundary.
type Reason string

const (
	ReasonNone         Reason = ""
	ReasonNoSeparator  Reason = "no_separator"
	ReasonEmptyPayload Reason = "empty_payload"
	ReasonBadChecksum  Reason = "checksum_mismatch"
)

// Decision is the total output of one authentication attempt. There are
// no partial or retry states; a client holding a bad link must mint a
// new one.
type Decision struct {
	Outcome       Outcome
	RewrittenPath string
	Prefix        string
	Reason        Reason
}

// parsedPath is the transient decomposition of one protected request
// path. checksum and payload are only meaningful together: a matched
// prefix with ok=false is a malformed protected request, distinct from
// "no prefix matched".
type parsedPath struct {
	prefix   string
	checksum string
	payload  string
	ok       bool
	reason   Reason
}

// Checksum computes the legacy signed-link digest: lowercase hex MD5 of
// payload followed by secret, no separator. MD5 is a wire-compatibility
// requirement, not a security choice; previously issued links stop
// validating under any other construction, so the algorithm must never
// be upgraded here.
func Checksum(payload, secret string) string {
	sum := md5.Sum([]byte(payload + secret))
	return hex.EncodeToString(sum[:])
}

// Authenticate decides the fate of one request path against one matcher
// configuration. It is a pure function: no shared state, no I/O, the
// same inputs always produce the same Decision.
func Authenticate(path string, cfg MatcherConfig) Decision {
	if !cfg.Enabled() {
		return Decision{Outcome: OutcomePass}
	}

	prefix, matched := matchPrefix(path, cfg.Prefixes)
	if !matched {
		return Decision{Outcome: OutcomePass}
	}

	parsed := decompose(path, prefix)
	if !parsed.ok {
		return Decision{Outcome: OutcomeReject, Prefix: prefix, Reason: parsed.reason}
	}

	expected := Checksum(parsed.payload, cfg.Secret)
	if subtle.ConstantTimeCompare([]byte(parsed.checksum), []byte(expected)) != 1 {
		return Decision{Outcome: OutcomeReject, Prefix: prefix, Reason: ReasonBadChecksum}
	}

	// The checksum segment sits immediately after the matched prefix, so
	// removing its first occurrence yields <prefix><payload>.
	rewritten := strings.Replace(path, parsed.checksum+"/", "", 1)
	return Decision{Outcome: OutcomeForward, RewrittenPath: rewritten, Prefix: prefix}
}

// matchPrefix returns the first configured prefix the path starts with.
// List order is authoritative: operators may rely on an earlier, shorter
// prefix shadowing a later, more specific one.
func matchPrefix(path string, prefixes []string) (string, bool) {
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return prefix, true
		}
	}
	return "", false
}

// decompose splits the remainder after the matched prefix into checksum
// and payload. A remainder without a separator, or with nothing after
// it, is malformed and leaves ok unset.
func decompose(path, prefix string) parsedPath {
	remainder := path[len(prefix):]
	i := strings.Index(remainder, "/")
	if i < 0 {
		return parsedPath{prefix: prefix, reason: ReasonNoSeparator}
	}
	payload := remainder[i+1:]
	if payload == "" {
		return parsedPath{prefix: prefix, reason: ReasonEmptyPayload}
	}
	return parsedPath{
		prefix:   prefix,
		checksum: remainder[:i],
		payload:  payload,
		ok:       true,
	}
}
