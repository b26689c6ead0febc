// Package pathauth owns the signed-path request check.
//
// Ownership boundary:
// - matcher configuration parsing (secret + protected prefixes)
// - per-request path decomposition and checksum verification
// - forward/reject/pass decision production
//
// pathauth does not touch the request pipeline; the gateway translates
// its decisions into HTTP behavior.
package pathauth
