// Package gateway owns the HTTP edge of the signed-path proxy.
//
// Ownership boundary:
// - service lifecycle and listener management
// - translation of pathauth decisions into HTTP behavior
// - upstream request relay
// - admin control channel (status, matcher snapshot, reload)
//
// The authentication algorithm itself lives in pathauth; gateway never
// inspects checksums on its own.
package gateway
