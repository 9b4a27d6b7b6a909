// Package registry tracks which participant identity holds which live
// connection and fans outbound payloads out to them.
//
// One identity maps to at most one handle. Registering an identity again
// replaces the previous handle, and removal by handle only succeeds while the
// identity still points at that handle, so a stale connection closing late
// cannot evict its replacement.
//
// Delivery is best effort. A failing recipient is logged and counted and
// never stops delivery to the others.
package registry
