// Package router turns raw client frames into session operations and session
// results back into frames.
//
// Every frame is a JSON envelope:
//
//	{"type": "<kind>", "data": {...}}
//
// Decode maps the envelope onto the closed set of domain events. A Router
// binds connections to identities on "join" and hands every other event from
// a joined connection to the session service. Frames that cannot be decoded,
// fail validation or arrive from a connection that never joined are dropped
// and logged; nothing is sent back to the client.
//
// Publisher is the outbound half. It implements domain.Notifier so the
// session service never sees the wire format.
package router
