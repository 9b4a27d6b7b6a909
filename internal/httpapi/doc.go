// Package httpapi exposes the session over HTTP.
//
// # Endpoints
//
//	GET  /                 service banner and session id
//	GET  /healthz          liveness
//	GET  /simulate         one-shot simulation (?n_bits=20&eve_prob=0.2)
//	GET  /session/status   session snapshot
//	POST /session/reset    reset the session
//	POST /message          post a chat message
//	GET  /messages         list chat messages
//	GET  /ws               WebSocket; send a join frame first
//	GET  /ws/:user_id      WebSocket joined as user_id
//	GET  /metrics          Prometheus metrics
//
// # Errors
//
// Bad query parameters return 400 with a list of messages. Domain errors
// return {"detail": "..."}: 400 for validation, 409 for an out-of-order
// operation and 500 for a failed simulation.
//
// Every request is access-logged through zerolog, and CORS is applied to the
// whole handler for the configured origins.
package httpapi
