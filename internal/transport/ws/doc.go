// Package ws carries BB84 session frames over WebSocket connections.
//
// Each accepted connection runs three routines under one errgroup:
//
//   - reader: reads frames, applies the per-connection rate limit and hands
//     them to the router
//   - writer: drains the bounded outbound queue with a write deadline
//   - keepalive: pings the peer; the pong handler extends the read deadline
//
// Send never blocks. When the outbound queue is full the frame is refused
// with ErrQueueFull, so a slow peer cannot stall a broadcast.
package ws
