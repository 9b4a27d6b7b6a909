// Package client provides an HTTP implementation of the domain.ServerClient
// interface used by the bb84 CLI.
//
// Supported operations include:
//   - Reading the session status.
//   - Resetting the session.
//   - Posting and listing chat messages.
//   - Running a one-shot simulation on the server.
//
// All requests are JSON over HTTP and accept a context for cancellation and
// deadlines. Non-2xx statuses are returned as *StatusError carrying the
// method, path, status and any detail the server sent.
package client
