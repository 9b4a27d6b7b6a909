// Package session drives the shared BB84 session through its phases.
//
// The Service owns the single SessionState and serialises every transition
// behind one mutex. A transition computes its whole result first and only
// then writes it to the state, so a rejected event leaves the session
// exactly as it was.
//
// Phases:
//
//	idle -> photon_transmission -> basis_comparison -> key_generation -> messaging
//	   ^                                                                  |
//	   +------------------------------ reset -----------------------------+
//
// basis_comparison only exists while the comparison runs under the lock, so
// Status never reports it. It is still counted as an entered phase.
//
// Basis comparison is rejected with a PhaseSequenceError until Alice has
// sent photons. Results are fanned out through a domain.Notifier; delivery
// problems never reach the caller.
package session
