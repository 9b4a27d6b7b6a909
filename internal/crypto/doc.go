// Package crypto exposes the small key-handling helpers used around a BB84
// session.
//
// Contents
//
//   - One-time-pad style encryption of chat messages with a BB84 key
//     (EncryptOTP, DecryptOTP)
//   - Short key fingerprints so Alice and Bob can confirm agreement without
//     revealing the key (KeyFingerprint)
//   - Best-effort wiping of retired key material (Wipe, WipeBits)
//   - Base64 helpers (B64)
//
// # Notes
//
// The pad is the final key repeated to the message length, which is what
// the demo clients do. Repeating a pad breaks the one-time property, so this
// is illustration only and must not protect real data.
package crypto
