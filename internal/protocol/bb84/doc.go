// Package bb84 implements the computational steps of the BB84 quantum key
// distribution protocol over a symbolic photon model.
//
// # Overview
//
// A photon is one of four symbols: 0 and 1 are bits prepared in the
// rectilinear basis, 2 and 3 are bits prepared in the diagonal basis. No
// quantum state is modelled; a measurement in the wrong basis simply yields a
// fresh uniform bit.
//
// # Flow
//
//  1. Alice draws random bits and bases (GenerateBits, GenerateBases).
//  2. She encodes them into photons (EncodePhotons).
//  3. Eve may intercept and resend each photon (Eavesdrop).
//  4. Bob measures in his own random bases (MeasurePhotons).
//  5. Positions where the bases agree are kept (MatchedIndices, Project).
//  6. The error rate over kept positions is estimated (QBER).
//  7. The sifted key is decimated according to that rate (ErrorCorrect).
//
// # Randomness
//
// An Engine draws from an injected Rand so runs can be replayed with a fixed
// seed (NewSeeded) or a scripted sequence. Functions that need no randomness
// are package-level and pure. Nothing here mutates its inputs.
//
// # Security notes
//
// ErrorCorrect is a thresholded decimation, not information reconciliation
// or privacy amplification. Keys produced here carry no cryptographic
// guarantee and exist only to demonstrate how eavesdropping shows up in the
// error rate.
package bb84
