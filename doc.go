// Package plonkish implements the commitment phase of a plonkish
// polynomial-IOP proving protocol: column commitments, lookup and
// copy-constraint grand-product arguments, and the Fiat-Shamir
// sequencing that binds verifier challenges to prover commitments.
//
// The prover core lives in backend/plonkish/bn254. The commitment
// primitive is consumed through an injected Committer; a
// Pedersen-blinded KZG committer built on gnark-crypto is provided.
package plonkish
