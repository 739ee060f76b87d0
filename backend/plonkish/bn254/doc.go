// Package plonkish implements the commitment phase of a plonkish prover
// over BN254: column commitments, lookup and copy-constraint
// grand-product arguments, and the Fiat-Shamir sequencing binding the
// challenges θ, β, γ to prior commitments.
package plonkish
