package plonkish

import (
	"errors"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/consensys/plonkish/internal/utils"
)

// ErrZeroDenominator is returned when a grand-product denominator
// evaluates to zero: β or γ collided with the argument data and the
// proof cannot be completed. This aborts the whole proof construction;
// skipping the row instead would yield a malformed proof.
var ErrZeroDenominator = errors.New("grand product denominator is zero")

// GrandProduct holds a running-product polynomial Z in Lagrange form:
//
//	Z(ω⁰) = 1
//	Z(ωʲ⁺¹) = Z(ωʲ)·num[j]/den[j]   for j < n-1
//
// LastTerm is the wraparound term num[n-1]/den[n-1]. The closure
// Z(ωⁿ⁻¹)·LastTerm = 1 is not enforced here; it is exposed for the
// enclosing constraint system to check as a gate.
type GrandProduct struct {
	Z        []fr.Element
	LastTerm fr.Element
}

// ClosesToOne reports whether the running product returns to 1 at the
// wraparound row.
func (gp *GrandProduct) ClosesToOne() bool {
	var t fr.Element
	t.Mul(&gp.Z[len(gp.Z)-1], &gp.LastTerm)
	return t.IsOne()
}

// buildGrandProduct computes Z from the row-local numerator and
// denominator terms, which must have equal length n ≥ 1. Denominators
// are inverted in a single batch; the recurrence itself is an inherently
// sequential scan over the precomputed ratios.
func buildGrandProduct(num, den []fr.Element, nbTasks int) (*GrandProduct, error) {
	n := len(num)

	// a zero denominator must abort rather than flow through
	// BatchInvert, which maps 0 to 0 silently
	for i := range den {
		if den[i].IsZero() {
			return nil, ErrZeroDenominator
		}
	}
	denInv := fr.BatchInvert(den)

	terms := make([]fr.Element, n)
	utils.Parallelize(n, func(start, end int) {
		for i := start; i < end; i++ {
			terms[i].Mul(&num[i], &denInv[i])
		}
	}, nbTasks)

	z := make([]fr.Element, n)
	z[0].SetOne()
	for j := 1; j < n; j++ {
		z[j].Mul(&z[j-1], &terms[j-1])
	}

	return &GrandProduct{Z: z, LastTerm: terms[n-1]}, nil
}
