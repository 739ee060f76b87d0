package plonkish

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"github.com/consensys/plonkish/internal/utils"
)

// A LookupPermuter reorders a compressed input column and its compressed
// table column so that every input value sits on a row whose table value
// matches it, or repeats the previous input value. The exact sorting
// rule is defined by the companion lookup argument; this core only
// commits to the permuter's outputs, with fresh blinds.
//
// Permute must return a row-permutation of a and a row-permutation of s.
// It returns an error when an input value does not appear in the table,
// which aborts the proof.
type LookupPermuter interface {
	Permute(a, s []fr.Element) (aPrime, sPrime []fr.Element, err error)
}

// compressColumns folds m columns into one with powers of θ:
//
//	∑_i θ^(m-1-i)·cols[i]
//
// evaluated pointwise by Horner. The θ-weighting collapses an m-wide
// lookup into a single-wide one: two distinct input tuples collapse to
// the same value only with negligible probability over θ.
func compressColumns(cols [][]fr.Element, theta fr.Element, nbTasks int) []fr.Element {
	res := make([]fr.Element, len(cols[0]))
	utils.Parallelize(len(res), func(start, end int) {
		for j := start; j < end; j++ {
			acc := cols[0][j]
			for i := 1; i < len(cols); i++ {
				acc.Mul(&acc, &theta).Add(&acc, &cols[i][j])
			}
			res[j] = acc
		}
	}, nbTasks)
	return res
}

// buildLookupProduct builds the grand product of one lookup argument:
//
//	        (A(ωʲ) + β)·(S(ωʲ) + γ)
//	P_j = ---------------------------
//	        (A′(ωʲ) + β)·(S′(ωʲ) + γ)
//
// a, s are the compressed input and table columns, aPrime and sPrime
// their permuted counterparts.
func buildLookupProduct(a, s, aPrime, sPrime []fr.Element, beta, gamma fr.Element, nbTasks int) (*GrandProduct, error) {
	n := len(a)
	num := make([]fr.Element, n)
	den := make([]fr.Element, n)

	utils.Parallelize(n, func(start, end int) {
		var t, u fr.Element
		for j := start; j < end; j++ {
			t.Add(&a[j], &beta)
			u.Add(&s[j], &gamma)
			num[j].Mul(&t, &u)

			t.Add(&aPrime[j], &beta)
			u.Add(&sPrime[j], &gamma)
			den[j].Mul(&t, &u)
		}
	}, nbTasks)

	return buildGrandProduct(num, den, nbTasks)
}
