package plonkish

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/fft"

	"github.com/consensys/plonkish/internal/utils"
)

// buildPermutationProduct builds the grand product of one equality
// (copy) constraint argument over the m columns cols:
//
//	        ∏_i (p_i(ωʲ) + β·δⁱ·ωʲ + γ)
//	P_j = -------------------------------
//	        ∏_i (p_i(ωʲ) + β·s_i(ωʲ) + γ)
//
// δⁱ·ωʲ ranges over disjoint cosets, one per column, so each cell of the
// argument has a unique identity; s_i maps that identity to the cell it
// is constrained to equal. The products over all rows cancel exactly
// when the copy constraints hold.
func buildPermutationProduct(cols [][]fr.Element, pk *PermutationKey, domain *fft.Domain, beta, gamma fr.Element, nbTasks int) (*GrandProduct, error) {
	n := int(domain.Cardinality)
	num := make([]fr.Element, n)
	den := make([]fr.Element, n)

	utils.Parallelize(n, func(start, end int) {
		var w, t fr.Element
		w.Exp(domain.Generator, big.NewInt(int64(start)))
		for j := start; j < end; j++ {
			num[j].SetOne()
			den[j].SetOne()
			for i := range cols {
				t.Mul(&beta, &pk.Deltas[i]).Mul(&t, &w).
					Add(&t, &cols[i][j]).Add(&t, &gamma) // p_i(ωʲ) + β·δⁱ·ωʲ + γ
				num[j].Mul(&num[j], &t)

				t.Mul(&beta, &pk.SigmaLagrange[i][j]).
					Add(&t, &cols[i][j]).Add(&t, &gamma) // p_i(ωʲ) + β·s_i(ωʲ) + γ
				den[j].Mul(&den[j], &t)
			}
			w.Mul(&w, &domain.Generator)
		}
	}, nbTasks)

	return buildGrandProduct(num, den, nbTasks)
}
