package plonkish

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/fft"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
)

func TestInterpolationRoundTrip(t *testing.T) {
	const n = 16
	domain := fft.NewDomain(n)

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)
	properties.Property("p(ωʲ) == column[j] for every row j", prop.ForAll(
		func(seeds []uint64) bool {
			column := make([]fr.Element, n)
			for i := range column {
				column[i].SetUint64(seeds[i]).
					Mul(&column[i], &column[i]).
					Add(&column[i], new(fr.Element).SetUint64(seeds[(i+1)%n]))
			}

			p := toCanonical(column, domain)

			var w fr.Element
			w.SetOne()
			for j := 0; j < n; j++ {
				if v := eval(p, w); !v.Equal(&column[j]) {
					return false
				}
				w.Mul(&w, &domain.Generator)
			}
			return true
		},
		gen.SliceOfN(n, gen.UInt64()),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestCommitColumnsKeepsDeclarationOrder(t *testing.T) {
	assert := require.New(t)

	const n = 8
	domain := fft.NewDomain(n)
	columns := [][]fr.Element{randomVector(t, n), randomVector(t, n), randomVector(t, n)}

	var counter uint64
	blind := func() (fr.Element, error) {
		counter++
		var b fr.Element
		b.SetUint64(counter)
		return b, nil
	}

	committed, err := commitColumns(columns, domain, mockCommitter{}, blind, 4)
	assert.NoError(err)
	assert.Len(committed, 3)

	for i := range committed {
		// blinds drawn in declaration order
		var want fr.Element
		want.SetUint64(uint64(i + 1))
		assert.True(committed[i].blind.Equal(&want))

		// commitment matches a direct commit of the interpolation
		direct, err := mockCommitter{}.Commit(committed[i].canonical, committed[i].blind)
		assert.NoError(err)
		assert.True(direct.Equal(&committed[i].digest))
	}
}

func TestDomainGeneratorOrder(t *testing.T) {
	assert := require.New(t)

	// ω is a primitive n-th root of unity: ωⁿ = 1 and ω^(n/2) ≠ 1
	const n = 32
	domain := fft.NewDomain(n)

	var w fr.Element
	w.Exp(domain.Generator, big.NewInt(n))
	assert.True(w.IsOne())
	w.Exp(domain.Generator, big.NewInt(n/2))
	assert.False(w.IsOne())
}
