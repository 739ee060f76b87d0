package plonkish

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/require"
)

func TestSetupRejectsBadDomainSize(t *testing.T) {
	assert := require.New(t)

	for _, n := range []uint64{0, 3, 6, 12, 1 << 29} {
		_, err := Setup(&ConstraintSystem{N: n}, mockCommitter{})
		assert.ErrorIs(err, ErrInvalidDomainSize, "n = %d", n)
	}
}

func TestSetupRejectsRaggedColumns(t *testing.T) {
	assert := require.New(t)

	cs := &ConstraintSystem{
		N:     8,
		Fixed: [][]fr.Element{make([]fr.Element, 7)},
	}
	_, err := Setup(cs, mockCommitter{})
	assert.ErrorIs(err, ErrInvalidColumnSize)
}

func TestSetupRejectsEmptyArguments(t *testing.T) {
	assert := require.New(t)

	cs := &ConstraintSystem{
		N:       8,
		Lookups: []Lookup{{}},
	}
	_, err := Setup(cs, mockCommitter{})
	assert.ErrorIs(err, ErrEmptyArgument)

	cs = &ConstraintSystem{
		N:            8,
		Permutations: []Permutation{{}},
	}
	_, err = Setup(cs, mockCommitter{})
	assert.ErrorIs(err, ErrEmptyArgument)
}

func TestSetupRejectsDanglingColumnID(t *testing.T) {
	assert := require.New(t)

	cs := &ConstraintSystem{
		N:        8,
		NbAdvice: 1,
		Lookups: []Lookup{{
			Inputs: []ColumnID{{Advice, 0}},
			Tables: []ColumnID{{Fixed, 0}}, // no fixed column declared
		}},
	}
	_, err := Setup(cs, mockCommitter{})
	assert.ErrorIs(err, ErrInvalidColumnID)
}

func TestSetupFixedCommitmentsReproducible(t *testing.T) {
	assert := require.New(t)

	cs, _ := testSystem(t)
	pk1, err := Setup(cs, mockCommitter{})
	assert.NoError(err)
	pk2, err := Setup(cs, mockCommitter{})
	assert.NoError(err)

	// blind is the constant 1, so the fixed commitments are a pure
	// function of public data
	assert.Equal(len(pk1.FixedCommitments), len(pk2.FixedCommitments))
	for i := range pk1.FixedCommitments {
		assert.True(pk1.FixedCommitments[i].Equal(&pk2.FixedCommitments[i]))
	}
}

func TestSetupDeltasSpanDisjointCosets(t *testing.T) {
	assert := require.New(t)

	cs, _ := testSystem(t)
	pk, err := Setup(cs, mockCommitter{})
	assert.NoError(err)

	deltas := pk.Permutations[0].Deltas
	assert.Len(deltas, 2)
	assert.True(deltas[0].IsOne())
	assert.True(deltas[1].Equal(&pk.Domain.FrMultiplicativeGen))

	// δ¹·ωʲ never lands in ⟨ω⟩: the two columns' identities cannot collide
	var w fr.Element
	w.SetOne()
	for j := uint64(0); j < cs.N; j++ {
		var id fr.Element
		id.Mul(&deltas[1], &w)
		var probe fr.Element
		probe.SetOne()
		for k := uint64(0); k < cs.N; k++ {
			assert.False(id.Equal(&probe))
			probe.Mul(&probe, &pk.Domain.Generator)
		}
		w.Mul(&w, &pk.Domain.Generator)
	}
}
