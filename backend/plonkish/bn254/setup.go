package plonkish

import (
	"errors"
	"fmt"
	"math/bits"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/fft"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidDomainSize = errors.New("domain size must be a power of two with a root of unity in fr")
	ErrInvalidColumnSize = errors.New("column size must equal the domain size")
	ErrEmptyArgument     = errors.New("argument must reference at least one column")
	ErrInvalidColumnID   = errors.New("column reference out of range")
)

// maxDomainOrder is the 2-adicity of the bn254 scalar field: no
// subgroup of roots of unity exists beyond 2²⁸.
const maxDomainOrder = 28

// Lookup declares that at every row the tuple of input column values
// appears among the tuples of the table columns. Inputs and Tables must
// have the same width m ≥ 1.
type Lookup struct {
	Inputs []ColumnID
	Tables []ColumnID
}

// Permutation declares equality (copy) constraints across a set of
// columns. Sigma holds the permutation polynomials s_0..s_{m-1} in
// Lagrange form, supplied by the companion key-generation phase: s_i(ωʲ)
// is the coset identity δⁱ'·ωʲ' of the cell that cell (i, j) must equal.
type Permutation struct {
	Columns []ColumnID
	Sigma   [][]fr.Element
}

// ConstraintSystem is the assignment table layout consumed by Setup: the
// number of rows, the public fixed columns (Lagrange form), the shape of
// the prover-supplied columns, and the declared arguments.
type ConstraintSystem struct {
	N          uint64
	NbAdvice   int
	NbInstance int
	Fixed      [][]fr.Element

	Lookups      []Lookup
	Permutations []Permutation
}

// PermutationKey is the per-argument material derived at setup.
type PermutationKey struct {
	// Deltas[i] = δⁱ, powers of the coset generator; column i's cell
	// identities live on the coset δⁱ·⟨ω⟩
	Deltas []fr.Element

	SigmaLagrange  [][]fr.Element
	SigmaCanonical [][]fr.Element
}

// ProvingKey holds everything Prove needs that does not change between
// proofs: the domain, the committer, the fixed columns with their
// reproducible commitments, and the permutation material.
type ProvingKey struct {
	Domain    *fft.Domain
	Cs        *ConstraintSystem
	Committer Committer

	FixedLagrange    [][]fr.Element
	FixedCanonical   [][]fr.Element
	FixedCommitments []Commitment

	Permutations []PermutationKey
}

// Setup validates the constraint system, builds the evaluation domain,
// interpolates and commits the fixed columns, and derives the
// per-argument permutation material. All configuration errors surface
// here, before any transcript interaction.
//
// Fixed columns are committed with the constant blind 1 so the verifier
// reproduces F from public data.
func Setup(cs *ConstraintSystem, committer Committer) (*ProvingKey, error) {
	if committer == nil {
		return nil, errors.New("nil committer")
	}
	if err := cs.check(); err != nil {
		return nil, err
	}

	pk := &ProvingKey{
		Domain:    fft.NewDomain(cs.N),
		Cs:        cs,
		Committer: committer,
	}

	// fixed columns: interpolate and commit, blind = 1
	one := fr.One()
	pk.FixedLagrange = cs.Fixed
	pk.FixedCanonical = make([][]fr.Element, len(cs.Fixed))
	pk.FixedCommitments = make([]Commitment, len(cs.Fixed))
	var g errgroup.Group
	for i := range cs.Fixed {
		g.Go(func() error {
			pk.FixedCanonical[i] = toCanonical(cs.Fixed[i], pk.Domain)
			var err error
			pk.FixedCommitments[i], err = committer.Commit(pk.FixedCanonical[i], one)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("commit fixed columns: %w", err)
	}

	pk.Permutations = make([]PermutationKey, len(cs.Permutations))
	for k := range cs.Permutations {
		arg := &cs.Permutations[k]
		key := &pk.Permutations[k]

		key.Deltas = make([]fr.Element, len(arg.Columns))
		key.Deltas[0].SetOne()
		for i := 1; i < len(key.Deltas); i++ {
			key.Deltas[i].Mul(&key.Deltas[i-1], &pk.Domain.FrMultiplicativeGen)
		}

		key.SigmaLagrange = arg.Sigma
		key.SigmaCanonical = make([][]fr.Element, len(arg.Sigma))
		for i := range arg.Sigma {
			key.SigmaCanonical[i] = toCanonical(arg.Sigma[i], pk.Domain)
		}
	}

	return pk, nil
}

func (cs *ConstraintSystem) check() error {
	if cs.N == 0 || bits.OnesCount64(cs.N) != 1 || bits.TrailingZeros64(cs.N) > maxDomainOrder {
		return ErrInvalidDomainSize
	}
	if cs.NbAdvice < 0 || cs.NbInstance < 0 {
		return errors.New("negative column count")
	}
	for i := range cs.Fixed {
		if uint64(len(cs.Fixed[i])) != cs.N {
			return fmt.Errorf("fixed column %d: %w", i, ErrInvalidColumnSize)
		}
	}
	for i, lk := range cs.Lookups {
		if len(lk.Inputs) == 0 || len(lk.Inputs) != len(lk.Tables) {
			return fmt.Errorf("lookup %d: %w", i, ErrEmptyArgument)
		}
		for _, id := range append(append([]ColumnID{}, lk.Inputs...), lk.Tables...) {
			if err := cs.checkColumnID(id); err != nil {
				return fmt.Errorf("lookup %d: %w", i, err)
			}
		}
	}
	for k, p := range cs.Permutations {
		if len(p.Columns) == 0 {
			return fmt.Errorf("permutation %d: %w", k, ErrEmptyArgument)
		}
		if len(p.Sigma) != len(p.Columns) {
			return fmt.Errorf("permutation %d: one sigma polynomial per column expected", k)
		}
		for _, id := range p.Columns {
			if err := cs.checkColumnID(id); err != nil {
				return fmt.Errorf("permutation %d: %w", k, err)
			}
		}
		for i := range p.Sigma {
			if uint64(len(p.Sigma[i])) != cs.N {
				return fmt.Errorf("permutation %d sigma %d: %w", k, i, ErrInvalidColumnSize)
			}
		}
	}
	return nil
}

func (cs *ConstraintSystem) checkColumnID(id ColumnID) error {
	var nb int
	switch id.Kind {
	case Fixed:
		nb = len(cs.Fixed)
	case Advice:
		nb = cs.NbAdvice
	case Instance:
		nb = cs.NbInstance
	default:
		return ErrInvalidColumnID
	}
	if id.Index < 0 || id.Index >= nb {
		return ErrInvalidColumnID
	}
	return nil
}
