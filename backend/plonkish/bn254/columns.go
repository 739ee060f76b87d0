package plonkish

import (
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/fft"
	"golang.org/x/sync/errgroup"
)

// ColumnKind distinguishes the three column families of the assignment
// table. Fixed columns are public and committed at setup; Advice and
// Instance columns are supplied by the prover for every proof.
type ColumnKind uint8

const (
	Fixed ColumnKind = iota
	Advice
	Instance
)

func (k ColumnKind) String() string {
	switch k {
	case Fixed:
		return "fixed"
	case Advice:
		return "advice"
	case Instance:
		return "instance"
	default:
		return "unknown"
	}
}

// ColumnID references a column of the assignment table.
type ColumnID struct {
	Kind  ColumnKind
	Index int
}

// toCanonical interpolates a column given by its values on the domain:
// the result p satisfies p(ωʲ) = values[j] for every j.
func toCanonical(values []fr.Element, domain *fft.Domain) []fr.Element {
	p := make([]fr.Element, domain.Cardinality)
	copy(p, values)
	domain.FFTInverse(p, fft.DIF)
	fft.BitReverse(p)
	return p
}

// eval evaluates p (canonical form) at x.
func eval(p []fr.Element, x fr.Element) fr.Element {
	var r fr.Element
	for i := len(p) - 1; i >= 0; i-- {
		r.Mul(&r, &x).Add(&r, &p[i])
	}
	return r
}

// committedColumn is a column together with its interpolation, blinding
// factor and commitment. The Lagrange values feed the grand products,
// the canonical form feeds the committer and the later opening phase.
type committedColumn struct {
	lagrange  []fr.Element
	canonical []fr.Element
	blind     fr.Element
	digest    Commitment
}

// commitColumns interpolates and commits every column. Columns are
// independent so the work fans out; results stay in declaration order so
// the transcript sees a deterministic commitment sequence. Blinds are
// drawn sequentially up front: the blinding source need not be safe for
// concurrent use.
func commitColumns(columns [][]fr.Element, domain *fft.Domain, committer Committer, blind func() (fr.Element, error), nbTasks int) ([]committedColumn, error) {
	res := make([]committedColumn, len(columns))
	for i := range columns {
		b, err := blind()
		if err != nil {
			return nil, err
		}
		res[i] = committedColumn{lagrange: columns[i], blind: b}
	}

	var g errgroup.Group
	g.SetLimit(nbTasks)
	for i := range res {
		g.Go(func() error {
			res[i].canonical = toCanonical(res[i].lagrange, domain)
			var err error
			res[i].digest, err = committer.Commit(res[i].canonical, res[i].blind)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

func digests(columns []committedColumn) []Commitment {
	res := make([]Commitment, len(columns))
	for i := range columns {
		res[i] = columns[i].digest
	}
	return res
}
