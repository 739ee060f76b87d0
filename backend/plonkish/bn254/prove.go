package plonkish

import (
	"errors"
	"fmt"
	"time"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	fiatshamir "github.com/consensys/gnark-crypto/fiat-shamir"
	"golang.org/x/sync/errgroup"

	"github.com/consensys/plonkish/logger"
)

var (
	ErrInvalidWitness  = errors.New("witness does not match the constraint system")
	errMissingPermuter = errors.New("constraint system declares lookups but no permuter was supplied")
)

// Proof is the ordered commitment list produced by the commitment phase:
// the prover columns A, per lookup the permuted columns and grand
// product L = {A′, S′, Z_L}, and per equality argument the grand product
// Z_P. The fixed commitments F live in the proving key and are shared by
// every proof.
type Proof struct {
	Advice   []Commitment
	Instance []Commitment

	Lookups      []LookupCommitments
	PermutationZ []Commitment
}

// LookupCommitments groups the three commitments of one lookup argument.
type LookupCommitments struct {
	APrime Commitment
	SPrime Commitment
	Z      Commitment
}

// Witness carries the prover-supplied columns in Lagrange form, indexed
// as declared in the constraint system.
type Witness struct {
	Advice   [][]fr.Element
	Instance [][]fr.Element
}

// OpenedPolynomial is a committed polynomial retained for the opening
// phase: canonical coefficients and the blinding factor of its
// commitment.
type OpenedPolynomial struct {
	Canonical []fr.Element
	Blind     fr.Element
}

// LookupOpenings retains the three committed polynomials of one lookup.
type LookupOpenings struct {
	APrime OpenedPolynomial
	SPrime OpenedPolynomial
	Z      OpenedPolynomial
}

// Openings gathers everything the later opening phase consumes: the
// retained polynomials with their blinds, and the challenges. It never
// goes on the wire.
type Openings struct {
	Theta fr.Element
	Beta  fr.Element
	Gamma fr.Element

	Advice       []OpenedPolynomial
	Instance     []OpenedPolynomial
	Lookups      []LookupOpenings
	PermutationZ []OpenedPolynomial
}

// Prove runs the commitment phase: it commits the prover columns,
// samples θ, compresses and permutes the lookups, commits A′ and S′,
// samples β and γ, and builds and commits the grand products of every
// equality and lookup argument.
//
// The challenge schedule is fixed: θ binds F‖A, β binds L on top of the
// θ round, γ chains on the β round. Challenge derivation takes the
// commitments it binds as arguments and the stage helpers are reachable
// only from this function, so sampling a challenge before its
// dependency commitments exist has no representation in the API.
//
// permuter may be nil when the constraint system declares no lookups.
// Any error aborts the construction; no partial proof is returned.
func Prove(pk *ProvingKey, witness *Witness, permuter LookupPermuter, opts ...ProverOption) (*Proof, *Openings, error) {
	log := logger.Logger().With().Str("curve", "bn254").Str("backend", "plonkish").Logger()
	start := time.Now()

	cfg, err := NewProverConfig(opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("create prover config: %w", err)
	}
	if err := pk.validateWitness(witness); err != nil {
		return nil, nil, err
	}
	if len(pk.Cs.Lookups) > 0 && permuter == nil {
		return nil, nil, errMissingPermuter
	}

	fs := fiatshamir.NewTranscript(cfg.ChallengeHash, "theta", "beta", "gamma")

	proof := &Proof{}
	open := &Openings{}

	// round A: commit advice and instance columns with fresh blinds;
	// fixed commitments come precomputed from the key
	advice, err := commitColumns(witness.Advice, pk.Domain, pk.Committer, cfg.BlindingSource, cfg.NbTasks)
	if err != nil {
		return nil, nil, fmt.Errorf("commit advice columns: %w", err)
	}
	instance, err := commitColumns(witness.Instance, pk.Domain, pk.Committer, cfg.BlindingSource, cfg.NbTasks)
	if err != nil {
		return nil, nil, fmt.Errorf("commit instance columns: %w", err)
	}
	proof.Advice = digests(advice)
	proof.Instance = digests(instance)
	open.Advice = opened(advice)
	open.Instance = opened(instance)

	// θ binds F ‖ A: every commitment it depends on is in the
	// transcript before sampling
	thetaDeps := make([]Commitment, 0, len(pk.FixedCommitments)+len(proof.Advice)+len(proof.Instance))
	thetaDeps = append(thetaDeps, pk.FixedCommitments...)
	thetaDeps = append(thetaDeps, proof.Advice...)
	thetaDeps = append(thetaDeps, proof.Instance...)
	theta, err := deriveRandomness(fs, "theta", thetaDeps...)
	if err != nil {
		return nil, nil, err
	}
	open.Theta = theta

	// round L: compress each lookup with θ, permute, commit A′ and S′
	type lookupState struct {
		aCompressed []fr.Element
		sCompressed []fr.Element
		aPrime      committedColumn
		sPrime      committedColumn
	}
	states := make([]lookupState, len(pk.Cs.Lookups))
	for i, lk := range pk.Cs.Lookups {
		inputs, err := pk.columns(witness, lk.Inputs)
		if err != nil {
			return nil, nil, err
		}
		tables, err := pk.columns(witness, lk.Tables)
		if err != nil {
			return nil, nil, err
		}
		states[i].aCompressed = compressColumns(inputs, theta, cfg.NbTasks)
		states[i].sCompressed = compressColumns(tables, theta, cfg.NbTasks)

		aPrime, sPrime, err := permuter.Permute(states[i].aCompressed, states[i].sCompressed)
		if err != nil {
			return nil, nil, fmt.Errorf("lookup %d: permute: %w", i, err)
		}
		cc, err := commitColumns([][]fr.Element{aPrime, sPrime}, pk.Domain, pk.Committer, cfg.BlindingSource, cfg.NbTasks)
		if err != nil {
			return nil, nil, fmt.Errorf("lookup %d: commit permuted columns: %w", i, err)
		}
		states[i].aPrime = cc[0]
		states[i].sPrime = cc[1]
	}

	proof.Lookups = make([]LookupCommitments, len(states))
	open.Lookups = make([]LookupOpenings, len(states))
	lDeps := make([]Commitment, 0, 2*len(states))
	for i := range states {
		proof.Lookups[i].APrime = states[i].aPrime.digest
		proof.Lookups[i].SPrime = states[i].sPrime.digest
		open.Lookups[i].APrime = states[i].aPrime.opened()
		open.Lookups[i].SPrime = states[i].sPrime.opened()
		lDeps = append(lDeps, states[i].aPrime.digest, states[i].sPrime.digest)
	}

	// β binds L on top of the θ round; γ chains on the β round with no
	// further commitments (the transcript folds each challenge into the
	// next). Both grand-product families share β and γ.
	beta, err := deriveRandomness(fs, "beta", lDeps...)
	if err != nil {
		return nil, nil, err
	}
	gamma, err := deriveRandomness(fs, "gamma")
	if err != nil {
		return nil, nil, err
	}
	open.Beta = beta
	open.Gamma = gamma

	// round Z: grand products are independent across arguments; fan out,
	// then record commitments in declaration order, Z_P before Z_L
	proof.PermutationZ = make([]Commitment, len(pk.Permutations))
	open.PermutationZ = make([]OpenedPolynomial, len(pk.Permutations))
	zBlinds := make([]fr.Element, len(pk.Permutations)+len(states))
	for i := range zBlinds {
		if zBlinds[i], err = cfg.BlindingSource(); err != nil {
			return nil, nil, err
		}
	}

	var g errgroup.Group
	g.SetLimit(cfg.NbTasks)
	for k := range pk.Permutations {
		g.Go(func() error {
			cols, err := pk.columns(witness, pk.Cs.Permutations[k].Columns)
			if err != nil {
				return err
			}
			gp, err := buildPermutationProduct(cols, &pk.Permutations[k], pk.Domain, beta, gamma, cfg.NbTasks)
			if err != nil {
				return fmt.Errorf("permutation %d: %w", k, err)
			}
			c := committedColumn{lagrange: gp.Z, blind: zBlinds[k]}
			c.canonical = toCanonical(c.lagrange, pk.Domain)
			if c.digest, err = pk.Committer.Commit(c.canonical, c.blind); err != nil {
				return fmt.Errorf("permutation %d: %w", k, err)
			}
			proof.PermutationZ[k] = c.digest
			open.PermutationZ[k] = c.opened()
			return nil
		})
	}
	for i := range states {
		g.Go(func() error {
			gp, err := buildLookupProduct(
				states[i].aCompressed, states[i].sCompressed,
				states[i].aPrime.lagrange, states[i].sPrime.lagrange,
				beta, gamma, cfg.NbTasks)
			if err != nil {
				return fmt.Errorf("lookup %d: %w", i, err)
			}
			c := committedColumn{lagrange: gp.Z, blind: zBlinds[len(pk.Permutations)+i]}
			c.canonical = toCanonical(c.lagrange, pk.Domain)
			if c.digest, err = pk.Committer.Commit(c.canonical, c.blind); err != nil {
				return fmt.Errorf("lookup %d: %w", i, err)
			}
			proof.Lookups[i].Z = c.digest
			open.Lookups[i].Z = c.opened()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	log.Debug().Dur("took", time.Since(start)).Msg("prover done")

	return proof, open, nil
}

// deriveRandomness binds the given commitments to the challenge and
// samples it. The transcript chains challenges, so every earlier round
// is folded in as well.
func deriveRandomness(fs *fiatshamir.Transcript, challenge string, points ...Commitment) (fr.Element, error) {
	var r fr.Element
	for i := range points {
		buf := points[i].RawBytes()
		if err := fs.Bind(challenge, buf[:]); err != nil {
			return r, err
		}
	}
	b, err := fs.ComputeChallenge(challenge)
	if err != nil {
		return r, err
	}
	r.SetBytes(b)
	return r, nil
}

// columns resolves ids to their Lagrange values: fixed columns from the
// key, advice and instance columns from the witness.
func (pk *ProvingKey) columns(w *Witness, ids []ColumnID) ([][]fr.Element, error) {
	res := make([][]fr.Element, len(ids))
	for i, id := range ids {
		switch id.Kind {
		case Fixed:
			res[i] = pk.FixedLagrange[id.Index]
		case Advice:
			res[i] = w.Advice[id.Index]
		case Instance:
			res[i] = w.Instance[id.Index]
		default:
			return nil, ErrInvalidColumnID
		}
	}
	return res, nil
}

func (pk *ProvingKey) validateWitness(w *Witness) error {
	if w == nil || len(w.Advice) != pk.Cs.NbAdvice || len(w.Instance) != pk.Cs.NbInstance {
		return ErrInvalidWitness
	}
	for i := range w.Advice {
		if uint64(len(w.Advice[i])) != pk.Domain.Cardinality {
			return ErrInvalidWitness
		}
	}
	for i := range w.Instance {
		if uint64(len(w.Instance[i])) != pk.Domain.Cardinality {
			return ErrInvalidWitness
		}
	}
	return nil
}

func (c *committedColumn) opened() OpenedPolynomial {
	return OpenedPolynomial{Canonical: c.canonical, Blind: c.blind}
}

func opened(columns []committedColumn) []OpenedPolynomial {
	res := make([]OpenedPolynomial, len(columns))
	for i := range columns {
		res[i] = columns[i].opened()
	}
	return res
}
