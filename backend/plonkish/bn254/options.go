package plonkish

import (
	"errors"
	"hash"
	"runtime"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"golang.org/x/crypto/blake2b"
)

// ProverOption defines option for altering the behavior of the prover in
// Prove. See the descriptions of functions returning instances of this
// type for implemented options.
type ProverOption func(*ProverConfig) error

// ProverConfig is the configuration for the prover with the options applied.
type ProverConfig struct {
	ChallengeHash  hash.Hash
	BlindingSource func() (fr.Element, error)
	NbTasks        int
}

// NewProverConfig returns a default ProverConfig with given prover options
// opts applied.
func NewProverConfig(opts ...ProverOption) (ProverConfig, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return ProverConfig{}, err
	}
	cfg := ProverConfig{
		ChallengeHash:  h,
		BlindingSource: freshBlind,
		NbTasks:        runtime.NumCPU(),
	}
	for _, option := range opts {
		if err := option(&cfg); err != nil {
			return ProverConfig{}, err
		}
	}
	return cfg, nil
}

func freshBlind() (fr.Element, error) {
	var b fr.Element
	if _, err := b.SetRandom(); err != nil {
		return fr.Element{}, err
	}
	return b, nil
}

// WithChallengeHash sets the hash function used for computing
// non-interactive challenges in the Fiat-Shamir heuristic. If not set
// then by default BLAKE2b-256 is used. Used mainly for compatibility
// between different systems and efficient recursion.
func WithChallengeHash(hFunc hash.Hash) ProverOption {
	return func(cfg *ProverConfig) error {
		if hFunc == nil {
			return errors.New("nil challenge hash")
		}
		cfg.ChallengeHash = hFunc
		return nil
	}
}

// WithBlindingSource overrides how blinding factors are drawn. The
// default draws uniformly at random from fr; overriding it with a
// deterministic source makes proofs reproducible, which is only safe in
// tests since commitments are no longer hiding.
func WithBlindingSource(source func() (fr.Element, error)) ProverOption {
	return func(cfg *ProverConfig) error {
		if source == nil {
			return errors.New("nil blinding source")
		}
		cfg.BlindingSource = source
		return nil
	}
}

// WithNbTasks bounds the number of goroutines used by row-parallel work.
func WithNbTasks(nbTasks int) ProverOption {
	return func(cfg *ProverConfig) error {
		if nbTasks < 1 {
			return errors.New("nbTasks must be at least 1")
		}
		cfg.NbTasks = nbTasks
		return nil
	}
}
