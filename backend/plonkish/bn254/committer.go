package plonkish

import (
	"math/big"

	curve "github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/kzg"
)

// Commitment is a binding, hiding commitment to a polynomial.
type Commitment = kzg.Digest

// A Committer turns a polynomial in canonical form and a blinding factor
// into a Commitment. It is the only capability through which the prover
// touches the commitment primitive; curve internals stay behind it.
//
// Two commitments are equal only if polynomial and blinding factor agree.
type Committer interface {
	Commit(p []fr.Element, blind fr.Element) (Commitment, error)
}

// KZGCommitter commits with C = [p(α)]₁ + blind·H where H is a G1 point
// independent of the SRS powers, obtained by hashing to the curve. The
// KZG part makes the commitment binding, the blind·H term makes it
// hiding as long as blind stays secret.
type KZGCommitter struct {
	pk kzg.ProvingKey
	h  curve.G1Affine
}

// NewKZGCommitter wraps a KZG SRS. The SRS must hold at least as many
// G1 powers as the polynomial degree bound (the domain size).
func NewKZGCommitter(srs *kzg.SRS) (*KZGCommitter, error) {
	h, err := curve.HashToG1([]byte("plonkish blinding base"), []byte("plonkish"))
	if err != nil {
		return nil, err
	}
	return &KZGCommitter{pk: srs.Pk, h: h}, nil
}

func (c *KZGCommitter) Commit(p []fr.Element, blind fr.Element) (Commitment, error) {
	d, err := kzg.Commit(p, c.pk)
	if err != nil {
		return Commitment{}, err
	}
	var bBlind big.Int
	var hb curve.G1Affine
	hb.ScalarMultiplication(&c.h, blind.BigInt(&bBlind))
	d.Add(&d, &hb)
	return d, nil
}
