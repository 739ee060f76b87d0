package plonkish

import (
	"errors"
	"io"

	curve "github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/fxamacker/cbor/v2"
)

// WriteTo writes binary encoding of proof to w. Lookup commitments are
// flattened into per-field lists; the curve encoder length-prefixes each
// list.
func (proof *Proof) WriteTo(w io.Writer) (int64, error) {
	aPrimes := make([]Commitment, len(proof.Lookups))
	sPrimes := make([]Commitment, len(proof.Lookups))
	zs := make([]Commitment, len(proof.Lookups))
	for i := range proof.Lookups {
		aPrimes[i] = proof.Lookups[i].APrime
		sPrimes[i] = proof.Lookups[i].SPrime
		zs[i] = proof.Lookups[i].Z
	}

	enc := curve.NewEncoder(w)
	toEncode := []interface{}{
		proof.Advice,
		proof.Instance,
		aPrimes,
		sPrimes,
		zs,
		proof.PermutationZ,
	}
	for _, v := range toEncode {
		if err := enc.Encode(v); err != nil {
			return enc.BytesWritten(), err
		}
	}
	return enc.BytesWritten(), nil
}

// ReadFrom reads binary encoding of proof from r.
func (proof *Proof) ReadFrom(r io.Reader) (int64, error) {
	var aPrimes, sPrimes, zs []Commitment

	dec := curve.NewDecoder(r)
	toDecode := []interface{}{
		&proof.Advice,
		&proof.Instance,
		&aPrimes,
		&sPrimes,
		&zs,
		&proof.PermutationZ,
	}
	for _, v := range toDecode {
		if err := dec.Decode(v); err != nil {
			return dec.BytesRead(), err
		}
	}

	if len(aPrimes) != len(sPrimes) || len(aPrimes) != len(zs) {
		return dec.BytesRead(), errors.New("inconsistent lookup commitment counts")
	}
	proof.Lookups = make([]LookupCommitments, len(aPrimes))
	for i := range proof.Lookups {
		proof.Lookups[i] = LookupCommitments{APrime: aPrimes[i], SPrime: sPrimes[i], Z: zs[i]}
	}
	return dec.BytesRead(), nil
}

// WriteTo writes a deterministic cbor encoding of the constraint system
// to w.
func (cs *ConstraintSystem) WriteTo(w io.Writer) (int64, error) {
	enc, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return 0, err
	}
	data, err := enc.Marshal(cs)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// ReadFrom reads the cbor encoding of the constraint system from r.
func (cs *ConstraintSystem) ReadFrom(r io.Reader) (int64, error) {
	dec := cbor.NewDecoder(r)
	if err := dec.Decode(cs); err != nil {
		return int64(dec.NumBytesRead()), err
	}
	return int64(dec.NumBytesRead()), nil
}
