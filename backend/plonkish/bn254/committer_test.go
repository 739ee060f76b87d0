package plonkish

import (
	"crypto/sha256"
	"math/big"
	"testing"

	curve "github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/kzg"
	"github.com/stretchr/testify/require"
)

var genG1 curve.G1Affine

func init() {
	_, _, genG1, _ = curve.Generators()
}

// mockCommitter hashes (evaluations ‖ blind) to a scalar and returns the
// corresponding multiple of the generator: binding up to hash
// collisions, cheap enough to run every test without an SRS.
type mockCommitter struct{}

func (mockCommitter) Commit(p []fr.Element, blind fr.Element) (Commitment, error) {
	h := sha256.New()
	for i := range p {
		b := p[i].Bytes()
		h.Write(b[:])
	}
	b := blind.Bytes()
	h.Write(b[:])

	var s fr.Element
	s.SetBytes(h.Sum(nil))
	var bi big.Int
	var c Commitment
	c.ScalarMultiplication(&genG1, s.BigInt(&bi))
	return c, nil
}

func TestMockCommitterBinding(t *testing.T) {
	assert := require.New(t)

	var committer mockCommitter
	p := randomVector(t, 8)
	q := make([]fr.Element, len(p))
	copy(q, p)
	q[3].Add(&q[3], new(fr.Element).SetOne()) // differ in one evaluation

	for i := 0; i < 16; i++ {
		var b1, b2 fr.Element
		_, err := b1.SetRandom()
		assert.NoError(err)
		_, err = b2.SetRandom()
		assert.NoError(err)

		cp, err := committer.Commit(p, b1)
		assert.NoError(err)
		cq, err := committer.Commit(q, b2)
		assert.NoError(err)
		assert.False(cp.Equal(&cq), "distinct polynomials must not share a commitment")
	}

	var one fr.Element
	one.SetOne()
	c1, err := committer.Commit(p, one)
	assert.NoError(err)
	c2, err := committer.Commit(p, one)
	assert.NoError(err)
	assert.True(c1.Equal(&c2))
}

func TestKZGCommitter(t *testing.T) {
	assert := require.New(t)

	srs, err := kzg.NewSRS(16, big.NewInt(42))
	assert.NoError(err)
	committer, err := NewKZGCommitter(srs)
	assert.NoError(err)

	p := randomVector(t, 8)
	one := fr.One()

	// blind = 1 is deterministic: same commitment on every run
	c1, err := committer.Commit(p, one)
	assert.NoError(err)
	c2, err := committer.Commit(p, one)
	assert.NoError(err)
	assert.True(c1.Equal(&c2))

	// a different blind moves the commitment
	var two fr.Element
	two.SetUint64(2)
	c3, err := committer.Commit(p, two)
	assert.NoError(err)
	assert.False(c1.Equal(&c3))
}
