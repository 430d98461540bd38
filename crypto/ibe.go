package crypto

import (
	"crypto/sha256"
	"fmt"

	"github.com/drand/kyber"
	"github.com/drand/kyber/util/random"
)

// HashablePoint is implemented by kyber-bls12381's point types; it maps
// arbitrary bytes into a curve point using the suite's configured
// domain-separation tag, i.e. hash-to-curve.
type HashablePoint interface {
	Hash([]byte) kyber.Point
}

// IBECiphertext is the result of wrapping a symmetric key under a round
// identity. U is the ephemeral curve point, V is the wrapped key.
type IBECiphertext struct {
	U kyber.Point
	V []byte
}

// pair evaluates the scheme's pairing with a and b placed on the correct
// curve regardless of which group (G1 or G2) carries the scheme's
// signature versus its public key.
func pair(s *Scheme, sigPoint, keyPoint kyber.Point) kyber.Point {
	if s.IsG1() {
		// signature group is G1, key group is G2
		return s.Suite.Pair(sigPoint, keyPoint)
	}
	return s.Suite.Pair(keyPoint, sigPoint)
}

// identityPoint hashes id into the scheme's signature group — the same
// point a beacon signature for that identity is computed over.
func identityPoint(s *Scheme, id []byte) (kyber.Point, error) {
	hp, ok := s.SigGroup.Point().(HashablePoint)
	if !ok {
		return nil, fmt.Errorf("crypto: signature group point does not support hash-to-curve")
	}
	return hp.Hash(id), nil
}

func gtToKey(gt kyber.Point, n int) ([]byte, error) {
	b, err := gt.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("crypto: marshaling pairing result: %w", err)
	}
	sum := sha256.Sum256(b)
	if n > len(sum) {
		return nil, fmt.Errorf("crypto: requested key length %d exceeds digest size", n)
	}
	return sum[:n], nil
}

func xor(dst, key []byte) []byte {
	out := make([]byte, len(dst))
	for i := range dst {
		out[i] = dst[i] ^ key[i%len(key)]
	}
	return out
}

// EncryptIBE wraps key (typically a 16-byte age file key) under pubkey
// for identity id, using scheme's curve placement and pairing. This is
// the Boneh-Franklin BasicIdent construction: the round's beacon
// signature (s*Hash(id)) is exactly the identity private key that later
// decrypts it.
func EncryptIBE(s *Scheme, pubkey kyber.Point, id, key []byte) (*IBECiphertext, error) {
	qid, err := identityPoint(s, id)
	if err != nil {
		return nil, err
	}

	r := s.Suite.G1().Scalar().Pick(random.New())
	base := s.KeyGroup.Point().Base()
	u := s.KeyGroup.Point().Mul(r, base)

	shared := pair(s, qid, pubkey)
	gt := s.Suite.GT().Point().Mul(r, shared)

	mask, err := gtToKey(gt, len(key))
	if err != nil {
		return nil, err
	}

	return &IBECiphertext{U: u, V: xor(key, mask)}, nil
}

// DecryptIBE recovers the wrapped key given the round's beacon signature
// (the identity private key) and the ciphertext produced by EncryptIBE.
func DecryptIBE(s *Scheme, signature kyber.Point, ct *IBECiphertext) ([]byte, error) {
	gt := pair(s, signature, ct.U)
	mask, err := gtToKey(gt, len(ct.V))
	if err != nil {
		return nil, err
	}
	return xor(ct.V, mask), nil
}
