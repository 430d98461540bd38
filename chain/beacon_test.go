package chain

import (
	"encoding/json"
	"testing"

	"github.com/drand/kyber"
	"github.com/drand/kyber/util/random"
	"github.com/stretchr/testify/require"

	"github.com/drand/dee/crypto"
)

func TestBeaconJSONUnchained(t *testing.T) {
	raw := `{"round":3,"randomness":"aabb","signature":"ccdd"}`
	var b Beacon
	require.NoError(t, json.Unmarshal([]byte(raw), &b))
	require.Equal(t, uint64(3), b.Round)
	require.Nil(t, b.PreviousSignature)
	require.False(t, b.IsChained())

	out, err := json.Marshal(&b)
	require.NoError(t, err)
	require.JSONEq(t, raw, string(out))
}

func TestBeaconJSONChained(t *testing.T) {
	raw := `{"round":1,"randomness":"aabb","signature":"ccdd","previous_signature":"ee"}`
	var b Beacon
	require.NoError(t, json.Unmarshal([]byte(raw), &b))
	require.True(t, b.IsChained())
	require.Equal(t, hexBytes{0xee}, b.PreviousSignature)

	out, err := json.Marshal(&b)
	require.NoError(t, err)
	require.JSONEq(t, raw, string(out))
}

// signFor is shared scaffolding with crypto's own tests: build a valid
// signature for b's signing message under a freshly generated keypair.
func signFor(t *testing.T, s *crypto.Scheme, b *Beacon) ([]byte, kyber.Point) {
	t.Helper()
	secret := s.KeyGroup.Scalar().Pick(random.New())
	pubkey := s.KeyGroup.Point().Mul(secret, nil)

	hp, ok := s.SigGroup.Point().(crypto.HashablePoint)
	require.True(t, ok)
	h := hp.Hash(s.DigestBeacon(b))
	sigPoint := s.SigGroup.Point().Mul(secret, h)
	sigBytes, err := sigPoint.MarshalBinary()
	require.NoError(t, err)
	b.Signature = sigBytes
	return sigBytes, pubkey
}

func TestBeaconVerifyUnchainedSucceeds(t *testing.T) {
	s := crypto.NewPedersenBLSUnchained()
	b := &Beacon{Round: 11}
	_, pubkey := signFor(t, s, b)
	pkBytes, err := pubkey.MarshalBinary()
	require.NoError(t, err)

	info := &Info{SchemeID: crypto.UnchainedSchemeID, PublicKey: pkBytes}
	sum := crypto.RandomnessFromSignature(b.Signature)
	b.Randomness = sum

	ok, err := b.Verify(info)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestBeaconVerifyRejectsSchemeMismatch(t *testing.T) {
	s := crypto.NewPedersenBLSUnchained()
	b := &Beacon{Round: 11} // unchained (no previous signature)
	_, pubkey := signFor(t, s, b)
	pkBytes, err := pubkey.MarshalBinary()
	require.NoError(t, err)

	b.Randomness = crypto.RandomnessFromSignature(b.Signature)

	// info claims a chained scheme; the beacon is unchained.
	info := &Info{SchemeID: crypto.DefaultSchemeID, PublicKey: pkBytes}
	ok, err := b.Verify(info)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestBeaconVerifyRejectsBadRandomness(t *testing.T) {
	s := crypto.NewPedersenBLSUnchained()
	b := &Beacon{Round: 11}
	_, pubkey := signFor(t, s, b)
	pkBytes, err := pubkey.MarshalBinary()
	require.NoError(t, err)

	b.Randomness = hexBytes{0x00, 0x01, 0x02}

	info := &Info{SchemeID: crypto.UnchainedSchemeID, PublicKey: pkBytes}
	ok, err := b.Verify(info)
	require.NoError(t, err)
	require.False(t, ok)
}
