// Package crypto implements the pairing-curve primitives that back every
// beacon signature in the network: BLS12-381 point decoding, RFC 9380
// (and pre-RFC) hash-to-curve, and the optimized pairing equality test
// used to verify a beacon signature against the chain's public key.
//
// A Scheme groups together the two curve placements a chain can use
// (signature on G1 with the key on G2, or vice-versa) along with the
// hash-to-curve domain separation tag appropriate for that placement,
// so that callers never have to juggle DSTs by hand.
package crypto

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"github.com/drand/kyber"
	bls "github.com/drand/kyber-bls12381"
	"github.com/drand/kyber/pairing"
	"github.com/drand/kyber/sign"
	"github.com/drand/kyber/sign/tbls"
)

// hashableBeacon is the minimal shape DigestBeacon needs from a beacon to
// compute its signing message.
type hashableBeacon interface {
	GetPreviousSignature() []byte
	GetRound() uint64
}

type signedBeacon interface {
	hashableBeacon
	GetSignature() []byte
}

// Scheme groups the cryptographic choices that distinguish one beacon
// chain's signature regime from another: which group carries the
// signature, which carries the public key, and the hash-to-curve domain
// tag used to map a message into the signature group.
//
// Scheme is not meant to be marshaled directly; construct one of the
// four variants with SchemeFromName or GetSchemeByIDWithDefault instead.
type Scheme struct {
	// Name is the scheme identifier as advertised over the wire.
	Name string
	// Suite exposes the pairing (G1, G2, GT groups and the Pair operation)
	// that DigestBeacon's signature group and the timelock IBE layer build on.
	Suite pairing.Suite
	// SigGroup is the group signatures live in.
	SigGroup kyber.Group
	// KeyGroup is the group public keys live in; always the other group
	// from SigGroup.
	KeyGroup kyber.Group
	// ThresholdScheme performs the actual pairing-equality verification
	// of a (recovered, non-aggregated) BLS signature.
	ThresholdScheme sign.ThresholdScheme
	// DigestBeacon computes the bytes that get signed for a given round.
	DigestBeacon func(hashableBeacon) []byte `json:"-"`
}

// VerifyBeacon checks b.GetSignature() against pubkey using the scheme's
// pairing equality test. This is C1's single Verify operation, reached
// through C2.
func (s *Scheme) VerifyBeacon(b signedBeacon, pubkey kyber.Point) error {
	return s.ThresholdScheme.VerifyRecovered(pubkey, s.DigestBeacon(b), b.GetSignature())
}

func (s *Scheme) String() string {
	if s != nil {
		return s.Name
	}
	return ""
}

// IsUnchained reports whether this scheme signs beacons independently of
// the previous round's signature.
func (s *Scheme) IsUnchained() bool { return containsFold(s.Name, "unchained") }

// IsRFC9380 reports whether this scheme's identifier carries the
// "rfc9380" marker. Only SigsOnG1ID does; the G2-placed pedersen schemes
// report false.
func (s *Scheme) IsRFC9380() bool { return containsFold(s.Name, "rfc9380") }

// IsG1 reports whether signatures are placed on G1 (48 bytes, keys on
// G2) rather than the default G2 placement (96 bytes, keys on G1).
func (s *Scheme) IsG1() bool { return containsFold(s.Name, "g1") }

func containsFold(s, substr string) bool {
	// scheme identifiers are plain ASCII lowercase tokens; a simple
	// substring search is all §3's predicates require.
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}

// DefaultSchemeID is the chained scheme used by the original drand
// network. Chaining prevents predicting a future signed message before
// the previous signature is known, which also makes this scheme
// incompatible with timelock encryption.
const DefaultSchemeID = "pedersen-bls-chained"

// UnchainedSchemeID signs only the round number, decoupling beacons from
// one another. This is the scheme timelock encryption requires.
const UnchainedSchemeID = "pedersen-bls-unchained"

// ShortSigSchemeID places signatures on G1 (48 bytes) and keys on G2,
// halving beacon storage size, but reuses the G2 hash-to-curve DST on G1
// points and so is not RFC 9380 compliant.
//
// Deprecated: superseded by SigsOnG1ID, which fixes the DST.
const ShortSigSchemeID = "bls-unchained-on-g1"

// SigsOnG1ID is the RFC 9380 compliant counterpart of ShortSigSchemeID:
// signatures on G1, keys on G2, using the G1 hash-to-curve DST.
const SigsOnG1ID = "bls-unchained-g1-rfc9380"

const dstG1RFC9380 = "BLS_SIG_BLS12381G1_XMD:SHA-256_SSWU_RO_NUL_"
const dstG2RFC9380 = "BLS_SIG_BLS12381G2_XMD:SHA-256_SSWU_RO_NUL_"

func unchainedDigest(b hashableBeacon) []byte {
	h := sha256.New()
	_ = binary.Write(h, binary.BigEndian, b.GetRound())
	return h.Sum(nil)
}

func chainedDigest(b hashableBeacon) []byte {
	h := sha256.New()
	if len(b.GetPreviousSignature()) > 0 {
		_, _ = h.Write(b.GetPreviousSignature())
	}
	_ = binary.Write(h, binary.BigEndian, b.GetRound())
	return h.Sum(nil)
}

// NewPedersenBLSChained builds the original chained scheme: signatures
// on G2 (96 bytes), keys on G1 (48 bytes), RFC 9380 hash-to-curve.
func NewPedersenBLSChained() *Scheme {
	suite := bls.NewBLS12381SuiteWithDST([]byte(dstG1RFC9380), []byte(dstG2RFC9380))
	return &Scheme{
		Name:            DefaultSchemeID,
		Suite:           suite,
		KeyGroup:        suite.G1(),
		SigGroup:        suite.G2(),
		ThresholdScheme: tbls.NewThresholdSchemeOnG2(suite),
		DigestBeacon:    chainedDigest,
	}
}

// NewPedersenBLSUnchained is NewPedersenBLSChained's unchained twin:
// same curve placement, but the signing message drops the previous
// signature, which is what makes this scheme timelock-compatible.
func NewPedersenBLSUnchained() *Scheme {
	suite := bls.NewBLS12381SuiteWithDST([]byte(dstG1RFC9380), []byte(dstG2RFC9380))
	return &Scheme{
		Name:            UnchainedSchemeID,
		Suite:           suite,
		KeyGroup:        suite.G1(),
		SigGroup:        suite.G2(),
		ThresholdScheme: tbls.NewThresholdSchemeOnG2(suite),
		DigestBeacon:    unchainedDigest,
	}
}

// NewPedersenBLSUnchainedSwapped swaps the curve placement (signatures
// on G1, keys on G2) but keeps reusing the G2 DST for G1 hash-to-curve,
// which is why it predates and disagrees with RFC 9380.
func NewPedersenBLSUnchainedSwapped() *Scheme {
	suite := bls.NewBLS12381SuiteWithDST([]byte(dstG2RFC9380), []byte(dstG2RFC9380))
	return &Scheme{
		Name:            ShortSigSchemeID,
		Suite:           suite,
		KeyGroup:        suite.G2(),
		SigGroup:        suite.G1(),
		ThresholdScheme: tbls.NewThresholdSchemeOnG1(suite),
		DigestBeacon:    unchainedDigest,
	}
}

// NewPedersenBLSUnchainedG1 is the RFC 9380 compliant fix of
// NewPedersenBLSUnchainedSwapped: same curve placement, correct G1 DST.
func NewPedersenBLSUnchainedG1() *Scheme {
	suite := bls.NewBLS12381SuiteWithDST([]byte(dstG1RFC9380), []byte(dstG2RFC9380))
	return &Scheme{
		Name:            SigsOnG1ID,
		Suite:           suite,
		KeyGroup:        suite.G2(),
		SigGroup:        suite.G1(),
		ThresholdScheme: tbls.NewThresholdSchemeOnG1(suite),
		DigestBeacon:    unchainedDigest,
	}
}

// SchemeFromName resolves a scheme identifier to its Scheme. Recognition
// is exact, not substring based: the substring predicates (IsUnchained,
// IsRFC9380, IsG1) classify a scheme once it is already known, they are
// not used to parse unknown identifiers.
func SchemeFromName(name string) (*Scheme, error) {
	switch name {
	case DefaultSchemeID:
		return NewPedersenBLSChained(), nil
	case UnchainedSchemeID:
		return NewPedersenBLSUnchained(), nil
	case SigsOnG1ID:
		return NewPedersenBLSUnchainedG1(), nil
	case ShortSigSchemeID:
		return NewPedersenBLSUnchainedSwapped(), nil
	default:
		return nil, fmt.Errorf("invalid scheme name %q", name)
	}
}

// GetSchemeByIDWithDefault resolves id, falling back to DefaultSchemeID
// when id is empty.
func GetSchemeByIDWithDefault(id string) (*Scheme, error) {
	if id == "" {
		id = DefaultSchemeID
	}
	return SchemeFromName(id)
}

var schemeIDs = []string{DefaultSchemeID, UnchainedSchemeID, SigsOnG1ID, ShortSigSchemeID}

// ListSchemes returns every scheme identifier this package recognizes.
func ListSchemes() []string {
	out := make([]string, len(schemeIDs))
	copy(out, schemeIDs)
	return out
}

// RoundIdentity computes the timelock encryption identity for round: the
// unchained signing message any unchained scheme would sign for that
// round. Encryption binds a message to this identity before the round's
// beacon (and thus its signature, the identity private key) exists.
func RoundIdentity(round uint64) []byte {
	h := sha256.New()
	_ = binary.Write(h, binary.BigEndian, round)
	return h.Sum(nil)
}

// RandomnessFromSignature derives a beacon's randomness from its
// signature by hashing it with SHA-256. Hashing matters because a
// compressed curve point is not uniformly distributed over all bit
// strings the way a hash digest is.
func RandomnessFromSignature(sig []byte) []byte {
	out := sha256.Sum256(sig)
	return out[:]
}
