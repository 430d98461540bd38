package timelock

import (
	"filippo.io/age"
	"github.com/drand/kyber"

	"github.com/drand/dee/crypto"
	"github.com/drand/dee/dee"
)

// Identity is an age.Identity that unwraps a tlock stanza given the
// already-fetched, already-verified beacon signature for the target
// round — the identity private key. It performs no network I/O; callers
// (Decrypt) are responsible for fetching and verifying the beacon first.
type Identity struct {
	scheme    *crypto.Scheme
	signature kyber.Point
	chainHash []byte
	round     uint64
}

var _ age.Identity = (*Identity)(nil)

// NewIdentity builds an Identity for round on scheme's chain, given the
// beacon's raw signature bytes.
func NewIdentity(scheme *crypto.Scheme, chainHash []byte, round uint64, signature []byte) (*Identity, error) {
	sig := scheme.SigGroup.Point()
	if err := sig.UnmarshalBinary(signature); err != nil {
		return nil, &dee.ValidationError{Reason: "malformed beacon signature: " + err.Error()}
	}
	return &Identity{scheme: scheme, signature: sig, chainHash: chainHash, round: round}, nil
}

// Unwrap implements age.Identity.
func (id *Identity) Unwrap(stanzas []*age.Stanza) ([]byte, error) {
	wantType := stanzaType(id.scheme)
	for _, st := range stanzas {
		if st.Type != wantType {
			continue
		}
		h, err := parseStanza(st)
		if err != nil {
			continue
		}
		if h.Round != id.round || string(h.Hash) != string(id.chainHash) {
			continue
		}

		ptLen := id.scheme.KeyGroup.PointLen()
		if len(st.Body) < ptLen {
			continue
		}
		u := id.scheme.KeyGroup.Point()
		if err := u.UnmarshalBinary(st.Body[:ptLen]); err != nil {
			continue
		}
		ct := &crypto.IBECiphertext{U: u, V: st.Body[ptLen:]}

		key, err := crypto.DecryptIBE(id.scheme, id.signature, ct)
		if err != nil {
			continue
		}
		return key, nil
	}
	return nil, age.ErrIncorrectIdentity
}
