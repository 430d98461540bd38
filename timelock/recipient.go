package timelock

import (
	"encoding/hex"
	"strconv"

	"filippo.io/age"
	"github.com/drand/kyber"

	"github.com/drand/dee/chain"
	"github.com/drand/dee/crypto"
	"github.com/drand/dee/dee"
)

// Recipient is an age.Recipient that wraps a file key under a chain's
// public key for a specific future round.
type Recipient struct {
	scheme    *crypto.Scheme
	pubkey    kyber.Point
	chainHash []byte
	round     uint64
	stanza    string
}

var _ age.Recipient = (*Recipient)(nil)

// NewRecipient builds a Recipient that encrypts to round on the chain
// described by info. Encryption against a chained chain is refused:
// timelock identities are unchained signing messages. Round 0 is refused
// with a dee.ValidationError, since rounds start at 1.
func NewRecipient(info *chain.Info, round uint64) (*Recipient, error) {
	stz, scheme, err := chainStanzaType(info)
	if err != nil {
		return nil, err
	}
	if round == 0 {
		return nil, &dee.ValidationError{Reason: "round 0 does not exist, rounds start at 1"}
	}
	pubkey := scheme.KeyGroup.Point()
	if err := pubkey.UnmarshalBinary(info.PublicKey); err != nil {
		return nil, err
	}
	return &Recipient{
		scheme:    scheme,
		pubkey:    pubkey,
		chainHash: info.Hash,
		round:     round,
		stanza:    stz,
	}, nil
}

// Wrap implements age.Recipient: it IBE-encrypts fileKey to the round
// identity and returns a single tlock stanza.
func (r *Recipient) Wrap(fileKey []byte) ([]*age.Stanza, error) {
	id := crypto.RoundIdentity(r.round)
	ct, err := crypto.EncryptIBE(r.scheme, r.pubkey, id, fileKey)
	if err != nil {
		return nil, err
	}
	u, err := ct.U.MarshalBinary()
	if err != nil {
		return nil, err
	}
	body := append(append([]byte{}, u...), ct.V...)

	return []*age.Stanza{{
		Type: r.stanza,
		Args: []string{strconv.FormatUint(r.round, 10), hex.EncodeToString(r.chainHash)},
		Body: body,
	}}, nil
}
