// Package timelock implements C6: identity-based encryption to a future
// beacon round, wrapped in an age-compatible streaming container. The
// round's eventual signature is the identity private key; encrypting a
// file therefore "locks" it until that round is produced.
//
// The container format reuses filippo.io/age's STREAM framing and
// authentication (age.Encrypt / age.Decrypt) for the bulk ciphertext;
// this package only supplies the age.Recipient / age.Identity pair that
// wraps and unwraps the per-file symmetric key via identity-based
// encryption instead of age's usual X25519 or scrypt recipients.
package timelock

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"filippo.io/age"

	"github.com/drand/dee/chain"
	"github.com/drand/dee/crypto"
	"github.com/drand/dee/dee"
)

// stanzaType is the age recipient stanza identifier for scheme. A
// pre-RFC9380 chain and an RFC9380 chain must not be able to decrypt
// each other's ciphertexts, so each gets its own stanza type.
func stanzaType(s *crypto.Scheme) string {
	if s.IsRFC9380() {
		return "tlock-rfc9380"
	}
	return "tlock"
}

// header is the information recoverable from a ciphertext's recipient
// stanza without needing the target round's beacon.
type header struct {
	Type  string
	Round uint64
	Hash  []byte
}

func parseStanza(st *age.Stanza) (*header, error) {
	if st.Type != "tlock" && st.Type != "tlock-rfc9380" {
		return nil, fmt.Errorf("timelock: not a tlock stanza")
	}
	if len(st.Args) != 2 {
		return nil, &dee.ParsingError{Field: "tlock stanza args", Err: fmt.Errorf("expected 2 args, got %d", len(st.Args))}
	}
	round, err := strconv.ParseUint(st.Args[0], 10, 64)
	if err != nil {
		return nil, &dee.ParsingError{Field: "tlock stanza round", Err: err}
	}
	hash, err := hex.DecodeString(st.Args[1])
	if err != nil {
		return nil, &dee.ParsingError{Field: "tlock stanza hash", Err: err}
	}
	return &header{Type: st.Type, Round: round, Hash: hash}, nil
}

// chainStanzaType maps a chain's own scheme to the stanza type a
// ciphertext encrypted for it must use.
func chainStanzaType(info *chain.Info) (string, *crypto.Scheme, error) {
	scheme, err := info.Scheme()
	if err != nil {
		return "", nil, err
	}
	if !scheme.IsUnchained() {
		return "", nil, &dee.EncryptionUnsupportedError{SchemeID: info.SchemeID}
	}
	return stanzaType(scheme), scheme, nil
}
