package chain

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
)

// Beacon is one round's signed randomness. It is a tagged union over two
// signature regimes: chained (PreviousSignature present) and unchained
// (absent). Which one it is is discriminated by presence/absence of the
// wire field "previous_signature", not by its length.
type Beacon struct {
	Round             uint64
	Randomness        hexBytes
	Signature         hexBytes
	PreviousSignature hexBytes // nil for unchained beacons
}

// GetRound implements the hashableBeacon interface crypto.Scheme needs.
func (b *Beacon) GetRound() uint64 { return b.Round }

// GetPreviousSignature implements the hashableBeacon interface.
func (b *Beacon) GetPreviousSignature() []byte { return b.PreviousSignature }

// GetSignature implements the signedBeacon interface.
func (b *Beacon) GetSignature() []byte { return b.Signature }

// IsChained reports whether this beacon carries a previous signature.
func (b *Beacon) IsChained() bool { return b.PreviousSignature != nil }

type wireBeacon struct {
	Round             uint64          `json:"round"`
	Randomness        hexBytes        `json:"randomness"`
	Signature         hexBytes        `json:"signature"`
	PreviousSignature json.RawMessage `json:"previous_signature,omitempty"`
}

// MarshalJSON renders the wire shape from spec.md §6, omitting
// previous_signature entirely for unchained beacons.
func (b *Beacon) MarshalJSON() ([]byte, error) {
	w := wireBeacon{Round: b.Round, Randomness: b.Randomness, Signature: b.Signature}
	if b.PreviousSignature != nil {
		raw, err := json.Marshal(b.PreviousSignature)
		if err != nil {
			return nil, err
		}
		w.PreviousSignature = raw
	}
	return json.Marshal(w)
}

// UnmarshalJSON discriminates chained vs unchained by the presence of
// the "previous_signature" key, per spec.md §3.
func (b *Beacon) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("chain: parsing beacon: %w", err)
	}

	var w wireBeacon
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("chain: parsing beacon: %w", err)
	}
	b.Round = w.Round
	b.Randomness = w.Randomness
	b.Signature = w.Signature
	b.PreviousSignature = nil

	if prev, ok := raw["previous_signature"]; ok {
		var sig hexBytes
		if err := json.Unmarshal(prev, &sig); err != nil {
			return fmt.Errorf("chain: parsing beacon.previous_signature: %w", err)
		}
		if sig == nil {
			// keep the key's presence visible even for an empty value
			sig = hexBytes{}
		}
		b.PreviousSignature = sig
	}
	return nil
}

// Verify implements C2: the scheme compatibility gate, pairing
// verification, and randomness digest check. It returns (false, nil) for
// scheme mismatches or signature/randomness failures, and a non-nil
// error only when a cryptographic primitive itself cannot be evaluated
// (malformed public key encoding).
func (b *Beacon) Verify(info *Info) (bool, error) {
	scheme, err := info.Scheme()
	if err != nil {
		return false, fmt.Errorf("chain: resolving scheme: %w", err)
	}

	beaconUnchained := !b.IsChained()
	if beaconUnchained != info.IsUnchained() {
		return false, nil
	}
	if len(b.Signature) == 48 && !info.IsG1() {
		return false, nil
	}

	pubkey := scheme.KeyGroup.Point()
	if err := pubkey.UnmarshalBinary(info.PublicKey); err != nil {
		return false, fmt.Errorf("chain: unmarshaling public key: %w", err)
	}

	if err := scheme.VerifyBeacon(b, pubkey); err != nil {
		return false, nil
	}

	sum := sha256.Sum256(b.Signature)
	if string(sum[:]) != string(b.Randomness) {
		return false, nil
	}
	return true, nil
}
