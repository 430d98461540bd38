// Package chain implements the beacon model and verifier (C2), chain
// info / verification options (C3), and the round/time calculus (C4).
package chain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/drand/dee/crypto"
)

// Metadata is immutable once received from a chain.
type Metadata struct {
	BeaconID string `json:"beaconID"`
}

// Info is the public descriptor of a beacon chain: its public key,
// cadence, genesis, identity hash, and signature scheme.
type Info struct {
	PublicKey   hexBytes `json:"public_key"`
	Period      uint64   `json:"period"`
	GenesisTime int64    `json:"genesis_time"`
	Hash        hexBytes `json:"hash"`
	GroupHash   hexBytes `json:"groupHash"`
	SchemeID    string   `json:"schemeID"`
	Metadata    Metadata `json:"metadata"`
}

// IsUnchained reports whether info.SchemeID names an unchained scheme.
func (i *Info) IsUnchained() bool { return strings.Contains(i.SchemeID, "unchained") }

// IsRFC9380 reports whether info.SchemeID contains the "rfc9380" marker.
func (i *Info) IsRFC9380() bool { return strings.Contains(i.SchemeID, "rfc9380") }

// IsG1 reports whether info.SchemeID places signatures on G1.
func (i *Info) IsG1() bool { return strings.Contains(i.SchemeID, "g1") }

// Scheme resolves info.SchemeID to its concrete crypto.Scheme.
func (i *Info) Scheme() (*crypto.Scheme, error) {
	return crypto.SchemeFromName(i.SchemeID)
}

// String renders a short identity summary, useful for log lines and CLI
// "remote show" output.
func (i *Info) String() string {
	return fmt.Sprintf("chain %x (beacon %q, scheme %s, period %ds)", i.Hash, i.Metadata.BeaconID, i.SchemeID, i.Period)
}

// ParseInfo decodes a chain info response body (spec.md §6).
func ParseInfo(data []byte) (*Info, error) {
	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("chain: parsing info: %w", err)
	}
	return &info, nil
}
