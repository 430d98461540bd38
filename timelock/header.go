package timelock

import (
	"fmt"
	"io"

	"filippo.io/age"
)

// Header is what DecryptHeader recovers from a ciphertext without
// needing the target round's beacon: enough to look up a locally known
// chain and report the round to the caller.
type Header struct {
	Round uint64
	Hash  []byte
}

// probeIdentity is an age.Identity whose sole purpose is to observe the
// stanzas age.Decrypt hands it and then refuse them. It lets us recover
// the recipient header without reimplementing age's wire-format framing.
type probeIdentity struct {
	captured *header
	err      error
}

func (p *probeIdentity) Unwrap(stanzas []*age.Stanza) ([]byte, error) {
	for _, st := range stanzas {
		h, err := parseStanza(st)
		if err != nil {
			continue
		}
		p.captured = h
		break
	}
	if p.captured == nil {
		p.err = fmt.Errorf("timelock: no tlock recipient stanza found")
	}
	return nil, age.ErrIncorrectIdentity
}

// DecryptHeader reads only the recipient header from src, without
// fetching or requiring the target round's beacon. src must support
// being read exactly once up to the point age.Decrypt stops at; callers
// working from a non-seekable source should wrap it in a ResetReader
// and call Reset before the subsequent full Decrypt call.
func DecryptHeader(src io.Reader) (*Header, error) {
	probe := &probeIdentity{}
	_, err := age.Decrypt(src, probe)
	if probe.captured == nil {
		if probe.err != nil {
			return nil, probe.err
		}
		if err != nil {
			return nil, fmt.Errorf("timelock: reading header: %w", err)
		}
		return nil, fmt.Errorf("timelock: no tlock recipient stanza found")
	}
	return &Header{Round: probe.captured.Round, Hash: probe.captured.Hash}, nil
}
