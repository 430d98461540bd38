package timelock

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"filippo.io/age"
	"filippo.io/age/armor"

	"github.com/drand/dee/chain"
	"github.com/drand/dee/dee"
)

// BeaconFetcher is the subset of chain.Client Decrypt needs to retrieve
// the target round's beacon.
type BeaconFetcher func(round uint64) (*chain.RandomnessBeacon, error)

var armorMarker = []byte("-----BEGIN AGE ENCRYPTED FILE-----")

// Dearmor peeks src for the ASCII armor marker and, if present, unwraps
// it; otherwise it returns a reader equivalent to src. The peek itself
// goes through a ResetReader so the bytes consumed while checking aren't
// lost either way. Callers doing header-only inspection on a
// possibly-armored ciphertext should wrap src in this before
// DecryptHeader.
func Dearmor(src io.Reader) io.Reader {
	rr := NewResetReader(src)
	peek := make([]byte, len(armorMarker))
	n, _ := io.ReadFull(rr, peek)
	rr.Reset()
	if bytes.Equal(peek[:n], armorMarker) {
		return armor.NewReader(rr)
	}
	return rr
}

// Decrypt reads an age-compatible ciphertext from src, fetches and
// verifies the beacon for the round its header names via fetch, and
// streams the recovered plaintext to dst. src may optionally be wrapped
// in ASCII armor; Decrypt detects and unwraps it automatically.
//
// If the target round has not been produced yet, Decrypt returns a
// *dee.TooEarlyError — a result the CLI renders informationally rather
// than as a hard failure — instead of streaming anything to dst.
func Decrypt(dst io.Writer, src io.Reader, info *chain.Info, fetch BeaconFetcher) error {
	rr := NewResetReader(Dearmor(src))

	hdr, err := DecryptHeader(rr)
	if err != nil {
		return err
	}
	rr.Reset()

	if !bytes.Equal(hdr.Hash, info.Hash) {
		return &dee.WrongChainError{Expected: info.Hash, Got: hdr.Hash}
	}

	beacon, err := fetch(hdr.Round)
	if err != nil {
		var nf *dee.NotFoundError
		if asNotFound(err, &nf) {
			bt, terr := info.TimeForRound(hdr.Round, time.Now())
			estimate := "unknown"
			if terr == nil {
				estimate = bt.Absolute.UTC().Format(time.RFC3339)
			}
			return &dee.TooEarlyError{Round: hdr.Round, EstimatedAt: estimate}
		}
		return err
	}

	ok, err := beacon.Verify(info)
	if err != nil {
		return &dee.ValidationError{Reason: err.Error()}
	}
	if !ok {
		return &dee.ValidationError{Reason: "beacon failed verification, refusing to derive timelock key"}
	}

	scheme, err := info.Scheme()
	if err != nil {
		return err
	}
	identity, err := NewIdentity(scheme, info.Hash, hdr.Round, beacon.Signature)
	if err != nil {
		return err
	}

	r, err := age.Decrypt(rr, identity)
	if err != nil {
		return fmt.Errorf("timelock: %w", err)
	}
	if _, err := io.Copy(dst, r); err != nil {
		return fmt.Errorf("timelock: streaming plaintext: %w", err)
	}
	return nil
}

func asNotFound(err error, target **dee.NotFoundError) bool {
	nf, ok := err.(*dee.NotFoundError)
	if ok {
		*target = nf
	}
	return ok
}
