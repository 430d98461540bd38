package chain

import "bytes"

// Verification optionally pins an expected chain hash and/or public key.
// An absent field (nil) means "accept anything in that field".
type Verification struct {
	ExpectedHash      []byte
	ExpectedPublicKey []byte
}

// Verify reports whether info satisfies every pinned field in v.
func (v *Verification) Verify(info *Info) bool {
	if v == nil {
		return true
	}
	if v.ExpectedHash != nil && !bytes.Equal(v.ExpectedHash, info.Hash) {
		return false
	}
	if v.ExpectedPublicKey != nil && !bytes.Equal(v.ExpectedPublicKey, info.PublicKey) {
		return false
	}
	return true
}

// Options controls how a client treats chain info and beacon
// verification. The zero value is not valid; use DefaultOptions.
type Options struct {
	VerifyBeacons bool
	UseCache      bool
	Verification  Verification
}

// DefaultOptions verifies beacons, caches chain info, and pins nothing.
func DefaultOptions() Options {
	return Options{VerifyBeacons: true, UseCache: true}
}

// Verify delegates to the wrapped Verification.
func (o *Options) Verify(info *Info) bool {
	return o.Verification.Verify(info)
}
