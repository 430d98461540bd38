package timelock

import "io"

// resetReaderState is the replay-buffer state machine: every byte read
// while buffering is kept; after Reset, those bytes are replayed before
// falling through to the underlying source.
type resetReaderState int

const (
	stateBuffering resetReaderState = iota
	stateReplaying
	statePassthrough
)

// ResetReader wraps a non-seekable io.Reader (stdin) so that a caller
// can peek a prefix (the timelock header), call Reset, and then read the
// stream again from the beginning without losing any bytes — needed
// because DecryptHeader and the full Decrypt both need to see the
// recipient stanza.
type ResetReader struct {
	src    io.Reader
	state  resetReaderState
	buf    []byte
	replay int
}

// NewResetReader wraps src.
func NewResetReader(src io.Reader) *ResetReader {
	return &ResetReader{src: src}
}

// Reset rewinds the reader: subsequent reads return the buffered prefix
// first, then continue from src. Calling Reset more than once is a
// programmer error and panics, since a second rewind would need bytes
// already discarded by passthrough reads.
func (r *ResetReader) Reset() {
	if r.state != stateBuffering {
		panic("timelock: ResetReader.Reset called more than once")
	}
	r.state = stateReplaying
	r.replay = 0
}

func (r *ResetReader) Read(p []byte) (int, error) {
	switch r.state {
	case stateBuffering:
		n, err := r.src.Read(p)
		if n > 0 {
			r.buf = append(r.buf, p[:n]...)
		}
		return n, err

	case stateReplaying:
		if r.replay < len(r.buf) {
			n := copy(p, r.buf[r.replay:])
			r.replay += n
			if r.replay == len(r.buf) {
				r.state = statePassthrough
				r.buf = nil
			}
			return n, nil
		}
		r.state = statePassthrough
		r.buf = nil
		return r.Read(p)

	default: // statePassthrough
		return r.src.Read(p)
	}
}
