package timelock

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResetReaderReplaysBufferedPrefix(t *testing.T) {
	src := bytes.NewReader([]byte("hello world"))
	rr := NewResetReader(src)

	peek := make([]byte, 5)
	n, err := io.ReadFull(rr, peek)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, "hello", string(peek))

	rr.Reset()

	all, err := io.ReadAll(rr)
	require.NoError(t, err)
	require.Equal(t, "hello world", string(all))
}

func TestResetReaderResetBeforeAnyRead(t *testing.T) {
	src := bytes.NewReader([]byte("abc"))
	rr := NewResetReader(src)
	rr.Reset()

	all, err := io.ReadAll(rr)
	require.NoError(t, err)
	require.Equal(t, "abc", string(all))
}

func TestResetReaderDoubleResetPanics(t *testing.T) {
	src := bytes.NewReader([]byte("abc"))
	rr := NewResetReader(src)
	rr.Reset()
	require.Panics(t, func() { rr.Reset() })
}

func TestResetReaderPassthroughAfterReplay(t *testing.T) {
	src := bytes.NewReader([]byte("0123456789"))
	rr := NewResetReader(src)

	buf := make([]byte, 3)
	_, err := io.ReadFull(rr, buf)
	require.NoError(t, err)
	rr.Reset()

	all, err := io.ReadAll(rr)
	require.NoError(t, err)
	require.Equal(t, "0123456789", string(all))
}
