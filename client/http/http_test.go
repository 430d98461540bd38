package http

import (
	"encoding/json"
	"fmt"
	nhttp "net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/drand/kyber/util/random"
	"github.com/stretchr/testify/require"

	"github.com/drand/dee/chain"
	"github.com/drand/dee/crypto"
	"github.com/drand/dee/dee"
)

// signedBeaconAndInfo builds a chain.Info and a matching, validly-signed
// unchained beacon for round, returning the beacon's wire JSON bytes.
func signedBeaconAndInfo(t *testing.T, round uint64) (*chain.Info, []byte) {
	t.Helper()
	s := crypto.NewPedersenBLSUnchained()
	secret := s.KeyGroup.Scalar().Pick(random.New())
	pubkey := s.KeyGroup.Point().Mul(secret, nil)
	pkBytes, err := pubkey.MarshalBinary()
	require.NoError(t, err)

	b := chain.Beacon{Round: round}
	hp, ok := s.SigGroup.Point().(crypto.HashablePoint)
	require.True(t, ok)
	h := hp.Hash(s.DigestBeacon(&testHashable{round: round}))
	sigPoint := s.SigGroup.Point().Mul(secret, h)
	sigBytes, err := sigPoint.MarshalBinary()
	require.NoError(t, err)
	b.Signature = sigBytes
	b.Randomness = crypto.RandomnessFromSignature(sigBytes)

	data, err := json.Marshal(&b)
	require.NoError(t, err)

	info := &chain.Info{
		PublicKey:   pkBytes,
		Period:      30,
		GenesisTime: 1595431050,
		Hash:        []byte{0xaa, 0xbb},
		SchemeID:    crypto.UnchainedSchemeID,
	}
	return info, data
}

type testHashable struct{ round uint64 }

func (h *testHashable) GetRound() uint64             { return h.round }
func (h *testHashable) GetPreviousSignature() []byte { return nil }

func infoJSON(t *testing.T, info *chain.Info) []byte {
	t.Helper()
	data, err := json.Marshal(info)
	require.NoError(t, err)
	return data
}

func TestNewRejectsMissingProtocol(t *testing.T) {
	_, err := New("example.com", chain.DefaultOptions(), nil)
	require.Error(t, err)
	var noProto *dee.NoProtocolError
	require.ErrorAs(t, err, &noProto)
}

func TestNewAppendsTrailingSlash(t *testing.T) {
	c, err := New("https://example.com", chain.DefaultOptions(), nil)
	require.NoError(t, err)
	require.Equal(t, "https://example.com/", c.root)
}

func TestChainInfoCaching(t *testing.T) {
	info, _ := signedBeaconAndInfo(t, 1)
	var hits int32

	srv := httptest.NewServer(nhttp.HandlerFunc(func(w nhttp.ResponseWriter, r *nhttp.Request) {
		if strings.HasSuffix(r.URL.Path, "/info") {
			atomic.AddInt32(&hits, 1)
			w.Write(infoJSON(t, info))
			return
		}
		w.WriteHeader(nhttp.StatusNotFound)
	}))
	defer srv.Close()

	opts := chain.DefaultOptions()
	c, err := New(srv.URL, opts, nhttp.DefaultTransport)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := c.ChainInfo()
		require.NoError(t, err)
	}
	require.EqualValues(t, 1, atomic.LoadInt32(&hits))
}

func TestChainInfoNoCacheFetchesEveryTime(t *testing.T) {
	info, _ := signedBeaconAndInfo(t, 1)
	var hits int32

	srv := httptest.NewServer(nhttp.HandlerFunc(func(w nhttp.ResponseWriter, r *nhttp.Request) {
		if strings.HasSuffix(strings.Split(r.URL.Path, "?")[0], "/info") {
			atomic.AddInt32(&hits, 1)
			w.Write(infoJSON(t, info))
			return
		}
		w.WriteHeader(nhttp.StatusNotFound)
	}))
	defer srv.Close()

	opts := chain.DefaultOptions()
	opts.UseCache = false
	c, err := New(srv.URL, opts, nhttp.DefaultTransport)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := c.ChainInfo()
		require.NoError(t, err)
	}
	require.EqualValues(t, 5, atomic.LoadInt32(&hits))
}

func TestCacheBustingVariesQuery(t *testing.T) {
	info, _ := signedBeaconAndInfo(t, 1)
	seen := map[string]bool{}

	srv := httptest.NewServer(nhttp.HandlerFunc(func(w nhttp.ResponseWriter, r *nhttp.Request) {
		seen[r.URL.RawQuery] = true
		w.Write(infoJSON(t, info))
	}))
	defer srv.Close()

	opts := chain.DefaultOptions()
	opts.UseCache = false
	c, err := New(srv.URL, opts, nhttp.DefaultTransport)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := c.ChainInfo()
		require.NoError(t, err)
	}
	require.Len(t, seen, 3)
}

func TestGetVerifiesAndMaterializesTime(t *testing.T) {
	info, beaconData := signedBeaconAndInfo(t, 7)

	srv := httptest.NewServer(nhttp.HandlerFunc(func(w nhttp.ResponseWriter, r *nhttp.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/info"):
			w.Write(infoJSON(t, info))
		case strings.HasSuffix(r.URL.Path, "/public/7"):
			w.Write(beaconData)
		default:
			w.WriteHeader(nhttp.StatusNotFound)
		}
	}))
	defer srv.Close()

	c, err := New(srv.URL, chain.DefaultOptions(), nhttp.DefaultTransport)
	require.NoError(t, err)

	rb, err := c.Get(7)
	require.NoError(t, err)
	require.Equal(t, uint64(7), rb.Round)
	require.Equal(t, info.GenesisTime+7*int64(info.Period), rb.UnixTime)
}

func TestGetRoundMismatch(t *testing.T) {
	info, beaconData := signedBeaconAndInfo(t, 1000)

	srv := httptest.NewServer(nhttp.HandlerFunc(func(w nhttp.ResponseWriter, r *nhttp.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/info"):
			w.Write(infoJSON(t, info))
		default:
			// the server always answers with round 1000, regardless of
			// what round was requested.
			w.Write(beaconData)
		}
	}))
	defer srv.Close()

	c, err := New(srv.URL, chain.DefaultOptions(), nhttp.DefaultTransport)
	require.NoError(t, err)

	_, err = c.Get(999)
	require.Error(t, err)
	var mismatch *dee.RoundMismatchError
	require.ErrorAs(t, err, &mismatch)
	require.Equal(t, uint64(999), mismatch.Requested)
	require.Equal(t, uint64(1000), mismatch.Got)
}

func TestGet404IsNotFound(t *testing.T) {
	info, _ := signedBeaconAndInfo(t, 1)

	srv := httptest.NewServer(nhttp.HandlerFunc(func(w nhttp.ResponseWriter, r *nhttp.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/info"):
			w.Write(infoJSON(t, info))
		default:
			w.WriteHeader(nhttp.StatusNotFound)
		}
	}))
	defer srv.Close()

	c, err := New(srv.URL, chain.DefaultOptions(), nhttp.DefaultTransport)
	require.NoError(t, err)

	_, err = c.Get(42)
	require.Error(t, err)
	var nf *dee.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestChainInfoRejectsWrongPin(t *testing.T) {
	info, _ := signedBeaconAndInfo(t, 1)

	srv := httptest.NewServer(nhttp.HandlerFunc(func(w nhttp.ResponseWriter, r *nhttp.Request) {
		w.Write(infoJSON(t, info))
	}))
	defer srv.Close()

	opts := chain.DefaultOptions()
	opts.Verification = chain.Verification{ExpectedHash: []byte{0xff, 0xff}}
	c, err := New(srv.URL, opts, nhttp.DefaultTransport)
	require.NoError(t, err)

	_, err = c.ChainInfo()
	require.Error(t, err)
	var invalid *dee.InvalidChainInfoError
	require.ErrorAs(t, err, &invalid)
}

func TestLatestFetchesWithoutRoundCheck(t *testing.T) {
	info, beaconData := signedBeaconAndInfo(t, 55)

	srv := httptest.NewServer(nhttp.HandlerFunc(func(w nhttp.ResponseWriter, r *nhttp.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/info"):
			w.Write(infoJSON(t, info))
		case strings.HasSuffix(r.URL.Path, "/public/latest"):
			w.Write(beaconData)
		default:
			w.WriteHeader(nhttp.StatusNotFound)
		}
	}))
	defer srv.Close()

	c, err := New(srv.URL, chain.DefaultOptions(), nhttp.DefaultTransport)
	require.NoError(t, err)

	rb, err := c.Latest()
	require.NoError(t, err)
	require.Equal(t, uint64(55), rb.Round)
}

func TestFailedToRetrieveChainInfo(t *testing.T) {
	srv := httptest.NewServer(nhttp.HandlerFunc(func(w nhttp.ResponseWriter, r *nhttp.Request) {
		w.WriteHeader(nhttp.StatusInternalServerError)
		fmt.Fprint(w, "server exploded")
	}))
	defer srv.Close()

	c, err := New(srv.URL, chain.DefaultOptions(), nhttp.DefaultTransport)
	require.NoError(t, err)

	_, err = c.ChainInfo()
	require.Error(t, err)
	var failed *dee.FailedToRetrieveChainInfoError
	require.ErrorAs(t, err, &failed)
}
