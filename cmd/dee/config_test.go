package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/drand/dee/chain"
)

func TestResolveRemoteByName(t *testing.T) {
	cfg := &config{
		Upstream: "main",
		Chains:   map[string]configRemote{"main": {URL: "https://example.com"}},
	}
	require.Equal(t, "https://example.com", cfg.resolveRemote("main"))
}

func TestResolveRemoteFallsBackToUpstream(t *testing.T) {
	cfg := &config{
		Upstream: "main",
		Chains:   map[string]configRemote{"main": {URL: "https://example.com"}},
	}
	require.Equal(t, "https://example.com", cfg.resolveRemote(""))
}

func TestResolveRemotePassesThroughRawURL(t *testing.T) {
	cfg := &config{Chains: map[string]configRemote{}}
	require.Equal(t, "https://other.example.com", cfg.resolveRemote("https://other.example.com"))
}

func TestResolveVerificationUnknownNameReturnsEmpty(t *testing.T) {
	cfg := &config{Chains: map[string]configRemote{}}
	v := cfg.resolveVerification("https://example.com")
	require.Nil(t, v.ExpectedHash)
	require.Nil(t, v.ExpectedPublicKey)
}

func TestResolveVerificationPinsFromCachedInfo(t *testing.T) {
	cfg := &config{
		Chains: map[string]configRemote{
			"main": {
				URL: "https://example.com",
				Info: &configChainInfo{
					Hash:      "aabbcc",
					PublicKey: "112233",
				},
			},
		},
	}
	v := cfg.resolveVerification("main")
	require.Equal(t, []byte{0xaa, 0xbb, 0xcc}, v.ExpectedHash)
	require.Equal(t, []byte{0x11, 0x22, 0x33}, v.ExpectedPublicKey)
}

func TestToConfigChainInfoRoundTrip(t *testing.T) {
	info := &chain.Info{
		PublicKey: []byte{0xde, 0xad},
		Hash:      []byte{0xbe, 0xef},
		Period:    30,
		SchemeID:  "pedersen-bls-unchained",
		Metadata:  chain.Metadata{BeaconID: "default"},
	}
	out := toConfigChainInfo(info)
	require.Equal(t, "dead", out.PublicKey)
	require.Equal(t, "beef", out.Hash)
	require.Equal(t, "default", out.BeaconID)
}

func TestConfigSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := loadConfig()
	require.NoError(t, err)
	require.Empty(t, cfg.Chains)

	cfg.Upstream = "main"
	cfg.Chains["main"] = configRemote{
		URL: "https://example.com",
		Info: &configChainInfo{
			Hash:     "aabb",
			SchemeID: "pedersen-bls-unchained",
		},
	}
	require.NoError(t, cfg.save())

	reloaded, err := loadConfig()
	require.NoError(t, err)
	require.Equal(t, "main", reloaded.Upstream)
	require.Equal(t, "https://example.com", reloaded.Chains["main"].URL)
	require.Equal(t, "aabb", reloaded.Chains["main"].Info.Hash)
}
