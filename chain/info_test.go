package chain

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/drand/dee/crypto"
)

func TestParseInfo(t *testing.T) {
	raw := `{"public_key":"aabb","period":30,"genesis_time":1595431050,"hash":"ccdd","groupHash":"eeff","schemeID":"pedersen-bls-chained","metadata":{"beaconID":"default"}}`
	info, err := ParseInfo([]byte(raw))
	require.NoError(t, err)
	require.Equal(t, uint64(30), info.Period)
	require.Equal(t, int64(1595431050), info.GenesisTime)
	require.Equal(t, "default", info.Metadata.BeaconID)
	require.Equal(t, hexBytes{0xaa, 0xbb}, info.PublicKey)
}

func TestInfoSchemePredicates(t *testing.T) {
	cases := []struct {
		schemeID            string
		unchained, g1, rfc9380 bool
	}{
		{crypto.DefaultSchemeID, false, false, false},
		{crypto.UnchainedSchemeID, true, false, false},
		{crypto.ShortSigSchemeID, true, true, false},
		{crypto.SigsOnG1ID, true, true, true},
	}
	for _, c := range cases {
		info := &Info{SchemeID: c.schemeID}
		require.Equal(t, c.unchained, info.IsUnchained(), c.schemeID)
		require.Equal(t, c.g1, info.IsG1(), c.schemeID)
		require.Equal(t, c.rfc9380, info.IsRFC9380(), c.schemeID)

		scheme, err := info.Scheme()
		require.NoError(t, err)
		require.Equal(t, c.schemeID, scheme.Name)
	}
}

func TestInfoString(t *testing.T) {
	info := &Info{Hash: []byte{0xaa}, SchemeID: "pedersen-bls-chained", Period: 30, Metadata: Metadata{BeaconID: "default"}}
	require.Contains(t, info.String(), "aa")
	require.Contains(t, info.String(), "default")
}
