package chain

// Client is the polymorphic handle over a beacon source: anything that
// can report its verification options, fetch the latest or a specific
// beacon, and report chain info. client/http.Client satisfies this
// structurally. timelock.Decrypt takes only a Get-shaped function (its
// BeaconFetcher), not a Client.
type Client interface {
	Options() Options
	Latest() (*RandomnessBeacon, error)
	Get(round uint64) (*RandomnessBeacon, error)
	ChainInfo() (*Info, error)
}
