package chain

// RandomnessBeacon pairs a Beacon with its materialized absolute time.
// Time is derived from ChainInfo at parse time, never transmitted on
// the wire.
type RandomnessBeacon struct {
	Beacon
	UnixTime int64
}

// NewRandomnessBeacon wraps b with the absolute time for its round,
// computed from info.
func NewRandomnessBeacon(b Beacon, info *Info) (*RandomnessBeacon, error) {
	t, err := info.TimeOfRound(b.Round)
	if err != nil {
		return nil, err
	}
	return &RandomnessBeacon{Beacon: b, UnixTime: t}, nil
}
