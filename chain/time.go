package chain

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/drand/dee/dee"
)

// TimeOfRound returns the absolute unix time at which round is (or will
// be) produced, using the genesisTime + round*period convention fixed
// for this module (see DESIGN.md's Open Question decision).
func (i *Info) TimeOfRound(round uint64) (int64, error) {
	if round == 0 {
		return 0, &dee.ValidationError{Reason: "round 0 does not exist, rounds start at 1"}
	}
	return i.GenesisTime + int64(round)*int64(i.Period), nil
}

// RoundAt returns the round whose absolute time is <= t, using the same
// convention as TimeOfRound.
func (i *Info) RoundAt(t time.Time) uint64 {
	if i.Period == 0 {
		return 0
	}
	delta := t.Unix() - i.GenesisTime
	if delta < 0 {
		return 0
	}
	return uint64(delta) / i.Period
}

// BeaconTime is the computed (never parsed from the wire) relation
// between a round, its absolute time, and "now".
type BeaconTime struct {
	Round    uint64
	Absolute time.Time
	Relative time.Duration
}

// TimeForRound computes a BeaconTime for round relative to now.
func (i *Info) TimeForRound(round uint64, now time.Time) (*BeaconTime, error) {
	abs, err := i.TimeOfRound(round)
	if err != nil {
		return nil, err
	}
	absolute := time.Unix(abs, 0)
	return &BeaconTime{
		Round:    round,
		Absolute: absolute,
		Relative: absolute.Sub(now),
	}, nil
}

var durationExpr = regexp.MustCompile(`^([0-9]+)(s|m|h|d)$`)

// ParseRound resolves a user-supplied round expression — an integer
// round number, a relative duration (N[smhd]), or an RFC 3339 timestamp
// — into a concrete round number. Exactly one of the three forms must
// match; zero or multiple matches is a parse error.
func (i *Info) ParseRound(expr string, now time.Time) (uint64, error) {
	var matches int
	var round uint64

	if n, err := strconv.ParseUint(expr, 10, 64); err == nil {
		matches++
		round = n
	}

	if m := durationExpr.FindStringSubmatch(expr); m != nil {
		matches++
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return 0, &dee.DurationParseError{Input: expr}
		}
		var d time.Duration
		switch m[2] {
		case "s":
			d = time.Duration(n) * time.Second
		case "m":
			d = time.Duration(n) * time.Minute
		case "h":
			d = time.Duration(n) * time.Hour
		case "d":
			d = time.Duration(n) * 24 * time.Hour
		}
		round = i.RoundAt(now.Add(d))
	}

	if t, err := time.Parse(time.RFC3339, expr); err == nil {
		matches++
		round = i.RoundAt(t)
	}

	switch matches {
	case 1:
		return round, nil
	case 0:
		return 0, &dee.ParsingError{Field: "round expression", Err: fmt.Errorf("%q matches no known form", expr)}
	default:
		return 0, &dee.ParsingError{Field: "round expression", Err: fmt.Errorf("%q is ambiguous between multiple forms", expr)}
	}
}
