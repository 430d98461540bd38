package http

import (
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"strconv"

	"github.com/drand/dee/chain"
	"github.com/drand/dee/dee"
)

// Latest fetches the most recently produced beacon.
func (c *Client) Latest() (*chain.RandomnessBeacon, error) {
	return c.fetchBeacon(c.root+"public/latest", 0, false)
}

// Get fetches the beacon for round. A 404 response surfaces as
// dee.NotFoundError. If the server returns a beacon for a different
// round, Get surfaces dee.RoundMismatchError.
func (c *Client) Get(round uint64) (*chain.RandomnessBeacon, error) {
	return c.fetchBeacon(c.root+"public/"+strconv.FormatUint(round, 10), round, true)
}

func (c *Client) fetchBeacon(url string, wantRound uint64, checkRound bool) (*chain.RandomnessBeacon, error) {
	info, err := c.ChainInfo()
	if err != nil {
		return nil, err
	}

	u := url
	if !c.options.UseCache {
		u = cacheBust(u)
	}

	c.log.Debugw("fetching beacon", "url", u)
	resp, err := c.http.Get(u)
	if err != nil {
		return nil, &dee.TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == nethttp.StatusNotFound {
		return nil, &dee.NotFoundError{Round: wantRound}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &dee.TransportError{Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &dee.TransportError{Err: fmt.Errorf("fetching beacon: status %d: %s", resp.StatusCode, body)}
	}

	var b chain.Beacon
	if err := json.Unmarshal(body, &b); err != nil {
		return nil, fmt.Errorf("%w", &dee.ParsingError{Field: "beacon", Err: err})
	}

	if checkRound && b.Round != wantRound {
		return nil, &dee.RoundMismatchError{Requested: wantRound, Got: b.Round}
	}

	if c.options.VerifyBeacons {
		ok, err := b.Verify(info)
		if err != nil {
			return nil, &dee.ValidationError{Reason: err.Error()}
		}
		if !ok {
			return nil, &dee.ValidationError{Reason: "signature or randomness mismatch"}
		}
	}

	return chain.NewRandomnessBeacon(b, info)
}
