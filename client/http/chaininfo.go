package http

import (
	"fmt"
	"io"

	"github.com/drand/dee/chain"
	"github.com/drand/dee/dee"
)

// ChainInfo returns the endpoint's chain info. When caching is enabled
// the first successful fetch is memoized for the client's lifetime;
// concurrent first calls may each fetch once (a benign race — both
// fetches must agree for a well-behaved server) rather than coordinate
// with a single-flight mechanism.
func (c *Client) ChainInfo() (*chain.Info, error) {
	if c.options.UseCache {
		c.mu.Lock()
		cached := c.info
		c.mu.Unlock()
		if cached != nil {
			return cached, nil
		}
	}

	info, err := c.fetchChainInfo()
	if err != nil {
		return nil, err
	}

	if !c.options.Verify(info) {
		return nil, &dee.InvalidChainInfoError{Reason: "chain info does not match pinned hash/public key"}
	}

	if c.options.UseCache {
		c.mu.Lock()
		c.info = info
		c.mu.Unlock()
	}
	return info, nil
}

func (c *Client) fetchChainInfo() (*chain.Info, error) {
	u := c.root + "info"
	if !c.options.UseCache {
		u = cacheBust(u)
	}

	c.log.Debugw("fetching chain info", "url", u)
	resp, err := c.http.Get(u)
	if err != nil {
		return nil, &dee.TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &dee.TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &dee.FailedToRetrieveChainInfoError{StatusCode: resp.StatusCode, Message: string(body)}
	}

	info, err := chain.ParseInfo(body)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	return info, nil
}
