// Package http implements C5: a single-endpoint verifying HTTP client
// for a beacon chain. It fetches chain info and beacons, enforces
// cryptographic verification, caches chain info, and checks round
// consistency, the way the teacher's client/http package does for its
// own (multi-source) client, trimmed to a single endpoint.
package http

import (
	nhttp "net/http"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/drand/dee/chain"
	"github.com/drand/dee/dee"
	"github.com/drand/dee/log"
)

// Client fetches and verifies beacons from a single HTTP endpoint.
type Client struct {
	root    string
	options chain.Options
	http    *nhttp.Client
	log     log.Logger

	mu   sync.Mutex
	info *chain.Info
}

// New constructs a Client for baseURL. baseURL must carry an http(s)
// scheme; a trailing slash is appended if absent so path joins behave
// uniformly.
func New(baseURL string, options chain.Options, transport nhttp.RoundTripper) (*Client, error) {
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		return nil, &dee.NoProtocolError{URL: baseURL}
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	if transport == nil {
		transport = nhttp.DefaultTransport
	}
	return &Client{
		root:    baseURL,
		options: options,
		http:    &nhttp.Client{Transport: transport},
		log:     log.DefaultLogger(),
	}, nil
}

// WithLogger attaches a logger used for Debug-level request tracing.
func (c *Client) WithLogger(l log.Logger) *Client {
	c.log = l
	return c
}

// Options returns the verification options this client was built with,
// satisfying the chain.Client interface.
func (c *Client) Options() chain.Options { return c.options }

// cacheBust appends a random query parameter to defeat intermediate HTTP
// caches when the client has caching disabled.
func cacheBust(u string) string {
	sep := "?"
	if strings.Contains(u, "?") {
		sep = "&"
	}
	return u + sep + "r=" + uuid.NewString()
}
