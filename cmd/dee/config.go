package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/drand/dee/chain"
)

const configDirName = ".dee"
const configFileName = "config.toml"

// configChainInfo is the persisted, flattened shape of a remote's cached
// chain.Info. It intentionally does not reuse chain.Info's hexBytes fields
// directly: TOML has no native byte-string type, so every binary field is
// stored as a plain hex string instead.
type configChainInfo struct {
	PublicKey   string `toml:"public_key,omitempty"`
	Period      uint64 `toml:"period,omitempty"`
	GenesisTime int64  `toml:"genesis_time,omitempty"`
	Hash        string `toml:"hash,omitempty"`
	GroupHash   string `toml:"group_hash,omitempty"`
	SchemeID    string `toml:"scheme_id,omitempty"`
	BeaconID    string `toml:"beacon_id,omitempty"`
}

// configRemote is one named endpoint in the persisted remote list.
type configRemote struct {
	URL  string           `toml:"url"`
	Info *configChainInfo `toml:"info,omitempty"`
}

// config is the persisted remote-list document, per spec.md §6.
type config struct {
	Upstream string                  `toml:"upstream,omitempty"`
	Chains   map[string]configRemote `toml:"chains"`
}

// configPath returns the path of the persisted config file, creating its
// parent directory if necessary. Grounded on the teacher's
// core.DefaultConfigFolder (a dotfolder under the user's home directory),
// renamed to this CLI's own name.
func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	dir := filepath.Join(home, configDirName)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}
	return filepath.Join(dir, configFileName), nil
}

// loadConfig reads the persisted config, returning an empty one if no
// config file exists yet.
func loadConfig() (*config, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	cfg := &config{Chains: map[string]configRemote{}}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if cfg.Chains == nil {
		cfg.Chains = map[string]configRemote{}
	}
	return cfg, nil
}

// save persists cfg to its canonical path.
func (c *config) save() error {
	path, err := configPath()
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(c)
}

// resolveRemote turns a CLI -u/--remote argument into a URL: either the
// value is itself a URL, or it names a remote already in the config.
func (c *config) resolveRemote(nameOrURL string) string {
	if nameOrURL == "" {
		nameOrURL = c.Upstream
	}
	if r, ok := c.Chains[nameOrURL]; ok {
		return r.URL
	}
	return nameOrURL
}

// resolveVerification returns the pinned chain.Verification for a named
// remote, built from its last-cached chain info, so repeat calls against
// an endpoint this CLI has seen before pin its hash and public key rather
// than trusting whatever the server returns next time. Resolving by raw
// URL (not a known name) returns the zero value: nothing pinned.
func (c *config) resolveVerification(nameOrURL string) chain.Verification {
	if nameOrURL == "" {
		nameOrURL = c.Upstream
	}
	r, ok := c.Chains[nameOrURL]
	if !ok || r.Info == nil {
		return chain.Verification{}
	}
	hash, _ := hex.DecodeString(r.Info.Hash)
	pk, _ := hex.DecodeString(r.Info.PublicKey)
	return chain.Verification{ExpectedHash: hash, ExpectedPublicKey: pk}
}

func toConfigChainInfo(info *chain.Info) *configChainInfo {
	return &configChainInfo{
		PublicKey:   fmt.Sprintf("%x", []byte(info.PublicKey)),
		Period:      info.Period,
		GenesisTime: info.GenesisTime,
		Hash:        fmt.Sprintf("%x", []byte(info.Hash)),
		GroupHash:   fmt.Sprintf("%x", []byte(info.GroupHash)),
		SchemeID:    info.SchemeID,
		BeaconID:    info.Metadata.BeaconID,
	}
}
