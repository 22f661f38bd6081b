// Package config holds the per-network settings shared by request
// construction and the CLI.
//
// Networks are plain values: callers pick one with ByName or FromEnv and
// pass it down explicitly.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/renproject/darknode-command-center/pkg/encoding"
	"github.com/renproject/darknode-command-center/pkg/pack"
)

// Environment variables read by FromEnv and FromEnvNamed.
const (
	EnvNetwork      = "DARKNODE_NETWORK"
	EnvPackMaxDepth = "DARKNODE_PACK_MAX_DEPTH"
)

// Network names.
const (
	NameMainnet = "mainnet"
	NameTestnet = "testnet"
	NameDevnet  = "devnet"
)

// Network describes one RenVM deployment.
type Network struct {
	// Name is the lookup key ("mainnet", "testnet", "devnet").
	Name string `json:"name"`

	// Label is mixed into request digests so that a claim signed for one
	// network cannot be replayed on another. It must consist of base64
	// characters and be at most encoding.NetworkIDLength long.
	Label string `json:"label"`

	// MaxPackDepth bounds Pack nesting. Zero selects pack.DefaultMaxDepth.
	MaxPackDepth int `json:"maxPackDepth"`
}

// Mainnet returns the mainnet configuration.
func Mainnet() Network {
	return Network{Name: NameMainnet, Label: NameMainnet, MaxPackDepth: pack.DefaultMaxDepth}
}

// Testnet returns the testnet configuration.
func Testnet() Network {
	return Network{Name: NameTestnet, Label: NameTestnet, MaxPackDepth: pack.DefaultMaxDepth}
}

// Devnet returns the devnet configuration.
func Devnet() Network {
	return Network{Name: NameDevnet, Label: NameDevnet, MaxPackDepth: pack.DefaultMaxDepth}
}

// ByName returns the configuration of a known network. Matching is
// case-insensitive.
func ByName(name string) (Network, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NameMainnet:
		return Mainnet(), nil
	case NameTestnet:
		return Testnet(), nil
	case NameDevnet:
		return Devnet(), nil
	default:
		return Network{}, errors.Errorf("unknown network %q", name)
	}
}

// FromEnv returns the network named by DARKNODE_NETWORK (mainnet when
// unset) with DARKNODE_PACK_MAX_DEPTH applied when set.
func FromEnv() (Network, error) {
	return FromEnvNamed("")
}

// FromEnvNamed is FromEnv with an explicit network name. A non-empty name
// takes precedence over DARKNODE_NETWORK, which is then not read at all;
// DARKNODE_PACK_MAX_DEPTH still applies.
func FromEnvNamed(name string) (Network, error) {
	var network Network
	var err error
	if name != "" {
		network, err = ByName(name)
	} else {
		network, err = networkFromEnv()
	}
	if err != nil {
		return Network{}, err
	}

	if val := strings.TrimSpace(os.Getenv(EnvPackMaxDepth)); val != "" {
		depth, err := strconv.Atoi(val)
		if err != nil {
			return Network{}, errors.Wrapf(err, "invalid %s", EnvPackMaxDepth)
		}
		if depth <= 0 {
			return Network{}, errors.Errorf("invalid %s: must be positive, got %d", EnvPackMaxDepth, depth)
		}
		network.MaxPackDepth = depth
	}

	if err := network.Validate(); err != nil {
		return Network{}, err
	}
	return network, nil
}

func networkFromEnv() (Network, error) {
	name := NameMainnet
	if val := os.Getenv(EnvNetwork); val != "" {
		name = val
	}

	network, err := ByName(name)
	if err != nil {
		return Network{}, errors.Wrapf(err, "invalid %s", EnvNetwork)
	}
	return network, nil
}

// Validate checks that the label can be turned into a selector.
func (n Network) Validate() error {
	if n.Label == "" {
		return errors.Errorf("network %q has an empty label", n.Name)
	}
	if _, err := n.Selector(); err != nil {
		return errors.Wrapf(err, "network %q", n.Name)
	}
	if n.MaxPackDepth < 0 {
		return errors.Errorf("network %q has negative pack depth %d", n.Name, n.MaxPackDepth)
	}
	return nil
}

// Selector returns the network label padded to a 43-character base64
// string, suitable as the first input of a chained digest.
func (n Network) Selector() (string, error) {
	selector, err := encoding.PadBase64Label(n.Label)
	if err != nil {
		return "", err
	}
	if _, err := encoding.DecodeBase64(selector); err != nil {
		return "", err
	}
	return selector, nil
}

// Codec returns a Pack codec bounded by the network's depth limit.
func (n Network) Codec() pack.Codec {
	return pack.Codec{MaxDepth: n.MaxPackDepth}
}
