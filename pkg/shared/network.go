package shared

import (
	"fmt"
	"strings"
)

const (
	NetworkMainnet  = "mainnet-beta"
	NetworkDevnet   = "devnet"
	NetworkTestnet  = "testnet"
	NetworkLocalnet = "localnet"
)

var defaultRPCURLs = map[string]string{
	NetworkMainnet:  "https://api.mainnet-beta.solana.com",
	NetworkDevnet:   "https://api.devnet.solana.com",
	NetworkTestnet:  "https://api.testnet.solana.com",
	NetworkLocalnet: "http://127.0.0.1:8899",
}

// NormalizeNetwork maps a cluster name to its canonical form. An empty name
// selects devnet.
func NormalizeNetwork(network string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(network))
	if normalized == "" {
		return NetworkDevnet, nil
	}

	switch normalized {
	case "mainnet", NetworkMainnet:
		return NetworkMainnet, nil
	case "localhost", NetworkLocalnet:
		return NetworkLocalnet, nil
	case NetworkDevnet, NetworkTestnet:
		return normalized, nil
	default:
		return "", fmt.Errorf("unsupported network %q", network)
	}
}

// DefaultRPCURL returns the public JSON-RPC endpoint of a cluster.
func DefaultRPCURL(network string) (string, error) {
	normalized, err := NormalizeNetwork(network)
	if err != nil {
		return "", err
	}
	return defaultRPCURLs[normalized], nil
}
