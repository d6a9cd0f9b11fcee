package shared

import (
	"testing"
)

func TestNormalizeNetwork(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"", NetworkDevnet},
		{"   ", NetworkDevnet},
		{"mainnet", NetworkMainnet},
		{"Mainnet-Beta", NetworkMainnet},
		{"DEVNET", NetworkDevnet},
		{"  testnet  ", NetworkTestnet},
		{"localhost", NetworkLocalnet},
		{"localnet", NetworkLocalnet},
	}

	for _, tc := range cases {
		result, err := NormalizeNetwork(tc.input)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", tc.input, err)
		}
		if result != tc.expected {
			t.Fatalf("expected %q for input %q, got %q", tc.expected, tc.input, result)
		}
	}
}

func TestNormalizeNetworkUnsupported(t *testing.T) {
	for _, input := range []string{"previewnet", "mainnet-alpha", "solana"} {
		if _, err := NormalizeNetwork(input); err == nil {
			t.Fatalf("expected error for %q", input)
		}
	}
}

func TestDefaultRPCURL(t *testing.T) {
	url, err := DefaultRPCURL("mainnet")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://api.mainnet-beta.solana.com" {
		t.Fatalf("unexpected mainnet URL: %s", url)
	}

	url, err = DefaultRPCURL("")
	if err != nil || url != "https://api.devnet.solana.com" {
		t.Fatalf("unexpected default URL: %s (%v)", url, err)
	}

	if _, err := DefaultRPCURL("badnet"); err == nil {
		t.Fatal("expected error for unsupported network")
	}
}
