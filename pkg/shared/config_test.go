package shared

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

var configEnvKeys = []string{
	"SOLANA_NETWORK",
	"NETWORK",
	"SOLANA_RPC_URL",
	"RPC_URL",
	"SOLANA_KEYPAIR_PATH",
	"KEYPAIR_PATH",
	"MAINNET_SOLANA_RPC_URL",
	"MAINNET_RPC_URL",
	"MAINNET_SOLANA_KEYPAIR_PATH",
	"MAINNET_KEYPAIR_PATH",
	"DEVNET_SOLANA_RPC_URL",
	"DEVNET_RPC_URL",
	"DEVNET_SOLANA_KEYPAIR_PATH",
	"DEVNET_KEYPAIR_PATH",
}

func resetConfigEnv(t *testing.T) {
	t.Helper()
	dotenvLoadOnce = sync.Once{}
	dotenvLoadOnce.Do(func() {})
	for _, key := range configEnvKeys {
		t.Setenv(key, "")
	}
}

func TestConfigFromEnvDefaults(t *testing.T) {
	resetConfigEnv(t)

	config, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.Network != NetworkDevnet {
		t.Fatalf("expected devnet, got %q", config.Network)
	}
	if config.RPCURL != "https://api.devnet.solana.com" {
		t.Fatalf("unexpected RPC URL: %s", config.RPCURL)
	}
	if config.KeypairPath != "" {
		t.Fatalf("expected no keypair path, got %q", config.KeypairPath)
	}
}

func TestConfigFromEnvExplicit(t *testing.T) {
	resetConfigEnv(t)
	t.Setenv("SOLANA_NETWORK", "mainnet")
	t.Setenv("SOLANA_RPC_URL", "https://rpc.example.com")
	t.Setenv("SOLANA_KEYPAIR_PATH", "/keys/payer.json")

	config, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.Network != NetworkMainnet || config.RPCURL != "https://rpc.example.com" || config.KeypairPath != "/keys/payer.json" {
		t.Fatalf("unexpected config: %+v", config)
	}
}

func TestConfigFromEnvScopedOverrides(t *testing.T) {
	resetConfigEnv(t)
	t.Setenv("NETWORK", "devnet")
	t.Setenv("RPC_URL", "https://generic.example.com")
	t.Setenv("DEVNET_SOLANA_RPC_URL", "https://devnet.example.com")
	t.Setenv("MAINNET_SOLANA_RPC_URL", "https://mainnet.example.com")
	t.Setenv("DEVNET_KEYPAIR_PATH", "/keys/devnet.json")

	config, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.RPCURL != "https://devnet.example.com" {
		t.Fatalf("expected devnet override, got %s", config.RPCURL)
	}
	if config.KeypairPath != "/keys/devnet.json" {
		t.Fatalf("expected devnet keypair, got %s", config.KeypairPath)
	}
}

func TestConfigFromEnvExpandsHome(t *testing.T) {
	resetConfigEnv(t)
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("SOLANA_KEYPAIR_PATH", "~/.config/solana/id.json")

	config, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.KeypairPath != filepath.Join(home, ".config/solana/id.json") {
		t.Fatalf("unexpected keypair path: %s", config.KeypairPath)
	}
}

func TestConfigFromEnvUnsupportedNetwork(t *testing.T) {
	resetConfigEnv(t)
	t.Setenv("SOLANA_NETWORK", "previewnet")

	if _, err := ConfigFromEnv(); err == nil {
		t.Fatal("expected error for unsupported network")
	}
}

func TestLoadDotEnvFile(t *testing.T) {
	resetConfigEnv(t)
	t.Setenv("SOLANA_NETWORK", "testnet")

	path := filepath.Join(t.TempDir(), ".env")
	content := `# cluster settings
export SOLANA_RPC_URL="https://quoted.example.com"
SOLANA_NETWORK=mainnet
SOLANA_KEYPAIR_PATH='/keys/single.json'
1INVALID=value
=missing
not a pair
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}

	if loadDotEnvFile(path) {
		t.Fatal("expected every valid key to be already set")
	}
	if os.Getenv("SOLANA_RPC_URL") != "" {
		t.Fatal("expected already set empty value to be kept")
	}
	if os.Getenv("SOLANA_NETWORK") != "testnet" {
		t.Fatal("expected existing value to win over .env")
	}
	if _, set := os.LookupEnv("1INVALID"); set {
		t.Fatal("invalid key must be skipped")
	}
}

func TestLoadDotEnvFileSetsMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("BUBBLEGUM_TEST_DOTENV_KEY='quoted value'\n"), 0o600); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("BUBBLEGUM_TEST_DOTENV_KEY") })

	if !loadDotEnvFile(path) {
		t.Fatal("expected values to be loaded")
	}
	if got := os.Getenv("BUBBLEGUM_TEST_DOTENV_KEY"); got != "quoted value" {
		t.Fatalf("unexpected value %q", got)
	}
}

func TestLoadDotEnvFileMissing(t *testing.T) {
	if loadDotEnvFile(filepath.Join(t.TempDir(), "missing.env")) {
		t.Fatal("expected missing file to load nothing")
	}
}

func TestIsValidEnvKey(t *testing.T) {
	valid := []string{"A", "ABC", "a_b", "SOLANA_RPC_URL", "A1", "_LEADING_UNDERSCORE"}
	for _, key := range valid {
		if !isValidEnvKey(key) {
			t.Fatalf("expected %q to be valid", key)
		}
	}
	invalid := []string{"", "1ABC", "A B", "A-B", "A.B"}
	for _, key := range invalid {
		if isValidEnvKey(key) {
			t.Fatalf("expected %q to be invalid", key)
		}
	}
}
