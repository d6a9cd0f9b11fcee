package shared

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

type Config struct {
	Network     string
	RPCURL      string
	KeypairPath string
}

var dotenvLoadOnce sync.Once

// ConfigFromEnv reads the cluster, RPC endpoint and payer keypair location
// from the environment, loading the nearest .env file first. Values scoped to
// the selected network, such as DEVNET_SOLANA_RPC_URL, take precedence.
func ConfigFromEnv() (Config, error) {
	loadDotEnvIfPresent()

	network, err := NormalizeNetwork(firstNonEmptyEnv("SOLANA_NETWORK", "NETWORK"))
	if err != nil {
		return Config{}, err
	}

	rpcURL := firstNonEmptyEnv("SOLANA_RPC_URL", "RPC_URL")
	keypairPath := firstNonEmptyEnv("SOLANA_KEYPAIR_PATH", "KEYPAIR_PATH")

	prefix := networkEnvPrefix(network)
	if scopedURL := firstNonEmptyEnv(prefix+"_SOLANA_RPC_URL", prefix+"_RPC_URL"); scopedURL != "" {
		rpcURL = scopedURL
	}
	if scopedPath := firstNonEmptyEnv(prefix+"_SOLANA_KEYPAIR_PATH", prefix+"_KEYPAIR_PATH"); scopedPath != "" {
		keypairPath = scopedPath
	}

	if rpcURL == "" {
		rpcURL, err = DefaultRPCURL(network)
		if err != nil {
			return Config{}, err
		}
	}

	if keypairPath != "" {
		keypairPath, err = expandHome(keypairPath)
		if err != nil {
			return Config{}, fmt.Errorf("failed to resolve keypair path: %w", err)
		}
	}

	return Config{
		Network:     network,
		RPCURL:      rpcURL,
		KeypairPath: keypairPath,
	}, nil
}

func networkEnvPrefix(network string) string {
	switch network {
	case NetworkMainnet:
		return "MAINNET"
	default:
		return strings.ToUpper(network)
	}
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

func loadDotEnvIfPresent() {
	dotenvLoadOnce.Do(func() {
		startPaths := make([]string, 0, 2)

		if cwd, err := os.Getwd(); err == nil {
			startPaths = append(startPaths, cwd)
		}
		if _, currentFile, _, ok := runtime.Caller(0); ok {
			startPaths = append(startPaths, filepath.Dir(currentFile))
		}

		seenCandidates := make(map[string]struct{})
		for _, start := range startPaths {
			for current := start; ; {
				candidate := filepath.Join(current, ".env")
				if _, exists := seenCandidates[candidate]; !exists {
					seenCandidates[candidate] = struct{}{}
					if _, statErr := os.Stat(candidate); statErr == nil {
						loadDotEnvFile(candidate)
						return
					}
				}

				parent := filepath.Dir(current)
				if parent == current {
					break
				}
				current = parent
			}
		}
	})
}

// loadDotEnvFile sets every KEY=value pair of path that is not already in
// the environment and reports whether anything was set.
func loadDotEnvFile(path string) bool {
	file, err := os.Open(path)
	if err != nil {
		return false
	}
	defer file.Close()

	loadedAny := false
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))

		key, value, found := strings.Cut(line, "=")
		key = strings.TrimSpace(key)
		if !found || !isValidEnvKey(key) {
			continue
		}
		if _, alreadySet := os.LookupEnv(key); alreadySet {
			continue
		}

		if setErr := os.Setenv(key, unquote(strings.TrimSpace(value))); setErr == nil {
			loadedAny = true
		}
	}

	return loadedAny
}

func unquote(value string) string {
	if len(value) < 2 {
		return value
	}
	first, last := value[0], value[len(value)-1]
	if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
		return value[1 : len(value)-1]
	}
	return value
}

func isValidEnvKey(key string) bool {
	if key == "" {
		return false
	}
	for index, character := range key {
		if (character >= 'A' && character <= 'Z') ||
			(character >= 'a' && character <= 'z') ||
			(index > 0 && character >= '0' && character <= '9') ||
			character == '_' {
			continue
		}
		return false
	}
	return true
}

func firstNonEmptyEnv(keys ...string) string {
	for _, key := range keys {
		value := strings.TrimSpace(os.Getenv(key))
		if value != "" {
			return value
		}
	}
	return ""
}
