package rpc

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/metaplex-foundation/bubblegum-batch-sdk/pkg/pubkey"
	"github.com/metaplex-foundation/bubblegum-batch-sdk/pkg/shared"
)

// ErrAccountNotFound is returned when the requested account does not exist.
var ErrAccountNotFound = errors.New("account not found")

type Config struct {
	Network string
	// BaseURL overrides the public endpoint of Network.
	BaseURL    string
	HTTPClient *http.Client
	APIKey     string
	Headers    map[string]string
	// Commitment defaults to confirmed.
	Commitment string
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	apiKey     string
	headers    map[string]string
	commitment string
	requestID  atomic.Uint64
}

// NewClient creates a new Client.
func NewClient(config Config) (*Client, error) {
	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		defaultURL, err := shared.DefaultRPCURL(config.Network)
		if err != nil {
			return nil, err
		}
		baseURL = defaultURL
	}
	parsedBaseURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid RPC base URL: %w", err)
	}
	if parsedBaseURL.Scheme != "http" && parsedBaseURL.Scheme != "https" {
		return nil, fmt.Errorf("invalid RPC base URL: scheme must be http or https")
	}
	if strings.TrimSpace(parsedBaseURL.Host) == "" {
		return nil, fmt.Errorf("invalid RPC base URL: host is required")
	}
	baseURL = strings.TrimRight(parsedBaseURL.String(), "/")

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	commitment := strings.TrimSpace(config.Commitment)
	switch commitment {
	case "":
		commitment = CommitmentConfirmed
	case CommitmentProcessed, CommitmentConfirmed, CommitmentFinalized:
	default:
		return nil, fmt.Errorf("unsupported commitment %q", config.Commitment)
	}

	headers := map[string]string{}
	for key, value := range config.Headers {
		headers[key] = value
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		apiKey:     strings.TrimSpace(config.APIKey),
		headers:    headers,
		commitment: commitment,
	}, nil
}

// BaseURL returns the JSON-RPC endpoint requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetAccountInfo fetches an account with base64 encoded data. It returns
// ErrAccountNotFound when the account does not exist.
func (c *Client) GetAccountInfo(ctx context.Context, account pubkey.Pubkey) (*AccountInfo, error) {
	params := []any{
		account.String(),
		map[string]string{"encoding": "base64", "commitment": c.commitment},
	}

	var result accountInfoResult
	if err := c.call(ctx, "getAccountInfo", params, &result); err != nil {
		return nil, err
	}
	if result.Value == nil {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, account)
	}

	value := result.Value
	if len(value.Data) != 2 || value.Data[1] != "base64" {
		return nil, fmt.Errorf("unexpected account data encoding for %s", account)
	}
	data, err := base64.StdEncoding.DecodeString(value.Data[0])
	if err != nil {
		return nil, fmt.Errorf("failed to decode account data: %w", err)
	}

	return &AccountInfo{
		Lamports:   value.Lamports,
		Owner:      value.Owner,
		Executable: value.Executable,
		RentEpoch:  value.RentEpoch,
		Data:       data,
		Slot:       result.Context.Slot,
	}, nil
}

// GetAccountData returns the raw data of an account.
func (c *Client) GetAccountData(ctx context.Context, account pubkey.Pubkey) ([]byte, error) {
	info, err := c.GetAccountInfo(ctx, account)
	if err != nil {
		return nil, err
	}
	return info.Data, nil
}

func (c *Client) call(ctx context.Context, method string, params []any, target any) error {
	payload, err := json.Marshal(request{
		JSONRPC: "2.0",
		ID:      c.requestID.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", method, err)
	}

	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	httpRequest.Header.Set("Content-Type", "application/json")
	httpRequest.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		httpRequest.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	}
	for key, value := range c.headers {
		httpRequest.Header.Set(key, value)
	}

	httpResponse, err := c.httpClient.Do(httpRequest)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", method, err)
	}
	defer httpResponse.Body.Close()

	body, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", method, err)
	}

	if httpResponse.StatusCode < 200 || httpResponse.StatusCode >= 300 {
		return fmt.Errorf(
			"%s request failed with status %d: %s",
			method,
			httpResponse.StatusCode,
			strings.TrimSpace(string(body)),
		)
	}

	var decoded response
	if err := json.Unmarshal(body, &decoded); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	if decoded.Error != nil {
		return fmt.Errorf("%s failed: %w", method, decoded.Error)
	}
	if err := json.Unmarshal(decoded.Result, target); err != nil {
		return fmt.Errorf("failed to decode %s result: %w", method, err)
	}

	return nil
}
