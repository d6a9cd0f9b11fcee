package rpc

import (
	"encoding/json"
	"fmt"
)

const (
	CommitmentProcessed = "processed"
	CommitmentConfirmed = "confirmed"
	CommitmentFinalized = "finalized"
)

// AccountInfo is the decoded value of a getAccountInfo response.
type AccountInfo struct {
	Lamports   uint64
	Owner      string
	Executable bool
	RentEpoch  uint64
	Data       []byte
	// Slot is the context slot the account was read at.
	Slot uint64
}

type request struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *Error          `json:"error"`
}

// Error is a JSON-RPC error object returned by the node.
type Error struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

type responseContext struct {
	Slot uint64 `json:"slot"`
}

type accountInfoResult struct {
	Context responseContext `json:"context"`
	Value   *accountValue   `json:"value"`
}

type accountValue struct {
	Data       []string `json:"data"`
	Executable bool     `json:"executable"`
	Lamports   uint64   `json:"lamports"`
	Owner      string   `json:"owner"`
	RentEpoch  uint64   `json:"rentEpoch"`
}
