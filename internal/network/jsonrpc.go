package network

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/simonhull/shuffle/internal/account"
)

// JSONRPCClient calls a Diem JSON-RPC endpoint.
type JSONRPCClient struct {
	url          string
	client       *http.Client
	pollInterval time.Duration
	nextID       atomic.Uint64
}

var _ Client = (*JSONRPCClient)(nil)

// NewJSONRPCClient returns a client for the endpoint at url.
func NewJSONRPCClient(url string) *JSONRPCClient {
	return &JSONRPCClient{
		url:          url,
		client:       &http.Client{Timeout: 30 * time.Second},
		pollInterval: DefaultPollInterval,
	}
}

// WithPollInterval sets the delay between commit checks.
func (c *JSONRPCClient) WithPollInterval(d time.Duration) *JSONRPCClient {
	c.pollInterval = d
	return c
}

// URL returns the endpoint.
func (c *JSONRPCClient) URL() string { return c.url }

// RPCError is an error object returned by the server.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("json-rpc error %d: %s", e.Code, e.Message)
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
}

func (c *JSONRPCClient) call(ctx context.Context, method string, params []any, result any) error {
	req := rpcRequest{JSONRPC: "2.0", ID: c.nextID.Add(1), Method: method, Params: params}
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s returned status %d: %s", method, resp.StatusCode, string(bodyBytes))
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	if rpcResp.Error != nil {
		return rpcResp.Error
	}
	if result == nil || len(rpcResp.Result) == 0 {
		return nil
	}
	return json.Unmarshal(rpcResp.Result, result)
}

// Submit sends a signed transaction to the mempool.
func (c *JSONRPCClient) Submit(ctx context.Context, txn *SignedTransaction) error {
	return c.call(ctx, "submit", []any{hex.EncodeToString(txn.Bytes)}, nil)
}

// GetAccount returns the account at addr. A missing account is an error.
func (c *JSONRPCClient) GetAccount(ctx context.Context, addr account.Address) (*AccountView, error) {
	var view *AccountView
	if err := c.call(ctx, "get_account", []any{addr.String()}, &view); err != nil {
		return nil, err
	}
	if view == nil {
		return nil, fmt.Errorf("account %s not found", addr)
	}
	return view, nil
}

// GetAccountTransaction returns the transaction sent by addr with seq, or
// nil when it has not been committed.
func (c *JSONRPCClient) GetAccountTransaction(ctx context.Context, addr account.Address, seq uint64) (*TransactionView, error) {
	var view *TransactionView
	if err := c.call(ctx, "get_account_transaction", []any{addr.String(), seq, false}, &view); err != nil {
		return nil, err
	}
	return view, nil
}

// WaitForSignedTransaction polls until txn is committed or timeout elapses.
// When txn carries a hash, the committed transaction must match it.
func (c *JSONRPCClient) WaitForSignedTransaction(ctx context.Context, txn *SignedTransaction, timeout time.Duration) (*TransactionView, error) {
	var committed *TransactionView
	err := poll(ctx, c.pollInterval, timeout, func(ctx context.Context) (bool, error) {
		view, err := c.GetAccountTransaction(ctx, txn.Sender, txn.SequenceNumber)
		if err != nil {
			return false, err
		}
		if view == nil {
			return false, nil
		}
		if txn.Hash != "" && !strings.EqualFold(strings.TrimPrefix(view.Hash, "0x"), strings.TrimPrefix(txn.Hash, "0x")) {
			return false, fmt.Errorf("sequence number %d of %s committed a different transaction %s", txn.SequenceNumber, txn.Sender, view.Hash)
		}
		committed = view
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return committed, nil
}
