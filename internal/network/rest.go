package network

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/simonhull/shuffle/internal/account"
	"github.com/simonhull/shuffle/internal/errs"
)

// SignedTransactionBCS is the content type of a BCS-encoded submission.
const SignedTransactionBCS = "application/x.diem.signed_transaction+bcs"

// RESTClient calls the Diem REST API.
type RESTClient struct {
	baseURL      string
	client       *http.Client
	pollInterval time.Duration
}

// NewRESTClient returns a client for the API rooted at baseURL.
func NewRESTClient(baseURL string) *RESTClient {
	return &RESTClient{
		baseURL:      strings.TrimRight(baseURL, "/"),
		client:       &http.Client{Timeout: 30 * time.Second},
		pollInterval: DefaultPollInterval,
	}
}

// WithPollInterval sets the delay between commit checks.
func (c *RESTClient) WithPollInterval(d time.Duration) *RESTClient {
	c.pollInterval = d
	return c
}

// URL returns the API root.
func (c *RESTClient) URL() string { return c.baseURL }

// PendingTransaction is the response to a submission.
type PendingTransaction struct {
	Hash string `json:"hash"`
	Type string `json:"type"`
}

// RESTTransaction is a transaction as reported by the REST API.
type RESTTransaction struct {
	Type     string `json:"type"`
	Hash     string `json:"hash"`
	Version  string `json:"version"`
	Success  bool   `json:"success"`
	VMStatus string `json:"vm_status"`
}

// Pending reports whether the transaction has not been committed.
func (t *RESTTransaction) Pending() bool {
	return t.Type == "pending_transaction"
}

// RESTAccount is the REST view of an account.
type RESTAccount struct {
	SequenceNumber    string `json:"sequence_number"`
	AuthenticationKey string `json:"authentication_key"`
}

// errNotFound marks a 404 response.
var errNotFound = errors.New("not found")

func (c *RESTClient) do(ctx context.Context, method, path, contentType string, body []byte, result any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s returned status %d: %s", method, path, resp.StatusCode, string(bodyBytes))
	}
	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// SubmitBCS posts a BCS-encoded signed transaction.
func (c *RESTClient) SubmitBCS(ctx context.Context, txn []byte) (*PendingTransaction, error) {
	var pending PendingTransaction
	if err := c.do(ctx, http.MethodPost, "/transactions", SignedTransactionBCS, txn, &pending); err != nil {
		return nil, err
	}
	return &pending, nil
}

// Transaction fetches a transaction by hash. It returns nil while the
// server does not know the hash yet.
func (c *RESTClient) Transaction(ctx context.Context, hash string) (*RESTTransaction, error) {
	var txn RESTTransaction
	err := c.do(ctx, http.MethodGet, "/transactions/"+hash, "", nil, &txn)
	if errors.Is(err, errNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// WaitForTransaction polls until hash is committed or timeout elapses.
func (c *RESTClient) WaitForTransaction(ctx context.Context, hash string, timeout time.Duration) (*RESTTransaction, error) {
	var committed *RESTTransaction
	err := poll(ctx, c.pollInterval, timeout, func(ctx context.Context) (bool, error) {
		txn, err := c.Transaction(ctx, hash)
		if err != nil || txn == nil || txn.Pending() {
			return false, err
		}
		committed = txn
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return committed, nil
}

// SubmitAndWait submits txn and waits for a successful commit. A committed
// but failed transaction is errs.ErrTransactionStatus.
func (c *RESTClient) SubmitAndWait(ctx context.Context, txn *SignedTransaction) error {
	pending, err := c.SubmitBCS(ctx, txn.Bytes)
	if err != nil {
		return fmt.Errorf("submitting transaction: %w", err)
	}
	committed, err := c.WaitForTransaction(ctx, pending.Hash, DefaultTimeout)
	if err != nil {
		return fmt.Errorf("waiting for transaction %s: %w", pending.Hash, err)
	}
	if !committed.Success {
		return errs.Newf(errs.ErrTransactionStatus, pending.Hash, "vm status %s", committed.VMStatus)
	}
	return nil
}

// GetAccount returns the REST view of addr.
func (c *RESTClient) GetAccount(ctx context.Context, addr account.Address) (*RESTAccount, error) {
	var acct RESTAccount
	err := c.do(ctx, http.MethodGet, "/accounts/"+addr.Hex(), "", nil, &acct)
	if errors.Is(err, errNotFound) {
		return nil, fmt.Errorf("account %s not found", addr.Hex())
	}
	if err != nil {
		return nil, err
	}
	return &acct, nil
}
