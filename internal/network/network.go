// Package network talks to a Diem test network: the JSON-RPC API used for
// account state and administrative transactions, and the REST API used to
// publish modules.
//
// Transaction construction and signing are not implemented here; they are
// supplied through TransactionFactory.
package network

import (
	"context"
	"fmt"
	"time"

	"github.com/simonhull/shuffle/internal/account"
	"github.com/simonhull/shuffle/internal/errs"
)

const (
	// DefaultTimeout bounds how long Send waits for a transaction to commit.
	DefaultTimeout = 60 * time.Second

	// DefaultPollInterval is the delay between commit checks.
	DefaultPollInterval = 500 * time.Millisecond

	// VMStatusExecuted is the JSON-RPC status of a successful transaction.
	VMStatusExecuted = "executed"
)

// SignedTransaction is a signed, BCS-encoded user transaction. Bytes is
// opaque to this package.
type SignedTransaction struct {
	Sender         account.Address
	SequenceNumber uint64
	Hash           string
	Bytes          []byte
}

// Amount is one currency balance.
type Amount struct {
	Amount   uint64 `json:"amount"`
	Currency string `json:"currency"`
}

// AccountView is the JSON-RPC view of an account.
type AccountView struct {
	Address           string   `json:"address"`
	Balances          []Amount `json:"balances"`
	SequenceNumber    uint64   `json:"sequence_number"`
	AuthenticationKey string   `json:"authentication_key"`
}

// Balance returns the amount held in currency, or zero.
func (a *AccountView) Balance(currency string) uint64 {
	for _, b := range a.Balances {
		if b.Currency == currency {
			return b.Amount
		}
	}
	return 0
}

// TotalBalance sums every currency balance.
func (a *AccountView) TotalBalance() uint64 {
	var total uint64
	for _, b := range a.Balances {
		total += b.Amount
	}
	return total
}

// VMStatus is the execution outcome of a committed transaction.
type VMStatus struct {
	Type        string `json:"type"`
	Location    string `json:"location,omitempty"`
	AbortCode   uint64 `json:"abort_code,omitempty"`
	Explanation *struct {
		Category string `json:"category"`
		Reason   string `json:"reason"`
	} `json:"explanation,omitempty"`
}

func (s VMStatus) String() string {
	if s.Location != "" {
		return fmt.Sprintf("%s at %s (code %d)", s.Type, s.Location, s.AbortCode)
	}
	return s.Type
}

// TransactionView is the JSON-RPC view of a committed transaction.
type TransactionView struct {
	Version  uint64   `json:"version"`
	Hash     string   `json:"hash"`
	VMStatus VMStatus `json:"vm_status"`
	GasUsed  uint64   `json:"gas_used"`
}

// Client is the JSON-RPC capability used by Send and bootstrap.
type Client interface {
	Submit(ctx context.Context, txn *SignedTransaction) error
	WaitForSignedTransaction(ctx context.Context, txn *SignedTransaction, timeout time.Duration) (*TransactionView, error)
	GetAccount(ctx context.Context, addr account.Address) (*AccountView, error)
}

// TransactionFactory builds and signs the transactions bootstrap needs.
// Each call consumes the sender's next sequence number.
type TransactionFactory interface {
	EnableOpenPublishing(sender *account.LocalAccount) (*SignedTransaction, error)
	CreateParentVASPAccount(sender *account.LocalAccount, authKey account.AuthKey, name string) (*SignedTransaction, error)
	PublishModule(sender *account.LocalAccount, code []byte) (*SignedTransaction, error)
}

// Send submits txn, waits up to DefaultTimeout for it to commit, and
// requires the executed status. Any other status is errs.ErrTransactionStatus.
func Send(ctx context.Context, c Client, txn *SignedTransaction) error {
	if err := c.Submit(ctx, txn); err != nil {
		return fmt.Errorf("submitting transaction: %w", err)
	}
	view, err := c.WaitForSignedTransaction(ctx, txn, DefaultTimeout)
	if err != nil {
		return fmt.Errorf("waiting for transaction: %w", err)
	}
	if view.VMStatus.Type != VMStatusExecuted {
		return errs.Newf(errs.ErrTransactionStatus, txnSubject(txn, view), "vm status %s", view.VMStatus)
	}
	return nil
}

func txnSubject(txn *SignedTransaction, view *TransactionView) string {
	if view != nil && view.Hash != "" {
		return view.Hash
	}
	return fmt.Sprintf("%s/%d", txn.Sender, txn.SequenceNumber)
}

// poll calls check every interval until it reports done, fails, or
// timeout elapses.
func poll(ctx context.Context, interval, timeout time.Duration, check func(context.Context) (bool, error)) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		done, err := check(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("not committed within %s: %w", timeout, ctx.Err())
		case <-ticker.C:
		}
	}
}
