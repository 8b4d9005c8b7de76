package network

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/shuffle/internal/account"
	"github.com/simonhull/shuffle/internal/errs"
)

type fakeClient struct {
	submitErr error
	view      *TransactionView
	waitErr   error
	timeout   time.Duration
	submitted []*SignedTransaction
}

func (f *fakeClient) Submit(ctx context.Context, txn *SignedTransaction) error {
	f.submitted = append(f.submitted, txn)
	return f.submitErr
}

func (f *fakeClient) WaitForSignedTransaction(ctx context.Context, txn *SignedTransaction, timeout time.Duration) (*TransactionView, error) {
	f.timeout = timeout
	return f.view, f.waitErr
}

func (f *fakeClient) GetAccount(ctx context.Context, addr account.Address) (*AccountView, error) {
	return nil, errors.New("not implemented")
}

func TestSend_Executed(t *testing.T) {
	c := &fakeClient{view: &TransactionView{Hash: "abc", VMStatus: VMStatus{Type: VMStatusExecuted}}}

	require.NoError(t, Send(context.Background(), c, &SignedTransaction{}))
	assert.Len(t, c.submitted, 1)
	assert.Equal(t, DefaultTimeout, c.timeout)
}

func TestSend_NotExecuted(t *testing.T) {
	c := &fakeClient{view: &TransactionView{
		Hash:     "abc",
		VMStatus: VMStatus{Type: "move_abort", Location: "00000000000000000000000000000001::DiemAccount", AbortCode: 7},
	}}

	err := Send(context.Background(), c, &SignedTransaction{})
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrTransactionStatus)
	assert.Contains(t, err.Error(), "move_abort")
	assert.Contains(t, err.Error(), "abc")
}

func TestSend_SubmitAndWaitErrors(t *testing.T) {
	submitErr := errors.New("mempool full")
	err := Send(context.Background(), &fakeClient{submitErr: submitErr}, &SignedTransaction{})
	assert.ErrorIs(t, err, submitErr)

	waitErr := context.DeadlineExceeded
	err = Send(context.Background(), &fakeClient{waitErr: waitErr}, &SignedTransaction{})
	assert.ErrorIs(t, err, waitErr)
	assert.NotErrorIs(t, err, errs.ErrTransactionStatus)
}

func TestAccountView_Balances(t *testing.T) {
	view := &AccountView{Balances: []Amount{{Amount: 5, Currency: "XUS"}, {Amount: 7, Currency: "XDX"}}}

	assert.Equal(t, uint64(5), view.Balance("XUS"))
	assert.Equal(t, uint64(0), view.Balance("EUR"))
	assert.Equal(t, uint64(12), view.TotalBalance())
}

func TestPoll_Timeout(t *testing.T) {
	calls := 0
	err := poll(context.Background(), time.Millisecond, 20*time.Millisecond, func(context.Context) (bool, error) {
		calls++
		return false, nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Greater(t, calls, 1)
}
