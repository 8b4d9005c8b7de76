package network

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/shuffle/internal/account"
)

// rpcServer answers JSON-RPC calls from a handler table.
type rpcServer struct {
	mu      sync.Mutex
	calls   []rpcRequest
	handler func(req rpcRequest) (any, *RPCError)
}

func (s *rpcServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.calls = append(s.calls, req)
	s.mu.Unlock()

	result, rpcErr := s.handler(req)
	resp := map[string]any{"jsonrpc": "2.0", "id": req.ID, "result": result}
	if rpcErr != nil {
		resp["error"] = rpcErr
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func newRPC(t *testing.T, handler func(req rpcRequest) (any, *RPCError)) (*JSONRPCClient, *rpcServer) {
	t.Helper()
	s := &rpcServer{handler: handler}
	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)
	return NewJSONRPCClient(srv.URL).WithPollInterval(time.Millisecond), s
}

func TestJSONRPC_Submit(t *testing.T) {
	c, s := newRPC(t, func(req rpcRequest) (any, *RPCError) { return nil, nil })

	err := c.Submit(context.Background(), &SignedTransaction{Bytes: []byte{0xde, 0xad}})
	require.NoError(t, err)
	require.Len(t, s.calls, 1)
	assert.Equal(t, "submit", s.calls[0].Method)
	assert.Equal(t, []any{hex.EncodeToString([]byte{0xde, 0xad})}, s.calls[0].Params)
}

func TestJSONRPC_GetAccount(t *testing.T) {
	addr, _ := account.ParseAddress("0xb1e55ed")
	c, s := newRPC(t, func(req rpcRequest) (any, *RPCError) {
		return map[string]any{
			"address":         addr.String(),
			"sequence_number": 3,
			"balances":        []map[string]any{{"amount": 1000000, "currency": "XUS"}},
		}, nil
	})

	view, err := c.GetAccount(context.Background(), addr)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), view.SequenceNumber)
	assert.Equal(t, uint64(1000000), view.Balance("XUS"))
	assert.Equal(t, []any{addr.String()}, s.calls[0].Params)
}

func TestJSONRPC_GetAccountMissing(t *testing.T) {
	c, _ := newRPC(t, func(req rpcRequest) (any, *RPCError) { return nil, nil })

	_, err := c.GetAccount(context.Background(), account.CoreCodeAddress)
	assert.ErrorContains(t, err, "not found")
}

func TestJSONRPC_ServerError(t *testing.T) {
	c, _ := newRPC(t, func(req rpcRequest) (any, *RPCError) {
		return nil, &RPCError{Code: -32600, Message: "invalid request"}
	})

	err := c.Submit(context.Background(), &SignedTransaction{})
	var rpcErr *RPCError
	require.ErrorAs(t, err, &rpcErr)
	assert.Equal(t, -32600, rpcErr.Code)
}

func TestJSONRPC_WaitForSignedTransaction(t *testing.T) {
	polls := 0
	c, _ := newRPC(t, func(req rpcRequest) (any, *RPCError) {
		polls++
		if polls < 3 {
			return nil, nil
		}
		return map[string]any{"version": 42, "hash": "0xABC", "vm_status": map[string]any{"type": "executed"}}, nil
	})

	view, err := c.WaitForSignedTransaction(context.Background(), &SignedTransaction{Hash: "abc", SequenceNumber: 2}, time.Second)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), view.Version)
	assert.Equal(t, VMStatusExecuted, view.VMStatus.Type)
	assert.Equal(t, 3, polls)
}

func TestJSONRPC_WaitHashMismatch(t *testing.T) {
	c, _ := newRPC(t, func(req rpcRequest) (any, *RPCError) {
		return map[string]any{"hash": "other", "vm_status": map[string]any{"type": "executed"}}, nil
	})

	_, err := c.WaitForSignedTransaction(context.Background(), &SignedTransaction{Hash: "abc"}, time.Second)
	assert.ErrorContains(t, err, "different transaction")
}

func TestJSONRPC_WaitTimeout(t *testing.T) {
	c, _ := newRPC(t, func(req rpcRequest) (any, *RPCError) { return nil, nil })

	_, err := c.WaitForSignedTransaction(context.Background(), &SignedTransaction{}, 20*time.Millisecond)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSend_OverJSONRPC(t *testing.T) {
	c, s := newRPC(t, func(req rpcRequest) (any, *RPCError) {
		if req.Method == "get_account_transaction" {
			return map[string]any{"hash": "abc", "vm_status": map[string]any{"type": "executed"}}, nil
		}
		return nil, nil
	})

	require.NoError(t, Send(context.Background(), c, &SignedTransaction{Hash: "abc"}))
	assert.Equal(t, "submit", s.calls[0].Method)
	assert.Equal(t, "get_account_transaction", s.calls[1].Method)
}
