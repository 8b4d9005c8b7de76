// Package account holds Diem account identities: Ed25519 keys, the
// authentication keys derived from them, and account addresses.
package account

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/sha3"
)

const (
	// AddressLength is the size of a Diem account address in bytes.
	AddressLength = 16

	// ed25519Scheme is appended to the public key before hashing.
	ed25519Scheme byte = 0x00
)

// Address is a 16-byte Diem account address.
type Address [AddressLength]byte

// AuthKey is the 32-byte authentication key of an account. Its last 16
// bytes are the account address.
type AuthKey [32]byte

// CoreCodeAddress hosts the Diem framework modules.
var CoreCodeAddress = Address{AddressLength - 1: 0x01}

// ParseAddress decodes a hex address with or without a 0x prefix. Short
// forms are left-padded with zeros.
func ParseAddress(s string) (Address, error) {
	var addr Address
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if len(s) == 0 || len(s) > 2*AddressLength {
		return addr, fmt.Errorf("invalid address length: %q", s)
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return addr, fmt.Errorf("invalid address %q: %w", s, err)
	}
	copy(addr[AddressLength-len(b):], b)
	return addr, nil
}

// String returns the lowercase hex form without prefix, as used by the
// JSON-RPC API.
func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

// Hex returns the address with a 0x prefix.
func (a Address) Hex() string {
	return "0x" + a.String()
}

// DeriveAuthKey computes sha3-256(pubkey || scheme).
func DeriveAuthKey(pub ed25519.PublicKey) AuthKey {
	h := sha3.New256()
	h.Write(pub)
	h.Write([]byte{ed25519Scheme})
	var key AuthKey
	copy(key[:], h.Sum(nil))
	return key
}

// Address returns the account address of the authentication key.
func (k AuthKey) Address() Address {
	var addr Address
	copy(addr[:], k[len(k)-AddressLength:])
	return addr
}

// Prefix returns the first 16 bytes, which account creation scripts take
// alongside the address.
func (k AuthKey) Prefix() []byte {
	return append([]byte(nil), k[:len(k)-AddressLength]...)
}

// LocalAccount is an account whose private key is held locally.
// SequenceNumber is advanced by whoever signs on its behalf.
type LocalAccount struct {
	Address        Address
	PrivateKey     ed25519.PrivateKey
	SequenceNumber uint64
}

// NewLocalAccount derives the address from key.
func NewLocalAccount(key ed25519.PrivateKey, seq uint64) *LocalAccount {
	return &LocalAccount{
		Address:        DeriveAuthKey(key.Public().(ed25519.PublicKey)).Address(),
		PrivateKey:     key,
		SequenceNumber: seq,
	}
}

// PublicKey returns the account's public key.
func (a *LocalAccount) PublicKey() ed25519.PublicKey {
	return a.PrivateKey.Public().(ed25519.PublicKey)
}

// AuthKey returns the account's authentication key.
func (a *LocalAccount) AuthKey() AuthKey {
	return DeriveAuthKey(a.PublicKey())
}

// IncrementSequenceNumber returns the current sequence number and advances it.
func (a *LocalAccount) IncrementSequenceNumber() uint64 {
	seq := a.SequenceNumber
	a.SequenceNumber++
	return seq
}

// GenerateKey creates a new Ed25519 key from r (crypto/rand when nil).
func GenerateKey(r io.Reader) (ed25519.PrivateKey, error) {
	if r == nil {
		r = rand.Reader
	}
	_, priv, err := ed25519.GenerateKey(r)
	if err != nil {
		return nil, fmt.Errorf("generating ed25519 key: %w", err)
	}
	return priv, nil
}

// WriteKey stores the 32-byte private key seed at path with owner-only
// permissions.
func WriteKey(path string, key ed25519.PrivateKey) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating key directory: %w", err)
	}
	if err := os.WriteFile(path, key.Seed(), 0600); err != nil {
		return fmt.Errorf("writing key %s: %w", path, err)
	}
	return nil
}

// ReadKey loads a private key written by WriteKey.
func ReadKey(path string) (ed25519.PrivateKey, error) {
	seed, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading key %s: %w", path, err)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("key %s: expected %d bytes, got %d", path, ed25519.SeedSize, len(seed))
	}
	return ed25519.NewKeyFromSeed(seed), nil
}
