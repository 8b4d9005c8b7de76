package project

import (
	"crypto/ed25519"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/simonhull/shuffle/internal/account"
)

// HomeDirName is the directory under the user's home that holds shuffle state.
const HomeDirName = ".shuffle"

// AccountRole names one of the key slots kept in a Home.
type AccountRole string

const (
	// LatestAccount is the developer account used to publish packages.
	LatestAccount AccountRole = "latest"
	// TestAccount is the account e2e tests send transactions from.
	TestAccount AccountRole = "test"
)

// Home is the shuffle state directory shared across projects. It is a
// plain value: callers construct one and pass it to whatever needs it.
type Home struct {
	dir string
}

// NewHome returns a Home rooted at dir.
func NewHome(dir string) Home {
	return Home{dir: dir}
}

// DefaultHome returns ~/.shuffle.
func DefaultHome() (Home, error) {
	userHome, err := os.UserHomeDir()
	if err != nil {
		return Home{}, fmt.Errorf("resolving user home: %w", err)
	}
	return NewHome(filepath.Join(userHome, HomeDirName)), nil
}

// Dir returns the home directory path.
func (h Home) Dir() string { return h.dir }

// AccountsDir returns the directory holding every account slot.
func (h Home) AccountsDir() string {
	return filepath.Join(h.dir, "accounts")
}

// KeyPath returns the private key path for role.
func (h Home) KeyPath(role AccountRole) string {
	return filepath.Join(h.AccountsDir(), string(role), "dev.key")
}

// AddressPath returns the address file path for role.
func (h Home) AddressPath(role AccountRole) string {
	return filepath.Join(h.AccountsDir(), string(role), "address")
}

// LatestKeyPath returns the developer account key path.
func (h Home) LatestKeyPath() string { return h.KeyPath(LatestAccount) }

// TestKeyPath returns the test account key path.
func (h Home) TestKeyPath() string { return h.KeyPath(TestAccount) }

// GenerateKey creates a fresh key for role, replacing any existing one, and
// records the derived address next to it.
func (h Home) GenerateKey(role AccountRole) (*account.LocalAccount, error) {
	key, err := account.GenerateKey(nil)
	if err != nil {
		return nil, err
	}
	return h.SaveKey(role, key)
}

// SaveKey stores key for role and writes its address file.
func (h Home) SaveKey(role AccountRole, key ed25519.PrivateKey) (*account.LocalAccount, error) {
	if err := account.WriteKey(h.KeyPath(role), key); err != nil {
		return nil, err
	}
	acct := account.NewLocalAccount(key, 0)
	if err := os.WriteFile(h.AddressPath(role), []byte(acct.Address.String()+"\n"), 0644); err != nil {
		return nil, fmt.Errorf("writing %s address: %w", role, err)
	}
	return acct, nil
}

// LoadAccount reads the key for role. The sequence number starts at zero;
// callers that sign must refresh it from the network.
func (h Home) LoadAccount(role AccountRole) (*account.LocalAccount, error) {
	key, err := account.ReadKey(h.KeyPath(role))
	if err != nil {
		return nil, err
	}
	return account.NewLocalAccount(key, 0), nil
}

// Address reads the recorded address for role.
func (h Home) Address(role AccountRole) (account.Address, error) {
	data, err := os.ReadFile(h.AddressPath(role))
	if err != nil {
		return account.Address{}, fmt.Errorf("reading %s address: %w", role, err)
	}
	return account.ParseAddress(strings.TrimSpace(string(data)))
}

// TestAddress reads the test account address.
func (h Home) TestAddress() (account.Address, error) {
	return h.Address(TestAccount)
}
