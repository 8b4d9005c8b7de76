package project

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/simonhull/shuffle/internal/errs"
)

// DefaultBlockchain is written into new projects.
const DefaultBlockchain = "goodday"

// Config is the content of Shuffle.toml. Keys are kebab-case.
type Config struct {
	// Blockchain identifies the network the project targets.
	Blockchain string `toml:"blockchain"`
}

// LoadConfig reads Shuffle.toml from root. A missing or unreadable file is
// an IO error; malformed TOML or a missing blockchain is a parse error.
func LoadConfig(root string) (*Config, error) {
	path := filepath.Join(root, MarkerFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.New(errs.ErrIO, path, err)
	}

	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, errs.New(errs.ErrParse, path, err)
	}
	return cfg, nil
}

// ParseConfig decodes Shuffle.toml content. It is all-or-nothing: no
// partially filled Config is ever returned.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg); err != nil {
		return nil, err
	}
	if cfg.Blockchain == "" {
		return nil, fmt.Errorf("missing required field %q", "blockchain")
	}
	return &cfg, nil
}

// MarshalConfig encodes cfg in Shuffle.toml form.
func MarshalConfig(cfg *Config) ([]byte, error) {
	if cfg.Blockchain == "" {
		return nil, fmt.Errorf("missing required field %q", "blockchain")
	}
	return toml.Marshal(cfg)
}
