package compiler

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// ManifestFile is the Move package manifest.
const ManifestFile = "Move.toml"

// Manifest is the part of Move.toml shuffle reads.
type Manifest struct {
	Package struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
	} `toml:"package"`
	Addresses    map[string]string `toml:"addresses"`
	DevAddresses map[string]string `toml:"dev-addresses"`
}

// LoadManifest reads Move.toml from pkgDir.
func LoadManifest(pkgDir string) (*Manifest, error) {
	path := filepath.Join(pkgDir, ManifestFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if m.Package.Name == "" {
		return nil, fmt.Errorf("%s: missing package name", path)
	}
	return &m, nil
}

// SetDevAddress binds a named address in the [dev-addresses] table of the
// manifest in pkgDir, keeping every other entry.
func SetDevAddress(pkgDir, name, addr string) error {
	path := filepath.Join(pkgDir, ManifestFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	dev, _ := doc["dev-addresses"].(map[string]any)
	if dev == nil {
		dev = make(map[string]any)
	}
	dev[name] = addr
	doc["dev-addresses"] = dev

	out, err := toml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return os.WriteFile(path, out, 0644)
}
