package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/shuffle/internal/errs"
)

func TestLoadConfig_Success(t *testing.T) {
	root := t.TempDir()
	writeMarker(t, root, "blockchain = \"goodday\"\n")

	cfg, err := LoadConfig(root)
	require.NoError(t, err)
	assert.Equal(t, "goodday", cfg.Blockchain)
}

func TestLoadConfig_IgnoresUnknownKeys(t *testing.T) {
	root := t.TempDir()
	writeMarker(t, root, "blockchain = \"trove\"\nnode-url = \"http://127.0.0.1:8080\"\n")

	cfg, err := LoadConfig(root)
	require.NoError(t, err)
	assert.Equal(t, "trove", cfg.Blockchain)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content *string
		kind    error
	}{
		{name: "missing file", content: nil, kind: errs.ErrIO},
		{name: "malformed toml", content: ptr("goodday"), kind: errs.ErrParse},
		{name: "missing blockchain", content: ptr("other = 1\n"), kind: errs.ErrParse},
		{name: "empty blockchain", content: ptr("blockchain = \"\"\n"), kind: errs.ErrParse},
		{name: "wrong type", content: ptr("blockchain = 7\n"), kind: errs.ErrParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			if tt.content != nil {
				writeMarker(t, root, *tt.content)
			}

			cfg, err := LoadConfig(root)
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.True(t, errors.Is(err, tt.kind), "got %v", err)
			assert.Contains(t, err.Error(), MarkerFile)
		})
	}
}

func TestParseConfig_Deterministic(t *testing.T) {
	data := []byte("blockchain = \"goodday\"\n")

	a, err := ParseConfig(data)
	require.NoError(t, err)
	b, err := ParseConfig(data)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestMarshalConfig_RoundTrip(t *testing.T) {
	data, err := MarshalConfig(&Config{Blockchain: "goodday"})
	require.NoError(t, err)

	cfg, err := ParseConfig(data)
	require.NoError(t, err)
	assert.Equal(t, "goodday", cfg.Blockchain)

	_, err = MarshalConfig(&Config{})
	assert.Error(t, err)
}

func TestLoadConfig_UnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read any file")
	}
	root := t.TempDir()
	writeMarker(t, root, "blockchain = \"goodday\"\n")
	require.NoError(t, os.Chmod(filepath.Join(root, MarkerFile), 0000))

	_, err := LoadConfig(root)
	assert.True(t, errors.Is(err, errs.ErrIO))
}

func ptr(s string) *string { return &s }
