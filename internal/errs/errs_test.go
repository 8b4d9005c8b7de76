package errs

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_MatchesKindAndCause(t *testing.T) {
	err := New(ErrIO, "Shuffle.toml", fs.ErrPermission)

	assert.True(t, errors.Is(err, ErrIO))
	assert.True(t, errors.Is(err, fs.ErrPermission))
	assert.False(t, errors.Is(err, ErrParse))
	assert.Equal(t, "io error: Shuffle.toml: permission denied", err.Error())
}

func TestError_WithoutCause(t *testing.T) {
	err := New(ErrCodegen, "diemStdlib", nil)

	assert.True(t, errors.Is(err, ErrCodegen))
	assert.Equal(t, "codegen error: diemStdlib", err.Error())
}

func TestNewf(t *testing.T) {
	err := Newf(ErrDeployment, "accounts", "treasury balance is %d", 0)

	assert.Equal(t, "deployment error: accounts: treasury balance is 0", err.Error())
}

func TestKindOf(t *testing.T) {
	wrapped := New(ErrCompile, "main", errors.New("E01001"))

	assert.Equal(t, ErrCompile, KindOf(wrapped))
	assert.Nil(t, KindOf(errors.New("plain")))
}
