package vfs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPathErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := wrapErr("open", "//test/x", CodeInvalidArgument, cause)
	require.ErrorIs(t, err, cause)
}

func TestIsNotExist(t *testing.T) {
	err := newErr("open", "//test/x", CodeNoSuchFileOrDirectory)
	require.True(t, IsNotExist(err))
	require.False(t, IsNotExist(errors.New("unrelated")))
}

func TestErrCodeDefaultsToNone(t *testing.T) {
	require.Equal(t, CodeNone, ErrCode(errors.New("unrelated")))
	require.Equal(t, CodeNone, ErrCode(nil))
}

func TestMustPanicsOnError(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
	}()
	must(newErr("open", "//test/x", CodeInvalidArgument))
}

func TestMustVReturnsValueOnSuccess(t *testing.T) {
	v := mustV(42, error(nil))
	require.Equal(t, 42, v)
}
