package logfields

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAttrs_UseCanonicalKeys(t *testing.T) {
	require.Equal(t, KeyFile, File("x.xml").Key)
	require.Equal(t, KeyFunction, Function("qb_open").Key)
	require.Equal(t, KeyRefID, RefID("structqb").Key)
	require.Equal(t, KeyPath, Path("/tmp/out").Key)
	require.Equal(t, KeyCount, Count(3).Key)
}

func TestError_NilErrorIsEmptyString(t *testing.T) {
	a := Error(nil)
	require.Equal(t, KeyError, a.Key)
	require.Equal(t, "", a.Value.String())
}

func TestError_WrapsMessage(t *testing.T) {
	a := Error(errors.New("boom"))
	require.Equal(t, "boom", a.Value.String())
}
