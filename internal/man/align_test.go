package man

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/doxyman/internal/model"
)

func TestSplitPointer(t *testing.T) {
	tests := []struct {
		in   string
		base string
		ptr  string
	}{
		{"int", "int", ""},
		{"char *", "char", "*"},
		{"char*", "char", "*"},
		{"void **", "void", "**"},
		{"struct qb_conn *", "struct qb_conn", "*"},
		{"int32_t(*", "int32_t", "(*"},
		{"void(*", "void", "(*"},
		{"  const char *  ", "const char", "*"},
	}
	for _, tc := range tests {
		base, ptr := splitPointer(tc.in)
		require.Equal(t, tc.base, base, "input %q", tc.in)
		require.Equal(t, tc.ptr, ptr, "input %q", tc.in)
	}
}

func TestAlignWidth_LongestBaseType(t *testing.T) {
	params := []model.Param{
		{Name: "a", Type: "int"},
		{Name: "b", Type: "struct qb_conn *"},
		{Name: "c", Type: "char"},
	}
	require.Equal(t, len("struct qb_conn"), alignWidth(params))
}

func TestAlignWidth_IgnoresTypesOverCutoff(t *testing.T) {
	long := strings.Repeat("x", typeAlignCutoff+1)
	params := []model.Param{
		{Name: "cb", Type: long + "(*"},
		{Name: "n", Type: "size_t"},
	}
	require.Equal(t, len("size_t"), alignWidth(params))
}

func TestFormatDecl_OverCutoffType_NotPadded(t *testing.T) {
	long := strings.Repeat("x", typeAlignCutoff+1)
	got := formatDecl(model.Param{Name: "cb", Type: long + "(*"}, 6)
	require.Equal(t, "\\fB"+long+" (*\\fIcb\\fP", got)
}

func TestFormatDecl_PadsShortTypes(t *testing.T) {
	got := formatDecl(model.Param{Name: "n", Type: "int"}, 6)
	require.Equal(t, "\\fBint    \\fIn\\fP", got)
}
