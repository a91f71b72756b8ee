package doxygen

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/doxyman/internal/model"
)

const mainFileXML = `<?xml version="1.0"?><doxygen>` +
	`<compounddef kind="file" id="qbdefs_8h">` +
	`<compoundname>qbdefs.h</compoundname>` +
	`<briefdescription><para>Common definitions.</para></briefdescription>` +
	`<sectiondef kind="define">` +
	`<memberdef kind="define" id="d1"><name>QB_MAX</name><initializer>42</initializer>` +
	`<briefdescription/><detaileddescription/></memberdef>` +
	`</sectiondef>` +
	`<sectiondef kind="enum">` +
	`<memberdef kind="enum" id="qbdefs_8h_1akind"><name>qb_kind</name>` +
	`<enumvalue id="v1"><name>QB_A</name><briefdescription/><detaileddescription/></enumvalue>` +
	`<briefdescription/><detaileddescription/></memberdef>` +
	`</sectiondef>` +
	`<sectiondef kind="typedef">` +
	`<memberdef kind="typedef" id="t1"><name>qb_handle_t</name><type>int</type></memberdef>` +
	`</sectiondef>` +
	`<sectiondef kind="func">` +
	`<memberdef kind="function" id="f1"><type>int</type><name>qb_open</name>` +
	`<param><type><ref refid="structqb_conn" kindref="compound">struct qb_conn</ref> *</type><declname>conn</declname></param>` +
	`<param><type><ref refid="qbdefs_8h_1akind" kindref="member">qb_kind</ref></type><declname>kind</declname></param>` +
	`<briefdescription><para>Open a connection.</para></briefdescription>` +
	`<detaileddescription/></memberdef>` +
	`<memberdef kind="function" id="f2"><type>void</type><name>qb_close</name>` +
	`<param><type><ref refid="structqb_conn" kindref="compound">struct qb_conn</ref> *</type><declname>conn</declname></param>` +
	`<briefdescription><para>Close a connection.</para></briefdescription>` +
	`<detaileddescription/></memberdef>` +
	`</sectiondef>` +
	`</compounddef></doxygen>`

func TestScanMain_BuildsOrderedFunctionList(t *testing.T) {
	idx := NewIndex()
	require.NoError(t, idx.ScanMain(strings.NewReader(mainFileXML)))

	require.Equal(t, "qbdefs.h", idx.HeaderName())
	require.Len(t, idx.Functions, 2)
	require.Equal(t, "qb_open", idx.Functions[0].Name)
	require.Equal(t, "qb_close", idx.Functions[1].Name)
	require.Equal(t, []string{"qbdefs_8h_1akind", "structqb_conn"}, idx.Functions[0].RefIDs)
}

func TestScanMain_EnumResolvesInline_StructStaysPlaceholder(t *testing.T) {
	idx := NewIndex()
	require.NoError(t, idx.ScanMain(strings.NewReader(mainFileXML)))

	enum, ok := idx.Structures["qbdefs_8h_1akind"]
	require.True(t, ok)
	require.True(t, enum.Resolved)
	require.Equal(t, model.KindEnum, enum.Kind)

	ph, ok := idx.Structures["structqb_conn"]
	require.True(t, ok)
	require.False(t, ph.Resolved)
	require.Equal(t, "struct qb_conn", ph.Name)
}

func TestScanMain_GeneralRecord_CarriesDefines(t *testing.T) {
	idx := NewIndex()
	require.NoError(t, idx.ScanMain(strings.NewReader(mainFileXML)))

	require.True(t, idx.General.General)
	require.Equal(t, "qbdefs", idx.General.Name)
	require.Equal(t, "Common definitions.", idx.General.Brief)
	require.Len(t, idx.General.Defines, 1)
	require.Equal(t, "QB_MAX", idx.General.Defines[0].Name)
}

func TestScanMain_TruncatedMemberdef_ReportsMalformedXML(t *testing.T) {
	src := `<doxygen><compounddef kind="file"><sectiondef>` +
		`<memberdef kind="function"><type>int`

	idx := NewIndex()
	err := idx.ScanMain(strings.NewReader(src))
	require.Error(t, err)
	require.ErrorIs(t, err, ErrMalformedXML)
}

const companionXML = `<?xml version="1.0"?><doxygen>` +
	`<compounddef kind="struct" id="structqb_conn">` +
	`<compoundname>qb_conn</compoundname>` +
	`<sectiondef kind="public-attrib">` +
	`<memberdef kind="variable" id="m1"><type>int</type><name>fd</name><argsstring></argsstring>` +
	`<briefdescription><para>file descriptor</para></briefdescription><detaileddescription/></memberdef>` +
	`</sectiondef>` +
	`<briefdescription/><detaileddescription/>` +
	`</compounddef></doxygen>`

func TestResolveStructures_FillsPlaceholderFromCompanionFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "structqb_conn.xml"), []byte(companionXML), 0o644))

	idx := NewIndex()
	idx.NoteCompound("structqb_conn", "qb_conn")
	idx.ResolveStructures(dir)

	resolved := idx.ResolvedStructures()
	s, ok := resolved["structqb_conn"]
	require.True(t, ok)
	require.Equal(t, "qb_conn", s.Name)
	require.Len(t, s.Members, 1)
	require.Equal(t, "fd", s.Members[0].Name)
}

func TestResolveStructures_MissingCompanionFile_DropsPlaceholder(t *testing.T) {
	idx := NewIndex()
	idx.NoteCompound("structmissing", "missing")
	idx.ResolveStructures(t.TempDir())

	require.Empty(t, idx.ResolvedStructures())
	_, ok := idx.Structures["structmissing"]
	require.False(t, ok)
}

func TestNoteCompound_DoesNotReplaceExistingEntry(t *testing.T) {
	idx := NewIndex()
	idx.Structures["structx"] = model.Structure{Kind: model.KindStruct, Name: "x", Resolved: true}
	idx.NoteCompound("structx", "other")

	require.True(t, idx.Structures["structx"].Resolved)
	require.Equal(t, "x", idx.Structures["structx"].Name)
}
