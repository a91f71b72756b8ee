package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFile_ReturnsDefaults(t *testing.T) {
	opts, err := Load(filepath.Join(t.TempDir(), "doxyman.yaml"))
	require.NoError(t, err)

	require.Equal(t, "./xml", opts.XMLDir)
	require.Equal(t, "unknown.h", opts.HeaderFile)
	require.Equal(t, "3", opts.Section)
	require.Equal(t, "Programmer's Manual", opts.HeaderTitle)
	require.Equal(t, time.Now().Year(), opts.ManpageYear)
	require.Equal(t, 2010, opts.StartYear)
	require.True(t, opts.PrintMan)
	require.False(t, opts.PrintASCII)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doxyman.yaml")
	content := `xml_dir: ./build/xml
header_file: qb.h
header_prefix: qb/
package_name: libqb
section: "7"
print_params: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	opts, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "./build/xml", opts.XMLDir)
	require.Equal(t, "qb.h", opts.HeaderFile)
	require.Equal(t, "qb/", opts.HeaderPrefix)
	require.Equal(t, "libqb", opts.PackageName)
	require.Equal(t, "7", opts.Section)
	require.True(t, opts.PrintParams)
	// untouched fields keep their defaults
	require.Equal(t, "Programmer's Manual", opts.HeaderTitle)
	require.Equal(t, 2010, opts.StartYear)
}

func TestLoad_ExpandsEnvironmentVariables(t *testing.T) {
	t.Setenv("DOXYMAN_TEST_OUT", "/tmp/pages")

	path := filepath.Join(t.TempDir(), "doxyman.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output_dir: ${DOXYMAN_TEST_OUT}\n"), 0o644))

	opts, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/tmp/pages", opts.OutputDir)
}

func TestLoad_InvalidYAML_ReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doxyman.yaml")
	require.NoError(t, os.WriteFile(path, []byte("xml_dir: [unclosed\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to unmarshal config")
}

func TestValidate(t *testing.T) {
	opts := defaults()
	require.NoError(t, opts.Validate())

	opts.Section = ""
	require.Error(t, opts.Validate())

	opts = defaults()
	opts.PrintMan = false
	require.Error(t, opts.Validate())

	opts.PrintASCII = true
	require.NoError(t, opts.Validate())
}

func TestInit_RefusesExistingFileWithoutForce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doxyman.yaml")
	require.NoError(t, Init(path, false))

	err := Init(path, false)
	require.Error(t, err)
	require.Contains(t, err.Error(), "already exists")

	require.NoError(t, Init(path, true))
}

func TestInit_WrittenFileLoadsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doxyman.yaml")
	require.NoError(t, Init(path, false))

	opts, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "libqb", opts.PackageName)
	require.Equal(t, "./man", opts.OutputDir)
	require.True(t, opts.PrintMan)
	require.NoError(t, opts.Validate())
}
