// Package config loads doxyman run options from an optional YAML file,
// environment variables and command-line flags. Flags win over the file,
// the file wins over built-in defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Options is the fully resolved configuration for one run.
type Options struct {
	// Input / output locations.
	XMLDir       string `yaml:"xml_dir"`
	OutputDir    string `yaml:"output_dir"`
	HeaderSrcDir string `yaml:"header_src_dir"`

	// Header identity.
	HeaderFile   string `yaml:"header_file"`
	HeaderPrefix string `yaml:"header_prefix"` // include prefix, e.g. "qb/"

	// Man page metadata.
	Section     string `yaml:"section"`
	PackageName string `yaml:"package_name"`
	Company     string `yaml:"company"`
	HeaderTitle string `yaml:"header_title"`
	ManpageDate string `yaml:"manpage_date"`
	ManpageYear int    `yaml:"manpage_year"`
	StartYear   int    `yaml:"start_year"`

	// Output mode toggles.
	PrintASCII         bool `yaml:"print_ascii"`
	PrintMan           bool `yaml:"print_man"`
	PrintParams        bool `yaml:"print_params"`
	PrintGeneral       bool `yaml:"print_general"`
	UseHeaderCopyright bool `yaml:"use_header_copyright"`
	Quiet              bool `yaml:"quiet"`
}

// Load reads configuration from the specified file, after loading any
// .env file present. A missing config file is not an error when the
// path is the default; callers get defaults in that case.
func Load(configPath string) (*Options, error) {
	loadEnvFile()

	opts := defaults()

	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return opts, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), opts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	opts.applyDefaults()
	return opts, nil
}

// defaults returns an Options populated with built-in defaults.
func defaults() *Options {
	now := time.Now()
	return &Options{
		XMLDir:       "./xml",
		OutputDir:    ".",
		HeaderSrcDir: ".",
		HeaderFile:   "unknown.h",
		Section:      "3",
		PackageName:  "Package",
		Company:      "Unknown",
		HeaderTitle:  "Programmer's Manual",
		ManpageDate:  now.Format("2006-01-02"),
		ManpageYear:  now.Year(),
		StartYear:    2010,
		PrintMan:     true,
	}
}

// applyDefaults fills any field zeroed by an explicit empty value in the
// config file back to its built-in default.
func (o *Options) applyDefaults() {
	d := defaults()
	if o.XMLDir == "" {
		o.XMLDir = d.XMLDir
	}
	if o.OutputDir == "" {
		o.OutputDir = d.OutputDir
	}
	if o.HeaderSrcDir == "" {
		o.HeaderSrcDir = d.HeaderSrcDir
	}
	if o.HeaderFile == "" {
		o.HeaderFile = d.HeaderFile
	}
	if o.Section == "" {
		o.Section = d.Section
	}
	if o.PackageName == "" {
		o.PackageName = d.PackageName
	}
	if o.Company == "" {
		o.Company = d.Company
	}
	if o.HeaderTitle == "" {
		o.HeaderTitle = d.HeaderTitle
	}
	if o.ManpageDate == "" {
		o.ManpageDate = d.ManpageDate
	}
	if o.ManpageYear == 0 {
		o.ManpageYear = d.ManpageYear
	}
	if o.StartYear == 0 {
		o.StartYear = d.StartYear
	}
}

// Validate reports configuration that cannot produce a sensible run.
func (o *Options) Validate() error {
	if o.XMLDir == "" {
		return fmt.Errorf("xml_dir must not be empty")
	}
	if o.Section == "" {
		return fmt.Errorf("section must not be empty")
	}
	if !o.PrintASCII && !o.PrintMan {
		return fmt.Errorf("nothing to do: both print_ascii and print_man disabled")
	}
	return nil
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	example := Options{
		XMLDir:       "./xml",
		OutputDir:    "./man",
		HeaderSrcDir: "./include",
		HeaderPrefix: "qb/",
		Section:      "3",
		PackageName:  "libqb",
		Company:      "Example Inc",
		HeaderTitle:  "Programmer's Manual",
		StartYear:    2010,
		PrintMan:     true,
		PrintParams:  true,
	}
	data, err := yaml.Marshal(&example)
	if err != nil {
		return fmt.Errorf("failed to marshal example config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
