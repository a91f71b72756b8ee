// Package header extracts the copyright line from a C header source
// file, with a synthesized fallback when none can be found.
package header

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"git.home.luguber.info/inful/doxyman/internal/logfields"
)

// maxScanLines bounds how far into the header we look for a copyright
// line. License blocks sit at the top of the file.
const maxScanLines = 50

// Line returns the copyright line found near the top of the header at
// path, or the synthesized fallback when the file is missing or carries
// no copyright.
func Line(path string, startYear, year int, company string) string {
	if line, ok := fromFile(path); ok {
		return line
	}
	return Fallback(startYear, year, company)
}

func fromFile(path string) (string, bool) {
	f, err := os.Open(path)
	if err != nil {
		slog.Debug("Header source not readable, synthesizing copyright",
			logfields.Path(path), logfields.Error(err))
		return "", false
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for n := 0; sc.Scan() && n < maxScanLines; n++ {
		line := sc.Text()
		if !strings.Contains(line, "Copyright") {
			continue
		}
		line = strings.TrimLeft(line, "/*# \t")
		line = strings.TrimSuffix(line, "*/")
		line = strings.TrimSpace(line)
		if line != "" {
			return line, true
		}
	}
	return "", false
}

// Fallback synthesizes a copyright line from the configured year range
// and company name.
func Fallback(startYear, year int, company string) string {
	if startYear >= year {
		return fmt.Sprintf("Copyright (C) %d %s. All rights reserved.", year, company)
	}
	return fmt.Sprintf("Copyright (C) %d-%d %s. All rights reserved.", startYear, year, company)
}
