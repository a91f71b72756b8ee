package header

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeHeader(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "qb.h")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLine_ExtractsFromCommentBlock(t *testing.T) {
	path := writeHeader(t, `/*
 * Copyright (c) 2010 Red Hat, Inc.
 *
 * This file is part of libqb.
 */
#ifndef QB_H_DEFINED
`)
	got := Line(path, 2010, 2026, "Unknown")
	require.Equal(t, "Copyright (c) 2010 Red Hat, Inc.", got)
}

func TestLine_MissingFile_SynthesizesFallback(t *testing.T) {
	got := Line(filepath.Join(t.TempDir(), "nope.h"), 2010, 2026, "Acme")
	require.Equal(t, "Copyright (C) 2010-2026 Acme. All rights reserved.", got)
}

func TestLine_NoCopyrightInHeader_SynthesizesFallback(t *testing.T) {
	path := writeHeader(t, "#ifndef QB_H_DEFINED\n#define QB_H_DEFINED\n")
	got := Line(path, 2010, 2026, "Acme")
	require.Equal(t, "Copyright (C) 2010-2026 Acme. All rights reserved.", got)
}

func TestLine_CopyrightBeyondScanWindow_Ignored(t *testing.T) {
	content := strings.Repeat("/* padding */\n", maxScanLines) +
		"/* Copyright (c) 2010 Too Late, Inc. */\n"
	path := writeHeader(t, content)
	got := Line(path, 2010, 2026, "Acme")
	require.Equal(t, "Copyright (C) 2010-2026 Acme. All rights reserved.", got)
}

func TestFallback_SingleYearWhenRangeCollapses(t *testing.T) {
	require.Equal(t, "Copyright (C) 2026 Acme. All rights reserved.", Fallback(2026, 2026, "Acme"))
	require.Equal(t, "Copyright (C) 2026 Acme. All rights reserved.", Fallback(2030, 2026, "Acme"))
}
