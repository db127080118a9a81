package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []DiffRecord {
	return []DiffRecord{
		{
			DestPath: "a.txt",
			Header:   "diff --git a/a.txt b/a.txt",
			Index:    "index 1111111..2222222 100644",
			Hunks: []Hunk{
				{Header: "@@ -1,2 +1,2 @@", Lines: []string{" keep", "-a", "+b"}},
			},
		},
		{
			DestPath: "dir/long.go",
			Header:   "diff --git a/dir/long.go b/dir/long.go",
			Index:    "index ..3333333 100644",
			Hunks: []Hunk{
				{Header: "@@ -0,0 +1,2 @@", Lines: []string{"+package dir", "+"}},
			},
		},
	}
}

func TestPrintRecordsPlain(t *testing.T) {
	var buf bytes.Buffer
	p := NewDiffPrinter(&buf, ColorNever, true)

	require.NoError(t, p.PrintRecords(sampleRecords()))

	want := "diff --git a/a.txt b/a.txt\n" +
		"index 1111111..2222222 100644\n" +
		"@@ -1,2 +1,2 @@\n" +
		" keep\n-a\n+b\n" +
		"diff --git a/dir/long.go b/dir/long.go\n" +
		"index ..3333333 100644\n" +
		"@@ -0,0 +1,2 @@\n" +
		"+package dir\n+\n"
	assert.Equal(t, want, buf.String())
}

func TestPrintRecordsEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewDiffPrinter(&buf, ColorNever, false).PrintRecords(nil))
	assert.Empty(t, buf.String())
}

func TestPrintRecordsColored(t *testing.T) {
	var buf bytes.Buffer
	p := NewDiffPrinter(&buf, ColorAlways, false)

	require.NoError(t, p.PrintRecords(sampleRecords()))

	out := buf.String()
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "diff --git a/a.txt b/a.txt")
	assert.Equal(t, 11, strings.Count(out, "\n"))
}

func TestPrintRecordsHighlighted(t *testing.T) {
	var buf bytes.Buffer
	p := NewDiffPrinter(&buf, ColorAlways, true)
	require.NotNil(t, p.highlighter)

	require.NoError(t, p.PrintRecords(sampleRecords()[1:]))
	assert.Contains(t, buf.String(), "package")
}

func TestPrintStat(t *testing.T) {
	var buf bytes.Buffer
	p := NewDiffPrinter(&buf, ColorNever, false)

	require.NoError(t, p.PrintStat(sampleRecords()))

	want := " a.txt       | +1 -1\n" +
		" dir/long.go | +2 -0\n" +
		"2 files changed, 3 insertions(+), 1 deletion(-)\n"
	assert.Equal(t, want, buf.String())
}

func TestFormatStatSummary(t *testing.T) {
	assert.Equal(t, "1 file changed, 1 insertion(+), 0 deletions(-)", formatStatSummary(1, 1, 0))
	assert.Equal(t, "0 files changed, 0 insertions(+), 0 deletions(-)", formatStatSummary(0, 0, 0))
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewDiffPrinter(&buf, ColorNever, false).PrintBanner("treediff main"))
	assert.Equal(t, "treediff main\n", buf.String())
}

func TestShouldColor(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, shouldColor(ColorAlways, &buf))
	assert.False(t, shouldColor(ColorNever, &buf))
	assert.False(t, shouldColor(ColorAuto, &buf))

	// a regular file is never a terminal
	f, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, shouldColor(ColorAuto, f))
}
