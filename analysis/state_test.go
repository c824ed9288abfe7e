package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountLines(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"single line no newline", "hello", 1},
		{"single line with newline", "hello\n", 1},
		{"two lines", "hello\nworld", 2},
		{"two lines trailing newline", "hello\nworld\n", 2},
		{"blank lines count", "a\n\nb", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, countLines(tt.text))
		})
	}
}

func TestParseISOTimestamp(t *testing.T) {
	assert.Equal(t, int64(1748772000000), parseISOTimestamp("2025-06-01T10:00:00Z"))
	assert.Equal(t, int64(1748772000500), parseISOTimestamp("2025-06-01T10:00:00.500Z"))
	assert.Equal(t, int64(0), parseISOTimestamp("not a timestamp"))
	assert.Equal(t, int64(0), parseISOTimestamp(""))
}

func TestStateTotalsMatchDetails(t *testing.T) {
	state := newAnalysisState()
	state.folderPath = "/work"

	state.addReadDetail("/work/a.go", "x\ny\nz", 1)
	state.addReadDetail("b.go", "one line", 2)
	state.addWriteDetail("/work/c.go", "package main\n", 3)
	state.addEditDetail("/work/a.go", "old", "new\ncontent", 4)

	record := state.intoRecord(nil)

	readLines := 0
	for _, d := range record.ReadFileDetails {
		readLines += d.LineCount
	}
	assert.Equal(t, record.TotalReadLines, readLines)

	writeLines := 0
	for _, d := range record.WriteFileDetails {
		writeLines += d.LineCount
	}
	assert.Equal(t, record.TotalWriteLines, writeLines)

	editLines := 0
	for _, d := range record.EditFileDetails {
		editLines += d.LineCount
	}
	assert.Equal(t, record.TotalEditLines, editLines)

	// a.go appears in both read and edit details, b.go resolves under cwd.
	assert.Equal(t, 3, record.TotalUniqueFiles)
}

func TestStateRelativePathNormalization(t *testing.T) {
	state := newAnalysisState()
	state.folderPath = "/work"

	state.addReadDetail("src/lib.rs", "content", 0)

	assert.Equal(t, "/work/src/lib.rs", state.readDetails[0].FilePath)
}

func TestStateEmptyReadSkipped(t *testing.T) {
	state := newAnalysisState()
	state.addReadDetail("/a.txt", "", 0)
	state.addReadDetail("/a.txt", "\n\n", 0)

	assert.Empty(t, state.readDetails)
	assert.Zero(t, state.totalReadLines)
}

func TestStateEditPromotedToWrite(t *testing.T) {
	state := newAnalysisState()

	state.addEditDetail("/a.txt", "", "fresh\ncontent", 9)

	assert.Empty(t, state.editDetails)
	assert.Len(t, state.writeDetails, 1)
	assert.Equal(t, 2, state.writeDetails[0].LineCount)
	assert.Equal(t, "fresh\ncontent", state.writeDetails[0].Content)
}

func TestStateEditToEmptyKept(t *testing.T) {
	state := newAnalysisState()

	state.addEditDetail("/a.txt", "going\naway", "", 9)

	assert.Len(t, state.editDetails, 1)
	assert.Equal(t, "going\naway", state.editDetails[0].OldString)
	assert.Equal(t, "", state.editDetails[0].NewString)
	assert.Equal(t, 0, state.editDetails[0].LineCount)
}

func TestStateRunCommand(t *testing.T) {
	state := newAnalysisState()
	state.folderPath = "/work"

	state.addRunCommand("  go test ./...  ", "run tests", 5)
	state.addRunCommand("   ", "", 6)

	assert.Len(t, state.runDetails, 1)
	assert.Equal(t, "go test ./...", state.runDetails[0].Command)
	assert.Equal(t, "run tests", state.runDetails[0].Description)
	assert.Equal(t, "/work", state.runDetails[0].FilePath)
	assert.Equal(t, 13, state.runDetails[0].CharacterCount)
}

func TestCharacterCountIsRunes(t *testing.T) {
	state := newAnalysisState()

	state.addWriteDetail("/a.txt", "héllo", 0)

	assert.Equal(t, 5, state.writeDetails[0].CharacterCount)
}
