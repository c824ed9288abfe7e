package fileio

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/codemetric/vibe-coding-tracker/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadRecordsJSONL(t *testing.T) {
	path := writeTemp(t, "s.jsonl", `{"type":"a","n":1}

{"type":"b","n":2}
`)

	records, err := ReadRecords(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "a", records[0]["type"])
	assert.Equal(t, "b", records[1]["type"])
}

func TestReadRecordsJSONLMalformedLineFailsFile(t *testing.T) {
	path := writeTemp(t, "s.jsonl", `{"ok":true}
{broken
`)

	_, err := ReadRecords(path)
	require.Error(t, err)

	var parseErr *models.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, 2, parseErr.Line)
}

func TestReadRecordsJSON(t *testing.T) {
	path := writeTemp(t, "s.json", `{"sessionId":"x","timeline":[]}`)

	records, err := ReadRecords(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "x", records[0]["sessionId"])
}

func TestReadRecordsJSONMalformed(t *testing.T) {
	path := writeTemp(t, "s.json", `[1,2,3`)

	_, err := ReadRecords(path)
	var parseErr *models.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Zero(t, parseErr.Line)
}

func TestReadRecordsMissingFile(t *testing.T) {
	_, err := ReadRecords(filepath.Join(t.TempDir(), "absent.jsonl"))
	assert.Error(t, err)
}

func TestReadRecordsEmptyJSONL(t *testing.T) {
	path := writeTemp(t, "empty.jsonl", "")

	records, err := ReadRecords(path)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestReadRecordsLongLine(t *testing.T) {
	content := make([]byte, 0, 300*1024)
	content = append(content, `{"big":"`...)
	for i := 0; i < 290*1024; i++ {
		content = append(content, 'x')
	}
	content = append(content, `"}`...)
	content = append(content, '\n')
	path := writeTemp(t, "big.jsonl", string(content))

	records, err := ReadRecords(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
}
