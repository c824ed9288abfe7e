package fileio

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/codemetric/vibe-coding-tracker/models"
)

const (
	// readBufferSize is the scanner buffer for JSONL files. Session lines
	// can be very large (full file contents embedded in tool results).
	readBufferSize = 128 * 1024
	maxLineSize    = 16 * 1024 * 1024
	// avgLineSize pre-sizes the record slice from the file size.
	avgLineSize = 200
)

// ReadRecords reads a session file into an ordered sequence of JSON objects.
// Files with a .jsonl suffix are read line by line; every non-empty line
// must be a JSON object. Anything else is parsed as a single JSON object.
func ReadRecords(path string) ([]map[string]any, error) {
	if strings.HasSuffix(path, ".jsonl") {
		return readJSONL(path)
	}
	return readJSON(path)
}

func readJSONL(path string) ([]map[string]any, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	capacity := 10
	if info, err := file.Stat(); err == nil && info.Size() > 0 {
		capacity = int(info.Size()/avgLineSize) + 1
	}
	records := make([]map[string]any, 0, capacity)

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, readBufferSize), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}

		var record map[string]any
		if err := sonic.Unmarshal(line, &record); err != nil {
			return nil, &models.ParseError{File: path, Line: lineNo, Err: err}
		}
		records = append(records, record)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s at line %d: %w", path, lineNo, err)
	}

	return records, nil
}

func readJSON(path string) ([]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	var record map[string]any
	if err := sonic.Unmarshal(data, &record); err != nil {
		return nil, &models.ParseError{File: path, Err: err}
	}

	return []map[string]any{record}, nil
}
