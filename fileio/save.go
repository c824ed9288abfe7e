package fileio

import (
	"fmt"
	"os"

	"github.com/bytedance/sonic"
)

// MarshalPretty serializes v as two-space indented JSON.
func MarshalPretty(v any) ([]byte, error) {
	data, err := sonic.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize JSON: %w", err)
	}
	return data, nil
}

// SaveJSONPretty writes v to path as two-space indented JSON.
func SaveJSONPretty(path string, v any) error {
	data, err := MarshalPretty(v)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", path, err)
	}
	return nil
}
