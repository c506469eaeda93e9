package atlas

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Sort orders records by (project_type, name) ascending. This is the
// canonical atlas order: it makes output independent of how a batch was
// scheduled and keeps diffs stable between runs.
func Sort(records []LocationRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].ProjectType != records[j].ProjectType {
			return records[i].ProjectType < records[j].ProjectType
		}
		return records[i].Name < records[j].Name
	})
}

// ReadFile loads an atlas from a JSON array file.
func ReadFile(path string) ([]LocationRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read atlas: %w", err)
	}
	var records []LocationRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse atlas %s: %w", path, err)
	}
	return records, nil
}

// Marshal renders records as an indented pure JSON array with a trailing
// newline. No wrapper object — the frontend consumes the array directly.
func Marshal(records []LocationRecord) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("encode atlas: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile writes records to path in the canonical interchange format.
func WriteFile(path string, records []LocationRecord) error {
	data, err := Marshal(records)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write atlas: %w", err)
	}
	return nil
}
