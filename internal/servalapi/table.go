// Package servalapi decodes the response shapes shared by all serval-dna
// RESTful endpoints: the "JSON table" format used by list endpoints
// ({"header": [...], "rows": [[...], ...]}), the streaming variant used by
// newsince endpoints, and single-object envelopes such as {"identity": {...}}.
package servalapi

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Table is the decoded form of a complete JSON-table response body.
type Table struct {
	Header []string            `json:"header"`
	Rows   [][]json.RawMessage `json:"rows"`
}

// DecodeTable parses a complete JSON-table document.
func DecodeTable(data []byte) (*Table, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("servalapi: empty table document")
	}
	var t Table
	if err := json.Unmarshal(trimmed, &t); err != nil {
		return nil, fmt.Errorf("servalapi: decode table: %w", err)
	}
	if t.Header == nil {
		return nil, fmt.Errorf("servalapi: table has no header")
	}
	return &t, nil
}

// RowObject zips a single row with the table header into a JSON object.
func RowObject(header []string, row []json.RawMessage) (json.RawMessage, error) {
	if len(row) != len(header) {
		return nil, fmt.Errorf("servalapi: row has %d columns, header has %d", len(row), len(header))
	}
	obj := make(map[string]json.RawMessage, len(header))
	for i, name := range header {
		obj[name] = row[i]
	}
	return json.Marshal(obj)
}

// UnmarshalRow decodes a single table row into T using the header for field
// names. Service columns such as ".author" are matched via json tags.
func UnmarshalRow[T any](header []string, row []json.RawMessage) (T, error) {
	var out T
	obj, err := RowObject(header, row)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(obj, &out); err != nil {
		return out, fmt.Errorf("servalapi: decode row: %w", err)
	}
	return out, nil
}

// UnmarshalTable decodes a complete JSON-table document into a slice of T.
func UnmarshalTable[T any](data []byte) ([]T, error) {
	t, err := DecodeTable(data)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(t.Rows))
	for i, row := range t.Rows {
		item, err := UnmarshalRow[T](t.Header, row)
		if err != nil {
			return nil, fmt.Errorf("servalapi: row %d: %w", i, err)
		}
		out = append(out, item)
	}
	return out, nil
}

// UnwrapObject decodes the object stored under key in a response envelope,
// e.g. the "identity" field of keyring responses.
func UnwrapObject(data []byte, key string, out any) error {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(bytes.TrimSpace(data), &envelope); err != nil {
		return fmt.Errorf("servalapi: decode envelope: %w", err)
	}
	payload, ok := envelope[key]
	if !ok {
		return fmt.Errorf("servalapi: envelope has no %q field", key)
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("servalapi: decode %q: %w", key, err)
	}
	return nil
}
