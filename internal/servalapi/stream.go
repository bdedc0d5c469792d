package servalapi

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// TableReader decodes a JSON table incrementally, row by row. The daemon's
// newsince endpoints emit the document prologue and header immediately, then
// stream one row per line while holding the connection open, so the whole
// body can never be buffered up front.
type TableReader struct {
	br     *bufio.Reader
	header []string
	inRows bool
	done   bool
}

// NewTableReader wraps r, which must produce a JSON-table document.
func NewTableReader(r io.Reader) *TableReader {
	return &TableReader{br: bufio.NewReader(r)}
}

// Header returns the table header, reading from the stream until it has been
// seen.
func (t *TableReader) Header() ([]string, error) {
	if err := t.readPrologue(); err != nil {
		return nil, err
	}
	return t.header, nil
}

// readPrologue consumes lines until the rows array opens. It relies on the
// daemon's line framing: every JSON token of a streamed table is emitted on
// its own line, so no row ever shares the `"rows":[` line. Compact
// single-line documents are decoded whole by DecodeTable, never here.
func (t *TableReader) readPrologue() error {
	for !t.inRows {
		line, err := t.readLine()
		if err != nil {
			return fmt.Errorf("servalapi: read table prologue: %w", err)
		}
		if idx := bytes.Index(line, []byte(`"header":`)); idx >= 0 {
			raw := bytes.TrimSuffix(bytes.TrimSpace(line[idx+len(`"header":`):]), []byte(","))
			if err := json.Unmarshal(raw, &t.header); err != nil {
				return fmt.Errorf("servalapi: decode streamed header: %w", err)
			}
		}
		if bytes.Contains(line, []byte(`"rows":[`)) {
			if t.header == nil {
				return errors.New("servalapi: rows started before header")
			}
			t.inRows = true
		}
	}
	return nil
}

// Next returns the next row zipped with the header. It returns io.EOF when
// the table (or the underlying stream) ends.
func (t *TableReader) Next() ([]json.RawMessage, error) {
	if t.done {
		return nil, io.EOF
	}
	if err := t.readPrologue(); err != nil {
		return nil, err
	}
	for {
		line, err := t.readLine()
		if err != nil {
			// The daemon closes newsince streams abruptly; a cut stream
			// simply ends the table.
			t.done = true
			if errors.Is(err, io.ErrUnexpectedEOF) {
				return nil, io.EOF
			}
			return nil, err
		}
		trimmed := bytes.TrimSuffix(bytes.TrimSpace(line), []byte(","))
		if len(trimmed) == 0 {
			continue
		}
		if trimmed[0] == ']' {
			t.done = true
			return nil, io.EOF
		}
		var row []json.RawMessage
		if err := json.Unmarshal(trimmed, &row); err != nil {
			return nil, fmt.Errorf("servalapi: decode streamed row: %w", err)
		}
		if len(row) != len(t.header) {
			return nil, fmt.Errorf("servalapi: streamed row has %d columns, header has %d", len(row), len(t.header))
		}
		return row, nil
	}
}

// DrainTable reads every remaining row of a streamed table into typed
// values. Context cancellation is treated as the natural end of the stream,
// since the daemon holds newsince connections open indefinitely.
func DrainTable[T any](ctx context.Context, r io.Reader) ([]T, error) {
	tr := NewTableReader(r)
	header, err := tr.Header()
	if err != nil {
		return nil, err
	}
	var out []T
	for {
		row, err := tr.Next()
		if err != nil {
			if errors.Is(err, io.EOF) ||
				errors.Is(err, context.Canceled) ||
				errors.Is(err, context.DeadlineExceeded) ||
				ctx.Err() != nil {
				return out, nil
			}
			return nil, err
		}
		item, err := UnmarshalRow[T](header, row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
}

func (t *TableReader) readLine() ([]byte, error) {
	line, err := t.br.ReadBytes('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(bytes.TrimSpace(line)) > 0 {
			return line, nil
		}
		return nil, err
	}
	return line, nil
}
