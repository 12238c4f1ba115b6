package moneymanager

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// This file contains the JSONL encoding of the logs. Each record is a single
// line, with a stable key order so that files remain human readable and diff
// friendly. Type specific logs omit the kind: it is implied by the file.

// EncodeRecord writes r as one line of a type specific log.
func EncodeRecord(w io.Writer, r Record) error {
	r.Kind = ""
	return encodeLine(w, r)
}

// EncodeStatement writes r as one line of the statement log.
func EncodeStatement(w io.Writer, r Record) error {
	if !r.Kind.Valid() {
		return fmt.Errorf("%w: statement record %q has kind %q", ErrUnknownKind, r.ID, r.Kind)
	}
	return encodeLine(w, r)
}

func encodeLine(w io.Writer, r Record) error {
	// the decoder rejects such dates, they would make the whole log unreadable.
	if err := r.Date.Validate(); err != nil {
		return fmt.Errorf("could not encode record %q: %w", r.ID, err)
	}
	line, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("could not encode record %q: %w", r.ID, err)
	}
	line = append(line, '\n')
	if _, err := w.Write(line); err != nil {
		return err
	}
	return nil
}

// DecodeRecords reads a JSONL log. If kind is not empty every record gets that
// kind, otherwise each line must carry its own. filename is for error messages only.
func DecodeRecords(filename string, r io.Reader, kind Kind) ([]Record, error) {
	var records []Record
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue // Skip empty lines
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("format error in %q on line %d: %w", filename, lineno, err)
		}
		if kind != "" {
			rec.Kind = kind
		}
		if !rec.Kind.Valid() {
			return nil, fmt.Errorf("format error in %q on line %d: %w %q", filename, lineno, ErrUnknownKind, rec.Kind)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %q: %w", filename, err)
	}
	return records, nil
}
