package moneymanager

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	summaryFilename     = "summary.json"
	statementFilename   = "statements.jsonl"
	resetMarkerFilename = "reset.pending" // holds the new account name while a reset is in progress
)

// logFilename returns the name of the JSONL file holding the log of kind k.
func logFilename(k Kind) string { return strings.ToLower(string(k)) + ".jsonl" }

// FileStore is a Store persisted in a directory.
//
// The summary is a single JSON document replaced atomically (written to a
// temporary file then renamed). Logs are append-only JSONL files, one per
// kind plus the statement log. FileStore is not a Committer: a crash between
// two writes leaves the logs ahead of the summary, which Reconcile repairs.
// A crash during a write can also leave a torn last line or a half done
// reset, Repair cleans them up before Reconcile reads the logs.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

var (
	_ Store    = (*FileStore)(nil)
	_ Repairer = (*FileStore)(nil)
)

// OpenFileStore opens the store in dir, creating the directory if needed.
func OpenFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: cannot create %q: %w", ErrStorageUnavailable, dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory of the store.
func (f *FileStore) Dir() string { return f.dir }

func (f *FileStore) path(name string) string { return filepath.Join(f.dir, name) }

func (f *FileStore) Summary(ctx context.Context) (Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := os.ReadFile(f.path(summaryFilename))
	if errors.Is(err, fs.ErrNotExist) {
		return Summary{}, ErrNotInitialized
	}
	if err != nil {
		return Summary{}, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	var s Summary
	if err := json.Unmarshal(data, &s); err != nil {
		return Summary{}, fmt.Errorf("%w: format error in %q: %w", ErrStorageUnavailable, summaryFilename, err)
	}
	return s, nil
}

func (f *FileStore) PutSummary(ctx context.Context, s Summary) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writeSummary(s)
}

// writeSummary replaces the summary file atomically.
func (f *FileStore) writeSummary(s Summary) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("could not encode summary: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(f.dir, ".summary-*.json")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	defer os.Remove(tmp.Name()) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	if err := os.Rename(tmp.Name(), f.path(summaryFilename)); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return nil
}

// appendLine appends an already encoded line to the named file.
func (f *FileStore) appendLine(name string, line []byte) error {
	file, err := os.OpenFile(f.path(name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: cannot open %q: %w", ErrStorageUnavailable, name, err)
	}
	if _, err := file.Write(line); err != nil {
		file.Close()
		return fmt.Errorf("%w: cannot write %q: %w", ErrStorageUnavailable, name, err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return fmt.Errorf("%w: cannot sync %q: %w", ErrStorageUnavailable, name, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("%w: cannot close %q: %w", ErrStorageUnavailable, name, err)
	}
	return nil
}

func (f *FileStore) Append(ctx context.Context, k Kind, r Record) error {
	if !k.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownKind, k)
	}
	var buf bytes.Buffer
	if err := EncodeRecord(&buf, r); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.appendLine(logFilename(k), buf.Bytes())
}

func (f *FileStore) AppendStatement(ctx context.Context, r Record) error {
	var buf bytes.Buffer
	if err := EncodeStatement(&buf, r); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.appendLine(statementFilename, buf.Bytes())
}

func (f *FileStore) Reset(ctx context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	// the marker lets Repair finish a reset interrupted half way.
	if err := f.writeFile(resetMarkerFilename, []byte(name)); err != nil {
		return err
	}
	return f.reset(name)
}

// reset removes the type logs, then the statement log, writes a zero summary
// and finally removes the reset marker.
func (f *FileStore) reset(name string) error {
	for _, file := range f.logFiles() {
		if err := os.Remove(f.path(file)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: cannot remove %q: %w", ErrStorageUnavailable, file, err)
		}
	}
	if err := f.writeSummary(NewSummary(name)); err != nil {
		return err
	}
	if err := os.Remove(f.path(resetMarkerFilename)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: cannot remove %q: %w", ErrStorageUnavailable, resetMarkerFilename, err)
	}
	return nil
}

// logFiles returns the type logs followed by the statement log.
func (f *FileStore) logFiles() []string {
	var files []string
	for _, k := range Kinds() {
		files = append(files, logFilename(k))
	}
	return append(files, statementFilename)
}

// writeFile creates or replaces the named file and syncs it.
func (f *FileStore) writeFile(name string, data []byte) error {
	file, err := os.Create(f.path(name))
	if err != nil {
		return fmt.Errorf("%w: cannot create %q: %w", ErrStorageUnavailable, name, err)
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		return fmt.Errorf("%w: cannot write %q: %w", ErrStorageUnavailable, name, err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return fmt.Errorf("%w: cannot sync %q: %w", ErrStorageUnavailable, name, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("%w: cannot close %q: %w", ErrStorageUnavailable, name, err)
	}
	return nil
}

// Repair completes a reset interrupted by a crash, then fixes the last line
// of each log: a line missing only its newline is completed, a torn line is
// truncated.
func (f *FileStore) Repair(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var repairs []string
	name, err := os.ReadFile(f.path(resetMarkerFilename))
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	default:
		if err := f.reset(string(name)); err != nil {
			return repairs, err
		}
		repairs = append(repairs, fmt.Sprintf("completed the interrupted reset of account %q", name))
	}

	for _, k := range append(Kinds(), "") {
		file := statementFilename
		if k != "" {
			file = logFilename(k)
		}
		repair, err := f.repairTail(file, k)
		if err != nil {
			return repairs, err
		}
		if repair != "" {
			repairs = append(repairs, repair)
		}
	}
	return repairs, nil
}

// repairTail fixes the last line of a log if it does not end with a newline.
func (f *FileStore) repairTail(name string, kind Kind) (string, error) {
	data, err := os.ReadFile(f.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	if len(data) == 0 || data[len(data)-1] == '\n' {
		return "", nil
	}
	start := bytes.LastIndexByte(data, '\n') + 1
	tail := data[start:]
	if _, err := DecodeRecords(name, bytes.NewReader(tail), kind); err == nil {
		if err := f.appendLine(name, []byte{'\n'}); err != nil {
			return "", err
		}
		return fmt.Sprintf("completed the last line of %q", name), nil
	}
	if err := os.Truncate(f.path(name), int64(start)); err != nil {
		return "", fmt.Errorf("%w: cannot truncate %q: %w", ErrStorageUnavailable, name, err)
	}
	return fmt.Sprintf("dropped a torn write of %d bytes at the end of %q", len(tail), name), nil
}

// readLog decodes a log file, a missing file is an empty log.
func (f *FileStore) readLog(name string, kind Kind) ([]Record, error) {
	file, err := os.Open(f.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	defer file.Close()
	records, err := DecodeRecords(name, file, kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}
	return records, nil
}

func (f *FileStore) Records(ctx context.Context, k Kind) ([]Record, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, k)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.readLog(logFilename(k), k)
}

func (f *FileStore) Statements(ctx context.Context) ([]Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.readLog(statementFilename, "")
}

// Close is a no-op, files are only open during a call.
func (f *FileStore) Close() error { return nil }
