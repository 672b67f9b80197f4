package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"boxscore-fetcher/config"
)

// ErrInvalidJSON is returned by Write in json format for bodies that are not
// a single valid JSON document.
var ErrInvalidJSON = errors.New("response body is not valid JSON")

// file is the subset of *os.File the Writer needs.
type file interface {
	io.WriteSeeker
	io.Closer
	Truncate(size int64) error
}

// Writer appends one response record per line to the output file.
type Writer struct {
	f      file
	offset int64 // end of the last complete record
	format string
	lines  int
}

// NewWriter opens path for writing. The file is truncated unless appendMode
// is set. format is config.FormatJSON or config.FormatRaw.
func NewWriter(path, format string, appendMode bool) (*Writer, error) {
	switch format {
	case config.FormatJSON, config.FormatRaw:
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}

	flags := os.O_CREATE | os.O_WRONLY
	if appendMode {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open output file: %w", err)
	}
	return newWriter(f, format)
}

func newWriter(f file, format string) (*Writer, error) {
	offset, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to seek output file: %w", err)
	}
	return &Writer{f: f, offset: offset, format: format}, nil
}

// Write records body as a single line. JSON bodies are compacted so that
// pretty-printed responses still take exactly one line. Nothing is left in
// the file when an error is returned: a partially written line is cut off.
func (w *Writer) Write(body []byte) error {
	line, err := w.encode(body)
	if err != nil {
		return err
	}
	line = append(line, '\n')
	n, err := w.f.Write(line)
	if err == nil && n < len(line) {
		err = io.ErrShortWrite
	}
	if err != nil {
		if n > 0 {
			if rbErr := w.rollback(); rbErr != nil {
				err = errors.Join(err, rbErr)
			}
		}
		return fmt.Errorf("failed to write response record: %w", err)
	}
	w.offset += int64(n)
	w.lines++
	return nil
}

// rollback truncates the file to the end of the last complete record.
func (w *Writer) rollback() error {
	if err := w.f.Truncate(w.offset); err != nil {
		return fmt.Errorf("failed to remove partial record: %w", err)
	}
	if _, err := w.f.Seek(w.offset, io.SeekStart); err != nil {
		return fmt.Errorf("failed to remove partial record: %w", err)
	}
	return nil
}

func (w *Writer) encode(body []byte) ([]byte, error) {
	if w.format == config.FormatRaw {
		return bytes.TrimRight(body, "\r\n"), nil
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return compact.Bytes(), nil
}

// Lines reports how many records were written by this Writer.
func (w *Writer) Lines() int {
	return w.lines
}

// Close closes the file. Records are written unbuffered, so every line
// reported by Lines is already on disk.
func (w *Writer) Close() error {
	if err := w.f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}
