package reporter

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	defaultMaxBytes     = 10 << 20
	defaultBufferSize   = 64 << 10
	defaultMaxRotations = 5
)

// WriterOption configures the writer behaviour.
type WriterOption func(*Writer)

// WithMaxBytes overrides the rotation threshold. Values <= 0 disable rotation.
func WithMaxBytes(limit int64) WriterOption {
	return func(w *Writer) {
		w.maxBytes = limit
	}
}

// WithBufferSize overrides the buffered writer size.
func WithBufferSize(size int) WriterOption {
	return func(w *Writer) {
		if size > 0 {
			w.bufSize = size
		}
	}
}

// WithMaxRotations sets how many rotated files are retained.
func WithMaxRotations(count int) WriterOption {
	return func(w *Writer) {
		if count < 1 {
			count = 1
		}
		w.maxFiles = count
	}
}

// Writer appends records to a JSON Lines file, rotating it by size.
type Writer struct {
	mu       sync.Mutex
	path     string
	maxBytes int64
	bufSize  int
	maxFiles int
	file     *os.File
	buf      *bufio.Writer
	written  int64
}

// NewWriter constructs a writer targeting path. The file is opened on the
// first write.
func NewWriter(path string, opts ...WriterOption) *Writer {
	w := &Writer{path: path, maxBytes: defaultMaxBytes, bufSize: defaultBufferSize, maxFiles: defaultMaxRotations}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Path returns the file path used by the writer.
func (w *Writer) Path() string {
	return w.path
}

// Write validates and appends records, flushing once at the end.
func (w *Writer) Write(records ...Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.ensureWriter(); err != nil {
		return err
	}
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("invalid record: %w", err)
		}
		payload, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("encode record: %w", err)
		}
		payload = append(payload, '\n')

		if err := w.rotateIfNeeded(int64(len(payload))); err != nil {
			return err
		}
		if _, err := w.buf.Write(payload); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
		w.written += int64(len(payload))
	}
	if err := w.buf.Flush(); err != nil {
		return fmt.Errorf("flush records: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file handle.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	var firstErr error
	if w.buf != nil {
		if err := w.buf.Flush(); err != nil && !errors.Is(err, os.ErrClosed) {
			firstErr = err
		}
	}
	if w.file != nil {
		if err := w.file.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	w.buf = nil
	w.file = nil
	w.written = 0
	return firstErr
}

func (w *Writer) ensureWriter() error {
	if w.buf != nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return fmt.Errorf("create results directory: %w", err)
	}
	file, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open results file: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return fmt.Errorf("stat results file: %w", err)
	}
	w.file = file
	w.buf = bufio.NewWriterSize(file, w.bufSize)
	w.written = info.Size()
	return nil
}

// rotateIfNeeded shifts path.N to path.N+1, keeping at most maxFiles old
// files, and reopens path empty.
func (w *Writer) rotateIfNeeded(next int64) error {
	if w.maxBytes <= 0 || w.written == 0 || w.written+next <= w.maxBytes {
		return nil
	}

	if err := w.buf.Flush(); err != nil {
		return fmt.Errorf("flush during rotation: %w", err)
	}
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("close during rotation: %w", err)
	}

	_ = os.Remove(fmt.Sprintf("%s.%d", w.path, w.maxFiles))
	for i := w.maxFiles - 1; i >= 1; i-- {
		src := fmt.Sprintf("%s.%d", w.path, i)
		if _, err := os.Stat(src); err != nil {
			continue
		}
		if err := os.Rename(src, fmt.Sprintf("%s.%d", w.path, i+1)); err != nil {
			return fmt.Errorf("rotate results file: %w", err)
		}
	}
	if err := os.Rename(w.path, w.path+".1"); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("rotate results file: %w", err)
	}

	w.buf = nil
	w.file = nil
	w.written = 0
	return w.ensureWriter()
}
