// package testing contains shared testing utilities
package testing

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// Resource is an in-memory seekable resource that records reads and closes.
type Resource struct {
	*bytes.Reader
	Reads  []int // requested buffer sizes, in call order
	Closed int
}

// NewResource wraps data as a [Resource].
func NewResource(data []byte) *Resource {
	return &Resource{Reader: bytes.NewReader(data)}
}

func (r *Resource) Read(p []byte) (int, error) {
	r.Reads = append(r.Reads, len(p))
	return r.Reader.Read(p)
}

func (r *Resource) Close() error {
	r.Closed++
	return nil
}

// FSeeker fails every Seek and records Close.
type FSeeker struct {
	Closed int
}

func (f *FSeeker) Read(p []byte) (int, error) { return 0, errors.New("read failed") }

func (f *FSeeker) Seek(offset int64, whence int) (int64, error) {
	return 0, errors.New("seek failed")
}

func (f *FSeeker) Close() error {
	f.Closed++
	return nil
}

// FReader returns n bytes of 'x' and then fails with err.
type FReader struct {
	N      int
	Err    error
	Closed int
	served int
}

func (f *FReader) Read(p []byte) (int, error) {
	if f.served >= f.N {
		return 0, f.Err
	}
	n := min(len(p), f.N-f.served)
	for i := range n {
		p[i] = 'x'
	}
	f.served += n
	return n, nil
}

func (f *FReader) Seek(offset int64, whence int) (int64, error) { return offset, nil }

func (f *FReader) Close() error {
	f.Closed++
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

// MustWriteFile writes data to name inside dir and returns the full path.
func MustWriteFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
	return path
}
