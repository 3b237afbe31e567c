package media

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
)

// DefaultChunkSize is the number of bytes requested from the resource per chunk.
const DefaultChunkSize = 8192

// Resource is an opened, seekable, read-only media resource.
type Resource interface {
	io.ReadSeekCloser
}

// StreamPlan describes a partial-content response for a validated range.
type StreamPlan struct {
	Range        ByteRange
	ResourceSize int64
	ContentType  string
}

// Plan builds the [StreamPlan] for r within a resource of the given size and content type.
func Plan(r ByteRange, size int64, contentType string) StreamPlan {
	return StreamPlan{Range: r, ResourceSize: size, ContentType: contentType}
}

// Status returns the HTTP status for a planned range response.
func (p StreamPlan) Status() int {
	return http.StatusPartialContent
}

// Apply writes the partial-content headers into h.
func (p StreamPlan) Apply(h http.Header) {
	if p.ContentType != "" {
		h.Set("Content-Type", p.ContentType)
	}
	h.Set("Content-Range", p.Range.ContentRange(p.ResourceSize))
	h.Set("Accept-Ranges", "bytes")
	h.Set("Content-Length", strconv.FormatInt(p.Range.Length(), 10))
}

// Headers returns a fresh header set for the plan.
func (p StreamPlan) Headers() http.Header {
	h := make(http.Header, 4)
	p.Apply(h)
	return h
}

// StreamOption configures [Open].
type StreamOption func(*ChunkStream)

// WithChunkSize overrides [DefaultChunkSize]. Non-positive sizes are ignored.
func WithChunkSize(n int) StreamOption {
	return func(s *ChunkStream) {
		if n > 0 {
			s.chunkSize = n
		}
	}
}

// ChunkStream yields the bytes of a [ByteRange] in bounded chunks.
//
// A ChunkStream is single-use: once Next reports false it stays exhausted. The stream closes
// its resource on exhaustion, on a short read and on Close, whichever comes first.
type ChunkStream struct {
	res       Resource
	chunkSize int
	remaining int64
	buf       []byte
	err       error
	done      bool
	closeOnce sync.Once
	closeErr  error
}

// Open seeks res to the start of r and returns a stream over the range. The returned stream
// owns res. If the seek fails, res is closed and the error is returned.
func Open(res Resource, r ByteRange, opts ...StreamOption) (*ChunkStream, error) {
	s := &ChunkStream{
		res:       res,
		chunkSize: DefaultChunkSize,
		remaining: r.Length(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if _, err := res.Seek(r.Start, io.SeekStart); err != nil {
		_ = res.Close()
		return nil, fmt.Errorf("seek to %d: %w", r.Start, err)
	}
	if s.remaining <= 0 {
		s.finish(nil)
	}
	return s, nil
}

// Next returns the next chunk. The slice is only valid until the following call to Next.
// It reports false when the range is exhausted, the resource ended early, or the stream was
// closed.
func (s *ChunkStream) Next() ([]byte, bool) {
	if s.done {
		return nil, false
	}
	want := int64(s.chunkSize)
	if s.remaining < want {
		want = s.remaining
	}
	if cap(s.buf) < int(want) {
		s.buf = make([]byte, s.chunkSize)
	}
	chunk := s.buf[:want]

	n, err := s.res.Read(chunk)
	if n == 0 {
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		s.finish(err)
		return nil, false
	}

	s.remaining -= int64(n)
	if s.remaining == 0 {
		s.finish(nil)
	}
	return chunk[:n], true
}

// Remaining returns the number of range bytes not yet produced.
func (s *ChunkStream) Remaining() int64 {
	return s.remaining
}

// Err reports why the stream ended short, or nil if it delivered the full range or is still
// in progress.
func (s *ChunkStream) Err() error {
	return s.err
}

// Close stops the stream and releases the resource. It is safe to call more than once.
func (s *ChunkStream) Close() error {
	s.done = true
	s.closeOnce.Do(func() {
		s.closeErr = s.res.Close()
	})
	return s.closeErr
}

// WriteTo drains the stream into w and closes it. A short stream is not an error; a write
// failure is.
func (s *ChunkStream) WriteTo(w io.Writer) (int64, error) {
	defer s.Close()

	var written int64
	for {
		chunk, ok := s.Next()
		if !ok {
			return written, nil
		}
		n, err := w.Write(chunk)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
}

func (s *ChunkStream) finish(err error) {
	if s.err == nil {
		s.err = err
	}
	s.Close()
}
