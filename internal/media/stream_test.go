package media

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"testing"

	th "github.com/adityasissodiya/campuspodcastlite/internal/testing"
)

func drain(t *testing.T, s *ChunkStream) ([]byte, []int) {
	t.Helper()
	var out []byte
	var sizes []int
	for {
		chunk, ok := s.Next()
		if !ok {
			return out, sizes
		}
		sizes = append(sizes, len(chunk))
		out = append(out, chunk...)
	}
}

func TestPlan(t *testing.T) {
	t.Run("headers", func(t *testing.T) {
		p := Plan(ByteRange{Start: 2, End: 5}, 10, "audio/mpeg")
		if p.Status() != http.StatusPartialContent {
			t.Errorf("Status() = %d, want 206", p.Status())
		}

		h := p.Headers()
		want := map[string]string{
			"Content-Range":  "bytes 2-5/10",
			"Content-Length": "4",
			"Accept-Ranges":  "bytes",
			"Content-Type":   "audio/mpeg",
		}
		for k, v := range want {
			if got := h.Get(k); got != v {
				t.Errorf("%s = %q, want %q", k, got, v)
			}
		}
	})

	t.Run("empty content type is not set", func(t *testing.T) {
		h := Plan(ByteRange{Start: 0, End: 0}, 1, "").Headers()
		if _, ok := h["Content-Type"]; ok {
			t.Errorf("expected no Content-Type, got %q", h.Get("Content-Type"))
		}
	})
}

func TestOpen(t *testing.T) {
	data := []byte("0123456789")

	t.Run("scenario", func(t *testing.T) {
		res := th.NewResource(data)
		s, err := Open(res, ByteRange{Start: 2, End: 5})
		if err != nil {
			t.Fatalf("Open: %v", err)
		}

		got, _ := drain(t, s)
		if string(got) != "2345" {
			t.Errorf("stream = %q, want %q", got, "2345")
		}
		if s.Err() != nil {
			t.Errorf("Err() = %v, want nil", s.Err())
		}
		if res.Closed != 1 {
			t.Errorf("resource closed %d times, want 1", res.Closed)
		}
	})

	t.Run("round trip matches slice", func(t *testing.T) {
		big := make([]byte, 3*DefaultChunkSize+123)
		for i := range big {
			big[i] = byte(i * 7)
		}
		ranges := []ByteRange{
			{0, 0},
			{0, int64(len(big)) - 1},
			{1, DefaultChunkSize},
			{DefaultChunkSize - 1, 2 * DefaultChunkSize},
			{int64(len(big)) - 5, int64(len(big)) - 1},
		}
		for _, r := range ranges {
			s, err := Open(th.NewResource(big), r)
			if err != nil {
				t.Fatalf("Open(%+v): %v", r, err)
			}
			got, sizes := drain(t, s)
			if !bytes.Equal(got, big[r.Start:r.End+1]) {
				t.Errorf("range %+v: stream does not match slice", r)
			}
			for _, n := range sizes {
				if n > DefaultChunkSize {
					t.Errorf("range %+v: chunk of %d bytes exceeds chunk size", r, n)
				}
			}
		}
	})

	t.Run("reads never overshoot", func(t *testing.T) {
		res := th.NewResource(data)
		s, err := Open(res, ByteRange{Start: 1, End: 7}, WithChunkSize(3))
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		got, sizes := drain(t, s)
		if string(got) != "1234567" {
			t.Errorf("stream = %q, want %q", got, "1234567")
		}
		wantReads := []int{3, 3, 1}
		if len(res.Reads) != len(wantReads) {
			t.Fatalf("reads = %v, want %v", res.Reads, wantReads)
		}
		for i := range wantReads {
			if res.Reads[i] != wantReads[i] || sizes[i] != wantReads[i] {
				t.Errorf("read %d requested %d got %d, want %d", i, res.Reads[i], sizes[i], wantReads[i])
			}
		}
	})

	t.Run("short stream ends silently", func(t *testing.T) {
		res := th.NewResource(data)
		s, err := Open(res, ByteRange{Start: 6, End: 20})
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		got, _ := drain(t, s)
		if string(got) != "6789" {
			t.Errorf("stream = %q, want %q", got, "6789")
		}
		if !errors.Is(s.Err(), io.ErrUnexpectedEOF) {
			t.Errorf("Err() = %v, want ErrUnexpectedEOF", s.Err())
		}
		if s.Remaining() != 11 {
			t.Errorf("Remaining() = %d, want 11", s.Remaining())
		}
		if res.Closed != 1 {
			t.Errorf("resource closed %d times, want 1", res.Closed)
		}
	})

	t.Run("read error ends stream", func(t *testing.T) {
		boom := errors.New("disk gone")
		res := &th.FReader{N: 5, Err: boom}
		s, err := Open(res, ByteRange{Start: 0, End: 99}, WithChunkSize(2))
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		got, _ := drain(t, s)
		if len(got) != 5 {
			t.Errorf("got %d bytes, want 5", len(got))
		}
		if !errors.Is(s.Err(), boom) {
			t.Errorf("Err() = %v, want %v", s.Err(), boom)
		}
		if res.Closed != 1 {
			t.Errorf("resource closed %d times, want 1", res.Closed)
		}
	})

	t.Run("non restartable", func(t *testing.T) {
		s, err := Open(th.NewResource(data), ByteRange{Start: 0, End: 1})
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		drain(t, s)
		if chunk, ok := s.Next(); ok || chunk != nil {
			t.Errorf("Next() after exhaustion = %q, %v", chunk, ok)
		}
	})

	t.Run("early close releases resource", func(t *testing.T) {
		res := th.NewResource(data)
		s, err := Open(res, ByteRange{Start: 0, End: 9}, WithChunkSize(2))
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		if _, ok := s.Next(); !ok {
			t.Fatal("expected first chunk")
		}
		if err := s.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
		if err := s.Close(); err != nil {
			t.Fatalf("second Close: %v", err)
		}
		if res.Closed != 1 {
			t.Errorf("resource closed %d times, want 1", res.Closed)
		}
		if _, ok := s.Next(); ok {
			t.Error("Next() after Close should report false")
		}
	})

	t.Run("seek failure closes resource", func(t *testing.T) {
		res := &th.FSeeker{}
		if _, err := Open(res, ByteRange{Start: 3, End: 4}); err == nil {
			t.Fatal("expected seek error")
		}
		if res.Closed != 1 {
			t.Errorf("resource closed %d times, want 1", res.Closed)
		}
	})

	t.Run("invalid chunk size ignored", func(t *testing.T) {
		res := th.NewResource(data)
		s, err := Open(res, ByteRange{Start: 0, End: 9}, WithChunkSize(0))
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		drain(t, s)
		if len(res.Reads) != 1 || res.Reads[0] != 10 {
			t.Errorf("reads = %v, want [10]", res.Reads)
		}
	})
}

func TestChunkStreamWriteTo(t *testing.T) {
	t.Run("copies range", func(t *testing.T) {
		res := th.NewResource([]byte("0123456789"))
		s, err := Open(res, ByteRange{Start: 4, End: 8}, WithChunkSize(2))
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		var buf bytes.Buffer
		n, err := s.WriteTo(&buf)
		if err != nil {
			t.Fatalf("WriteTo: %v", err)
		}
		if n != 5 || buf.String() != "45678" {
			t.Errorf("WriteTo wrote %d bytes %q", n, buf.String())
		}
		if res.Closed != 1 {
			t.Errorf("resource closed %d times, want 1", res.Closed)
		}
	})

	t.Run("write failure closes resource", func(t *testing.T) {
		res := th.NewResource([]byte("0123456789"))
		s, err := Open(res, ByteRange{Start: 0, End: 9}, WithChunkSize(2))
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		if _, err := s.WriteTo(&th.FWriter{}); err == nil {
			t.Fatal("expected write error")
		}
		if res.Closed != 1 {
			t.Errorf("resource closed %d times, want 1", res.Closed)
		}
	})
}
