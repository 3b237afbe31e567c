package media

import (
	"net/http"
	"strconv"
	"strings"
)

const rangePrefix = "bytes="

// OutcomeKind tags a [RangeOutcome].
type OutcomeKind int

const (
	NoRangeRequested OutcomeKind = iota // NoRangeRequested means the request carried no Range header
	Satisfiable                         // Satisfiable means Range holds a validated window
	Unsatisfiable                       // Unsatisfiable covers malformed, multi-range and out-of-bounds headers
)

func (k OutcomeKind) String() string {
	switch k {
	case NoRangeRequested:
		return "no-range"
	case Satisfiable:
		return "satisfiable"
	case Unsatisfiable:
		return "unsatisfiable"
	default:
		return "unknown"
	}
}

// ByteRange is an inclusive window [Start, End] of a resource's bytes.
//
// Values produced by [ParseRange] satisfy 0 <= Start <= End < size.
type ByteRange struct {
	Start int64
	End   int64
}

// Length returns the number of bytes covered by the range.
func (r ByteRange) Length() int64 {
	return r.End - r.Start + 1
}

// ContentRange formats the Content-Range header value for a resource of the given size.
func (r ByteRange) ContentRange(size int64) string {
	return "bytes " + strconv.FormatInt(r.Start, 10) + "-" + strconv.FormatInt(r.End, 10) + "/" + strconv.FormatInt(size, 10)
}

// RangeOutcome is the result of parsing a Range header. Range is only meaningful when Kind is
// [Satisfiable].
type RangeOutcome struct {
	Kind  OutcomeKind
	Range ByteRange
}

func (o RangeOutcome) String() string {
	if o.Kind == Satisfiable {
		return o.Kind.String() + " " + strconv.FormatInt(o.Range.Start, 10) + "-" + strconv.FormatInt(o.Range.End, 10)
	}
	return o.Kind.String()
}

var unsatisfiable = RangeOutcome{Kind: Unsatisfiable}

// ParseRangeHeader reads the Range header from h and parses it against size.
//
// An absent header yields [NoRangeRequested]; a header that is present but empty is
// [Unsatisfiable].
func ParseRangeHeader(h http.Header, size int64) RangeOutcome {
	values := h.Values("Range")
	if len(values) == 0 {
		return ParseRange(nil, size)
	}
	return ParseRange(&values[0], size)
}

// ParseRange parses a single-range header value against a resource of the given size.
// A nil header means the header was absent.
func ParseRange(header *string, size int64) RangeOutcome {
	if header == nil {
		return RangeOutcome{Kind: NoRangeRequested}
	}
	if size < 0 || !strings.HasPrefix(*header, rangePrefix) {
		return unsatisfiable
	}

	parts := strings.Split(strings.TrimPrefix(*header, rangePrefix), "-")
	if len(parts) != 2 {
		return unsatisfiable
	}
	startStr, endStr := parts[0], parts[1]

	var start, end int64
	switch {
	case startStr != "" && endStr != "":
		var ok bool
		if start, ok = parseOffset(startStr); !ok {
			return unsatisfiable
		}
		if end, ok = parseOffset(endStr); !ok {
			return unsatisfiable
		}
	case startStr != "":
		var ok bool
		if start, ok = parseOffset(startStr); !ok {
			return unsatisfiable
		}
		end = size - 1
	case endStr != "":
		suffix, ok := parseOffset(endStr)
		if !ok || suffix == 0 {
			return unsatisfiable
		}
		start = max(size-suffix, 0)
		end = size - 1
	default:
		return unsatisfiable
	}

	if start < 0 || start >= size || end < start || end >= size {
		return unsatisfiable
	}
	return RangeOutcome{Kind: Satisfiable, Range: ByteRange{Start: start, End: end}}
}

// parseOffset accepts only plain decimal digits; signs, whitespace and overflow are rejected.
func parseOffset(s string) (int64, bool) {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
