// Package media implements byte-range media serving for uploaded audio.
//
// # Range parsing
//
// [ParseRange] turns the raw value of a Range request header and the size of the resource into a
// [RangeOutcome]. Only a single range specifier is supported, in one of three forms:
//
//	bytes=N-M   explicit inclusive window
//	bytes=N-    from N to the end of the resource
//	bytes=-K    the last K bytes of the resource
//
// Malformed headers, multi-range lists and windows outside the resource all resolve to an
// Unsatisfiable outcome. Nothing in this package returns an error for a bad header.
//
// # Streaming
//
// [Plan] derives the 206 response metadata from a validated [ByteRange], and [Open] produces a
// [ChunkStream] that reads exactly that window from a seekable resource in fixed-size chunks.
// The stream owns the resource: it is closed when the stream is exhausted, ends short, or is
// closed early by the caller.
//
// [GuessContentType] maps a filename extension to a MIME type from a static table.
package media
