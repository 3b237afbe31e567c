// Package storage manages the single trusted directory that holds uploaded audio.
//
// A [Library] is constructed with an explicit root path; every lookup resolves names relative to
// that root and rejects anything that escapes it, including through symbolic links. Handles
// returned by [Library.Open] are independent read-only file descriptors, so concurrent requests
// for the same file never share state.
//
// Uploads are written to a temporary file inside the root and renamed into place once the body
// has been fully received, so a partially received upload is never listed or served.
package storage
