// Package models defines the domain entities shared by the storage, server and CLI layers.
//
//   - [AudioFile] : an uploaded file in the storage directory, with its size, modification time,
//     content type and (for fresh uploads) BLAKE3 content digest
//
// Entities are transient: they are built from the file system on every request and are never
// persisted anywhere else.
package models
