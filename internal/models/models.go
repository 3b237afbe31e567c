// package models defines the data model for the podcast library
package models

import (
	"fmt"
	"time"
)

// AudioFile describes a stored upload.
type AudioFile struct {
	Name        string    `json:"name"`             // Name is the path relative to the storage root
	Path        string    `json:"-"`                // Path is the absolute path on disk, never exposed
	Size        int64     `json:"size"`             // Size in bytes
	ModTime     time.Time `json:"modified"`         // ModTime is the last modification time
	ContentType string    `json:"content_type"`     // ContentType is derived from the extension
	Digest      string    `json:"digest,omitempty"` // Digest is the hex BLAKE3 sum, set on upload
}

// HumanSize formats Size with binary units.
func (a AudioFile) HumanSize() string {
	return FormatBytes(a.Size)
}

// FormatBytes renders n with binary units, e.g. "1.5 KiB".
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
