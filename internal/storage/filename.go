package storage

import (
	"path/filepath"
	"regexp"
	"strings"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SecureFilename reduces name to a flat, portable filename: path separators become spaces,
// whitespace runs become a single underscore, and anything outside [A-Za-z0-9_.-] is dropped.
// Leading and trailing dots and underscores are trimmed. The result may be empty.
func SecureFilename(name string) string {
	name = strings.NewReplacer("/", " ", "\\", " ").Replace(name)
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	return strings.Trim(name, "._")
}

// AllowedFile reports whether name has one of the allowed extensions (case-insensitive,
// without the leading dot).
func AllowedFile(name string, allowed map[string]struct{}) bool {
	ext := filepath.Ext(name)
	if len(ext) < 2 {
		return false
	}
	_, ok := allowed[strings.ToLower(ext[1:])]
	return ok
}

// ExtensionSet builds the lookup used by [AllowedFile], normalising case and leading dots.
func ExtensionSet(exts []string) map[string]struct{} {
	set := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			set[ext] = struct{}{}
		}
	}
	return set
}
