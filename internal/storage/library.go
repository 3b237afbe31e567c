package storage

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/adityasissodiya/campuspodcastlite/internal/media"
	"github.com/adityasissodiya/campuspodcastlite/internal/models"
	"github.com/zeebo/blake3"
)

const tempPrefix = ".upload-"

var (
	ErrNotFound        = errors.New("audio file not found")
	ErrInvalidPath     = errors.New("path escapes storage root")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrEmptyFilename   = errors.New("empty filename")
	ErrTooLarge        = errors.New("upload exceeds size limit")
)

// Library is the upload directory.
type Library struct {
	root    string
	allowed map[string]struct{}
}

// NewLibrary creates root if needed and returns a Library rooted at its resolved absolute path.
// Uploads are restricted to the allowed extensions.
func NewLibrary(root string, allowed []string) (*Library, error) {
	if root == "" {
		return nil, fmt.Errorf("storage root is required")
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage root: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve storage root: %w", err)
	}
	return &Library{root: resolved, allowed: ExtensionSet(allowed)}, nil
}

// Root returns the resolved storage directory.
func (l *Library) Root() string {
	return l.root
}

// Allowed reports whether uploads named name would be accepted.
func (l *Library) Allowed(name string) bool {
	return AllowedFile(name, l.allowed)
}

// Resolve maps a request path to a regular file inside the root.
func (l *Library) Resolve(name string) (*models.AudioFile, error) {
	path, err := l.contain(name)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to stat %s: %w", name, err)
	}
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", name, err)
	}
	if !l.within(resolved) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPath, name)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return l.describe(name, resolved, info), nil
}

// Open resolves name and opens it read-only. The returned size reflects the opened handle.
func (l *Library) Open(name string) (*os.File, *models.AudioFile, error) {
	af, err := l.Resolve(name)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Open(af.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("failed to stat %s: %w", name, err)
	}
	af.Size = info.Size()
	af.ModTime = info.ModTime()
	return f, af, nil
}

// List returns the regular files at the top of the root, sorted by name.
func (l *Library) List() ([]models.AudioFile, error) {
	entries, err := os.ReadDir(l.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read storage root: %w", err)
	}

	files := make([]models.AudioFile, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() || strings.HasPrefix(entry.Name(), tempPrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, *l.describe(entry.Name(), filepath.Join(l.root, entry.Name()), info))
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})
	return files, nil
}

// Save stores the contents of r under the sanitised form of filename, replacing any existing
// file with that name. A positive limit caps the number of bytes accepted.
func (l *Library) Save(filename string, r io.Reader, limit int64) (*models.AudioFile, error) {
	name := SecureFilename(filename)
	if name == "" {
		return nil, ErrEmptyFilename
	}
	if !l.Allowed(name) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, filename)
	}

	tmp, err := os.CreateTemp(l.root, tempPrefix+"*")
	if err != nil {
		return nil, fmt.Errorf("failed to create upload file: %w", err)
	}
	defer os.Remove(tmp.Name())

	src := r
	if limit > 0 {
		src = io.LimitReader(r, limit+1)
	}
	hasher := blake3.New()
	n, err := io.Copy(io.MultiWriter(tmp, hasher), src)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("failed to write upload: %w", err)
	}
	if limit > 0 && n > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
	}

	dest := filepath.Join(l.root, name)
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return nil, fmt.Errorf("failed to set upload permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	info, err := os.Stat(dest)
	if err != nil {
		return nil, fmt.Errorf("failed to stat upload: %w", err)
	}
	af := l.describe(name, dest, info)
	af.Digest = hex.EncodeToString(hasher.Sum(nil))
	return af, nil
}

// ETag returns a strong validator for af derived from its name, size and modification time.
func ETag(af *models.AudioFile) string {
	key := af.Name + "\x00" + strconv.FormatInt(af.Size, 10) + "\x00" + strconv.FormatInt(af.ModTime.UnixNano(), 10)
	sum := blake3.Sum256([]byte(key))
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}

func (l *Library) contain(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty name", ErrNotFound)
	}
	if strings.ContainsRune(name, 0) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, name)
	}
	path := filepath.Join(l.root, filepath.FromSlash(name))
	if !l.within(path) {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, name)
	}
	return path, nil
}

func (l *Library) within(path string) bool {
	rel, err := filepath.Rel(l.root, path)
	if err != nil || rel == "." {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

func (l *Library) describe(name, path string, info fs.FileInfo) *models.AudioFile {
	return &models.AudioFile{
		Name:        filepath.ToSlash(name),
		Path:        path,
		Size:        info.Size(),
		ModTime:     info.ModTime(),
		ContentType: media.GuessContentType(name),
	}
}
