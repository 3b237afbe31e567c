// package formatter renders library listings as CSV, Markdown, JSON or styled plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/adityasissodiya/campuspodcastlite/internal/models"
	"github.com/adityasissodiya/campuspodcastlite/internal/shared"
)

// Format names an output format for [Write].
type Format string

const (
	FormatText     Format = "text"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// Formats lists the accepted format names.
var Formats = []Format{FormatText, FormatCSV, FormatMarkdown, FormatJSON}

// ParseFormat resolves a user-supplied format name. "md" is accepted for markdown.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText:
		return FormatText, nil
	case "md":
		return FormatMarkdown, nil
	case FormatCSV, FormatMarkdown, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, s)
	}
}

// Listing is a snapshot of the storage directory.
type Listing struct {
	Root  string             `json:"root"`
	Files []models.AudioFile `json:"files"`
}

// TotalSize sums the sizes of all files in the listing.
func (l Listing) TotalSize() int64 {
	var total int64
	for _, f := range l.Files {
		total += f.Size
	}
	return total
}

// ExportToCSV converts a Listing to CSV with columns: Name, Size, ContentType, Modified, Digest
func ExportToCSV(listing Listing) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Name", "Size", "ContentType", "Modified", "Digest"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, f := range listing.Files {
		record := []string{
			f.Name,
			strconv.FormatInt(f.Size, 10),
			f.ContentType,
			f.ModTime.UTC().Format(time.RFC3339),
			f.Digest,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a Listing to a Markdown table
func ExportToMarkdown(listing Listing) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Audio library\n\n")
	buf.WriteString(fmt.Sprintf("**Root**: `%s`\n", listing.Root))
	buf.WriteString(fmt.Sprintf("**Files**: %d (%s)\n\n", len(listing.Files), models.FormatBytes(listing.TotalSize())))

	if len(listing.Files) == 0 {
		buf.WriteString("_No audio uploaded yet._\n")
		return buf.Bytes(), nil
	}

	buf.WriteString("| Name | Size | Type | Modified |\n")
	buf.WriteString("| --- | --- | --- | --- |\n")
	for _, f := range listing.Files {
		buf.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
			escapeCell(f.Name), f.HumanSize(), f.ContentType, f.ModTime.UTC().Format(time.DateTime)))
	}

	return buf.Bytes(), nil
}

// ExportToText converts a Listing to aligned plain text, styled with p when it is non-nil
func ExportToText(listing Listing, p *Palette) ([]byte, error) {
	var buf bytes.Buffer

	title := fmt.Sprintf("Library: %s", listing.Root)
	summary := fmt.Sprintf("%d files, %s", len(listing.Files), models.FormatBytes(listing.TotalSize()))
	if p != nil {
		title = p.Title(title)
		summary = p.Help(summary)
	}
	buf.WriteString(title + "\n")

	if len(listing.Files) == 0 {
		empty := "No audio uploaded yet"
		if p != nil {
			empty = p.Warn(empty)
		}
		buf.WriteString(empty + "\n")
		return buf.Bytes(), nil
	}

	width := 0
	for _, f := range listing.Files {
		width = max(width, len(f.Name))
	}
	for i, f := range listing.Files {
		name := fmt.Sprintf("%-*s", width, f.Name)
		if p != nil {
			name = p.OK(name)
		}
		buf.WriteString(fmt.Sprintf("%3d. %s  %10s  %s\n", i+1, name, f.HumanSize(), f.ContentType))
	}
	buf.WriteString(summary + "\n")

	return buf.Bytes(), nil
}

// ToJSON renders the Listing as indented JSON
func ToJSON(listing Listing) ([]byte, error) {
	if listing.Files == nil {
		listing.Files = []models.AudioFile{}
	}
	data, err := json.MarshalIndent(listing, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal listing: %w", err)
	}
	return append(data, '\n'), nil
}

// Write renders listing in format f to w. The palette only applies to [FormatText].
func Write(w io.Writer, f Format, listing Listing, p *Palette) error {
	var (
		data []byte
		err  error
	)
	switch f {
	case FormatText:
		data, err = ExportToText(listing, p)
	case FormatCSV:
		data, err = ExportToCSV(listing)
	case FormatMarkdown:
		data, err = ExportToMarkdown(listing)
	case FormatJSON:
		data, err = ToJSON(listing)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, f)
	}
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write %s output: %w", f, err)
	}
	return nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
