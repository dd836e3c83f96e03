package domain

import (
	"encoding/json"
	"strings"
)

// FileType classifies an attachment by the kind of content it carries.
type FileType string

// Possible file types
const (
	FileTypeImage   FileType = "IMAGE"
	FileTypePDF     FileType = "PDF"
	FileTypeAudio   FileType = "AUDIO"
	FileTypeUnknown FileType = "UNKNOWN"
)

// ParseFileType maps a manifest value to a FileType. Matching is
// case-insensitive; anything unrecognised is FileTypeUnknown.
func ParseFileType(s string) FileType {
	switch FileType(strings.ToUpper(strings.TrimSpace(s))) {
	case FileTypeImage:
		return FileTypeImage
	case FileTypePDF:
		return FileTypePDF
	case FileTypeAudio:
		return FileTypeAudio
	default:
		return FileTypeUnknown
	}
}

// UnmarshalJSON decodes a file type leniently so that manifests written by
// hand never fail to load because of the letter case of a type.
func (t *FileType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = ParseFileType(s)
	return nil
}

// ClassifyMediaType derives the FileType from a declared MIME type.
// Parameters such as "; charset=utf-8" are ignored.
func ClassifyMediaType(mediaType string) FileType {
	mt := strings.ToLower(strings.TrimSpace(mediaType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}

	switch {
	case strings.HasPrefix(mt, "image/"):
		return FileTypeImage
	case mt == "application/pdf":
		return FileTypePDF
	case strings.HasPrefix(mt, "audio/"):
		return FileTypeAudio
	default:
		return FileTypeUnknown
	}
}

// FileAttachment is a downloadable item attached to a disease.
// Type is fixed at creation and never re-derived. DataURL is either a
// path on the content origin or a transient "blob:" reference owned by
// the catalog store.
type FileAttachment struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Type        FileType `json:"type"`
	DataURL     string   `json:"dataUrl"`
}
