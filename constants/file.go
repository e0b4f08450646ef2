package constants

import "strings"

// FileFormat is the coarse document type the extractor dispatches on.
type FileFormat string

const (
	PDF     FileFormat = "PDF"
	IMAGE   FileFormat = "IMAGE"
	UNKNOWN FileFormat = "UNKNOWN"
)

// AllowedExtensions holds the file extensions accepted for invoice uploads.
var AllowedExtensions = map[string]FileFormat{
	"pdf":  PDF,
	"jpg":  IMAGE,
	"jpeg": IMAGE,
	"png":  IMAGE,
	"heic": IMAGE,
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat maps a (possibly dotted) extension to its file format.
func MapExtToFormat(ext string) FileFormat {
	if f, ok := AllowedExtensions[NormalizeExt(ext)]; ok {
		return f
	}
	return UNKNOWN
}

// MapContentTypeToFormat maps a declared media type to a file format. Used
// when the filename carries no recognizable extension.
func MapContentTypeToFormat(contentType string) FileFormat {
	switch {
	case contentType == "application/pdf":
		return PDF
	case strings.HasPrefix(contentType, "image/"):
		return IMAGE
	default:
		return UNKNOWN
	}
}

// IsHEICExt reports whether the extension needs conversion before OCR.
func IsHEICExt(ext string) bool {
	switch NormalizeExt(ext) {
	case "heic", "heif":
		return true
	}
	return false
}
