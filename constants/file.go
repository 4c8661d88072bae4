package constants

import (
	"mime"
	"path/filepath"
	"strings"
)

// PDFContentType is the only media type accepted by the upload endpoint.
const PDFContentType = "application/pdf"

// MaxUploadBytesDefault caps upload size unless MAX_UPLOAD_BYTES overrides it.
const MaxUploadBytesDefault int64 = 20 << 20

// AllowedExtensions holds the file extensions accepted for extraction.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsPDFUpload reports whether a filename/content-type pair looks like a PDF.
// The filename extension wins; a generic octet-stream type does not disqualify it.
func IsPDFUpload(filename, contentType string) bool {
	if _, ok := AllowedExtensions[NormalizeExt(filepath.Ext(filename))]; ok {
		return true
	}
	if contentType == "" {
		return false
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == PDFContentType
}
