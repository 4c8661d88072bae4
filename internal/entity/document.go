package entity

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"

	"github.com/joseph-ayodele/invoice-extractor/constants"
)

// Document is one uploaded PDF. It is owned by a single extraction request
// and never shared or mutated once constructed.
type Document struct {
	data      []byte
	PageCount int
}

// NewDocument copies b so later mutation by the caller cannot leak in.
func NewDocument(b []byte) Document {
	cp := make([]byte, len(b))
	copy(cp, b)
	return Document{data: cp}
}

// WithPageCount returns a copy of d carrying the validated page count.
func (d Document) WithPageCount(n int) Document {
	d.PageCount = n
	return d
}

// Size returns the payload length in bytes.
func (d Document) Size() int { return len(d.data) }

// Reader returns a fresh read-only view over the payload.
func (d Document) Reader() *bytes.Reader { return bytes.NewReader(d.data) }

// WriteTo streams the payload to w (used to hand the PDF to external tools).
func (d Document) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(d.data)
	return int64(n), err
}

// ContentHash is the hex SHA-256 of the payload.
func (d Document) ContentHash() string {
	sum := sha256.Sum256(d.data)
	return hex.EncodeToString(sum[:])
}

// Page is the native extraction outcome for one page (0-based Index).
type Page struct {
	Index  int
	Text   string
	Chars  int
	Status constants.PageStatus
}

// NeedsRecognition reports whether the page must be routed to OCR.
func (p Page) NeedsRecognition() bool {
	return p.Status == constants.PageInsufficient
}

// RecognizedText is the text a page contributes to the merged document.
type RecognizedText struct {
	Index  int
	Origin constants.TextOrigin
	Text   string
}
