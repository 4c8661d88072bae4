package constants

// PageStatus is the per-page verdict of the native text density check.
type PageStatus string

const (
	PageSufficient   PageStatus = "sufficient"   // native text is usable as is
	PageInsufficient PageStatus = "insufficient" // route the page to recognition
)

// TextOrigin records where a page's text came from.
type TextOrigin string

const (
	OriginNative TextOrigin = "native"
	OriginOCR    TextOrigin = "ocr"
)

// MinPageCharsDefault is the sufficiency threshold (trimmed rune count).
const MinPageCharsDefault = 20

// RecognitionDPIDefault keeps recognized-character accuracy acceptable on invoices.
const RecognitionDPIDefault = 300

// RecognitionLanguagesDefault runs Cyrillic and Latin models in one pass.
var RecognitionLanguagesDefault = []string{"rus", "eng"}
