package corpus

import "errors"

var (
	// ErrDocumentNotFound is returned when a document ID is not in the corpus.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrPageNotFound is returned when a document has no page with the given number.
	ErrPageNotFound = errors.New("page not found")
)
