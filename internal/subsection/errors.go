package subsection

import "errors"

// ErrTitleNotFound is returned when a section title does not occur literally
// in its page text.
var ErrTitleNotFound = errors.New("section title not found in page text")
