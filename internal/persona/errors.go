package persona

import "errors"

// ErrInvalid is returned when a persona document does not have the expected
// shape.
var ErrInvalid = errors.New("invalid persona document")
