package parser

import "errors"

var (
	// ErrUnsupported is returned for file extensions without a parser.
	ErrUnsupported = errors.New("unsupported file extension")
	// ErrNoInputDir is returned by LoadDir when the input directory is missing.
	ErrNoInputDir = errors.New("input directory not found")
)
