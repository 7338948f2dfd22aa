package schema

import "errors"

// Sentinel errors shared by the registry, classifiers and scanner.
var (
	// ErrUnknownExtension means no tokenizer grammar exists for an extension.
	// It is a registry configuration error and is never skipped.
	ErrUnknownExtension = errors.New("unknown extension")

	// ErrUnknownLanguage means a language was requested that the classifier set does not know.
	ErrUnknownLanguage = errors.New("unknown language")

	// ErrInvalidGlob means an include or exclude pattern could not be parsed.
	ErrInvalidGlob = errors.New("invalid glob")
)
