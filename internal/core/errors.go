package core

import (
	"errors"
	"fmt"
)

// ErrorKind classifies pipeline failures.
type ErrorKind string

const (
	// Document-scoped: abort the whole extraction.
	KindLoad  ErrorKind = "load"
	KindSplit ErrorKind = "split"

	// Page-scoped: recorded on the page outcome, never returned from Extract.
	KindStrip     ErrorKind = "strip"
	KindRasterize ErrorKind = "rasterize"
	KindOCR       ErrorKind = "ocr"

	// Request-scoped.
	KindFetch ErrorKind = "fetch"
)

// Error is a pipeline error with a kind and an optional cause.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new pipeline error.
func NewError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func LoadError(message string, err error) *Error {
	return NewError(KindLoad, message, err)
}

func SplitError(message string, err error) *Error {
	return NewError(KindSplit, message, err)
}

func StripError(message string, err error) *Error {
	return NewError(KindStrip, message, err)
}

func RasterizeError(message string, err error) *Error {
	return NewError(KindRasterize, message, err)
}

func OCRError(message string, err error) *Error {
	return NewError(KindOCR, message, err)
}

func FetchError(message string, err error) *Error {
	return NewError(KindFetch, message, err)
}

// IsKind reports whether any error in err's chain is a *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// IsDocumentError reports whether err aborts a whole extraction (load or split failure).
func IsDocumentError(err error) bool {
	return IsKind(err, KindLoad) || IsKind(err, KindSplit)
}
