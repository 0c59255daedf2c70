// Package ocr adapts Tesseract to core.OCREngine.
//
// Tesseract is reached through gosseract, which needs libtesseract and leptonica at build time.
// It is compiled in only with the "ocr" build tag:
//
//	go build -tags ocr ./...
//
// Without the tag the engine fails every request with ErrOCRNotEnabled, so scanned pages come
// back empty while text-layer pages still work.
package ocr

import "errors"

// ErrOCRNotEnabled is returned when the binary was built without the "ocr" tag.
var ErrOCRNotEnabled = errors.New("ocr: support not compiled in (build with -tags ocr)")

// EngineName identifies the engine in logs.
const EngineName = "tesseract"
