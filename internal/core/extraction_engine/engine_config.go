package extraction_engine

import "fmt"

// ColorMode selects how pages are rasterized before OCR.
type ColorMode string

const (
	ColorModeGray ColorMode = "gray"
	ColorModeRGB  ColorMode = "rgb"
)

// ParseColorMode maps a configuration value to a ColorMode.
func ParseColorMode(s string) (ColorMode, error) {
	switch ColorMode(s) {
	case "", ColorModeGray:
		return ColorModeGray, nil
	case ColorModeRGB:
		return ColorModeRGB, nil
	}
	return "", fmt.Errorf("unknown color mode %q (want gray or rgb)", s)
}

const (
	DefaultLanguage   = "eng"
	DefaultDPI        = 300
	DefaultMaxWorkers = 8
)

// ExtractionConfig tunes a single extraction call. It is copied into the call and never mutated.
//
// Language:   tesseract language code(s); "eng" when empty.
// DPI:        rasterization resolution and OCR resolution hint.
// MaxWorkers: maximum page tasks of this call in flight at once (also bounded by the pool size).
// DataPath:   tessdata directory; empty uses the engine default.
// ColorMode:  rasterization color mode; grayscale when empty.
type ExtractionConfig struct {
	Language   string
	DPI        int
	MaxWorkers int
	DataPath   string
	ColorMode  ColorMode
}

// DefaultExtractionConfig returns the stock settings.
func DefaultExtractionConfig() ExtractionConfig {
	return ExtractionConfig{
		Language:   DefaultLanguage,
		DPI:        DefaultDPI,
		MaxWorkers: DefaultMaxWorkers,
		ColorMode:  ColorModeGray,
	}
}

// Merge fills zero fields of c from base.
func (c ExtractionConfig) Merge(base ExtractionConfig) ExtractionConfig {
	if c.Language == "" {
		c.Language = base.Language
	}
	if c.DPI <= 0 {
		c.DPI = base.DPI
	}
	if c.MaxWorkers <= 0 {
		c.MaxWorkers = base.MaxWorkers
	}
	if c.DataPath == "" {
		c.DataPath = base.DataPath
	}
	if c.ColorMode == "" {
		c.ColorMode = base.ColorMode
	}
	return c
}

func (c ExtractionConfig) withDefaults() ExtractionConfig {
	return c.Merge(DefaultExtractionConfig())
}
