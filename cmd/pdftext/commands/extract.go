package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/markdave123-py/pagetext/internal/core/extraction_engine"
	"github.com/markdave123-py/pagetext/internal/core/ocr"
	"github.com/markdave123-py/pagetext/internal/core/pdfdoc"
	"github.com/markdave123-py/pagetext/internal/core/workerpool"
	"github.com/markdave123-py/pagetext/internal/logger"
	"github.com/markdave123-py/pagetext/internal/models"
)

var (
	extractLang     string
	extractDPI      int
	extractWorkers  int
	extractTessdata string
	extractColor    string
	extractPages    bool
	extractJSON     bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <file.pdf>...",
	Short: "Extract text from one or more PDF files",
	Long:  "Extract text from PDF files one after another, writing plain text (or JSON with --json) to stdout.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runExtract,
}

func init() {
	extractCmd.Flags().StringVar(&extractLang, "lang", extraction_engine.DefaultLanguage, "Tesseract language(s), e.g. eng or eng+deu")
	extractCmd.Flags().IntVar(&extractDPI, "dpi", extraction_engine.DefaultDPI, "Rasterization resolution for OCR")
	extractCmd.Flags().IntVar(&extractWorkers, "workers", extraction_engine.DefaultMaxWorkers, "Maximum pages processed concurrently")
	extractCmd.Flags().StringVar(&extractTessdata, "tessdata", "", "Tesseract data directory")
	extractCmd.Flags().StringVar(&extractColor, "color", string(extraction_engine.ColorModeGray), "Rasterization color mode: gray or rgb")
	extractCmd.Flags().BoolVar(&extractPages, "pages", false, "Include per-page status")
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "Write JSON instead of plain text")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	colorMode, err := extraction_engine.ParseColorMode(extractColor)
	if err != nil {
		return err
	}
	if extractDPI <= 0 || extractWorkers <= 0 {
		return fmt.Errorf("--dpi and --workers must be positive")
	}

	log := zerolog.Nop()
	if verbose {
		log = logger.New(logger.Config{Level: "debug", Format: "console", Output: cmd.ErrOrStderr(), Service: "pdftext"})
	}

	pool := workerpool.New(extractWorkers, log)
	pool.Start()
	defer pool.Stop()

	cfg := extraction_engine.ExtractionConfig{
		Language:   extractLang,
		DPI:        extractDPI,
		MaxWorkers: extractWorkers,
		DataPath:   extractTessdata,
		ColorMode:  colorMode,
	}
	extractor := extraction_engine.NewExtractor(pdfdoc.NewLoader(log), ocr.NewTesseract(log), pool, cfg, os.TempDir(), log)

	out := cmd.OutOrStdout()
	for _, path := range args {
		doc, err := extractor.ExtractFile(ctx, path, cfg)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := writeResult(out, path, doc); err != nil {
			return err
		}
	}
	return nil
}

func writeResult(w io.Writer, path string, doc *models.ExtractedDocument) error {
	if extractJSON {
		res := models.ExtractionResult{Text: doc.Text, FileName: filepath.Base(path), PageCount: doc.PageCount}
		if extractPages {
			res.Pages = doc.Pages
		}
		return json.NewEncoder(w).Encode(res)
	}

	if extractPages {
		for _, p := range doc.Pages {
			fmt.Fprintf(w, "# %s page %d: %s\n", filepath.Base(path), p.Index+1, p.Status)
		}
	}
	_, err := fmt.Fprintln(w, doc.Text)
	return err
}
