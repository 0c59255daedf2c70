package services

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"
	"github.com/rs/zerolog"

	"github.com/markdave123-py/pagetext/internal/core"
	"github.com/markdave123-py/pagetext/internal/core/extraction_engine"
	"github.com/markdave123-py/pagetext/internal/models"
)

// ErrNotPDF is returned for uploads that are not PDF documents.
var ErrNotPDF = errors.New("file is not a PDF document")

// ErrStorageUnavailable is returned when object extraction is requested but no object storage is configured.
var ErrStorageUnavailable = errors.New("object storage not configured")

var pdfMagic = []byte("%PDF-")

// TextExtractor is what the service needs from the extraction engine.
type TextExtractor interface {
	ExtractFile(ctx context.Context, path string, cfg extraction_engine.ExtractionConfig) (*models.ExtractedDocument, error)
}

// ExtractOptions are the per-request knobs.
//
// Config:       engine settings; zero fields take the engine defaults.
// IncludePages: return per-page statuses in the result.
type ExtractOptions struct {
	Config       extraction_engine.ExtractionConfig
	IncludePages bool
}

// ExtractionService spools request bodies and stored objects to local files and runs the engine on them.
type ExtractionService struct {
	extractor TextExtractor
	storage   core.ObjectClient
	tempDir   string
	logger    zerolog.Logger
}

// NewExtractionService wires the service. storage may be nil, in which case ExtractObject fails
// with ErrStorageUnavailable.
func NewExtractionService(extractor TextExtractor, storage core.ObjectClient, tempDir string, logger zerolog.Logger) *ExtractionService {
	return &ExtractionService{
		extractor: extractor,
		storage:   storage,
		tempDir:   tempDir,
		logger:    logger.With().Str("component", "extraction_service").Logger(),
	}
}

// ExtractUpload extracts text from an uploaded PDF read from r.
func (s *ExtractionService) ExtractUpload(ctx context.Context, fileName string, r io.Reader, opts ExtractOptions) (*models.ExtractionResult, error) {
	fileName = cleanFileName(fileName)
	log := s.logger.With().Str("file", fileName).Logger()

	body := bufio.NewReader(r)
	if err := checkPDF(fileName, body); err != nil {
		return nil, err
	}

	spool, err := os.CreateTemp(s.tempDir, "upload-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create upload file: %w", err)
	}
	defer s.remove(spool.Name(), log)

	n, err := io.Copy(spool, body)
	if cerr := spool.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("spool upload: %w", err)
	}
	log.Info().Int64("bytes", n).Msg("received upload")

	return s.extract(ctx, spool.Name(), fileName, opts)
}

// ExtractObject downloads bucket/key and extracts text from it.
func (s *ExtractionService) ExtractObject(ctx context.Context, bucket, key string, opts ExtractOptions) (*models.ExtractionResult, error) {
	if s.storage == nil {
		return nil, ErrStorageUnavailable
	}
	log := s.logger.With().Str("bucket", bucket).Str("key", key).Logger()

	spool, err := os.CreateTemp(s.tempDir, "s3-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create download file: %w", err)
	}
	defer s.remove(spool.Name(), log)

	n, err := s.storage.Download(ctx, bucket, key, spool)
	if cerr := spool.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("write download file: %w", cerr)
	}
	if err != nil {
		if !core.IsKind(err, core.KindFetch) {
			err = core.FetchError(fmt.Sprintf("download s3://%s/%s", bucket, key), err)
		}
		log.Error().Err(err).Msg("failed to fetch object")
		return nil, err
	}
	log.Info().Int64("bytes", n).Msg("fetched object")

	return s.extract(ctx, spool.Name(), key, opts)
}

func (s *ExtractionService) extract(ctx context.Context, file, fileName string, opts ExtractOptions) (*models.ExtractionResult, error) {
	doc, err := s.extractor.ExtractFile(ctx, file, opts.Config)
	if err != nil {
		return nil, err
	}

	res := &models.ExtractionResult{
		Text:      doc.Text,
		FileName:  fileName,
		PageCount: doc.PageCount,
	}
	if opts.IncludePages {
		res.Pages = doc.Pages
	}
	return res, nil
}

func (s *ExtractionService) remove(file string, log zerolog.Logger) {
	if err := os.Remove(file); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Str("spool", file).Msg("failed to remove spooled file")
	}
}

// checkPDF rejects names whose extension maps to another document type and bodies without the PDF header.
func checkPDF(fileName string, body *bufio.Reader) error {
	if ext := filepath.Ext(fileName); ext != "" {
		if mime := docconv.MimeTypeByExtension(fileName); mime != "application/pdf" && mime != "application/octet-stream" {
			return fmt.Errorf("%w: %s resolves to %s", ErrNotPDF, fileName, mime)
		}
	}

	head, err := body.Peek(len(pdfMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read upload: %w", err)
	}
	if !bytes.Equal(head, pdfMagic) {
		return fmt.Errorf("%w: missing %%PDF- header", ErrNotPDF)
	}
	return nil
}

func cleanFileName(name string) string {
	name = strings.TrimSpace(path.Base(filepath.ToSlash(name)))
	if name == "" || name == "." || name == "/" {
		return "document.pdf"
	}
	return name
}
