package extract

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dentalbridge/dentalbridge/constants"
	"github.com/dentalbridge/dentalbridge/internal/ocr"
)

// PlaceholderText is substituted when extraction yields nothing, so downstream
// stages always receive non-empty input.
const PlaceholderText = "No text found."

// FileExtractor is the path-oriented extraction engine behind the service.
type FileExtractor interface {
	ExtractPDF(ctx context.Context, path string) (ocr.ExtractionResult, error)
	ExtractImage(ctx context.Context, path string) (ocr.ExtractionResult, error)
}

// Service turns uploaded file bytes into best-effort plain text. Extraction
// never fails a request: every error degrades to empty or partial text.
type Service struct {
	ocr    FileExtractor
	logger *slog.Logger
}

func NewService(extractor FileExtractor, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{ocr: extractor, logger: logger}
}

// Extract dispatches on the filename extension first, then on the declared
// content type. Unknown types yield the placeholder without error.
func (s *Service) Extract(ctx context.Context, data []byte, filename, contentType string) string {
	format := constants.MapExtToFormat(filepath.Ext(filename))
	if format == constants.UNKNOWN {
		format = constants.MapContentTypeToFormat(contentType)
	}
	if format == constants.UNKNOWN {
		s.logger.Warn("unsupported upload type", "filename", filename, "content_type", contentType)
		return PlaceholderText
	}

	path, cleanup, err := s.spool(data, filename)
	if err != nil {
		s.logger.Error("failed to spool upload to disk", "filename", filename, "error", err)
		return PlaceholderText
	}
	defer cleanup()

	var text string
	switch format {
	case constants.PDF:
		res, err := s.ocr.ExtractPDF(ctx, path)
		if err != nil {
			s.logger.Error("pdf extraction failed", "filename", filename, "error", err)
		}
		text = res.Text
		s.logger.Info("pdf extraction finished",
			"filename", filename,
			"method", res.Method,
			"pages", res.Pages,
			"text_len", len(text),
			"warnings", len(res.Warnings),
		)
	case constants.IMAGE:
		res, err := s.ocr.ExtractImage(ctx, path)
		if err != nil {
			s.logger.Error("image extraction failed", "filename", filename, "error", err)
		}
		text = res.Text
		s.logger.Info("image extraction finished",
			"filename", filename,
			"text_len", len(text),
			"warnings", len(res.Warnings),
		)
	}

	if strings.TrimSpace(text) == "" {
		s.logger.Warn("no text extracted, substituting placeholder", "filename", filename)
		return PlaceholderText
	}
	return text
}

// spool writes upload bytes to a temp file keeping the original extension, so
// the external tools can sniff the format the usual way.
func (s *Service) spool(data []byte, filename string) (string, func(), error) {
	ext := filepath.Ext(filename)
	f, err := os.CreateTemp("", "db-upload-*"+strings.ToLower(ext))
	if err != nil {
		return "", nil, err
	}
	path := f.Name()
	cleanup := func() {
		if rmErr := os.Remove(path); rmErr != nil {
			s.logger.Warn("failed to remove spooled upload", "path", path, "error", rmErr)
		}
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, err
	}
	return path, cleanup, nil
}
