package ocr

import (
	"fmt"
	"log/slog"
	"time"
)

// MinNativeTextLen is the threshold below which a PDF's text layer is
// considered image-based and page rasterization + OCR kicks in.
const MinNativeTextLen = 50

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	DPI           int    // rasterization DPI for scanned PDFs, default 300
	MaxPages      int    // 0 = no limit

	HeicConverter string // "heif-convert" | "magick" | "sips"; empty = HEIC unsupported
}

type ExtractionResult struct {
	Text     string
	Pages    int
	Method   string // "pdf-text" | "pdf-text+ocr" | "image-ocr"
	Language string
	Duration time.Duration
	Warnings []string
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Extractor{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
}

func (e *Extractor) describeFailure(stage string, stderr []byte, err error) string {
	if len(stderr) > 0 {
		return fmt.Sprintf("%s: %v: %s", stage, err, truncate(string(stderr), 512))
	}
	return fmt.Sprintf("%s: %v", stage, err)
}
