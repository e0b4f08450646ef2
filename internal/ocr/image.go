package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dentalbridge/dentalbridge/constants"
)

// ExtractImage runs OCR directly on an image file. HEIC/HEIF input is
// converted to PNG first when a converter is configured.
func (e *Extractor) ExtractImage(ctx context.Context, path string) (ExtractionResult, error) {
	start := time.Now()
	res := ExtractionResult{Method: "image-ocr", Language: e.cfg.TesseractLang, Pages: 1}

	if constants.IsHEICExt(filepath.Ext(path)) {
		converted, warns, cleanup, err := e.convertHEICtoPNG(ctx, path)
		res.Warnings = append(res.Warnings, warns...)
		if cleanup != nil {
			defer cleanup()
		}
		if err != nil {
			e.logger.Error("heic conversion failed", "path", path, "error", err)
			res.Duration = time.Since(start)
			return res, err
		}
		path = converted
	}

	txt, warns, err := e.tesseractOCR(ctx, path)
	res.Warnings = append(res.Warnings, warns...)
	res.Duration = time.Since(start)
	if err != nil {
		return res, err
	}
	res.Text = txt
	return res, nil
}

func (e *Extractor) tesseractOCR(ctx context.Context, path string) (string, []string, error) {
	// tesseract <file> stdout -l <lang>
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, path, "stdout", "-l", e.cfg.TesseractLang)
	if err != nil {
		return "", nil, fmt.Errorf("%s", e.describeFailure("tesseract", errb, err))
	}
	return string(out), nil, nil
}

// convertHEICtoPNG converts a HEIC/HEIF file to a temporary PNG using the
// configured converter: "heif-convert" | "magick" | "sips".
// Returns (outPath, warnings, cleanup, err). Call cleanup() to remove temp files.
func (e *Extractor) convertHEICtoPNG(ctx context.Context, in string) (string, []string, func(), error) {
	tmpDir, err := os.MkdirTemp("", "db-heic-*")
	if err != nil {
		return "", nil, nil, err
	}
	cleanup := func() { _ = os.RemoveAll(tmpDir) }
	out := filepath.Join(tmpDir, "page.png")

	switch e.cfg.HeicConverter {
	case "heif-convert":
		if _, errb, err2 := e.runner.Run(ctx, "heif-convert", in, out); err2 != nil {
			return "", []string{string(errb)}, cleanup, fmt.Errorf("heif-convert failed: %w", err2)
		}
	case "magick":
		if _, errb, err2 := e.runner.Run(ctx, "magick", in, out); err2 != nil {
			return "", []string{string(errb)}, cleanup, fmt.Errorf("magick convert failed: %w", err2)
		}
	case "sips":
		if _, errb, err2 := e.runner.Run(ctx, "sips", "-s", "format", "png", in, "--out", out); err2 != nil {
			return "", []string{string(errb)}, cleanup, fmt.Errorf("sips convert failed: %w", err2)
		}
	default:
		return "", nil, cleanup, fmt.Errorf("HEIC not supported: set ocr.Config.HeicConverter to one of: heif-convert | magick | sips")
	}

	if _, statErr := os.Stat(out); statErr != nil {
		return "", nil, cleanup, fmt.Errorf("HEIC conversion produced no output: %v", statErr)
	}
	return out, nil, cleanup, nil
}
