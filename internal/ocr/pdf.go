package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// ExtractPDF pulls the native text layer first and falls back to page
// rasterization + OCR when the document looks image-based. OCR output is
// appended to whatever native text was found, never substituted for it.
// Failures along the way degrade to partial text; the returned error is
// non-nil only when both paths produced nothing.
func (e *Extractor) ExtractPDF(ctx context.Context, path string) (ExtractionResult, error) {
	start := time.Now()
	res := ExtractionResult{Method: "pdf-text", Language: e.cfg.TesseractLang}

	text, pages, warns, err := e.pdfToText(ctx, path)
	res.Warnings = append(res.Warnings, warns...)
	if err != nil {
		e.logger.Error("pdf text layer extraction failed", "path", path, "error", err)
		res.Warnings = append(res.Warnings, err.Error())
	}
	res.Text = text
	res.Pages = pages

	// Threshold counts characters, not bytes: Burmese text is 3 bytes a rune.
	nativeLen := utf8.RuneCountInString(strings.TrimSpace(res.Text))
	if nativeLen < MinNativeTextLen {
		e.logger.Info("pdf text layer sparse, attempting ocr fallback",
			"path", path, "native_len", nativeLen)
		ocrText, ocrPages, ocrWarns, ocrErr := e.pdfToOCR(ctx, path)
		res.Warnings = append(res.Warnings, ocrWarns...)
		if ocrErr != nil {
			e.logger.Error("pdf ocr fallback failed", "path", path, "error", ocrErr)
		} else {
			res.Method = "pdf-text+ocr"
			if res.Text != "" && ocrText != "" {
				res.Text += "\n"
			}
			res.Text += ocrText
			if ocrPages > res.Pages {
				res.Pages = ocrPages
			}
		}
	}

	res.Duration = time.Since(start)
	if strings.TrimSpace(res.Text) == "" && err != nil {
		return res, err
	}
	return res, nil
}

func (e *Extractor) pdfToText(ctx context.Context, path string) (text string, pages int, warnings []string, err error) {
	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return "", 0, nil, fmt.Errorf("%s", e.describeFailure("pdftotext", errb, err))
	}
	text = string(out)
	// A form-feed \f is used as page separator by default
	pages = 1 + strings.Count(text, "\f")
	return text, pages, nil, nil
}

func (e *Extractor) pdfToOCR(ctx context.Context, path string) (text string, pages int, warnings []string, err error) {
	tmpDir, err := os.MkdirTemp("", "db-pp-*")
	if err != nil {
		return "", 0, nil, err
	}
	defer func() {
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			e.logger.Warn("failed to remove temp dir", "path", tmpDir, "error", rmErr)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r 300 -png <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, "-r", fmt.Sprintf("%d", e.cfg.DPI), "-png", path, prefix)
	if err != nil {
		return "", 0, nil, fmt.Errorf("%s", e.describeFailure("pdftoppm", errb, err))
	}

	// collect generated pngs (prefix-1.png, prefix-2.png, ...)
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if e.cfg.MaxPages > 0 && len(matches) > e.cfg.MaxPages {
		matches = matches[:e.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return "", 0, []string{"pdftoppm produced no images"}, fmt.Errorf("no pages rendered")
	}

	var b strings.Builder
	var warns []string
	for _, img := range matches {
		txt, w, err := e.tesseractOCR(ctx, img)
		if err != nil {
			warns = append(warns, err.Error())
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(txt)
		warns = append(warns, w...)
	}
	pages = len(matches)
	return b.String(), pages, warns, nil
}
