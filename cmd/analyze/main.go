// Command analyze runs the extraction + normalization pipeline against a
// local file and prints the resulting line items as JSON. Useful for poking
// at prompts and OCR behavior without the HTTP server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"

	"github.com/dentalbridge/dentalbridge/internal/common"
	"github.com/dentalbridge/dentalbridge/internal/extract"
	"github.com/dentalbridge/dentalbridge/internal/llm"
	"github.com/dentalbridge/dentalbridge/internal/llm/gemini"
	"github.com/dentalbridge/dentalbridge/internal/ocr"
)

func main() {
	textOnly := flag.Bool("text-only", false, "print extracted text and exit without calling the model")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [-text-only] <file>\n", os.Args[0])
		os.Exit(2)
	}
	path := flag.Arg(0)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Error("failed to read file", "path", path, "error", err)
		os.Exit(1)
	}

	extractor := extract.NewService(ocr.NewExtractor(ocr.Config{
		Pdftotext:     cfg.OCR.Pdftotext,
		Pdftoppm:      cfg.OCR.Pdftoppm,
		Tesseract:     cfg.OCR.Tesseract,
		TesseractLang: cfg.OCR.TesseractLang,
		HeicConverter: cfg.OCR.HeicConverter,
		DPI:           cfg.OCR.DPI,
		MaxPages:      cfg.OCR.MaxPages,
	}, logger), logger)

	ctx := context.Background()
	contentType := mime.TypeByExtension(filepath.Ext(path))
	text := extractor.Extract(ctx, data, filepath.Base(path), contentType)
	if *textOnly {
		fmt.Println(text)
		return
	}

	normalizer := llm.NewNormalizer(llm.Config{
		APIKey: cfg.LLM.APIKey,
		Models: cfg.LLM.Models,
	}, gemini.NewClient(gemini.Config{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Timeout: cfg.LLM.Timeout,
	}, logger), logger)

	items := normalizer.Normalize(ctx, text)
	out, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		logger.Error("failed to marshal items", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
