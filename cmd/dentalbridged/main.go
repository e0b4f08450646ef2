package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dentalbridge/dentalbridge/internal/common"
	"github.com/dentalbridge/dentalbridge/internal/export"
	"github.com/dentalbridge/dentalbridge/internal/extract"
	"github.com/dentalbridge/dentalbridge/internal/llm"
	"github.com/dentalbridge/dentalbridge/internal/llm/gemini"
	"github.com/dentalbridge/dentalbridge/internal/ocr"
	"github.com/dentalbridge/dentalbridge/internal/repository"
	"github.com/dentalbridge/dentalbridge/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.LLM.APIKey == "" {
		logger.Warn("GEMINI_API_KEY not set, analyze will return mock data")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repository.Open(ctx, repository.Config{
		DSN:          cfg.Database.DSN,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		DialTimeout:  cfg.Database.DialTimeout,
	}, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err, "dsn", cfg.Database.DSN)
		os.Exit(1)
	}
	defer repository.Close(db, logger)

	extractor := extract.NewService(ocr.NewExtractor(ocr.Config{
		Pdftotext:     cfg.OCR.Pdftotext,
		Pdftoppm:      cfg.OCR.Pdftoppm,
		Tesseract:     cfg.OCR.Tesseract,
		TesseractLang: cfg.OCR.TesseractLang,
		HeicConverter: cfg.OCR.HeicConverter,
		DPI:           cfg.OCR.DPI,
		MaxPages:      cfg.OCR.MaxPages,
	}, logger), logger)

	geminiClient := gemini.NewClient(gemini.Config{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Timeout: cfg.LLM.Timeout,
	}, logger)
	normalizer := llm.NewNormalizer(llm.Config{
		APIKey: cfg.LLM.APIKey,
		Models: cfg.LLM.Models,
	}, geminiClient, logger)

	plans := repository.NewPlanRepository(db, logger)
	exporter := export.NewService(plans, logger)
	handler := server.NewPlanHandler(extractor, normalizer, plans, exporter, logger)

	srv := &http.Server{
		Addr:         cfg.Server.HTTPAddr,
		Handler:      server.NewRouter(handler, cfg.Server.AllowedOrigins, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("dentalbridge listening", "addr", cfg.Server.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown error", "error", err)
	}
}
