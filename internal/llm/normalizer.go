package llm

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// Config for the plan normalizer.
type Config struct {
	APIKey string   // empty -> fixed mock response, no external calls
	Models []string // cascade order, most capable first
}

// Normalizer drives the generation cascade and parses its output into
// validated line items. All generation failures are absorbed: the worst
// outcome of Normalize is an empty slice, never an error.
type Normalizer struct {
	cfg    Config
	gen    Generator
	logger *slog.Logger
}

func NewNormalizer(cfg Config, gen Generator, logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{cfg: cfg, gen: gen, logger: logger}
}

// Normalize turns raw extracted text into line items. Candidate models are
// tried in order; the first non-empty response wins. Each attempt is fault
// isolated: errors are logged and treated as "no content".
func (n *Normalizer) Normalize(ctx context.Context, text string) []LineItem {
	if n.cfg.APIKey == "" {
		n.logger.Warn("no generation credential configured, returning mock data")
		return MockItems()
	}

	prompt := BuildPrompt(text)

	var content string
	for _, model := range n.cfg.Models {
		start := time.Now()
		n.logger.Info("llm.generate.attempt", "model", model, "text_len", len(text))
		out, err := n.gen.Generate(ctx, model, prompt)
		if err != nil {
			n.logger.Warn("llm.generate.failed",
				"model", model,
				"error", err,
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
			continue
		}
		if strings.TrimSpace(out) == "" {
			n.logger.Warn("llm.generate.empty_response",
				"model", model,
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
			continue
		}
		n.logger.Info("llm.generate.ok",
			"model", model,
			"bytes", len(out),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		content = out
		break
	}

	if content == "" {
		n.logger.Error("all generation candidates failed", "models", n.cfg.Models)
		return nil
	}
	return ParseItems(content, n.logger)
}
