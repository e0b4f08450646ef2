package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/dentalbridge/dentalbridge/internal/llm"
	"github.com/dentalbridge/dentalbridge/internal/repository"
)

const maxUploadBytes = 32 << 20

// TextExtractor is the extraction stage the analyze endpoint pipes into.
type TextExtractor interface {
	Extract(ctx context.Context, data []byte, filename, contentType string) string
}

// PlanNormalizer turns extracted text into validated line items.
type PlanNormalizer interface {
	Normalize(ctx context.Context, text string) []llm.LineItem
}

// PlanExporter renders a saved plan as a downloadable workbook.
type PlanExporter interface {
	ExportPlanXLSX(ctx context.Context, planID string) ([]byte, error)
}

// PlanHandler binds extraction, normalization, and storage into the HTTP
// surface. Handlers are thin by design.
type PlanHandler struct {
	extractor  TextExtractor
	normalizer PlanNormalizer
	plans      repository.PlanRepository
	exporter   PlanExporter
	logger     *slog.Logger
}

func NewPlanHandler(extractor TextExtractor, normalizer PlanNormalizer, plans repository.PlanRepository, exporter PlanExporter, logger *slog.Logger) *PlanHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlanHandler{
		extractor:  extractor,
		normalizer: normalizer,
		plans:      plans,
		exporter:   exporter,
		logger:     logger,
	}
}

// Root handles GET / as a liveness probe.
func (h *PlanHandler) Root(w http.ResponseWriter, _ *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "DentalBridge API is running"})
}

// Analyze handles POST /analyze: multipart upload in, line items out.
// Extraction and normalization never error past their own stage, so anything
// that does surface here is unexpected and becomes a generic 500.
func (h *PlanHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer func() {
		_ = file.Close()
	}()

	content, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("failed to read upload", "filename", header.Filename, "error", err)
		respondWithError(w, http.StatusInternalServerError,
			fmt.Sprintf("Internal Server Error: %v", err))
		return
	}
	h.logger.Info("received file", "filename", header.Filename, "size", len(content))

	contentType := header.Header.Get("Content-Type")
	text := h.extractor.Extract(r.Context(), content, header.Filename, contentType)
	h.logger.Info("extracted text", "filename", header.Filename, "text_len", len(text))

	items := h.normalizer.Normalize(r.Context(), text)
	if items == nil {
		items = []llm.LineItem{}
	}
	respondWithJSON(w, http.StatusOK, items)
}

// SavePlan handles POST /save-plan: a JSON array of line items as body.
// The patient name defaults to a sentinel; an X-Patient-Name header
// overrides it without changing the body contract.
func (h *PlanHandler) SavePlan(w http.ResponseWriter, r *http.Request) {
	items, err := decodeItems(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	patientName := strings.TrimSpace(r.Header.Get("X-Patient-Name"))
	planID, err := h.plans.SavePlan(r.Context(), patientName, items)
	if err != nil {
		h.logger.Error("failed to save plan", "error", err)
		respondWithError(w, http.StatusInternalServerError,
			fmt.Sprintf("Internal Server Error: %v", err))
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"plan_id": planID,
		"url":     "/p/" + planID,
	})
}

// GetPlan handles GET /plan/{plan_id}.
func (h *PlanHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	planID := mux.Vars(r)["plan_id"]
	items, err := h.plans.FetchItems(r.Context(), planID)
	if errors.Is(err, repository.ErrPlanNotFound) {
		respondWithError(w, http.StatusNotFound, "Plan not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to fetch plan", "plan_id", planID, "error", err)
		respondWithError(w, http.StatusInternalServerError,
			fmt.Sprintf("Internal Server Error: %v", err))
		return
	}
	respondWithJSON(w, http.StatusOK, items)
}

// ExportPlan handles GET /plan/{plan_id}/export with an XLSX download.
func (h *PlanHandler) ExportPlan(w http.ResponseWriter, r *http.Request) {
	planID := mux.Vars(r)["plan_id"]
	data, err := h.exporter.ExportPlanXLSX(r.Context(), planID)
	if errors.Is(err, repository.ErrPlanNotFound) {
		respondWithError(w, http.StatusNotFound, "Plan not found")
		return
	}
	if err != nil {
		h.logger.Error("failed to export plan", "plan_id", planID, "error", err)
		respondWithError(w, http.StatusInternalServerError,
			fmt.Sprintf("Internal Server Error: %v", err))
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="treatment-plan-`+planID+`.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
