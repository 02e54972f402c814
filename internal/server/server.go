package server

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/overhang-risk/internal/config"
	"github.com/iwvelando/overhang-risk/internal/export"
	"github.com/iwvelando/overhang-risk/internal/memo"
	"github.com/iwvelando/overhang-risk/internal/metrics"
	"github.com/iwvelando/overhang-risk/internal/overhang"
	"github.com/iwvelando/overhang-risk/pkg/constants"
	"github.com/iwvelando/overhang-risk/pkg/output"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

//go:embed static/*
var staticFiles embed.FS

// RequestIDHeader carries the id assigned to each API request.
const RequestIDHeader = "X-Request-ID"

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
}

// NewHandler constructs the HTTP handler that serves the web UI and analysis API.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, maxUploadSize: maxUploadSize, version: trimmedVersion}

	mux := http.NewServeMux()

	// Starting table and scenario list for the editor
	mux.HandleFunc("/api/defaults", h.handleDefaults)

	// Analysis for editor-driven updates
	mux.HandleFunc("/api/analyze", h.handleAnalyze)

	// Downloads
	mux.HandleFunc("/api/export/xlsx", h.handleExportWorkbook)
	mux.HandleFunc("/api/export/pdf", h.handleExportMemo)

	// Version endpoint for UI metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	mux.Handle("/metrics", promhttp.Handler())

	// Static assets (web UI)
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(fmt.Sprintf("failed to prepare embedded static files: %v", err))
	}
	fileServer := http.FileServer(http.FS(sub))
	mux.Handle("/", fileServer)

	return withRequestID(mux)
}

func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(RequestIDHeader, id)
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

type analyzeRequest struct {
	Units    []overhang.UnitType  `json:"units"`
	Vouchers overhang.VoucherPool `json:"vouchers"`
	Scenario string               `json:"scenario"`
}

type analysisResponse struct {
	*overhang.Analysis
	Memo      string   `json:"memo"`
	CSV       string   `json:"csv"`
	Warnings  []string `json:"warnings,omitempty"`
	Duration  string   `json:"duration"`
	RequestID string   `json:"requestId"`
}

type scenarioOption struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

type defaultsResponse struct {
	Units     []overhang.UnitType  `json:"units"`
	Vouchers  overhang.VoucherPool `json:"vouchers"`
	Scenario  string               `json:"scenario"`
	Scenarios []scenarioOption     `json:"scenarios"`
}

func (h *handler) handleDefaults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	defaults := config.Default()
	options := make([]scenarioOption, 0, len(overhang.Scenarios))
	for _, s := range overhang.Scenarios {
		options = append(options, scenarioOption{Key: string(s), Label: s.Label()})
	}

	h.writeJSON(w, http.StatusOK, defaultsResponse{
		Units:     defaults.Units,
		Vouchers:  defaults.Vouchers,
		Scenario:  defaults.Scenario,
		Scenarios: options,
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAnalyze"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	conf, ok := h.decodeRequest(w, r, op)
	if !ok {
		return
	}

	analysis, err := conf.Analyze()
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	memoText, err := memo.Markdown(analysis)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusInternalServerError, err.Error(), op)
		return
	}

	elapsed := time.Since(start)
	metrics.AnalysesTotal.WithLabelValues(string(analysis.Scenario)).Inc()
	metrics.AnalysisDuration.WithLabelValues("analyze").Observe(elapsed.Seconds())

	response := analysisResponse{
		Analysis:  analysis,
		Memo:      memoText,
		CSV:       output.CsvString(analysis),
		Warnings:  conf.ValidateConfiguration(),
		Duration:  elapsed.String(),
		RequestID: r.Header.Get(RequestIDHeader),
	}

	h.logger.Info("analysis computed",
		zap.String("op", op),
		zap.String("requestId", response.RequestID),
		zap.String("scenario", string(analysis.Scenario)),
		zap.Int("unitTypes", len(analysis.Units)),
		zap.Float64("selectedExposure", analysis.SelectedExposure),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleExportWorkbook(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleExportWorkbook"
	h.handleExport(w, r, op, "xlsx", constants.XLSXContentType, constants.DefaultExportFile,
		func(a *overhang.Analysis) ([]byte, error) {
			var buf bytes.Buffer
			if err := export.WriteWorkbook(&buf, a); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		})
}

func (h *handler) handleExportMemo(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleExportMemo"
	h.handleExport(w, r, op, "pdf", constants.PDFContentType, constants.DefaultMemoFile,
		func(a *overhang.Analysis) ([]byte, error) {
			return memo.PDF(a, memo.PDFOptions{Compress: true})
		})
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request, op, format, contentType, filename string,
	render func(*overhang.Analysis) ([]byte, error)) {
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	conf, ok := h.decodeRequest(w, r, op)
	if !ok {
		return
	}

	analysis, err := conf.Analyze()
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	data, err := render(analysis)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to export %s: %v", format, err), op)
		return
	}

	elapsed := time.Since(start)
	metrics.ExportsTotal.WithLabelValues(format).Inc()
	metrics.AnalysisDuration.WithLabelValues("export_" + format).Observe(elapsed.Seconds())

	h.logger.Info("export generated",
		zap.String("op", op),
		zap.String("requestId", r.Header.Get(RequestIDHeader)),
		zap.String("format", format),
		zap.Int("bytes", len(data)),
		zap.Duration("duration", elapsed),
	)

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Warn("failed to write export",
			zap.String("op", op),
			zap.Error(err),
		)
	}
}

// decodeRequest reads, schema-checks and decodes an analysis request. It
// writes the error response itself and reports false on failure.
func (h *handler) decodeRequest(w http.ResponseWriter, r *http.Request, op string) (*config.Configuration, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request exceeds limit of %d bytes", h.maxUploadSize), op)
			return nil, false
		}
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to read request: %v", err), op)
		return nil, false
	}

	problems, err := validateAnalyzeRequest(body)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return nil, false
	}
	if len(problems) > 0 {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, joinProblems(problems), op)
		return nil, false
	}

	var req analyzeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return nil, false
	}

	scenario := req.Scenario
	if strings.TrimSpace(scenario) == "" {
		scenario = string(overhang.ScenarioMaxRisk)
	}

	return &config.Configuration{
		Units:    req.Units,
		Vouchers: req.Vouchers,
		Scenario: scenario,
	}, true
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, r *http.Request, status int, msg string, op string) {
	h.logger.Error("analysis request failed",
		zap.String("op", op),
		zap.String("requestId", r.Header.Get(RequestIDHeader)),
		zap.Int("status", status),
		zap.String("error", msg),
	)
	metrics.RequestFailures.WithLabelValues(r.URL.Path, strconv.Itoa(status)).Inc()

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
