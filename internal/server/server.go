package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/iwvelando/hypothekenrechner/internal/calculation"
	"github.com/iwvelando/hypothekenrechner/internal/config"
	"github.com/iwvelando/hypothekenrechner/internal/report"
	"github.com/iwvelando/hypothekenrechner/pkg/constants"
	"github.com/iwvelando/hypothekenrechner/pkg/mortgage"
	"github.com/iwvelando/hypothekenrechner/pkg/rates"
	"github.com/iwvelando/hypothekenrechner/pkg/validation"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type handler struct {
	logger        *zap.Logger
	calculator    *mortgage.Calculator
	provider      rates.Provider
	maxUploadSize int64
	version       string
	now           func() time.Time
}

// NewHandler constructs the HTTP handler that serves the calculation API.
// The calculator and provider are shared by all requests.
func NewHandler(logger *zap.Logger, calculator *mortgage.Calculator, provider rates.Provider,
	maxUploadSize int64, version string) http.Handler {
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

	h := &handler{
		logger:        logger,
		calculator:    calculator,
		provider:      provider,
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
		now:           time.Now,
	}

	mux := http.NewServeMux()

	// Single calculation from a JSON form payload
	mux.HandleFunc("/api/calculate", h.handleCalculate)

	// Batch calculation from an uploaded YAML configuration
	mux.HandleFunc("/api/calculate/upload", h.handleUpload)

	// Downloadable report for a single calculation
	mux.HandleFunc("/api/export", h.handleExport)

	// Current rate table
	mux.HandleFunc("/api/rates", h.handleRates)

	// Version endpoint for UI metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	return mux
}

type calculateRequest struct {
	Name      string                   `json:"name"`
	Applicant calculation.Applicant    `json:"applicant"`
	Inputs    mortgage.FinancingInputs `json:"inputs"`
}

type calculateResponse struct {
	calculation.Calculation
	Fields []mortgage.Field `json:"fields"`
}

type uploadResponse struct {
	Calculations []calculateResponse    `json:"calculations"`
	Warnings     []string               `json:"warnings,omitempty"`
	Duration     string                 `json:"duration"`
	Config       map[string]interface{} `json:"config,omitempty"`
}

type rateEntry struct {
	Product rates.Product `json:"product"`
	Label   string        `json:"label"`
	Rate    string        `json:"rate"`
}

func (h *handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCalculate"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	calc, status, err := h.calculateFromBody(w, r)
	if err != nil {
		h.respondErrorWithOp(w, status, err.Error(), op)
		return
	}

	h.writeJSON(w, http.StatusOK, newCalculateResponse(calc))
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleExport"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	exportFormat := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if exportFormat == "" {
		exportFormat = report.FormatHTML
	}
	if exportFormat != report.FormatHTML && exportFormat != report.FormatMarkdown {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("unsupported export format %q", exportFormat), op)
		return
	}

	calc, status, err := h.calculateFromBody(w, r)
	if err != nil {
		h.respondErrorWithOp(w, status, err.Error(), op)
		return
	}

	var content []byte
	contentType := "text/markdown; charset=utf-8"
	if exportFormat == report.FormatMarkdown {
		content = []byte(report.Markdown(calc, h.now()))
	} else {
		content, err = report.HTML(calc, h.now())
		if err != nil {
			h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
			return
		}
		contentType = "text/html; charset=utf-8"
	}

	h.logger.Info("report exported",
		zap.String("op", op),
		zap.String("id", calc.ID),
		zap.String("format", exportFormat),
	)

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.FileName(exportFormat)))
	w.Header().Set("X-Calculation-Id", calc.ID)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(content); err != nil {
		h.logger.Error("failed to write report", zap.String("op", op), zap.Error(err))
	}
}

// calculateFromBody decodes a calculateRequest and runs it. On failure the
// returned status is the one to answer with.
func (h *handler) calculateFromBody(w http.ResponseWriter, r *http.Request) (calculation.Calculation, int, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	var req calculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return calculation.Calculation{}, http.StatusRequestEntityTooLarge,
				fmt.Errorf("request exceeds limit of %d bytes", h.maxUploadSize)
		}
		return calculation.Calculation{}, http.StatusBadRequest, fmt.Errorf("failed to decode request: %v", err)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = req.Applicant.Name
	}

	calc, err := calculation.Run(r.Context(), h.logger, h.calculator, name, req.Applicant, req.Inputs)
	if err != nil {
		return calculation.Calculation{}, statusForError(err), err
	}
	return calc, http.StatusOK, nil
}

func (h *handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleUpload"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, "missing configuration file", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to read configuration: %v", err), op)
		return
	}

	configBytes := buf.Bytes()
	configMap, err := decodeYAMLToMap(configBytes)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("error reading config data, %v", err), op)
		return
	}

	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(configBytes))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	calculator, err := h.uploadCalculator(cfg)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	warnings := cfg.ValidateConfiguration()
	results, err := calculation.GetCalculations(r.Context(), h.logger, *cfg, calculator)
	if err != nil {
		h.respondErrorWithOp(w, statusForError(err), err.Error(), op)
		return
	}

	response := uploadResponse{
		Calculations: make([]calculateResponse, 0, len(results)),
		Warnings:     warnings,
		Duration:     time.Since(start).String(),
		Config:       configMap,
	}
	for _, result := range results {
		response.Calculations = append(response.Calculations, newCalculateResponse(result))
	}

	h.logger.Info("batch calculated",
		zap.String("op", op),
		zap.Int("applications", len(results)),
		zap.Duration("duration", time.Since(start)),
	)

	h.writeJSON(w, http.StatusOK, response)
}

// uploadCalculator applies the policy section of an uploaded configuration.
// Rates always come from the server's provider.
func (h *handler) uploadCalculator(cfg *config.Configuration) (*mortgage.Calculator, error) {
	if cfg.Policy == (config.PolicyConfig{}) {
		return h.calculator, nil
	}
	policy, err := cfg.ToPolicy()
	if err != nil {
		return nil, err
	}
	return mortgage.NewCalculator(h.logger, h.provider, policy)
}

func (h *handler) handleRates(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleRates"
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	table, err := rates.Snapshot(ctx, h.provider)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadGateway, err.Error(), op)
		return
	}

	entries := make([]rateEntry, 0, len(rates.Products))
	for _, product := range rates.Products {
		entries = append(entries, rateEntry{
			Product: product,
			Label:   product.Label(),
			Rate:    table[product].String(),
		})
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"rates": entries,
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

func newCalculateResponse(calc calculation.Calculation) calculateResponse {
	return calculateResponse{Calculation: calc, Fields: calc.Result.Fields()}
}

// statusForError maps input problems to 400 and failed rate lookups to 502.
func statusForError(err error) int {
	if validation.IsValidationError(err) {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}

func decodeYAMLToMap(data []byte) (map[string]interface{}, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return make(map[string]interface{}), nil
	}

	var result map[string]interface{}
	if err := yaml.Unmarshal(trimmed, &result); err != nil {
		return nil, err
	}
	if result == nil {
		result = make(map[string]interface{})
	}
	return result, nil
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("calculation request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
