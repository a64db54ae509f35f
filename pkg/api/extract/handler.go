// Package extract provides HTTP handlers for statement extraction.
package extract

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"filing_extract/pkg/config"
	"filing_extract/pkg/core/edgar"
	"filing_extract/pkg/core/report"
	"filing_extract/pkg/core/statements"
	"filing_extract/pkg/metrics"
	"filing_extract/pkg/models"
)

// maxBodyBytes bounds an uploaded submission
const maxBodyBytes = 64 << 20

// Response is the JSON body of a successful extraction
type Response struct {
	Header     models.HeaderFields             `json:"header"`
	HasData    bool                            `json:"has_data"`
	Statements *statements.FinancialStatements `json:"statements"`
}

// Handler holds dependencies for extraction endpoints
type Handler struct {
	Forms   []string
	Shares  statements.SharesFinder
	Metrics *metrics.Metrics
}

// NewHandler creates a new extraction handler
func NewHandler(forms []string, shares statements.SharesFinder, m *metrics.Metrics) *Handler {
	return &Handler{Forms: forms, Shares: shares, Metrics: m}
}

// HandleExtract handles POST /api/extract
// The body is a raw EDGAR submission. Query parameters:
//   - forms: comma separated document types to search first (default from config)
//   - format: json (default), markdown or html
//   - file_name: recorded as the filing's file name
func (h *Handler) HandleExtract(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != "POST" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	query := r.URL.Query()
	forms := h.Forms
	if q := query.Get("forms"); q != "" {
		forms = config.SplitList(q)
	}
	fileName := query.Get("file_name")
	if fileName == "" {
		fileName = "upload.txt"
	}

	buf := string(body)
	fields := edgar.ParseHeader(buf)
	fields[models.FieldFileName] = fileName

	start := time.Now()
	fs, err := statements.NewExtractor(forms, h.Shares).Extract(buf)
	if err != nil {
		h.Metrics.RecordFiling("api", metrics.OutcomeFailed, time.Since(start))
		http.Error(w, fmt.Sprintf("Extraction failed: %v", err), http.StatusUnprocessableEntity)
		return
	}
	outcome := metrics.OutcomeLoaded
	if !fs.HasData() {
		outcome = metrics.OutcomeWithoutData
	}
	h.Metrics.RecordFiling("api", outcome, time.Since(start))

	switch query.Get("format") {
	case "markdown", "html":
		h.writeReport(w, query.Get("format"), fields, fs)
	default:
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Response{Header: fields, HasData: fs.HasData(), Statements: fs})
	}
}

func (h *Handler) writeReport(w http.ResponseWriter, format string, fields models.HeaderFields, fs *statements.FinancialStatements) {
	if !fs.HasData() {
		http.Error(w, "Financial statements not found", http.StatusNotFound)
		return
	}
	rec, err := fs.Record(fields)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	md := report.Markdown(rec)
	if format == "markdown" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		io.WriteString(w, md)
		return
	}

	html, err := report.HTML(md)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, html)
}

// HandleHealth handles GET /health
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
