package web

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/dxcodes/internal/audit"
	"github.com/JonMunkholm/dxcodes/internal/core"
	"github.com/JonMunkholm/dxcodes/internal/web/templates"
)

// multipartMemory is how much of a multipart body is held in memory before
// spilling to temporary files.
const multipartMemory = 32 << 20

// readAnalysisRequest decodes the multipart analysis form. A missing file
// part yields an empty FileName and an unknown mode an empty Mode; the
// service reports both.
func (s *Server) readAnalysisRequest(w http.ResponseWriter, r *http.Request) (core.AnalysisRequest, templates.FormState, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize)

	if err := r.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return core.AnalysisRequest{}, templates.FormState{}, err
	}

	mode, err := core.ParseMode(r.FormValue("mode"))
	if err != nil {
		mode = ""
	}

	req := core.AnalysisRequest{
		Mode:  mode,
		Start: r.FormValue("start"),
		End:   r.FormValue("end"),
		Code:  r.FormValue("code"),
	}
	form := templates.FormState{
		Mode:       mode,
		Start:      req.Start,
		End:        req.End,
		Code:       req.Code,
		Extensions: core.AcceptedExtensions(),
	}

	file, header, err := r.FormFile("file")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return req, form, nil
	case err != nil:
		return req, form, fmt.Errorf("read upload: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return req, form, fmt.Errorf("read upload: %w", err)
	}
	req.FileName = header.Filename
	req.Data = data
	return req, form, nil
}

// handleIndex renders the empty analysis page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	form := templates.FormState{
		Mode:       core.ModeRange,
		Extensions: core.AcceptedExtensions(),
	}
	renderComponent(w, r, http.StatusOK, templates.AnalyzePage(form, nil))
}

// handleAnalyzePage runs an analysis from the HTML form. HTMX requests get
// only the result fragment; plain form posts get the whole page.
func (s *Server) handleAnalyzePage(w http.ResponseWriter, r *http.Request) {
	ctx := WithRequestMetadata(r.Context(), r)

	req, form, err := s.readAnalysisRequest(w, r)
	if err == nil {
		var res *core.AnalysisResult
		res, err = s.service.Analyze(ctx, req)
		if err == nil {
			if isHTMX(r) {
				renderComponent(w, r, http.StatusOK, templates.Result(res))
				return
			}
			renderComponent(w, r, http.StatusOK, templates.AnalyzePage(form, templates.Result(res)))
			return
		}
	}

	status := statusFor(err)
	if isHTMX(r) {
		respondError(w, r, err, status)
		return
	}
	slog.WarnContext(r.Context(), "analysis error", "status", status, "error", err)
	renderComponent(w, r, status, templates.AnalyzePage(form, alertFor(err)))
}

// handleAnalyzeAPI runs an analysis and returns the result as JSON.
func (s *Server) handleAnalyzeAPI(w http.ResponseWriter, r *http.Request) {
	ctx := WithRequestMetadata(r.Context(), r)

	req, _, err := s.readAnalysisRequest(w, r)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	res, err := s.service.Analyze(ctx, req)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleExportRange filters an upload by range and streams the matching
// rows as CSV in one request.
func (s *Server) handleExportRange(w http.ResponseWriter, r *http.Request) {
	ctx := WithRequestMetadata(r.Context(), r)

	req, _, err := s.readAnalysisRequest(w, r)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	export, err := s.service.ExportRange(ctx, req.FileName, req.Data, req.Start, req.End)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeExport(w, r, export)
}

// handleExportDownload serves the CSV of a recent range analysis.
func (s *Server) handleExportDownload(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "exportID")

	export, err := s.service.Export(id)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeExport(w, r, export)
}

func writeExport(w http.ResponseWriter, r *http.Request, e *core.Export) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", e.FileName))
	w.WriteHeader(http.StatusOK)

	if err := e.WriteCSV(w); err != nil {
		slog.ErrorContext(r.Context(), "export write error", "id", e.ID, "error", err)
	}
}

// handleListCategories returns the chapter table.
func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, core.Categories())
}

// lookupResponse is returned by the category lookup endpoint.
type lookupResponse struct {
	Match    bool                `json:"match"`
	Category *core.CategoryRange `json:"category,omitempty"`
}

// handleLookupCategory returns the chapter containing ?start=&end=.
func (s *Server) handleLookupCategory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	c, err := s.service.LookupCategory(q.Get("start"), q.Get("end"))
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, lookupResponse{Match: c != nil, Category: c})
}

// handleAuditList returns the newest audit entries. ?limit= caps the count.
func (s *Server) handleAuditList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:   "invalid limit",
				Message: "limit must be a non-negative integer",
				Code:    "VAL001",
			})
			return
		}
		limit = n
	}

	entries, err := s.service.RecentAudit(r.Context(), limit)
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	if entries == nil {
		entries = []audit.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// healthResponse reports liveness and analysis capacity.
type healthResponse struct {
	Status   string             `json:"status"`
	Time     time.Time          `json:"time"`
	Analyses core.LimiterStatus `json:"analyses"`
	Formats  []string           `json:"formats"`
	Chapters int                `json:"chapters"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:   "ok",
		Time:     time.Now().UTC(),
		Analyses: s.service.LimiterStatus(),
		Formats:  core.AcceptedExtensions(),
		Chapters: core.CategoryCount(),
	})
}
