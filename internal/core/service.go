package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/dxcodes/internal/audit"
)

// DefaultPreviewRows is how many filtered rows a range report previews.
const DefaultPreviewRows = 5

// NoCategoryWarning is reported when a range is not fully inside any chapter.
const NoCategoryWarning = "Diagnosis code range does not match any predefined category."

// Messages for missing parameters.
const (
	msgMissingRange = "Please enter both start and end codes."
	msgMissingCode  = "Please enter a diagnosis code."
	msgMissingMode  = "Please choose an analysis mode."
)

// auditTimeout bounds how long recording an audit entry may take.
const auditTimeout = 5 * time.Second

// Options configures a Service. Zero values select the defaults.
type Options struct {
	PreviewRows   int           // rows shown in a range preview
	MaxConcurrent int           // analyses allowed to run at once
	MaxWait       time.Duration // wait for a free analysis slot
	CacheSize     int           // parsed datasets kept in memory; 0 disables
	ExportTTL     time.Duration // how long range results stay downloadable
}

// Service runs analyses. It is safe for concurrent use; each analysis works
// on its own dataset and shares only the read-only chapter table.
type Service struct {
	opts    Options
	limiter *AnalysisLimiter
	cache   *datasetCache
	exports *exportStore
	audit   audit.Store
}

// NewService creates a Service. A nil store disables the audit trail.
func NewService(opts Options, store audit.Store) (*Service, error) {
	if opts.PreviewRows <= 0 {
		opts.PreviewRows = DefaultPreviewRows
	}
	if store == nil {
		store = audit.Nop{}
	}

	cache, err := newDatasetCache(opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("create dataset cache: %w", err)
	}

	return &Service{
		opts:    opts,
		limiter: NewAnalysisLimiter(opts.MaxConcurrent, opts.MaxWait),
		cache:   cache,
		exports: newExportStore(opts.ExportTTL),
		audit:   store,
	}, nil
}

// Analyze runs one analysis. Checks happen in this order: a file was
// uploaded, it parses, it has a Diagnosis column, the mode's parameters are
// present. User-recoverable failures are returned as *AnalysisError.
// ErrTooManyAnalyses is returned when the service is saturated.
//
// A range result with matching rows stays downloadable through Export for
// the export TTL under its ExportID.
func (s *Service) Analyze(ctx context.Context, req AnalysisRequest) (*AnalysisResult, error) {
	res, export, err := s.run(ctx, req)
	if err != nil {
		return nil, err
	}
	if export != nil && len(export.Records) > 0 {
		res.Range.ExportID = export.ID
		s.exports.put(export)
	}
	return res, nil
}

// AnalyzeRange runs a range analysis and returns its full filtered rows
// alongside the result. Nothing is held for later download.
func (s *Service) AnalyzeRange(ctx context.Context, req AnalysisRequest) (*AnalysisResult, *Export, error) {
	req.Mode = ModeRange
	return s.run(ctx, req)
}

func (s *Service) run(ctx context.Context, req AnalysisRequest) (*AnalysisResult, *Export, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		slog.WarnContext(ctx, "analysis rejected", "error", err, "active", s.limiter.ActiveCount())
		return nil, nil, err
	}
	defer s.limiter.Release()

	start := time.Now()
	result, export, err := s.analyze(req)
	elapsed := time.Since(start)

	if result != nil {
		result.Duration = elapsed
	}
	s.record(ctx, req, result, err, elapsed)

	if err != nil {
		kind, _ := KindOf(err)
		slog.InfoContext(ctx, "analysis failed",
			"mode", req.Mode,
			"file", req.FileName,
			"kind", kind.String(),
			"error", err,
		)
		return nil, nil, err
	}

	slog.InfoContext(ctx, "analysis completed",
		"id", result.ID,
		"mode", result.Mode,
		"format", result.Format,
		"rows", result.TotalRows,
		"cached", result.Cached,
		"duration_ms", elapsed.Milliseconds(),
	)
	return result, export, nil
}

// analyze works on a possibly cached dataset, so nothing it returns may
// share memory with ds.
func (s *Service) analyze(req AnalysisRequest) (*AnalysisResult, *Export, error) {
	if req.FileName == "" {
		return nil, nil, missingInput()
	}

	ds, cached, err := s.load(req.FileName, req.Data)
	if err != nil {
		return nil, nil, err
	}

	result := &AnalysisResult{
		ID:        uuid.New().String(),
		Mode:      req.Mode,
		FileName:  req.FileName,
		Format:    ds.Format,
		TotalRows: ds.Len(),
		Header:    slices.Clone(ds.Header),
		Cached:    cached,
	}

	var export *Export
	switch req.Mode {
	case ModeRange:
		report, err := s.runRange(ds, req.Start, req.End)
		if err != nil {
			return nil, nil, err
		}
		result.Range = report
		export = &Export{
			ID:       result.ID,
			FileName: report.ExportName,
			Header:   slices.Clone(ds.Header),
			Records:  ds.Records(report.Rows),
		}
	case ModeCode:
		report, err := runCode(ds, req.Code)
		if err != nil {
			return nil, nil, err
		}
		result.Code = report
	default:
		return nil, nil, missingParameter(msgMissingMode)
	}
	return result, export, nil
}

// load parses the upload, consulting the dataset cache first.
func (s *Service) load(fileName string, data []byte) (*Dataset, bool, error) {
	def, err := formatFor(fileName)
	if err != nil {
		return nil, false, err
	}

	key := datasetKey(def.Info.Key, data)
	if ds, ok := s.cache.get(key); ok {
		return ds, true, nil
	}

	ds, err := parseWith(def, data)
	if err != nil {
		return nil, false, err
	}
	s.cache.add(key, ds)
	return ds, false, nil
}

func (s *Service) runRange(ds *Dataset, rawStart, rawEnd string) (*RangeReport, error) {
	start, end := Normalize(rawStart), Normalize(rawEnd)
	if start == "" || end == "" {
		return nil, missingParameter(msgMissingRange)
	}

	rows := FilterByRange(ds, start, end)
	for i := range rows {
		rows[i].Values = slices.Clone(rows[i].Values)
	}
	report := &RangeReport{
		Start:      start,
		End:        end,
		Count:      len(rows),
		Rows:       rows,
		ExportName: ExportFileName(rawStart, rawEnd),
	}

	if c, ok := LookupCategory(start, end); ok {
		report.Category = &c
	} else {
		report.Warning = NoCategoryWarning
	}

	n := min(s.opts.PreviewRows, len(rows))
	report.Preview = ds.Records(rows[:n])
	return report, nil
}

func runCode(ds *Dataset, raw string) (*CodeReport, error) {
	code := Normalize(raw)
	if code == "" {
		return nil, missingParameter(msgMissingCode)
	}
	report := AnalyzeCode(ds, code)
	return &report, nil
}

// Export returns a recent range result by its analysis ID.
func (s *Service) Export(id string) (*Export, error) {
	return s.exports.get(id)
}

// ExportRange runs a range analysis and returns its filtered rows ready for
// download. Used by the one-shot export endpoint.
func (s *Service) ExportRange(ctx context.Context, fileName string, data []byte, start, end string) (*Export, error) {
	_, export, err := s.AnalyzeRange(ctx, AnalysisRequest{
		FileName: fileName,
		Data:     data,
		Start:    start,
		End:      end,
	})
	if err != nil {
		return nil, err
	}
	return export, nil
}

// LookupCategory normalizes a raw range and returns the chapter containing
// it, or nil when none does. Blank bounds are a missing parameter.
func (s *Service) LookupCategory(rawStart, rawEnd string) (*CategoryRange, error) {
	start, end := Normalize(rawStart), Normalize(rawEnd)
	if start == "" || end == "" {
		return nil, missingParameter(msgMissingRange)
	}
	c, ok := LookupCategory(start, end)
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// RecentAudit lists the newest audit entries.
func (s *Service) RecentAudit(ctx context.Context, limit int) ([]audit.Entry, error) {
	return s.audit.List(ctx, limit)
}

// LimiterStatus reports analysis slot usage.
func (s *Service) LimiterStatus() LimiterStatus {
	return s.limiter.Status()
}

// WaitForAnalyses blocks until in-flight analyses finish or ctx is done.
func (s *Service) WaitForAnalyses(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// record writes the audit entry for one attempt. Failures are logged only.
func (s *Service) record(ctx context.Context, req AnalysisRequest, res *AnalysisResult, err error, elapsed time.Duration) {
	e := audit.Entry{
		ID:         uuid.New().String(),
		CreatedAt:  time.Now(),
		Action:     actionFor(req.Mode),
		Outcome:    audit.OutcomeOK,
		FileName:   req.FileName,
		FileSize:   int64(len(req.Data)),
		StartCode:  req.Start,
		EndCode:    req.End,
		QueryCode:  req.Code,
		DurationMs: elapsed.Milliseconds(),
		IPAddress:  IPAddressFromContext(ctx),
		UserAgent:  UserAgentFromContext(ctx),
	}

	switch {
	case err != nil:
		e.Outcome = audit.OutcomeError
		var ae *AnalysisError
		if errors.As(err, &ae) && ae.Kind.Warning() {
			e.Outcome = audit.OutcomeWarning
		}
		e.ErrorCode = MapError(err).Code
	case res != nil:
		e.ID = res.ID
		e.Format = res.Format
		e.TotalRows = res.TotalRows
		if r := res.Range; r != nil {
			e.ResultCount = r.Count
			if r.Category != nil {
				e.Category = r.Category.Name
			} else {
				e.Outcome = audit.OutcomeWarning
			}
		}
		if c := res.Code; c != nil {
			e.ResultCount = c.PrefixCount
			if cat, ok := ClassifyCode(c.Code); ok {
				e.Category = cat.Name
			}
		}
	}

	auditCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditTimeout)
	defer cancel()
	if err := s.audit.Record(auditCtx, e); err != nil {
		slog.ErrorContext(ctx, "failed to record audit entry", "id", e.ID, "error", err)
	}
}

func actionFor(m Mode) audit.Action {
	if m == ModeCode {
		return audit.ActionCode
	}
	return audit.ActionRange
}
