// Package audit records one entry per analysis attempt.
//
// The trail holds metadata only: who ran which analysis, on what file name,
// with which parameters and what came out. Dataset contents are never stored,
// and analyses never read the trail back.
package audit

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"
)

// Action is the kind of analysis that was attempted.
type Action string

const (
	ActionRange Action = "analyze_range"
	ActionCode  Action = "analyze_code"
)

// Outcome summarizes how an analysis ended.
type Outcome string

const (
	OutcomeOK      Outcome = "ok"
	OutcomeWarning Outcome = "warning"
	OutcomeError   Outcome = "error"
)

// List limits. A missing limit selects DefaultListLimit; larger requests
// are capped at MaxListLimit.
const (
	DefaultListLimit = 100
	MaxListLimit     = DefaultListLimit * 10
)

// Entry is a single audit record.
type Entry struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"createdAt"`
	Action      Action    `json:"action"`
	Outcome     Outcome   `json:"outcome"`
	ErrorCode   string    `json:"errorCode,omitempty"`
	FileName    string    `json:"fileName,omitempty"`
	FileSize    int64     `json:"fileSize"`
	Format      string    `json:"format,omitempty"`
	StartCode   string    `json:"startCode,omitempty"`
	EndCode     string    `json:"endCode,omitempty"`
	QueryCode   string    `json:"queryCode,omitempty"`
	TotalRows   int       `json:"totalRows"`
	ResultCount int       `json:"resultCount"`
	Category    string    `json:"category,omitempty"`
	DurationMs  int64     `json:"durationMs"`
	IPAddress   string    `json:"ipAddress,omitempty"`
	UserAgent   string    `json:"userAgent,omitempty"`
}

// Store persists audit entries.
type Store interface {
	Record(ctx context.Context, e Entry) error
	List(ctx context.Context, limit int) ([]Entry, error)
	Purge(ctx context.Context, olderThan time.Time) (int64, error)
	Close() error
}

// Drivers accepted by Open.
const (
	DriverNone     = "none"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Open connects the store named by driver. DriverNone (or "") returns a
// store that discards everything.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch strings.ToLower(driver) {
	case "", DriverNone:
		return Nop{}, nil
	case DriverPostgres:
		return OpenPostgres(ctx, dsn)
	case DriverSQLite:
		return OpenSQLite(ctx, dsn)
	default:
		return nil, fmt.Errorf("unknown audit driver: %s", driver)
	}
}

// Nop is a Store that keeps nothing.
type Nop struct{}

func (Nop) Record(context.Context, Entry) error             { return nil }
func (Nop) List(context.Context, int) ([]Entry, error)      { return nil, nil }
func (Nop) Purge(context.Context, time.Time) (int64, error) { return 0, nil }
func (Nop) Close() error                                    { return nil }

// normalizeIP strips a port from an address and returns "" for anything
// that does not parse as an IP.
func normalizeIP(addr string) string {
	if addr == "" {
		return ""
	}
	host := addr
	if h, _, err := net.SplitHostPort(addr); err == nil {
		host = h
	}
	if ip := net.ParseIP(host); ip != nil {
		return ip.String()
	}
	return ""
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	}
	return limit
}
