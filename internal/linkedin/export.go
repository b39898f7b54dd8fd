package linkedin

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goliatone/go-crosspost/internal/logging"
	"github.com/goliatone/go-crosspost/pkg/interfaces"
)

// DefaultExportDir is where exported snapshot files are written.
const DefaultExportDir = ".temp/linkedin-export"

// Domain maps a snapshot domain to its output file.
type Domain struct {
	Name  string
	File  string
	Label string
}

// DefaultDomains are the snapshot domains exported by default.
var DefaultDomains = []Domain{
	{Name: "MEMBER_SHARE_INFO", File: "member-share-info.json", Label: "Posts & Shares"},
	{Name: "ALL_COMMENTS", File: "all-comments.json", Label: "Comments"},
	{Name: "ARTICLES", File: "articles.json", Label: "Articles"},
}

// Fetcher returns snapshot records for a domain.
type Fetcher interface {
	Fetch(ctx context.Context, domain string) ([]json.RawMessage, error)
}

// ExportResult summarises an export run.
type ExportResult struct {
	Written map[string]int
	Failed  map[string]error
}

// Exporter writes snapshot domains to JSON files.
type Exporter struct {
	fetcher Fetcher
	dir     string
	logger  interfaces.Logger
}

// NewExporter constructs an Exporter writing into dir.
func NewExporter(fetcher Fetcher, dir string, logger interfaces.Logger) *Exporter {
	if dir == "" {
		dir = DefaultExportDir
	}
	return &Exporter{fetcher: fetcher, dir: dir, logger: ensureLogger(logger)}
}

// Export fetches each domain and writes it to its file. A failing domain is
// recorded and the remaining domains are still exported.
func (e *Exporter) Export(ctx context.Context, domains []Domain) (*ExportResult, error) {
	if len(domains) == 0 {
		domains = DefaultDomains
	}
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return nil, fmt.Errorf("linkedin export: create %s: %w", e.dir, err)
	}

	result := &ExportResult{Written: map[string]int{}, Failed: map[string]error{}}
	for _, domain := range domains {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		logger := logging.WithFields(e.logger, map[string]any{"domain": domain.Name})

		records, err := e.fetcher.Fetch(ctx, domain.Name)
		if err != nil {
			logger.Error("linkedin.export.domain_failed", "error", err)
			result.Failed[domain.Name] = err
			continue
		}
		if records == nil {
			records = []json.RawMessage{}
		}

		target := filepath.Join(e.dir, domain.File)
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			result.Failed[domain.Name] = err
			continue
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			logger.Error("linkedin.export.write_failed", "path", target, "error", err)
			result.Failed[domain.Name] = err
			continue
		}
		logger.Info("linkedin.export.domain_saved", "label", domain.Label, "records", len(records), "path", target)
		result.Written[domain.Name] = len(records)
	}
	return result, nil
}

func ensureLogger(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return logging.NoOp()
	}
	return logger
}
