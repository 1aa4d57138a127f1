package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	pkgerrors "github.com/giggleglory/backoffice/pkg/errors"
	"github.com/giggleglory/backoffice/pkg/logger"
	"github.com/giggleglory/backoffice/pkg/metrics"
	"github.com/giggleglory/backoffice/pkg/spreadsheet"
)

const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Result summarises one import. Count is the number of parsed rows.
type Result struct {
	Count int         `json:"count"`
	Rows  []RowResult `json:"rows"`
}

// RowResult is the outcome of one spreadsheet row. Row is the sheet row number.
type RowResult struct {
	Row    int    `json:"row"`
	Key    string `json:"key"`
	Status string `json:"status"`
	Code   string `json:"code,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Failed returns the rows that did not import.
func (r *Result) Failed() []RowResult {
	var out []RowResult
	for _, row := range r.Rows {
		if row.Status == StatusFailed {
			out = append(out, row)
		}
	}
	return out
}

// Service runs bulk spreadsheet imports.
type Service struct {
	dispatcher *Dispatcher
	workers    int
	limiter    *Limiter
	metrics    *metrics.ImportMetrics
	logg       *logger.Logger
}

// ServiceParams groups the importer dependencies.
type ServiceParams struct {
	Dispatcher *Dispatcher
	Workers    int
	Limiter    *Limiter
	Metrics    *metrics.ImportMetrics
	Logger     *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Dispatcher == nil {
		return nil, fmt.Errorf("dispatcher required")
	}
	workers := params.Workers
	if workers <= 0 {
		workers = 1
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &Service{
		dispatcher: params.Dispatcher,
		workers:    workers,
		limiter:    params.Limiter,
		metrics:    params.Metrics,
		logg:       logg,
	}, nil
}

// Import parses data and upserts every row into entity. Every row is
// attempted; when any fails the returned error is IMPORT_FAILED and carries
// the per-row outcomes. Rows already written are kept.
func (s *Service) Import(ctx context.Context, entity string, data []byte) (*Result, error) {
	release, err := s.limiter.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()
	s.metrics.Acquired()
	defer s.metrics.Released()

	start := time.Now()
	ctx = s.logg.WithImport(ctx, uuid.NewString(), entity)

	// Parse errors win over an unknown entity, but only known kinds become
	// metric labels.
	kind, kindErr := ParseEntityKind(entity)
	label := string(kind)
	if kindErr != nil {
		label = "unsupported"
	}

	rows, err := spreadsheet.Parse(data)
	if err != nil {
		s.metrics.ObserveImport(label, "parse_error", time.Since(start))
		s.logg.Warn(ctx, "import.parse_failed")
		return nil, err
	}
	if kindErr != nil {
		s.metrics.ObserveImport(label, "unsupported", time.Since(start))
		return nil, kindErr
	}

	s.logg.Info(s.logg.WithField(ctx, "rows", len(rows)), "import.start")

	result := &Result{Count: len(rows), Rows: make([]RowResult, len(rows))}
	s.run(ctx, kind, rows, result.Rows)

	failed := result.Failed()
	s.metrics.AddRows(string(kind), StatusOK, len(rows)-len(failed))
	s.metrics.AddRows(string(kind), StatusFailed, len(failed))

	doneCtx := s.logg.WithFields(ctx, map[string]any{
		"rows":        len(rows),
		"failed":      len(failed),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	if len(failed) == 0 {
		s.metrics.ObserveImport(string(kind), "success", time.Since(start))
		s.logg.Info(doneCtx, "import.complete")
		return result, nil
	}

	s.metrics.ObserveImport(string(kind), StatusFailed, time.Since(start))
	var combined error
	for _, row := range failed {
		combined = multierr.Append(combined, fmt.Errorf("row %d: %s", row.Row, row.Error))
	}
	err = pkgerrors.Wrap(pkgerrors.CodeImportFailed, combined,
		fmt.Sprintf("import failed: %d of %d rows failed", len(failed), len(rows))).
		WithDetails(map[string]any{
			"count":  len(rows),
			"failed": len(failed),
			"rows":   failed,
		})
	s.logg.Error(doneCtx, "import.complete", err)
	return result, err
}

// run partitions rows by natural key and applies each partition in file
// order on a bounded pool. out[i] receives the outcome of rows[i].
func (s *Service) run(ctx context.Context, kind EntityKind, rows []spreadsheet.Row, out []RowResult) {
	groups := s.partition(kind, rows)

	var g errgroup.Group
	g.SetLimit(s.workers)
	for _, idxs := range groups {
		g.Go(func() error {
			for _, i := range idxs {
				row := rows[i]
				res := RowResult{Row: row.Line, Key: s.dispatcher.NaturalKey(kind, row), Status: StatusOK}
				if err := s.dispatcher.Dispatch(ctx, kind, row); err != nil {
					res.Status = StatusFailed
					res.Error = rowMessage(err)
					if typed := pkgerrors.As(err); typed != nil {
						res.Code = string(typed.Code())
					}
					s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
						"row":   res.Row,
						"key":   res.Key,
						"error": err.Error(),
					}), "import.row_failed")
				}
				out[i] = res
			}
			return nil
		})
	}
	_ = g.Wait()
}

// partition groups row indexes by natural key in order of first appearance.
// Rows without a key run alone.
func (s *Service) partition(kind EntityKind, rows []spreadsheet.Row) [][]int {
	var groups [][]int
	byKey := map[string]int{}
	for i, row := range rows {
		key := s.dispatcher.NaturalKey(kind, row)
		if key == "" {
			groups = append(groups, []int{i})
			continue
		}
		if g, ok := byKey[key]; ok {
			groups[g] = append(groups[g], i)
			continue
		}
		byKey[key] = len(groups)
		groups = append(groups, []int{i})
	}
	return groups
}

func rowMessage(err error) string {
	if typed := pkgerrors.As(err); typed != nil {
		return typed.Message()
	}
	return err.Error()
}
