// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package harvest runs one provider adapter over a keyword list and
// accumulates the records it returns.
package harvest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/litharvest/internal/keywords"
	"github.com/pdiddy/litharvest/internal/source"
	"github.com/pdiddy/litharvest/pkg/types"
)

// Collector drives a single adapter across keywords, one at a time, in
// input order. A failing keyword is logged and recorded in the outcomes;
// it never stops the keywords after it.
type Collector struct {
	Adapter source.Adapter
	Window  types.DateWindow
	Logger  *zap.Logger

	// RunID tags log lines and the manifest. A random UUID is used when empty.
	RunID string
}

// KeywordOutcome records what happened for one keyword.
type KeywordOutcome struct {
	Keyword  string
	Count    int
	Err      error
	Duration time.Duration
}

// OK reports whether the keyword was fetched without error.
func (o KeywordOutcome) OK() bool { return o.Err == nil }

// Result is the accumulated output of a Collector run. Records are in
// arrival order and are not deduplicated: the same publication found by two
// keywords appears twice, once per keyword.
type Result struct {
	RunID    string
	Provider string
	Window   types.DateWindow
	Records  []types.CanonicalRecord
	Outcomes []KeywordOutcome
}

// Failed returns the outcomes of keywords that ended in an error.
func (r Result) Failed() []KeywordOutcome {
	var out []KeywordOutcome
	for _, o := range r.Outcomes {
		if !o.OK() {
			out = append(out, o)
		}
	}
	return out
}

// WriteSummary prints the one-line run summary.
func (r Result) WriteSummary(w io.Writer) {
	failed := len(r.Failed())
	fmt.Fprintf(w, "\n%s summary: %d records from %d keywords (%d succeeded, %d failed), window %s\n",
		r.Provider, len(r.Records), len(r.Outcomes), len(r.Outcomes)-failed, failed, r.Window)
}

// errPanic marks an adapter panic converted into a keyword failure.
var errPanic = errors.New("adapter panic")

// Run fetches every keyword. It returns an error only for an empty keyword
// list; per-keyword failures are reported through Result.Outcomes.
func (c *Collector) Run(ctx context.Context, kws []string) (Result, error) {
	if len(kws) == 0 {
		return Result{}, keywords.ErrNoKeywords
	}

	runID := c.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	log := c.Logger
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("provider", c.Adapter.Name()), zap.String("run_id", runID))

	res := Result{
		RunID:    runID,
		Provider: c.Adapter.Name(),
		Window:   c.Window,
		Records:  []types.CanonicalRecord{},
		Outcomes: make([]KeywordOutcome, 0, len(kws)),
	}

	log.Info("harvest started", zap.Int("keywords", len(kws)), zap.Stringer("window", c.Window))
	for _, kw := range kws {
		klog := log.With(zap.String("keyword", kw))
		if err := ctx.Err(); err != nil {
			res.Outcomes = append(res.Outcomes, KeywordOutcome{Keyword: kw, Err: err})
			klog.Warn("keyword skipped", zap.Error(err))
			continue
		}

		klog.Info("fetching keyword")
		start := time.Now()
		records, err := c.fetch(ctx, kw)
		out := KeywordOutcome{Keyword: kw, Count: len(records), Err: err, Duration: time.Since(start)}
		res.Outcomes = append(res.Outcomes, out)

		if err != nil {
			klog.Error("keyword failed", zap.Error(err), zap.Duration("elapsed", out.Duration))
			continue
		}
		res.Records = append(res.Records, records...)
		klog.Info("keyword completed", zap.Int("count", len(records)), zap.Duration("elapsed", out.Duration))
	}

	log.Info("harvest finished",
		zap.Int("count", len(res.Records)),
		zap.Int("keywords", len(res.Outcomes)),
		zap.Int("failed", len(res.Failed())))
	return res, nil
}

// fetch calls the adapter, turning a panic into an error so one bad
// response cannot take down the run.
func (c *Collector) fetch(ctx context.Context, kw string) (records []types.CanonicalRecord, err error) {
	defer func() {
		if p := recover(); p != nil {
			records, err = nil, fmt.Errorf("%w: %v", errPanic, p)
		}
	}()
	records, err = c.Adapter.Fetch(ctx, kw, c.Window)
	if err != nil {
		return nil, err
	}
	return records, nil
}
