package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"filing_extract/pkg/config"
	"filing_extract/pkg/core/edgar"
	"filing_extract/pkg/core/statements"
	"filing_extract/pkg/logger"
	"filing_extract/pkg/metrics"
	"filing_extract/pkg/models"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// FilingReader returns the raw text of a submission.
// edgar.FilingSource is the file-based implementation.
type FilingReader interface {
	Read(path string) (string, error)
}

// StatementExtractor locates and extracts the financial statements of a submission
type StatementExtractor interface {
	Extract(buf string) (*statements.FinancialStatements, error)
}

// Sink persists extracted records. Replace must swap any record sharing the
// key atomically.
type Sink interface {
	Replace(ctx context.Context, rec *models.FilingRecord) error
	UpdateOutstandingShares(ctx context.Context, key models.FilingKey, fileName string, shares int64) (bool, error)
}

// Options tune a batch run
type Options struct {
	Forms       []string
	Concurrency int
	RatePerSec  float64 // 0 disables pacing
	Logger      *logger.Logger
	Metrics     *metrics.Metrics
}

// Orchestrator runs filings through extraction and persistence. Each filing
// is handled start to finish by one worker, and writes for the same key are
// serialised.
type Orchestrator struct {
	reader    FilingReader
	extractor StatementExtractor
	shares    statements.SharesFinder
	sink      Sink

	forms       []string
	concurrency int
	limiter     *rate.Limiter
	log         *logger.Logger
	metrics     *metrics.Metrics
	locks       *keyLocks
}

// NewOrchestrator creates an orchestrator with the given collaborators
func NewOrchestrator(reader FilingReader, extractor StatementExtractor, shares statements.SharesFinder, sink Sink, opts Options) *Orchestrator {
	o := &Orchestrator{
		reader:      reader,
		extractor:   extractor,
		shares:      shares,
		sink:        sink,
		forms:       opts.Forms,
		concurrency: opts.Concurrency,
		log:         opts.Logger,
		metrics:     opts.Metrics,
		locks:       newKeyLocks(),
	}
	if o.concurrency < 1 {
		o.concurrency = 1
	}
	if o.log == nil {
		o.log = logger.New(logger.Config{Level: "none"})
	}
	if opts.RatePerSec > 0 {
		o.limiter = rate.NewLimiter(rate.Limit(opts.RatePerSec), 1)
	}
	return o
}

// Result is the outcome of one filing
type Result struct {
	Path    string           `json:"path"`
	Key     models.FilingKey `json:"key"`
	Outcome string           `json:"outcome"`
	Err     error            `json:"-"`
}

// Summary totals a batch run
type Summary struct {
	RunID         string        `json:"run_id"`
	Processed     int           `json:"processed"`
	Loaded        int           `json:"loaded"`
	Skipped       int           `json:"skipped"`
	Failed        int           `json:"failed"`
	SharesUpdated int           `json:"shares_updated"`
	Duration      time.Duration `json:"duration"`
	Failures      []Result      `json:"-"`
}

func (s *Summary) add(r Result) {
	s.Processed++
	switch r.Outcome {
	case metrics.OutcomeLoaded:
		s.Loaded++
	case metrics.OutcomeSharesUpdated:
		s.SharesUpdated++
	case metrics.OutcomeFailed:
		s.Failed++
		s.Failures = append(s.Failures, r)
	default:
		s.Skipped++
	}
}

// Run processes every path in the given mode. A filing that fails is logged
// and counted; it never stops the batch. Cancelling ctx stops dispatching new
// filings and returns ctx's error along with the partial summary.
func (o *Orchestrator) Run(ctx context.Context, mode string, paths []string) (*Summary, error) {
	process := o.ProcessFiling
	switch mode {
	case config.ModeLoad:
	case config.ModeShares:
		process = o.UpdateShares
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}

	summary := &Summary{RunID: uuid.NewString()}
	runLog := o.log.WithRunID(summary.RunID)
	runLog.Info().Str("mode", mode).Int("files", len(paths)).Int("workers", o.concurrency).Msg("starting run")
	start := time.Now()

	jobs := make(chan string)
	results := make(chan Result)

	var wg sync.WaitGroup
	for i := 0; i < o.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				results <- o.timed(ctx, mode, path, process)
			}
		}()
	}

	var dispatchErr error
	go func() {
		defer close(jobs)
		for _, path := range paths {
			if o.limiter != nil {
				if err := o.limiter.Wait(ctx); err != nil {
					dispatchErr = err
					return
				}
			}
			select {
			case jobs <- path:
			case <-ctx.Done():
				dispatchErr = ctx.Err()
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	for r := range results {
		summary.add(r)
		if r.Err != nil {
			runLog.Error().Str("file", r.Path).Err(r.Err).Msg("filing failed")
		}
	}

	summary.Duration = time.Since(start)
	runLog.Info().
		Int("processed", summary.Processed).
		Int("loaded", summary.Loaded).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Int("shares_updated", summary.SharesUpdated).
		Dur("duration", summary.Duration).
		Msg("run complete")

	return summary, dispatchErr
}

func (o *Orchestrator) timed(ctx context.Context, mode, path string, process func(context.Context, string) Result) Result {
	if o.metrics != nil {
		o.metrics.FilingsInFlight.Inc()
		defer o.metrics.FilingsInFlight.Dec()
	}
	start := time.Now()
	r := process(ctx, path)
	o.metrics.RecordFiling(mode, r.Outcome, time.Since(start))
	return r
}

// readFiling loads a submission and its header fields
func (o *Orchestrator) readFiling(path string) (string, models.HeaderFields, error) {
	buf, err := o.reader.Read(path)
	if err != nil {
		return "", nil, err
	}
	fields := edgar.ParseHeader(buf)
	fields[models.FieldFileName] = filepath.Base(path)
	return buf, fields, nil
}

// ProcessFiling extracts one submission and replaces its stored record.
// Submissions without all three statements are skipped, not failed.
func (o *Orchestrator) ProcessFiling(ctx context.Context, path string) Result {
	res := Result{Path: path}
	fileLog := o.log.WithFiling(path)

	buf, fields, err := o.readFiling(path)
	if err != nil {
		return res.fail(err)
	}
	if err := fields.Require(models.RequiredFields...); err != nil {
		return res.fail(err)
	}
	res.Key, _ = fields.Key()

	fs, err := o.extractor.Extract(buf)
	if err != nil {
		return res.fail(fmt.Errorf("extraction failed: %w", err))
	}
	if !fs.HasData() {
		fileLog.Info().Msg("can't find financial statements, skipping")
		res.Outcome = metrics.OutcomeWithoutData
		return res
	}

	rec, err := fs.Record(fields)
	if err != nil {
		return res.fail(err)
	}
	for _, b := range fs.Blocks() {
		o.metrics.RecordValues(b.Type.String(), len(b.Values))
	}

	unlock := o.locks.Lock(res.Key)
	err = o.sink.Replace(ctx, rec)
	unlock()
	o.metrics.RecordDbOperation("replace", err)
	if err != nil {
		return res.fail(err)
	}

	fileLog.Debug().
		Str("key", res.Key.String()).
		Int64("shares", rec.OutstandingShares).
		Str("hash", edgar.ContentHash(buf)).
		Msg("loaded filing")
	res.Outcome = metrics.OutcomeLoaded
	return res
}

// UpdateShares recomputes shares outstanding for a stored filing and writes
// it only when it changed.
func (o *Orchestrator) UpdateShares(ctx context.Context, path string) Result {
	res := Result{Path: path}

	buf, fields, err := o.readFiling(path)
	if err != nil {
		return res.fail(err)
	}
	key, err := fields.Key()
	if err != nil {
		return res.fail(err)
	}
	res.Key = key

	isForm := edgar.FormsFilter(o.forms)
	var html string
	for _, sec := range edgar.HTMLSections(buf) {
		if isForm(sec) {
			html = sec.HTML.Text(buf)
			break
		}
	}
	if html == "" {
		o.log.WithFiling(path).Info().Msg("no document of the requested forms, skipping")
		res.Outcome = metrics.OutcomeUnchanged
		return res
	}

	shares, err := o.shares.Extract(html)
	if err != nil {
		return res.fail(err)
	}

	unlock := o.locks.Lock(key)
	updated, err := o.sink.UpdateOutstandingShares(ctx, key, fields[models.FieldFileName], shares)
	unlock()
	o.metrics.RecordDbOperation("update_shares", err)
	if err != nil {
		return res.fail(err)
	}

	res.Outcome = metrics.OutcomeUnchanged
	if updated {
		res.Outcome = metrics.OutcomeSharesUpdated
	}
	return res
}

func (r Result) fail(err error) Result {
	r.Err = err
	r.Outcome = metrics.OutcomeFailed
	return r
}

// IsMissingField reports whether a result failed on an incomplete header
func (r Result) IsMissingField() bool {
	return errors.Is(r.Err, models.ErrMissingField)
}
