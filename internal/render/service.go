package render

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/texforge/resumed/internal/history"
	"github.com/texforge/resumed/internal/infrastructure/logging"
	"github.com/texforge/resumed/internal/latex"
	"github.com/texforge/resumed/internal/resume"
)

// DefaultConcurrency matches one worker process with eight threads.
const DefaultConcurrency = 8

// sideEffectTimeout bounds history, metrics and event writes after a render.
const sideEffectTimeout = 5 * time.Second

// docName is the base name of the generated .tex and .pdf files.
const docName = "resume"

// Compiler turns a document into PDF bytes.
type Compiler interface {
	Compile(ctx context.Context, doc *latex.Document, name string) ([]byte, error)
}

// Recorder persists render history.
type Recorder interface {
	Create(ctx context.Context, rec *history.Record) error
}

// Metrics receives one sample per render.
type Metrics interface {
	WriteRender(origin, status string, bytes int, duration time.Duration)
}

// Publisher announces render outcomes.
type Publisher interface {
	PublishRenderEvent(ctx context.Context, ev Event) error
}

// Archive stores successful PDFs and returns their URL.
type Archive interface {
	PutPDF(ctx context.Context, name string, data []byte) (string, error)
}

// Options configures a Service. Only Compiler is required.
type Options struct {
	Compiler    Compiler
	Layout      resume.Options
	Concurrency int
	// Timeout bounds one render, excluding time spent waiting for a slot.
	// Zero means no limit.
	Timeout time.Duration

	Recorder  Recorder
	Metrics   Metrics
	Publisher Publisher
	Archive   Archive
	Logger    *logging.Logger
}

// Request is a single render.
type Request struct {
	Resume *resume.Resume
	Origin history.Origin
}

// Result is a successful render.
type Result struct {
	ID          string
	PDF         []byte
	Bytes       int
	Duration    time.Duration
	ArtifactURL string
}

// Event is published after every render attempt.
type Event struct {
	ID          string         `json:"id"`
	Origin      history.Origin `json:"origin"`
	Status      history.Status `json:"status"`
	Error       string         `json:"error,omitempty"`
	Bytes       int            `json:"bytes"`
	DurationMS  int64          `json:"duration_ms"`
	ArtifactURL string         `json:"artifact_url,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
}

// Service renders resumes with bounded concurrency.
//
// Thread Safety:
//   - Render is safe for concurrent use; at most Concurrency renders run at once.
type Service struct {
	opts     Options
	sem      *semaphore.Weighted
	inFlight atomic.Int64
	waiting  atomic.Int64
	logger   *logging.Logger
}

// New creates a Service.
func New(opts Options) *Service {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Service{
		opts:   opts,
		sem:    semaphore.NewWeighted(int64(opts.Concurrency)),
		logger: logger,
	}
}

// Render lays out and compiles a resume.
//
// It performs:
//  1. Waits for a free slot (ctx cancellation aborts the wait)
//  2. Applies the render timeout
//  3. Compiles the layout with latexmk, then frees the slot
//  4. Archives the PDF when an Archive is configured
//  5. Records history, writes metrics and publishes an event
//
// Steps 4 and 5 are best effort: failures are logged and never fail the render.
//
// Parameters:
//   - ctx: Request context
//   - req: Resume data and origin
//
// Returns:
//   - *Result: PDF bytes and metadata
//   - error: ErrNoData, ErrTimeout, ctx.Err(), or a compile error from the latex package
func (s *Service) Render(ctx context.Context, req Request) (*Result, error) {
	if req.Resume == nil {
		return nil, ErrNoData
	}

	s.waiting.Add(1)
	err := s.sem.Acquire(ctx, 1)
	s.waiting.Add(-1)
	if err != nil {
		return nil, fmt.Errorf("waiting for render slot: %w", err)
	}

	id := uuid.NewString()
	start := time.Now()
	pdf, err := s.compile(ctx, req.Resume)

	res := &Result{
		ID:       id,
		PDF:      pdf,
		Bytes:    len(pdf),
		Duration: time.Since(start),
	}

	// Side effects run even if the client has gone away.
	bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()

	if err == nil && s.opts.Archive != nil {
		url, archiveErr := s.opts.Archive.PutPDF(bg, id+".pdf", pdf)
		if archiveErr != nil {
			s.logger.Warn("archiving render failed", "id", id, "error", archiveErr)
		} else {
			res.ArtifactURL = url
		}
	}

	s.report(bg, req.Origin, res, err)

	if err != nil {
		return nil, err
	}
	return res, nil
}

// compile lays out and compiles r. The caller must hold a render slot;
// compile releases it on return, before any side effects run.
func (s *Service) compile(ctx context.Context, r *resume.Resume) ([]byte, error) {
	defer s.sem.Release(1)
	s.inFlight.Add(1)
	defer s.inFlight.Add(-1)

	renderCtx := ctx
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		renderCtx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	doc := resume.Layout(r, s.opts.Layout)
	pdf, err := s.opts.Compiler.Compile(renderCtx, doc, docName)
	if err != nil && ctx.Err() == nil && errors.Is(renderCtx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("%w after %v: %w", ErrTimeout, s.opts.Timeout, err)
	}
	return pdf, err
}

// report records the outcome everywhere it is observed.
func (s *Service) report(ctx context.Context, origin history.Origin, res *Result, renderErr error) {
	status := history.StatusSucceeded
	errMsg := ""
	if renderErr != nil {
		status = history.StatusFailed
		errMsg = renderErr.Error()
	}

	log := s.logger.With("id", res.ID, "origin", string(origin), "duration_ms", res.Duration.Milliseconds())
	if renderErr != nil {
		log.Error("render failed", "error", renderErr)
	} else {
		log.Info("render completed", "bytes", res.Bytes)
	}

	if s.opts.Recorder != nil {
		rec := &history.Record{
			ID:          res.ID,
			Origin:      origin,
			Status:      status,
			Error:       errMsg,
			Bytes:       res.Bytes,
			DurationMS:  res.Duration.Milliseconds(),
			ArtifactURL: res.ArtifactURL,
		}
		if err := s.opts.Recorder.Create(ctx, rec); err != nil {
			log.Warn("recording render history failed", "error", err)
		}
	}

	if s.opts.Metrics != nil {
		s.opts.Metrics.WriteRender(string(origin), string(status), res.Bytes, res.Duration)
	}

	if s.opts.Publisher != nil {
		ev := Event{
			ID:          res.ID,
			Origin:      origin,
			Status:      status,
			Error:       errMsg,
			Bytes:       res.Bytes,
			DurationMS:  res.Duration.Milliseconds(),
			ArtifactURL: res.ArtifactURL,
			Timestamp:   time.Now().UTC(),
		}
		if err := s.opts.Publisher.PublishRenderEvent(ctx, ev); err != nil {
			log.Warn("publishing render event failed", "error", err)
		}
	}
}

// InFlight returns the number of renders currently compiling.
func (s *Service) InFlight() int64 {
	return s.inFlight.Load()
}

// Waiting returns the number of renders queued for a slot.
func (s *Service) Waiting() int64 {
	return s.waiting.Load()
}

// Concurrency returns the slot count.
func (s *Service) Concurrency() int {
	return s.opts.Concurrency
}
