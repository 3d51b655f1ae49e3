// Package runner drives one conversion: pages from the pipeline, optional
// correction and diff, and the requested output streams.
package runner

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Vovarama1992/pdfocr/internal/apperr"
	"github.com/Vovarama1992/pdfocr/internal/correct"
	"github.com/Vovarama1992/pdfocr/internal/diff"
	"github.com/Vovarama1992/pdfocr/internal/notify"
	"github.com/Vovarama1992/pdfocr/internal/output"
	"github.com/Vovarama1992/pdfocr/internal/pipeline"
)

// Options is everything a run needs besides its collaborators.
type Options struct {
	Input        string
	Convert      pipeline.ConvertOptions
	Mode         Mode
	RawOut       string
	CorrectedOut string
	DiffOut      string
	APIKey       string
	SummaryPath  string
}

// Opener opens an output destination by path.
type Opener interface {
	Open(ctx context.Context, path string) (io.WriteCloser, error)
}

type Runner struct {
	pages     *pipeline.Service
	corrector *correct.Service
	opener    Opener
	notifier  *notify.Service
	progress  pipeline.ProgressFunc
	log       *zap.Logger
	now       func() time.Time
}

func New(
	pages *pipeline.Service,
	corrector *correct.Service,
	opener Opener,
	notifier *notify.Service,
	progress pipeline.ProgressFunc,
	log *zap.Logger,
) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	if notifier == nil {
		notifier = notify.NewService(nil, log)
	}
	return &Runner{
		pages:     pages,
		corrector: corrector,
		opener:    opener,
		notifier:  notifier,
		progress:  progress,
		log:       log,
		now:       time.Now,
	}
}

// Run converts opts.Input. Pages already written stay in their outputs when
// a later page fails. The summary is filled in on every path.
func (r *Runner) Run(ctx context.Context, opts Options) (sum Summary, err error) {
	started := r.now()
	sum = Summary{
		RunID:     uuid.NewString(),
		Input:     opts.Input,
		Mode:      opts.Mode,
		StartedAt: started,
	}
	log := r.log.With(zap.String("run_id", sum.RunID))

	defer func() {
		sum.DurationMS = r.now().Sub(started).Milliseconds()
		if err != nil {
			sum.Error = err.Error()
			sum.Stage = apperr.Stage(err)
		}
		if opts.SummaryPath != "" {
			if werr := WriteSummary(opts.SummaryPath, sum); werr != nil {
				log.Warn("summary not written", zap.String("path", opts.SummaryPath), zap.Error(werr))
			}
		}
		r.notifier.RunFinished(ctx, notify.Report{
			Input:    opts.Input,
			Mode:     string(opts.Mode),
			Pages:    sum.Pages,
			Started:  started,
			Duration: r.now().Sub(started),
			Err:      err,
		})
	}()

	if opts.Mode.NeedsCorrection() && opts.APIKey == "" {
		return sum, &apperr.ConfigError{Field: "OPENAI_API_KEY", Msg: "required for mode " + string(opts.Mode)}
	}

	if err := checkDistinctOutputs(opts); err != nil {
		return sum, err
	}

	it, err := r.pages.Produce(ctx, opts.Input, opts.Convert, r.progress)
	if err != nil {
		return sum, err
	}
	defer func() { err = multierr.Append(err, it.Close()) }()

	sum.FirstPage, sum.LastPage = it.Range()
	log.Info("conversion started",
		zap.String("input", opts.Input),
		zap.String("mode", string(opts.Mode)),
		zap.Int("document_pages", it.DocumentPages()),
		zap.Int("first_page", sum.FirstPage),
		zap.Int("last_page", sum.LastPage),
	)

	sink, err := r.openSink(ctx, opts)
	if err != nil {
		return sum, err
	}
	defer func() {
		err = multierr.Append(err, sink.Close())
		sum.Streams = sink.Stats()
		for _, st := range sum.Streams {
			log.Info("output written",
				zap.String("stream", string(st.Stream)),
				zap.String("path", st.Path),
				zap.String("size", humanize.Bytes(uint64(st.Bytes))),
			)
		}
	}()

	for it.Next() {
		page := it.Page()
		if err := r.handlePage(ctx, sink, opts, page); err != nil {
			return sum, err
		}
		sum.Pages++
	}
	if err := it.Err(); err != nil {
		return sum, err
	}

	log.Info("conversion finished", zap.Int("pages", sum.Pages))
	return sum, nil
}

func (r *Runner) openSink(ctx context.Context, opts Options) (_ *output.Sink, err error) {
	sink := output.NewSink()
	defer func() {
		if err != nil {
			err = multierr.Append(err, sink.Close())
		}
	}()

	streams := []struct {
		want   bool
		stream output.Stream
		path   string
	}{
		{opts.Mode.WantRaw(), output.Raw, opts.RawOut},
		{opts.Mode.WantCorrected(), output.Corrected, opts.CorrectedOut},
		{opts.Mode.WantDiff(), output.Diff, opts.DiffOut},
	}
	for _, s := range streams {
		if !s.want {
			continue
		}
		w, err := r.opener.Open(ctx, s.path)
		if err != nil {
			return nil, err
		}
		sink.Add(s.stream, s.path, w)
	}
	return sink, nil
}

// checkDistinctOutputs rejects two active streams sharing one destination.
// Stdout may be shared.
func checkDistinctOutputs(opts Options) error {
	seen := map[string]string{}
	for _, s := range []struct {
		want bool
		name string
		path string
	}{
		{opts.Mode.WantRaw(), "raw_out", opts.RawOut},
		{opts.Mode.WantCorrected(), "corrected_out", opts.CorrectedOut},
		{opts.Mode.WantDiff(), "diff_out", opts.DiffOut},
	} {
		if !s.want || s.path == "-" {
			continue
		}
		key := s.path
		if !strings.HasPrefix(key, "s3://") {
			if abs, err := filepath.Abs(key); err == nil {
				key = abs
			}
		}
		if other, ok := seen[key]; ok {
			return &apperr.ConfigError{Field: s.name, Msg: "same destination as " + other + ": " + s.path}
		}
		seen[key] = s.name
	}
	return nil
}

func (r *Runner) handlePage(ctx context.Context, sink *output.Sink, opts Options, page pipeline.PageResult) error {
	if sink.Has(output.Raw) {
		if err := sink.WriteText(output.Raw, page.Number, page.Text); err != nil {
			return err
		}
	}
	if !opts.Mode.NeedsCorrection() {
		return nil
	}

	corrected, err := r.corrector.Correct(ctx, page.Text, opts.APIKey)
	if err != nil {
		var serr *apperr.ServiceError
		if errors.As(err, &serr) {
			serr.Page = page.Number
		}
		return err
	}

	if sink.Has(output.Corrected) {
		if err := sink.WriteText(output.Corrected, page.Number, corrected); err != nil {
			return err
		}
	}
	if sink.Has(output.Diff) {
		report := diff.Lines(page.Text, corrected)
		if err := sink.WriteLines(output.Diff, page.Number, report.Strings()); err != nil {
			return err
		}
	}
	return nil
}
