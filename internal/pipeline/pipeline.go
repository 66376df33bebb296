// Package pipeline runs judgment PDFs through text normalization, metadata and
// citation extraction, and persistence.
//
// A Pipeline is the explicit context of one run: the reporter lookup is built
// once before it is constructed and never changes afterwards. Documents are
// processed one at a time and each one is its own failure domain.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/a3tai/casecite/internal/citation"
	"github.com/a3tai/casecite/internal/metadata"
	"github.com/a3tai/casecite/internal/pdf"
	"github.com/a3tai/casecite/internal/reporters"
	"github.com/a3tai/casecite/internal/store"
	"github.com/a3tai/casecite/internal/text"
)

// ErrEmptyLookup aborts a run whose reporter reference table is missing or empty.
var ErrEmptyLookup = errors.New("reporter lookup is empty")

// SkipNoNeutralCitation is the skip reason for documents without a neutral citation.
const SkipNoNeutralCitation = "no neutral citation"

// Finder discovers the PDFs of a batch.
type Finder interface {
	FindPDFs(dir string) ([]string, error)
}

// DocumentStore persists one judgment with its citations.
type DocumentStore interface {
	SaveDocument(ctx context.Context, j metadata.Judgment, citations []citation.Citation) (store.SaveResult, error)
}

// Options configure New.
type Options struct {
	Pages  pdf.PageExtractor
	Finder Finder
	Lookup *reporters.Lookup
	Store  DocumentStore
	Logger zerolog.Logger
}

// Pipeline processes judgment documents.
type Pipeline struct {
	pages     pdf.PageExtractor
	finder    Finder
	store     DocumentStore
	extractor *citation.Extractor
	logger    zerolog.Logger
}

// New validates opts and builds a pipeline. Finder defaults to an unbounded
// recursive search; Store may be nil for preview-only use.
func New(opts Options) (*Pipeline, error) {
	if opts.Pages == nil {
		return nil, eris.New("pipeline needs a page extractor")
	}
	if opts.Lookup.Len() == 0 {
		return nil, ErrEmptyLookup
	}

	finder := opts.Finder
	if finder == nil {
		finder = pdf.NewSearch(0)
	}

	return &Pipeline{
		pages:     opts.Pages,
		finder:    finder,
		store:     opts.Store,
		extractor: citation.NewExtractor(opts.Lookup),
		logger:    opts.Logger,
	}, nil
}

// Extractor returns the citation extractor bound to the run's lookup.
func (p *Pipeline) Extractor() *citation.Extractor {
	return p.extractor
}

// DocumentResult describes what happened to one document.
type DocumentResult struct {
	Path       string               `json:"path"`
	Judgment   metadata.Judgment    `json:"judgment"`
	Citations  []citation.Citation  `json:"citations"`
	Candidates []citation.Candidate `json:"candidates,omitempty"`
	Skipped    bool                 `json:"skipped"`
	SkipReason string               `json:"skip_reason,omitempty"`
	Saved      *store.SaveResult    `json:"saved,omitempty"`
	Pages      int                  `json:"pages"`
}

// ProcessFile extracts and persists one document. A document without a
// neutral citation is skipped and nothing is written for it.
func (p *Pipeline) ProcessFile(ctx context.Context, path string) (*DocumentResult, error) {
	if p.store == nil {
		return nil, eris.New("pipeline has no store")
	}

	result, err := p.analyze(path, false)
	if err != nil {
		return nil, err
	}
	if result.Skipped {
		return result, nil
	}

	saved, err := p.store.SaveDocument(ctx, result.Judgment, result.Citations)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to save %s", path)
	}
	result.Saved = &saved
	return result, nil
}

// Preview runs the extraction steps of ProcessFile without writing anything and
// includes every raw candidate with its outcome.
func (p *Pipeline) Preview(ctx context.Context, path string) (*DocumentResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.analyze(path, true)
}

// analyze is the per-document recovery boundary: a panic anywhere in
// extraction becomes an error for this document only.
func (p *Pipeline) analyze(path string, withCandidates bool) (result *DocumentResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			result = nil
			err = eris.Errorf("panic while processing %s: %v", path, rec)
			p.logger.Error().Str("path", path).Str("stack", string(debug.Stack())).Msg("recovered from panic")
		}
	}()

	pages, err := p.pages.ExtractPages(path)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to extract text from %s", path)
	}

	views := text.Normalize(pages)
	result = &DocumentResult{
		Path:     path,
		Judgment: metadata.Extract(views),
		Pages:    len(pages),
	}

	if !result.Judgment.HasNeutralCitation() {
		result.Skipped = true
		result.SkipReason = SkipNoNeutralCitation
		return result, nil
	}

	neutral := result.Judgment.Neutral()
	if withCandidates {
		result.Citations, result.Candidates = p.extractor.Candidates(neutral, views)
	} else {
		result.Citations = p.extractor.Extract(neutral, views)
	}
	return result, nil
}

// Failure records a document that could not be processed.
type Failure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// Summary aggregates a batch run.
type Summary struct {
	Directory string        `json:"directory"`
	Files     int           `json:"files"`
	Processed int           `json:"processed"`
	Skipped   int           `json:"skipped"`
	Failed    int           `json:"failed"`
	Citations int           `json:"citations"`
	Failures  []Failure     `json:"failures,omitempty"`
	Duration  time.Duration `json:"duration"`
}

// Run processes every PDF under dir in path order. Discovery failures abort
// the run; per-document failures are logged, counted and skipped. Cancelling
// ctx stops the run between documents.
func (p *Pipeline) Run(ctx context.Context, dir string) (*Summary, error) {
	start := time.Now()

	paths, err := p.finder.FindPDFs(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to discover PDFs in %s", dir)
	}

	summary := &Summary{Directory: dir, Files: len(paths)}
	p.logger.Info().Str("directory", dir).Int("files", len(paths)).Msg("starting batch")

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			summary.Duration = time.Since(start)
			return summary, err
		}

		result, err := p.ProcessFile(ctx, path)
		if err != nil {
			summary.Failed++
			summary.Failures = append(summary.Failures, Failure{Path: path, Error: err.Error()})
			p.logger.Error().Err(err).Str("path", path).Msg("document failed")
			continue
		}

		if result.Skipped {
			summary.Skipped++
			p.logger.Warn().Str("path", path).Str("reason", result.SkipReason).Msg("document skipped")
			continue
		}

		summary.Processed++
		summary.Citations += len(result.Citations)
		p.logger.Info().
			Str("path", path).
			Str("neutral_citation", result.Judgment.Neutral()).
			Int("citations", len(result.Citations)).
			Int("inserted", result.Saved.Inserted).
			Int("updated", result.Saved.Updated).
			Msg("document processed")
	}

	summary.Duration = time.Since(start)
	p.logger.Info().
		Int("processed", summary.Processed).
		Int("skipped", summary.Skipped).
		Int("failed", summary.Failed).
		Int("citations", summary.Citations).
		Dur("duration", summary.Duration).
		Msg("batch finished")
	return summary, nil
}

// String renders a one-line summary for terminal output.
func (s *Summary) String() string {
	return fmt.Sprintf("%d files: %d processed, %d skipped, %d failed, %d citations in %s",
		s.Files, s.Processed, s.Skipped, s.Failed, s.Citations, s.Duration.Round(time.Millisecond))
}
