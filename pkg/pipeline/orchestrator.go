package pipeline

import (
	"context"
	"errors"
	"math/rand"

	"autoblog-go/pkg/content"
	"autoblog-go/pkg/generator"
	"autoblog-go/pkg/logger"
	"autoblog-go/pkg/quality"
)

// Generator produces raw article text for a keyword.
type Generator interface {
	Generate(ctx context.Context, keyword string) (string, error)
}

// Draft is one finished article, ready to publish.
type Draft struct {
	Keyword  string
	Title    string
	Content  string
	Category string
	Tags     []string
	Fallback bool
	Report   quality.Report
}

// Orchestrator runs the per-keyword production sequence: generation,
// formatting, density optimization and the quality gate, with the template
// composer as the fallback path. The fallback body is densified but not
// gated; it is the floor the gate protects, not a candidate.
type Orchestrator struct {
	gen  Generator
	gate *quality.Gate
	rng  *rand.Rand
	log  *logger.Logger
}

// NewOrchestrator wires the production sequence. rng drives title template
// selection.
func NewOrchestrator(gen Generator, gate *quality.Gate, rng *rand.Rand) *Orchestrator {
	return &Orchestrator{
		gen:  gen,
		gate: gate,
		rng:  rng,
		log:  logger.GetLogger().WithComponent("orchestrator"),
	}
}

// Produce builds a publishable draft for the keyword. It always returns a
// draft: when generation is unavailable or the gate rejects the candidate,
// the deterministic fallback body is used and Draft.Fallback is set. An
// error is returned only for request cancellation or a daily quota that
// rules out the whole run.
func (o *Orchestrator) Produce(ctx context.Context, keyword string) (*Draft, error) {
	raw, err := o.gen.Generate(ctx, keyword)
	switch {
	case err == nil:
		doc := content.Format(raw)
		doc = content.OptimizeDensity(doc, keyword)
		if content.PadShortBody(doc) {
			o.log.WithField("keyword", keyword).Debug("Short body padded before gate")
		}

		report := o.gate.Evaluate(ctx, doc.HTML(), keyword)
		if report.Passed() {
			draft := o.finishDraft(keyword, doc, false)
			draft.Report = report
			return draft, nil
		}
		o.log.WithFields(map[string]interface{}{
			"keyword":     keyword,
			"diagnostics": report.Diagnostics,
		}).Warn("Candidate rejected by quality gate, composing fallback")
		draft := o.composeFallback(keyword)
		draft.Report = report
		return draft, nil

	case errors.Is(err, generator.ErrUnavailable):
		o.log.WithField("keyword", keyword).WithError(err).Warn("Generation unavailable, composing fallback")
		return o.composeFallback(keyword), nil

	default:
		return nil, err
	}
}

func (o *Orchestrator) composeFallback(keyword string) *Draft {
	doc := content.Compose(keyword)
	doc = content.OptimizeDensity(doc, keyword)
	return o.finishDraft(keyword, doc, true)
}

func (o *Orchestrator) finishDraft(keyword string, doc *content.Document, fallback bool) *Draft {
	return &Draft{
		Keyword:  keyword,
		Title:    o.buildTitle(keyword),
		Content:  doc.HTML(),
		Category: defaultCategory,
		Tags:     buildTags(keyword),
		Fallback: fallback,
	}
}
