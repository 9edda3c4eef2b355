package quality

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"autoblog-go/pkg/content"
	"autoblog-go/pkg/logger"
)

// CorpusReader is the read-only view of previously accepted drafts used for
// duplicate comparison. Implementations must tolerate an empty corpus.
type CorpusReader interface {
	RecentContents(ctx context.Context, limit int) ([]string, error)
}

// Config holds the acceptance thresholds of the gate.
type Config struct {
	MinLength          int     `json:"min_length"`
	MaxLength          int     `json:"max_length"`
	MinDensityPercent  float64 `json:"min_density_percent"`
	MaxDensityPercent  float64 `json:"max_density_percent"`
	DuplicateThreshold float64 `json:"duplicate_threshold"`
	CorpusLimit        int     `json:"corpus_limit"`
}

// DefaultConfig returns the relaxed thresholds the system runs with.
func DefaultConfig() Config {
	return Config{
		MinLength:          500,
		MaxLength:          2500,
		MinDensityPercent:  0.5,
		MaxDensityPercent:  6.0,
		DuplicateThreshold: 0.7,
		CorpusLimit:        20,
	}
}

// Report carries the verdict of every check plus the numeric diagnostics
// behind them. Passed is the conjunction of all five booleans.
type Report struct {
	LengthOK    bool `json:"length_ok"`
	DensityOK   bool `json:"density_ok"`
	StructureOK bool `json:"structure_ok"`
	DuplicateOK bool `json:"duplicate_ok"`
	CoherenceOK bool `json:"coherence_ok"`

	Length          int      `json:"length"`
	DensityPercent  float64  `json:"density_percent"`
	SentenceCount   int      `json:"sentence_count"`
	UniquenessRatio float64  `json:"uniqueness_ratio"`
	MaxSimilarity   float64  `json:"max_similarity"`
	Diagnostics     []string `json:"diagnostics,omitempty"`
}

// Passed reports whether every check succeeded.
func (r Report) Passed() bool {
	return r.LengthOK && r.DensityOK && r.StructureOK && r.DuplicateOK && r.CoherenceOK
}

// Gate runs the five independent quality checks over a draft. It is
// stateless apart from read access to the corpus.
type Gate struct {
	config Config
	corpus CorpusReader
	log    *logger.Logger
}

// NewGate creates a gate. corpus may be nil, in which case the duplicate
// check always passes.
func NewGate(config Config, corpus CorpusReader) *Gate {
	if config.CorpusLimit <= 0 {
		config.CorpusLimit = DefaultConfig().CorpusLimit
	}
	if config.DuplicateThreshold <= 0 {
		config.DuplicateThreshold = DefaultConfig().DuplicateThreshold
	}
	return &Gate{
		config: config,
		corpus: corpus,
		log:    logger.GetLogger().WithComponent("quality_gate"),
	}
}

// Evaluate runs all five checks. Every check is computed even when an
// earlier one has already failed, so the report always carries complete
// diagnostics.
func (g *Gate) Evaluate(ctx context.Context, html, keyword string) Report {
	plain := content.StripTags(html)

	report := Report{}
	g.checkLength(plain, &report)
	g.checkDensity(plain, keyword, &report)
	g.checkStructure(html, &report)
	g.checkDuplicate(ctx, plain, &report)
	g.checkCoherence(plain, &report)

	if report.Passed() {
		g.log.WithFields(map[string]interface{}{
			"length":      report.Length,
			"density_pct": report.DensityPercent,
			"sentences":   report.SentenceCount,
		}).Info("All quality checks passed")
	} else {
		g.log.WithField("diagnostics", report.Diagnostics).Warn("Quality checks failed")
	}

	return report
}

func (g *Gate) checkLength(plain string, report *Report) {
	report.Length = utf8.RuneCountInString(plain)
	report.LengthOK = report.Length >= g.config.MinLength && report.Length <= g.config.MaxLength
	if !report.LengthOK {
		report.Diagnostics = append(report.Diagnostics,
			fmt.Sprintf("length %d outside [%d, %d]", report.Length, g.config.MinLength, g.config.MaxLength))
	}
}

func (g *Gate) checkDensity(plain, keyword string, report *Report) {
	lower := strings.ToLower(plain)
	keywordLower := strings.ToLower(keyword)

	count := strings.Count(lower, keywordLower)

	// Multi-word keywords get a partial-match bonus: occurrences of the
	// first token count at one third weight.
	if strings.Contains(keywordLower, " ") {
		first := strings.Fields(keywordLower)[0]
		count += strings.Count(lower, first) / 3
	}

	totalWords := len(strings.Fields(lower))
	if totalWords == 0 {
		report.DensityOK = false
		report.Diagnostics = append(report.Diagnostics, "density: no words in content")
		return
	}

	report.DensityPercent = float64(count) / float64(totalWords) * 100
	report.DensityOK = report.DensityPercent >= g.config.MinDensityPercent &&
		report.DensityPercent <= g.config.MaxDensityPercent
	if !report.DensityOK {
		report.Diagnostics = append(report.Diagnostics,
			fmt.Sprintf("density %.2f%% outside [%.1f%%, %.1f%%]",
				report.DensityPercent, g.config.MinDensityPercent, g.config.MaxDensityPercent))
	}
}

func (g *Gate) checkStructure(html string, report *Report) {
	hasHeading := strings.Contains(html, "<h1>") ||
		strings.Contains(html, "<h2>") ||
		strings.Contains(html, "<h3>")
	hasBody := strings.Contains(html, "<p>") ||
		strings.Contains(html, "<li>") ||
		strings.Contains(html, "<div>")

	report.StructureOK = hasHeading && hasBody
	if !report.StructureOK {
		report.Diagnostics = append(report.Diagnostics,
			fmt.Sprintf("structure: heading=%t body=%t", hasHeading, hasBody))
	}
}

// checkDuplicate compares against up to the most recent corpus entries.
// Corpus access failures are fail-open: a broken store must not block
// publishing, it only loses duplicate protection for this draft.
func (g *Gate) checkDuplicate(ctx context.Context, plain string, report *Report) {
	report.DuplicateOK = true
	if g.corpus == nil {
		return
	}

	existing, err := g.corpus.RecentContents(ctx, g.config.CorpusLimit)
	if err != nil {
		g.log.WithError(err).Error("Corpus read failed, skipping duplicate check")
		return
	}

	// The full corpus is scanned even after a failure so MaxSimilarity
	// reports the true maximum, not the first offender.
	for _, prior := range existing {
		priorPlain := content.StripTags(prior)
		if utf8.RuneCountInString(plain) < 200 || utf8.RuneCountInString(priorPlain) < 200 {
			continue
		}

		ratio := SimilarityRatio(plain, priorPlain)
		if ratio > report.MaxSimilarity {
			report.MaxSimilarity = ratio
		}
		if ratio > g.config.DuplicateThreshold && report.DuplicateOK {
			report.DuplicateOK = false
			report.Diagnostics = append(report.Diagnostics,
				fmt.Sprintf("duplicate: similarity %.2f exceeds %.2f", ratio, g.config.DuplicateThreshold))
		}
	}
}

func (g *Gate) checkCoherence(plain string, report *Report) {
	sentences := splitSentences(plain)
	report.SentenceCount = len(sentences)

	if len(sentences) < 3 {
		report.CoherenceOK = false
		report.Diagnostics = append(report.Diagnostics,
			fmt.Sprintf("coherence: only %d sentences", len(sentences)))
		return
	}

	unique := make(map[string]struct{}, len(sentences))
	for _, s := range sentences {
		unique[s] = struct{}{}
	}
	report.UniquenessRatio = float64(len(unique)) / float64(len(sentences))
	if report.UniquenessRatio < 0.5 {
		report.CoherenceOK = false
		report.Diagnostics = append(report.Diagnostics,
			fmt.Sprintf("coherence: uniqueness %.2f below 0.5", report.UniquenessRatio))
		return
	}

	if words := len(strings.Fields(plain)); words < 80 {
		report.CoherenceOK = false
		report.Diagnostics = append(report.Diagnostics,
			fmt.Sprintf("coherence: only %d words", words))
		return
	}

	report.CoherenceOK = true
}

// splitSentences breaks plain text on sentence terminators, discarding
// fragments of 10 characters or fewer.
func splitSentences(plain string) []string {
	fragments := strings.FieldsFunc(plain, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	sentences := make([]string, 0, len(fragments))
	for _, f := range fragments {
		f = strings.TrimSpace(f)
		if utf8.RuneCountInString(f) > 10 {
			sentences = append(sentences, f)
		}
	}
	return sentences
}
