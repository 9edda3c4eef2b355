package content

import (
	"strings"

	"autoblog-go/pkg/logger"
)

// targetDensityPercent is the keyword density the optimizer steers toward.
const targetDensityPercent = 2.5

// maxInsertions caps how many filler sentences may be appended when the
// keyword is under-represented.
const maxInsertions = 8

// DensityMetrics describes keyword usage in a document's plain text. It is
// recomputed on demand, never persisted.
type DensityMetrics struct {
	TotalWords     int     `json:"total_words"`
	KeywordCount   int     `json:"keyword_count"`
	DensityPercent float64 `json:"density_percent"`
}

// MeasureDensity computes keyword occurrence metrics over plain text.
// Matching is case-insensitive.
func MeasureDensity(doc *Document, keyword string) DensityMetrics {
	plain := doc.PlainText()
	total := len(strings.Fields(plain))
	count := strings.Count(strings.ToLower(plain), strings.ToLower(keyword))

	m := DensityMetrics{TotalWords: total, KeywordCount: count}
	if total > 0 {
		m.DensityPercent = float64(count) / float64(total) * 100
	}
	return m
}

// OptimizeDensity adjusts keyword occurrences toward the 2.5% target band in
// a single deterministic pass. Over-use is reduced by substituting known
// alternative expressions; under-use is repaired by appending natural filler
// sentences to the closing paragraph. The input document is not modified.
//
// The pass does not iterate to convergence: once the alternative or phrase
// inventory is exhausted, the remaining deviation is accepted.
func OptimizeDensity(doc *Document, keyword string) *Document {
	out := doc.Clone()

	metrics := MeasureDensity(out, keyword)
	if metrics.TotalWords == 0 {
		return out
	}

	// 2.5% of the word count, truncated, never rounded: 110 words targets
	// 2 occurrences, not 3.
	target := metrics.TotalWords * 25 / 1000
	if target < 2 {
		target = 2
	}

	log := logger.GetLogger().WithComponent("density_optimizer")
	log.WithFields(map[string]interface{}{
		"keyword":       keyword,
		"current_count": metrics.KeywordCount,
		"current_pct":   metrics.DensityPercent,
		"target_count":  target,
	}).Debug("Keyword density analysis")

	switch {
	case metrics.KeywordCount > target:
		reduceKeyword(out, keyword, metrics.KeywordCount-target)
	case metrics.KeywordCount < target:
		insertKeyword(out, keyword, target-metrics.KeywordCount)
	}

	return out
}

// Optimize is the string-level entry point: parse, optimize, re-render.
func Optimize(html, keyword string) string {
	return OptimizeDensity(Parse(html), keyword).HTML()
}

// reduceKeyword replaces the first `excess` case-insensitive occurrences of
// the keyword with alternative expressions, one per alternative and in
// inventory order. Occurrences beyond the inventory stay in place.
func reduceKeyword(doc *Document, keyword string, excess int) {
	alternatives := Alternatives(keyword)
	if excess > len(alternatives) {
		excess = len(alternatives)
	}

	for i := 0; i < excess; i++ {
		replaceFirstOccurrence(doc, keyword, alternatives[i])
	}
}

// insertKeyword appends up to `needed` filler sentences, each built around a
// "<keyword> <suffix>" phrase, to the closing paragraph.
func insertKeyword(doc *Document, keyword string, needed int) {
	suffixes := []string{"의 발전", " 기술", " 솔루션", " 플랫폼", " 서비스", " 도구", " 시스템", " 환경"}

	if needed > maxInsertions {
		needed = maxInsertions
	}
	if needed > len(suffixes) {
		needed = len(suffixes)
	}

	for i := 0; i < needed; i++ {
		sentence := " " + keyword + suffixes[i] + "에 대한 이해가 중요합니다."
		if !doc.AppendToClosingParagraph(sentence) {
			return
		}
	}
}

// replaceFirstOccurrence substitutes the first case-insensitive occurrence
// of old across the document's blocks.
func replaceFirstOccurrence(doc *Document, old, repl string) bool {
	for i := range doc.Blocks {
		if idx := indexFold(doc.Blocks[i].Text, old); idx >= 0 {
			text := doc.Blocks[i].Text
			doc.Blocks[i].Text = text[:idx] + repl + text[idx+len(old):]
			return true
		}
	}
	return false
}

// indexFold returns the byte index of the first case-insensitive occurrence
// of substr in s, or -1. Assumes the match spans the same byte length as
// substr, which holds for the ASCII/Hangul keywords this system handles.
func indexFold(s, substr string) int {
	if substr == "" {
		return -1
	}
	for i := 0; i+len(substr) <= len(s); i++ {
		if strings.EqualFold(s[i:i+len(substr)], substr) {
			return i
		}
	}
	return -1
}
