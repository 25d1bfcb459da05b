// Package dedup reconciles two independently sourced transaction sets,
// partitioning them into confident duplicates, pairs needing human review,
// and records unique to each source.
package dedup

import (
	"log/slog"

	"finbooks/internal/logger"
	"finbooks/internal/match"
	"finbooks/internal/models"
)

// Strategy pairs up candidates between the two sets. The default is greedy
// first-come matching; an optimal-assignment strategy can be substituted
// without changing the engine's contract.
type Strategy interface {
	Pair(pdf, manual []models.StagedTransaction, thresholds match.Thresholds) []Pairing
}

// Pairing links one element of each input set by index, with its score.
type Pairing struct {
	PDFIndex    int
	ManualIndex int
	Score       match.Result
}

// Engine runs deduplication between a PDF-extracted set and a manually
// captured set.
type Engine struct {
	thresholds match.Thresholds
	strategy   Strategy
	log        *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithThresholds overrides the stock 85/60 policy cutoffs.
func WithThresholds(t match.Thresholds) Option {
	return func(e *Engine) { e.thresholds = t }
}

// WithStrategy swaps the pairing strategy.
func WithStrategy(s Strategy) Option {
	return func(e *Engine) { e.strategy = s }
}

// NewEngine creates an engine with the greedy strategy and default
// thresholds.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		thresholds: match.DefaultThresholds(),
		strategy:   GreedyStrategy{},
		log:        logger.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Deduplicate partitions both input sets. Every input element lands in
// exactly one of the four result buckets; nothing is dropped.
func (e *Engine) Deduplicate(pdf, manual []models.StagedTransaction) models.DeduplicationResult {
	result := models.DeduplicationResult{
		TotalPDF:    len(pdf),
		TotalManual: len(manual),
	}

	pairings := e.strategy.Pair(pdf, manual, e.thresholds)

	pdfMatched := make([]bool, len(pdf))
	manualMatched := make([]bool, len(manual))

	for _, p := range pairings {
		pdfMatched[p.PDFIndex] = true
		manualMatched[p.ManualIndex] = true

		pair := models.MatchedPair{
			PDF:     pdf[p.PDFIndex],
			Manual:  manual[p.ManualIndex],
			Score:   p.Score.Score,
			Reasons: p.Score.Reasons,
		}

		if e.thresholds.Recommendation(p.Score.Score) == match.AutoMerge {
			merged := Merge(pair.PDF, pair.Manual)
			pair.Merged = &merged
			result.AutoMerged = append(result.AutoMerged, pair)
		} else {
			result.NeedsReview = append(result.NeedsReview, pair)
		}
	}

	for i, matched := range pdfMatched {
		if !matched {
			result.PDFOnly = append(result.PDFOnly, pdf[i])
		}
	}
	for i, matched := range manualMatched {
		if !matched {
			result.ManualOnly = append(result.ManualOnly, manual[i])
		}
	}

	result.DuplicatesFound = len(result.AutoMerged) + len(result.NeedsReview)

	e.log.Info("dedup_completed",
		"total_pdf", result.TotalPDF,
		"total_manual", result.TotalManual,
		"auto_merged", len(result.AutoMerged),
		"needs_review", len(result.NeedsReview),
		"pdf_only", len(result.PDFOnly),
		"manual_only", len(result.ManualOnly))

	return result
}

// GreedyStrategy walks the PDF set in order and claims the best-scoring
// unconsumed manual record at or above the review threshold. Order matters:
// an earlier PDF record can claim a manual record a later one would have
// matched better.
type GreedyStrategy struct{}

// Pair implements Strategy.
func (GreedyStrategy) Pair(pdf, manual []models.StagedTransaction, thresholds match.Thresholds) []Pairing {
	var pairings []Pairing
	used := make([]bool, len(manual))

	for i, p := range pdf {
		best := -1
		var bestScore match.Result

		for j, m := range manual {
			if used[j] {
				continue
			}
			score := match.Score(p, m)
			if score.Score < thresholds.Review {
				continue
			}
			if best == -1 || score.Score > bestScore.Score {
				best = j
				bestScore = score
			}
		}

		if best != -1 {
			used[best] = true
			pairings = append(pairings, Pairing{PDFIndex: i, ManualIndex: best, Score: bestScore})
		}
	}
	return pairings
}
