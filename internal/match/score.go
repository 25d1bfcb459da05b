// Package match scores how likely two transactions from independent sources
// are the same real-world transaction.
package match

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/texttheater/golang-levenshtein/levenshtein"

	"finbooks/internal/models"
	"finbooks/internal/normalize"
)

// Recommendation is the action suggested for a scored pair.
type Recommendation string

const (
	AutoMerge    Recommendation = "AUTO_MERGE"
	ReviewNeeded Recommendation = "REVIEW_NEEDED"
	NoMatch      Recommendation = "NO_MATCH"
)

// Thresholds are the tunable policy cutoffs between recommendations.
type Thresholds struct {
	AutoMerge int // score at or above this merges without review
	Review    int // score at or above this is surfaced for review
}

// DefaultThresholds returns the stock 85/60 policy.
func DefaultThresholds() Thresholds {
	return Thresholds{AutoMerge: 85, Review: 60}
}

// Recommendation maps a score onto the action for these thresholds.
func (t Thresholds) Recommendation(score int) Recommendation {
	switch {
	case score >= t.AutoMerge:
		return AutoMerge
	case score >= t.Review:
		return ReviewNeeded
	default:
		return NoMatch
	}
}

// Result is a match score with the evidence that produced it.
type Result struct {
	Score   int
	Reasons []string
}

// Sub-score weights. Date and amount dominate; description similarity breaks
// ties; a merchant agreement adds a small bonus before the final clamp.
const (
	dateExact     = 40
	dateOneDay    = 35
	dateNearby    = 20
	amountExact   = 40
	amountTight   = 35
	amountLoose   = 20
	descWeight    = 20
	merchantBonus = 5

	// Levenshtein is quadratic; statement descriptions are short but manual
	// entry text is unbounded, so cap before comparing.
	maxDescCompareLen = 500
)

// Score computes the weighted similarity of two transactions. Amounts are
// compared on absolute value; direction is the dedup engine's concern.
func Score(a, b models.StagedTransaction) Result {
	var res Result

	res.add(dateScore(a, b))
	res.add(amountScore(a, b))
	res.add(descriptionScore(a, b))
	res.add(merchantScore(a, b))

	if res.Score > 100 {
		res.Score = 100
	}
	if res.Score < 0 {
		res.Score = 0
	}
	return res
}

func (r *Result) add(points int, reason string) {
	r.Score += points
	if reason != "" {
		r.Reasons = append(r.Reasons, reason)
	}
}

func dateScore(a, b models.StagedTransaction) (int, string) {
	days := int(math.Abs(a.Date.Sub(b.Date).Hours()) / 24)
	switch {
	case days == 0:
		return dateExact, "same date"
	case days <= 1:
		return dateOneDay, "dates one day apart"
	case days <= 3:
		return dateNearby, fmt.Sprintf("dates %d days apart", days)
	default:
		return 0, ""
	}
}

func amountScore(a, b models.StagedTransaction) (int, string) {
	av := a.Amount.Abs()
	bv := b.Amount.Abs()
	if av.Equal(bv) {
		return amountExact, "exact amount match"
	}

	larger := decimalMax(av, bv)
	if larger.IsZero() {
		return amountExact, "exact amount match"
	}
	diff, _ := av.Sub(bv).Abs().Div(larger).Float64()
	switch {
	case diff <= 0.01:
		return amountTight, "amounts within 1%"
	case diff <= 0.05:
		return amountLoose, "amounts within 5%"
	default:
		return 0, ""
	}
}

func descriptionScore(a, b models.StagedTransaction) (int, string) {
	similarity := Similarity(normalize.Description(a.Description), normalize.Description(b.Description))
	points := int(math.Round(similarity * descWeight))
	if points == 0 {
		return 0, ""
	}
	return points, fmt.Sprintf("descriptions %d%% similar", int(math.Round(similarity*100)))
}

func merchantScore(a, b models.StagedTransaction) (int, string) {
	if a.Merchant == "" || b.Merchant == "" {
		return 0, ""
	}
	similarity := Similarity(strings.ToLower(a.Merchant), strings.ToLower(b.Merchant))
	if similarity >= 0.8 {
		return merchantBonus, "merchant match"
	}
	return 0, ""
}

// Similarity returns 1 - normalized Levenshtein distance, in [0,1]. Inputs
// are truncated to maxDescCompareLen runes to bound the quadratic cost.
func Similarity(s1, s2 string) float64 {
	if s1 == s2 {
		return 1
	}
	if s1 == "" || s2 == "" {
		return 0
	}

	r1 := []rune(s1)
	r2 := []rune(s2)
	if len(r1) > maxDescCompareLen {
		r1 = r1[:maxDescCompareLen]
	}
	if len(r2) > maxDescCompareLen {
		r2 = r2[:maxDescCompareLen]
	}

	distance := levenshtein.DistanceForStrings(r1, r2, levenshtein.DefaultOptions)
	longest := len(r1)
	if len(r2) > longest {
		longest = len(r2)
	}
	return 1 - float64(distance)/float64(longest)
}

func decimalMax(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}
