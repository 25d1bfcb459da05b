package dedup

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finbooks/internal/match"
	"finbooks/internal/models"
)

func entry(id, date, amount, desc string, source models.Source) models.StagedTransaction {
	d, _ := time.Parse("2006-01-02", date)
	return models.StagedTransaction{
		ID: id,
		Transaction: models.Transaction{
			Date:        d,
			Amount:      decimal.RequireFromString(amount),
			Description: desc,
			Type:        models.TypeDebit,
		},
		Source:     source,
		Confidence: 0.9,
	}
}

func TestDeduplicate_ExactDuplicatesAutoMerge(t *testing.T) {
	pdf := []models.StagedTransaction{
		entry("p1", "2024-01-10", "42.50", "SHELL OIL 5742 CLEVELAND OH", models.SourcePDF),
		entry("p2", "2024-01-12", "134.55", "WALMART SUPERCENTER 2054", models.SourcePDF),
	}
	manual := []models.StagedTransaction{
		entry("m1", "2024-01-10", "42.50", "SHELL OIL 5742 CLEVELAND OH", models.SourceManual),
		entry("m2", "2024-01-20", "9.99", "COFFEE CART", models.SourceManual),
	}

	res := NewEngine().Deduplicate(pdf, manual)

	require.Len(t, res.AutoMerged, 1)
	assert.Equal(t, "p1", res.AutoMerged[0].PDF.ID)
	assert.Equal(t, "m1", res.AutoMerged[0].Manual.ID)
	require.NotNil(t, res.AutoMerged[0].Merged)
	assert.NotEmpty(t, res.AutoMerged[0].Reasons)

	assert.Len(t, res.PDFOnly, 1)
	assert.Equal(t, "p2", res.PDFOnly[0].ID)
	assert.Len(t, res.ManualOnly, 1)
	assert.Equal(t, "m2", res.ManualOnly[0].ID)
	assert.Equal(t, 1, res.DuplicatesFound)
}

// Every input record ends up in exactly one partition; counts always
// reconcile with the input sizes.
func TestDeduplicate_ExhaustivePartition(t *testing.T) {
	pdf := []models.StagedTransaction{
		entry("p1", "2024-01-10", "42.50", "SHELL OIL 5742", models.SourcePDF),
		entry("p2", "2024-01-11", "10.00", "ALPHA", models.SourcePDF),
		entry("p3", "2024-01-12", "20.00", "BETA", models.SourcePDF),
	}
	manual := []models.StagedTransaction{
		entry("m1", "2024-01-10", "42.50", "SHELL OIL 5742", models.SourceManual),
		entry("m2", "2024-02-15", "999.00", "GAMMA", models.SourceManual),
	}

	res := NewEngine().Deduplicate(pdf, manual)

	matched := len(res.AutoMerged) + len(res.NeedsReview)
	assert.Equal(t, matched, res.DuplicatesFound)
	assert.Equal(t, len(pdf), matched+len(res.PDFOnly))
	assert.Equal(t, len(manual), matched+len(res.ManualOnly))

	seen := map[string]int{}
	for _, p := range res.AutoMerged {
		seen[p.PDF.ID]++
		seen[p.Manual.ID]++
	}
	for _, p := range res.NeedsReview {
		seen[p.PDF.ID]++
		seen[p.Manual.ID]++
	}
	for _, s := range res.PDFOnly {
		seen[s.ID]++
	}
	for _, s := range res.ManualOnly {
		seen[s.ID]++
	}
	assert.Len(t, seen, 5)
	for id, count := range seen {
		assert.Equal(t, 1, count, "record %s double-counted", id)
	}
}

// Score 85 auto-merges, 84 goes to review, 59 leaves both sides unmatched.
func TestDeduplicate_ThresholdBoundaries(t *testing.T) {
	t.Run("score 85 auto-merges", func(t *testing.T) {
		// date 40 + amount 40 + description similarity 0.25 -> 5 = 85.
		pdf := []models.StagedTransaction{entry("p", "2024-01-10", "50.00", "aaaa", models.SourcePDF)}
		manual := []models.StagedTransaction{entry("m", "2024-01-10", "50.00", "abbb", models.SourceManual)}

		res := NewEngine().Deduplicate(pdf, manual)
		require.Len(t, res.AutoMerged, 1)
		assert.Equal(t, 85, res.AutoMerged[0].Score)
		assert.Empty(t, res.NeedsReview)
	})

	t.Run("score 84 needs review", func(t *testing.T) {
		// date 40 + amount 40 + description similarity 0.20 -> 4 = 84.
		pdf := []models.StagedTransaction{entry("p", "2024-01-10", "50.00", "aaaaa", models.SourcePDF)}
		manual := []models.StagedTransaction{entry("m", "2024-01-10", "50.00", "abbbb", models.SourceManual)}

		res := NewEngine().Deduplicate(pdf, manual)
		require.Len(t, res.NeedsReview, 1)
		assert.Equal(t, 84, res.NeedsReview[0].Score)
		assert.Empty(t, res.AutoMerged)
		assert.Nil(t, res.NeedsReview[0].Merged, "review pairs carry no synthesized merge")
	})

	t.Run("score 59 matches nothing", func(t *testing.T) {
		// date 40 + amount 0 + description similarity 0.95 -> 19 = 59.
		pdf := []models.StagedTransaction{entry("p", "2024-01-10", "100.00", "aaaaaaaaaaaaaaaaaaaa", models.SourcePDF)}
		manual := []models.StagedTransaction{entry("m", "2024-01-10", "200.00", "aaaaaaaaaaaaaaaaaaab", models.SourceManual)}

		res := NewEngine().Deduplicate(pdf, manual)
		assert.Empty(t, res.AutoMerged)
		assert.Empty(t, res.NeedsReview)
		assert.Len(t, res.PDFOnly, 1)
		assert.Len(t, res.ManualOnly, 1)
	})
}

// The greedy strategy is order-dependent: the first PDF record claims the
// best available manual record even if a later PDF record scores higher
// against it.
func TestGreedyStrategy_OrderDependent(t *testing.T) {
	pdf := []models.StagedTransaction{
		entry("p1", "2024-01-10", "100.00", "acme corp aaaaaaaaaa", models.SourcePDF),
		entry("p2", "2024-01-10", "100.00", "acme corp invoice 77", models.SourcePDF),
	}
	manual := []models.StagedTransaction{
		entry("m1", "2024-01-10", "100.00", "acme corp invoice 77", models.SourceManual),
	}

	res := NewEngine().Deduplicate(pdf, manual)

	require.Len(t, res.AutoMerged, 1)
	assert.Equal(t, "p1", res.AutoMerged[0].PDF.ID, "first pdf record claims the manual record")
	require.Len(t, res.PDFOnly, 1)
	assert.Equal(t, "p2", res.PDFOnly[0].ID)
}

func TestDeduplicate_CustomThresholds(t *testing.T) {
	pdf := []models.StagedTransaction{entry("p", "2024-01-10", "50.00", "aaaa", models.SourcePDF)}
	manual := []models.StagedTransaction{entry("m", "2024-01-10", "50.00", "abbb", models.SourceManual)}

	// Raise the auto-merge bar above this pair's score of 85.
	engine := NewEngine(WithThresholds(match.Thresholds{AutoMerge: 90, Review: 60}))
	res := engine.Deduplicate(pdf, manual)
	assert.Empty(t, res.AutoMerged)
	assert.Len(t, res.NeedsReview, 1)
}

func TestDeduplicate_EmptyInputs(t *testing.T) {
	res := NewEngine().Deduplicate(nil, nil)
	assert.Zero(t, res.TotalPDF)
	assert.Zero(t, res.TotalManual)
	assert.Zero(t, res.DuplicatesFound)
	assert.Empty(t, res.PDFOnly)
	assert.Empty(t, res.ManualOnly)
}

func TestMerge_Policy(t *testing.T) {
	pdf := entry("p", "2024-01-10", "42.50", "SHELL OIL", models.SourcePDF)
	pdf.Confidence = 0.7
	pdf.Category = "Fuel & Gas"

	manual := entry("m", "2024-01-11", "42.49", "SHELL OIL 5742 CLEVELAND OH", models.SourceManual)
	manual.Confidence = 0.9
	manual.Category = "Auto & Transport"

	merged := Merge(pdf, manual)

	// Numeric fields come from the statement side.
	assert.Equal(t, pdf.Date, merged.Date)
	assert.Equal(t, "42.50", merged.Amount.StringFixed(2))
	// Longer description wins.
	assert.Equal(t, manual.Description, merged.Description)
	// Category follows the higher-confidence source; confidence is the max.
	assert.Equal(t, "Auto & Transport", merged.Category)
	assert.Equal(t, 0.9, merged.Confidence)
}

func TestMerge_KeepsPDFCategoryWhenMoreConfident(t *testing.T) {
	pdf := entry("p", "2024-01-10", "42.50", "SHELL OIL 5742", models.SourcePDF)
	pdf.Confidence = 0.95
	pdf.Category = "Fuel & Gas"

	manual := entry("m", "2024-01-10", "42.50", "gas", models.SourceManual)
	manual.Confidence = 0.9
	manual.Category = "Auto & Transport"

	merged := Merge(pdf, manual)
	assert.Equal(t, "Fuel & Gas", merged.Category)
	assert.Equal(t, 0.95, merged.Confidence)
	assert.Equal(t, "SHELL OIL 5742", merged.Description)
}
