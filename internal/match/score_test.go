package match

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"finbooks/internal/models"
)

func staged(date string, amount string, desc string) models.StagedTransaction {
	d, _ := time.Parse("2006-01-02", date)
	return models.StagedTransaction{
		Transaction: models.Transaction{
			Date:        d,
			Amount:      decimal.RequireFromString(amount),
			Description: desc,
			Type:        models.TypeDebit,
		},
	}
}

func TestScore_IdenticalTransactions(t *testing.T) {
	a := staged("2024-01-10", "42.50", "SHELL OIL 5742 CLEVELAND OH")
	res := Score(a, a)
	assert.Equal(t, 100, res.Score)
	assert.Contains(t, res.Reasons, "same date")
	assert.Contains(t, res.Reasons, "exact amount match")
}

func TestScore_SignBlindAmounts(t *testing.T) {
	a := staged("2024-01-10", "42.50", "SHELL OIL")
	b := staged("2024-01-10", "-42.50", "SHELL OIL")
	res := Score(a, b)
	assert.Equal(t, 100, res.Score)
}

func TestScore_DateProximityMonotonic(t *testing.T) {
	base := staged("2024-01-10", "100.00", "ACME CORP")
	prev := -1
	// Walking the other transaction closer in time must never lower the
	// score.
	for _, date := range []string{"2024-01-15", "2024-01-13", "2024-01-12", "2024-01-11", "2024-01-10"} {
		other := staged(date, "100.00", "ACME CORP")
		score := Score(base, other).Score
		assert.GreaterOrEqual(t, score, prev, "date %s", date)
		prev = score
	}
}

func TestScore_AmountProximityMonotonic(t *testing.T) {
	base := staged("2024-01-10", "100.00", "ACME CORP")
	prev := -1
	for _, amount := range []string{"110.00", "104.00", "100.50", "100.00"} {
		other := staged("2024-01-10", amount, "ACME CORP")
		score := Score(base, other).Score
		assert.GreaterOrEqual(t, score, prev, "amount %s", amount)
		prev = score
	}
}

func TestScore_MerchantBonus(t *testing.T) {
	a := staged("2024-01-10", "42.50", "POS PURCHASE 5742")
	b := staged("2024-01-12", "42.50", "CARD 5742")
	withoutBonus := Score(a, b)

	a.Merchant = "Shell Oil"
	b.Merchant = "SHELL OIL"
	withBonus := Score(a, b)

	assert.Equal(t, withoutBonus.Score+5, withBonus.Score)
	assert.Contains(t, withBonus.Reasons, "merchant match")
}

func TestScore_ClampedAt100(t *testing.T) {
	a := staged("2024-01-10", "42.50", "SHELL OIL 5742")
	b := staged("2024-01-10", "42.50", "SHELL OIL 5742")
	a.Merchant = "Shell"
	b.Merchant = "Shell"
	res := Score(a, b)
	assert.Equal(t, 100, res.Score)
}

func TestThresholds_Recommendation(t *testing.T) {
	th := DefaultThresholds()
	assert.Equal(t, AutoMerge, th.Recommendation(100))
	assert.Equal(t, AutoMerge, th.Recommendation(85))
	assert.Equal(t, ReviewNeeded, th.Recommendation(84))
	assert.Equal(t, ReviewNeeded, th.Recommendation(60))
	assert.Equal(t, NoMatch, th.Recommendation(59))
	assert.Equal(t, NoMatch, th.Recommendation(0))
}

func TestThresholds_Overridable(t *testing.T) {
	th := Thresholds{AutoMerge: 90, Review: 70}
	assert.Equal(t, ReviewNeeded, th.Recommendation(85))
	assert.Equal(t, NoMatch, th.Recommendation(65))
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("shell oil", "shell oil"))
	assert.Equal(t, 0.0, Similarity("", "shell oil"))
	assert.Equal(t, 1.0, Similarity("", ""))

	// One edit across nine characters.
	got := Similarity("shell oil", "shell oi1")
	assert.InDelta(t, 1.0-1.0/9.0, got, 0.001)

	assert.Less(t, Similarity("walmart", "target"), 0.5)
}
