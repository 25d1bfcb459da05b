package normalize

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"finbooks/internal/models"
)

func TestDate(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"time value", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), "2024-01-05"},
		{"iso string", "2024-01-05", "2024-01-05"},
		{"us string", "01/05/2024", "2024-01-05"},
		{"short us string", "1/5/2024", "2024-01-05"},
		{"garbage", "not a date", UnknownDate},
		{"zero time", time.Time{}, UnknownDate},
		{"wrong type", 42, UnknownDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Date(tt.in))
		})
	}
}

func TestAmount_SignBlind(t *testing.T) {
	pos := decimal.NewFromInt(5)
	neg := decimal.NewFromInt(-5)
	assert.Equal(t, "5.00", Amount(pos))
	assert.Equal(t, "5.00", Amount(neg))
	assert.Equal(t, Amount(pos), Amount(neg))

	assert.Equal(t, "1234.57", Amount(decimal.RequireFromString("-1234.567")))
	assert.Equal(t, "0.00", Amount(decimal.Zero))
}

func TestDescription(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"stopwords removed", "DEBIT CARD PURCHASE WALMART #1234", "walmart 1234"},
		{"whitespace collapsed", "ACH   PAYMENT   ACME    CORP", "acme corp"},
		{"punctuation stripped", "AMZN*Mktp US, Seattle-WA", "amznmktp us seattlewa"},
		{"stopword only as whole word", "CREDITWISE WEBSTER", "creditwise webster"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Description(tt.in))
		})
	}
}

func TestDedupHash_Stable(t *testing.T) {
	txn := models.Transaction{
		Date:        time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		Amount:      decimal.RequireFromString("42.50"),
		Description: "DEBIT CARD PURCHASE SHELL OIL 5740",
		Type:        models.TypeDebit,
	}
	h1 := DedupHash(txn)
	h2 := DedupHash(txn)
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 32)

	// Sign does not change the hash.
	flipped := txn
	flipped.Amount = txn.Amount.Neg()
	assert.Equal(t, h1, DedupHash(flipped))

	// A different amount does.
	other := txn
	other.Amount = decimal.RequireFromString("42.51")
	assert.NotEqual(t, h1, DedupHash(other))
}

func TestDedupHash_DescriptionTruncatedAt30(t *testing.T) {
	base := models.Transaction{
		Date:   time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		Amount: decimal.NewFromInt(10),
	}
	a := base
	a.Description = "acme widget company invoice 100456 january"
	b := base
	b.Description = "acme widget company invoice 100999 december"
	// Normalized forms agree on the first 30 chars, so the hashes collide by
	// design: the hash is a pre-filter, not the matcher.
	assert.Equal(t, DedupHash(a), DedupHash(b))
}
