package parser

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_UnknownDialect(t *testing.T) {
	_, err := New().Parse("SOME OTHER BANK\nFor the period 01/01/2024 to 01/31/2024\n")
	require.Error(t, err)

	var formatErr *UnknownFormatError
	assert.True(t, errors.As(err, &formatErr))
	assert.Contains(t, err.Error(), "unknown statement format")
}

func TestParse_MissingPeriod(t *testing.T) {
	_, err := New().Parse("Virtual Wallet Spend Account Statement\nno dates here\n")
	require.Error(t, err)

	var formatErr *UnknownFormatError
	require.True(t, errors.As(err, &formatErr))
	assert.Contains(t, formatErr.Reason, "period")
}

func TestParse_MultiYearPeriodRejected(t *testing.T) {
	text := "Business Checking Account Statement\nFor the period 01/01/2023 to 02/01/2024\n"
	_, err := New().Parse(text)
	require.Error(t, err)

	var formatErr *UnknownFormatError
	assert.True(t, errors.As(err, &formatErr))
}

func TestYearWindow(t *testing.T) {
	date := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	t.Run("single year", func(t *testing.T) {
		w, err := newYearWindow(date(2024, 3, 1), date(2024, 3, 31))
		require.NoError(t, err)
		assert.Equal(t, date(2024, 3, 15), w.dateFor(3, 15))
	})

	t.Run("cross year", func(t *testing.T) {
		w, err := newYearWindow(date(2023, 12, 28), date(2024, 1, 31))
		require.NoError(t, err)
		assert.Equal(t, date(2023, 12, 30), w.dateFor(12, 30))
		assert.Equal(t, date(2024, 1, 5), w.dateFor(1, 5))
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := newYearWindow(date(2024, 2, 1), date(2024, 1, 1))
		assert.Error(t, err)
	})

	t.Run("thirteen month span", func(t *testing.T) {
		_, err := newYearWindow(date(2023, 1, 1), date(2024, 2, 1))
		assert.Error(t, err)
	})
}

func TestStripReference(t *testing.T) {
	tests := []struct {
		in       string
		wantDesc string
		wantRef  string
	}{
		{"ACH PAYMENT REFERENCE CORP ACCT 12345678901", "ACH PAYMENT REFERENCE CORP ACCT", "12345678901"},
		{"SHORT REF 123456789", "SHORT REF 123456789", ""}, // nine digits is not a reference
		{"NO REF AT ALL", "NO REF AT ALL", ""},
		{"9999999999", "", "9999999999"},
	}
	for _, tt := range tests {
		desc, ref := stripReference(tt.in)
		assert.Equal(t, tt.wantDesc, desc, tt.in)
		assert.Equal(t, tt.wantRef, ref, tt.in)
	}
}

func TestParseAmount(t *testing.T) {
	assert.Equal(t, "1234.56", parseAmount("1,234.56").StringFixed(2))
	assert.Equal(t, "-500.00", parseAmount("-500.00").StringFixed(2))
	assert.True(t, parseAmount("garbage").IsZero())
}
