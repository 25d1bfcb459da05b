package parser

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finbooks/internal/models"
)

func TestParsePersonal(t *testing.T) {
	data, err := os.ReadFile("testdata/personal_statement.txt")
	require.NoError(t, err)

	stmt, err := New().Parse(string(data))
	require.NoError(t, err)

	assert.Equal(t, models.StatementPersonal, stmt.StatementType)
	assert.Equal(t, "****7890", stmt.AccountNumber)
	assert.Equal(t, "2024-01-01", stmt.PeriodStart.Format("2006-01-02"))
	assert.Equal(t, "2024-01-31", stmt.PeriodEnd.Format("2006-01-02"))
	assert.Equal(t, "2118.31", stmt.BeginningBalance.StringFixed(2))
	assert.Equal(t, "2805.40", stmt.EndingBalance.StringFixed(2))

	require.Len(t, stmt.Transactions, 7)
	assert.Zero(t, stmt.SkippedLines)

	// Deposits are credits, everything else is a debit.
	credits := 0
	for _, txn := range stmt.Transactions {
		if txn.Type == models.TypeCredit {
			credits++
		}
	}
	assert.Equal(t, 2, credits)

	first := stmt.Transactions[0]
	assert.Equal(t, "2024-01-02", first.Date.Format("2006-01-02"))
	assert.Equal(t, "2275.00", first.Amount.StringFixed(2))
	assert.Equal(t, "PAYROLL ACME CORP DIRECT DEP", first.Description)
	assert.Equal(t, models.TypeCredit, first.Type)
	assert.Equal(t, "Income", first.Category)
}

func TestParsePersonal_ReferenceStripped(t *testing.T) {
	data, err := os.ReadFile("testdata/personal_statement.txt")
	require.NoError(t, err)

	stmt, err := New().Parse(string(data))
	require.NoError(t, err)

	var transfer *models.Transaction
	for i := range stmt.Transactions {
		if stmt.Transactions[i].ReferenceNumber != "" {
			transfer = &stmt.Transactions[i]
		}
	}
	require.NotNil(t, transfer)
	assert.Equal(t, "ONLINE TRANSFER TO QUICKEN LOANS MORTGAGE PMT", transfer.Description)
	assert.Equal(t, "1234567890123", transfer.ReferenceNumber)
	assert.Equal(t, "Housing", transfer.Category)
}

func TestParsePersonal_SortedAndWithinPeriod(t *testing.T) {
	data, err := os.ReadFile("testdata/personal_statement.txt")
	require.NoError(t, err)

	stmt, err := New().Parse(string(data))
	require.NoError(t, err)

	for i, txn := range stmt.Transactions {
		assert.False(t, txn.Date.Before(stmt.PeriodStart), "txn %d before period start", i)
		assert.False(t, txn.Date.After(stmt.PeriodEnd), "txn %d after period end", i)
		if i > 0 {
			assert.False(t, txn.Date.Before(stmt.Transactions[i-1].Date), "txn %d out of order", i)
		}
	}
}
