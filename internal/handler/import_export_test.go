package handler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatement(t *testing.T) {
	input := strings.Join([]string{
		"Date,Description,Amount,Identifier,Category",
		"2024-01-02,Salary,1000.00,stmt-1,Income",
		"2024-01-03,Groceries,-54.30,stmt-2,Food",
		"not-a-date,Broken,1.00,stmt-3,",
		"2024-01-04,Sub-cent,0.001,stmt-4,",
	}, "\n")

	items, parseErrors, err := parseStatement(strings.NewReader(input), 7)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Len(t, parseErrors, 2)

	first := items[0]
	require.NotNil(t, first.DestinationID)
	assert.EqualValues(t, 7, *first.DestinationID)
	assert.Nil(t, first.SourceID)
	require.NotNil(t, first.Total)
	assert.EqualValues(t, 100000, *first.Total)
	assert.Equal(t, "Salary", first.Description)
	assert.Equal(t, "Income", first.Category)
	assert.Equal(t, []string{"stmt-1"}, first.Identifiers)

	// Amounts keep their sign; the engine flips negative ones on store.
	second := items[1]
	require.NotNil(t, second.Total)
	assert.EqualValues(t, -5430, *second.Total)
}

func TestParseStatementHeader(t *testing.T) {
	_, _, err := parseStatement(strings.NewReader(""), 1)
	assert.Error(t, err)

	_, _, err = parseStatement(strings.NewReader("Date,Description,Amount\n2024-01-01,x,1.00"), 1)
	assert.Error(t, err)

	// Header names are matched case-insensitively.
	items, parseErrors, err := parseStatement(strings.NewReader(
		"DATE,DESCRIPTION,AMOUNT,IDENTIFIER\n2024-01-01,x,1.00,id-1"), 1)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Empty(t, parseErrors)
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "1000.00", formatCents(100000))
	assert.Equal(t, "-54.30", formatCents(-5430))
	assert.Equal(t, "0.00", formatCents(0))
}
