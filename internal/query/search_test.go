package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileNilGroup(t *testing.T) {
	sql, args, err := Compile(nil, TransactionColumns)
	require.NoError(t, err)
	assert.Empty(t, sql)
	assert.Nil(t, args)
}

func TestCompileLeaf(t *testing.T) {
	// JSON numbers decode as float64.
	group := &SearchGroup{Type: GroupQuery, Query: &SearchQuery{
		Column: "Total", Operator: OpEquals, Value: float64(500),
	}}
	sql, args, err := Compile(group, TransactionColumns)
	require.NoError(t, err)
	assert.Equal(t, "transactions.total = ?", sql)
	assert.Equal(t, []interface{}{int64(500)}, args)
}

func TestCompileContainsAndNot(t *testing.T) {
	group := &SearchGroup{Type: GroupQuery, Query: &SearchQuery{
		Column: "Description", Operator: OpContains, Value: "coffee", Not: true,
	}}
	sql, args, err := Compile(group, TransactionColumns)
	require.NoError(t, err)
	assert.Equal(t, "NOT (transactions.description LIKE ?)", sql)
	assert.Equal(t, []interface{}{"%coffee%"}, args)
}

func TestCompileIn(t *testing.T) {
	group := &SearchGroup{Type: GroupQuery, Query: &SearchQuery{
		Column: "Id", Operator: OpIn, Value: []interface{}{float64(1), float64(2)},
	}}
	sql, args, err := Compile(group, TransactionColumns)
	require.NoError(t, err)
	assert.Equal(t, "transactions.id IN ?", sql)
	require.Len(t, args, 1)
	assert.Equal(t, []interface{}{int64(1), int64(2)}, args[0])
}

func TestCompileTree(t *testing.T) {
	group := &SearchGroup{
		Type: GroupAnd,
		Children: []SearchGroup{
			{Type: GroupQuery, Query: &SearchQuery{Column: "Description", Operator: OpContains, Value: "a"}},
			{Type: GroupOr, Children: []SearchGroup{
				{Type: GroupQuery, Query: &SearchQuery{Column: "Total", Operator: OpGreaterThan, Value: float64(100)}},
				{Type: GroupQuery, Query: &SearchQuery{Column: "DateTime", Operator: OpGreaterOrEqual, Value: "2024-01-01"}},
			}},
		},
	}
	sql, args, err := Compile(group, TransactionColumns)
	require.NoError(t, err)
	assert.Equal(t,
		"(transactions.description LIKE ? AND (transactions.total > ? OR transactions.date_time >= ?))",
		sql)
	require.Len(t, args, 3)
	assert.Equal(t, "%a%", args[0])
	assert.Equal(t, int64(100), args[1])
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), args[2])
}

func TestCompileErrors(t *testing.T) {
	testCases := map[string]*SearchGroup{
		"unknown column": {Type: GroupQuery, Query: &SearchQuery{
			Column: "Secret", Operator: OpEquals, Value: "x",
		}},
		"contains on a number": {Type: GroupQuery, Query: &SearchQuery{
			Column: "Total", Operator: OpContains, Value: "x",
		}},
		"in without a list": {Type: GroupQuery, Query: &SearchQuery{
			Column: "Id", Operator: OpIn, Value: float64(1),
		}},
		"comparison on a string": {Type: GroupQuery, Query: &SearchQuery{
			Column: "Description", Operator: OpGreaterThan, Value: "x",
		}},
		"wrong value type": {Type: GroupQuery, Query: &SearchQuery{
			Column: "Total", Operator: OpEquals, Value: "not a number",
		}},
		"bad timestamp": {Type: GroupQuery, Query: &SearchQuery{
			Column: "DateTime", Operator: OpEquals, Value: "whenever",
		}},
		"query group without a query": {Type: GroupQuery},
		"empty group":                 {Type: GroupAnd},
		"unknown group type":          {Type: GroupType(9)},
	}
	for name, group := range testCases {
		if _, _, err := Compile(group, TransactionColumns); err == nil {
			t.Errorf("%s: Compile() error = nil, want error", name)
		}
	}
}

func TestOrderBy(t *testing.T) {
	r := &SearchRequest{}
	clause, err := r.OrderBy(TransactionColumns, "transactions.date_time")
	require.NoError(t, err)
	assert.Equal(t, "transactions.date_time ASC, transactions.id ASC", clause)

	r = &SearchRequest{OrderByColumn: "Total", Descending: true}
	clause, err = r.OrderBy(TransactionColumns, "transactions.date_time")
	require.NoError(t, err)
	assert.Equal(t, "transactions.total DESC, transactions.id DESC", clause)

	r = &SearchRequest{OrderByColumn: "Nope"}
	_, err = r.OrderBy(TransactionColumns, "transactions.date_time")
	assert.Error(t, err)
}
