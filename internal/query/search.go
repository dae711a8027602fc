// Package query translates the frontend's search group trees into SQL
// conditions. A search group is a boolean tree of AND/OR nodes whose leaves
// are column/operator/value predicates with an optional negation flag.
package query

import (
	"fmt"
	"strings"
	"time"
)

type GroupType int

const (
	GroupOr GroupType = iota
	GroupAnd
	GroupQuery
)

type Operator int

const (
	OpEquals Operator = iota
	OpContains
	OpIn
	OpGreaterThan
	OpGreaterOrEqual
)

// SearchGroup mirrors the JSON sent by the client. Query is set when Type is
// GroupQuery, Children when Type is GroupAnd or GroupOr.
type SearchGroup struct {
	Type     GroupType     `json:"type"`
	Children []SearchGroup `json:"children,omitempty"`
	Query    *SearchQuery  `json:"query,omitempty"`
}

type SearchQuery struct {
	Column   string      `json:"column"`
	Value    interface{} `json:"value"`
	Operator Operator    `json:"operator"`
	Not      bool        `json:"not"`
}

// SearchRequest is a paginated, ordered search. From/To are item offsets
// (half-open window).
type SearchRequest struct {
	From          int          `json:"from"`
	To            int          `json:"to"`
	Query         *SearchGroup `json:"query,omitempty"`
	Descending    bool         `json:"descending"`
	OrderByColumn string       `json:"orderByColumn"`
}

type columnKind int

const (
	kindNumber columnKind = iota
	kindString
	kindTime
)

type column struct {
	sql  string
	kind columnKind
}

// ColumnSet whitelists the columns an entity exposes to searches and maps
// them to their SQL names.
type ColumnSet map[string]column

// TransactionColumns are the searchable columns of transactions. Category
// resolves through the categories join added by the transaction queries.
var TransactionColumns = ColumnSet{
	"Id":                   {"transactions.id", kindNumber},
	"SourceAccountId":      {"transactions.source_account_id", kindNumber},
	"DestinationAccountId": {"transactions.destination_account_id", kindNumber},
	"Description":          {"transactions.description", kindString},
	"DateTime":             {"transactions.date_time", kindTime},
	"Total":                {"transactions.total", kindNumber},
	"Category":             {"categories.name", kindString},
}

// AccountColumns are the searchable columns of accounts.
var AccountColumns = ColumnSet{
	"Id":          {"accounts.id", kindNumber},
	"Name":        {"accounts.name", kindString},
	"Description": {"accounts.description", kindString},
}

// Compile turns the group into a SQL condition and its arguments. A nil
// group compiles to no condition.
func Compile(group *SearchGroup, columns ColumnSet) (string, []interface{}, error) {
	if group == nil {
		return "", nil, nil
	}
	return compileGroup(group, columns)
}

func compileGroup(group *SearchGroup, columns ColumnSet) (string, []interface{}, error) {
	switch group.Type {
	case GroupQuery:
		if group.Query == nil {
			return "", nil, fmt.Errorf("query group without a query")
		}
		return compileQuery(group.Query, columns)
	case GroupAnd, GroupOr:
		if len(group.Children) == 0 {
			return "", nil, fmt.Errorf("empty group")
		}
		sep := " AND "
		if group.Type == GroupOr {
			sep = " OR "
		}
		parts := make([]string, 0, len(group.Children))
		var args []interface{}
		for i := range group.Children {
			sql, childArgs, err := compileGroup(&group.Children[i], columns)
			if err != nil {
				return "", nil, err
			}
			parts = append(parts, sql)
			args = append(args, childArgs...)
		}
		return "(" + strings.Join(parts, sep) + ")", args, nil
	default:
		return "", nil, fmt.Errorf("unknown group type %d", group.Type)
	}
}

func compileQuery(q *SearchQuery, columns ColumnSet) (string, []interface{}, error) {
	col, ok := columns[q.Column]
	if !ok {
		return "", nil, fmt.Errorf("unknown column %q", q.Column)
	}

	var sql string
	var args []interface{}
	switch q.Operator {
	case OpEquals:
		value, err := coerce(q.Value, col.kind)
		if err != nil {
			return "", nil, fmt.Errorf("column %q: %w", q.Column, err)
		}
		sql, args = col.sql+" = ?", []interface{}{value}
	case OpContains:
		if col.kind != kindString {
			return "", nil, fmt.Errorf("column %q does not support contains", q.Column)
		}
		value, err := coerce(q.Value, kindString)
		if err != nil {
			return "", nil, fmt.Errorf("column %q: %w", q.Column, err)
		}
		sql, args = col.sql+" LIKE ?", []interface{}{"%" + value.(string) + "%"}
	case OpIn:
		values, ok := q.Value.([]interface{})
		if !ok {
			return "", nil, fmt.Errorf("column %q: in requires a list", q.Column)
		}
		coerced := make([]interface{}, 0, len(values))
		for _, v := range values {
			value, err := coerce(v, col.kind)
			if err != nil {
				return "", nil, fmt.Errorf("column %q: %w", q.Column, err)
			}
			coerced = append(coerced, value)
		}
		sql, args = col.sql+" IN ?", []interface{}{coerced}
	case OpGreaterThan, OpGreaterOrEqual:
		if col.kind == kindString {
			return "", nil, fmt.Errorf("column %q does not support ordering comparison", q.Column)
		}
		value, err := coerce(q.Value, col.kind)
		if err != nil {
			return "", nil, fmt.Errorf("column %q: %w", q.Column, err)
		}
		op := " > ?"
		if q.Operator == OpGreaterOrEqual {
			op = " >= ?"
		}
		sql, args = col.sql+op, []interface{}{value}
	default:
		return "", nil, fmt.Errorf("unknown operator %d", q.Operator)
	}

	if q.Not {
		sql = "NOT (" + sql + ")"
	}
	return sql, args, nil
}

// coerce converts a JSON-decoded value into the type the column compares
// against. JSON numbers arrive as float64.
func coerce(value interface{}, kind columnKind) (interface{}, error) {
	switch kind {
	case kindNumber:
		switch v := value.(type) {
		case float64:
			return int64(v), nil
		case int:
			return int64(v), nil
		case int64:
			return v, nil
		default:
			return nil, fmt.Errorf("expected a number, got %T", value)
		}
	case kindString:
		v, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("expected a string, got %T", value)
		}
		return v, nil
	case kindTime:
		switch v := value.(type) {
		case time.Time:
			return v, nil
		case string:
			for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
				if t, err := time.Parse(layout, v); err == nil {
					return t, nil
				}
			}
			return nil, fmt.Errorf("invalid timestamp %q", v)
		default:
			return nil, fmt.Errorf("expected a timestamp, got %T", value)
		}
	default:
		return nil, fmt.Errorf("unknown column kind %d", kind)
	}
}

// OrderBy returns the ORDER BY clause for the request, falling back to the
// entity's natural order when no column is given. The id tiebreaker keeps
// pagination stable.
func (r *SearchRequest) OrderBy(columns ColumnSet, fallback string) (string, error) {
	col := fallback
	if r.OrderByColumn != "" {
		c, ok := columns[r.OrderByColumn]
		if !ok {
			return "", fmt.Errorf("unknown order column %q", r.OrderByColumn)
		}
		col = c.sql
	}
	dir := "ASC"
	if r.Descending {
		dir = "DESC"
	}
	tie := columns["Id"].sql
	return fmt.Sprintf("%s %s, %s %s", col, dir, tie, dir), nil
}
