// Package database builds parameterized SELECT statements shared by the record store implementations.
package database

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

type ConditionType string

const (
	Equal              ConditionType = "="
	NotEqual           ConditionType = "!="
	GreaterThan        ConditionType = ">"
	LessThan           ConditionType = "<"
	LessThanOrEqual    ConditionType = "<="
	GreaterThanOrEqual ConditionType = ">="
	defaultLimit                     = -1
)

// Condition is a single "<field> <op> <param>" predicate.
type Condition struct {
	Field string
	Type  ConditionType
	Value any
}

// WhereCond builds a Condition.
func WhereCond(field string, condType ConditionType, value any) Condition {
	return Condition{Field: field, Type: condType, Value: value}
}

// NullsPlacement controls where NULL values sort.
type NullsPlacement string

const (
	NullsDefault NullsPlacement = ""
	NullsFirst   NullsPlacement = "NULLS FIRST"
	NullsLast    NullsPlacement = "NULLS LAST"
)

// OrderTerm is one ORDER BY entry.
type OrderTerm struct {
	Column string
	Dir    string
	Nulls  NullsPlacement
}

// PlaceholderFunc renders the n-th (1-based) bind parameter.
type PlaceholderFunc func(n int) string

// DollarPlaceholder renders Postgres-style $n parameters.
func DollarPlaceholder(n int) string { return fmt.Sprintf("$%d", n) }

// OrdinalPlaceholder renders SQLite-style ?n parameters.
func OrdinalPlaceholder(n int) string { return fmt.Sprintf("?%d", n) }

type ListQueryOptions struct {
	Table       string
	Columns     []string
	Conditions  []Condition
	OrderBy     []OrderTerm
	Limit       int
	Placeholder PlaceholderFunc
}

type ListQueryOption func(*ListQueryOptions)

func NewListQueryOptions(table string, opts ...ListQueryOption) *ListQueryOptions {
	options := &ListQueryOptions{
		Table:       table,
		Limit:       defaultLimit,
		Placeholder: DollarPlaceholder,
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// WithColumns sets the columns to select.
func WithColumns(cols ...string) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.Columns = cols
	}
}

// WithCondition adds a single condition.
func WithCondition(cond Condition) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.Conditions = append(o.Conditions, cond)
	}
}

// WithOrderBy appends an ordering column and direction.
func WithOrderBy(column, direction string) ListQueryOption {
	return WithOrderTerm(OrderTerm{Column: column, Dir: direction})
}

// WithOrderTerm appends a full ordering term.
func WithOrderTerm(term OrderTerm) ListQueryOption {
	return func(o *ListQueryOptions) {
		o.OrderBy = append(o.OrderBy, term)
	}
}

// WithLimit sets the limit. Accepts 0.
func WithLimit(limit int) ListQueryOption {
	return func(o *ListQueryOptions) {
		if limit >= 0 {
			o.Limit = limit
		}
	}
}

// WithPlaceholder overrides the bind parameter style.
func WithPlaceholder(fn PlaceholderFunc) ListQueryOption {
	return func(o *ListQueryOptions) {
		if fn != nil {
			o.Placeholder = fn
		}
	}
}

func sanitizeIdentifier(ident string) string {
	return pgx.Identifier{ident}.Sanitize()
}

// sanitizeQualifiedIdentifier quotes each dot-separated part of ident.
func sanitizeQualifiedIdentifier(ident string) string {
	return pgx.Identifier(strings.Split(ident, ".")).Sanitize()
}

func validConditionType(t ConditionType) bool {
	switch t {
	case Equal, NotEqual, GreaterThan, LessThan, LessThanOrEqual, GreaterThanOrEqual:
		return true
	}
	return false
}

// BuildListQuery renders the SELECT statement and its arguments. Identifiers are
// quoted and values are always bound.
//
//	opts := NewListQueryOptions("job_applications",
//		WithColumns("id", "company_name"),
//		WithCondition(WhereCond("user_id", Equal, "u-1")),
//		WithOrderTerm(OrderTerm{Column: "date_applied", Dir: "DESC", Nulls: NullsLast}),
//	)
//	query, args := BuildListQuery(opts)
func BuildListQuery(options *ListQueryOptions) (string, []any) {
	if options == nil {
		return "", nil
	}
	ph := options.Placeholder
	if ph == nil {
		ph = DollarPlaceholder
	}

	var q strings.Builder
	q.WriteString("SELECT ")
	if len(options.Columns) == 0 {
		q.WriteString("*")
	} else {
		cols := make([]string, len(options.Columns))
		for i, c := range options.Columns {
			cols[i] = sanitizeQualifiedIdentifier(c)
		}
		q.WriteString(strings.Join(cols, ", "))
	}
	q.WriteString(" FROM ")
	q.WriteString(sanitizeIdentifier(options.Table))

	args := make([]any, 0, len(options.Conditions)+1)
	where := make([]string, 0, len(options.Conditions))
	for _, c := range options.Conditions {
		if c.Field == "" || !validConditionType(c.Type) {
			continue
		}
		args = append(args, c.Value)
		where = append(where, fmt.Sprintf("%s %s %s", sanitizeQualifiedIdentifier(c.Field), c.Type, ph(len(args))))
	}
	if len(where) > 0 {
		q.WriteString(" WHERE ")
		q.WriteString(strings.Join(where, " AND "))
	}

	if len(options.OrderBy) > 0 {
		terms := make([]string, 0, len(options.OrderBy))
		for _, t := range options.OrderBy {
			if t.Column == "" {
				continue
			}
			term := sanitizeQualifiedIdentifier(t.Column)
			if dir := strings.ToUpper(t.Dir); dir == "ASC" || dir == "DESC" {
				term += " " + dir
			}
			if t.Nulls == NullsFirst || t.Nulls == NullsLast {
				term += " " + string(t.Nulls)
			}
			terms = append(terms, term)
		}
		if len(terms) > 0 {
			q.WriteString(" ORDER BY ")
			q.WriteString(strings.Join(terms, ", "))
		}
	}

	if options.Limit != defaultLimit {
		args = append(args, options.Limit)
		q.WriteString(" LIMIT ")
		q.WriteString(ph(len(args)))
	}

	return q.String(), args
}
