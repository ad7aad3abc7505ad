// AngelaMos | 2026
// update.go

package core

import (
	"fmt"
	"strings"
)

// UpdateBuilder collects the columns a partial update touches and renders
// them as a parameterized UPDATE. Column and table names must be code
// constants; only values travel as arguments.
type UpdateBuilder struct {
	table   string
	columns []string
	args    []any
}

func NewUpdate(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

// Set records column = value. Assignments render in call order.
func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.columns = append(b.columns, column)
	b.args = append(b.args, value)
	return b
}

func (b *UpdateBuilder) Empty() bool {
	return len(b.columns) == 0
}

func (b *UpdateBuilder) Len() int {
	return len(b.columns)
}

// Build renders the statement with the id predicate bound to the last
// placeholder.
func (b *UpdateBuilder) Build(
	idColumn string,
	id any,
	returning string,
) (string, []any) {
	assignments := make([]string, 0, len(b.columns))
	for i, col := range b.columns {
		assignments = append(assignments, fmt.Sprintf("%s = $%d", col, i+1))
	}

	args := make([]any, 0, len(b.args)+1)
	args = append(args, b.args...)
	args = append(args, id)

	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE %s = $%d",
		b.table,
		strings.Join(assignments, ", "),
		idColumn,
		len(args),
	)

	if returning != "" {
		query += " RETURNING " + returning
	}

	return query, args
}
