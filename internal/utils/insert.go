package querybuilder

import (
	"fmt"
	"strings"
)

// InsertBuilder assembles multi-row INSERT statements with positional
// placeholders, used for batch-inserting per-case results alongside their
// submission.
type InsertBuilder struct {
	schema string
	table  string
	cols   []string
	rows   [][]interface{}
}

func NewInsertBuilder(schema string) *InsertBuilder {
	return &InsertBuilder{schema: schema}
}

func (b *InsertBuilder) Insert(cols ...string) *InsertBuilder {
	b.cols = cols
	return b
}

func (b *InsertBuilder) Into(table string) *InsertBuilder {
	b.table = table
	return b
}

// Values appends one row; call once per row
func (b *InsertBuilder) Values(values ...interface{}) *InsertBuilder {
	b.rows = append(b.rows, values)
	return b
}

// Build renders the statement and its flattened argument list
func (b *InsertBuilder) Build() (string, []interface{}) {
	table := b.table
	if b.schema != "" {
		table = b.schema + "." + b.table
	}

	placeholders := make([]string, 0, len(b.rows))
	args := make([]interface{}, 0, len(b.rows)*len(b.cols))
	n := 1
	for _, row := range b.rows {
		marks := make([]string, len(row))
		for i, v := range row {
			marks[i] = fmt.Sprintf("$%d", n)
			args = append(args, v)
			n++
		}
		placeholders = append(placeholders, "("+strings.Join(marks, ", ")+")")
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES %s",
		table,
		strings.Join(b.cols, ", "),
		strings.Join(placeholders, ", "),
	)

	return query, args
}
