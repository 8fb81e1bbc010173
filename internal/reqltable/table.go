// Package reqltable implements REQL's result relation: a column-oriented,
// nullable table (spec.md §3, §4.6) plus the relational operators the
// query executor composes (distinct, order, limit/offset, projection,
// union concatenation, group-by/aggregate). Every operator returns a new
// Table; none mutate their receiver, so a compiled plan can safely reuse
// intermediate tables across branches (e.g. a non-correlated subquery
// broadcast to every parent row).
package reqltable

import (
	"sort"
	"strconv"
	"strings"
)

// Row is one row's cells, aligned positionally to Table.Columns. A nil
// cell is REQL's null (an unbound variable in that row, typically from an
// OPTIONAL branch or an absent UNION column).
type Row []*string

// Table is REQL's column-oriented query result: a fixed column schema plus
// the rows matching it, each a nullable string per column (spec.md §3:
// "each column is a named, nullable sequence of strings").
type Table struct {
	Columns []string
	Rows    []Row
}

// New returns an empty table with the given column schema.
func New(columns []string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Columns: cols}
}

// Str returns a non-null cell pointer for v, for building rows.
func Str(v string) *string { return &v }

// AddRow appends row, which must already be aligned to t.Columns.
func (t *Table) AddRow(row Row) {
	t.Rows = append(t.Rows, row)
}

// ColumnIndex returns the position of col in t.Columns, or -1.
func (t *Table) ColumnIndex(col string) int {
	for i, c := range t.Columns {
		if c == col {
			return i
		}
	}
	return -1
}

// Get returns row i's cell for col, and whether col exists in the schema.
func (t *Table) Get(i int, col string) (*string, bool) {
	idx := t.ColumnIndex(col)
	if idx < 0 {
		return nil, false
	}
	return t.Rows[i][idx], true
}

// Clone returns a shallow copy of t (rows are copied, cell pointers
// shared — cells are never mutated in place).
func (t *Table) Clone() *Table {
	out := New(t.Columns)
	out.Rows = make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		row := make(Row, len(r))
		copy(row, r)
		out.Rows[i] = row
	}
	return out
}

// rowKey serializes a row into a comparable string for deduplication and
// grouping, with a control byte distinguishing null from the literal
// string "\x00" so no real value can collide with a null marker.
func rowKey(row Row) string {
	var b strings.Builder
	for _, c := range row {
		if c == nil {
			b.WriteByte(0)
		} else {
			b.WriteByte(1)
			b.WriteString(*c)
		}
		b.WriteByte('\x1f')
	}
	return b.String()
}

// Distinct returns t with duplicate rows removed, preserving first-seen
// order (spec.md §8's "Query distinctness": every SELECT result is
// deduplicated after projection, regardless of whether DISTINCT appears —
// see DESIGN.md's Open Question decision).
func (t *Table) Distinct() *Table {
	out := New(t.Columns)
	seen := make(map[string]bool, len(t.Rows))
	for _, row := range t.Rows {
		key := rowKey(row)
		if seen[key] {
			continue
		}
		seen[key] = true
		out.Rows = append(out.Rows, row)
	}
	return out
}

// OrderKey is one ORDER BY term: a column name plus sort direction.
type OrderKey struct {
	Column string
	Desc   bool
}

// OrderBy stably sorts t's rows by keys in order, comparing numerically
// when both cells parse as numbers and lexically otherwise. Nulls sort
// before every non-null value, regardless of direction.
func (t *Table) OrderBy(keys []OrderKey) *Table {
	out := t.Clone()
	idxs := make([]int, len(keys))
	for i, k := range keys {
		idxs[i] = out.ColumnIndex(k.Column)
	}
	sort.SliceStable(out.Rows, func(a, b int) bool {
		for i, k := range keys {
			ci := idxs[i]
			if ci < 0 {
				continue
			}
			cmp := compareCells(out.Rows[a][ci], out.Rows[b][ci])
			if cmp == 0 {
				continue
			}
			if k.Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
	return out
}

// compareCells orders nil before any non-nil cell, and compares two
// non-nil cells numerically if both parse as float64, lexically otherwise.
func compareCells(a, b *string) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}
	af, aok := strconv.ParseFloat(*a, 64)
	bf, bok := strconv.ParseFloat(*b, 64)
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(*a, *b)
}

// Limit returns at most n rows starting at offset. A negative n means no
// limit (LIMIT applies after FILTER, never pushed above it — the plan is
// responsible for ordering operator application; this method is purely
// mechanical slicing).
func (t *Table) Limit(n, offset int) *Table {
	out := New(t.Columns)
	if offset < 0 {
		offset = 0
	}
	if offset >= len(t.Rows) {
		return out
	}
	rows := t.Rows[offset:]
	if n >= 0 && n < len(rows) {
		rows = rows[:n]
	}
	out.Rows = append(out.Rows, rows...)
	return out
}

// Project reorders/narrows t to columns, nulling any column absent from
// t's schema (used by SELECT's explicit column list and by UNION's
// column-alignment step).
func (t *Table) Project(columns []string) *Table {
	out := New(columns)
	idxs := make([]int, len(columns))
	for i, c := range columns {
		idxs[i] = t.ColumnIndex(c)
	}
	for _, row := range t.Rows {
		newRow := make(Row, len(columns))
		for i, ci := range idxs {
			if ci >= 0 {
				newRow[i] = row[ci]
			}
		}
		out.Rows = append(out.Rows, newRow)
	}
	return out
}

// UnionColumns returns the column schema UNION branches align to: every
// distinct column across both sides, in left-then-newly-introduced order.
func UnionColumns(left, right []string) []string {
	seen := make(map[string]bool, len(left)+len(right))
	out := make([]string, 0, len(left)+len(right))
	for _, c := range left {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	for _, c := range right {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

// Concat implements UNION's set union of sibling branches: both tables are
// first aligned to the union of their columns (absent columns nulled),
// then concatenated. Deduplication is the caller's job (Distinct), since
// REQL's implicit distinct applies after the full WHERE clause, not per
// branch.
func (t *Table) Concat(other *Table) *Table {
	cols := UnionColumns(t.Columns, other.Columns)
	out := New(cols)
	out.Rows = append(out.Rows, t.Project(cols).Rows...)
	out.Rows = append(out.Rows, other.Project(cols).Rows...)
	return out
}

// Ask returns the single-row, single-column boolean table §6.2 specifies
// for ASK queries.
func Ask(result bool) *Table {
	out := New([]string{"ask"})
	v := strconv.FormatBool(result)
	out.Rows = append(out.Rows, Row{&v})
	return out
}
