package reqltable

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func row(cells ...string) Row {
	out := make(Row, len(cells))
	for i, c := range cells {
		if c == "\x00" {
			continue
		}
		v := c
		out[i] = &v
	}
	return out
}

func TestDistinctRemovesDuplicates(t *testing.T) {
	tbl := New([]string{"x"})
	tbl.AddRow(row("a"))
	tbl.AddRow(row("a"))
	tbl.AddRow(row("b"))

	out := tbl.Distinct()
	assert.Len(t, out.Rows, 2)
}

func TestOrderByNumericAndNullsFirst(t *testing.T) {
	tbl := New([]string{"age"})
	tbl.AddRow(row("30"))
	tbl.AddRow(Row{nil})
	tbl.AddRow(row("5"))
	tbl.AddRow(row("100"))

	out := tbl.OrderBy([]OrderKey{{Column: "age"}})
	assert.Nil(t, out.Rows[0][0])
	assert.Equal(t, "5", *out.Rows[1][0])
	assert.Equal(t, "30", *out.Rows[2][0])
	assert.Equal(t, "100", *out.Rows[3][0])
}

func TestOrderByDesc(t *testing.T) {
	tbl := New([]string{"age"})
	tbl.AddRow(row("5"))
	tbl.AddRow(row("30"))

	out := tbl.OrderBy([]OrderKey{{Column: "age", Desc: true}})
	assert.Equal(t, "30", *out.Rows[0][0])
	assert.Equal(t, "5", *out.Rows[1][0])
}

func TestLimitOffset(t *testing.T) {
	tbl := New([]string{"x"})
	for _, v := range []string{"a", "b", "c", "d"} {
		tbl.AddRow(row(v))
	}

	out := tbl.Limit(2, 1)
	assert.Len(t, out.Rows, 2)
	assert.Equal(t, "b", *out.Rows[0][0])
	assert.Equal(t, "c", *out.Rows[1][0])
}

func TestProjectNullsMissingColumn(t *testing.T) {
	tbl := New([]string{"a", "b"})
	tbl.AddRow(row("1", "2"))

	out := tbl.Project([]string{"b", "c"})
	assert.Equal(t, []string{"b", "c"}, out.Columns)
	assert.Equal(t, "2", *out.Rows[0][0])
	assert.Nil(t, out.Rows[0][1])
}

func TestConcatAlignsColumns(t *testing.T) {
	left := New([]string{"a", "b"})
	left.AddRow(row("1", "2"))
	right := New([]string{"b", "c"})
	right.AddRow(row("3", "4"))

	out := left.Concat(right)
	assert.Equal(t, []string{"a", "b", "c"}, out.Columns)
	assert.Len(t, out.Rows, 2)
	assert.Nil(t, out.Rows[1][0])
	assert.Equal(t, "3", *out.Rows[1][1])
	assert.Equal(t, "4", *out.Rows[1][2])
}

func TestAsk(t *testing.T) {
	out := Ask(true)
	assert.Equal(t, []string{"ask"}, out.Columns)
	assert.Equal(t, "true", *out.Rows[0][0])
}

func TestGroupByCountSum(t *testing.T) {
	tbl := New([]string{"dept", "salary"})
	tbl.AddRow(row("eng", "100"))
	tbl.AddRow(row("eng", "200"))
	tbl.AddRow(row("sales", "50"))

	out := tbl.GroupBy([]string{"dept"}, []Aggregate{
		{Func: AggCount, Star: true, Alias: "n"},
		{Func: AggSum, Arg: "salary", Alias: "total"},
	})

	assert.Equal(t, []string{"dept", "n", "total"}, out.Columns)
	assert.Len(t, out.Rows, 2)

	byDept := map[string]Row{}
	for _, r := range out.Rows {
		byDept[*r[0]] = r
	}
	assert.Equal(t, "2", *byDept["eng"][1])
	assert.Equal(t, "300", *byDept["eng"][2])
	assert.Equal(t, "1", *byDept["sales"][1])
	assert.Equal(t, "50", *byDept["sales"][2])
}

func TestGroupByPreservesNullKeysAsDistinctGroup(t *testing.T) {
	tbl := New([]string{"k", "v"})
	tbl.AddRow(Row{nil, row("1")[0]})
	tbl.AddRow(Row{nil, row("2")[0]})
	tbl.AddRow(row("x", "3"))

	out := tbl.GroupBy([]string{"k"}, []Aggregate{{Func: AggCount, Star: true, Alias: "n"}})
	assert.Len(t, out.Rows, 2)

	var nullGroupCount, xGroupCount string
	for _, r := range out.Rows {
		if r[0] == nil {
			nullGroupCount = *r[1]
		} else {
			xGroupCount = *r[1]
		}
	}
	assert.Equal(t, "2", nullGroupCount)
	assert.Equal(t, "1", xGroupCount)
}
