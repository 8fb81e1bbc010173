package reqltable

import (
	"sort"
	"strconv"
)

// AggFunc names a supported REQL aggregate.
type AggFunc string

const (
	AggCount AggFunc = "COUNT"
	AggSum   AggFunc = "SUM"
	AggAvg   AggFunc = "AVG"
	AggMin   AggFunc = "MIN"
	AggMax   AggFunc = "MAX"
)

// Aggregate is one `(FUNC(?arg) AS ?alias)` projection term. Arg is "*" for
// COUNT(*); Star mirrors that for clarity at call sites that don't want to
// special-case the string.
type Aggregate struct {
	Func  AggFunc
	Arg   string
	Star  bool
	Alias string
}

// GroupBy partitions t's rows by the (possibly empty) keys columns and
// computes aggs over each partition, emitting one row per distinct group
// plus one column per key and one per aggregate alias.
//
// Grouping keys that are null (e.g. because they came through an OPTIONAL)
// are preserved bit-exactly: two null-keyed rows group together (null
// equals null for grouping purposes, same as any other value), but a null
// key is never coerced into, or confused with, a sentinel non-null value —
// spec.md §9(b)'s documented hazard is about *aggregate* correctness over
// such a group, not about silently merging distinct groups, and this
// implementation keeps every null-keyed group as its own partition rather
// than folding all null-keyed rows into "no group at all".
func (t *Table) GroupBy(keys []string, aggs []Aggregate) *Table {
	keyIdx := make([]int, len(keys))
	for i, k := range keys {
		keyIdx[i] = t.ColumnIndex(k)
	}

	type group struct {
		keyCells Row
		rows     []Row
	}
	order := make([]string, 0)
	groups := make(map[string]*group)

	for _, row := range t.Rows {
		keyCells := make(Row, len(keys))
		for i, ci := range keyIdx {
			if ci >= 0 {
				keyCells[i] = row[ci]
			}
		}
		gk := rowKey(keyCells)
		g, ok := groups[gk]
		if !ok {
			g = &group{keyCells: keyCells}
			groups[gk] = g
			order = append(order, gk)
		}
		g.rows = append(g.rows, row)
	}
	sort.Strings(order)

	cols := append(append([]string{}, keys...), aliasesOf(aggs)...)
	out := New(cols)
	for _, gk := range order {
		g := groups[gk]
		row := make(Row, 0, len(keys)+len(aggs))
		row = append(row, g.keyCells...)
		for _, agg := range aggs {
			row = append(row, computeAggregate(t, agg, g.rows))
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

func aliasesOf(aggs []Aggregate) []string {
	out := make([]string, len(aggs))
	for i, a := range aggs {
		out[i] = a.Alias
	}
	return out
}

func computeAggregate(t *Table, agg Aggregate, rows []Row) *string {
	if agg.Func == AggCount && agg.Star {
		n := strconv.Itoa(len(rows))
		return &n
	}

	argIdx := t.ColumnIndex(agg.Arg)
	var nums []float64
	nonNull := 0
	for _, row := range rows {
		if argIdx < 0 || argIdx >= len(row) {
			continue
		}
		cell := row[argIdx]
		if cell == nil {
			continue
		}
		nonNull++
		if f, err := strconv.ParseFloat(*cell, 64); err == nil {
			nums = append(nums, f)
		}
	}

	switch agg.Func {
	case AggCount:
		n := strconv.Itoa(nonNull)
		return &n
	case AggSum:
		var sum float64
		for _, n := range nums {
			sum += n
		}
		s := formatFloat(sum)
		return &s
	case AggAvg:
		if len(nums) == 0 {
			return nil
		}
		var sum float64
		for _, n := range nums {
			sum += n
		}
		s := formatFloat(sum / float64(len(nums)))
		return &s
	case AggMin:
		if len(nums) == 0 {
			return nil
		}
		m := nums[0]
		for _, n := range nums[1:] {
			if n < m {
				m = n
			}
		}
		s := formatFloat(m)
		return &s
	case AggMax:
		if len(nums) == 0 {
			return nil
		}
		m := nums[0]
		for _, n := range nums[1:] {
			if n > m {
				m = n
			}
		}
		s := formatFloat(m)
		return &s
	default:
		return nil
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
