package reql

import (
	"strings"

	"github.com/codeine-ai/reter/internal/reqltable"
)

// project turns a WHERE clause's bindings into the query's result table:
// ASK collapses to a single boolean row; otherwise bindings are laid out
// column-wise, grouped/aggregated if needed, the SELECT list (or SELECT
// *) is projected, HAVING filters the grouped rows, and finally ORDER
// BY/LIMIT/OFFSET/implicit-distinct are applied.
func (ctx *execContext) project(q *Query, bindings []Binding) (*reqltable.Table, error) {
	if q.Ask {
		return reqltable.Ask(len(bindings) > 0), nil
	}

	vars := sortedVars(collectPatternVars(q.Where))
	raw := reqltable.New(vars)
	for _, b := range bindings {
		row := make(reqltable.Row, len(vars))
		for i, v := range vars {
			if val, ok := b[v]; ok {
				row[i] = reqltable.Str(val)
			}
		}
		raw.AddRow(row)
	}

	aggs, hasAgg := collectAggregates(q.Select)
	var table *reqltable.Table
	var err error
	if len(q.GroupBy) > 0 || hasAgg {
		grouped := raw.GroupBy(q.GroupBy, aggs)
		table, err = ctx.projectSelect(q, grouped, true)
		if err != nil {
			return nil, err
		}
		table = ctx.applyHaving(q, table)
	} else {
		table, err = ctx.projectSelect(q, raw, false)
		if err != nil {
			return nil, err
		}
	}
	return ctx.finish(q, table)
}

func (ctx *execContext) projectSelect(q *Query, table *reqltable.Table, grouped bool) (*reqltable.Table, error) {
	if q.Star {
		return table.Clone(), nil
	}

	cols := make([]string, len(q.Select))
	for i, s := range q.Select {
		if s.Var != "" {
			cols[i] = s.Var
		} else {
			cols[i] = s.Alias
		}
	}

	out := reqltable.New(cols)
	for _, row := range table.Rows {
		b := bindingFromRow(table, row)
		newRow := make(reqltable.Row, len(q.Select))
		for i, s := range q.Select {
			if s.Var != "" {
				if idx := table.ColumnIndex(s.Var); idx >= 0 {
					newRow[i] = row[idx]
				}
				continue
			}
			if grouped {
				if idx := table.ColumnIndex(s.Alias); idx >= 0 {
					newRow[i] = row[idx]
					continue
				}
			}
			if v, ok := ctx.evalScalar(s.Expr, b); ok {
				newRow[i] = reqltable.Str(v)
			}
		}
		out.AddRow(newRow)
	}
	return out, nil
}

func (ctx *execContext) applyHaving(q *Query, table *reqltable.Table) *reqltable.Table {
	if q.Having == nil {
		return table
	}
	out := reqltable.New(table.Columns)
	for _, row := range table.Rows {
		b := bindingFromRow(table, row)
		if ctx.evalBool(q.Having, b) {
			out.AddRow(row)
		}
	}
	return out
}

// finish applies ORDER BY, LIMIT/OFFSET, and the implicit post-projection
// distinct the retrieved grammar documents -- applied unconditionally,
// making the explicit DISTINCT keyword a no-op (spec.md §9(a)).
func (ctx *execContext) finish(q *Query, table *reqltable.Table) (*reqltable.Table, error) {
	table = table.Distinct()
	if len(q.OrderBy) > 0 {
		keys := make([]reqltable.OrderKey, len(q.OrderBy))
		for i, o := range q.OrderBy {
			keys[i] = reqltable.OrderKey{Column: o.Var, Desc: o.Desc}
		}
		table = table.OrderBy(keys)
	}
	return table.Limit(q.Limit, q.Offset), nil
}

func collectAggregates(selects []SelectTerm) ([]reqltable.Aggregate, bool) {
	var aggs []reqltable.Aggregate
	for _, s := range selects {
		call, ok := s.Expr.(CallExpr)
		if !ok {
			continue
		}
		var fn reqltable.AggFunc
		switch strings.ToUpper(call.Func) {
		case "COUNT":
			fn = reqltable.AggCount
		case "SUM":
			fn = reqltable.AggSum
		case "AVG":
			fn = reqltable.AggAvg
		case "MIN":
			fn = reqltable.AggMin
		case "MAX":
			fn = reqltable.AggMax
		default:
			continue
		}
		agg := reqltable.Aggregate{Func: fn, Alias: s.Alias}
		if len(call.Args) == 1 {
			switch arg := call.Args[0].(type) {
			case LitExpr:
				if arg.Value == "*" {
					agg.Star = true
				}
			case VarExpr:
				agg.Arg = arg.Name
			}
		}
		aggs = append(aggs, agg)
	}
	return aggs, len(aggs) > 0
}
