package reql

import (
	"github.com/codeine-ai/reter/internal/reqltable"
	"github.com/codeine-ai/reter/internal/rete"
)

// Query parses, compiles, and executes REQL source text against net,
// returning the result table. timeoutMS <= 0 means unbounded (spec.md
// §6.2).
func Query(net *rete.Network, text string, timeoutMS int) (*reqltable.Table, error) {
	q, err := Parse(text)
	if err != nil {
		return nil, err
	}
	plan, err := Compile(q)
	if err != nil {
		return nil, err
	}
	return Execute(net, plan, timeoutMS)
}
