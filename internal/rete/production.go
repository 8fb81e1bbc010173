package rete

import (
	"go.uber.org/zap"

	"github.com/codeine-ai/reter/internal/beta"
)

// Production is a compiled rule: its LHS is already wired into the alpha
// and beta networks; onMatch/onUnmatch are registered as the terminal
// join node's token callbacks. Refraction ensures a given token never
// fires the same production's RHS more than once.
type Production struct {
	Name string

	spec ProductionSpec
	net  *Network

	refraction map[*beta.Token]bool
}

// onMatch fires when the terminal join node accepts a new full-match
// token: applies refraction, then either asserts the RHS facts or runs
// the template function that installs a new specialized production.
func (p *Production) onMatch(tok *beta.Token) {
	if p.refraction[tok] {
		return
	}
	p.refraction[tok] = true

	p.net.stats.FiringCounts[p.Name]++

	if p.spec.RHS.Template != nil {
		p.spec.RHS.Template(p.net, tok.Bindings)
		return
	}
	for _, a := range p.spec.RHS.Assert {
		fact, err := substitute(a.Literals, a.Vars, tok.Bindings)
		if err != nil {
			p.net.log.Debug("skipping assert: unbound variable", zap.String("production", p.Name), zap.Error(err))
			continue
		}
		fact[typeAttr] = a.Type
		p.net.assertInferred(fact, tok)
	}
}

// onUnmatch fires when the terminal join node retracts a previously
// accepted token: drops refraction bookkeeping and lets the network
// retract any inferred fact solely supported by this token.
func (p *Production) onUnmatch(tok *beta.Token) {
	delete(p.refraction, tok)
	p.net.unmatch(tok)
}

const typeAttr = "type"
