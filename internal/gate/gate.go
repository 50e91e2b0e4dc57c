// Package gate decides whether the upstream bank is reachable for a request.
package gate

import (
	"context"
	"math/rand/v2"
)

const DefaultUnavailableRate = 0.10

type Gate interface {
	Available(ctx context.Context) bool
}

// Func adapts a plain function.
type Func func(ctx context.Context) bool

func (f Func) Available(ctx context.Context) bool { return f(ctx) }

var (
	Always Gate = Func(func(context.Context) bool { return true })
	Never  Gate = Func(func(context.Context) bool { return false })
)

// Random reports unavailable with probability Rate. Source returns values
// in [0,1); nil means math/rand/v2.
type Random struct {
	Rate   float64
	Source func() float64
}

func NewRandom(rate float64) *Random {
	return &Random{Rate: rate}
}

func (g *Random) Available(ctx context.Context) bool {
	if g.Rate <= 0 {
		return true
	}
	src := g.Source
	if src == nil {
		src = rand.Float64
	}
	return src() >= g.Rate
}
