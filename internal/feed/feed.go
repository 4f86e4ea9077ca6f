// Package feed is a synthetic order-intent source: a ticker-driven generator
// that submits a bid and an ask each step, priced on a slow sine wave so the
// two sides oscillate around a stable midpoint and regularly cross.
package feed

import (
	"math"
	"math/big"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"mimir/internal/engine"
)

const (
	priceMargin = 6   // max random offset added on top of the base price
	maxQuantity = 100 // quantities are uniform in [1, maxQuantity]
)

type Generator struct {
	engine   *engine.Engine
	interval time.Duration
	rng      *rand.Rand
	step     uint64
}

func New(eng *engine.Engine, interval time.Duration) *Generator {
	return &Generator{
		engine:   eng,
		interval: interval,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run submits synthetic intents until the tomb starts dying. Each tick is
// independent of the previous tick's matching outcome.
func (g *Generator) Run(t *tomb.Tomb) error {
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", g.interval).Msg("feed running")
	for {
		select {
		case <-t.Dying():
			return nil
		case <-ticker.C:
			g.tick()
		}
	}
}

// tick submits one bid and one ask at the current step price. Both sides at
// the same price guarantees periodic crossings.
func (g *Generator) tick() {
	price := g.nextPrice()
	for _, side := range []engine.Side{engine.Buy, engine.Sell} {
		intent := engine.OrderIntent{
			Quantity: uint64(g.rng.Int63n(maxQuantity)) + 1,
			Price:    new(big.Int).Set(price),
		}
		res, err := g.engine.Submit(side, intent)
		if err != nil {
			log.Error().Err(err).Stringer("side", side).Msg("feed submit rejected")
			continue
		}
		log.Debug().
			Stringer("side", side).
			Uint64("quantity", intent.Quantity).
			Str("price", price.String()).
			Int("trades", len(res.Trades)).
			Bool("rested", res.Resting != nil).
			Msg("feed intent submitted")
	}
	g.step++
}

// nextPrice walks floor((sin(0.1*k)+2)*100) plus a small positive jitter,
// so it never emits zero.
func (g *Generator) nextPrice() *big.Int {
	base := uint64(math.Floor((math.Sin(float64(g.step)*0.1) + 2) * 100))
	jitter := uint64(g.rng.Int63n(priceMargin)) + 1
	return new(big.Int).SetUint64(base + jitter)
}
