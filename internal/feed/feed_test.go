package feed

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mimir/internal/engine"
)

func testGenerator(eng *engine.Engine) *Generator {
	g := New(eng, time.Second)
	g.rng = rand.New(rand.NewSource(1))
	return g
}

// Every price the generator emits is strictly positive and bounded by the
// sine law plus its jitter.
func TestGenerator_PriceLawBounds(t *testing.T) {
	g := testGenerator(engine.New(10))
	for i := 0; i < 1000; i++ {
		p := g.nextPrice()
		require.True(t, p.IsUint64())
		v := p.Uint64()
		assert.Positive(t, v)
		assert.LessOrEqual(t, v, uint64(300+priceMargin))
		g.step++
	}
}

// The generator only ever submits well-formed intents: the engine accepts
// every one of them.
func TestGenerator_SubmitsWellFormedIntents(t *testing.T) {
	eng := engine.New(1000)
	g := testGenerator(eng)

	for i := 0; i < 200; i++ {
		g.tick()
	}

	// Both sides at the same price each tick: one of the pair always
	// crosses, so the book saw both rests and trades.
	assert.NotEmpty(t, eng.RecentTrades(10))
	for _, side := range []engine.Side{engine.Buy, engine.Sell} {
		for _, o := range eng.Snapshot(side, 10_000) {
			assert.Positive(t, o.Quantity)
			assert.Positive(t, o.Price.Sign())
		}
	}
	for _, tr := range eng.RecentTrades(1000) {
		assert.Positive(t, tr.Quantity)
	}
}

func TestGenerator_StepAdvances(t *testing.T) {
	g := testGenerator(engine.New(10))
	g.tick()
	g.tick()
	assert.Equal(t, uint64(2), g.step)
}
