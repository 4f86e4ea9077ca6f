package engine

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(n uint64) *big.Int {
	return new(big.Int).SetUint64(n)
}

func TestBookSide_BuyBestIsHighestPrice(t *testing.T) {
	bs := newBookSide(Buy)
	bs.insert(price(99), 10)
	bs.insert(price(101), 10)
	bs.insert(price(100), 10)

	best, ok := bs.best()
	require.True(t, ok)
	assert.Equal(t, price(101), best.Price)
	assert.Equal(t, 3, bs.len())
}

func TestBookSide_SellBestIsLowestPrice(t *testing.T) {
	bs := newBookSide(Sell)
	bs.insert(price(99), 10)
	bs.insert(price(101), 10)
	bs.insert(price(100), 10)

	best, ok := bs.best()
	require.True(t, ok)
	assert.Equal(t, price(99), best.Price)
}

func TestBookSide_EmptyBest(t *testing.T) {
	bs := newBookSide(Buy)
	_, ok := bs.best()
	assert.False(t, ok)
	_, ok = bs.popBest()
	assert.False(t, ok)
}

// Equal-price orders must leave the book in arrival order.
func TestBookSide_ArrivalOrderWithinPriceLevel(t *testing.T) {
	for _, side := range []Side{Buy, Sell} {
		t.Run(side.String(), func(t *testing.T) {
			bs := newBookSide(side)
			first := bs.insert(price(100), 1)
			second := bs.insert(price(100), 2)
			third := bs.insert(price(100), 3)

			for _, want := range []*ResidentOrder{first, second, third} {
				got, ok := bs.popBest()
				require.True(t, ok)
				assert.Equal(t, want.Ref, got.Ref)
			}
		})
	}
}

func TestBookSide_SlotRecycling(t *testing.T) {
	bs := newBookSide(Buy)
	a := bs.insert(price(100), 10)
	b := bs.insert(price(90), 10)
	assert.Equal(t, SlotID(0), a.Slot)
	assert.Equal(t, SlotID(1), b.Slot)

	popped, ok := bs.popBest()
	require.True(t, ok)
	require.Equal(t, a.Slot, popped.Slot)

	// The freed slot is handed back out, but under a fresh global ref.
	c := bs.insert(price(80), 10)
	assert.Equal(t, a.Slot, c.Slot)
	assert.NotEqual(t, a.Ref, c.Ref)
}

func TestBookSide_SnapshotBestFirstAndCapped(t *testing.T) {
	bs := newBookSide(Sell)
	bs.insert(price(102), 1)
	bs.insert(price(100), 2)
	bs.insert(price(101), 3)

	view := bs.snapshot(2)
	require.Len(t, view, 2)
	assert.Equal(t, price(100), view[0].Price)
	assert.Equal(t, price(101), view[1].Price)

	// Snapshots never mutate the side.
	assert.Equal(t, 3, bs.len())
	assert.Equal(t, bs.snapshot(10), bs.snapshot(10))

	assert.Empty(t, bs.snapshot(0))
}

func TestBookSide_SnapshotCopiesPrices(t *testing.T) {
	bs := newBookSide(Buy)
	bs.insert(price(100), 1)

	view := bs.snapshot(1)
	require.Len(t, view, 1)
	view[0].Price.SetUint64(5)

	best, ok := bs.best()
	require.True(t, ok)
	assert.Equal(t, price(100), best.Price)
}

func TestSlotTable_RemoveVacantPanics(t *testing.T) {
	var table slotTable
	table.insert(&ResidentOrder{})
	table.remove(0)
	assert.Panics(t, func() { table.remove(0) })
	assert.Panics(t, func() { table.remove(7) })
}
