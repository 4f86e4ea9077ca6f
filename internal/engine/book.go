package engine

import (
	"math/big"

	"github.com/google/uuid"
	"github.com/tidwall/btree"
)

// bookSide pairs a priority collection with a slot table for one side of the
// book. The btree comparator ranks buys by descending price and sells by
// ascending price, so Min is always the top-priority order for either side.
// Equal prices fall back to the insertion sequence number, enforcing
// arrival-order fairness within a price level.
type bookSide struct {
	side  Side
	tree  *btree.BTreeG[*ResidentOrder]
	slots slotTable
	seq   uint64
}

func newBookSide(side Side) *bookSide {
	bs := &bookSide{side: side}
	bs.tree = btree.NewBTreeG(func(a, b *ResidentOrder) bool {
		if c := a.Price.Cmp(b.Price); c != 0 {
			if side == Buy {
				return c > 0
			}
			return c < 0
		}
		return a.seq < b.seq
	})
	return bs
}

// best peeks the top-priority resident order without removing it.
func (bs *bookSide) best() (*ResidentOrder, bool) {
	return bs.tree.Min()
}

// popBest removes and returns the top-priority order, freeing its slot.
func (bs *bookSide) popBest() (*ResidentOrder, bool) {
	o, ok := bs.tree.PopMin()
	if !ok {
		return nil, false
	}
	bs.slots.remove(o.Slot)
	return o, true
}

// insert allocates a slot for a new resident order and places it in the
// priority collection. The price is copied so the book owns its own value.
func (bs *bookSide) insert(price *big.Int, quantity uint64) *ResidentOrder {
	bs.seq++
	o := &ResidentOrder{
		Ref:      uuid.New(),
		Side:     bs.side,
		Price:    new(big.Int).Set(price),
		Quantity: quantity,
		seq:      bs.seq,
	}
	o.Slot = bs.slots.insert(o)
	bs.tree.Set(o)
	return o
}

// snapshot returns up to limit orders, best first, without mutating the side.
// Cost is proportional to the view size; books are expected to stay small.
func (bs *bookSide) snapshot(limit int) []ResidentOrder {
	if limit <= 0 {
		return nil
	}
	out := make([]ResidentOrder, 0, min(limit, bs.tree.Len()))
	bs.tree.Scan(func(o *ResidentOrder) bool {
		if len(out) >= limit {
			return false
		}
		out = append(out, o.clone())
		return true
	})
	return out
}

func (bs *bookSide) len() int { return bs.slots.len() }
