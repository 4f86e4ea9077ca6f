package engine

import (
	"math/big"
	"time"

	"github.com/google/uuid"
)

// Side is the direction of an order.
type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Buy {
		return "buy"
	}
	return "sell"
}

// Opposite is the book side an order of this side crosses against.
func (s Side) Opposite() Side {
	if s == Buy {
		return Sell
	}
	return Buy
}

// SlotID is a per-side slot handle. Ids are recycled from removed orders,
// so a SlotID is only unique among the orders currently resting on one side.
// Use ResidentOrder.Ref for identity that survives the order's lifetime.
type SlotID int

// OrderIntent is a request to trade: a positive quantity at a non-negative
// arbitrary-precision limit price. Intents are inputs to matching, never stored.
type OrderIntent struct {
	Quantity uint64
	Price    *big.Int
}

// ResidentOrder is an order resting in the book, unmatched in whole or part.
type ResidentOrder struct {
	Slot     SlotID
	Ref      uuid.UUID // globally unique, assigned once at rest creation
	Side     Side
	Price    *big.Int
	Quantity uint64

	seq uint64 // insertion sequence, breaks price ties in arrival order
}

// clone copies the order, duplicating the price so callers outside the lock
// never alias book-owned state.
func (o *ResidentOrder) clone() ResidentOrder {
	c := *o
	c.Price = new(big.Int).Set(o.Price)
	return c
}

// Trade is a completed match. Immutable once created; Side is the side of the
// incoming order that caused the match.
type Trade struct {
	ID        uuid.UUID
	Price     *big.Int
	Quantity  uint64
	Side      Side
	CreatedAt time.Time
}

// MatchResult is the outcome of one Submit call: the trades it produced and,
// if the intent did not fully match, the order left resting in the book.
type MatchResult struct {
	Trades  []Trade
	Resting *ResidentOrder
}
