// Package engine implements the order book, the matching algorithm, the
// bounded trade ledger and the change-event streams behind one lock.
package engine

import (
	"errors"
	"math/big"
	"sync"
	"time"

	"github.com/google/uuid"

	"mimir/internal/bus"
)

var (
	ErrInvalidQuantity = errors.New("order quantity must be positive")
	ErrInvalidPrice    = errors.New("order price must be non-negative")
)

// Streams groups the engine's change feeds by topic. Delivery order is
// guaranteed per topic per subscriber; there is no cross-topic ordering.
type Streams struct {
	OrderAdded    *bus.Hub[ResidentOrder]
	OrderRemoved  *bus.Hub[ResidentOrder]
	TradeExecuted *bus.Hub[Trade]
}

// Engine owns all book state. Matching, reads and ledger access serialize on
// a single mutex: a submit holds it for the whole match, including every
// price level the intent sweeps, so submissions are totally ordered by lock
// acquisition. Nothing suspends while holding the lock.
type Engine struct {
	mu      sync.Mutex
	buys    *bookSide
	sells   *bookSide
	ledger  tradeLedger
	streams *Streams
	now     func() time.Time
}

// New builds an engine with a trade ledger bounded to ledgerCapacity entries.
func New(ledgerCapacity int) *Engine {
	return &Engine{
		buys:   newBookSide(Buy),
		sells:  newBookSide(Sell),
		ledger: newTradeLedger(ledgerCapacity),
		streams: &Streams{
			OrderAdded:    bus.NewHub[ResidentOrder](),
			OrderRemoved:  bus.NewHub[ResidentOrder](),
			TradeExecuted: bus.NewHub[Trade](),
		},
		now: time.Now,
	}
}

// Streams exposes the engine's change feeds for subscription.
func (e *Engine) Streams() *Streams { return e.streams }

// Submit matches an intent against the opposite side of the book. Every
// well-formed intent is fully matched, partially matched with a remainder
// rested, or rested in full; there is no rejection path past validation.
//
// Trades always execute at the resting (maker) order's price, on both the
// buy- and sell-initiated paths.
func (e *Engine) Submit(side Side, intent OrderIntent) (MatchResult, error) {
	if intent.Quantity == 0 {
		return MatchResult{}, ErrInvalidQuantity
	}
	if intent.Price == nil || intent.Price.Sign() < 0 {
		return MatchResult{}, ErrInvalidPrice
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	own, counter := e.sides(side)
	remaining := intent.Quantity
	var res MatchResult

	for {
		resting, ok := counter.best()
		if !ok || !crosses(side, intent.Price, resting.Price) {
			// No eligible counter-order left: the remainder rests on
			// the intent's own side at the intent's own price.
			rested := own.insert(intent.Price, remaining).clone()
			e.streams.OrderAdded.Publish(rested)
			res.Resting = &rested
			return res, nil
		}

		// When the resting order is only partially consumed, its leftover
		// is requeued as a new order at the same price. Allocating the new
		// slot before the old one is released keeps the leftover off the
		// slot id it came from.
		var requeued *ResidentOrder
		if remaining < resting.Quantity {
			requeued = counter.insert(resting.Price, resting.Quantity-remaining)
		}

		counter.popBest()
		e.streams.OrderRemoved.Publish(resting.clone())

		trade := Trade{
			ID:        uuid.New(),
			Price:     new(big.Int).Set(resting.Price),
			Quantity:  min(remaining, resting.Quantity),
			Side:      side,
			CreatedAt: e.now(),
		}
		e.ledger.record(trade)
		e.streams.TradeExecuted.Publish(trade)
		res.Trades = append(res.Trades, trade)

		switch {
		case requeued != nil:
			e.streams.OrderAdded.Publish(requeued.clone())
			return res, nil
		case remaining == resting.Quantity:
			return res, nil
		default:
			// Resting order fully consumed, keep sweeping the book.
			remaining -= resting.Quantity
		}
	}
}

// Best returns the top-priority resident order for a side, if any.
func (e *Engine) Best(side Side) (ResidentOrder, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	o, ok := e.side(side).best()
	if !ok {
		return ResidentOrder{}, false
	}
	return o.clone(), true
}

// Snapshot is a point-in-time, best-first view of one side, capped at limit.
func (e *Engine) Snapshot(side Side, limit int) []ResidentOrder {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.side(side).snapshot(limit)
}

// RecentTrades returns up to limit ledger entries, newest first.
func (e *Engine) RecentTrades(limit int) []Trade {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.recent(limit)
}

// Resident counts the orders currently resting on a side.
func (e *Engine) Resident(side Side) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.side(side).len()
}

func (e *Engine) side(s Side) *bookSide {
	if s == Buy {
		return e.buys
	}
	return e.sells
}

// sides returns (intent's own side, side it crosses against).
func (e *Engine) sides(s Side) (own, counter *bookSide) {
	if s == Buy {
		return e.buys, e.sells
	}
	return e.sells, e.buys
}

// crosses reports whether a resting price satisfies the crossing condition
// for an incoming intent: resting asks at or below a buy, resting bids at or
// above a sell.
func crosses(side Side, intentPrice, restingPrice *big.Int) bool {
	if side == Buy {
		return restingPrice.Cmp(intentPrice) <= 0
	}
	return restingPrice.Cmp(intentPrice) >= 0
}
