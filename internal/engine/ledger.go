package engine

// tradeLedger is a capacity-bounded, append-only record of completed trades,
// oldest first in storage, served newest first. Recording when the ledger is
// at (or somehow beyond) capacity drops as many of the oldest entries as
// needed to get back under the cap before the new trade goes in.
type tradeLedger struct {
	capacity int
	trades   []Trade
}

func newTradeLedger(capacity int) tradeLedger {
	if capacity < 0 {
		capacity = 0
	}
	return tradeLedger{capacity: capacity}
}

func (l *tradeLedger) record(t Trade) {
	if l.capacity == 0 {
		l.trades = l.trades[:0]
		return
	}
	if drop := len(l.trades) - l.capacity + 1; drop > 0 {
		l.trades = append(l.trades[:0], l.trades[drop:]...)
	}
	l.trades = append(l.trades, t)
}

// recent returns up to limit trades, newest first.
func (l *tradeLedger) recent(limit int) []Trade {
	if limit > len(l.trades) {
		limit = len(l.trades)
	}
	if limit <= 0 {
		return nil
	}
	out := make([]Trade, 0, limit)
	for i := len(l.trades) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, l.trades[i])
	}
	return out
}

func (l *tradeLedger) len() int { return len(l.trades) }
