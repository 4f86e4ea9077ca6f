// Package scalar holds the transport codecs for the engine's scalar types:
// arbitrary-precision prices as decimal text, order and trade identities as
// UUID text, and timestamps as RFC 3339 text. Malformed input is rejected,
// never coerced.
package scalar

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyDecimal     = errors.New("empty decimal text")
	ErrMalformedDecimal = errors.New("malformed decimal text")
)

// ParsePrice decodes a non-negative arbitrary-precision integer from decimal
// text. Signs, spaces and separators are all malformed; only ASCII digits
// are accepted.
func ParsePrice(s string) (*big.Int, error) {
	if s == "" {
		return nil, ErrEmptyDecimal
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return nil, fmt.Errorf("%w: %q", ErrMalformedDecimal, s)
		}
	}
	p, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMalformedDecimal, s)
	}
	return p, nil
}

// FormatPrice encodes a price as decimal text.
func FormatPrice(p *big.Int) string {
	return p.Text(10)
}

// ParseRef decodes an opaque identity token.
func ParseRef(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// FormatRef encodes an opaque identity token.
func FormatRef(id uuid.UUID) string {
	return id.String()
}

// ParseTime decodes a timezone-qualified RFC 3339 timestamp.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// FormatTime encodes a timestamp as timezone-qualified RFC 3339 text.
func FormatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}
