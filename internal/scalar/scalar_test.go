package scalar

import (
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	p, err := ParsePrice("0")
	require.NoError(t, err)
	assert.Zero(t, p.Sign())

	p, err = ParsePrice("12345678901234567890123456789")
	require.NoError(t, err)
	assert.Equal(t, "12345678901234567890123456789", FormatPrice(p))
}

func TestParsePrice_Rejections(t *testing.T) {
	cases := []string{"", "-1", "+1", " 1", "1 ", "1.5", "1_000", "abc", "0x10"}
	for _, in := range cases {
		_, err := ParsePrice(in)
		assert.Error(t, err, "input %q", in)
	}

	_, err := ParsePrice("")
	assert.ErrorIs(t, err, ErrEmptyDecimal)
	_, err = ParsePrice("-1")
	assert.ErrorIs(t, err, ErrMalformedDecimal)
}

func TestFormatPrice_RoundTrip(t *testing.T) {
	p := new(big.Int).Lsh(big.NewInt(1), 200)
	parsed, err := ParsePrice(FormatPrice(p))
	require.NoError(t, err)
	assert.Zero(t, p.Cmp(parsed))
}

func TestRefRoundTrip(t *testing.T) {
	id := uuid.New()
	parsed, err := ParseRef(FormatRef(id))
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = ParseRef("not-a-ref")
	assert.Error(t, err)
}

func TestTimeRoundTrip(t *testing.T) {
	now := time.Now().In(time.FixedZone("", 2*60*60))
	encoded := FormatTime(now)
	assert.True(t, strings.Contains(encoded, "T"))

	parsed, err := ParseTime(encoded)
	require.NoError(t, err)
	assert.True(t, now.Equal(parsed))

	_, err = ParseTime("yesterday")
	assert.Error(t, err)
}
