package platforms

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuyerIntent(t *testing.T) {
	matched := BuyerIntent("Hi everyone, we are LOOKING TO BUY a duplex this spring!", nil)
	require.Contains(t, matched, "looking to buy")

	require.Empty(t, BuyerIntent("Great sunset at the lake today!", nil))

	// fuzzy matching tolerates the typos social posts are full of
	matched = BuyerIntent("serious cash buyerr here, send me your deals", nil)
	require.Contains(t, matched, "cash buyer")

	// caller keywords extend the built-in phrase list
	matched = BuyerIntent("interested in a lake house with a dock", []string{"lake house"})
	require.Contains(t, matched, "lake house")
}

func TestIntentScoreClamps(t *testing.T) {
	require.Equal(t, 60, intentScore(55, []string{"looking to buy"}))
	require.Equal(t, 100, intentScore(95, []string{"a", "b", "c"}))
	require.Equal(t, 0, intentScore(-10, nil))
}

func TestContactExtraction(t *testing.T) {
	text := "call me at (512) 555-0134 or email alice.alpha@gmail.com"
	require.Equal(t, "(512) 555-0134", findPhone(text))
	require.Equal(t, "alice.alpha@gmail.com", findEmail(text))

	require.Empty(t, findPhone("no numbers here"))
	require.Empty(t, findEmail("not an @ email"))
}
