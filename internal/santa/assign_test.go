package santa

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed+1))
}

func roster(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("p%02d", i)
	}
	return ids
}

func TestAssignIsDerangement(t *testing.T) {
	for n := 2; n <= 12; n++ {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			ids := roster(n)
			pairs, err := Assign(ids, newRNG(uint64(n)))
			require.NoError(t, err)
			require.Len(t, pairs, n)

			gifters := make(map[string]bool, n)
			recipients := make(map[string]bool, n)
			for _, p := range pairs {
				assert.NotEqual(t, p.Gifter, p.Recipient, "self-assignment")
				assert.False(t, gifters[p.Gifter], "duplicate gifter %s", p.Gifter)
				assert.False(t, recipients[p.Recipient], "duplicate recipient %s", p.Recipient)
				gifters[p.Gifter] = true
				recipients[p.Recipient] = true
			}
			for _, id := range ids {
				assert.True(t, gifters[id], "%s never gifts", id)
				assert.True(t, recipients[id], "%s never receives", id)
			}
		})
	}
}

func TestAssignSingleCycle(t *testing.T) {
	// Following recipient links from any participant must visit all n
	// participants before returning to the start.
	for n := 2; n <= 12; n++ {
		ids := roster(n)
		pairs, err := Assign(ids, newRNG(uint64(n)*31))
		require.NoError(t, err)

		next := make(map[string]string, n)
		for _, p := range pairs {
			next[p.Gifter] = p.Recipient
		}

		visited := 0
		for cur := ids[0]; ; {
			cur = next[cur]
			visited++
			if cur == ids[0] {
				break
			}
			require.LessOrEqual(t, visited, n, "n=%d: cycle longer than roster", n)
		}
		assert.Equal(t, n, visited, "n=%d: expected one cycle through everyone", n)
	}
}

func TestAssignTwoIsMutualSwap(t *testing.T) {
	// The only derangement of two elements is the swap, regardless of seed.
	for seed := uint64(0); seed < 20; seed++ {
		pairs, err := Assign([]string{"a", "b"}, newRNG(seed))
		require.NoError(t, err)
		require.Len(t, pairs, 2)

		got := map[string]string{}
		for _, p := range pairs {
			got[p.Gifter] = p.Recipient
		}
		assert.Equal(t, map[string]string{"a": "b", "b": "a"}, got)
	}
}

func TestAssignDeterministicUnderSeed(t *testing.T) {
	ids := roster(7)
	first, err := Assign(ids, newRNG(42))
	require.NoError(t, err)
	second, err := Assign(ids, newRNG(42))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAssignDoesNotMutateInput(t *testing.T) {
	ids := []string{"a", "b", "c", "d"}
	_, err := Assign(ids, newRNG(9))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids)
}

func TestAssignTooFewParticipants(t *testing.T) {
	for _, ids := range [][]string{nil, {}, {"solo"}} {
		_, err := Assign(ids, newRNG(1))
		assert.ErrorIs(t, err, ErrTooFewParticipants)
	}
}
