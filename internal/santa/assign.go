package santa

import (
	"errors"
	"math/rand/v2"
	"slices"
)

// ErrTooFewParticipants is returned when fewer than two participants are
// given; no derangement exists for 0 or 1 elements.
var ErrTooFewParticipants = errors.New("a game needs at least two participants")

// Pair assigns one gifter to one recipient.
type Pair struct {
	Gifter    string
	Recipient string
}

// Assign derives the gift pairing for a roster of participant IDs: every ID
// gifts exactly one other ID and receives from exactly one, and nobody is
// paired with themselves.
//
// The construction shuffles the roster uniformly and then pairs position i
// with position (i+1) mod n. Rotation by one has no fixed points for n >= 2,
// so the result is always a valid derangement without any retry loop. The
// trade-off is that the gift graph is always a single cycle through all
// participants rather than a uniform draw over all derangements.
//
// The caller supplies the randomness so pairings are reproducible under a
// fixed seed. rand.Rand is not safe for concurrent use; the caller serializes
// access.
func Assign(ids []string, rng *rand.Rand) ([]Pair, error) {
	if len(ids) < 2 {
		return nil, ErrTooFewParticipants
	}

	order := slices.Clone(ids)
	rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	pairs := make([]Pair, len(order))
	for i, gifter := range order {
		pairs[i] = Pair{
			Gifter:    gifter,
			Recipient: order[(i+1)%len(order)],
		}
	}
	return pairs, nil
}
