package server

import (
	"context"
	"errors"

	"github.com/giftlab/secretsanta/internal/santa"
)

var (
	ErrNotFound = errors.New("not found")

	// ErrAlreadyBegun rejects a begin on a started game. The first begin
	// won; nothing is reshuffled and nobody is re-notified.
	ErrAlreadyBegun = errors.New("game already begun")
)

// Store is the durable record of games and their participants.
type Store interface {
	// CreateGame persists a game and its roster as one atomic unit and
	// fills in the generated game and participant IDs. Either all rows
	// exist afterwards or none do.
	CreateGame(ctx context.Context, game *santa.Game) error

	// GetGame loads the full aggregate including participants in roster
	// order. Returns ErrNotFound for an unknown ID.
	GetGame(ctx context.Context, gameID string) (santa.Game, error)

	// ParticipantIDs returns the roster's participant IDs in creation
	// order. Returns ErrNotFound for an unknown game.
	ParticipantIDs(ctx context.Context, gameID string) ([]string, error)

	// AssignAndBegin writes every gifter's recipient and flips the game to
	// started in a single transaction gated on started = false. Returns
	// ErrNotFound, ErrAlreadyBegun, or a storage error; on any error the
	// game is left untouched.
	AssignAndBegin(ctx context.Context, gameID string, recipients map[string]string) error
}

// Notifier delivers messages to participants. Every method is best-effort:
// the caller logs and counts failures but never unwinds committed state
// because of one.
type Notifier interface {
	GameCreated(ctx context.Context, game santa.Game) error
	Assignment(ctx context.Context, game santa.Game, gifter, recipient santa.Participant) error
}
