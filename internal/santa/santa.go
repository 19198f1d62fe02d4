// Package santa holds the gift-exchange domain model and the assignment
// engine. It has no knowledge of storage or transport; the server package
// wires it to both.
package santa

import "time"

// Price is a spending limit: an amount plus an ISO-style currency code.
// The code is stored verbatim, no conversion or validation beyond "non-empty".
type Price struct {
	Amount   float64
	Currency string
}

// Participant is one person in a game. Notes are shown to whoever is
// assigned to gift this participant.
type Participant struct {
	ID    string
	Name  string
	Email string
	Notes string

	// RecipientID references another participant of the same game.
	// Empty until the game begins, set exactly once.
	RecipientID string
}

// Game is one gift-exchange event with a fixed participant roster.
// Everything except Started and the participants' RecipientID is immutable
// after creation.
type Game struct {
	ID             string
	Name           string
	OrganizerName  string
	OrganizerEmail string
	EventDate      time.Time
	MaxPrice       Price
	Notes          string

	// Started flips from false to true exactly once, never back.
	Started bool

	// Participants in creation order. The roster never changes after
	// creation; beginning the game only fills in RecipientID.
	Participants []Participant

	CreatedAt string
}

// Participant returns the participant with the given ID, or nil.
func (g *Game) Participant(id string) *Participant {
	for i := range g.Participants {
		if g.Participants[i].ID == id {
			return &g.Participants[i]
		}
	}
	return nil
}
