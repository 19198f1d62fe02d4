package mail

import (
	"strings"
	"testing"
	"time"

	"github.com/giftlab/secretsanta/internal/santa"
)

func testGame() santa.Game {
	return santa.Game{
		ID:             "g-123",
		Name:           "Office Exchange",
		OrganizerName:  "Dana",
		OrganizerEmail: "dana@example.com",
		EventDate:      time.Date(2026, 12, 24, 0, 0, 0, 0, time.UTC),
		MaxPrice:       santa.Price{Amount: 25.5, Currency: "EUR"},
		Notes:          "Wrapped gifts only, please.",
	}
}

func TestRenderGameCreated(t *testing.T) {
	body, err := renderGameCreated(testGame())
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, want := range []string{"Dana", "Office Exchange", "g-123"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
}

func TestRenderAssignment(t *testing.T) {
	gifter := santa.Participant{ID: "p1", Name: "Alice", Email: "alice@example.com"}
	recipient := santa.Participant{ID: "p2", Name: "Bob", Email: "bob@example.com", Notes: "Likes sci-fi novels."}

	body, err := renderAssignment(testGame(), gifter, recipient)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	for _, want := range []string{
		"Hi Alice",
		"Bob (bob@example.com)",
		"Likes sci-fi novels.",
		"25.50 EUR",
		"December 24, 2026",
		"Wrapped gifts only, please.",
		"Dana",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
}

func TestRenderAssignmentOmitsEmptySections(t *testing.T) {
	game := testGame()
	game.Notes = ""
	gifter := santa.Participant{Name: "Alice", Email: "alice@example.com"}
	recipient := santa.Participant{Name: "Bob", Email: "bob@example.com"}

	body, err := renderAssignment(game, gifter, recipient)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	if strings.Contains(body, "Notes about your recipient") {
		t.Errorf("body should omit recipient notes section:\n%s", body)
	}
	if strings.Contains(body, "message for everyone") {
		t.Errorf("body should omit organizer message section:\n%s", body)
	}
}
