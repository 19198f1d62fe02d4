package server

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/giftlab/secretsanta/internal/santa"
)

// ParticipantInput is one roster entry in a create request.
type ParticipantInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Notes string `json:"notes"`
}

// PriceJSON is a spending limit on the wire.
type PriceJSON struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// CreateGameRequest is the request body for POST /api/games.
type CreateGameRequest struct {
	Name           string             `json:"name"`
	OrganizerName  string             `json:"organizerName"`
	OrganizerEmail string             `json:"organizerEmail"`
	EventDate      string             `json:"eventDate"`
	MaxPrice       PriceJSON          `json:"maxPrice"`
	Notes          string             `json:"notes"`
	Participants   []ParticipantInput `json:"participants"`

	eventDate time.Time
}

// ParticipantResponse is one roster entry in a game response. RecipientID is
// only present once the game has begun.
type ParticipantResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Notes       string `json:"notes"`
	RecipientID string `json:"recipientId,omitempty"`
}

// GameResponse is the full game aggregate.
type GameResponse struct {
	ID             string                `json:"id"`
	Name           string                `json:"name"`
	OrganizerName  string                `json:"organizerName"`
	OrganizerEmail string                `json:"organizerEmail"`
	EventDate      string                `json:"eventDate"`
	MaxPrice       PriceJSON             `json:"maxPrice"`
	Notes          string                `json:"notes"`
	Started        bool                  `json:"started"`
	CreatedAt      string                `json:"createdAt"`
	Participants   []ParticipantResponse `json:"participants"`
}

// BeginGameResponse reports the outcome of POST /api/games/{gameID}/begin.
// Notified and Failed tally the per-participant emails; a non-zero Failed
// does not mean the begin failed — the assignment is committed either way.
type BeginGameResponse struct {
	ID       string `json:"id"`
	Started  bool   `json:"started"`
	Notified int    `json:"notified"`
	Failed   int    `json:"failed"`
}

func (req *CreateGameRequest) validate() string {
	req.Name = strings.TrimSpace(req.Name)
	req.OrganizerName = strings.TrimSpace(req.OrganizerName)
	req.OrganizerEmail = strings.TrimSpace(req.OrganizerEmail)
	req.MaxPrice.Currency = strings.TrimSpace(req.MaxPrice.Currency)

	if req.Name == "" {
		return "name is required"
	}
	if req.OrganizerName == "" {
		return "organizerName is required"
	}
	if _, err := mail.ParseAddress(req.OrganizerEmail); err != nil {
		return "organizerEmail is not a valid email address"
	}

	t, err := time.Parse(time.RFC3339, req.EventDate)
	if err != nil {
		return "eventDate must be an RFC 3339 timestamp"
	}
	req.eventDate = t

	if req.MaxPrice.Amount < 0 {
		return "maxPrice.amount must not be negative"
	}
	if req.MaxPrice.Currency == "" {
		return "maxPrice.currency is required"
	}

	if len(req.Participants) < 2 {
		return "at least two participants are required"
	}
	for i := range req.Participants {
		p := &req.Participants[i]
		p.Name = strings.TrimSpace(p.Name)
		p.Email = strings.TrimSpace(p.Email)
		if p.Name == "" {
			return fmt.Sprintf("participant %d: name is required", i+1)
		}
		if _, err := mail.ParseAddress(p.Email); err != nil {
			return fmt.Sprintf("participant %d: email is not a valid email address", i+1)
		}
	}
	return ""
}

func handleCreateGame(logger *slog.Logger, store Store, notifier Notifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateGameRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if msg := req.validate(); msg != "" {
			writeError(w, http.StatusBadRequest, msg)
			return
		}

		game := santa.Game{
			Name:           req.Name,
			OrganizerName:  req.OrganizerName,
			OrganizerEmail: req.OrganizerEmail,
			EventDate:      req.eventDate,
			MaxPrice:       santa.Price{Amount: req.MaxPrice.Amount, Currency: req.MaxPrice.Currency},
			Notes:          req.Notes,
		}
		for _, p := range req.Participants {
			game.Participants = append(game.Participants, santa.Participant{
				Name:  p.Name,
				Email: p.Email,
				Notes: p.Notes,
			})
		}

		if err := store.CreateGame(r.Context(), &game); err != nil {
			logger.Error("creating game", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		logger.Info("game created", "game_id", game.ID, "participants", len(game.Participants))

		// The game is durable at this point; a lost welcome email must not
		// turn the creation into a failure.
		if err := notifier.GameCreated(r.Context(), game); err != nil {
			logger.Error("notifying organizer", "game_id", game.ID, "error", err)
			notificationsFailed.WithLabelValues("game_created").Inc()
		} else {
			notificationsSent.WithLabelValues("game_created").Inc()
		}

		writeJSON(w, http.StatusCreated, gameResponse(game))
	}
}

func handleGetGame(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "gameID")

		game, err := store.GetGame(r.Context(), gameID)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, gameResponse(game))
	}
}

func handleBeginGame(logger *slog.Logger, store Store, notifier Notifier, rng *rand.Rand) http.HandlerFunc {
	// rand.Rand is not safe for concurrent use.
	var mu sync.Mutex

	return func(w http.ResponseWriter, r *http.Request) {
		gameID := chi.URLParam(r, "gameID")

		ids, err := store.ParticipantIDs(r.Context(), gameID)
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "game not found")
			return
		}
		if err != nil {
			logger.Error("loading roster", "game_id", gameID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		mu.Lock()
		pairs, err := santa.Assign(ids, rng)
		mu.Unlock()
		if err != nil {
			// Creation validates the roster size, so this only trips on
			// data predating that check.
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		recipients := make(map[string]string, len(pairs))
		for _, p := range pairs {
			recipients[p.Gifter] = p.Recipient
		}

		err = store.AssignAndBegin(r.Context(), gameID, recipients)
		switch {
		case errors.Is(err, ErrNotFound):
			writeError(w, http.StatusNotFound, "game not found")
			return
		case errors.Is(err, ErrAlreadyBegun):
			writeError(w, http.StatusConflict, "game already begun")
			return
		case err != nil:
			logger.Error("persisting assignment", "game_id", gameID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		logger.Info("game begun", "game_id", gameID, "participants", len(pairs))

		resp := BeginGameResponse{ID: gameID, Started: true}
		game, err := store.GetGame(r.Context(), gameID)
		if err != nil {
			// The transition is committed; without the aggregate we cannot
			// build the emails, so report them all as failed.
			logger.Error("loading game for notifications", "game_id", gameID, "error", err)
			resp.Failed = len(pairs)
			writeJSON(w, http.StatusOK, resp)
			return
		}

		for _, pair := range pairs {
			gifter := game.Participant(pair.Gifter)
			recipient := game.Participant(pair.Recipient)
			if gifter == nil || recipient == nil {
				logger.Error("assignment references unknown participant",
					"game_id", gameID, "gifter", pair.Gifter, "recipient", pair.Recipient)
				resp.Failed++
				continue
			}
			if err := notifier.Assignment(r.Context(), game, *gifter, *recipient); err != nil {
				logger.Error("notifying participant",
					"game_id", gameID, "participant_id", gifter.ID, "error", err)
				notificationsFailed.WithLabelValues("assignment").Inc()
				resp.Failed++
				continue
			}
			notificationsSent.WithLabelValues("assignment").Inc()
			resp.Notified++
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func gameResponse(g santa.Game) GameResponse {
	resp := GameResponse{
		ID:             g.ID,
		Name:           g.Name,
		OrganizerName:  g.OrganizerName,
		OrganizerEmail: g.OrganizerEmail,
		EventDate:      g.EventDate.UTC().Format(time.RFC3339),
		MaxPrice:       PriceJSON{Amount: g.MaxPrice.Amount, Currency: g.MaxPrice.Currency},
		Notes:          g.Notes,
		Started:        g.Started,
		CreatedAt:      g.CreatedAt,
		Participants:   make([]ParticipantResponse, 0, len(g.Participants)),
	}
	for _, p := range g.Participants {
		resp.Participants = append(resp.Participants, ParticipantResponse{
			ID:          p.ID,
			Name:        p.Name,
			Email:       p.Email,
			Notes:       p.Notes,
			RecipientID: p.RecipientID,
		})
	}
	return resp
}
