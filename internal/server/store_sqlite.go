package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/giftlab/secretsanta/internal/santa"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

var _ Store = (*SQLiteStore)(nil)

func (s *SQLiteStore) CreateGame(ctx context.Context, game *santa.Game) error {
	if game.ID == "" {
		game.ID = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var createdAt string
	err = tx.QueryRowContext(ctx, `
		INSERT INTO games (id, name, organizer_name, organizer_email, event_date,
			max_price_amount, max_price_currency, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING created_at
	`, game.ID, game.Name, game.OrganizerName, game.OrganizerEmail,
		game.EventDate.UTC().Format(time.RFC3339),
		game.MaxPrice.Amount, game.MaxPrice.Currency, game.Notes,
	).Scan(&createdAt)
	if err != nil {
		return fmt.Errorf("inserting game: %w", err)
	}
	game.CreatedAt = createdAt

	for i := range game.Participants {
		p := &game.Participants[i]
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO participants (id, game_id, position, name, email, notes)
			VALUES (?, ?, ?, ?, ?, ?)
		`, p.ID, game.ID, i, p.Name, p.Email, p.Notes)
		if err != nil {
			return fmt.Errorf("inserting participant %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing game: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetGame(ctx context.Context, gameID string) (santa.Game, error) {
	var g santa.Game
	var started int
	var eventDate string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, organizer_name, organizer_email, event_date,
			max_price_amount, max_price_currency, notes, started, created_at
		FROM games
		WHERE id = ?
	`, gameID).Scan(&g.ID, &g.Name, &g.OrganizerName, &g.OrganizerEmail, &eventDate,
		&g.MaxPrice.Amount, &g.MaxPrice.Currency, &g.Notes, &started, &g.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return santa.Game{}, ErrNotFound
	}
	if err != nil {
		return santa.Game{}, fmt.Errorf("selecting game: %w", err)
	}
	g.Started = started != 0

	g.EventDate, err = time.Parse(time.RFC3339, eventDate)
	if err != nil {
		return santa.Game{}, fmt.Errorf("parsing event date %q: %w", eventDate, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, notes, COALESCE(recipient_id, '')
		FROM participants
		WHERE game_id = ?
		ORDER BY position
	`, gameID)
	if err != nil {
		return santa.Game{}, fmt.Errorf("selecting participants: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p santa.Participant
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.Notes, &p.RecipientID); err != nil {
			return santa.Game{}, fmt.Errorf("scanning participant: %w", err)
		}
		g.Participants = append(g.Participants, p)
	}
	if err := rows.Err(); err != nil {
		return santa.Game{}, fmt.Errorf("iterating participants: %w", err)
	}

	return g, nil
}

func (s *SQLiteStore) ParticipantIDs(ctx context.Context, gameID string) ([]string, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM games WHERE id = ?`, gameID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("checking game: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM participants WHERE game_id = ? ORDER BY position
	`, gameID)
	if err != nil {
		return nil, fmt.Errorf("selecting participant ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning participant id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *SQLiteStore) AssignAndBegin(ctx context.Context, gameID string, recipients map[string]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Gate the transition on started = 0 so two racing begins cannot both
	// pass; the loser distinguishes "already begun" from "no such game"
	// below.
	res, err := tx.ExecContext(ctx, `
		UPDATE games
		SET started = 1, started_at = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
		WHERE id = ? AND started = 0
	`, gameID)
	if err != nil {
		return fmt.Errorf("marking game started: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("marking game started: %w", err)
	}
	if n == 0 {
		var started int
		err := tx.QueryRowContext(ctx, `SELECT started FROM games WHERE id = ?`, gameID).Scan(&started)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("checking game: %w", err)
		}
		return ErrAlreadyBegun
	}

	for gifter, recipient := range recipients {
		res, err := tx.ExecContext(ctx, `
			UPDATE participants SET recipient_id = ? WHERE id = ? AND game_id = ?
		`, recipient, gifter, gameID)
		if err != nil {
			return fmt.Errorf("assigning recipient for %s: %w", gifter, err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("assigning recipient for %s: %w", gifter, err)
		} else if n != 1 {
			return fmt.Errorf("participant %s is not part of game %s", gifter, gameID)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing assignment: %w", err)
	}
	return nil
}
