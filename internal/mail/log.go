package mail

import (
	"context"
	"log/slog"

	"github.com/giftlab/secretsanta/internal/santa"
)

// LogNotifier writes notifications to the log instead of sending email.
// Used when no SMTP host is configured, which keeps create/begin usable in
// development.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) GameCreated(_ context.Context, game santa.Game) error {
	n.Logger.Info("notification (not sent, smtp disabled)",
		"kind", "game_created",
		"game_id", game.ID,
		"to", game.OrganizerEmail,
	)
	return nil
}

func (n LogNotifier) Assignment(_ context.Context, game santa.Game, gifter, recipient santa.Participant) error {
	n.Logger.Info("notification (not sent, smtp disabled)",
		"kind", "assignment",
		"game_id", game.ID,
		"to", gifter.Email,
		"recipient_id", recipient.ID,
	)
	return nil
}
