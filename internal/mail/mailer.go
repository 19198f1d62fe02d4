// Package mail delivers game notifications over SMTP. Delivery is
// best-effort by contract: the server treats every error returned here as
// something to log and count, never as a reason to roll back a game.
package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"text/template"

	gomail "github.com/wneessen/go-mail"

	"github.com/giftlab/secretsanta/internal/santa"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

// Config holds SMTP connection settings plus the sender identity.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

// Mailer sends notification emails through a single SMTP endpoint.
type Mailer struct {
	client   *gomail.Client
	from     string
	fromName string
}

// New connects the mailer to the configured SMTP host. Authentication is
// only negotiated when a username is set, so an unauthenticated localhost
// relay works too.
func New(cfg Config) (*Mailer, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating smtp client: %w", err)
	}

	return &Mailer{
		client:   client,
		from:     cfg.From,
		fromName: cfg.FromName,
	}, nil
}

// GameCreated mails the organizer the new game's ID, their only handle to
// manage the game later.
func (m *Mailer) GameCreated(ctx context.Context, game santa.Game) error {
	body, err := renderGameCreated(game)
	if err != nil {
		return err
	}
	return m.send(ctx, game.OrganizerName, game.OrganizerEmail,
		fmt.Sprintf("Your Secret Santa game %q is ready", game.Name), body)
}

// Assignment mails one gifter who they drew, together with the recipient's
// notes and the game's parameters.
func (m *Mailer) Assignment(ctx context.Context, game santa.Game, gifter, recipient santa.Participant) error {
	body, err := renderAssignment(game, gifter, recipient)
	if err != nil {
		return err
	}
	return m.send(ctx, gifter.Name, gifter.Email,
		fmt.Sprintf("Your Secret Santa assignment for %q", game.Name), body)
}

func (m *Mailer) send(ctx context.Context, toName, toAddr, subject, body string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(m.fromName, m.from); err != nil {
		return fmt.Errorf("setting sender: %w", err)
	}
	if err := msg.AddToFormat(toName, toAddr); err != nil {
		return fmt.Errorf("setting recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending to %s: %w", toAddr, err)
	}
	return nil
}

func renderGameCreated(game santa.Game) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "game_created.tmpl", game); err != nil {
		return "", fmt.Errorf("rendering game_created: %w", err)
	}
	return buf.String(), nil
}

func renderAssignment(game santa.Game, gifter, recipient santa.Participant) (string, error) {
	var buf bytes.Buffer
	data := struct {
		Game      santa.Game
		Gifter    santa.Participant
		Recipient santa.Participant
	}{game, gifter, recipient}

	if err := templates.ExecuteTemplate(&buf, "assignment.tmpl", data); err != nil {
		return "", fmt.Errorf("rendering assignment: %w", err)
	}
	return buf.String(), nil
}
