// Package emailleads turns job-alert emails into postings. It pulls unseen
// messages from an IMAP inbox, extracts posting links from the alert HTML,
// and feeds them to the search pipeline. It only discovers: applying to a
// lead happens through the platform that posted it.
package emailleads

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/emersion/go-imap/v2"

	"applypilot/internal/domain"
	"applypilot/internal/secrets"
)

type Config struct {
	Host        string
	Port        int
	Username    string
	MaxMessages int
}

// PasswordSource yields the IMAP password for an account. Satisfied by
// secrets.Keychain.
type PasswordSource interface {
	GetCredentials(platform domain.Platform) (secrets.Credentials, error)
}

type Source struct {
	cfg    Config
	secret PasswordSource
	logger *slog.Logger
}

func NewSource(cfg Config, secret PasswordSource, logger *slog.Logger) *Source {
	return &Source{cfg: cfg, secret: secret, logger: logger.With("platform", domain.PlatformEmail)}
}

// Fetch pulls unseen alert messages and returns the postings they mention.
// Successfully parsed messages are marked seen so the next run skips them;
// messages that yield nothing stay unseen for the operator.
func (s *Source) Fetch(ctx context.Context) ([]domain.JobPosting, error) {
	creds, err := s.secret.GetCredentials(domain.PlatformEmail)
	if err != nil {
		return nil, fmt.Errorf("email leads: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	c, err := dial(ctx, addr, s.cfg.Host, s.cfg.Username, creds.Password)
	if err != nil {
		return nil, err
	}
	defer logout(c)

	msgs, err := fetchUnseen(ctx, c, s.cfg.MaxMessages)
	if err != nil {
		return nil, err
	}

	var (
		postings  []domain.JobPosting
		processed []imap.UID
	)
	for _, m := range msgs {
		htmlBody := htmlFromRaw(m.RawBody)
		if htmlBody == "" {
			continue
		}
		found := ParseAlertHTML(htmlBody, m.Date)
		if len(found) == 0 {
			continue
		}
		s.logger.Debug("alert parsed", "from", m.From, "subject", m.Subject, "postings", len(found))
		postings = append(postings, found...)
		processed = append(processed, m.UID)
	}

	if err := markSeen(c, processed); err != nil {
		s.logger.Warn("mark seen failed, alerts may repeat next run", "error", err)
	}
	s.logger.Info("inbox scanned", "messages", len(msgs), "postings", len(postings))
	return postings, nil
}
