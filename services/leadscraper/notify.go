package leadscraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/jordan-wright/email"
	"go.opentelemetry.io/otel/codes"

	"leadscraper-backend/lib/timezone"
	"leadscraper-backend/services/leadscraper/platforms"
)

type SmtpConfig struct {
	Server       string `json:"server"`
	Port         int    `json:"port"`
	EmailAddress string `json:"email_address"`
	Password     string `json:"password"`
}

// handleExpiredSession checks whether the user was gated because a
// previously good session lapsed (rather than never logging in). If so
// it deactivates the stale row so the notice fires once, then emails.
func (s *Service) handleExpiredSession(ctx context.Context, userID string, platform platforms.Platform) {
	row, err := s.store.GetSession(ctx, userID, platform)
	if err != nil || !row.IsActive || row.ExpiresAt > timezone.Now().Unix() {
		return
	}
	if err := s.store.Deactivate(ctx, userID, platform); err != nil {
		slog.Warn("failed to deactivate expired session", "platform", platform, "err", err)
	}
	s.notifySessionExpired(ctx, userID, platform)
}

// notifySessionExpired emails the user that their stored session has
// lapsed and a fresh login is needed. Notification failures are logged
// and swallowed, they must never fail the request that noticed the
// expiry. Only fires when the user id is an email address and SMTP is
// configured.
func (s *Service) notifySessionExpired(ctx context.Context, userID string, platform platforms.Platform) {
	if s.smtp.Server == "" || !strings.Contains(userID, "@") {
		return
	}

	_, span := tracer.Start(ctx, "leadscraper:notifySessionExpired")
	defer span.End()

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("Lead Scraper <%s>", s.smtp.EmailAddress)
	mail.To = []string{userID}
	mail.Subject = fmt.Sprintf("Your %s session has expired", platform)

	body := fmt.Sprintf(`Your saved %s browser session has expired, so lead scraping for this platform is paused.

Log in again from the dashboard to resume scraping.

If you no longer use this integration you can ignore this email.`, platform)
	mail.Text = []byte(body)

	addr := fmt.Sprintf("%s:%d", s.smtp.Server, s.smtp.Port)
	err := mail.Send(addr, smtp.PlainAuth("", s.smtp.EmailAddress, s.smtp.Password, s.smtp.Server))
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(addr, nil)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send expiry notice")
		slog.Warn("failed to send session expiry notice",
			"platform", platform, "err", err)
		return
	}
	slog.Info("sent session expiry notice", "platform", platform)
}
