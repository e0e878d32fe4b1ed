package auth

import (
	"context"

	"github.com/PabloPavan/sellerdesk/internal/telemetry"
)

// LogMailer writes account emails to the log instead of sending them. It is
// the development mailer wired by cmd/api when no delivery is configured.
type LogMailer struct{}

func (LogMailer) SendTwoFactorToken(ctx context.Context, to, token string) error {
	telemetry.LogInfo(ctx, "two-factor token issued",
		telemetry.LogString("event", "mail.two_factor_token"),
		telemetry.LogString("mail.to", to),
		telemetry.LogString("token", token),
	)
	return nil
}

func (LogMailer) SendPasswordReset(ctx context.Context, to, token string) error {
	telemetry.LogInfo(ctx, "password reset issued",
		telemetry.LogString("event", "mail.password_reset"),
		telemetry.LogString("mail.to", to),
		telemetry.LogString("token", token),
	)
	return nil
}
