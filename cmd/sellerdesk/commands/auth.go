package commands

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PabloPavan/sellerdesk/internal/apperrors"
	"github.com/PabloPavan/sellerdesk/internal/client"
	"github.com/PabloPavan/sellerdesk/internal/pages"
	"github.com/PabloPavan/sellerdesk/internal/routes"
)

const passwordEnv = "SELLERDESK_PASSWORD"

func newLoginCommand(a *app) *cobra.Command {
	var email, password, next, captcha string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and keep the session",
		Long: `Log in with email and password. The password may also come from the
` + passwordEnv + ` environment variable.

When the account has two-factor authentication enabled, a token is emailed
and the login is finished with 'sellerdesk two-factor <token>'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv(passwordEnv)
			}
			f, err := pages.NewLoginForm(pages.LoginConfig{
				Email:            email,
				Next:             next,
				RecaptchaSiteKey: a.cfg.RecaptchaSiteKey,
			}, a.client, a.client, flagRecaptcha(captcha))
			if err != nil {
				return err
			}
			f.SetPassword(password)

			resp, err := f.Submit(cmd.Context())
			if errors.Is(err, pages.ErrRecaptchaCancelled) {
				return fmt.Errorf("this server requires a recaptcha response, pass --recaptcha-token")
			}
			if err != nil {
				return err
			}

			a.client.SetPendingTwoFactor("")
			if resp.TwoFactorRequired {
				a.client.SetPendingTwoFactor(challengeID(resp.RedirectLocation))
			}
			if err := a.save(); err != nil {
				return err
			}
			return a.print(cmd, resp, func() string { return a.renderer.Redirect(resp) })
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().StringVar(&next, "next", "", "path to continue to after login")
	cmd.Flags().StringVar(&captcha, "recaptcha-token", "", "recaptcha response, when the server requires one")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

// flagRecaptcha answers the captcha step with a token given on the command
// line. Without one the step counts as cancelled.
func flagRecaptcha(token string) pages.Recaptcha {
	return pages.RecaptchaFunc(func(ctx context.Context) (string, error) {
		if strings.TrimSpace(token) == "" {
			return "", pages.ErrRecaptchaCancelled
		}
		return token, nil
	})
}

// challengeID extracts user_id from a two-factor redirect location.
func challengeID(location string) string {
	u, err := url.Parse(location)
	if err != nil {
		return ""
	}
	return u.Query().Get("user_id")
}

func newTwoFactorCommand(a *app) *cobra.Command {
	var userID, next string

	cmd := &cobra.Command{
		Use:   "two-factor <token>",
		Short: "Finish a two-factor login with the emailed token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.twoFactorForm(userID, args[0], next)
			if err != nil {
				return err
			}
			resp, err := f.Submit(cmd.Context())
			if err != nil {
				return err
			}
			a.client.SetPendingTwoFactor("")
			if err := a.save(); err != nil {
				return err
			}
			return a.print(cmd, resp, func() string { return a.renderer.Redirect(resp) })
		},
	}
	cmd.Flags().StringVar(&userID, "user-id", "", "challenge id, defaults to the one saved by login")
	cmd.Flags().StringVar(&next, "next", "", "path to continue to after login")

	resend := &cobra.Command{
		Use:   "resend",
		Short: "Email a new two-factor token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := a.twoFactorForm(userID, "", "")
			if err != nil {
				return err
			}
			alert := f.Resend(cmd.Context())
			if alert.Variant == pages.AlertDanger {
				return errors.New(alert.Message)
			}
			return a.print(cmd, alert, func() string { return a.renderer.Alert(alert) })
		},
	}
	resend.Flags().StringVar(&userID, "user-id", "", "challenge id, defaults to the one saved by login")
	cmd.AddCommand(resend)
	return cmd
}

func (a *app) twoFactorForm(userID, token, next string) (*pages.TwoFactorForm, error) {
	if userID == "" {
		userID = a.client.PendingTwoFactor()
	}
	if userID == "" {
		return nil, errors.New("no pending two-factor login, run 'sellerdesk login' first")
	}
	return pages.NewTwoFactorForm(userID, "", token, next, a.client, a.client)
}

func newForgotPasswordCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "forgot-password <email>",
		Short: "Send password reset instructions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := pages.NewForgotPasswordForm(a.client, a.client)
			if err != nil {
				return err
			}
			f.SetEmail(args[0])
			alert, err := f.Submit(cmd.Context())
			if err != nil {
				return err
			}
			return a.print(cmd, alert, func() string { return a.renderer.Alert(alert) })
		},
	}
}

type resetPasswordRequest struct {
	Token    string `json:"token" yaml:"token"`
	Password string `json:"password" yaml:"password"`
}

func newResetPasswordCommand(a *app) *cobra.Command {
	var token, password string

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Choose a new password with a reset token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv(passwordEnv)
			}
			var resp pages.RedirectResponse
			req := resetPasswordRequest{Token: strings.TrimSpace(token), Password: password}
			if err := a.client.Call(cmd.Context(), routes.ResetPassword, req, &resp); err != nil {
				return err
			}
			return a.print(cmd, resp, func() string {
				return a.renderer.Alert(pages.Alert{Variant: pages.AlertSuccess, Message: "Password updated, log in with the new password."})
			})
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "reset token from the email")
	cmd.Flags().StringVar(&password, "password", "", "new password")
	_ = cmd.MarkFlagRequired("token")
	return cmd
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp pages.RedirectResponse
			// An expired session still clears the local copy.
			err := a.client.Call(cmd.Context(), routes.Logout, nil, &resp)
			if err != nil && !apperrors.Is(err, apperrors.KindUnauthorized) {
				return err
			}
			if err := client.ClearSession(a.cfg.CookieFile); err != nil {
				return err
			}
			return a.print(cmd, resp, func() string {
				return a.renderer.Alert(pages.Alert{Variant: pages.AlertSuccess, Message: "Logged out."})
			})
		},
	}
}
