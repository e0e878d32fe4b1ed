// Package commands holds the sellerdesk CLI command tree.
package commands

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PabloPavan/sellerdesk/internal/apperrors"
	"github.com/PabloPavan/sellerdesk/internal/cliconfig"
	"github.com/PabloPavan/sellerdesk/internal/client"
	"github.com/PabloPavan/sellerdesk/internal/render"
	"github.com/PabloPavan/sellerdesk/internal/telemetry"
)

// app is the state shared by every command of one invocation.
type app struct {
	configPath string
	baseURL    string
	output     string

	cfg      cliconfig.Config
	client   *client.Client
	renderer *render.Renderer
	format   render.OutputFormat
}

// NewRootCommand builds the sellerdesk command tree.
func NewRootCommand(version string) *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:   "sellerdesk",
		Short: "Manage a sellerdesk seller account from the terminal",
		Long: `sellerdesk logs in to a sellerdesk server and edits the account settings:
payout country, advanced settings, test pings and third-party analytics.

The session is kept in the cookie file named in ~/.config/sellerdesk/config.toml.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.load,
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default "+cliconfig.DefaultPath+")")
	cmd.PersistentFlags().StringVar(&a.baseURL, "base-url", "", "API base URL, overrides the config file")
	cmd.PersistentFlags().StringVarP(&a.output, "output", "o", "", "output format: text, json or yaml")

	cmd.AddCommand(
		newLoginCommand(a),
		newTwoFactorCommand(a),
		newForgotPasswordCommand(a),
		newResetPasswordCommand(a),
		newLogoutCommand(a),
		newCountryCommand(a),
		newAdvancedCommand(a),
		newPingCommand(a),
		newAnalyticsCommand(a),
		newBlocklistCommand(a),
	)
	return cmd
}

func (a *app) load(cmd *cobra.Command, args []string) error {
	cfg, err := cliconfig.Load(a.configPath)
	if err != nil {
		return err
	}
	if v := strings.TrimSpace(a.baseURL); v != "" {
		cfg.BaseURL = v
	}
	a.cfg = cfg

	a.format = cfg.Output
	if a.output != "" {
		format, err := render.ParseFormat(a.output)
		if err != nil {
			return err
		}
		a.format = format
	}

	c, err := client.NewClient(cfg.BaseURL)
	if err != nil {
		return err
	}
	if err := c.LoadSession(cfg.CookieFile); err != nil {
		telemetry.LogWarn(cmd.Context(), "ignoring unreadable session file",
			telemetry.LogString("event", "cli.session.load_failed"),
			telemetry.LogErr(err),
		)
	}
	a.client = c
	a.renderer = render.New(render.DefaultTheme)
	return nil
}

func (a *app) save() error {
	return a.client.SaveSession(a.cfg.CookieFile)
}

func (a *app) print(cmd *cobra.Command, data any, text func() string) error {
	return render.Output(cmd.OutOrStdout(), a.format, data, text)
}

// ErrorText is the message shown for a failed command. Server errors show
// the server's message.
func ErrorText(err error) string {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return err.Error()
}
