package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/PabloPavan/sellerdesk/internal/pages"
	"github.com/PabloPavan/sellerdesk/internal/routes"
)

type countryPage struct {
	Country   *string           `json:"country" yaml:"country"`
	Countries map[string]string `json:"countries" yaml:"countries"`
}

func newCountryCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "country",
		Short: "Show or set the payout country",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var page countryPage
			if err := a.client.Get(cmd.Context(), routes.ShowCountrySettingsPayments, &page); err != nil {
				return err
			}
			return a.print(cmd, page, func() string {
				if page.Country == nil {
					return a.renderer.Field("Country", "")
				}
				name := page.Countries[*page.Country]
				return a.renderer.Field("Country", strings.TrimSpace(*page.Country+" "+name))
			})
		},
	}

	var confirm bool
	set := &cobra.Command{
		Use:   "set <code>",
		Short: "Set the payout country. It cannot be changed afterwards.",
		Long: pages.CountryModalTitle + "\n\n" + pages.CountryChangeNotice + `

Saving requires --confirm, which attests that:
  - ` + strings.Join(pages.CountryAttestations, "\n  - "),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var page countryPage
			if err := a.client.Get(cmd.Context(), routes.ShowCountrySettingsPayments, &page); err != nil {
				return err
			}
			initial := ""
			if page.Country != nil {
				initial = *page.Country
			}
			sel, err := pages.NewCountrySelection(initial, page.Countries, a.client, a.client)
			if err != nil {
				return err
			}
			if err := sel.Select(strings.ToUpper(args[0])); err != nil {
				return err
			}
			if confirm {
				sel.CheckAll()
			}
			if err := sel.Save(cmd.Context()); err != nil {
				return err
			}
			code := string(sel.Country())
			label, _ := sel.Options().Label(sel.Country())
			return a.print(cmd, map[string]string{"country": code}, func() string {
				return a.renderer.Alert(pages.Alert{Variant: pages.AlertSuccess, Message: "Country set to " + label + "."})
			})
		},
	}
	set.Flags().BoolVar(&confirm, "confirm", false, "confirm all of the attestations")

	list := &cobra.Command{
		Use:   "list",
		Short: "List the countries that can be chosen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var page countryPage
			if err := a.client.Get(cmd.Context(), routes.ShowCountrySettingsPayments, &page); err != nil {
				return err
			}
			sel, err := pages.NewCountrySelection("", page.Countries, a.client, a.client)
			if err != nil {
				return err
			}
			opts := sel.Options().Enabled()
			return a.print(cmd, opts, func() string {
				lines := make([]string, 0, len(opts))
				for _, o := range opts {
					lines = append(lines, a.renderer.Field(string(o.ID), o.Label))
				}
				return strings.Join(lines, "\n")
			})
		},
	}

	cmd.AddCommand(set, list)
	return cmd
}

func (a *app) advancedSettings(cmd *cobra.Command) (*pages.AdvancedSettings, error) {
	var data pages.AdvancedPageData
	if err := a.client.Get(cmd.Context(), routes.ShowSettingsAdvanced, &data); err != nil {
		return nil, err
	}
	return pages.NewAdvancedSettings(data, a.client, a.client)
}

func newAdvancedCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "advanced",
		Short: "Show the advanced settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.advancedSettings(cmd)
			if err != nil {
				return err
			}
			return a.print(cmd, advancedOutput(p), func() string { return a.renderer.Advanced(p) })
		},
	}

	var blockedFile, domain, endpoint string
	set := &cobra.Command{
		Use:   "set",
		Short: "Update the advanced settings",
		Long: `Update the advanced settings. Only the flags given are changed.

--blocked-emails-file reads the block list from a file, or from stdin with "-".
The list is sanitized before saving.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.advancedSettings(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("blocked-emails-file") {
				text, err := readInput(cmd, blockedFile)
				if err != nil {
					return err
				}
				p.SetBlockedEmails(text)
				p.SanitizeBlockedEmails()
			}
			if cmd.Flags().Changed("custom-domain") {
				p.SetCustomDomain(domain)
			}
			if cmd.Flags().Changed("ping-endpoint") {
				p.SetPingEndpoint(endpoint)
			}
			if err := p.Save(cmd.Context()); err != nil {
				return err
			}
			return a.print(cmd, advancedOutput(p), func() string { return a.renderer.Advanced(p) })
		},
	}
	set.Flags().StringVar(&blockedFile, "blocked-emails-file", "", "file with one blocked email per line, - for stdin")
	set.Flags().StringVar(&domain, "custom-domain", "", "custom domain")
	set.Flags().StringVar(&endpoint, "ping-endpoint", "", "URL that receives sale notifications")

	cmd.AddCommand(set)
	return cmd
}

func advancedOutput(p *pages.AdvancedSettings) pages.AdvancedPageData {
	return pages.AdvancedPageData{Settings: p.Values(), DomainVerificationStatus: p.VerificationStatus()}
}

func newPingCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Sale notification pings",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "test [url]",
		Short: "Send a test ping to the ping endpoint, or to url",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.advancedSettings(cmd)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				p.SetPingEndpoint(args[0])
			}
			alert := p.SendTestPing(cmd.Context())
			if alert.Variant == pages.AlertDanger {
				return errors.New(alert.Message)
			}
			return a.print(cmd, alert, func() string { return a.renderer.Alert(alert) })
		},
	})
	return cmd
}

// readInput reads path, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(raw), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(raw), nil
}
