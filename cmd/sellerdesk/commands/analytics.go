package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PabloPavan/sellerdesk/internal/analytics"
	"github.com/PabloPavan/sellerdesk/internal/pages"
	"github.com/PabloPavan/sellerdesk/internal/routes"
)

func (a *app) analyticsPage(cmd *cobra.Command) (*pages.ThirdPartyAnalytics, error) {
	var data pages.ThirdPartyAnalyticsData
	if err := a.client.Get(cmd.Context(), routes.ShowThirdPartyAnalytics, &data); err != nil {
		return nil, err
	}
	return pages.NewThirdPartyAnalytics(data, a.client, a.client)
}

func (a *app) printAnalytics(cmd *cobra.Command, p *pages.ThirdPartyAnalytics) error {
	data := pages.ThirdPartyAnalyticsData{
		ThirdPartyAnalytics: p.Settings(),
		Products:            p.Products(),
		CanUpdate:           p.CanUpdate(),
	}
	return a.print(cmd, data, func() string { return a.renderer.ThirdPartyAnalytics(p) })
}

func newAnalyticsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Third-party analytics settings and snippets",
	}
	cmd.AddCommand(
		newAnalyticsShowCommand(a),
		newAnalyticsSetCommand(a),
		newAddSnippetCommand(a),
		newEditSnippetCommand(a),
		newRemoveSnippetCommand(a),
	)
	return cmd
}

func newAnalyticsShowCommand(a *app) *cobra.Command {
	var expand []string
	var all bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the analytics settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.analyticsPage(cmd)
			if err != nil {
				return err
			}
			for _, sn := range p.Settings().Snippets {
				if all || contains(expand, sn.Key()) {
					p.Toggle(sn.Key())
				}
			}
			return a.printAnalytics(cmd, p)
		},
	}
	cmd.Flags().StringSliceVar(&expand, "expand", nil, "snippet ids to show in full")
	cmd.Flags().BoolVar(&all, "all", false, "show every snippet in full")
	return cmd
}

func newAnalyticsSetCommand(a *app) *cobra.Command {
	var (
		enabled, freeSales, verifyDomain bool
		gaID, pixelID, metaTag           string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update the analytics settings. Only the flags given are changed.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.analyticsPage(cmd)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("enabled") {
				p.SetEnabled(enabled)
			}
			if flags.Changed("free-sale-events") {
				p.SetFreeSalePurchaseEvents(freeSales)
			}
			var patch analytics.Patch
			if flags.Changed("google-analytics-id") {
				patch.GoogleAnalyticsID = &gaID
			}
			if flags.Changed("facebook-pixel-id") {
				patch.FacebookPixelID = &pixelID
			}
			if flags.Changed("verify-domain") {
				patch.EnableVerifyDomainThirdPartyServices = &verifyDomain
			}
			if flags.Changed("facebook-meta-tag") {
				patch.FacebookMetaTag = &metaTag
			}
			p.Update(patch)

			if err := p.Save(cmd.Context()); err != nil {
				return err
			}
			return a.printAnalytics(cmd, p)
		},
	}
	cmd.Flags().BoolVar(&enabled, "enabled", true, "enable third-party analytics services")
	cmd.Flags().BoolVar(&freeSales, "free-sale-events", true, "send 'Purchase' events for free sales")
	cmd.Flags().BoolVar(&verifyDomain, "verify-domain", false, "verify the domain in third-party services")
	cmd.Flags().StringVar(&gaID, "google-analytics-id", "", "Google Analytics property id")
	cmd.Flags().StringVar(&pixelID, "facebook-pixel-id", "", "Facebook pixel id")
	cmd.Flags().StringVar(&metaTag, "facebook-meta-tag", "", "Facebook business verification meta tag")
	return cmd
}

// snippetFlags are the editable snippet fields shared by add and edit.
type snippetFlags struct {
	name, location, product, code, codeFile string
}

func (f *snippetFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "snippet name")
	cmd.Flags().StringVar(&f.location, "location", "", "where the snippet runs: receipt, product or all")
	cmd.Flags().StringVar(&f.product, "product", "", "product permalink, empty for all products")
	cmd.Flags().StringVar(&f.code, "code", "", "snippet code")
	cmd.Flags().StringVar(&f.codeFile, "code-file", "", "read the snippet code from a file, - for stdin")
}

func (f *snippetFlags) apply(cmd *cobra.Command, p *pages.ThirdPartyAnalytics, id string) error {
	flags := cmd.Flags()
	var patch analytics.SnippetPatch
	if flags.Changed("name") {
		patch.Name = &f.name
	}
	if flags.Changed("code-file") {
		code, err := readInput(cmd, f.codeFile)
		if err != nil {
			return err
		}
		patch.Code = &code
	} else if flags.Changed("code") {
		patch.Code = &f.code
	}
	p.UpdateSnippet(id, patch)

	if flags.Changed("location") {
		if err := p.SelectLocation(id, f.location); err != nil {
			return err
		}
	}
	if flags.Changed("product") {
		if err := p.SelectProduct(id, f.product); err != nil {
			return err
		}
	}
	return nil
}

func newAddSnippetCommand(a *app) *cobra.Command {
	var f snippetFlags

	cmd := &cobra.Command{
		Use:   "add-snippet",
		Short: "Add a snippet and save",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.analyticsPage(cmd)
			if err != nil {
				return err
			}
			id := p.AddSnippet()
			if err := f.apply(cmd, p, id); err != nil {
				return err
			}
			if err := p.Save(cmd.Context()); err != nil {
				return err
			}
			return a.printAnalytics(cmd, p)
		},
	}
	f.register(cmd)
	return cmd
}

func newEditSnippetCommand(a *app) *cobra.Command {
	var f snippetFlags

	cmd := &cobra.Command{
		Use:   "edit-snippet <id>",
		Short: "Change a snippet and save",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.analyticsPage(cmd)
			if err != nil {
				return err
			}
			id := args[0]
			if !hasSnippet(p, id) {
				return fmt.Errorf("snippet %s not found", id)
			}
			if err := f.apply(cmd, p, id); err != nil {
				return err
			}
			if err := p.Save(cmd.Context()); err != nil {
				return err
			}
			p.Toggle(id)
			return a.printAnalytics(cmd, p)
		},
	}
	f.register(cmd)
	return cmd
}

func newRemoveSnippetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove-snippet <id>",
		Short: "Remove a snippet and save",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.analyticsPage(cmd)
			if err != nil {
				return err
			}
			if !hasSnippet(p, args[0]) {
				return fmt.Errorf("snippet %s not found", args[0])
			}
			p.RemoveSnippet(args[0])
			if err := p.Save(cmd.Context()); err != nil {
				return err
			}
			return a.printAnalytics(cmd, p)
		},
	}
}

func hasSnippet(p *pages.ThirdPartyAnalytics, id string) bool {
	for _, sn := range p.Settings().Snippets {
		if sn.Key() == id {
			return true
		}
	}
	return false
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
