package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/PabloPavan/sellerdesk/internal/analytics"
	"github.com/PabloPavan/sellerdesk/internal/form"
	"github.com/PabloPavan/sellerdesk/internal/pages"
)

// Renderer turns page state into terminal text.
type Renderer struct {
	styles Styles
}

func New(theme Theme) *Renderer {
	return &Renderer{styles: theme.Styles()}
}

func (r *Renderer) Header(title string, subtitle ...string) string {
	lines := []string{r.styles.Title.Render(title)}
	for _, s := range subtitle {
		if s != "" {
			lines = append(lines, r.styles.Subtitle.Render(s))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (r *Renderer) Alert(a pages.Alert) string {
	if a.Message == "" {
		return ""
	}
	switch a.Variant {
	case pages.AlertSuccess:
		return r.styles.Success.Render("✓ " + a.Message)
	case pages.AlertDanger:
		return r.styles.Danger.Render("✗ " + a.Message)
	default:
		return r.styles.Info.Render(a.Message)
	}
}

// State renders a form's save state; the initial state renders nothing.
func (r *Renderer) State(s form.SaveState) string {
	switch s.Type {
	case form.StateError:
		return r.Alert(pages.Alert{Variant: pages.AlertDanger, Message: s.Message})
	case form.StateSubmitting:
		return r.styles.Muted.Render("…")
	default:
		return ""
	}
}

func (r *Renderer) Field(label, value string) string {
	if value == "" {
		value = r.styles.Muted.Render("(empty)")
	} else {
		value = r.styles.Value.Render(value)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, r.styles.Label.Render(label), value)
}

func (r *Renderer) Toggle(label string, on bool) string {
	mark := r.styles.Muted.Render("[ ]")
	if on {
		mark = r.styles.Success.Render("[x]")
	}
	return mark + " " + r.styles.Value.Render(label)
}

// SnippetRow renders one snippet. Collapsed rows show the title line only.
func (r *Renderer) SnippetRow(p *pages.ThirdPartyAnalytics, s analytics.Snippet) string {
	title := r.styles.Value.Bold(true).Render(pages.SnippetTitle(s))
	meta := r.styles.Muted.Render(p.ProductName(s.Product) + " · " + s.Location.Title())
	lines := []string{title, meta}

	if p.Expanded(s.Key()) {
		id := s.Key()
		if analytics.IsSynthetic(id) {
			id = "(unsaved)"
		}
		lines = append(lines,
			r.Field("ID", id),
			r.Field("Name", s.Name),
			r.Field("Location", s.Location.Title()),
			r.Field("Products", p.ProductName(s.Product)),
			r.styles.Label.Render("Code"),
			r.styles.Code.Render(s.Code),
		)
	}
	return r.styles.Row.Render(strings.Join(lines, "\n"))
}

func (r *Renderer) ThirdPartyAnalytics(p *pages.ThirdPartyAnalytics) string {
	s := p.Settings()
	sections := []string{
		r.Header("Third-party analytics", "You can add a Facebook tracking pixel and link your Google Analytics properties to track your visitors."),
		r.Toggle("Enable third-party analytics services", !s.DisableThirdPartyAnalytics),
	}
	if !s.DisableThirdPartyAnalytics {
		sections = append(sections,
			r.Field("Google Analytics Property ID", s.GoogleAnalyticsID),
			r.Field("Facebook Pixel", s.FacebookPixelID),
			r.Toggle("Send 'Purchase' events for free ($0) sales", !s.SkipFreeSaleAnalytics),
		)
	}

	sections = append(sections, "", r.Header("Domain verification"),
		r.Toggle("Verify domain in third-party services", s.EnableVerifyDomainThirdPartyServices))
	if s.EnableVerifyDomainThirdPartyServices {
		sections = append(sections, r.Field("Facebook Business", s.FacebookMetaTag))
	}

	sections = append(sections, "", r.Header("Snippets", "Add custom JavaScript to pages in the checkout flow."))
	if len(s.Snippets) == 0 {
		sections = append(sections, r.styles.Muted.Render("No snippets yet."))
	}
	for _, sn := range s.Snippets {
		sections = append(sections, r.SnippetRow(p, sn))
	}

	if st := r.State(p.State()); st != "" {
		sections = append(sections, "", st)
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (r *Renderer) Advanced(p *pages.AdvancedSettings) string {
	v := p.Values()
	sections := []string{
		r.Header("Custom domain"),
		r.Field("Domain", v.CustomDomain),
	}
	if st := p.VerificationStatus(); st != nil {
		variant := pages.AlertDanger
		if st.Success {
			variant = pages.AlertSuccess
		}
		sections = append(sections, r.Alert(pages.Alert{Variant: variant, Message: st.Message}))
	}

	sections = append(sections, "", r.Header("Ping"), r.Field("Ping endpoint", v.NotificationEndpoint))

	sections = append(sections, "", r.Header("Mass-block emails", "Please enter each email address on a new line."))
	emails := strings.TrimSpace(v.BlockedCustomerEmails)
	if emails == "" {
		sections = append(sections, r.styles.Muted.Render("No blocked emails."))
	} else {
		sections = append(sections, r.styles.Code.Render(emails))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (r *Renderer) Redirect(resp pages.RedirectResponse) string {
	if resp.TwoFactorRequired {
		return r.styles.Info.Render("Two-factor authentication required. Check your email for the token.")
	}
	return r.styles.Success.Render("✓ Logged in") + " " + r.styles.Muted.Render("→ "+resp.RedirectLocation)
}
