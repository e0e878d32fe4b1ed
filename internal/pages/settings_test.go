package pages

import (
	"context"
	"testing"

	"github.com/PabloPavan/sellerdesk/internal/analytics"
	"github.com/PabloPavan/sellerdesk/internal/apperrors"
	"github.com/PabloPavan/sellerdesk/internal/form"
	"github.com/PabloPavan/sellerdesk/internal/routes"
)

var testCountries = map[string]string{
	"US": "United States",
	"BR": "Brazil",
	"KP": "North Korea (not supported)",
}

func TestCountrySelectionDefaultsAndOptions(t *testing.T) {
	c, err := NewCountrySelection("", testCountries, routes.Default, &recordingSender{})
	if err != nil {
		t.Fatalf("NewCountrySelection returned error: %v", err)
	}
	if c.Country() != DefaultCountry {
		t.Fatalf("unexpected default: %s", c.Country())
	}
	if err := c.Select("KP"); err == nil {
		t.Fatal("unsupported country must be rejected")
	}
	if err := c.Select("XX"); err == nil {
		t.Fatal("unknown country must be rejected")
	}
	if err := c.Select("BR"); err != nil || c.Country() != "BR" {
		t.Fatalf("select failed: %v %s", err, c.Country())
	}
	if len(c.Options().Enabled()) != 2 {
		t.Fatalf("unexpected enabled options: %+v", c.Options().Enabled())
	}
}

func TestCountrySelectionRequiresAllAttestations(t *testing.T) {
	sender := &recordingSender{}
	c, _ := NewCountrySelection("BR", testCountries, routes.Default, sender)

	c.Check(0, true)
	c.Check(1, true)
	if c.CanSave() {
		t.Fatal("save must be disabled until every statement is confirmed")
	}
	if err := c.Save(context.Background()); err == nil {
		t.Fatal("expected save to be refused")
	}
	if len(sender.calls) != 0 {
		t.Fatal("nothing must be sent")
	}

	c.Check(2, true)
	c.Check(1, false)
	c.Check(1, true)
	c.Check(7, true)
	if !c.CanSave() {
		t.Fatal("expected save to be enabled")
	}
	if err := c.Save(context.Background()); err != nil {
		t.Fatalf("save error: %v", err)
	}
	if sender.last()["country"] != "BR" {
		t.Fatalf("unexpected payload: %v", sender.last())
	}
}

func TestCountrySelectionErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"server message", apperrors.New(apperrors.KindConflict, "You cannot change your country once it is set."), "You cannot change your country once it is set."},
		{"transport failure", apperrors.New(apperrors.KindUnavailable, ""), form.GenericErrorMessage},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sender := &recordingSender{sendFn: func(ep routes.Endpoint, body map[string]any, dest any) error { return tc.err }}
			c, _ := NewCountrySelection("US", testCountries, routes.Default, sender)
			c.CheckAll()
			_ = c.Save(context.Background())
			if c.Error() != tc.want {
				t.Fatalf("unexpected error: %q", c.Error())
			}
			if c.Saving() || c.ButtonLabel() != "Save" {
				t.Fatal("saving must be reset")
			}
		})
	}
}

func TestAdvancedSettingsSanitizesOnBlur(t *testing.T) {
	a, err := NewAdvancedSettings(AdvancedPageData{}, routes.Default, &recordingSender{})
	if err != nil {
		t.Fatalf("NewAdvancedSettings returned error: %v", err)
	}
	a.SanitizeBlockedEmails()
	if a.Values().BlockedCustomerEmails != "" {
		t.Fatal("empty list must be left alone")
	}

	a.SetBlockedEmails("Foo+spam@Example.com\nfoo.bar@example.com, foo@example.com")
	a.SanitizeBlockedEmails()
	if got := a.Values().BlockedCustomerEmails; got != "foo@example.com\nfoobar@example.com" {
		t.Fatalf("unexpected block list: %q", got)
	}
}

func TestAdvancedSettingsTestPing(t *testing.T) {
	var reply PingResponse
	sender := &recordingSender{sendFn: func(ep routes.Endpoint, body map[string]any, dest any) error {
		return respond(dest, reply)
	}}
	a, _ := NewAdvancedSettings(AdvancedPageData{}, routes.Default, sender)

	alert := a.SendTestPing(context.Background())
	if alert.Variant != AlertDanger || alert.Message != MissingPingURLMessage {
		t.Fatalf("unexpected alert: %+v", alert)
	}
	if len(sender.calls) != 0 {
		t.Fatal("empty endpoint must not be sent")
	}

	a.SetPingEndpoint("  https://hooks.example.com/sale  ")
	reply = PingResponse{Success: true, Message: "Your ping was sent successfully."}
	alert = a.SendTestPing(context.Background())
	if alert.Variant != AlertSuccess || alert.Message != reply.Message {
		t.Fatalf("unexpected alert: %+v", alert)
	}
	if sender.last()["url"] != "https://hooks.example.com/sale" {
		t.Fatalf("unexpected payload: %v", sender.last())
	}

	reply = PingResponse{Success: false, ErrorMessage: "The endpoint answered 500."}
	alert = a.SendTestPing(context.Background())
	if alert.Variant != AlertDanger || alert.Message != "The endpoint answered 500." {
		t.Fatalf("unexpected alert: %+v", alert)
	}
	if a.PingButtonLabel() != "Send test ping to URL" {
		t.Fatalf("unexpected label: %q", a.PingButtonLabel())
	}
}

func TestAdvancedSettingsSaveWrapsUser(t *testing.T) {
	sender := &recordingSender{sendFn: func(ep routes.Endpoint, body map[string]any, dest any) error {
		return respond(dest, AdvancedPageData{
			Settings:                 AdvancedValues{CustomDomain: "shop.example.com"},
			DomainVerificationStatus: &VerificationStatus{Success: true, Message: "shop.example.com domain is correctly configured!"},
		})
	}}
	a, _ := NewAdvancedSettings(AdvancedPageData{}, routes.Default, sender)
	a.SetCustomDomain("Shop.Example.com")

	if err := a.Save(context.Background()); err != nil {
		t.Fatalf("save error: %v", err)
	}
	user := sender.last()["user"].(map[string]any)
	if user["custom_domain"] != "Shop.Example.com" {
		t.Fatalf("unexpected payload: %v", sender.last())
	}
	if a.Values().CustomDomain != "shop.example.com" || a.VerificationStatus() == nil || !a.VerificationStatus().Success {
		t.Fatalf("server state not applied: %+v %+v", a.Values(), a.VerificationStatus())
	}
}

func TestAdvancedSettingsSaveClearsVerificationStatus(t *testing.T) {
	sender := &recordingSender{sendFn: func(ep routes.Endpoint, body map[string]any, dest any) error {
		return respond(dest, AdvancedPageData{Settings: AdvancedValues{}})
	}}
	a, _ := NewAdvancedSettings(AdvancedPageData{
		Settings:                 AdvancedValues{CustomDomain: "shop.example.com"},
		DomainVerificationStatus: &VerificationStatus{Success: true, Message: "ok"},
	}, routes.Default, sender)
	a.SetCustomDomain("")

	if err := a.Save(context.Background()); err != nil {
		t.Fatalf("save error: %v", err)
	}
	if a.Values().CustomDomain != "" {
		t.Fatalf("unexpected domain %q", a.Values().CustomDomain)
	}
	if a.VerificationStatus() != nil {
		t.Fatalf("stale verification status kept: %+v", a.VerificationStatus())
	}
}

func newAnalyticsPage(t *testing.T, sender form.Sender, initial analytics.Settings) *ThirdPartyAnalytics {
	t.Helper()
	p, err := NewThirdPartyAnalytics(ThirdPartyAnalyticsData{
		ThirdPartyAnalytics: initial,
		Products:            []Product{{Permalink: "perm", Name: "Course"}},
		CanUpdate:           true,
	}, routes.Default, sender)
	if err != nil {
		t.Fatalf("NewThirdPartyAnalytics returned error: %v", err)
	}
	return p
}

func TestThirdPartyAnalyticsEndToEnd(t *testing.T) {
	sender := &recordingSender{}
	p := newAnalyticsPage(t, sender, analytics.Settings{Snippets: []analytics.Snippet{}})

	first := p.AddSnippet()
	second := p.AddSnippet()
	name := "Conversion pixel"
	code := "<script>track()</script>"
	p.UpdateSnippet(second, analytics.SnippetPatch{Name: &name, Code: &code})
	if err := p.SelectLocation(second, "all"); err != nil {
		t.Fatalf("select location: %v", err)
	}
	p.RemoveSnippet(first)

	if err := p.Save(context.Background()); err != nil {
		t.Fatalf("save error: %v", err)
	}
	if sender.calls[0].Method != "PUT" || sender.calls[0].Path != "/settings/third-party-analytics" {
		t.Fatalf("unexpected endpoint: %+v", sender.calls[0])
	}

	user := sender.last()["user"].(map[string]any)
	snippets := user["snippets"].([]any)
	if len(snippets) != 1 {
		t.Fatalf("expected one snippet, got %d", len(snippets))
	}
	sn := snippets[0].(map[string]any)
	if sn["id"] != nil {
		t.Fatalf("synthetic id leaked: %v", sn["id"])
	}
	if sn["name"] != name || sn["code"] != code || sn["location"] != "all" || sn["product"] != nil {
		t.Fatalf("unexpected snippet payload: %v", sn)
	}
}

func TestThirdPartyAnalyticsOnlyNewSnippetsHaveNoIDs(t *testing.T) {
	sender := &recordingSender{}
	p := newAnalyticsPage(t, sender, analytics.Settings{})
	p.AddSnippet()
	p.AddSnippet()
	p.AddSnippet()

	if err := p.Save(context.Background()); err != nil {
		t.Fatalf("save error: %v", err)
	}
	for _, raw := range sender.last()["user"].(map[string]any)["snippets"].([]any) {
		if id := raw.(map[string]any)["id"]; id != nil {
			t.Fatalf("synthetic id leaked: %v", id)
		}
	}
	for _, sn := range p.Settings().Snippets {
		if !analytics.IsSynthetic(sn.Key()) {
			t.Fatal("held value must keep its synthetic ids")
		}
	}
}

func TestThirdPartyAnalyticsKeepsSavedIDs(t *testing.T) {
	sender := &recordingSender{}
	p := newAnalyticsPage(t, sender, analytics.Settings{Snippets: []analytics.Snippet{
		{ID: analytics.StringPtr("snp_1"), Name: "Saved", Location: analytics.LocationReceipt},
	}})
	if err := p.SelectProduct("snp_1", "perm"); err != nil {
		t.Fatalf("select product: %v", err)
	}
	if err := p.SelectProduct("snp_1", "missing"); err == nil {
		t.Fatal("unknown product must be rejected")
	}
	p.SetEnabled(false)

	if err := p.Save(context.Background()); err != nil {
		t.Fatalf("save error: %v", err)
	}
	user := sender.last()["user"].(map[string]any)
	if user["disable_third_party_analytics"] != true {
		t.Fatalf("unexpected payload: %v", user)
	}
	sn := user["snippets"].([]any)[0].(map[string]any)
	if sn["id"] != "snp_1" || sn["product"] != "perm" {
		t.Fatalf("unexpected snippet payload: %v", sn)
	}
}

func TestThirdPartyAnalyticsSaveFailureKeepsState(t *testing.T) {
	sender := &recordingSender{sendFn: func(ep routes.Endpoint, body map[string]any, dest any) error {
		return apperrors.New(apperrors.KindInvalidInput, "snippet not found")
	}}
	p := newAnalyticsPage(t, sender, analytics.Settings{})
	id := p.AddSnippet()

	if err := p.Save(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if p.State().Message != "snippet not found" {
		t.Fatalf("unexpected state: %+v", p.State())
	}
	got := p.Settings().Snippets
	if len(got) != 1 || got[0].Key() != id {
		t.Fatalf("held value changed: %+v", got)
	}
	if !p.CanUpdate() {
		t.Fatal("save must be available again")
	}
}

func TestThirdPartyAnalyticsSaveReplacesState(t *testing.T) {
	sender := &recordingSender{sendFn: func(ep routes.Endpoint, body map[string]any, dest any) error {
		return respond(dest, ThirdPartyAnalyticsData{ThirdPartyAnalytics: analytics.Settings{
			Snippets: []analytics.Snippet{{ID: analytics.StringPtr("snp_9"), Location: analytics.LocationReceipt}},
		}})
	}}
	p := newAnalyticsPage(t, sender, analytics.Settings{})
	p.AddSnippet()

	if err := p.Save(context.Background()); err != nil {
		t.Fatalf("save error: %v", err)
	}
	if p.Settings().Snippets[0].Key() != "snp_9" {
		t.Fatalf("unexpected settings: %+v", p.Settings())
	}
	if p.Expanded("snp_9") {
		t.Fatal("saved snippets start collapsed")
	}
	if p.ProductName(analytics.StringPtr("perm")) != "Course" {
		t.Fatal("products must survive a save without products in the response")
	}
}

func TestThirdPartyAnalyticsExpansion(t *testing.T) {
	p := newAnalyticsPage(t, &recordingSender{}, analytics.Settings{Snippets: []analytics.Snippet{
		{ID: analytics.StringPtr("snp_1"), Location: analytics.LocationReceipt},
	}})
	id := p.AddSnippet()

	if !p.Expanded(id) || p.Expanded("snp_1") {
		t.Fatal("new rows start expanded, saved rows collapsed")
	}
	if !p.Toggle("snp_1") || p.Toggle(id) {
		t.Fatal("toggle must flip the row")
	}
}

func TestThirdPartyAnalyticsLabels(t *testing.T) {
	p := newAnalyticsPage(t, &recordingSender{}, analytics.Settings{})
	if p.ProductName(nil) != AllProductsLabel || p.ProductName(analytics.StringPtr("gone")) != AllProductsLabel {
		t.Fatal("unexpected product fallback")
	}
	if SnippetTitle(analytics.Snippet{}) != UntitledSnippet {
		t.Fatal("unexpected title fallback")
	}
	if len(p.LocationOptions()) != 3 || len(p.ProductOptions()) != 2 {
		t.Fatal("unexpected option counts")
	}
}

func TestThirdPartyAnalyticsCanUpdatePolicy(t *testing.T) {
	sender := &recordingSender{}
	p, _ := NewThirdPartyAnalytics(ThirdPartyAnalyticsData{}, routes.Default, sender)
	if p.CanUpdate() {
		t.Fatal("policy denies update")
	}
	if err := p.Save(context.Background()); apperrors.KindOf(err) != apperrors.KindForbidden {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sender.calls) != 0 {
		t.Fatal("nothing must be sent")
	}
}
