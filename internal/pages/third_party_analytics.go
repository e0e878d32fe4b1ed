package pages

import (
	"context"

	"github.com/PabloPavan/sellerdesk/internal/analytics"
	"github.com/PabloPavan/sellerdesk/internal/apperrors"
	"github.com/PabloPavan/sellerdesk/internal/form"
	"github.com/PabloPavan/sellerdesk/internal/routes"
)

const (
	AllProductsLabel = "All products"
	UntitledSnippet  = "Untitled"
)

type Product = analytics.Product

// ThirdPartyAnalyticsData is served by the show endpoint.
type ThirdPartyAnalyticsData struct {
	ThirdPartyAnalytics analytics.Settings `json:"third_party_analytics" yaml:"third_party_analytics"`
	Products            []Product          `json:"products" yaml:"products"`
	CanUpdate           bool               `json:"can_update" yaml:"can_update"`
}

type ThirdPartyAnalytics struct {
	ctl       *form.Controller[analytics.Settings]
	expanded  *form.Expansion
	products  []Product
	canUpdate bool
	newID     analytics.IDGenerator
}

func NewThirdPartyAnalytics(data ThirdPartyAnalyticsData, resolver routes.Resolver, sender form.Sender) (*ThirdPartyAnalytics, error) {
	ep, err := resolve(resolver, routes.SettingsThirdPartyAnalytics)
	if err != nil {
		return nil, err
	}
	ctl := form.NewController("settings_third_party_analytics", data.ThirdPartyAnalytics, ep, sender)
	ctl.Transform(func(s analytics.Settings) any {
		return analytics.UpdateRequest{User: analytics.StripSyntheticIDs(s)}
	})
	return &ThirdPartyAnalytics{
		ctl:       ctl,
		expanded:  form.NewExpansion(analytics.IsSynthetic),
		products:  append([]Product(nil), data.Products...),
		canUpdate: data.CanUpdate,
	}, nil
}

// WithIDGenerator replaces the synthetic id source.
func (p *ThirdPartyAnalytics) WithIDGenerator(gen analytics.IDGenerator) *ThirdPartyAnalytics {
	p.newID = gen
	return p
}

func (p *ThirdPartyAnalytics) Settings() analytics.Settings { return p.ctl.Value() }

func (p *ThirdPartyAnalytics) State() form.SaveState { return p.ctl.State() }

func (p *ThirdPartyAnalytics) Products() []Product { return append([]Product(nil), p.products...) }

// CanUpdate reports whether the save action is available.
func (p *ThirdPartyAnalytics) CanUpdate() bool {
	return p.canUpdate && !p.ctl.Submitting()
}

// Update merges patch into the settings.
func (p *ThirdPartyAnalytics) Update(patch analytics.Patch) {
	p.ctl.Update(patch.Apply)
}

func (p *ThirdPartyAnalytics) SetEnabled(enabled bool) {
	disabled := !enabled
	p.Update(analytics.Patch{DisableThirdPartyAnalytics: &disabled})
}

func (p *ThirdPartyAnalytics) SetFreeSalePurchaseEvents(send bool) {
	skip := !send
	p.Update(analytics.Patch{SkipFreeSaleAnalytics: &skip})
}

// AddSnippet appends a blank snippet and returns its synthetic id. New rows
// start expanded.
func (p *ThirdPartyAnalytics) AddSnippet() string {
	var id string
	p.ctl.Update(func(s analytics.Settings) analytics.Settings {
		s.Snippets, id = analytics.AddSnippet(s.Snippets, p.newID)
		return s
	})
	return id
}

// UpdateSnippet merges patch into the snippet with the given id. Unknown ids
// are ignored.
func (p *ThirdPartyAnalytics) UpdateSnippet(id string, patch analytics.SnippetPatch) {
	p.ctl.Update(func(s analytics.Settings) analytics.Settings {
		s.Snippets = analytics.UpdateSnippet(s.Snippets, id, patch)
		return s
	})
}

func (p *ThirdPartyAnalytics) RemoveSnippet(id string) {
	p.ctl.Update(func(s analytics.Settings) analytics.Settings {
		s.Snippets = analytics.RemoveSnippet(s.Snippets, id)
		return s
	})
	p.expanded.Forget(id)
}

// SelectLocation sets a snippet's location from a raw option value.
func (p *ThirdPartyAnalytics) SelectLocation(id, raw string) error {
	loc, ok := p.LocationOptions().Select(raw)
	if !ok {
		return apperrors.New(apperrors.KindInvalidInput, "invalid snippet location: "+raw)
	}
	p.UpdateSnippet(id, analytics.SnippetPatch{Location: &loc})
	return nil
}

// SelectProduct scopes a snippet to a product; "" means all products.
func (p *ThirdPartyAnalytics) SelectProduct(id, raw string) error {
	permalink, ok := p.ProductOptions().Select(raw)
	if !ok {
		return apperrors.New(apperrors.KindInvalidInput, "unknown product: "+raw)
	}
	p.UpdateSnippet(id, analytics.SnippetPatch{Product: &permalink})
	return nil
}

func (p *ThirdPartyAnalytics) Toggle(id string) bool { return p.expanded.Toggle(id) }

func (p *ThirdPartyAnalytics) Expanded(id string) bool { return p.expanded.Expanded(id) }

func (p *ThirdPartyAnalytics) LocationOptions() form.Options[analytics.Location] {
	opts := make(form.Options[analytics.Location], 0, len(analytics.Locations))
	for _, loc := range analytics.Locations {
		opts = append(opts, form.Option[analytics.Location]{ID: loc, Label: loc.Title()})
	}
	return opts
}

func (p *ThirdPartyAnalytics) ProductOptions() form.Options[string] {
	opts := form.Options[string]{{ID: "", Label: AllProductsLabel}}
	for _, prod := range p.products {
		opts = append(opts, form.Option[string]{ID: prod.Permalink, Label: prod.Name})
	}
	return opts
}

// ProductName is the label shown for a snippet's product scope.
func (p *ThirdPartyAnalytics) ProductName(permalink *string) string {
	if permalink == nil {
		return AllProductsLabel
	}
	for _, prod := range p.products {
		if prod.Permalink == *permalink {
			return prod.Name
		}
	}
	return AllProductsLabel
}

func SnippetTitle(s analytics.Snippet) string {
	if s.Name == "" {
		return UntitledSnippet
	}
	return s.Name
}

// Save sends the settings with unsaved snippet ids cleared. On success the
// held settings are replaced with what the server stored.
func (p *ThirdPartyAnalytics) Save(ctx context.Context) error {
	if !p.CanUpdate() {
		return apperrors.New(apperrors.KindForbidden, "You are not allowed to update these settings.")
	}
	var saved *ThirdPartyAnalyticsData
	if err := p.ctl.Submit(ctx, form.WithResponse(&saved)); err != nil {
		return err
	}
	if saved == nil {
		return nil
	}
	for _, sn := range p.ctl.Value().Snippets {
		if analytics.IsSynthetic(sn.Key()) {
			p.expanded.Forget(sn.Key())
		}
	}
	p.ctl.Reset(saved.ThirdPartyAnalytics)
	if saved.Products != nil {
		p.products = append([]Product(nil), saved.Products...)
	}
	return nil
}
