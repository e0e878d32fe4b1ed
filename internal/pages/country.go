package pages

import (
	"context"
	"slices"
	"strings"

	"github.com/PabloPavan/sellerdesk/internal/apperrors"
	"github.com/PabloPavan/sellerdesk/internal/form"
	"github.com/PabloPavan/sellerdesk/internal/routes"
)

const (
	DefaultCountry      = "US"
	notSupportedMarker  = "(not supported)"
	CountryModalTitle   = "Where are you located?"
	CountryChangeNotice = "You may have to forfeit your balance if you want to change your country in the future."
)

// CountryAttestations must all be confirmed before the country can be saved.
var CountryAttestations = []string{
	"I have a valid, government-issued photo ID",
	"I have proof of residence within this country",
	"If I am signing up as a business, it is registered in the country above",
}

type CountryCode string

type CountryValues struct {
	Country CountryCode `json:"country"`
}

func (v CountryValues) Clone() CountryValues { return v }

type CountrySelection struct {
	ctl       *form.Controller[CountryValues]
	countries form.Options[CountryCode]
	checked   map[int]bool
}

// NewCountrySelection builds the selection from a code -> name map. Names
// marked "(not supported)" are listed but cannot be chosen.
func NewCountrySelection(initial string, countries map[string]string, resolver routes.Resolver, sender form.Sender) (*CountrySelection, error) {
	ep, err := resolve(resolver, routes.SetCountrySettingsPayments)
	if err != nil {
		return nil, err
	}

	opts := make(form.Options[CountryCode], 0, len(countries))
	for code, name := range countries {
		opts = append(opts, form.Option[CountryCode]{ID: CountryCode(code), Label: name})
	}
	slices.SortFunc(opts, func(a, b form.Option[CountryCode]) int {
		return strings.Compare(a.Label, b.Label)
	})

	country := strings.TrimSpace(initial)
	if country == "" {
		country = DefaultCountry
	}
	return &CountrySelection{
		ctl:       form.NewController("country", CountryValues{Country: CountryCode(country)}, ep, sender),
		countries: opts.DisableWhenLabelContains(notSupportedMarker),
		checked:   make(map[int]bool),
	}, nil
}

func (c *CountrySelection) Country() CountryCode { return c.ctl.Value().Country }

func (c *CountrySelection) Options() form.Options[CountryCode] { return c.countries }

func (c *CountrySelection) Error() string { return c.ctl.Error() }

func (c *CountrySelection) Saving() bool { return c.ctl.Submitting() }

// Select changes the country. Unknown and unsupported codes are rejected.
func (c *CountrySelection) Select(code string) error {
	id, ok := c.countries.Select(strings.TrimSpace(code))
	if !ok {
		return apperrors.New(apperrors.KindInvalidInput, "country is not available: "+code)
	}
	c.ctl.Update(func(v CountryValues) CountryValues {
		v.Country = id
		return v
	})
	return nil
}

// Check toggles attestation i. Out of range indexes are ignored.
func (c *CountrySelection) Check(i int, checked bool) {
	if i < 0 || i >= len(CountryAttestations) {
		return
	}
	if checked {
		c.checked[i] = true
		return
	}
	delete(c.checked, i)
}

func (c *CountrySelection) CheckAll() {
	for i := range CountryAttestations {
		c.checked[i] = true
	}
}

func (c *CountrySelection) Checked(i int) bool { return c.checked[i] }

func (c *CountrySelection) CanSave() bool {
	return len(c.checked) == len(CountryAttestations) && !c.Saving()
}

func (c *CountrySelection) ButtonLabel() string {
	return c.ctl.State().Label("Save", "Saving...")
}

// Save posts the country. On success the caller reloads the settings.
func (c *CountrySelection) Save(ctx context.Context) error {
	if !c.CanSave() {
		return apperrors.New(apperrors.KindInvalidInput, "Please confirm all of the statements above.")
	}
	return c.ctl.Submit(ctx)
}
