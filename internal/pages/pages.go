// Package pages wires form controllers to the account pages: login,
// two-factor authentication, password reset, country selection and the
// advanced and third-party analytics settings.
package pages

import (
	"errors"
	"fmt"

	"github.com/PabloPavan/sellerdesk/internal/routes"
)

type AlertVariant string

const (
	AlertSuccess AlertVariant = "success"
	AlertDanger  AlertVariant = "danger"
	AlertInfo    AlertVariant = "info"
)

// Alert is a transient message shown after an action.
type Alert struct {
	Variant AlertVariant `json:"variant" yaml:"variant"`
	Message string       `json:"message" yaml:"message"`
}

func successAlert(msg string) Alert { return Alert{Variant: AlertSuccess, Message: msg} }

func dangerAlert(msg string) Alert { return Alert{Variant: AlertDanger, Message: msg} }

// RedirectResponse is returned by the authentication endpoints.
type RedirectResponse struct {
	RedirectLocation  string `json:"redirect_location" yaml:"redirect_location"`
	TwoFactorRequired bool   `json:"two_factor_required,omitempty" yaml:"two_factor_required,omitempty"`
}

var errNoResolver = errors.New("route resolver is required")

func resolve(r routes.Resolver, name string) (routes.Endpoint, error) {
	if r == nil {
		return routes.Endpoint{}, errNoResolver
	}
	ep, err := r.Endpoint(name)
	if err != nil {
		return routes.Endpoint{}, fmt.Errorf("resolve %s: %w", name, err)
	}
	return ep, nil
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
