package routes

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	Login                       = "login"
	Logout                      = "logout"
	TwoFactorAuthentication     = "two_factor_authentication"
	ResendTwoFactorToken        = "resend_two_factor_token"
	ForgotPassword              = "forgot_password"
	ResetPassword               = "reset_password"
	SettingsThirdPartyAnalytics = "settings_third_party_analytics"
	ShowThirdPartyAnalytics     = "show_settings_third_party_analytics"
	SettingsAdvanced            = "settings_advanced"
	ShowSettingsAdvanced        = "show_settings_advanced"
	SetCountrySettingsPayments  = "set_country_settings_payments"
	ShowCountrySettingsPayments = "show_country_settings_payments"
	TestPings                   = "test_pings"
	Dashboard                   = "dashboard"
	Signup                      = "signup"
	TwoFactorPage               = "two_factor_page"
)

// Endpoint is a resolved route: the method and path a request goes to.
type Endpoint struct {
	Name   string
	Method string
	Path   string
}

// URL returns the endpoint path with query attached. Empty values are dropped.
func (e Endpoint) URL(query url.Values) string {
	if len(query) == 0 {
		return e.Path
	}
	clean := url.Values{}
	for k, vs := range query {
		for _, v := range vs {
			if strings.TrimSpace(v) != "" {
				clean.Add(k, v)
			}
		}
	}
	if len(clean) == 0 {
		return e.Path
	}
	return e.Path + "?" + clean.Encode()
}

type Resolver interface {
	Endpoint(name string) (Endpoint, error)
}

// Table is a static named-route table.
type Table map[string]Endpoint

func (t Table) Endpoint(name string) (Endpoint, error) {
	ep, ok := t[name]
	if !ok {
		return Endpoint{}, fmt.Errorf("unknown route: %q", name)
	}
	if ep.Name == "" {
		ep.Name = name
	}
	return ep, nil
}

// MustEndpoint is Endpoint for tables known at compile time.
func (t Table) MustEndpoint(name string) Endpoint {
	ep, err := t.Endpoint(name)
	if err != nil {
		panic(err)
	}
	return ep
}

// Default is the route table served by cmd/api.
var Default = Table{
	Login:                       {Method: http.MethodPost, Path: "/login"},
	Logout:                      {Method: http.MethodPost, Path: "/logout"},
	TwoFactorAuthentication:     {Method: http.MethodPost, Path: "/two-factor"},
	ResendTwoFactorToken:        {Method: http.MethodPost, Path: "/two-factor/resend"},
	TwoFactorPage:               {Method: http.MethodGet, Path: "/two-factor"},
	ForgotPassword:              {Method: http.MethodPost, Path: "/forgot-password"},
	ResetPassword:               {Method: http.MethodPost, Path: "/reset-password"},
	SettingsThirdPartyAnalytics: {Method: http.MethodPut, Path: "/settings/third-party-analytics"},
	ShowThirdPartyAnalytics:     {Method: http.MethodGet, Path: "/settings/third-party-analytics"},
	SettingsAdvanced:            {Method: http.MethodPut, Path: "/settings/advanced"},
	ShowSettingsAdvanced:        {Method: http.MethodGet, Path: "/settings/advanced"},
	SetCountrySettingsPayments:  {Method: http.MethodPost, Path: "/settings/payments/country"},
	ShowCountrySettingsPayments: {Method: http.MethodGet, Path: "/settings/payments/country"},
	TestPings:                   {Method: http.MethodPost, Path: "/test-pings"},
	Dashboard:                   {Method: http.MethodGet, Path: "/dashboard"},
	Signup:                      {Method: http.MethodGet, Path: "/signup"},
}

// SafeNext returns next when it is a same-site relative path, otherwise fallback.
func SafeNext(next, fallback string) string {
	next = strings.TrimSpace(next)
	if next == "" {
		return fallback
	}
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}
	return next
}
