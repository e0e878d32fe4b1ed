package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/PabloPavan/sellerdesk/internal/routes"
	"github.com/PabloPavan/sellerdesk/internal/session"
	"github.com/PabloPavan/sellerdesk/internal/telemetry"
)

type App struct {
	ServiceName string
	Routes      routes.Resolver
	Cookie      session.CookieConfig
	// Swagger serves /swagger/* when set; cmd/api imports the generated docs.
	Swagger bool

	Health   *HealthHandler
	Auth     *AuthHandler
	Settings *SettingsHandler
	Payments *PaymentsHandler
	Pings    *PingsHandler
}

func NewRouter(app *App) http.Handler {
	resolver := app.Routes
	if resolver == nil {
		resolver = routes.Default
	}
	service := app.ServiceName
	if service == "" {
		service = "sellerdesk-api"
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(telemetry.ChiTraceMiddleware(service))
	r.Use(telemetry.ChiMetricsMiddleware)
	r.Use(telemetry.ChiLogMiddleware(service))

	r.Get("/health", app.Health.Get)
	if app.Swagger {
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	}

	// Public
	r.Group(func(r chi.Router) {
		mount(r, resolver, routes.Login, app.Auth.Login)
		mount(r, resolver, routes.TwoFactorAuthentication, app.Auth.TwoFactor)
		mount(r, resolver, routes.ResendTwoFactorToken, app.Auth.ResendTwoFactor)
		mount(r, resolver, routes.ForgotPassword, app.Auth.ForgotPassword)
		mount(r, resolver, routes.ResetPassword, app.Auth.ResetPassword)
	})

	// Protected
	r.Group(func(r chi.Router) {
		r.Use(SessionMiddleware(app.Auth.Auth, app.Cookie))

		mount(r, resolver, routes.Logout, app.Auth.Logout)

		mount(r, resolver, routes.ShowThirdPartyAnalytics, app.Settings.ShowThirdPartyAnalytics)
		mount(r, resolver, routes.SettingsThirdPartyAnalytics, app.Settings.UpdateThirdPartyAnalytics)
		mount(r, resolver, routes.ShowSettingsAdvanced, app.Settings.ShowAdvanced)
		mount(r, resolver, routes.SettingsAdvanced, app.Settings.UpdateAdvanced)
		mount(r, resolver, routes.ShowCountrySettingsPayments, app.Payments.ShowCountry)
		mount(r, resolver, routes.SetCountrySettingsPayments, app.Payments.SetCountry)
		mount(r, resolver, routes.TestPings, app.Pings.Test)
	})
	return r
}

// mount registers h at the method and path the named route resolves to.
func mount(r chi.Router, resolver routes.Resolver, name string, h http.HandlerFunc) {
	ep, err := resolver.Endpoint(name)
	if err != nil {
		panic(err)
	}
	r.Method(ep.Method, ep.Path, h)
}
