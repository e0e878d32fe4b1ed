//go:generate swag init -g docs.go -o ../../docs --parseDependency --parseInternal --dir .,../../internal/httpapi

package main

// @title sellerdesk API
// @version 1.0
// @description Seller account and settings API: login with two-factor, password reset, payout country, third-party analytics, advanced settings and test pings.
// @BasePath /
// @securityDefinitions.apikey SessionAuth
// @in cookie
// @name sellerdesk_session
// @description HttpOnly session cookie. Unsafe methods also need the X-CSRF-Token header returned at login.
