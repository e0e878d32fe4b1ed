package httpapi

import (
	"context"
	"net/http"

	"github.com/PabloPavan/sellerdesk/internal/accounts"
	"github.com/PabloPavan/sellerdesk/internal/analytics"
	"github.com/PabloPavan/sellerdesk/internal/apperrors"
)

type AnalyticsService interface {
	Get(ctx context.Context) (*analytics.Settings, error)
	Update(ctx context.Context, req analytics.Settings) (*analytics.Settings, error)
	Page(ctx context.Context, settings *analytics.Settings) (*analytics.Page, error)
}

type AdvancedService interface {
	Advanced(ctx context.Context) (*accounts.AdvancedPage, error)
	UpdateAdvanced(ctx context.Context, in accounts.Advanced) (*accounts.AdvancedPage, error)
}

type SettingsHandler struct {
	Analytics AnalyticsService
	Advanced  AdvancedService
}

// ShowThirdPartyAnalytics Settings
// @Summary Third-party analytics settings
// @Tags settings
// @Produce json
// @Security SessionAuth
// @Success 200 {object} analytics.Page
// @Failure 401 {object} ErrorResponse
// @Router /settings/third-party-analytics [get]
func (h *SettingsHandler) ShowThirdPartyAnalytics(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Analytics.Get(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	h.writeAnalyticsPage(w, r, settings)
}

// UpdateThirdPartyAnalytics Settings
// @Summary Replace third-party analytics settings
// @Description Snippets without an id are created, snippets with an id are updated and stored snippets missing from the list are deleted.
// @Tags settings
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param X-CSRF-Token header string true "csrf token"
// @Param body body ThirdPartyAnalyticsDTO true "settings"
// @Success 200 {object} analytics.Page
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /settings/third-party-analytics [put]
func (h *SettingsHandler) UpdateThirdPartyAnalytics(w http.ResponseWriter, r *http.Request) {
	var req ThirdPartyAnalyticsDTO
	if err := decodeJSON(w, r, &req); err != nil {
		writeAppError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeAppError(w, r, apperrors.New(apperrors.KindInvalidInput, err.Error()))
		return
	}

	settings, err := h.Analytics.Update(r.Context(), req.User)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	h.writeAnalyticsPage(w, r, settings)
}

func (h *SettingsHandler) writeAnalyticsPage(w http.ResponseWriter, r *http.Request, settings *analytics.Settings) {
	page, err := h.Analytics.Page(r.Context(), settings)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// ShowAdvanced Settings
// @Summary Advanced settings
// @Tags settings
// @Produce json
// @Security SessionAuth
// @Success 200 {object} accounts.AdvancedPage
// @Failure 401 {object} ErrorResponse
// @Router /settings/advanced [get]
func (h *SettingsHandler) ShowAdvanced(w http.ResponseWriter, r *http.Request) {
	page, err := h.Advanced.Advanced(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// UpdateAdvanced Settings
// @Summary Update advanced settings
// @Description The blocked customer emails are stored sanitized: lowercased, deduplicated, one per line.
// @Tags settings
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param X-CSRF-Token header string true "csrf token"
// @Param body body AdvancedDTO true "settings"
// @Success 200 {object} accounts.AdvancedPage
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /settings/advanced [put]
func (h *SettingsHandler) UpdateAdvanced(w http.ResponseWriter, r *http.Request) {
	var req AdvancedDTO
	if err := decodeJSON(w, r, &req); err != nil {
		writeAppError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeAppError(w, r, apperrors.New(apperrors.KindInvalidInput, err.Error()))
		return
	}

	page, err := h.Advanced.UpdateAdvanced(r.Context(), accounts.Advanced{
		BlockedCustomerEmails: req.User.BlockedCustomerEmails,
		CustomDomain:          req.User.CustomDomain,
		NotificationEndpoint:  req.User.NotificationEndpoint,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}
