package httpapi

import (
	"context"
	"net/http"

	"github.com/PabloPavan/sellerdesk/internal/apperrors"
	"github.com/PabloPavan/sellerdesk/internal/payments"
)

type PaymentsService interface {
	Country(ctx context.Context) (*payments.CountryPage, error)
	SetCountry(ctx context.Context, code string) error
}

type PaymentsHandler struct {
	Payments PaymentsService
}

// ShowCountry Payments
// @Summary Payout country and the selectable countries
// @Tags payments
// @Produce json
// @Security SessionAuth
// @Success 200 {object} payments.CountryPage
// @Failure 401 {object} ErrorResponse
// @Router /settings/payments/country [get]
func (h *PaymentsHandler) ShowCountry(w http.ResponseWriter, r *http.Request) {
	page, err := h.Payments.Country(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// SetCountry Payments
// @Summary Set the payout country once
// @Tags payments
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param X-CSRF-Token header string true "csrf token"
// @Param body body CountryDTO true "country"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /settings/payments/country [post]
func (h *PaymentsHandler) SetCountry(w http.ResponseWriter, r *http.Request) {
	var req CountryDTO
	if err := decodeJSON(w, r, &req); err != nil {
		writeAppError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeAppError(w, r, apperrors.New(apperrors.KindInvalidInput, err.Error()))
		return
	}
	if err := h.Payments.SetCountry(r.Context(), req.Country); err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}
