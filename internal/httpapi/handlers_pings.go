package httpapi

import (
	"context"
	"net/http"

	"github.com/PabloPavan/sellerdesk/internal/apperrors"
	"github.com/PabloPavan/sellerdesk/internal/pings"
)

type PingService interface {
	Test(ctx context.Context, rawURL string) (pings.Result, error)
}

type PingsHandler struct {
	Pings PingService
}

// Test Pings
// @Summary Send a test sale ping
// @Description Posts a sample sale with test "true" to the URL. Delivery failures answer 200 with success false.
// @Tags pings
// @Accept json
// @Produce json
// @Security SessionAuth
// @Param X-CSRF-Token header string true "csrf token"
// @Param body body PingDTO true "endpoint"
// @Success 200 {object} pings.Result
// @Failure 401 {object} ErrorResponse
// @Router /test-pings [post]
func (h *PingsHandler) Test(w http.ResponseWriter, r *http.Request) {
	var req PingDTO
	if err := decodeJSON(w, r, &req); err != nil {
		writeAppError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		writeAppError(w, r, apperrors.New(apperrors.KindInvalidInput, err.Error()))
		return
	}
	res, err := h.Pings.Test(r.Context(), req.URL)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
