package payments

import (
	"context"
	"errors"
	"strings"

	"github.com/PabloPavan/sellerdesk/internal/accounts"
	"github.com/PabloPavan/sellerdesk/internal/apperrors"
	"github.com/PabloPavan/sellerdesk/internal/identity"
	"github.com/PabloPavan/sellerdesk/internal/telemetry"
)

const (
	CountryLockedMessage  = "You cannot change your country once it is set."
	InvalidCountryMessage = "Please select a supported country."
)

type Store interface {
	GetByID(ctx context.Context, id string) (*accounts.Account, error)
	SetCountry(ctx context.Context, id, country string) error
}

// CountryPage is served to the country selection modal.
type CountryPage struct {
	Country   *string           `json:"country"`
	Countries map[string]string `json:"countries"`
}

type Service struct {
	Store     Store
	Countries map[string]string
}

func (s *Service) countries() map[string]string {
	if s.Countries == nil {
		return Countries
	}
	return s.Countries
}

func (s *Service) Country(ctx context.Context) (*CountryPage, error) {
	if s.Store == nil {
		return nil, apperrors.New(apperrors.KindInternal, "payments store not configured")
	}
	sellerID, ok := identity.SellerID(ctx)
	if !ok {
		return nil, apperrors.New(apperrors.KindUnauthorized, "unauthorized")
	}
	acc, err := s.Store.GetByID(ctx, sellerID)
	if err != nil {
		if accounts.IsNotFound(err) {
			return nil, apperrors.New(apperrors.KindNotFound, "account not found")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to load account", err)
	}
	return &CountryPage{Country: acc.Country, Countries: s.countries()}, nil
}

// SetCountry records the seller's country once. A second attempt is a
// conflict even when it names the same country.
func (s *Service) SetCountry(ctx context.Context, code string) error {
	if s.Store == nil {
		return apperrors.New(apperrors.KindInternal, "payments store not configured")
	}
	sellerID, ok := identity.SellerID(ctx)
	if !ok {
		return apperrors.New(apperrors.KindUnauthorized, "unauthorized")
	}
	if !identity.CanUpdateSettings(ctx) {
		return apperrors.New(apperrors.KindForbidden, "forbidden")
	}

	code = strings.ToUpper(strings.TrimSpace(code))
	if !Supported(s.countries(), code) {
		return apperrors.New(apperrors.KindInvalidInput, InvalidCountryMessage)
	}

	if err := s.Store.SetCountry(ctx, sellerID, code); err != nil {
		switch {
		case errors.Is(err, accounts.ErrCountrySet):
			return apperrors.New(apperrors.KindConflict, CountryLockedMessage)
		case accounts.IsNotFound(err):
			return apperrors.New(apperrors.KindNotFound, "account not found")
		default:
			return apperrors.Wrap(apperrors.KindInternal, "failed to save country", err)
		}
	}

	telemetry.LogInfo(ctx, "payout country set",
		telemetry.LogString("event", "settings.payments.country_set"),
		telemetry.LogString("seller.id", sellerID),
		telemetry.LogString("country", code),
	)
	return nil
}
