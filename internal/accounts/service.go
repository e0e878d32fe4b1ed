package accounts

import (
	"context"
	"strings"

	"github.com/PabloPavan/sellerdesk/internal/apperrors"
	"github.com/PabloPavan/sellerdesk/internal/blocklist"
	"github.com/PabloPavan/sellerdesk/internal/identity"
	"github.com/PabloPavan/sellerdesk/internal/telemetry"
)

type Store interface {
	GetByID(ctx context.Context, id string) (*Account, error)
	UpdateAdvanced(ctx context.Context, id string, adv Advanced) error
}

// Service serves the advanced settings page of the signed-in seller.
type Service struct {
	Store    Store
	Verifier DomainVerifier
}

func (s *Service) Advanced(ctx context.Context) (*AdvancedPage, error) {
	acc, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	return s.page(ctx, acc.Advanced), nil
}

// UpdateAdvanced stores in for the seller. The block list is stored in its
// sanitized form whatever the client sent.
func (s *Service) UpdateAdvanced(ctx context.Context, in Advanced) (*AdvancedPage, error) {
	acc, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	if !identity.CanUpdateSettings(ctx) {
		return nil, apperrors.New(apperrors.KindForbidden, "forbidden")
	}

	adv := Advanced{
		BlockedCustomerEmails: in.BlockedCustomerEmails,
		CustomDomain:          strings.ToLower(strings.TrimSpace(in.CustomDomain)),
		NotificationEndpoint:  strings.TrimSpace(in.NotificationEndpoint),
	}
	if sanitized, ok := blocklist.Sanitize(adv.BlockedCustomerEmails); ok {
		adv.BlockedCustomerEmails = sanitized
	} else {
		adv.BlockedCustomerEmails = ""
	}

	if err := s.Store.UpdateAdvanced(ctx, acc.ID, adv); err != nil {
		if IsNotFound(err) {
			return nil, apperrors.New(apperrors.KindNotFound, "account not found")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to save settings", err)
	}

	telemetry.LogInfo(ctx, "advanced settings updated",
		telemetry.LogString("event", "settings.advanced.updated"),
		telemetry.LogString("seller.id", acc.ID),
		telemetry.LogInt("blocked_emails.count", len(blocklist.Lines(adv.BlockedCustomerEmails))),
		telemetry.LogBool("custom_domain.set", adv.CustomDomain != ""),
	)
	return s.page(ctx, adv), nil
}

func (s *Service) current(ctx context.Context) (*Account, error) {
	if s.Store == nil {
		return nil, apperrors.New(apperrors.KindInternal, "accounts store not configured")
	}
	sellerID, ok := identity.SellerID(ctx)
	if !ok {
		return nil, apperrors.New(apperrors.KindUnauthorized, "unauthorized")
	}
	acc, err := s.Store.GetByID(ctx, sellerID)
	if err != nil {
		if IsNotFound(err) {
			return nil, apperrors.New(apperrors.KindNotFound, "account not found")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to load account", err)
	}
	return acc, nil
}

func (s *Service) page(ctx context.Context, adv Advanced) *AdvancedPage {
	p := &AdvancedPage{Settings: adv}
	if adv.CustomDomain != "" && s.Verifier != nil {
		status := s.Verifier.Verify(ctx, adv.CustomDomain)
		p.DomainVerificationStatus = &status
	}
	return p
}
