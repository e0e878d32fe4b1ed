package analytics

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/PabloPavan/sellerdesk/internal"
	"github.com/PabloPavan/sellerdesk/internal/apperrors"
	"github.com/PabloPavan/sellerdesk/internal/identity"
	"github.com/PabloPavan/sellerdesk/internal/telemetry"
)

const (
	maxSnippets    = 50
	maxSnippetCode = 20000
)

type Store interface {
	Get(ctx context.Context, sellerID string) (*Settings, error)
	Save(ctx context.Context, sellerID string, s Settings, created map[string]bool) error
}

type Service struct {
	Store       Store
	Cache       Cache
	CacheTTL    time.Duration
	Products    ProductLister
	IDGenerator func() string
}

func (s *Service) Get(ctx context.Context) (*Settings, error) {
	if s.Store == nil {
		return nil, apperrors.New(apperrors.KindInternal, "analytics store not configured")
	}
	sellerID, ok := identity.SellerID(ctx)
	if !ok {
		return nil, apperrors.New(apperrors.KindUnauthorized, "unauthorized")
	}

	if s.Cache != nil {
		if cached, ok, err := s.Cache.Get(ctx, sellerID); err == nil && ok {
			return cached, nil
		}
	}

	settings, err := s.Store.Get(ctx, sellerID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to load settings", err)
	}

	if s.Cache != nil && s.CacheTTL > 0 {
		_ = s.Cache.Set(ctx, sellerID, settings, s.CacheTTL)
	}
	return settings, nil
}

// Update replaces the seller's settings. Snippets without an id are created,
// snippets with an id must already belong to the seller, and stored snippets
// missing from req are deleted.
func (s *Service) Update(ctx context.Context, req Settings) (*Settings, error) {
	if s.Store == nil {
		return nil, apperrors.New(apperrors.KindInternal, "analytics store not configured")
	}
	sellerID, ok := identity.SellerID(ctx)
	if !ok {
		return nil, apperrors.New(apperrors.KindUnauthorized, "unauthorized")
	}
	if !identity.CanUpdateSettings(ctx) {
		return nil, apperrors.New(apperrors.KindForbidden, "forbidden")
	}
	if len(req.Snippets) > maxSnippets {
		return nil, apperrors.New(apperrors.KindInvalidInput, "too many snippets")
	}

	idGen := s.IDGenerator
	if idGen == nil {
		idGen = func() string {
			return "snp_" + internal.RandomHex(12)
		}
	}

	settings := req.Clone()
	settings.GoogleAnalyticsID = strings.TrimSpace(settings.GoogleAnalyticsID)
	settings.FacebookPixelID = strings.TrimSpace(settings.FacebookPixelID)
	settings.FacebookMetaTag = strings.TrimSpace(settings.FacebookMetaTag)

	created := make(map[string]bool)
	seen := make(map[string]bool, len(settings.Snippets))
	for i := range settings.Snippets {
		sn := &settings.Snippets[i]
		if sn.Location == "" {
			sn.Location = LocationReceipt
		}
		if !sn.Location.Valid() {
			return nil, apperrors.New(apperrors.KindInvalidInput, "invalid snippet location")
		}
		if len(sn.Code) > maxSnippetCode {
			return nil, apperrors.New(apperrors.KindInvalidInput, "snippet code is too long")
		}
		if sn.Product != nil && strings.TrimSpace(*sn.Product) == "" {
			sn.Product = nil
		}
		if sn.ID == nil || strings.TrimSpace(*sn.ID) == "" || IsSynthetic(*sn.ID) {
			id := idGen()
			sn.ID = &id
			created[id] = true
		}
		if seen[*sn.ID] {
			return nil, apperrors.New(apperrors.KindInvalidInput, "duplicate snippet id")
		}
		seen[*sn.ID] = true
	}

	if err := s.Store.Save(ctx, sellerID, settings, created); err != nil {
		if errors.Is(err, ErrUnknownSnippet) {
			return nil, apperrors.New(apperrors.KindInvalidInput, "snippet not found")
		}
		if IsUniqueViolationID(err) {
			return nil, apperrors.New(apperrors.KindConflict, "snippet already exists")
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, "failed to save settings", err)
	}

	if s.Cache != nil {
		_ = s.Cache.Delete(ctx, sellerID)
	}

	telemetry.LogInfo(ctx, "third-party analytics updated",
		telemetry.LogString("event", "settings.third_party_analytics.updated"),
		telemetry.LogString("seller.id", sellerID),
		telemetry.LogInt("snippets.count", len(settings.Snippets)),
		telemetry.LogInt("snippets.created", len(created)),
	)
	return &settings, nil
}
