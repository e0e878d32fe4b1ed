package analytics

import (
	"context"

	"github.com/PabloPavan/sellerdesk/internal/apperrors"
	"github.com/PabloPavan/sellerdesk/internal/identity"
)

// Product is a seller product a snippet can be scoped to by permalink.
type Product struct {
	Permalink string `json:"permalink" yaml:"permalink"`
	Name      string `json:"name" yaml:"name"`
}

type ProductLister interface {
	Products(ctx context.Context, sellerID string) ([]Product, error)
}

// Page is what the third-party analytics endpoints answer with.
type Page struct {
	ThirdPartyAnalytics Settings  `json:"third_party_analytics"`
	Products            []Product `json:"products"`
	CanUpdate           bool      `json:"can_update"`
}

const sqlProductsBySeller = `SELECT permalink, name
	FROM products
	WHERE seller_id = $1 AND deleted_at IS NULL
	ORDER BY name ASC;`

func (r *Repository) Products(ctx context.Context, sellerID string) ([]Product, error) {
	ctx, cancel := r.base.WithTimeout(ctx)
	defer cancel()

	rows, err := r.base.Q().Query(ctx, sqlProductsBySeller, sellerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Product{}
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.Permalink, &p.Name); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Page wraps settings with the seller's products and the update policy.
func (s *Service) Page(ctx context.Context, settings *Settings) (*Page, error) {
	sellerID, ok := identity.SellerID(ctx)
	if !ok {
		return nil, apperrors.New(apperrors.KindUnauthorized, "unauthorized")
	}
	products := []Product{}
	if s.Products != nil {
		list, err := s.Products.Products(ctx, sellerID)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.KindInternal, "failed to load products", err)
		}
		products = list
	}
	return &Page{
		ThirdPartyAnalytics: settings.Clone(),
		Products:            products,
		CanUpdate:           identity.CanUpdateSettings(ctx),
	}, nil
}
