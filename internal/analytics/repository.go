package analytics

import (
	"context"

	"github.com/PabloPavan/sellerdesk/internal/db"
)

type Repository struct {
	base *db.Base
}

func NewRepository(base *db.Base) *Repository {
	return &Repository{base: base}
}

const (
	sqlSettingsSelect = `SELECT disable_third_party_analytics, google_analytics_id, facebook_pixel_id,
			skip_free_sale_analytics, enable_verify_domain_third_party_services, facebook_meta_tag
		FROM third_party_analytics
		WHERE seller_id = $1;`

	sqlSettingsUpsert = `INSERT INTO third_party_analytics (seller_id, disable_third_party_analytics, google_analytics_id,
			facebook_pixel_id, skip_free_sale_analytics, enable_verify_domain_third_party_services, facebook_meta_tag)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (seller_id) DO UPDATE SET
			disable_third_party_analytics = EXCLUDED.disable_third_party_analytics,
			google_analytics_id = EXCLUDED.google_analytics_id,
			facebook_pixel_id = EXCLUDED.facebook_pixel_id,
			skip_free_sale_analytics = EXCLUDED.skip_free_sale_analytics,
			enable_verify_domain_third_party_services = EXCLUDED.enable_verify_domain_third_party_services,
			facebook_meta_tag = EXCLUDED.facebook_meta_tag,
			updated_at = now();`

	sqlSnippetsBySeller = `SELECT id, seller_id, name, location, code, product, created_at, updated_at
		FROM analytics_snippets
		WHERE seller_id = $1
		ORDER BY position ASC, created_at ASC;`

	sqlSnippetIDsBySeller = `SELECT id FROM analytics_snippets WHERE seller_id = $1;`

	sqlSnippetInsert = `INSERT INTO analytics_snippets (id, seller_id, name, location, code, product, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7);`

	sqlSnippetUpdate = `UPDATE analytics_snippets
		SET name = $1, location = $2, code = $3, product = $4, position = $5, updated_at = now()
		WHERE id = $6 AND seller_id = $7;`

	sqlSnippetDelete = `DELETE FROM analytics_snippets
		WHERE id = $1 AND seller_id = $2;`
)

// Get loads the seller's settings. A seller that never saved gets defaults.
func (r *Repository) Get(ctx context.Context, sellerID string) (*Settings, error) {
	ctx, cancel := r.base.WithTimeout(ctx)
	defer cancel()

	s := Settings{Snippets: []Snippet{}}
	err := r.base.Q().QueryRow(ctx, sqlSettingsSelect, sellerID).Scan(
		&s.DisableThirdPartyAnalytics,
		&s.GoogleAnalyticsID,
		&s.FacebookPixelID,
		&s.SkipFreeSaleAnalytics,
		&s.EnableVerifyDomainThirdPartyServices,
		&s.FacebookMetaTag,
	)
	if err != nil && !IsNotFound(err) {
		return nil, err
	}

	rows, err := r.base.Q().Query(ctx, sqlSnippetsBySeller, sellerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var st StoredSnippet
		var location string
		if err := rows.Scan(
			&st.ID,
			&st.SellerID,
			&st.Name,
			&location,
			&st.Code,
			&st.Product,
			&st.CreatedAt,
			&st.UpdatedAt,
		); err != nil {
			return nil, err
		}
		st.Location = Location(location)
		s.Snippets = append(s.Snippets, st.Snippet())
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Save stores s as the seller's full settings in one transaction: snippets
// absent from s are deleted, snippets with an id are updated and snippets
// whose id is not yet persisted are inserted when listed in created.
func (r *Repository) Save(ctx context.Context, sellerID string, s Settings, created map[string]bool) error {
	return r.base.WithTx(ctx, func(ctx context.Context, q db.Queryer) error {
		if _, err := q.Exec(ctx, sqlSettingsUpsert,
			sellerID,
			s.DisableThirdPartyAnalytics,
			s.GoogleAnalyticsID,
			s.FacebookPixelID,
			s.SkipFreeSaleAnalytics,
			s.EnableVerifyDomainThirdPartyServices,
			s.FacebookMetaTag,
		); err != nil {
			return err
		}

		existing, err := snippetIDs(ctx, q, sellerID)
		if err != nil {
			return err
		}

		keep := make(map[string]bool, len(s.Snippets))
		for pos, sn := range s.Snippets {
			id := sn.Key()
			keep[id] = true
			switch {
			case created[id]:
				if _, err := q.Exec(ctx, sqlSnippetInsert,
					id, sellerID, sn.Name, string(sn.Location), sn.Code, sn.Product, pos,
				); err != nil {
					return err
				}
			case existing[id]:
				if _, err := q.Exec(ctx, sqlSnippetUpdate,
					sn.Name, string(sn.Location), sn.Code, sn.Product, pos, id, sellerID,
				); err != nil {
					return err
				}
			default:
				return ErrUnknownSnippet
			}
		}

		for id := range existing {
			if keep[id] {
				continue
			}
			if _, err := q.Exec(ctx, sqlSnippetDelete, id, sellerID); err != nil {
				return err
			}
		}
		return nil
	})
}

func snippetIDs(ctx context.Context, q db.Queryer, sellerID string) (map[string]bool, error) {
	rows, err := q.Query(ctx, sqlSnippetIDsBySeller, sellerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = true
	}
	return ids, rows.Err()
}
