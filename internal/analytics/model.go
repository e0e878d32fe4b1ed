package analytics

import "time"

type Location string

const (
	LocationReceipt Location = "receipt"
	LocationProduct Location = "product"
	LocationAll     Location = "all"
)

var Locations = []Location{LocationReceipt, LocationProduct, LocationAll}

func (l Location) Valid() bool {
	switch l {
	case LocationReceipt, LocationProduct, LocationAll:
		return true
	default:
		return false
	}
}

func (l Location) Title() string {
	switch l {
	case LocationProduct:
		return "Product page"
	case LocationAll:
		return "All pages"
	default:
		return "Receipt"
	}
}

// Snippet is a piece of seller supplied code injected into checkout pages.
// A nil ID asks the server to create the snippet; a nil Product applies it to
// all products.
type Snippet struct {
	ID       *string  `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Location Location `json:"location" yaml:"location"`
	Code     string   `json:"code" yaml:"code"`
	Product  *string  `json:"product" yaml:"product"`
}

// Key is the snippet identity used by list edits ("" when unsaved and stripped).
func (s Snippet) Key() string {
	if s.ID == nil {
		return ""
	}
	return *s.ID
}

func (s Snippet) Clone() Snippet {
	out := s
	out.ID = clonePtr(s.ID)
	out.Product = clonePtr(s.Product)
	return out
}

// Settings is the third-party analytics section of a seller's settings.
type Settings struct {
	DisableThirdPartyAnalytics           bool      `json:"disable_third_party_analytics" yaml:"disable_third_party_analytics"`
	GoogleAnalyticsID                    string    `json:"google_analytics_id" yaml:"google_analytics_id"`
	FacebookPixelID                      string    `json:"facebook_pixel_id" yaml:"facebook_pixel_id"`
	SkipFreeSaleAnalytics                bool      `json:"skip_free_sale_analytics" yaml:"skip_free_sale_analytics"`
	EnableVerifyDomainThirdPartyServices bool      `json:"enable_verify_domain_third_party_services" yaml:"enable_verify_domain_third_party_services"`
	FacebookMetaTag                      string    `json:"facebook_meta_tag" yaml:"facebook_meta_tag"`
	Snippets                             []Snippet `json:"snippets" yaml:"snippets"`
}

func (s Settings) Clone() Settings {
	out := s
	out.Snippets = cloneSnippets(s.Snippets)
	return out
}

// UpdateRequest is the body of a settings save.
type UpdateRequest struct {
	User Settings `json:"user" yaml:"user"`
}

// StoredSnippet is a snippet row as persisted for a seller.
type StoredSnippet struct {
	ID        string
	SellerID  string
	Name      string
	Location  Location
	Code      string
	Product   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s StoredSnippet) Snippet() Snippet {
	id := s.ID
	return Snippet{
		ID:       &id,
		Name:     s.Name,
		Location: s.Location,
		Code:     s.Code,
		Product:  clonePtr(s.Product),
	}
}

func cloneSnippets(in []Snippet) []Snippet {
	if in == nil {
		return []Snippet{}
	}
	out := make([]Snippet, len(in))
	for i, sn := range in {
		out[i] = sn.Clone()
	}
	return out
}

func clonePtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// StringPtr returns a pointer to a copy of v.
func StringPtr(v string) *string {
	return &v
}
