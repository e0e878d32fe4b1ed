package analytics

// Patch is a partial Settings. Nil fields are left untouched; a non-nil
// Snippets replaces the whole list.
type Patch struct {
	DisableThirdPartyAnalytics           *bool
	GoogleAnalyticsID                    *string
	FacebookPixelID                      *string
	SkipFreeSaleAnalytics                *bool
	EnableVerifyDomainThirdPartyServices *bool
	FacebookMetaTag                      *string
	Snippets                             []Snippet
}

// Apply merges p into s at the top level.
func (p Patch) Apply(s Settings) Settings {
	if p.DisableThirdPartyAnalytics != nil {
		s.DisableThirdPartyAnalytics = *p.DisableThirdPartyAnalytics
	}
	if p.GoogleAnalyticsID != nil {
		s.GoogleAnalyticsID = *p.GoogleAnalyticsID
	}
	if p.FacebookPixelID != nil {
		s.FacebookPixelID = *p.FacebookPixelID
	}
	if p.SkipFreeSaleAnalytics != nil {
		s.SkipFreeSaleAnalytics = *p.SkipFreeSaleAnalytics
	}
	if p.EnableVerifyDomainThirdPartyServices != nil {
		s.EnableVerifyDomainThirdPartyServices = *p.EnableVerifyDomainThirdPartyServices
	}
	if p.FacebookMetaTag != nil {
		s.FacebookMetaTag = *p.FacebookMetaTag
	}
	if p.Snippets != nil {
		s.Snippets = cloneSnippets(p.Snippets)
	}
	return s
}

// SnippetPatch is a partial Snippet. Product set to "" clears the product
// (the snippet then applies to all products).
type SnippetPatch struct {
	Name     *string
	Location *Location
	Code     *string
	Product  *string
}

func (p SnippetPatch) Apply(s Snippet) Snippet {
	s = s.Clone()
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.Location != nil && p.Location.Valid() {
		s.Location = *p.Location
	}
	if p.Code != nil {
		s.Code = *p.Code
	}
	if p.Product != nil {
		if *p.Product == "" {
			s.Product = nil
		} else {
			s.Product = StringPtr(*p.Product)
		}
	}
	return s
}
