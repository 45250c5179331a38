package models

// Candidate is a hypothesized image location on a vendor CDN. Metadata is an
// opaque bag carried through validation unchanged (suffix, season, position...).
type Candidate struct {
	URL      string
	Metadata map[string]string
}

// ValidatedImage is one confirmed image in a scrape response. Index is 1-based
// and assigned after ordering, dedup and truncation.
type ValidatedImage struct {
	URL      string            `json:"url"`
	Index    int               `json:"index"`
	Filename string            `json:"filename,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ScrapeResult is the wire-level response for one brand+SKU scrape.
type ScrapeResult struct {
	SKU          string           `json:"sku"`
	FormattedSKU string           `json:"formatted_sku"`
	BrandCode    string           `json:"brand_code,omitempty"`
	VendorCode   string           `json:"vendor_code,omitempty"`
	LandingPage  string           `json:"landing_page,omitempty"`
	Images       []ValidatedImage `json:"images"`
	Count        int              `json:"count"`
	Error        string           `json:"error,omitempty"`
}

func NewScrapeResult(sku, formatted string) *ScrapeResult {
	return &ScrapeResult{
		SKU:          sku,
		FormattedSKU: formatted,
		Images:       make([]ValidatedImage, 0),
	}
}
