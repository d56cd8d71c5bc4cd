package catalog

// Footer slice caps.
const (
	FooterFeaturedDeals = 5
	FooterStoreSample   = 10
	FooterCategories    = 10
	FooterGuides        = 6
)

// FooterAggregate is the route-independent footer side-fetch.
type FooterAggregate struct {
	FeaturedDeals []Deal     `json:"featuredDeals"`
	TopStores     []Store    `json:"topStores"`
	Categories    []Category `json:"categories"`
	Guides        []Article  `json:"guides"`
}

// PageData is everything a page render depends on. Slice fields are never nil; Product and
// Store are either complete entities or nil.
type PageData struct {
	Product      *Deal           `json:"product,omitempty"`
	Store        *Store          `json:"store,omitempty"`
	Deals        []Deal          `json:"deals"`
	Stores       []Store         `json:"stores"`
	Products     []Product       `json:"products"`
	Articles     []Article       `json:"articles"`
	RelatedDeals []Deal          `json:"relatedDeals"`
	Footer       FooterAggregate `json:"footer"`
	Total        int             `json:"total"`
	Lang         Lang            `json:"lang"`
}

// NewPageData returns an empty, well-formed PageData.
func NewPageData(lang Lang) PageData {
	d := PageData{Lang: lang}
	d.Normalize()
	return d
}

// Normalize replaces nil slices with empty ones.
func (d *PageData) Normalize() {
	d.Deals = nonNil(d.Deals)
	d.Stores = nonNil(d.Stores)
	d.Products = nonNil(d.Products)
	d.Articles = nonNil(d.Articles)
	d.RelatedDeals = nonNil(d.RelatedDeals)
	d.Footer.Normalize()
}

// Normalize replaces nil slices with empty ones.
func (f *FooterAggregate) Normalize() {
	f.FeaturedDeals = nonNil(f.FeaturedDeals)
	f.TopStores = nonNil(f.TopStores)
	f.Categories = nonNil(f.Categories)
	f.Guides = nonNil(f.Guides)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
