package catalog

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// Placeholders used when a required field cannot be resolved from a record.
const (
	PlaceholderID       = "unknown"
	PlaceholderDeal     = "Deal"
	PlaceholderStore    = "Store"
	PlaceholderArticle  = "Guide"
	PlaceholderProduct  = "Product"
	PlaceholderCategory = "Category"
	PlaceholderAuthor   = "Editorial Team"
)

// DefaultCurrency applies when a priced record carries no currency.
const DefaultCurrency = "SAR"

// Field preference lists. Localized concepts list their base names; lookup tries every
// base with the language suffix first, then every bare base (see chain).
var (
	idFields = []string{"id", "_id", "uuid"}

	dealTitle       = []string{"title", "name", "deal_title"}
	dealDescription = []string{"description", "details", "summary"}
	dealCode        = []string{"code", "coupon_code", "promo_code"}
	dealStoreID     = []string{"store_id", "storeId", "store.id"}
	dealStoreName   = []string{"store_name", "store.name", "store.title"}
	dealURL         = []string{"url", "link", "affiliate_url"}
	dealImage       = []string{"image_url", "image", "thumbnail"}
	dealVerified    = []string{"is_verified", "verified"}
	dealFeatured    = []string{"is_featured", "featured", "is_promoted"}
	dealExpires     = []string{"expires_at", "expiry_date", "end_date", "valid_until"}
	createdFields   = []string{"created_at", "createdAt", "created"}

	discountPercent = []string{"discount_percentage", "discount_percent", "percentage"}
	discountAmount  = []string{"discount_amount", "amount_off"}

	originalPrice = []string{"original_price", "price_before", "old_price"}
	currentPrice  = []string{"price", "sale_price", "current_price"}
	currency      = []string{"currency", "currency_code"}

	storeName        = []string{"name", "store_name", "title"}
	storeDescription = []string{"description", "about"}
	storeLogo        = []string{"logo_url", "logo", "image_url"}
	storeWebsite     = []string{"website_url", "website", "url"}
	storeCountry     = []string{"country", "country_code"}

	articleTitle     = []string{"title", "headline"}
	articleExcerpt   = []string{"excerpt", "summary", "description"}
	articleAuthor    = []string{"author_name", "author", "author.name"}
	articleImage     = []string{"cover_image", "image_url", "image"}
	articlePublished = []string{"published_at", "publish_date", "created_at"}
	articleReading   = []string{"reading_time", "read_time", "reading_minutes"}
	articleContent   = []string{"content", "body"}

	productName  = []string{"name", "title", "product_name"}
	productImage = []string{"image_url", "image", "thumbnail"}
	productStore = []string{"store_id", "storeId"}
	productURL   = []string{"url", "link"}

	categoryName = []string{"name", "title"}
	categoryIcon = []string{"icon", "icon_url", "emoji"}

	slugFields = []string{"slug"}
)

// wordsPerMinute estimates reading time when a record carries content but no estimate.
const wordsPerMinute = 200

// Normalizer maps raw records into canonical entities. The zero value is ready to use.
type Normalizer struct{}

// Deal normalizes a raw deal record.
func (Normalizer) Deal(raw []byte) Deal {
	r := gjson.ParseBytes(raw)
	d := Deal{
		ID:            stringOf(r, PlaceholderID, idFields...),
		Title:         resolveLocalized(r, dealTitle),
		Description:   localized(r, "", dealDescription),
		Discount:      discountOf(r),
		Code:          stringOf(r, "", dealCode...),
		StoreID:       stringOf(r, "", dealStoreID...),
		StoreName:     localized(r, "", dealStoreName),
		OriginalPrice: numberOf(r, originalPrice...),
		Price:         numberOf(r, currentPrice...),
		Currency:      strings.ToUpper(stringOf(r, DefaultCurrency, currency...)),
		URL:           stringOf(r, "", dealURL...),
		ImageURL:      stringOf(r, "", dealImage...),
		Verified:      boolOf(r, dealVerified...),
		Featured:      boolOf(r, dealFeatured...),
		ExpiresAt:     timeOf(r, dealExpires...),
		CreatedAt:     timeOf(r, createdFields...),
	}
	d.Slug = localizedSlug(r, d.Title, d.ID)
	d.Title = d.Title.orPlaceholder(PlaceholderDeal)
	return d
}

// Store normalizes a raw store record.
func (Normalizer) Store(raw []byte) Store {
	r := gjson.ParseBytes(raw)
	s := Store{
		ID:          stringOf(r, PlaceholderID, idFields...),
		Name:        resolveLocalized(r, storeName),
		Description: localized(r, "", storeDescription),
		LogoURL:     stringOf(r, "", storeLogo...),
		WebsiteURL:  stringOf(r, "", storeWebsite...),
		Country:     strings.ToUpper(stringOf(r, "", storeCountry...)),
	}
	s.Slug = localizedSlug(r, s.Name, s.ID)
	s.Name = s.Name.orPlaceholder(PlaceholderStore)
	return s
}

// Article normalizes a raw article record.
func (Normalizer) Article(raw []byte) Article {
	r := gjson.ParseBytes(raw)
	a := Article{
		ID:          stringOf(r, PlaceholderID, idFields...),
		Title:       localized(r, PlaceholderArticle, articleTitle),
		Excerpt:     localized(r, "", articleExcerpt),
		Author:      localized(r, PlaceholderAuthor, articleAuthor),
		ImageURL:    stringOf(r, "", articleImage...),
		PublishedAt: timeOf(r, articlePublished...),
		Featured:    boolOf(r, dealFeatured...),
	}
	a.Slug = plainSlug(r, a.Title.In(LangEnglish), a.ID)
	a.ReadingMinutes = readingMinutes(r)
	return a
}

// Product normalizes a raw product record.
func (Normalizer) Product(raw []byte) Product {
	r := gjson.ParseBytes(raw)
	p := Product{
		ID:            stringOf(r, PlaceholderID, idFields...),
		Name:          localized(r, PlaceholderProduct, productName),
		OriginalPrice: numberOf(r, originalPrice...),
		Price:         numberOf(r, currentPrice...),
		Currency:      strings.ToUpper(stringOf(r, DefaultCurrency, currency...)),
		ImageURL:      stringOf(r, "", productImage...),
		StoreID:       stringOf(r, "", productStore...),
		URL:           stringOf(r, "", productURL...),
	}
	p.Slug = plainSlug(r, p.Name.In(LangEnglish), p.ID)
	return p
}

// Category normalizes a raw category record.
func (Normalizer) Category(raw []byte) Category {
	r := gjson.ParseBytes(raw)
	c := Category{
		ID:   stringOf(r, PlaceholderID, idFields...),
		Name: localized(r, PlaceholderCategory, categoryName),
		Icon: stringOf(r, "", categoryIcon...),
	}
	c.Slug = plainSlug(r, c.Name.In(LangEnglish), c.ID)
	return c
}

// chain expands base field names into the ordered lookup for lang: every base with the
// language suffix, then every bare base.
func chain(lang Lang, bases []string) []string {
	out := make([]string, 0, len(bases)*2)
	for _, b := range bases {
		out = append(out, b+"_"+string(lang))
	}
	return append(out, bases...)
}

// localized resolves both variants of a field. A variant with no value of its own takes the
// other variant; the placeholder applies only when neither resolves.
func localized(r gjson.Result, placeholder string, bases []string) Localized {
	return resolveLocalized(r, bases).orPlaceholder(placeholder)
}

func resolveLocalized(r gjson.Result, bases []string) Localized {
	l := Localized{
		AR: stringOf(r, "", chain(LangArabic, bases)...),
		EN: stringOf(r, "", chain(LangEnglish, bases)...),
	}
	if l.AR == "" {
		l.AR = l.EN
	}
	if l.EN == "" {
		l.EN = l.AR
	}
	return l
}

func (l Localized) orPlaceholder(placeholder string) Localized {
	if l.AR == "" && l.EN == "" {
		return Localized{AR: placeholder, EN: placeholder}
	}
	return l
}

// lookup returns the first path holding a usable scalar (non-null, non-blank).
func lookup(r gjson.Result, paths ...string) (gjson.Result, bool) {
	if !r.IsObject() {
		return gjson.Result{}, false
	}
	for _, p := range paths {
		v := r.Get(p)
		switch {
		case !v.Exists(), v.Type == gjson.Null, v.IsObject(), v.IsArray():
			continue
		case v.Type == gjson.String && strings.TrimSpace(v.Str) == "":
			continue
		}
		return v, true
	}
	return gjson.Result{}, false
}

func stringOf(r gjson.Result, fallback string, paths ...string) string {
	v, ok := lookup(r, paths...)
	if !ok {
		return fallback
	}
	return strings.TrimSpace(v.String())
}

func numberOf(r gjson.Result, paths ...string) *float64 {
	for _, p := range paths {
		v, ok := lookup(r, p)
		if !ok {
			continue
		}
		switch v.Type {
		case gjson.Number:
			n := v.Num
			return &n
		case gjson.String:
			s := strings.TrimSuffix(strings.TrimSpace(v.Str), "%")
			if n, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64); err == nil {
				return &n
			}
		}
	}
	return nil
}

func boolOf(r gjson.Result, paths ...string) bool {
	v, ok := lookup(r, paths...)
	if !ok {
		return false
	}
	switch v.Type {
	case gjson.True:
		return true
	case gjson.Number:
		return v.Num != 0
	case gjson.String:
		b, err := strconv.ParseBool(strings.TrimSpace(v.Str))
		return err == nil && b
	default:
		return false
	}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func timeOf(r gjson.Result, paths ...string) *time.Time {
	for _, p := range paths {
		v, ok := lookup(r, p)
		if !ok {
			continue
		}
		if v.Type == gjson.Number {
			t := time.Unix(v.Int(), 0).UTC()
			return &t
		}
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, strings.TrimSpace(v.Str)); err == nil {
				t = t.UTC()
				return &t
			}
		}
	}
	return nil
}

func discountOf(r gjson.Result) *Discount {
	if n := numberOf(r, discountPercent...); n != nil && *n > 0 {
		return &Discount{Kind: DiscountPercent, Value: *n}
	}
	if n := numberOf(r, discountAmount...); n != nil && *n > 0 {
		return &Discount{Kind: DiscountAmount, Value: *n}
	}
	return nil
}

func readingMinutes(r gjson.Result) int {
	if n := numberOf(r, articleReading...); n != nil && *n > 0 {
		return int(*n + 0.5)
	}
	content := stringOf(r, "", chain(LangEnglish, articleContent)...)
	if content == "" {
		content = stringOf(r, "", chain(LangArabic, articleContent)...)
	}
	words := len(strings.Fields(content))
	if words == 0 {
		return 1
	}
	return (words + wordsPerMinute - 1) / wordsPerMinute
}

// explicitSlug returns the first slug path whose value is not a UUID.
func explicitSlug(r gjson.Result, paths []string) (string, bool) {
	for _, p := range paths {
		s := stringOf(r, "", p)
		if s == "" || IsUUID(s) {
			continue
		}
		return s, true
	}
	return "", false
}

func localizedSlug(r gjson.Result, name Localized, id string) Localized {
	resolve := func(lang Lang, value string) string {
		if s, ok := explicitSlug(r, chain(lang, slugFields)); ok {
			return s
		}
		if s := Slugify(value); s != "" {
			return s
		}
		return id
	}
	return Localized{AR: resolve(LangArabic, name.AR), EN: resolve(LangEnglish, name.EN)}
}

func plainSlug(r gjson.Result, name, id string) string {
	if s, ok := explicitSlug(r, slugFields); ok {
		return s
	}
	if s := Slugify(name); s != "" {
		return s
	}
	return id
}

// IsUUID reports whether s parses as a UUID.
func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// Slugify lower-cases s, strips everything but letters, digits, whitespace and hyphens, and
// collapses whitespace runs into single hyphens.
func Slugify(s string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-':
			pendingHyphen = true
		}
	}
	return b.String()
}
