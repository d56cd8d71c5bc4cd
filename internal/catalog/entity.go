// Package catalog defines the canonical deal, store, article, product and category shapes
// handed to rendering, plus the normalizer that maps raw backend records onto them.
package catalog

import (
	"strings"
	"time"
)

// Lang selects one side of a language-variant field.
type Lang string

const (
	// LangArabic is the site's primary language.
	LangArabic Lang = "ar"
	// LangEnglish is the secondary language.
	LangEnglish Lang = "en"
)

// ParseLang returns the Lang named by s, or def when s is not a supported language.
func ParseLang(s string, def Lang) Lang {
	switch Lang(strings.ToLower(strings.TrimSpace(s))) {
	case LangArabic:
		return LangArabic
	case LangEnglish:
		return LangEnglish
	default:
		return def
	}
}

// Localized holds the Arabic and English variants of a field.
type Localized struct {
	AR string `json:"ar"`
	EN string `json:"en"`
}

// In returns the variant for lang, falling back to the other variant when empty.
func (l Localized) In(lang Lang) string {
	if lang == LangEnglish {
		if l.EN != "" {
			return l.EN
		}
		return l.AR
	}
	if l.AR != "" {
		return l.AR
	}
	return l.EN
}

// DiscountKind distinguishes percentage discounts from absolute amounts.
type DiscountKind string

const (
	DiscountPercent DiscountKind = "percent"
	DiscountAmount  DiscountKind = "amount"
)

// Discount is either a percentage or an absolute amount, never both.
type Discount struct {
	Kind  DiscountKind `json:"kind"`
	Value float64      `json:"value"`
}

// Deal is a single coupon or discount offer.
type Deal struct {
	ID            string     `json:"id"`
	Title         Localized  `json:"title"`
	Description   Localized  `json:"description"`
	Discount      *Discount  `json:"discount,omitempty"`
	Code          string     `json:"code,omitempty"`
	StoreID       string     `json:"storeId,omitempty"`
	StoreName     Localized  `json:"storeName"`
	Slug          Localized  `json:"slug"`
	OriginalPrice *float64   `json:"originalPrice,omitempty"`
	Price         *float64   `json:"price,omitempty"`
	Currency      string     `json:"currency"`
	URL           string     `json:"url,omitempty"`
	ImageURL      string     `json:"imageUrl,omitempty"`
	Verified      bool       `json:"verified"`
	Featured      bool       `json:"featured"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
	CreatedAt     *time.Time `json:"createdAt,omitempty"`
}

// Expired reports whether the deal's expiry is at or before now.
func (d Deal) Expired(now time.Time) bool {
	return d.ExpiresAt != nil && !d.ExpiresAt.After(now)
}

// Store is a merchant. Its deals are looked up by store id, not owned.
type Store struct {
	ID          string    `json:"id"`
	Name        Localized `json:"name"`
	Description Localized `json:"description"`
	LogoURL     string    `json:"logoUrl,omitempty"`
	Slug        Localized `json:"slug"`
	WebsiteURL  string    `json:"websiteUrl,omitempty"`
	Country     string    `json:"country,omitempty"`
}

// Article is a shopping guide.
type Article struct {
	ID             string     `json:"id"`
	Title          Localized  `json:"title"`
	Excerpt        Localized  `json:"excerpt"`
	Author         Localized  `json:"author"`
	Slug           string     `json:"slug"`
	ImageURL       string     `json:"imageUrl,omitempty"`
	PublishedAt    *time.Time `json:"publishedAt,omitempty"`
	Featured       bool       `json:"featured"`
	ReadingMinutes int        `json:"readingMinutes"`
}

// Product is a priced catalogue item shown on the products listing.
type Product struct {
	ID            string    `json:"id"`
	Name          Localized `json:"name"`
	Slug          string    `json:"slug"`
	OriginalPrice *float64  `json:"originalPrice,omitempty"`
	Price         *float64  `json:"price,omitempty"`
	Currency      string    `json:"currency"`
	ImageURL      string    `json:"imageUrl,omitempty"`
	StoreID       string    `json:"storeId,omitempty"`
	URL           string    `json:"url,omitempty"`
}

// Category groups deals for browsing.
type Category struct {
	ID   string    `json:"id"`
	Name Localized `json:"name"`
	Slug string    `json:"slug"`
	Icon string    `json:"icon,omitempty"`
}
