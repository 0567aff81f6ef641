package models

import (
	"encoding/json"
	"time"
)

type SiteAddress struct {
	Street string `json:"street"`
	House  string `json:"house"`
}

type WorkingHours struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// SiteSettings is a single mutable singleton.
type SiteSettings struct {
	Brand           string       `json:"brand"`
	City            string       `json:"city"`
	Phone           string       `json:"phone"`
	Address         SiteAddress  `json:"address"`
	WorkingHours    WorkingHours `json:"workingHours"`
	FooterText      string       `json:"footerText"`
	HeroImage       string       `json:"heroImage"`
	PromoBackground string       `json:"promoBackground"`
}

type Banner struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Image    string `json:"image"`
	Link     string `json:"link"`
}

// SiteSnapshot is the public read shape: settings plus banners and theme.
type SiteSnapshot struct {
	Site        SiteSettings      `json:"site"`
	Banners     []Banner          `json:"banners"`
	Theme       map[string]string `json:"theme"`
	GeneratedAt *time.Time        `json:"generatedAt"`
}

// Setting is the remote backend's key-value settings row; values are opaque
// JSON under the keys "site", "banners" and "theme".
type Setting struct {
	Key   string          `json:"key" gorm:"primaryKey"`
	Value json.RawMessage `json:"value" gorm:"serializer:json"`
}
