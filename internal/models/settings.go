package models

import "time"

const MaxFeaturedProducts = 4

type WhatsAppConfig struct {
	Enabled        bool   `json:"enabled"`
	Number         string `json:"number,omitempty"`
	DefaultMessage string `json:"default_message,omitempty"`
}

type SocialLinks struct {
	Instagram string `json:"instagram,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	YouTube   string `json:"youtube,omitempty"`
}

type PageBlock struct {
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
	Image   string `json:"image,omitempty"`
}

type PageContents struct {
	About   PageBlock `json:"about"`
	Contact PageBlock `json:"contact"`
	Stores  PageBlock `json:"stores"`
}

type TrustBadge struct {
	Icon  string `json:"icon"`
	Title string `json:"title"`
	Text  string `json:"text,omitempty"`
}

// Settings: tek satırlık ayar kaydı. İlk GET isteğinde varsayılanlarla
// oluşturulur, sonrasında hep aynı satır güncellenir.
type Settings struct {
	ID uint `gorm:"primaryKey" json:"-"`

	WhatsApp WhatsAppConfig `gorm:"serializer:json" json:"whatsapp"`
	Social   SocialLinks    `gorm:"serializer:json" json:"social"`
	Pages    PageContents   `gorm:"serializer:json" json:"pages"`
	Badges   []TrustBadge   `gorm:"serializer:json" json:"trust_badges"`

	// En fazla MaxFeaturedProducts ürün referansı
	FeaturedProductIDs []uint `gorm:"serializer:json" json:"featured_products"`

	UpdatedAt time.Time `json:"updated_at"`
}

func DefaultSettings() Settings {
	return Settings{
		WhatsApp: WhatsAppConfig{Enabled: false},
		Pages: PageContents{
			About:   PageBlock{Title: "Hakkımızda"},
			Contact: PageBlock{Title: "İletişim"},
			Stores:  PageBlock{Title: "Mağazalarımız"},
		},
		Badges:             []TrustBadge{},
		FeaturedProductIDs: []uint{},
	}
}
