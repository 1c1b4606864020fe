package models

import "time"

type Dimensions struct {
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Depth  float64 `json:"depth,omitempty"`
	Unit   string  `gorm:"size:10" json:"unit,omitempty"` // cm, m vs.
}

// VariantOption: varyant içindeki seçenek grubu (örn: Renk -> [Ceviz, Beyaz])
type VariantOption struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

type ProductVariant struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	ProductID uint            `gorm:"index;not null" json:"-"`
	Name      string          `gorm:"size:100;not null" json:"name"`
	Options   []VariantOption `gorm:"serializer:json" json:"options,omitempty"`
	Stock     int             `gorm:"not null;default:0" json:"stock"`
	// Dolu ise bu varyant için temel fiyat yerine geçer
	PriceOverride *float64 `json:"price_override,omitempty"`
}

type Product struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:150;not null" json:"name"`
	Slug        string `gorm:"size:170;uniqueIndex;not null" json:"slug"`
	SKU         string `gorm:"size:50;uniqueIndex;not null" json:"sku"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	CategoryID uint      `gorm:"index;not null" json:"category_id"`
	Category   *Category `json:"category,omitempty"`

	BasePrice       float64  `gorm:"not null" json:"base_price"`
	DiscountedPrice *float64 `json:"discounted_price,omitempty"`

	Images    []string   `gorm:"serializer:json" json:"images"`
	Model3D   string     `gorm:"size:255" json:"model_3d,omitempty"`
	Dimension Dimensions `gorm:"embedded;embeddedPrefix:dim_" json:"dimensions"`
	Materials []string   `gorm:"serializer:json" json:"materials,omitempty"`

	Variants []ProductVariant `gorm:"constraint:OnDelete:CASCADE" json:"variants,omitempty"`

	Featured bool `gorm:"not null;default:false" json:"featured"`
	Active   bool `gorm:"not null;default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EffectivePrice: indirimli fiyat varsa o, yoksa temel fiyat
func (p *Product) EffectivePrice() float64 {
	if p.DiscountedPrice != nil {
		return *p.DiscountedPrice
	}
	return p.BasePrice
}

// DiscountPercentage: yüzde olarak indirim oranı (indirim yoksa 0)
func (p *Product) DiscountPercentage() int {
	if p.DiscountedPrice == nil || p.BasePrice <= 0 {
		return 0
	}
	return int((p.BasePrice - *p.DiscountedPrice) / p.BasePrice * 100)
}

// TotalStock: tüm varyant stoklarının toplamı
func (p *Product) TotalStock() int {
	total := 0
	for _, v := range p.Variants {
		total += v.Stock
	}
	return total
}
