package models

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "beklemede"
	OrderStatusPreparing OrderStatus = "hazırlanıyor"
	OrderStatusShipped   OrderStatus = "kargoya verildi"
	OrderStatusDelivered OrderStatus = "teslim edildi"
	OrderStatusCancelled OrderStatus = "iptal edildi"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

const DefaultPaymentMethod = "havale"

// OrderItem: sipariş anındaki ürün bilgisinin kopyası. Ürün sonradan
// değişse/silinse bile sipariş kaydı aynı kalır.
type OrderItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	OrderID     uint    `gorm:"index;not null" json:"-"`
	ProductID   uint    `gorm:"not null" json:"product_id"`
	Name        string  `gorm:"size:150;not null" json:"name"`
	Image       string  `gorm:"size:255" json:"image,omitempty"`
	VariantID   *uint   `json:"variant_id,omitempty"`
	VariantName string  `gorm:"size:100" json:"variant_name,omitempty"`
	Quantity    int     `gorm:"not null" json:"quantity"`
	UnitPrice   float64 `gorm:"not null" json:"unit_price"`
	TotalPrice  float64 `gorm:"not null" json:"total_price"`
}

// ShippingAddress: siparişe gömülü adres kopyası (adres kaydına referans değil)
type ShippingAddress struct {
	FullName string `gorm:"size:100;not null" json:"full_name"`
	Phone    string `gorm:"size:11;not null" json:"phone"`
	City     string `gorm:"size:50;not null" json:"city"`
	District string `gorm:"size:50;not null" json:"district"`
	Address  string `gorm:"size:500;not null" json:"address"`
}

type Order struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OrderNumber string `gorm:"size:30;uniqueIndex;not null" json:"order_number"`

	UserID uint  `gorm:"index;not null" json:"user_id"`
	User   *User `json:"user,omitempty"`

	Items           []OrderItem     `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	ShippingAddress ShippingAddress `gorm:"embedded;embeddedPrefix:ship_" json:"shipping_address"`

	Subtotal     float64 `gorm:"not null" json:"subtotal"`
	ShippingCost float64 `gorm:"not null;default:0" json:"shipping_cost"`
	TotalAmount  float64 `gorm:"not null" json:"total_amount"`

	PaymentStatus PaymentStatus `gorm:"size:20;not null" json:"payment_status"`
	PaymentMethod string        `gorm:"size:30;not null" json:"payment_method"`
	OrderStatus   OrderStatus   `gorm:"size:30;not null" json:"order_status"`

	Notes        string `gorm:"size:500" json:"notes,omitempty"`
	CancelReason string `gorm:"size:500" json:"cancel_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

func ValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}
