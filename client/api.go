package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Sunucu yanıtlarının istemci tarafı karşılıkları. Paket, sunucu
// paketlerine bağımlı olmadan tek başına içe aktarılabilir kalır.

type User struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Phone     string    `json:"phone"`
	Addresses []Address `json:"addresses"`
}

type Address struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	FullName  string `json:"full_name"`
	Phone     string `json:"phone"`
	City      string `json:"city"`
	District  string `json:"district"`
	Address   string `json:"address"`
	IsDefault bool   `json:"is_default"`
}

type Category struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Description  string `json:"description"`
	ParentID     *uint  `json:"parent_id"`
	DisplayOrder int    `json:"display_order"`
}

type VariantOption struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

type ProductVariant struct {
	ID            uint            `json:"id"`
	Name          string          `json:"name"`
	Options       []VariantOption `json:"options"`
	Stock         int             `json:"stock"`
	PriceOverride *float64        `json:"price_override"`
}

type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
	Unit   string  `json:"unit"`
}

type Product struct {
	ID              uint             `json:"id"`
	Name            string           `json:"name"`
	Slug            string           `json:"slug"`
	SKU             string           `json:"sku"`
	Description     string           `json:"description"`
	CategoryID      uint             `json:"category_id"`
	Category        *Category        `json:"category"`
	BasePrice       float64          `json:"base_price"`
	DiscountedPrice *float64         `json:"discounted_price"`
	Images          []string         `json:"images"`
	Model3D         string           `json:"model_3d"`
	Dimension       Dimensions       `json:"dimensions"`
	Materials       []string         `json:"materials"`
	Variants        []ProductVariant `json:"variants"`
	Featured        bool             `json:"featured"`
	Active          bool             `json:"active"`

	// Sunucunun hesaplayıp eklediği alanlar
	EffectivePrice     float64 `json:"effective_price"`
	DiscountPercentage int     `json:"discount_percentage"`
	TotalStock         int     `json:"total_stock"`
}

type OrderItem struct {
	ID          uint    `json:"id"`
	ProductID   uint    `json:"product_id"`
	Name        string  `json:"name"`
	Image       string  `json:"image"`
	VariantID   *uint   `json:"variant_id"`
	VariantName string  `json:"variant_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	TotalPrice  float64 `json:"total_price"`
}

type ShippingAddress struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	City     string `json:"city"`
	District string `json:"district"`
	Address  string `json:"address"`
}

type Order struct {
	ID              uint            `json:"id"`
	OrderNumber     string          `json:"order_number"`
	UserID          uint            `json:"user_id"`
	Items           []OrderItem     `json:"items"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	Subtotal        float64         `json:"subtotal"`
	ShippingCost    float64         `json:"shipping_cost"`
	TotalAmount     float64         `json:"total_amount"`
	PaymentStatus   string          `json:"payment_status"`
	PaymentMethod   string          `json:"payment_method"`
	OrderStatus     string          `json:"order_status"`
	Notes           string          `json:"notes"`
	CancelReason    string          `json:"cancel_reason"`
}

type WhatsAppConfig struct {
	Enabled        bool   `json:"enabled"`
	Number         string `json:"number"`
	DefaultMessage string `json:"default_message"`
}

type SocialLinks struct {
	Instagram string `json:"instagram"`
	Facebook  string `json:"facebook"`
	Twitter   string `json:"twitter"`
	YouTube   string `json:"youtube"`
}

type PageBlock struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Image   string `json:"image"`
}

type PageContents struct {
	About   PageBlock `json:"about"`
	Contact PageBlock `json:"contact"`
	Stores  PageBlock `json:"stores"`
}

type TrustBadge struct {
	Icon  string `json:"icon"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

type Settings struct {
	WhatsApp           WhatsAppConfig `json:"whatsapp"`
	Social             SocialLinks    `json:"social"`
	Pages              PageContents   `json:"pages"`
	Badges             []TrustBadge   `json:"trust_badges"`
	FeaturedProductIDs []uint         `json:"featured_products"`
}

type AuthResponse struct {
	User         User   `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Register yeni hesap açar ve dönen token'ları istemciye tanıtır.
func (c *Client) Register(ctx context.Context, name, email, password, phone string) (*AuthResponse, error) {
	body := map[string]string{"name": name, "email": email, "password": password, "phone": phone}
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", nil, body, &out, false); err != nil {
		return nil, err
	}
	c.SetTokens(out.AccessToken, out.RefreshToken)
	return &out, nil
}

// Login giriş yapar ve dönen token'ları istemciye tanıtır.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, body, &out, false); err != nil {
		return nil, err
	}
	c.SetTokens(out.AccessToken, out.RefreshToken)
	return &out, nil
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var out struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, nil, &out, true); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var out struct {
		Categories []Category `json:"categories"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/categories", nil, nil, &out, false); err != nil {
		return nil, err
	}
	return out.Categories, nil
}

func (c *Client) Category(ctx context.Context, slug string) (*Category, error) {
	var out struct {
		Category Category `json:"category"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/categories/"+url.PathEscape(slug), nil, nil, &out, false); err != nil {
		return nil, err
	}
	return &out.Category, nil
}

// ProductQuery, ürün listesinin filtre ve sayfalama parametreleri
type ProductQuery struct {
	Category string
	Search   string
	MinPrice *float64
	MaxPrice *float64
	Sort     string
	Page     int
	Limit    int
}

type ProductList struct {
	Products   []Product `json:"products"`
	Count      int       `json:"count"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	TotalPages int64     `json:"totalPages"`
}

func (c *Client) Products(ctx context.Context, q ProductQuery) (*ProductList, error) {
	params := url.Values{}
	if q.Category != "" {
		params.Set("category", q.Category)
	}
	if q.Search != "" {
		params.Set("search", q.Search)
	}
	if q.MinPrice != nil {
		params.Set("minPrice", strconv.FormatFloat(*q.MinPrice, 'f', -1, 64))
	}
	if q.MaxPrice != nil {
		params.Set("maxPrice", strconv.FormatFloat(*q.MaxPrice, 'f', -1, 64))
	}
	if q.Sort != "" {
		params.Set("sort", q.Sort)
	}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	var out ProductList
	if err := c.do(ctx, http.MethodGet, "/api/products", params, nil, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Product(ctx context.Context, slug string) (*Product, error) {
	var out struct {
		Product Product `json:"product"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/products/"+url.PathEscape(slug), nil, nil, &out, false); err != nil {
		return nil, err
	}
	return &out.Product, nil
}

type OrderItemInput struct {
	ProductID   uint    `json:"product_id"`
	Name        string  `json:"name"`
	Image       string  `json:"image,omitempty"`
	VariantID   *uint   `json:"variant_id,omitempty"`
	VariantName string  `json:"variant_name,omitempty"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	TotalPrice  float64 `json:"total_price"`
}

type CreateOrderInput struct {
	Items           []OrderItemInput `json:"items"`
	ShippingAddress ShippingAddress  `json:"shipping_address"`
	Subtotal        float64          `json:"subtotal"`
	ShippingCost    float64          `json:"shipping_cost"`
	TotalAmount     *float64         `json:"total_amount,omitempty"`
	PaymentMethod   string           `json:"payment_method,omitempty"`
	Notes           string           `json:"notes,omitempty"`
}

func (c *Client) CreateOrder(ctx context.Context, in CreateOrderInput) (*Order, error) {
	var out struct {
		Order Order `json:"order"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/orders", nil, in, &out, true); err != nil {
		return nil, err
	}
	return &out.Order, nil
}

func (c *Client) MyOrders(ctx context.Context) ([]Order, error) {
	var out struct {
		Orders []Order `json:"orders"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/orders", nil, nil, &out, true); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

func (c *Client) OrderDetail(ctx context.Context, id uint) (*Order, error) {
	var out struct {
		Order Order `json:"order"`
	}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/orders/%d", id), nil, nil, &out, true); err != nil {
		return nil, err
	}
	return &out.Order, nil
}

type AddressInput struct {
	Title     string `json:"title"`
	FullName  string `json:"full_name"`
	Phone     string `json:"phone"`
	City      string `json:"city"`
	District  string `json:"district"`
	Address   string `json:"address"`
	IsDefault bool   `json:"is_default"`
}

func (c *Client) Addresses(ctx context.Context) ([]Address, error) {
	var out struct {
		Addresses []Address `json:"addresses"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/addresses", nil, nil, &out, true); err != nil {
		return nil, err
	}
	return out.Addresses, nil
}

func (c *Client) CreateAddress(ctx context.Context, in AddressInput) (*Address, error) {
	var out struct {
		Address Address `json:"address"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/addresses", nil, in, &out, true); err != nil {
		return nil, err
	}
	return &out.Address, nil
}

func (c *Client) UpdateAddress(ctx context.Context, id uint, in AddressInput) (*Address, error) {
	var out struct {
		Address Address `json:"address"`
	}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/addresses/%d", id), nil, in, &out, true); err != nil {
		return nil, err
	}
	return &out.Address, nil
}

func (c *Client) DeleteAddress(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/addresses/%d", id), nil, nil, nil, true)
}

func (c *Client) SetDefaultAddress(ctx context.Context, id uint) (*Address, error) {
	var out struct {
		Address Address `json:"address"`
	}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/addresses/%d/set-default", id), nil, nil, &out, true); err != nil {
		return nil, err
	}
	return &out.Address, nil
}

func (c *Client) Settings(ctx context.Context) (*Settings, error) {
	var out struct {
		Settings Settings `json:"settings"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/settings", nil, nil, &out, false); err != nil {
		return nil, err
	}
	return &out.Settings, nil
}
