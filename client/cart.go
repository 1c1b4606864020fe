package client

import "sync"

// CartItem, sepete eklenmiş bir ürünü fiyat bilgisiyle birlikte tutar.
// Fiyat eklenme anında sabitlenir; sipariş oluşana kadar sepette o
// fiyat görünür.
type CartItem struct {
	ProductID   uint
	Name        string
	Image       string
	Price       float64
	Quantity    int
	VariantName string
}

// Cart, sipariş oluşturmadan önce ürünleri biriktiren bellek içi sepet.
// Aynı ürün + varyant ikilisi tek satırda toplanır.
type Cart struct {
	mu    sync.Mutex
	items []CartItem
}

func NewCart() *Cart {
	return &Cart{}
}

func (ct *Cart) AddItem(p Product, quantity int, variantName string) {
	if quantity <= 0 {
		return
	}
	ct.mu.Lock()
	defer ct.mu.Unlock()
	for i := range ct.items {
		if ct.items[i].ProductID == p.ID && ct.items[i].VariantName == variantName {
			ct.items[i].Quantity += quantity
			return
		}
	}
	image := ""
	if len(p.Images) > 0 {
		image = p.Images[0]
	}
	ct.items = append(ct.items, CartItem{
		ProductID:   p.ID,
		Name:        p.Name,
		Image:       image,
		Price:       p.EffectivePrice,
		Quantity:    quantity,
		VariantName: variantName,
	})
}

// SetQuantity miktarı günceller; sıfır veya altı satırı sepetten düşürür.
func (ct *Cart) SetQuantity(productID uint, variantName string, quantity int) {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	for i := range ct.items {
		if ct.items[i].ProductID == productID && ct.items[i].VariantName == variantName {
			if quantity <= 0 {
				ct.items = append(ct.items[:i], ct.items[i+1:]...)
			} else {
				ct.items[i].Quantity = quantity
			}
			return
		}
	}
}

func (ct *Cart) Remove(productID uint, variantName string) {
	ct.SetQuantity(productID, variantName, 0)
}

func (ct *Cart) Clear() {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	ct.items = nil
}

func (ct *Cart) Items() []CartItem {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	out := make([]CartItem, len(ct.items))
	copy(out, ct.items)
	return out
}

func (ct *Cart) ItemCount() int {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	total := 0
	for _, it := range ct.items {
		total += it.Quantity
	}
	return total
}

func (ct *Cart) Subtotal() float64 {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	var sum float64
	for _, it := range ct.items {
		sum += it.Price * float64(it.Quantity)
	}
	return sum
}

// ToOrderInput sepeti sipariş isteğine çevirir. Kalem fiyatları sepete
// eklenme anındaki fiyatlardır; toplam tutarı sunucu hesaplar.
func (ct *Cart) ToOrderInput(addr ShippingAddress, shippingCost float64) CreateOrderInput {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	items := make([]OrderItemInput, 0, len(ct.items))
	var subtotal float64
	for _, it := range ct.items {
		items = append(items, OrderItemInput{
			ProductID:   it.ProductID,
			Name:        it.Name,
			Image:       it.Image,
			VariantName: it.VariantName,
			Quantity:    it.Quantity,
			UnitPrice:   it.Price,
			TotalPrice:  it.Price * float64(it.Quantity),
		})
		subtotal += it.Price * float64(it.Quantity)
	}
	return CreateOrderInput{
		Items:           items,
		ShippingAddress: addr,
		Subtotal:        subtotal,
		ShippingCost:    shippingCost,
	}
}
