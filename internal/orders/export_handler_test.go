package orders

import (
	"testing"
	"time"

	"mobilya-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildOrdersWorkbook(t *testing.T) {
	orders := []models.Order{
		{
			OrderNumber: "SIP-20260815-A1B2C3",
			ShippingAddress: models.ShippingAddress{
				FullName: "Ali Veli",
				City:     "İstanbul",
			},
			Items: []models.OrderItem{
				{Name: "Koltuk", Quantity: 2, UnitPrice: 1000, TotalPrice: 2000},
				{Name: "Masa", Quantity: 1, UnitPrice: 500, TotalPrice: 500},
			},
			Subtotal:      2500,
			ShippingCost:  150,
			TotalAmount:   2650,
			PaymentStatus: models.PaymentStatusPaid,
			OrderStatus:   models.OrderStatusShipped,
			CreatedAt:     time.Date(2026, 8, 15, 10, 30, 0, 0, time.Local),
		},
	}

	file, err := BuildOrdersWorkbook(orders)
	require.NoError(t, err)
	defer file.Close()

	rows, err := file.GetRows("Siparişler")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Sipariş No", rows[0][0])
	assert.Equal(t, "SIP-20260815-A1B2C3", rows[1][0])
	assert.Equal(t, "Ali Veli", rows[1][2])
	assert.Equal(t, "İstanbul", rows[1][3])
	assert.Equal(t, "3", rows[1][4]) // toplam adet
	assert.Equal(t, "2650", rows[1][7])
	assert.Equal(t, "kargoya verildi", rows[1][9])
}

func TestBuildOrdersWorkbookEmpty(t *testing.T) {
	file, err := BuildOrdersWorkbook(nil)
	require.NoError(t, err)
	defer file.Close()

	rows, err := file.GetRows("Siparişler")
	require.NoError(t, err)
	require.Len(t, rows, 1) // sadece başlık satırı
}

func TestGenerateOrderNumberFormat(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		n := GenerateOrderNumber()
		assert.Regexp(t, `^SIP-\d{8}-[0-9A-F]{6}$`, n)
		assert.False(t, seen[n], "sipariş numarası tekrarlandı: %s", n)
		seen[n] = true
	}
}
