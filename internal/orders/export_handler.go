package orders

import (
	"fmt"
	"time"

	"mobilya-backend/internal/database"
	"mobilya-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// GET /api/orders/admin/export?month=2026-08 (admin)
// Ay verilmezse içinde bulunulan ayın raporu üretilir.
func ExportOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		month := c.Query("month")
		var start time.Time
		if month == "" {
			now := time.Now()
			start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)
		} else {
			var err error
			start, err = time.ParseInLocation("2006-01", month, time.Local)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "month formatı YYYY-MM olmalı")
			}
		}
		end := start.AddDate(0, 1, 0)

		var orders []models.Order
		if err := database.DB.
			Preload("Items").
			Preload("User").
			Where("created_at >= ? AND created_at < ?", start, end).
			Order("created_at asc").
			Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Siparişler okunamadı")
		}

		file, err := BuildOrdersWorkbook(orders)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Rapor oluşturulamadı")
		}

		fileName := fmt.Sprintf("siparisler-%s.xlsx", start.Format("2006-01"))
		c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set("Content-Disposition", `attachment; filename="`+fileName+`"`)

		buf, err := file.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Rapor yazılamadı")
		}
		return c.Send(buf.Bytes())
	}
}

// BuildOrdersWorkbook: sipariş listesinden tek sayfalık xlsx raporu üretir
func BuildOrdersWorkbook(orders []models.Order) (*excelize.File, error) {
	file := excelize.NewFile()
	sheet := "Siparişler"
	if err := file.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headers := []string{"Sipariş No", "Tarih", "Müşteri", "Şehir", "Ürün Sayısı",
		"Ara Toplam", "Kargo", "Toplam", "Ödeme Durumu", "Sipariş Durumu"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := file.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for row, order := range orders {
		customer := order.ShippingAddress.FullName
		if order.User != nil {
			customer = order.User.Name
		}

		itemCount := 0
		for _, item := range order.Items {
			itemCount += item.Quantity
		}

		values := []interface{}{
			order.OrderNumber,
			order.CreatedAt.Format("2006-01-02 15:04"),
			customer,
			order.ShippingAddress.City,
			itemCount,
			order.Subtotal,
			order.ShippingCost,
			order.TotalAmount,
			string(order.PaymentStatus),
			string(order.OrderStatus),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := file.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	return file, nil
}
