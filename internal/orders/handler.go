package orders

import (
	"errors"
	"strconv"

	"mobilya-backend/internal/audit"
	"mobilya-backend/internal/auth"
	"mobilya-backend/internal/database"
	"mobilya-backend/internal/models"
	"mobilya-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateOrderRequest struct {
	Items           []OrderItemRequest     `json:"items" validate:"required,min=1,dive"`
	ShippingAddress ShippingAddressRequest `json:"shipping_address" validate:"required"`
	Subtotal        float64                `json:"subtotal" validate:"gte=0"`
	ShippingCost    float64                `json:"shipping_cost" validate:"gte=0"`
	TotalAmount     *float64               `json:"total_amount"`
	PaymentMethod   string                 `json:"payment_method"`
	Notes           string                 `json:"notes" validate:"max=500"`
}

type OrderItemRequest struct {
	ProductID   uint    `json:"product_id" validate:"required"`
	Name        string  `json:"name" validate:"required"`
	Image       string  `json:"image"`
	VariantID   *uint   `json:"variant_id"`
	VariantName string  `json:"variant_name"`
	Quantity    int     `json:"quantity" validate:"required,gte=1"`
	UnitPrice   float64 `json:"unit_price" validate:"gte=0"`
	TotalPrice  float64 `json:"total_price" validate:"gte=0"`
}

type ShippingAddressRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Phone    string `json:"phone" validate:"required,phone"`
	City     string `json:"city" validate:"required"`
	District string `json:"district" validate:"required"`
	Address  string `json:"address" validate:"required"`
}

type UpdateStatusRequest struct {
	OrderStatus   *models.OrderStatus   `json:"order_status"`
	PaymentStatus *models.PaymentStatus `json:"payment_status"`
	CancelReason  *string               `json:"cancel_reason"`
}

// POST /api/orders: sipariş kalemleri ve adres, ürün/kullanıcı kayıtlarından
// bağımsız birer kopya olarak saklanır; oluşturulduktan sonra değiştirilmez.
func CreateOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := auth.CurrentUserID(c)

		var body CreateOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if violations := validation.Struct(body); len(violations) > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":      "Bad Request",
				"message":    "Sipariş bilgileri eksik veya hatalı",
				"violations": violations,
			})
		}

		paymentMethod := body.PaymentMethod
		if paymentMethod == "" {
			paymentMethod = models.DefaultPaymentMethod
		}

		totalAmount := body.Subtotal + body.ShippingCost
		if body.TotalAmount != nil {
			totalAmount = *body.TotalAmount
		}

		order := models.Order{
			OrderNumber: GenerateOrderNumber(),
			UserID:      userID,
			ShippingAddress: models.ShippingAddress{
				FullName: body.ShippingAddress.FullName,
				Phone:    body.ShippingAddress.Phone,
				City:     body.ShippingAddress.City,
				District: body.ShippingAddress.District,
				Address:  body.ShippingAddress.Address,
			},
			Subtotal:      body.Subtotal,
			ShippingCost:  body.ShippingCost,
			TotalAmount:   totalAmount,
			PaymentStatus: models.PaymentStatusPending,
			PaymentMethod: paymentMethod,
			OrderStatus:   models.OrderStatusPending,
			Notes:         body.Notes,
		}

		for _, item := range body.Items {
			order.Items = append(order.Items, models.OrderItem{
				ProductID:   item.ProductID,
				Name:        item.Name,
				Image:       item.Image,
				VariantID:   item.VariantID,
				VariantName: item.VariantName,
				Quantity:    item.Quantity,
				UnitPrice:   item.UnitPrice,
				TotalPrice:  item.TotalPrice,
			})
		}

		if err := database.DB.Create(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Aynı milisaniyede üretilen numara çakıştı, istemci tekrar dener
				return fiber.NewError(fiber.StatusConflict, "Sipariş numarası çakıştı, lütfen tekrar deneyin")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"order": order})
	}
}

// GET /api/orders: kullanıcının kendi siparişleri
func ListMyOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := auth.CurrentUserID(c)

		var orders []models.Order
		if err := database.DB.
			Preload("Items").
			Where("user_id = ?", userID).
			Order("created_at desc").
			Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Siparişler listelenemedi")
		}

		return c.JSON(fiber.Map{"count": len(orders), "orders": orders})
	}
}

// GET /api/orders/:id: sipariş sahibi veya admin
func GetOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var order models.Order
		if err := database.DB.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
		}

		if order.UserID != auth.CurrentUserID(c) && auth.CurrentUserRole(c) != models.RoleAdmin {
			return fiber.NewError(fiber.StatusForbidden, "Bu siparişi görüntüleme yetkiniz yok")
		}

		return c.JSON(fiber.Map{"order": order})
	}
}

// GET /api/orders/admin/all?status&page&limit (admin)
func ListAllOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, _ := strconv.Atoi(c.Query("page", "1"))
		if page < 1 {
			page = 1
		}
		limit, _ := strconv.Atoi(c.Query("limit", "20"))
		if limit < 1 || limit > 100 {
			limit = 20
		}

		dbq := database.DB.Model(&models.Order{})
		if status := c.Query("status"); status != "" {
			dbq = dbq.Where("order_status = ?", status)
		}

		var total int64
		if err := dbq.Session(&gorm.Session{}).Count(&total).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Siparişler listelenemedi")
		}

		var orders []models.Order
		if err := dbq.
			Preload("Items").
			Preload("User").
			Order("created_at desc").
			Offset((page - 1) * limit).
			Limit(limit).
			Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Siparişler listelenemedi")
		}

		totalPages := total / int64(limit)
		if total%int64(limit) != 0 {
			totalPages++
		}

		return c.JSON(fiber.Map{
			"count":      len(orders),
			"total":      total,
			"page":       page,
			"totalPages": totalPages,
			"orders":     orders,
		})
	}
}

// PUT /api/orders/:id/status (admin): sadece durum kolonları yazılır,
// sipariş kalemlerine ve adrese dokunulmaz
func UpdateOrderStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var order models.Order
		if err := database.DB.First(&order, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
		}
		before := order

		var body UpdateStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri gönderildi")
		}
		if body.OrderStatus == nil && body.PaymentStatus == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Güncellenecek durum belirtilmedi")
		}

		updates := map[string]interface{}{}
		if body.OrderStatus != nil {
			if !models.ValidOrderStatus(*body.OrderStatus) {
				return fiber.NewError(fiber.StatusBadRequest, "Geçersiz sipariş durumu")
			}
			updates["order_status"] = *body.OrderStatus
		}
		if body.PaymentStatus != nil {
			if !models.ValidPaymentStatus(*body.PaymentStatus) {
				return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ödeme durumu")
			}
			updates["payment_status"] = *body.PaymentStatus
		}
		if body.CancelReason != nil {
			updates["cancel_reason"] = *body.CancelReason
		}

		if err := database.DB.Model(&order).Updates(updates).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş güncellenemedi")
		}

		audit.Write(c, "order", order.ID, models.AuditActionUpdate,
			"Sipariş durumu güncellendi: "+order.OrderNumber, before, order)

		return c.JSON(fiber.Map{"order": order})
	}
}
