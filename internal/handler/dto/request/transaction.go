package request

import (
	"strings"

	"checkout-service/internal/usecase/commands"
)

// CreateTransactionRequest carries the idempotency key as a body field so a
// retried POST is byte-identical to the original.
type CreateTransactionRequest struct {
	ProductID       string `json:"productId" binding:"required"`
	Amount          int64  `json:"amount" binding:"gte=0"`
	Commission      int64  `json:"commission" binding:"gte=0"`
	ShippingCost    int64  `json:"shippingCost" binding:"gte=0"`
	CustomerEmail   string `json:"customerEmail" binding:"required,email"`
	CustomerName    string `json:"customerName" binding:"required"`
	DeliveryAddress string `json:"deliveryAddress" binding:"required"`
	DeliveryCity    string `json:"deliveryCity" binding:"required"`
	DeliveryPhone   string `json:"deliveryPhone" binding:"required"`
	IdempotencyKey  string `json:"idempotencyKey" binding:"required"`
}

func (r CreateTransactionRequest) ToParams() commands.CreateTransactionParams {
	return commands.CreateTransactionParams{
		ProductID:       strings.TrimSpace(r.ProductID),
		Amount:          r.Amount,
		Commission:      r.Commission,
		ShippingCost:    r.ShippingCost,
		CustomerEmail:   strings.TrimSpace(r.CustomerEmail),
		CustomerName:    strings.TrimSpace(r.CustomerName),
		DeliveryAddress: r.DeliveryAddress,
		DeliveryCity:    r.DeliveryCity,
		DeliveryPhone:   strings.TrimSpace(r.DeliveryPhone),
		IdempotencyKey:  strings.TrimSpace(r.IdempotencyKey),
	}
}
