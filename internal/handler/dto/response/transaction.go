package response

import (
	"time"

	"checkout-service/internal/domain/transaction"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type TransactionResponse struct {
	ID                   uuid.UUID `json:"id"`
	ProductID            string    `json:"productId"`
	Amount               int64     `json:"amount"`
	Commission           int64     `json:"commission"`
	ShippingCost         int64     `json:"shippingCost"`
	TotalAmount          int64     `json:"totalAmount"`
	Status               string    `json:"status"`
	CustomerEmail        string    `json:"customerEmail"`
	CustomerName         string    `json:"customerName"`
	DeliveryAddress      string    `json:"deliveryAddress"`
	DeliveryCity         string    `json:"deliveryCity"`
	DeliveryPhone        string    `json:"deliveryPhone"`
	GatewayTransactionID *string   `json:"gatewayTransactionId,omitempty"`
	ErrorMessage         *string   `json:"errorMessage,omitempty"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

func FromTransaction(tx *transaction.Transaction) *TransactionResponse {
	snap := tx.Snapshot()
	var resp TransactionResponse
	_ = copier.Copy(&resp, &snap)
	resp.Status = snap.Status.String()
	return &resp
}

func FromTransactions(txs []*transaction.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txs))
	for i, tx := range txs {
		result[i] = FromTransaction(tx)
	}
	return result
}
