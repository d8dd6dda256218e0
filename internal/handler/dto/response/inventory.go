package response

import (
	"time"

	"checkout-service/internal/domain/inventory"

	"github.com/jinzhu/copier"
)

type InventoryResponse struct {
	ProductID         string    `json:"productId"`
	Quantity          int64     `json:"quantity"`
	ReservedQuantity  int64     `json:"reservedQuantity"`
	AvailableQuantity int64     `json:"availableQuantity"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func FromInventoryRecord(rec inventory.Record) *InventoryResponse {
	var resp InventoryResponse
	_ = copier.Copy(&resp, &rec)
	resp.AvailableQuantity = rec.AvailableQuantity()
	return &resp
}

func FromInventoryRecords(recs []inventory.Record) []*InventoryResponse {
	result := make([]*InventoryResponse, len(recs))
	for i, rec := range recs {
		result[i] = FromInventoryRecord(rec)
	}
	return result
}
