package transaction

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNegativeAmount     = errors.New("amount cannot be negative")
	ErrEmptyProductID     = errors.New("product id is required")
	ErrEmptyIdempotencyKey = errors.New("idempotency key is required")
)

// Transaction is one purchase attempt. It is a value-per-revision aggregate:
// Approve, Decline and Cancel return a new revision instead of mutating the
// receiver, and the backing store always holds the latest written revision.
//
// The transition methods are pure and do not enforce the "must be PENDING"
// rule; callers check Status before transitioning.
type Transaction struct {
	id                   uuid.UUID
	productID            string
	amount               int64
	commission           int64
	shippingCost         int64
	totalAmount          int64
	status               Status
	customerEmail        string
	customerName         string
	deliveryAddress      string
	deliveryCity         string
	deliveryPhone        string
	idempotencyKey       string
	gatewayTransactionID *string
	errorMessage         *string
	createdAt            time.Time
	updatedAt            time.Time
}

type NewTransactionParams struct {
	ProductID       string
	Amount          int64
	Commission      int64
	ShippingCost    int64
	CustomerEmail   string
	CustomerName    string
	DeliveryAddress string
	DeliveryCity    string
	DeliveryPhone   string
	IdempotencyKey  string
}

// NewTransaction builds a PENDING transaction. The total is computed once here
// and never recomputed on later revisions.
func NewTransaction(p NewTransactionParams, now time.Time) (*Transaction, error) {
	if p.ProductID == "" {
		return nil, ErrEmptyProductID
	}
	if p.IdempotencyKey == "" {
		return nil, ErrEmptyIdempotencyKey
	}
	if p.Amount < 0 || p.Commission < 0 || p.ShippingCost < 0 {
		return nil, ErrNegativeAmount
	}

	return &Transaction{
		id:              uuid.New(),
		productID:       p.ProductID,
		amount:          p.Amount,
		commission:      p.Commission,
		shippingCost:    p.ShippingCost,
		totalAmount:     p.Amount + p.Commission + p.ShippingCost,
		status:          StatusPending,
		customerEmail:   p.CustomerEmail,
		customerName:    p.CustomerName,
		deliveryAddress: p.DeliveryAddress,
		deliveryCity:    p.DeliveryCity,
		deliveryPhone:   p.DeliveryPhone,
		idempotencyKey:  p.IdempotencyKey,
		createdAt:       now,
		updatedAt:       now,
	}, nil
}

func Reconstruct(
	id uuid.UUID,
	productID string,
	amount, commission, shippingCost, totalAmount int64,
	status Status,
	customerEmail, customerName, deliveryAddress, deliveryCity, deliveryPhone string,
	idempotencyKey string,
	gatewayTransactionID, errorMessage *string,
	createdAt, updatedAt time.Time,
) *Transaction {
	return &Transaction{
		id:                   id,
		productID:            productID,
		amount:               amount,
		commission:           commission,
		shippingCost:         shippingCost,
		totalAmount:          totalAmount,
		status:               status,
		customerEmail:        customerEmail,
		customerName:         customerName,
		deliveryAddress:      deliveryAddress,
		deliveryCity:         deliveryCity,
		deliveryPhone:        deliveryPhone,
		idempotencyKey:       idempotencyKey,
		gatewayTransactionID: gatewayTransactionID,
		errorMessage:         errorMessage,
		createdAt:            createdAt,
		updatedAt:            updatedAt,
	}
}

// Approve returns an APPROVED revision carrying the gateway's transaction id.
func (t *Transaction) Approve(gatewayTransactionID string, now time.Time) *Transaction {
	next := *t
	next.status = StatusApproved
	next.gatewayTransactionID = &gatewayTransactionID
	next.updatedAt = t.nextUpdatedAt(now)
	return &next
}

// Decline returns a DECLINED revision recording the decline reason.
func (t *Transaction) Decline(reason string, now time.Time) *Transaction {
	next := *t
	next.status = StatusDeclined
	next.errorMessage = &reason
	next.updatedAt = t.nextUpdatedAt(now)
	return &next
}

// Cancel returns a CANCELLED revision. Used only by compensation.
func (t *Transaction) Cancel(now time.Time) *Transaction {
	next := *t
	next.status = StatusCancelled
	next.updatedAt = t.nextUpdatedAt(now)
	return &next
}

// SetGatewayTransactionID records the gateway id without changing status,
// for charges the gateway leaves in its own PENDING state.
func (t *Transaction) SetGatewayTransactionID(gatewayTransactionID string, now time.Time) *Transaction {
	next := *t
	next.gatewayTransactionID = &gatewayTransactionID
	next.updatedAt = t.nextUpdatedAt(now)
	return &next
}

// updatedAt must be strictly greater than the previous revision's.
func (t *Transaction) nextUpdatedAt(now time.Time) time.Time {
	if now.After(t.updatedAt) {
		return now
	}
	return t.updatedAt.Add(time.Millisecond)
}

func (t *Transaction) ID() uuid.UUID                 { return t.id }
func (t *Transaction) ProductID() string             { return t.productID }
func (t *Transaction) Amount() int64                 { return t.amount }
func (t *Transaction) Commission() int64             { return t.commission }
func (t *Transaction) ShippingCost() int64           { return t.shippingCost }
func (t *Transaction) TotalAmount() int64            { return t.totalAmount }
func (t *Transaction) Status() Status                { return t.status }
func (t *Transaction) CustomerEmail() string         { return t.customerEmail }
func (t *Transaction) CustomerName() string          { return t.customerName }
func (t *Transaction) DeliveryAddress() string       { return t.deliveryAddress }
func (t *Transaction) DeliveryCity() string          { return t.deliveryCity }
func (t *Transaction) DeliveryPhone() string         { return t.deliveryPhone }
func (t *Transaction) IdempotencyKey() string        { return t.idempotencyKey }
func (t *Transaction) GatewayTransactionID() *string { return t.gatewayTransactionID }
func (t *Transaction) ErrorMessage() *string         { return t.errorMessage }
func (t *Transaction) CreatedAt() time.Time          { return t.createdAt }
func (t *Transaction) UpdatedAt() time.Time          { return t.updatedAt }

// Snapshot is the exported wire form of a revision, used for event payloads
// and responses.
type Snapshot struct {
	ID                   uuid.UUID `json:"id"`
	ProductID            string    `json:"productId"`
	Amount               int64     `json:"amount"`
	Commission           int64     `json:"commission"`
	ShippingCost         int64     `json:"shippingCost"`
	TotalAmount          int64     `json:"totalAmount"`
	Status               Status    `json:"status"`
	CustomerEmail        string    `json:"customerEmail"`
	CustomerName         string    `json:"customerName"`
	DeliveryAddress      string    `json:"deliveryAddress"`
	DeliveryCity         string    `json:"deliveryCity"`
	DeliveryPhone        string    `json:"deliveryPhone"`
	IdempotencyKey       string    `json:"idempotencyKey"`
	GatewayTransactionID *string   `json:"gatewayTransactionId,omitempty"`
	ErrorMessage         *string   `json:"errorMessage,omitempty"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

func (t *Transaction) Snapshot() Snapshot {
	return Snapshot{
		ID:                   t.id,
		ProductID:            t.productID,
		Amount:               t.amount,
		Commission:           t.commission,
		ShippingCost:         t.shippingCost,
		TotalAmount:          t.totalAmount,
		Status:               t.status,
		CustomerEmail:        t.customerEmail,
		CustomerName:         t.customerName,
		DeliveryAddress:      t.deliveryAddress,
		DeliveryCity:         t.deliveryCity,
		DeliveryPhone:        t.deliveryPhone,
		IdempotencyKey:       t.idempotencyKey,
		GatewayTransactionID: t.gatewayTransactionID,
		ErrorMessage:         t.errorMessage,
		CreatedAt:            t.createdAt,
		UpdatedAt:            t.updatedAt,
	}
}
