package request

// Saga step requests. The orchestrator accumulates step outputs into one
// payload, so each request type names only the fields its step reads and
// ignores the rest of the payload.

type ValidateStepRequest struct {
	TransactionID string `json:"transactionId" binding:"required,uuid"`
	ProductID     string `json:"productId"`
}

type CardDataRequest struct {
	Number     string `json:"number" binding:"required"`
	CVC        string `json:"cvc" binding:"required"`
	ExpMonth   string `json:"expMonth" binding:"required"`
	ExpYear    string `json:"expYear" binding:"required"`
	CardHolder string `json:"cardHolder" binding:"required"`
}

type ProcessPaymentStepRequest struct {
	TransactionID string           `json:"transactionId" binding:"required,uuid"`
	PaymentToken  string           `json:"paymentToken"`
	Card          *CardDataRequest `json:"card"`
	Installments  int              `json:"installments"`
}

func (r ProcessPaymentStepRequest) HasPaymentMethod() bool {
	return r.PaymentToken != "" || r.Card != nil
}

type CheckPaymentStatusStepRequest struct {
	TransactionID string `json:"transactionId" binding:"required,uuid"`
}

type UpdateInventoryStepRequest struct {
	TransactionID string `json:"transactionId" binding:"required,uuid"`
	ProductID     string `json:"productId"`
	Status        string `json:"status" binding:"required"`
}

type CompensateStepRequest struct {
	TransactionID string `json:"transactionId" binding:"required,uuid"`
	ProductID     string `json:"productId"`
}
