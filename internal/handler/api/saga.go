package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"checkout-service/internal/domain/transaction"
	reqdto "checkout-service/internal/handler/dto/request"
	"checkout-service/internal/handler/httperr"
	"checkout-service/internal/pkg/errs"
	"checkout-service/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
)

// SagaHandler exposes the four saga steps to the external orchestrator. Each
// endpoint merges its step output into the request payload and echoes the
// whole payload back, so the orchestrator can thread one growing document
// through the saga without mapping fields between steps.
type SagaHandler struct {
	sagaCommands commands.SagaCommands
}

func NewSagaHandler(sagaCommands commands.SagaCommands) *SagaHandler {
	return &SagaHandler{sagaCommands: sagaCommands}
}

// @Summary Validate transaction step
// @Tags saga
// @Accept json
// @Produce json
// @Param request body reqdto.ValidateStepRequest true "Step payload"
// @Success 200 {object} map[string]any
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /saga/validate [post]
func (h *SagaHandler) Validate(c *gin.Context) {
	var req reqdto.ValidateStepRequest
	payload, ok := h.bindPayload(c, &req)
	if !ok {
		return
	}

	out, err := h.sagaCommands.Validate(c.Request.Context(), commands.ValidateInput{
		TransactionID: uuid.MustParse(req.TransactionID),
		ProductID:     req.ProductID,
	})
	if err != nil {
		h.abortWithStepError(c, err)
		return
	}

	payload["transaction"] = out.Transaction
	payload["productId"] = out.ProductID
	payload["isValid"] = out.IsValid
	c.JSON(http.StatusOK, payload)
}

// @Summary Process payment step
// @Tags saga
// @Accept json
// @Produce json
// @Param request body reqdto.ProcessPaymentStepRequest true "Step payload"
// @Success 200 {object} map[string]any
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /saga/process-payment [post]
func (h *SagaHandler) ProcessPayment(c *gin.Context) {
	var req reqdto.ProcessPaymentStepRequest
	payload, ok := h.bindPayload(c, &req)
	if !ok {
		return
	}
	if !req.HasPaymentMethod() {
		httperr.AbortWithError(c, http.StatusBadRequest,
			errs.New("payment token or card data is required"),
			"Payment token or card data is required", nil)
		return
	}

	var card *commands.CardData
	if req.Card != nil {
		card = &commands.CardData{
			Number:     req.Card.Number,
			CVC:        req.Card.CVC,
			ExpMonth:   req.Card.ExpMonth,
			ExpYear:    req.Card.ExpYear,
			CardHolder: req.Card.CardHolder,
		}
	}

	out, err := h.sagaCommands.ProcessPayment(c.Request.Context(), commands.ProcessPaymentInput{
		TransactionID: uuid.MustParse(req.TransactionID),
		PaymentToken:  req.PaymentToken,
		Card:          card,
		Installments:  req.Installments,
	})
	if err != nil {
		h.abortWithStepError(c, err)
		return
	}

	payload["status"] = out.Status
	payload["gatewayTransactionId"] = out.GatewayTransactionID
	payload["productId"] = out.ProductID
	c.JSON(http.StatusOK, payload)
}

// @Summary Check payment status step
// @Tags saga
// @Accept json
// @Produce json
// @Param request body reqdto.CheckPaymentStatusStepRequest true "Step payload"
// @Success 200 {object} map[string]any
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /saga/payment-status [post]
func (h *SagaHandler) CheckPaymentStatus(c *gin.Context) {
	var req reqdto.CheckPaymentStatusStepRequest
	payload, ok := h.bindPayload(c, &req)
	if !ok {
		return
	}

	out, err := h.sagaCommands.CheckPaymentStatus(c.Request.Context(), commands.CheckPaymentStatusInput{
		TransactionID: uuid.MustParse(req.TransactionID),
	})
	if err != nil {
		h.abortWithStepError(c, err)
		return
	}

	payload["status"] = out.Status
	payload["gatewayTransactionId"] = out.GatewayTransactionID
	payload["productId"] = out.ProductID
	c.JSON(http.StatusOK, payload)
}

// @Summary Update inventory step
// @Tags saga
// @Accept json
// @Produce json
// @Param request body reqdto.UpdateInventoryStepRequest true "Step payload"
// @Success 200 {object} map[string]any
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /saga/update-inventory [post]
func (h *SagaHandler) UpdateInventory(c *gin.Context) {
	var req reqdto.UpdateInventoryStepRequest
	payload, ok := h.bindPayload(c, &req)
	if !ok {
		return
	}

	out, err := h.sagaCommands.UpdateInventory(c.Request.Context(), commands.UpdateInventoryInput{
		TransactionID: uuid.MustParse(req.TransactionID),
		ProductID:     req.ProductID,
		Status:        transaction.Status(req.Status),
	})
	if err != nil {
		h.abortWithStepError(c, err)
		return
	}

	payload["inventoryUpdated"] = out.InventoryUpdated
	if out.InventoryUpdated {
		payload["newQuantity"] = out.NewQuantity
	}
	c.JSON(http.StatusOK, payload)
}

// @Summary Compensate transaction step
// @Tags saga
// @Accept json
// @Produce json
// @Param request body reqdto.CompensateStepRequest true "Step payload"
// @Success 200 {object} map[string]any
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /saga/compensate [post]
func (h *SagaHandler) Compensate(c *gin.Context) {
	var req reqdto.CompensateStepRequest
	payload, ok := h.bindPayload(c, &req)
	if !ok {
		return
	}

	out, err := h.sagaCommands.Compensate(c.Request.Context(), commands.CompensateInput{
		TransactionID: uuid.MustParse(req.TransactionID),
		ProductID:     req.ProductID,
	})
	if err != nil {
		h.abortWithStepError(c, err)
		return
	}

	payload["compensated"] = out.Compensated
	c.JSON(http.StatusOK, payload)
}

// bindPayload decodes the body twice from the same bytes: once into the step
// request for validation and once into a map that keeps every field the
// orchestrator accumulated so far.
func (h *SagaHandler) bindPayload(c *gin.Context, req any) (map[string]any, bool) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Failed to read request body", nil)
		return nil, false
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return nil, false
	}
	if err := binding.JSON.BindBody(body, req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", err.Error())
		return nil, false
	}
	return payload, true
}

func (h *SagaHandler) abortWithStepError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrTransactionNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Transaction not found", nil)
	case errors.Is(err, errs.ErrInventoryNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Inventory record not found", nil)
	case errors.Is(err, errs.ErrInvalidState):
		httperr.AbortWithError(c, http.StatusConflict, err, "Transaction is not in the required status", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}
