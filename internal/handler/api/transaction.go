package api

import (
	"errors"
	"net/http"

	reqdto "checkout-service/internal/handler/dto/request"
	resdto "checkout-service/internal/handler/dto/response"
	"checkout-service/internal/pkg/errs"
	"checkout-service/internal/usecase/commands"
	"checkout-service/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TransactionHandler struct {
	transactionCommands commands.TransactionCommands
	transactionQueries  queries.TransactionQueries
}

func NewTransactionHandler(
	transactionCommands commands.TransactionCommands,
	transactionQueries queries.TransactionQueries,
) *TransactionHandler {
	return &TransactionHandler{
		transactionCommands: transactionCommands,
		transactionQueries:  transactionQueries,
	}
}

// @Summary Create transaction
// @Description Create a pending payment transaction. Requests with a known idempotency key return the existing transaction.
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body reqdto.CreateTransactionRequest true "Transaction request"
// @Success 200 {object} resdto.TransactionResponse
// @Success 201 {object} resdto.TransactionResponse
// @Failure 400 {object} map[string]string
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req reqdto.CreateTransactionRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.transactionCommands.CreateTransaction(c.Request.Context(), req.ToParams())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}
	c.JSON(status, resdto.FromTransaction(result.Transaction))
}

// @Summary Get transaction
// @Description Get transaction by ID
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} resdto.TransactionResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid transaction ID format",
		})
		return
	}

	tx, err := h.transactionQueries.GetTransaction(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrTransactionNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Transaction not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromTransaction(tx))
}

// @Summary List transactions
// @Description Get all transactions, newest first
// @Tags transactions
// @Produce json
// @Success 200 {array} resdto.TransactionResponse
// @Router /transactions [get]
func (h *TransactionHandler) GetAllTransactions(c *gin.Context) {
	txs, err := h.transactionQueries.GetAllTransactions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, resdto.FromTransactions(txs))
}
