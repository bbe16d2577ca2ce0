package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tierforge/tierforge/internal/api/dto"
	"github.com/tierforge/tierforge/internal/domain/payment"
	ierr "github.com/tierforge/tierforge/internal/errors"
	"github.com/tierforge/tierforge/internal/logger"
	"github.com/tierforge/tierforge/internal/service"
)

type TransactionHandler struct {
	service service.TransactionService
	log     *logger.Logger
}

func NewTransactionHandler(service service.TransactionService, log *logger.Logger) *TransactionHandler {
	return &TransactionHandler{service: service, log: log}
}

// @Summary Create a transaction
// @Tags Transactions
// @Accept json
// @Produce json
// @Param transaction body dto.CreateTransactionRequest true "Transaction"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorw("failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreateTransaction(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// @Summary Get a transaction by ID
// @Tags Transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	resp, err := h.service.GetTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary List transactions
// @Tags Transactions
// @Produce json
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	var filter payment.TransactionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid query parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ListTransactions(c.Request.Context(), &filter)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Process a pending transaction through the gateway
// @Tags Transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /transactions/{id}/process [post]
func (h *TransactionHandler) ProcessTransaction(c *gin.Context) {
	resp, err := h.service.ProcessTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Refund a succeeded transaction
// @Tags Transactions
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param refund body dto.RefundTransactionRequest false "Refund"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /transactions/{id}/refund [post]
func (h *TransactionHandler) RefundTransaction(c *gin.Context) {
	var req dto.RefundTransactionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.Error(ierr.WithError(err).
				WithHint("Invalid request format").
				Mark(ierr.ErrValidation))
			return
		}
	}

	resp, err := h.service.RefundTransaction(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Cancel a transaction
// @Tags Transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /transactions/{id}/cancel [post]
func (h *TransactionHandler) CancelTransaction(c *gin.Context) {
	resp, err := h.service.CancelTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Get a transaction's status history
// @Tags Transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionHistoryResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /transactions/{id}/history [get]
func (h *TransactionHandler) GetTransactionHistory(c *gin.Context) {
	resp, err := h.service.GetTransactionHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Get a transaction's parent and refund children
// @Tags Transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} dto.RelatedTransactionsResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /transactions/{id}/related [get]
func (h *TransactionHandler) GetRelatedTransactions(c *gin.Context) {
	resp, err := h.service.GetRelatedTransactions(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Summarize transactions by status, type, and currency
// @Tags Transactions
// @Produce json
// @Success 200 {object} dto.TransactionSummaryResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /transactions/summary [get]
func (h *TransactionHandler) GetTransactionSummary(c *gin.Context) {
	var filter payment.TransactionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid query parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.GetTransactionSummary(c.Request.Context(), &filter)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
