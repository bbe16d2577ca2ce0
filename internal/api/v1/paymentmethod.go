package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/tierforge/tierforge/internal/api/dto"
	ierr "github.com/tierforge/tierforge/internal/errors"
	"github.com/tierforge/tierforge/internal/logger"
	"github.com/tierforge/tierforge/internal/service"
)

type PaymentMethodHandler struct {
	service service.PaymentMethodService
	log     *logger.Logger
}

func NewPaymentMethodHandler(service service.PaymentMethodService, log *logger.Logger) *PaymentMethodHandler {
	return &PaymentMethodHandler{service: service, log: log}
}

// @Summary Add a payment method
// @Tags PaymentMethods
// @Accept json
// @Produce json
// @Param request body dto.AddPaymentMethodRequest true "Payment method"
// @Success 201 {object} dto.PaymentMethodResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /payment_methods [post]
func (h *PaymentMethodHandler) AddPaymentMethod(c *gin.Context) {
	var req dto.AddPaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorw("failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.AddPaymentMethod(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// @Summary Get a payment method by ID
// @Tags PaymentMethods
// @Produce json
// @Param id path string true "Payment method ID"
// @Success 200 {object} dto.PaymentMethodResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /payment_methods/{id} [get]
func (h *PaymentMethodHandler) GetPaymentMethod(c *gin.Context) {
	resp, err := h.service.GetPaymentMethod(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary List a customer's payment methods
// @Tags PaymentMethods
// @Produce json
// @Param customer_id query string true "Customer ID"
// @Success 200 {object} dto.ListPaymentMethodsResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /payment_methods [get]
func (h *PaymentMethodHandler) ListPaymentMethods(c *gin.Context) {
	resp, err := h.service.ListPaymentMethods(c.Request.Context(), c.Query("customer_id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Make a payment method the customer's default
// @Tags PaymentMethods
// @Produce json
// @Param id path string true "Payment method ID"
// @Param customer_id query string true "Customer ID"
// @Success 200 {object} dto.PaymentMethodResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /payment_methods/{id}/default [put]
func (h *PaymentMethodHandler) SetDefaultPaymentMethod(c *gin.Context) {
	resp, err := h.service.SetDefaultPaymentMethod(c.Request.Context(), c.Query("customer_id"), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Update a payment method
// @Tags PaymentMethods
// @Accept json
// @Produce json
// @Param id path string true "Payment method ID"
// @Param request body dto.UpdatePaymentMethodRequest true "Updates"
// @Success 200 {object} dto.PaymentMethodResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /payment_methods/{id} [put]
func (h *PaymentMethodHandler) UpdatePaymentMethod(c *gin.Context) {
	var req dto.UpdatePaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.UpdatePaymentMethod(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Delete a payment method
// @Tags PaymentMethods
// @Param id path string true "Payment method ID"
// @Success 204
// @Failure 404 {object} ierr.ErrorResponse
// @Router /payment_methods/{id} [delete]
func (h *PaymentMethodHandler) DeletePaymentMethod(c *gin.Context) {
	if err := h.service.DeletePaymentMethod(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary List card payment methods expiring within a window
// @Tags PaymentMethods
// @Produce json
// @Param days query int false "Window in days" default(30)
// @Success 200 {array} dto.ExpiringPaymentMethodResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /payment_methods/expiring [get]
func (h *PaymentMethodHandler) CheckForExpiringPaymentMethods(c *gin.Context) {
	days := 30
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.Error(ierr.WithError(err).
				WithHint("days must be an integer").
				Mark(ierr.ErrValidation))
			return
		}
		days = parsed
	}

	resp, err := h.service.CheckForExpiringPaymentMethods(c.Request.Context(), days)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
