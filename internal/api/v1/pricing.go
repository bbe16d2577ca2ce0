package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tierforge/tierforge/internal/api/dto"
	ierr "github.com/tierforge/tierforge/internal/errors"
	"github.com/tierforge/tierforge/internal/logger"
	"github.com/tierforge/tierforge/internal/service"
)

type PricingHandler struct {
	service service.PricingService
	log     *logger.Logger
}

func NewPricingHandler(service service.PricingService, log *logger.Logger) *PricingHandler {
	return &PricingHandler{service: service, log: log}
}

// @Summary Calculate a psychologically priced amount
// @Tags Pricing
// @Accept json
// @Produce json
// @Param request body dto.CalculatePriceRequest true "Price inputs"
// @Success 200 {object} dto.CalculatePriceResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /pricing/calculate [post]
func (h *PricingHandler) CalculatePrice(c *gin.Context) {
	var req dto.CalculatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CalculatePrice(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Calculate the optimal price for a tier
// @Tags Pricing
// @Accept json
// @Produce json
// @Param request body dto.OptimalPriceRequest true "Optimal price inputs"
// @Success 200 {object} dto.OptimalPriceResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /pricing/optimal [post]
func (h *PricingHandler) CalculateOptimalPrice(c *gin.Context) {
	var req dto.OptimalPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CalculateOptimalPrice(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Analyze price sensitivity across candidate price points
// @Tags Pricing
// @Accept json
// @Produce json
// @Param request body dto.SensitivityAnalysisRequest true "Sensitivity inputs"
// @Success 200 {object} dto.SensitivityAnalysisResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /pricing/sensitivity [post]
func (h *PricingHandler) AnalyzePriceSensitivity(c *gin.Context) {
	var req dto.SensitivityAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.AnalyzePriceSensitivity(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
