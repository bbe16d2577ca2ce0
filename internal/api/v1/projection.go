package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tierforge/tierforge/internal/api/dto"
	ierr "github.com/tierforge/tierforge/internal/errors"
	"github.com/tierforge/tierforge/internal/logger"
	"github.com/tierforge/tierforge/internal/service"
)

type ProjectionHandler struct {
	service service.ProjectionService
	log     *logger.Logger
}

func NewProjectionHandler(service service.ProjectionService, log *logger.Logger) *ProjectionHandler {
	return &ProjectionHandler{service: service, log: log}
}

// @Summary Project the user base month by month
// @Tags Projections
// @Accept json
// @Produce json
// @Param request body dto.ProjectUsersRequest true "Projection inputs"
// @Success 200 {object} dto.ProjectUsersResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /projections/users [post]
func (h *ProjectionHandler) ProjectUsers(c *gin.Context) {
	var req dto.ProjectUsersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ProjectUsers(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Project revenue month by month
// @Tags Projections
// @Accept json
// @Produce json
// @Param request body dto.ProjectRevenueRequest true "Projection inputs"
// @Success 200 {object} dto.ProjectRevenueResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /projections/revenue [post]
func (h *ProjectionHandler) ProjectRevenue(c *gin.Context) {
	var req dto.ProjectRevenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ProjectRevenue(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Calculate customer lifetime value
// @Tags Projections
// @Accept json
// @Produce json
// @Param request body dto.LifetimeValueRequest true "LTV inputs"
// @Success 200 {object} dto.LifetimeValueResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /projections/ltv [post]
func (h *ProjectionHandler) CalculateLifetimeValue(c *gin.Context) {
	var req dto.LifetimeValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CalculateLifetimeValue(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Calculate the CAC payback period
// @Tags Projections
// @Accept json
// @Produce json
// @Param request body dto.PaybackPeriodRequest true "Payback inputs"
// @Success 200 {object} dto.PaybackPeriodResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /projections/payback [post]
func (h *ProjectionHandler) CalculatePaybackPeriod(c *gin.Context) {
	var req dto.PaybackPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CalculatePaybackPeriod(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Break revenue down across tiers
// @Tags Projections
// @Accept json
// @Produce json
// @Param request body dto.RevenueBreakdownRequest true "Breakdown inputs"
// @Success 200 {object} dto.RevenueBreakdownResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /projections/breakdown [post]
func (h *ProjectionHandler) CalculateRevenueBreakdown(c *gin.Context) {
	var req dto.RevenueBreakdownRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CalculateRevenueBreakdown(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
