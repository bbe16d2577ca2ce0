package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tierforge/tierforge/internal/api/dto"
	ierr "github.com/tierforge/tierforge/internal/errors"
	"github.com/tierforge/tierforge/internal/logger"
	"github.com/tierforge/tierforge/internal/service"
	"github.com/tierforge/tierforge/internal/types"
)

type CatalogHandler struct {
	service service.CatalogService
	log     *logger.Logger
}

func NewCatalogHandler(service service.CatalogService, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{service: service, log: log}
}

// @Summary Create a subscription model
// @Tags Catalog
// @Accept json
// @Produce json
// @Param model body dto.CreateSubscriptionModelRequest true "Subscription model"
// @Success 201 {object} dto.SubscriptionModelResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /models [post]
func (h *CatalogHandler) CreateModel(c *gin.Context) {
	var req dto.CreateSubscriptionModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorw("failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreateModel(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// @Summary Get a subscription model by ID
// @Tags Catalog
// @Produce json
// @Param id path string true "Model ID"
// @Success 200 {object} dto.SubscriptionModelResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /models/{id} [get]
func (h *CatalogHandler) GetModel(c *gin.Context) {
	resp, err := h.service.GetModel(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary List subscription models
// @Tags Catalog
// @Produce json
// @Success 200 {object} dto.ListSubscriptionModelsResponse
// @Router /models [get]
func (h *CatalogHandler) ListModels(c *gin.Context) {
	var filter types.QueryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid query parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ListModels(c.Request.Context(), &filter)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Delete a subscription model
// @Tags Catalog
// @Param id path string true "Model ID"
// @Success 204
// @Failure 404 {object} ierr.ErrorResponse
// @Router /models/{id} [delete]
func (h *CatalogHandler) DeleteModel(c *gin.Context) {
	if err := h.service.DeleteModel(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Add a tier to a model
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Model ID"
// @Param tier body dto.AddTierRequest true "Tier"
// @Success 201 {object} dto.TierResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /models/{id}/tiers [post]
func (h *CatalogHandler) AddTier(c *gin.Context) {
	var req dto.AddTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorw("failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.AddTier(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// @Summary Add a feature to a model
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Model ID"
// @Param feature body dto.AddFeatureRequest true "Feature"
// @Success 201 {object} dto.FeatureResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /models/{id}/features [post]
func (h *CatalogHandler) AddFeature(c *gin.Context) {
	var req dto.AddFeatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.AddFeature(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// @Summary Assign a feature to a tier
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Model ID"
// @Param assignment body dto.AssignFeatureRequest true "Assignment"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} ierr.ErrorResponse
// @Router /models/{id}/assignments [post]
func (h *CatalogHandler) AssignFeatureToTier(c *gin.Context) {
	var req dto.AssignFeatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	assigned, err := h.service.AssignFeatureToTier(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assigned": assigned})
}

// @Summary Update a tier's prices
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Model ID"
// @Param tier_id path string true "Tier ID"
// @Param prices body dto.UpdateTierPriceRequest true "New prices"
// @Success 200 {object} dto.TierResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /models/{id}/tiers/{tier_id}/price [put]
func (h *CatalogHandler) UpdateTierPrice(c *gin.Context) {
	var req dto.UpdateTierPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.UpdateTierPrice(c.Request.Context(), c.Param("id"), c.Param("tier_id"), &req)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary List the features assigned to a tier
// @Tags Catalog
// @Produce json
// @Param id path string true "Model ID"
// @Param tier_id path string true "Tier ID"
// @Success 200 {object} dto.TierFeaturesResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /models/{id}/tiers/{tier_id}/features [get]
func (h *CatalogHandler) GetTierFeatures(c *gin.Context) {
	resp, err := h.service.GetTierFeatures(c.Request.Context(), c.Param("id"), c.Param("tier_id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
