package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"estatify/server/internal/geometry"
	"estatify/server/internal/market"
)

func (h *Handler) GetPriceTrends(c *gin.Context) {
	listings, ok := h.allListings(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, market.PriceTrends(listings, c.Query("city")))
}

func (h *Handler) GetROIDistribution(c *gin.Context) {
	listings, ok := h.allListings(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, market.ROIDistribution(listings))
}

func (h *Handler) GetPropertyTypes(c *gin.Context) {
	listings, ok := h.allListings(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, market.PropertyTypeBreakdown(listings))
}

func (h *Handler) GetMarketOverview(c *gin.Context) {
	listings, ok := h.allListings(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, market.Overview(listings))
}

func (h *Handler) GetCityComparison(c *gin.Context) {
	listings, ok := h.allListings(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, market.CityComparison(listings))
}

// GetCityAreas returns the market area outline of every city as GeoJSON
func (h *Handler) GetCityAreas(c *gin.Context) {
	listings, ok := h.allListings(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, geometry.CityAreas(listings))
}
