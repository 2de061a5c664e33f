package api

import (
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	api := router.Group("/api")
	{
		api.GET("/health", handler.Health)

		properties := api.Group("/properties")
		properties.GET("", handler.GetListings)
		properties.POST("", handler.CreateListing)
		properties.POST("/fetch", handler.FetchListings)
		properties.GET("/stats/overview", handler.GetListingStats)
		properties.GET("/geojson", handler.GetListingsGeoJSON)
		properties.GET("/:id", handler.GetListing)
		properties.GET("/:id/metrics", handler.GetListingMetrics)
		properties.GET("/:id/financing", handler.GetListingFinancing)

		ai := api.Group("/ai")
		ai.POST("/chat", handler.Chat)
		ai.POST("/analyze/:id", handler.AnalyzeListing)
		ai.GET("/recommendations", handler.GetRecommendations)

		analytics := api.Group("/analytics")
		analytics.GET("/price-trends", handler.GetPriceTrends)
		analytics.GET("/roi-distribution", handler.GetROIDistribution)
		analytics.GET("/property-types", handler.GetPropertyTypes)
		analytics.GET("/market-overview", handler.GetMarketOverview)
		analytics.GET("/city-comparison", handler.GetCityComparison)
		analytics.GET("/city-areas", handler.GetCityAreas)
	}
}
