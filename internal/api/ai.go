package api

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"estatify/server/internal/finance"
	"estatify/server/internal/models"
)

const (
	recommendationLimit = 5
	// Listings up to 10% above the budget are still recommended
	budgetTolerance      = 1.1
	defaultRiskTolerance = "medium"
)

type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

type Recommendation struct {
	models.Listing
	Score     int    `json:"score"`
	Reasoning string `json:"reasoning"`
}

func (h *Handler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	c.JSON(http.StatusOK, h.assistant.Chat(c.Request.Context(), req.Message))
}

func (h *Handler) AnalyzeListing(c *gin.Context) {
	listing, ok := h.listingFromPath(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, finance.AnalyzeListing(listing))
}

func (h *Handler) GetRecommendations(c *gin.Context) {
	var maxPrice float64
	if raw := c.Query("budget"); raw != "" {
		budget, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(budget) || math.IsInf(budget, 0) || budget <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid budget"})
			return
		}
		maxPrice = budget * budgetTolerance
	}
	riskTolerance := c.DefaultQuery("riskTolerance", defaultRiskTolerance)

	listings, err := h.repo.TopListingsByReturn(maxPrice, recommendationLimit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get recommendations")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get recommendations"})
		return
	}

	recommendations := make([]Recommendation, len(listings))
	for i := range listings {
		l := &listings[i]
		recommendations[i] = Recommendation{
			Listing:   *l,
			Score:     finance.InvestmentScore(l),
			Reasoning: finance.RecommendationReasoning(l, riskTolerance),
		}
	}

	c.JSON(http.StatusOK, recommendations)
}
