package api

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"estatify/server/config"
	"estatify/server/internal/assistant"
	"estatify/server/internal/database"
	"estatify/server/internal/finance"
	"estatify/server/internal/geometry"
	"estatify/server/internal/market"
	"estatify/server/internal/models"
	"estatify/server/internal/processor"
	"estatify/server/internal/sources"
)

// ListingRepository is the read side of the listing store
type ListingRepository interface {
	GetListing(id int64) (*models.Listing, error)
	QueryListings(filter models.ListingFilter) ([]models.Listing, error)
	AllListings() ([]models.Listing, error)
	TopListingsByReturn(maxPrice float64, limit int) ([]models.Listing, error)
}

// ListingImporter enriches and stores listings
type ListingImporter interface {
	Save(listing models.Listing) (*models.Listing, error)
	Import(ctx context.Context, source, city string) (*processor.ImportResult, error)
}

type ChatAssistant interface {
	Chat(ctx context.Context, message string) assistant.Reply
}

type Handler struct {
	repo       ListingRepository
	importer   ListingImporter
	assistant  ChatAssistant
	calculator *finance.Calculator
	financing  finance.FinancingConfig
	logger     *logrus.Logger
}

func NewHandler(cfg *config.Config, repo ListingRepository, importer ListingImporter, chat ChatAssistant, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Handler{
		repo:       repo,
		importer:   importer,
		assistant:  chat,
		calculator: finance.NewCalculator(cfg.Assumptions),
		financing: finance.FinancingConfig{
			DownPayment:   cfg.Financing.DownPayment,
			InterestRate:  cfg.Financing.InterestRate,
			LoanTermYears: cfg.Financing.LoanTerm,
		},
		logger: logger,
	}
}

// CreateListingRequest holds the raw fields of a new listing. Derived metrics
// are always computed by the server.
type CreateListingRequest struct {
	Title         string           `json:"title" binding:"required"`
	Address       string           `json:"address"`
	City          string           `json:"city" binding:"required"`
	PostalCode    string           `json:"postalCode"`
	Latitude      *float64         `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude     *float64         `json:"longitude" binding:"required,gte=-180,lte=180"`
	Price         float64          `json:"price" binding:"required,gt=0"`
	Size          float64          `json:"size" binding:"required,gt=0"`
	Rooms         *int             `json:"rooms" binding:"omitempty,gte=0"`
	PropertyType  string           `json:"propertyType"`
	YearBuilt     *int             `json:"yearBuilt"`
	Condition     models.Condition `json:"condition" binding:"omitempty,oneof=excellent good fair poor"`
	CurrentRent   *float64         `json:"currentRent"`
	EstimatedRent float64          `json:"estimatedRent" binding:"gte=0"`
	ImageURL      string           `json:"imageUrl"`
	Description   string           `json:"description"`
	Source        string           `json:"source"`
	ExternalID    string           `json:"externalId"`
}

func (r CreateListingRequest) toListing() models.Listing {
	listing := models.Listing{
		Title:         r.Title,
		Address:       r.Address,
		City:          r.City,
		PostalCode:    r.PostalCode,
		Latitude:      *r.Latitude,
		Longitude:     *r.Longitude,
		Price:         r.Price,
		Size:          r.Size,
		Rooms:         r.Rooms,
		PropertyType:  r.PropertyType,
		YearBuilt:     r.YearBuilt,
		Condition:     r.Condition,
		CurrentRent:   r.CurrentRent,
		EstimatedRent: r.EstimatedRent,
		ImageURL:      r.ImageURL,
		Description:   r.Description,
		Source:        r.Source,
		ExternalID:    r.ExternalID,
	}
	if listing.PropertyType == "" {
		listing.PropertyType = models.PropertyTypeApartment
	}
	if listing.Source == "" {
		listing.Source = "manual"
	}
	return listing
}

type FetchRequest struct {
	Source string `json:"source" binding:"required"`
	City   string `json:"city"`
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Estatify API is running",
	})
}

func (h *Handler) GetListings(c *gin.Context) {
	var filter models.ListingFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.logger.WithError(err).Warn("Failed to parse listing filter")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filter parameters"})
		return
	}

	listings, err := h.repo.QueryListings(filter)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get listings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get properties"})
		return
	}

	c.JSON(http.StatusOK, listings)
}

func (h *Handler) CreateListing(c *gin.Context) {
	var req CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Warn("Invalid listing payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	listing, err := h.importer.Save(req.toListing())
	if errors.Is(err, database.ErrDuplicateListing) {
		c.JSON(http.StatusConflict, gin.H{"error": "Property already exists"})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to create listing")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create property"})
		return
	}

	c.JSON(http.StatusCreated, listing)
}

func (h *Handler) FetchListings(c *gin.Context) {
	var req FetchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Warn("Invalid fetch request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request parameters"})
		return
	}

	result, err := h.importer.Import(c.Request.Context(), req.Source, req.City)
	if errors.Is(err, sources.ErrUnknownSource) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		h.logger.WithError(err).Warn("Import interrupted")
		response := gin.H{"error": "Import interrupted", "count": 0}
		// Rows saved before the interruption stay stored
		if result != nil {
			response["count"] = result.Saved
			response["result"] = result
		}
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to import listings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch properties"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Fetched and saved " + strconv.Itoa(result.Saved) + " properties",
		"count":   result.Saved,
		"result":  result,
	})
}

func (h *Handler) GetListingStats(c *gin.Context) {
	listings, ok := h.allListings(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, market.Stats(listings))
}

func (h *Handler) GetListingsGeoJSON(c *gin.Context) {
	var filter models.ListingFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.logger.WithError(err).Warn("Failed to parse listing filter")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filter parameters"})
		return
	}

	listings, err := h.repo.QueryListings(filter)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get listings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get properties"})
		return
	}

	if bbox := c.Query("bbox"); bbox != "" {
		bound, err := geometry.ParseBounds(bbox)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		listings = geometry.WithinBounds(listings, bound)
	}

	c.JSON(http.StatusOK, geometry.ListingFeatures(listings))
}

func (h *Handler) GetListing(c *gin.Context) {
	listing, ok := h.listingFromPath(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (h *Handler) GetListingMetrics(c *gin.Context) {
	listing, ok := h.listingFromPath(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"propertyId": listing.ID,
		"metrics":    h.calculator.Metrics(*listing),
	})
}

func (h *Handler) GetListingFinancing(c *gin.Context) {
	listing, ok := h.listingFromPath(c)
	if !ok {
		return
	}

	// Query values override the configured defaults
	financing := h.financing
	if err := c.ShouldBindQuery(&financing); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid financing parameters"})
		return
	}

	projection, err := h.calculator.ProjectFinancing(listing, financing)
	if errors.Is(err, finance.ErrInvalidFinancing) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to project financing")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to project financing"})
		return
	}

	c.JSON(http.StatusOK, projection)
}

// listingFromPath loads the listing named by the :id parameter. It writes the
// error response itself and reports whether the handler may continue.
func (h *Handler) listingFromPath(c *gin.Context) (*models.Listing, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property id"})
		return nil, false
	}

	listing, err := h.repo.GetListing(id)
	if err != nil {
		h.logger.WithError(err).WithField("id", id).Error("Failed to get listing")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get property"})
		return nil, false
	}
	if listing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
		return nil, false
	}
	return listing, true
}

func (h *Handler) allListings(c *gin.Context) ([]models.Listing, bool) {
	listings, err := h.repo.AllListings()
	if err != nil {
		h.logger.WithError(err).Error("Failed to load listings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load properties"})
		return nil, false
	}
	return listings, true
}
