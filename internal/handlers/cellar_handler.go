package handlers

import (
	"net/http"
	"strconv"

	"cavea/internal/service"

	"github.com/gin-gonic/gin"
)

type CellarHandler struct {
	cellar service.CellarService
}

func NewCellarHandler(cellar service.CellarService) *CellarHandler {
	return &CellarHandler{cellar: cellar}
}

type bottleRequest struct {
	Name            string  `json:"name" binding:"required,max=255"`
	DomainName      *string `json:"domain_name" binding:"omitempty,max=255"`
	ColourID        uint    `json:"colour_id" binding:"required"`
	RegionID        uint    `json:"region_id" binding:"required"`
	GrapeVarietyIDs []uint  `json:"grape_variety_ids"`
}

type vintageRequest struct {
	Year int `json:"year" binding:"required,gte=1900,lte=2100"`
}

type createCellarItemRequest struct {
	Bottle              bottleRequest  `json:"bottle" binding:"required"`
	Vintage             vintageRequest `json:"vintage" binding:"required"`
	AppellationName     *string        `json:"appellation_name" binding:"omitempty,max=255"`
	Stock               *int           `json:"stock" binding:"required,gte=0"`
	Rating              *float64       `json:"rating" binding:"omitempty,gte=0,lte=10"`
	Price               *float64       `json:"price" binding:"omitempty,gte=0"`
	Shop                *string        `json:"shop" binding:"omitempty,max=255"`
	OfferedBy           *string        `json:"offered_by" binding:"omitempty,max=255"`
	DrinkingWindowStart *int           `json:"drinking_window_start" binding:"omitempty,gte=1900,lte=2100"`
	DrinkingWindowEnd   *int           `json:"drinking_window_end" binding:"omitempty,gte=1900,lte=2100,gtefield=DrinkingWindowStart"`
}

type updateCellarItemRequest struct {
	Stock               *int     `json:"stock" binding:"omitempty,gte=0"`
	Rating              *float64 `json:"rating" binding:"omitempty,gte=0,lte=10"`
	Price               *float64 `json:"price" binding:"omitempty,gte=0"`
	Shop                *string  `json:"shop" binding:"omitempty,max=255"`
	OfferedBy           *string  `json:"offered_by" binding:"omitempty,max=255"`
	DrinkingWindowStart *int     `json:"drinking_window_start" binding:"omitempty,gte=1900,lte=2100"`
	DrinkingWindowEnd   *int     `json:"drinking_window_end" binding:"omitempty,gte=1900,lte=2100"`
}

func (h *CellarHandler) Index(c *gin.Context) {
	items, err := h.cellar.GetUserItems(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error."})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *CellarHandler) LastAdded(c *gin.Context) {
	items, err := h.cellar.GetLastAdded(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error."})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *CellarHandler) TotalStock(c *gin.Context) {
	total, err := h.cellar.GetTotalStock(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error."})
		return
	}
	c.JSON(http.StatusOK, gin.H{"total_stock": total})
}

func (h *CellarHandler) StockByColour(c *gin.Context) {
	stocks, err := h.cellar.GetStockByColour(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error."})
		return
	}
	c.JSON(http.StatusOK, stocks)
}

func (h *CellarHandler) Show(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	item, err := h.cellar.GetItem(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		itemError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *CellarHandler) FilterByColour(c *gin.Context) {
	colourID, ok := pathID(c, "colourId")
	if !ok {
		return
	}

	items, err := h.cellar.FilterByColour(c.Request.Context(), currentUser(c).ID, colourID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error."})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *CellarHandler) FilterByRegion(c *gin.Context) {
	regionID, ok := pathID(c, "regionId")
	if !ok {
		return
	}

	items, err := h.cellar.FilterByRegion(c.Request.Context(), currentUser(c).ID, regionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error."})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *CellarHandler) Store(c *gin.Context) {
	var req createCellarItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	item, err := h.cellar.Create(c.Request.Context(), currentUser(c).ID, service.CreateCellarItemInput{
		Bottle: service.BottleInput{
			Name:            req.Bottle.Name,
			DomainName:      req.Bottle.DomainName,
			ColourID:        req.Bottle.ColourID,
			RegionID:        req.Bottle.RegionID,
			GrapeVarietyIDs: req.Bottle.GrapeVarietyIDs,
		},
		VintageYear:         req.Vintage.Year,
		AppellationName:     req.AppellationName,
		Stock:               *req.Stock,
		Rating:              req.Rating,
		Price:               req.Price,
		Shop:                req.Shop,
		OfferedBy:           req.OfferedBy,
		DrinkingWindowStart: req.DrinkingWindowStart,
		DrinkingWindowEnd:   req.DrinkingWindowEnd,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error."})
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *CellarHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req updateCellarItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingError(c, err)
		return
	}

	item, err := h.cellar.Update(c.Request.Context(), currentUser(c).ID, id, service.UpdateCellarItemInput{
		Stock:               req.Stock,
		Rating:              req.Rating,
		Price:               req.Price,
		Shop:                req.Shop,
		OfferedBy:           req.OfferedBy,
		DrinkingWindowStart: req.DrinkingWindowStart,
		DrinkingWindowEnd:   req.DrinkingWindowEnd,
	})
	if err != nil {
		itemError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *CellarHandler) IncrementStock(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	item, err := h.cellar.IncrementStock(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		itemError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *CellarHandler) DecrementStock(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	item, err := h.cellar.DecrementStock(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		itemError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *CellarHandler) Destroy(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.cellar.Delete(c.Request.Context(), currentUser(c).ID, id); err != nil {
		itemError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CellarHandler) Export(c *gin.Context) {
	path, err := h.cellar.Export(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error."})
		return
	}
	c.FileAttachment(path, "cellar.xlsx")
}

func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found."})
		return 0, false
	}
	return uint(id), true
}
