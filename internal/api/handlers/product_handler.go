package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/refurbops/opsdash/internal/domain"
	"github.com/refurbops/opsdash/internal/service"
)

// ProductHandler serves the global search and single-SKU drilldown.
type ProductHandler struct {
	search  *service.SearchService
	product *service.ProductService
}

func NewProductHandler(search *service.SearchService, product *service.ProductService) *ProductHandler {
	return &ProductHandler{search: search, product: product}
}

// Search matches SKUs and product names across inventory and sales.
func (h *ProductHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if strings.TrimSpace(q) == "" {
		c.JSON(http.StatusOK, []domain.SearchResult{})
		return
	}

	results, err := h.search.Search(c.Request.Context(), q)
	if err != nil {
		log.Error().Err(err).Msg("search failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}
	c.JSON(http.StatusOK, results)
}

// GetProduct returns everything known about one SKU.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	code := c.Param("sku")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sku is required"})
		return
	}

	detail, err := h.product.Detail(c.Request.Context(), code)
	if err != nil {
		log.Error().Err(err).Str("sku", code).Msg("product detail failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load product detail"})
		return
	}
	c.JSON(http.StatusOK, detail)
}
