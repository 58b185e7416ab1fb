package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/refurbops/opsdash/internal/service"
)

const defaultTargetMargin = 20

// DashboardHandler serves the five dashboard views.
type DashboardHandler struct {
	pnl         *service.PnlService
	temperature *service.TemperatureService
	stock       *service.StockService
}

func NewDashboardHandler(pnl *service.PnlService, temperature *service.TemperatureService, stock *service.StockService) *DashboardHandler {
	return &DashboardHandler{pnl: pnl, temperature: temperature, stock: stock}
}

// GetDailyPulse returns the KPI and comparison view.
func (h *DashboardHandler) GetDailyPulse(c *gin.Context) {
	data, err := h.pnl.DailyPulse(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("daily pulse failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build daily pulse"})
		return
	}
	c.JSON(http.StatusOK, data)
}

// GetPnl returns the channel P&L view.
func (h *DashboardHandler) GetPnl(c *gin.Context) {
	data, err := h.pnl.Pnl(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("pnl failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build p&l"})
		return
	}
	c.JSON(http.StatusOK, data)
}

// GetChannelBreakdown returns only the per-channel slice of the P&L view.
func (h *DashboardHandler) GetChannelBreakdown(c *gin.Context) {
	data, err := h.pnl.Pnl(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("channel breakdown failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build channel breakdown"})
		return
	}
	c.JSON(http.StatusOK, data.ChannelPnl)
}

// GetSkuTemperature returns the sales momentum view.
func (h *DashboardHandler) GetSkuTemperature(c *gin.Context) {
	data, err := h.temperature.Temperature(c.Request.Context(), c.Query("category"), c.Query("search"))
	if err != nil {
		log.Error().Err(err).Msg("sku temperature failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build sku temperature"})
		return
	}
	c.JSON(http.StatusOK, data)
}

// GetReorderQueue returns the reorder queue. targetMargin falls back to 20%.
func (h *DashboardHandler) GetReorderQueue(c *gin.Context) {
	targetMargin := float64(defaultTargetMargin)
	if v, err := strconv.ParseFloat(c.Query("targetMargin"), 64); err == nil && v > 0 {
		targetMargin = v
	}

	data, err := h.stock.Reorder(c.Request.Context(), targetMargin)
	if err != nil {
		log.Error().Err(err).Msg("reorder queue failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build reorder queue"})
		return
	}
	c.JSON(http.StatusOK, data)
}

// GetRepriceQueue returns the dead and slow stock view.
func (h *DashboardHandler) GetRepriceQueue(c *gin.Context) {
	data, err := h.stock.Reprice(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("reprice queue failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build reprice queue"})
		return
	}
	c.JSON(http.StatusOK, data)
}

// GetInventory returns the stock health tree. activeOnly defaults to true.
func (h *DashboardHandler) GetInventory(c *gin.Context) {
	activeOnly := c.Query("activeOnly") != "false"
	data, err := h.stock.Inventory(c.Request.Context(), activeOnly, c.Query("category"), c.Query("search"))
	if err != nil {
		log.Error().Err(err).Msg("inventory failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build inventory"})
		return
	}
	c.JSON(http.StatusOK, data)
}
