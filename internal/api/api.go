package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/refurbops/opsdash/internal/api/handlers"
	"github.com/refurbops/opsdash/internal/api/middleware"
	"github.com/refurbops/opsdash/internal/ingest"
	"github.com/refurbops/opsdash/internal/mailfetch"
	"github.com/refurbops/opsdash/internal/service"
)

// Services bundles everything the router exposes.
type Services struct {
	Pnl         *service.PnlService
	Temperature *service.TemperatureService
	Stock       *service.StockService
	Search      *service.SearchService
	Product     *service.ProductService
	Names       *service.NamesService
	Admin       *service.AdminService
	Importer    *ingest.Importer
	Pipeline    *mailfetch.Pipeline
}

// NewRouter wires every endpoint of the dashboard API.
func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.Logger(),
		middleware.Recovery(),
	)
	router.Use(cors.New(corsConfig(allowedOrigins)))
	router.MaxMultipartMemory = 100 << 20

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	dashboardHandler := handlers.NewDashboardHandler(services.Pnl, services.Temperature, services.Stock)
	productHandler := handlers.NewProductHandler(services.Search, services.Product)
	adminHandler := handlers.NewAdminHandler(services.Admin, services.Names, services.Importer, services.Pipeline)

	apiGroup := router.Group("/api")
	{
		dashboardGroup := apiGroup.Group("/dashboard")
		{
			dashboardGroup.GET("/daily-pulse", dashboardHandler.GetDailyPulse)
			dashboardGroup.GET("/daily-pulse/channel-breakdown", dashboardHandler.GetChannelBreakdown)
			dashboardGroup.GET("/pnl", dashboardHandler.GetPnl)
			dashboardGroup.GET("/sku-temperature", dashboardHandler.GetSkuTemperature)
			dashboardGroup.GET("/reorder-queue", dashboardHandler.GetReorderQueue)
			dashboardGroup.GET("/reprice-queue", dashboardHandler.GetRepriceQueue)
		}

		apiGroup.GET("/inventory", dashboardHandler.GetInventory)
		apiGroup.GET("/search", productHandler.Search)
		apiGroup.GET("/product/:sku", productHandler.GetProduct)

		apiGroup.POST("/upload", adminHandler.Upload)
		apiGroup.GET("/data-status", adminHandler.GetDataStatus)
		apiGroup.POST("/clear-table", adminHandler.ClearTable)
		apiGroup.POST("/fetch-email", adminHandler.FetchEmail)
		apiGroup.POST("/refresh-product-names", adminHandler.RefreshProductNames)
	}

	return router
}

func corsConfig(allowedOrigins []string) cors.Config {
	config := cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	normalized, allowAll := normalizeAllowedOrigins(allowedOrigins)
	if allowAll {
		config.AllowOrigins = nil
		config.AllowOriginFunc = func(origin string) bool { return true }
	} else if len(normalized) > 0 {
		config.AllowOrigins = normalized
	}
	return config
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		for _, part := range strings.Split(origin, ",") {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
