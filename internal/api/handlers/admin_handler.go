package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/refurbops/opsdash/internal/ingest"
	"github.com/refurbops/opsdash/internal/mailfetch"
	"github.com/refurbops/opsdash/internal/service"
)

// maxUploadBytes caps report uploads at 100MB.
const maxUploadBytes = 100 << 20

// AdminHandler serves the ingest and maintenance endpoints.
type AdminHandler struct {
	admin    *service.AdminService
	names    *service.NamesService
	importer *ingest.Importer
	pipeline *mailfetch.Pipeline
}

func NewAdminHandler(admin *service.AdminService, names *service.NamesService, importer *ingest.Importer, pipeline *mailfetch.Pipeline) *AdminHandler {
	return &AdminHandler{admin: admin, names: names, importer: importer, pipeline: pipeline}
}

// Upload imports one report workbook posted as multipart field "file".
func (h *AdminHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
		return
	}
	if file.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file too large"})
		return
	}

	reader, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read upload"})
		return
	}
	defer reader.Close()
	data, err := io.ReadAll(reader)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read upload"})
		return
	}

	result, err := h.importer.Import(c.Request.Context(), file.Filename, data)
	if err != nil {
		log.Error().Err(err).Str("file", file.Filename).Msg("upload import failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if result.ReportType == ingest.TypeUnknown {
		c.JSON(http.StatusBadRequest, gin.H{"error": result.Error})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "result": result})
}

// GetDataStatus reports row counts and the last successful email fetch.
func (h *AdminHandler) GetDataStatus(c *gin.Context) {
	status, err := h.admin.DataStatus(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("data status failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load data status"})
		return
	}
	c.JSON(http.StatusOK, status)
}

// ClearTable empties one ingest table.
func (h *AdminHandler) ClearTable(c *gin.Context) {
	var body struct {
		Table string `json:"table" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "table is required"})
		return
	}

	if err := h.admin.ClearTable(c.Request.Context(), body.Table); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// FetchEmail runs the report email pipeline on demand.
func (h *AdminHandler) FetchEmail(c *gin.Context) {
	result, err := h.pipeline.Run(c.Request.Context(), h.pipeline.BaseDaysBack())
	if err != nil {
		log.Error().Err(err).Msg("email fetch failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "result": result})
}

// RefreshProductNames rebuilds the name cache on demand.
func (h *AdminHandler) RefreshProductNames(c *gin.Context) {
	count, err := h.names.Refresh(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("product name refresh failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to refresh product names"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "count": count})
}
