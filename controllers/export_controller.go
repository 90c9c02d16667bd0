package controllers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/csat-survey/models"
	"github.com/vnkhanh/csat-survey/services"
)

type ExportRequest struct {
	Format string `json:"formato"`
}

type ExportController struct {
	exports *services.ExportService
	summary *services.SummaryService
	log     *slog.Logger
}

func NewExportController(exports *services.ExportService, summary *services.SummaryService, log *slog.Logger) *ExportController {
	return &ExportController{exports: exports, summary: summary, log: log}
}

// POST /api/exportaciones
func (h *ExportController) CreateExport(c *gin.Context) {
	var req ExportRequest
	// body rỗng => mặc định csv
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Payload inválido"})
		return
	}

	job, err := h.exports.CreateJob(c.Request.Context(), req.Format)
	if errors.Is(err, services.ErrValidation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Formato no soportado, use csv o xlsx"})
		return
	}
	if err != nil {
		writeError(c, h.log, err, "Error creando la exportación")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"job_id": job.JobID,
		"status": job.Status,
	})
}

// GET /api/exportaciones/:job_id
func (h *ExportController) GetExport(c *gin.Context) {
	job, err := h.exports.Get(c.Request.Context(), c.Param("job_id"))
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Exportación no encontrada"})
		return
	}
	if err != nil {
		writeError(c, h.log, err, "Error consultando la exportación")
		return
	}

	if job.Status == models.ExportDone && job.FilePath != nil {
		c.FileAttachment(*job.FilePath, path.Base(*job.FilePath))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"job_id": job.JobID,
		"format": job.Format,
		"status": job.Status,
		"error":  job.ErrorMsg,
	})
}

// GET /api/resumen
func (h *ExportController) Summary(c *gin.Context) {
	summary, err := h.summary.Summary(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err, "Error generando el resumen")
		return
	}
	c.JSON(http.StatusOK, summary)
}
