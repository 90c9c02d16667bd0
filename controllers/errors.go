package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/csat-survey/services"
)

const (
	msgSessionUnavailable = "Token inválido o encuesta ya respondida"
	msgIncompleteData     = "Datos incompletos"
	msgNoQuestions        = "No hay preguntas registradas"
	msgNoPending          = "No hay clientes nuevos para generar encuestas."
	msgNotFound           = "Recurso no encontrado"
)

// writeError ánh xạ lỗi domain sang HTTP; lỗi hạ tầng chỉ trả về internalMsg.
func writeError(c *gin.Context, log *slog.Logger, err error, internalMsg string) {
	switch {
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": msgIncompleteData})
	case errors.Is(err, services.ErrSessionUnavailable):
		c.JSON(http.StatusBadRequest, gin.H{"error": msgSessionUnavailable})
	case errors.Is(err, services.ErrNoPendingCustomers):
		c.JSON(http.StatusBadRequest, gin.H{"error": msgNoPending})
	case errors.Is(err, services.ErrEmptyCatalog):
		c.JSON(http.StatusNotFound, gin.H{"error": msgNoQuestions})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": msgNotFound})
	default:
		log.Error(internalMsg, "error", err, "path", c.Request.URL.Path)
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": internalMsg})
	}
}
