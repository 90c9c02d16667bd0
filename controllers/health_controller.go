package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthController struct {
	db *gorm.DB
}

func NewHealthController(db *gorm.DB) *HealthController {
	return &HealthController{db: db}
}

func (h *HealthController) HealthCheck(c *gin.Context) {
	// Mặc định trạng thái OK
	response := gin.H{
		"status":  "ok",
		"message": "Servicio operativo",
		"db":      "ok",
	}

	sqlDB, err := h.db.DB()
	if err != nil {
		response["status"] = "error"
		response["db"] = "error: no se pudo obtener la conexión"
		c.JSON(http.StatusInternalServerError, response)
		return
	}

	if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		response["status"] = "error"
		response["db"] = "error: base de datos inaccesible"
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}

	c.JSON(http.StatusOK, response)
}

func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
