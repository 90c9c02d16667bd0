package controllers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/csat-survey/services"
)

type LinkController struct {
	links  *services.LinkService
	tokens *services.TokenStore
	log    *slog.Logger
}

func NewLinkController(links *services.LinkService, tokens *services.TokenStore, log *slog.Logger) *LinkController {
	return &LinkController{links: links, tokens: tokens, log: log}
}

// POST /api/generar-links
func (h *LinkController) GenerateLinks(c *gin.Context) {
	links, err := h.links.GenerateLinks(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err, "Error generando enlaces")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Enlaces generados correctamente",
		"enlaces": links,
	})
}

// GET /api/obtener-links
func (h *LinkController) ListLinks(c *gin.Context) {
	rows, err := h.tokens.List(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err, "Error interno del servidor")
		return
	}
	c.JSON(http.StatusOK, rows)
}
