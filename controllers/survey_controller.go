package controllers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vnkhanh/csat-survey/models"
	"github.com/vnkhanh/csat-survey/services"
	"github.com/vnkhanh/csat-survey/web"
)

type QuestionResponse struct {
	ID      uint     `json:"id_pregunta"`
	Prompt  string   `json:"texto_pregunta"`
	Scale   *string  `json:"escala_respuesta"`
	Choices []string `json:"opciones"`
}

type SessionResponse struct {
	CustomerID   uint               `json:"id_cliente"`
	CustomerName string             `json:"nombre_cliente"`
	Questions    []QuestionResponse `json:"preguntas"`
}

type SubmitRequest struct {
	Token   string                 `json:"token"`
	Answers []services.AnswerInput `json:"respuestas"`
}

func toQuestionResponses(questions []models.Question) []QuestionResponse {
	out := make([]QuestionResponse, 0, len(questions))
	for _, q := range questions {
		qr := QuestionResponse{ID: q.ID, Prompt: q.Prompt, Choices: q.Choices()}
		if qr.Choices != nil {
			scale := models.JoinScale(qr.Choices)
			qr.Scale = &scale
		} else {
			qr.Choices = []string{}
		}
		out = append(out, qr)
	}
	return out
}

type SurveyController struct {
	session *services.SessionService
	catalog *services.QuestionCatalog
	log     *slog.Logger
}

func NewSurveyController(session *services.SessionService, catalog *services.QuestionCatalog, log *slog.Logger) *SurveyController {
	return &SurveyController{session: session, catalog: catalog, log: log}
}

// GET /api/validar-token?token=T
func (h *SurveyController) ValidateToken(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token no proporcionado"})
		return
	}

	info, err := h.session.ValidateToken(c.Request.Context(), token)
	if err != nil {
		writeError(c, h.log, err, "Error al validar el token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id_cliente":     info.CustomerID,
		"nombre_cliente": info.DisplayName,
	})
}

// GET /api/sesion?token=T
func (h *SurveyController) GetSession(c *gin.Context) {
	session, err := h.session.BeginSession(c.Request.Context(), c.Query("token"))
	if err != nil {
		writeError(c, h.log, err, "Error al cargar la encuesta")
		return
	}

	c.JSON(http.StatusOK, SessionResponse{
		CustomerID:   session.CustomerID,
		CustomerName: session.DisplayName,
		Questions:    toQuestionResponses(session.Questions),
	})
}

// GET /api/preguntas
func (h *SurveyController) GetQuestions(c *gin.Context) {
	questions, err := h.catalog.List(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err, "Error al obtener las preguntas")
		return
	}
	c.JSON(http.StatusOK, toQuestionResponses(questions))
}

// POST /api/guardar-respuesta
func (h *SurveyController) SubmitAnswers(c *gin.Context) {
	// 1. Đọc body
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgIncompleteData})
		return
	}

	// 2. Lưu câu trả lời + đánh dấu đã trả lời trong một transaction
	if err := h.session.SubmitAnswers(c.Request.Context(), req.Token, req.Answers); err != nil {
		writeError(c, h.log, err, "Error guardando respuestas")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Respuestas guardadas correctamente"})
}

// GET /encuesta?token=T
func (h *SurveyController) SurveyPage(c *gin.Context) {
	status, err := h.session.PageStatus(c.Request.Context(), c.Query("token"))
	if err != nil {
		h.log.Error("survey page lookup failed", "error", err)
		c.String(http.StatusInternalServerError, "❌ Error interno en el servidor.")
		return
	}

	switch status {
	case services.PageMissingToken:
		c.String(http.StatusBadRequest, "❌ Error: Token requerido.")
		return
	case services.PageUnknownToken:
		c.String(http.StatusNotFound, "❌ Error: Token inválido.")
		return
	case services.PageAlreadyAnswered:
		c.String(http.StatusBadRequest, "❌ Error: Encuesta ya respondida.")
		return
	}

	page, err := web.SurveyPage()
	if err != nil {
		h.log.Error("survey page missing from embed", "error", err)
		c.String(http.StatusInternalServerError, "❌ Error interno en el servidor.")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}
