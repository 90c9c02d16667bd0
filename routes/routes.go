package routes

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vnkhanh/csat-survey/config"
	"github.com/vnkhanh/csat-survey/controllers"
	"github.com/vnkhanh/csat-survey/middleware"
	"github.com/vnkhanh/csat-survey/services"
	"github.com/vnkhanh/csat-survey/web"
)

// Handlers gom toàn bộ controller đã được inject dependency.
type Handlers struct {
	Survey  *controllers.SurveyController
	Links   *controllers.LinkController
	Exports *controllers.ExportController
	Health  *controllers.HealthController

	// ExportService được giữ lại để main chờ các job đang chạy khi shutdown.
	ExportService *services.ExportService
}

func NewHandlers(db *gorm.DB, cfg config.SurveyConfig, log *slog.Logger) Handlers {
	tokens := services.NewTokenStore(db, log)
	catalog := services.NewQuestionCatalog(db, log)
	recorder := services.NewAnswerRecorder(db)
	session := services.NewSessionService(db, tokens, catalog, recorder, log)
	links := services.NewLinkService(tokens, cfg.PublicBaseURL, log)
	exports := services.NewExportService(db, cfg.ExportDir, log)
	summary := services.NewSummaryService(db, catalog)

	return Handlers{
		Survey:        controllers.NewSurveyController(session, catalog, log),
		Links:         controllers.NewLinkController(links, tokens, log),
		Exports:       controllers.NewExportController(exports, summary, log),
		Health:        controllers.NewHealthController(db),
		ExportService: exports,
	}
}

func SetupRoutes(r *gin.Engine, h Handlers, limiter *middleware.IPRateLimiter) {
	r.GET("/ping", controllers.Ping)
	r.GET("/health", h.Health.HealthCheck)

	// Route test server
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Servidor de encuestas activo")
	})

	r.StaticFS("/static", http.FS(web.Static()))
	r.GET("/gracias.html", func(c *gin.Context) {
		page, err := web.ThanksPage()
		if err != nil {
			c.String(http.StatusInternalServerError, "❌ Error interno en el servidor.")
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
	})
	r.GET("/encuesta", h.Survey.SurveyPage)

	api := r.Group("/api")
	{
		// Endpoint công khai cho khách hàng: giới hạn theo IP
		public := api.Group("")
		if limiter != nil {
			public.Use(middleware.RateLimitByIP(limiter))
		}
		{
			public.GET("/validar-token", h.Survey.ValidateToken)
			public.GET("/sesion", h.Survey.GetSession)
			public.POST("/guardar-respuesta", h.Survey.SubmitAnswers)
		}

		api.GET("/preguntas", h.Survey.GetQuestions)

		// Endpoint nội bộ
		api.POST("/generar-links", h.Links.GenerateLinks)
		api.GET("/obtener-links", h.Links.ListLinks)
		api.GET("/resumen", h.Exports.Summary)
		api.POST("/exportaciones", h.Exports.CreateExport)
		api.GET("/exportaciones/:job_id", h.Exports.GetExport)
	}
}
