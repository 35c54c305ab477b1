package http

import (
	"net/http"

	"category-quiz-service/internal/app"
	"category-quiz-service/internal/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouterConfig wires the HTTP surface.
type RouterConfig struct {
	Backend         QuestionBackend
	Quiz            *app.QuizService
	DefaultCategory domain.Category
	CORSOrigins     []string
	Metrics         *Metrics
	Logger          *zap.Logger
}

// NewRouter builds the gin engine serving /api, /ws, /metrics and /healthz.
func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log), cors(cfg.CORSOrigins))
	if cfg.Metrics != nil {
		router.Use(cfg.Metrics.Middleware())
		router.GET("/metrics", cfg.Metrics.Handler())
	}
	router.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	NewFacade(cfg.Backend, cfg.DefaultCategory, log).Register(router.Group("/api"))

	if cfg.Quiz != nil {
		ws := NewWSHandler(cfg.Quiz, cfg.Metrics, log)
		router.GET("/ws", gin.WrapF(ws.ServeWS))
	}
	return router
}
