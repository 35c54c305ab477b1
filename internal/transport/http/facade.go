package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"category-quiz-service/internal/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// QuestionBackend is the store-facing side of the façade.
type QuestionBackend interface {
	GetQuestions(ctx context.Context, category domain.Category) ([]domain.Question, error)
	AddQuestion(ctx context.Context, category domain.Category, input domain.QuestionInput) (string, error)
	UpdateQuestion(ctx context.Context, category domain.Category, id string, patch domain.QuestionPatch) error
	DeleteQuestion(ctx context.Context, category domain.Category, id string) error
	SaveSubmission(ctx context.Context, rec domain.QuizSessionRecord) (string, error)
	GetQuizResults(ctx context.Context) ([]domain.QuizSessionRecord, error)
	Stats(ctx context.Context, category domain.Category) (domain.Stats, error)
}

const (
	msgInvalidQuestion   = "Invalid question data"
	msgInvalidSubmission = "Invalid submission data"
	msgUnknownCategory   = "Unknown category"
	msgInternal          = "Internal server error"
)

// Facade serves the CRUD API under /api.
type Facade struct {
	backend         QuestionBackend
	defaultCategory domain.Category
	log             *zap.Logger
	now             func() time.Time
}

func NewFacade(backend QuestionBackend, defaultCategory domain.Category, log *zap.Logger) *Facade {
	if log == nil {
		log = zap.NewNop()
	}
	return &Facade{backend: backend, defaultCategory: defaultCategory, log: log, now: time.Now}
}

// Register mounts the façade routes on group.
func (f *Facade) Register(group *gin.RouterGroup) {
	group.GET("/quiz", f.getQuestions)
	group.POST("/questions", f.addQuestion)
	group.PUT("/questions/:id", f.updateQuestion)
	group.DELETE("/questions/:id", f.deleteQuestion)
	group.POST("/submit", f.submit)
	group.GET("/results", f.results)
	group.GET("/stats", f.stats)
	group.GET("/health", f.health)
}

type createQuestionRequest struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Correct  *int     `json:"correct"`
}

type updateQuestionRequest struct {
	Question *string  `json:"question"`
	Options  []string `json:"options"`
	Correct  *int     `json:"correct"`
}

type submitRequest struct {
	Answers        []domain.QuizResult `json:"answers"`
	Score          *int                `json:"score"`
	TotalQuestions *int                `json:"totalQuestions"`
	CompletedAt    *time.Time          `json:"completedAt"`
	SessionID      string              `json:"sessionId"`
}

func (f *Facade) getQuestions(c *gin.Context) {
	category, ok := f.category(c)
	if !ok {
		return
	}
	questions, err := f.backend.GetQuestions(c.Request.Context(), category)
	if err != nil {
		f.fail(c, "get questions", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

func (f *Facade) addQuestion(c *gin.Context) {
	category, ok := f.category(c)
	if !ok {
		return
	}
	var req createQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Question == "" || req.Options == nil || req.Correct == nil {
		badRequest(c, msgInvalidQuestion)
		return
	}
	id, err := f.backend.AddQuestion(c.Request.Context(), category, domain.QuestionInput{
		Question:      req.Question,
		Options:       req.Options,
		CorrectAnswer: strconv.Itoa(*req.Correct),
	})
	if err != nil {
		f.fail(c, "add question", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "success": true})
}

func (f *Facade) updateQuestion(c *gin.Context) {
	category, ok := f.category(c)
	if !ok {
		return
	}
	var req updateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, msgInvalidQuestion)
		return
	}
	patch := domain.QuestionPatch{Question: req.Question, Options: req.Options}
	if req.Correct != nil {
		correct := strconv.Itoa(*req.Correct)
		patch.CorrectAnswer = &correct
	}
	if err := f.backend.UpdateQuestion(c.Request.Context(), category, c.Param("id"), patch); err != nil {
		f.fail(c, "update question", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (f *Facade) deleteQuestion(c *gin.Context) {
	category, ok := f.category(c)
	if !ok {
		return
	}
	if err := f.backend.DeleteQuestion(c.Request.Context(), category, c.Param("id")); err != nil {
		f.fail(c, "delete question", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (f *Facade) submit(c *gin.Context) {
	category, ok := f.category(c)
	if !ok {
		return
	}
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Answers == nil || req.Score == nil || req.TotalQuestions == nil {
		badRequest(c, msgInvalidSubmission)
		return
	}
	rec := domain.QuizSessionRecord{
		SessionID:      req.SessionID,
		Category:       category,
		Results:        req.Answers,
		Score:          *req.Score,
		TotalQuestions: *req.TotalQuestions,
	}
	if req.CompletedAt != nil {
		rec.CompletedAt = req.CompletedAt.UTC()
	}
	id, err := f.backend.SaveSubmission(c.Request.Context(), rec)
	if err != nil {
		f.fail(c, "save quiz result", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "success": true})
}

func (f *Facade) results(c *gin.Context) {
	records, err := f.backend.GetQuizResults(c.Request.Context())
	if err != nil {
		f.fail(c, "get quiz results", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": records})
}

func (f *Facade) stats(c *gin.Context) {
	var category domain.Category
	if raw := c.Query("category"); raw != "" {
		parsed, err := domain.ParseCategory(raw)
		if err != nil {
			badRequest(c, msgUnknownCategory)
			return
		}
		category = parsed
	}
	stats, err := f.backend.Stats(c.Request.Context(), category)
	if err != nil {
		f.fail(c, "get stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (f *Facade) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"timestamp": f.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	})
}

// category resolves ?category=, defaulting when absent. It writes the 400
// itself when the value is unknown.
func (f *Facade) category(c *gin.Context) (domain.Category, bool) {
	raw := c.Query("category")
	if raw == "" {
		return f.defaultCategory, true
	}
	category, err := domain.ParseCategory(raw)
	if err != nil {
		badRequest(c, msgUnknownCategory)
		return "", false
	}
	return category, true
}

// fail maps validation sentinels to 400 and everything else to an opaque 500.
func (f *Facade) fail(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidQuestion):
		badRequest(c, msgInvalidQuestion)
	case errors.Is(err, domain.ErrInvalidSubmission):
		badRequest(c, msgInvalidSubmission)
	default:
		f.log.Error(op+" failed", zap.Error(err), zap.String("path", c.FullPath()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgInternal})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
