package handler

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"road-risk-go/internal/encoder"
	"road-risk-go/internal/metrics"
	"road-risk-go/internal/repository"
	"road-risk-go/internal/service"
	"road-risk-go/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RootMessage ответ проверки доступности
const RootMessage = "Road Accident Risk Prediction API is running 🚦"

// Код ошибки модели
const codeScoringFailure = "scoring_failure"

// MaxRequestBytes предельный размер тела запроса на оценку
const MaxRequestBytes = 16 << 10

// PredictionHandler обрабатывает HTTP запросы оценки риска
type PredictionHandler struct {
	predictionService *service.PredictionService
	logger            *logrus.Logger
}

// NewPredictionHandler создает новый экземпляр PredictionHandler
func NewPredictionHandler(predictionService *service.PredictionService, logger *logrus.Logger) *PredictionHandler {
	return &PredictionHandler{
		predictionService: predictionService,
		logger:            logger,
	}
}

// RegisterRoutes регистрирует маршруты API
func (h *PredictionHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/", h.Root)
	router.POST("/predict", h.Predict)
	router.GET("/health", h.CheckHealth)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := router.Group("/api/v1")
	{
		api.GET("/assessments", h.ListAssessments)
		api.GET("/assessments/:id", h.GetAssessment)
	}
}

// Root отвечает, что сервис запущен
func (h *PredictionHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, models.MessageResponse{Message: RootMessage})
}

// Predict обрабатывает запрос на оценку риска аварии
func (h *PredictionHandler) Predict(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxRequestBytes)
	body, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.logger.Warnf("Тело запроса больше %d байт", tooLarge.Limit)
			c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
				Error: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
				Code:  string(encoder.InvalidRequest),
			})
			return
		}
		h.logger.Errorf("Ошибка чтения тела запроса: %v", err)
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "failed to read request body",
			Code:  string(encoder.InvalidRequest),
		})
		return
	}

	result, err := h.predictionService.PredictJSON(c.Request.Context(), body)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// writeError выбирает код ответа по типу ошибки
func (h *PredictionHandler) writeError(c *gin.Context, err error) {
	var verr *encoder.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: verr.Error(),
			Code:  string(verr.Kind),
			Field: verr.Field,
			Value: jsonValue(verr.Value),
		})
		return
	}

	var serr *service.ScoringError
	if errors.As(err, &serr) {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: serr.Error(),
			Code:  codeScoringFailure,
		})
		return
	}

	h.logger.Errorf("Непредвиденная ошибка: %v", err)
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Error: err.Error(),
		Code:  "internal_error",
	})
}

// jsonValue заменяет значения, которые нельзя сериализовать в JSON
func jsonValue(v interface{}) interface{} {
	if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		return fmt.Sprint(f)
	}
	return v
}

// CheckHealth проверяет состояние сервиса и модели
func (h *PredictionHandler) CheckHealth(c *gin.Context) {
	health := h.predictionService.CheckHealth(c.Request.Context())
	if !health.ModelLoaded {
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}
	c.JSON(http.StatusOK, health)
}

// ListAssessments возвращает сохраненные оценки с пагинацией
func (h *PredictionHandler) ListAssessments(c *gin.Context) {
	audit := h.predictionService.Audit()
	if audit == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "assessment audit is disabled"})
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	size, err := strconv.Atoi(c.DefaultQuery("size", "10"))
	if err != nil || size < 1 || size > 100 {
		size = 10
	}

	response, err := audit.List(c.Request.Context(), page, size)
	if err != nil {
		h.logger.Errorf("Ошибка получения списка оценок: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list assessments"})
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetAssessment возвращает сохраненную оценку по ID
func (h *PredictionHandler) GetAssessment(c *gin.Context) {
	audit := h.predictionService.Audit()
	if audit == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "assessment audit is disabled"})
		return
	}

	id := c.Param("id")
	assessment, err := audit.GetByID(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "assessment not found"})
		return
	}
	if err != nil {
		h.logger.Errorf("Ошибка получения оценки %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get assessment"})
		return
	}

	c.JSON(http.StatusOK, assessment)
}
