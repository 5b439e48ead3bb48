package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"road-risk-go/internal/classifier"
	"road-risk-go/internal/encoder"
	"road-risk-go/internal/metrics"
	"road-risk-go/internal/scoring"
	"road-risk-go/pkg/models"
)

// ServiceVersion версия сервиса
const ServiceVersion = "1.0.0"

// PredictionService сервис оценки риска аварии.
// Модель загружается один раз при старте и используется только на чтение.
type PredictionService struct {
	encoder *encoder.Encoder
	scorer  scoring.Scorer
	audit   *AssessmentService
	logger  *logrus.Logger
}

// NewPredictionService создает новый сервис; audit может быть nil
func NewPredictionService(scorer scoring.Scorer, audit *AssessmentService, logger *logrus.Logger) *PredictionService {
	return &PredictionService{
		encoder: encoder.NewEncoder(),
		scorer:  scorer,
		audit:   audit,
		logger:  logger,
	}
}

// PredictJSON разбирает тело запроса и выполняет оценку
func (s *PredictionService) PredictJSON(ctx context.Context, body []byte) (*models.RiskResponse, error) {
	req, err := s.encoder.Decode(body)
	if err != nil {
		metrics.PredictionFailures.WithLabelValues(metrics.ReasonValidation).Inc()
		s.logger.Warnf("Некорректный запрос: %v", err)
		return nil, err
	}
	return s.Predict(ctx, *req)
}

// Predict кодирует запрос, вызывает модель и классифицирует оценку
func (s *PredictionService) Predict(ctx context.Context, req models.RiskRequest) (*models.RiskResponse, error) {
	features, err := s.encoder.Encode(req)
	if err != nil {
		metrics.PredictionFailures.WithLabelValues(metrics.ReasonValidation).Inc()
		s.logger.Warnf("Ошибка кодирования признаков: %v", err)
		return nil, err
	}

	startTime := time.Now()
	score, err := s.scorer.Score(ctx, features)
	elapsed := time.Since(startTime)
	metrics.ScoringDuration.Observe(elapsed.Seconds())

	if err == nil && (math.IsNaN(score) || math.IsInf(score, 0)) {
		err = fmt.Errorf("non-finite score %v", score)
	}
	if err != nil {
		metrics.PredictionFailures.WithLabelValues(metrics.ReasonScoring).Inc()
		s.logger.Errorf("Ошибка модели %s: %v", s.scorer.Name(), err)
		return nil, &ScoringError{Model: s.scorer.Name(), Err: err}
	}

	level := classifier.Classify(score)
	metrics.PredictionsTotal.WithLabelValues(level.String()).Inc()

	s.logger.WithFields(logrus.Fields{
		"score":      score,
		"risk_level": level,
		"duration":   elapsed.String(),
	}).Info("Оценка риска выполнена")

	result := &models.RiskResponse{
		AccidentRiskScore: score,
		RiskLevel:         level.String(),
	}

	if s.audit != nil {
		if _, err := s.audit.Record(ctx, req, *result, s.scorer.Name()); err != nil {
			s.logger.Errorf("Не удалось сохранить оценку: %v", err)
		}
	}

	return result, nil
}

// ModelName возвращает имя используемой модели
func (s *PredictionService) ModelName() string {
	return s.scorer.Name()
}

// AuditEnabled сохраняются ли оценки
func (s *PredictionService) AuditEnabled() bool {
	return s.audit != nil
}

// Audit возвращает сервис сохраненных оценок или nil
func (s *PredictionService) Audit() *AssessmentService {
	return s.audit
}

// CheckHealth проверяет состояние сервиса и модели
func (s *PredictionService) CheckHealth(ctx context.Context) *models.HealthResponse {
	health := &models.HealthResponse{
		Status:      "healthy",
		ModelLoaded: true,
		Model:       s.scorer.Name(),
		Version:     ServiceVersion,
	}

	if hc, ok := s.scorer.(scoring.HealthChecker); ok {
		if err := hc.CheckHealth(ctx); err != nil {
			s.logger.Errorf("Модель недоступна: %v", err)
			health.Status = "unhealthy"
			health.ModelLoaded = false
		}
	}
	return health
}
