package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"road-risk-go/internal/model"
	"road-risk-go/internal/repository"
	"road-risk-go/pkg/models"
)

// AssessmentService сервис для работы с сохраненными оценками
type AssessmentService struct {
	repo   repository.AssessmentRepository
	logger *logrus.Logger
	now    func() time.Time
}

// NewAssessmentService создает новый сервис сохраненных оценок
func NewAssessmentService(repo repository.AssessmentRepository, logger *logrus.Logger) *AssessmentService {
	return &AssessmentService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// Record сохраняет результат оценки
func (s *AssessmentService) Record(ctx context.Context, req models.RiskRequest, result models.RiskResponse, modelName string) (string, error) {
	assessment := &model.Assessment{
		ID:                   uuid.New().String(),
		PublicRoad:           req.PublicRoad,
		RoadSignsPresent:     req.RoadSignsPresent,
		Lighting:             req.Lighting,
		Weather:              req.Weather,
		RoadType:             req.RoadType,
		TimeOfDay:            req.TimeOfDay,
		Holiday:              req.Holiday,
		SchoolSeason:         req.SchoolSeason,
		NumReportedAccidents: req.NumReportedAccidents,
		NumLanes:             req.NumLanes,
		Curvature:            req.Curvature,
		SpeedLimit:           req.SpeedLimit,
		RiskScore:            result.AccidentRiskScore,
		RiskLevel:            result.RiskLevel,
		Model:                modelName,
		CreatedAt:            s.now().UTC(),
	}

	if err := s.repo.Create(ctx, assessment); err != nil {
		return "", fmt.Errorf("failed to save assessment: %w", err)
	}

	s.logger.Debugf("Оценка %s сохранена", assessment.ID)
	return assessment.ID, nil
}

// GetByID получает оценку по ID
func (s *AssessmentService) GetByID(ctx context.Context, id string) (*models.AssessmentResponse, error) {
	assessment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}
	return modelToResponse(assessment), nil
}

// List получает список оценок с пагинацией
func (s *AssessmentService) List(ctx context.Context, page, pageSize int) (*models.ListAssessmentsResponse, error) {
	assessments, total, err := s.repo.List(ctx, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}

	responses := make([]models.AssessmentResponse, len(assessments))
	for i, a := range assessments {
		responses[i] = *modelToResponse(a)
	}

	s.logger.Debugf("Получено %d оценок из %d", len(responses), total)
	return &models.ListAssessmentsResponse{
		Assessments: responses,
		Total:       total,
		Page:        page,
		Size:        pageSize,
	}, nil
}

// modelToResponse преобразует модель базы данных в ответ API
func modelToResponse(a *model.Assessment) *models.AssessmentResponse {
	return &models.AssessmentResponse{
		ID: a.ID,
		Request: models.RiskRequest{
			PublicRoad:           a.PublicRoad,
			RoadSignsPresent:     a.RoadSignsPresent,
			Lighting:             a.Lighting,
			Weather:              a.Weather,
			RoadType:             a.RoadType,
			TimeOfDay:            a.TimeOfDay,
			Holiday:              a.Holiday,
			SchoolSeason:         a.SchoolSeason,
			NumReportedAccidents: a.NumReportedAccidents,
			NumLanes:             a.NumLanes,
			Curvature:            a.Curvature,
			SpeedLimit:           a.SpeedLimit,
		},
		Result: models.RiskResponse{
			AccidentRiskScore: a.RiskScore,
			RiskLevel:         a.RiskLevel,
		},
		Model:     a.Model,
		CreatedAt: a.CreatedAt,
	}
}
