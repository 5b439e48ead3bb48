package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"road-risk-go/internal/model"
)

// ErrNotFound запись не найдена
var ErrNotFound = errors.New("assessment not found")

// AssessmentRepository интерфейс для работы с сохраненными оценками
type AssessmentRepository interface {
	Create(ctx context.Context, assessment *model.Assessment) error
	GetByID(ctx context.Context, id string) (*model.Assessment, error)
	List(ctx context.Context, page, pageSize int) ([]*model.Assessment, int64, error)
}

// assessmentRepository реализация AssessmentRepository
type assessmentRepository struct {
	db *gorm.DB
}

// NewAssessmentRepository создает новый instance AssessmentRepository
func NewAssessmentRepository(db *gorm.DB) AssessmentRepository {
	return &assessmentRepository{
		db: db,
	}
}

// Create сохраняет оценку в базе данных
func (r *assessmentRepository) Create(ctx context.Context, assessment *model.Assessment) error {
	if err := r.db.WithContext(ctx).Create(assessment).Error; err != nil {
		return fmt.Errorf("failed to create assessment: %w", err)
	}
	return nil
}

// GetByID получает оценку по ID
func (r *assessmentRepository) GetByID(ctx context.Context, id string) (*model.Assessment, error) {
	var assessment model.Assessment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&assessment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("assessment with id %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}
	return &assessment, nil
}

// List получает список оценок с пагинацией, новые первыми
func (r *assessmentRepository) List(ctx context.Context, page, pageSize int) ([]*model.Assessment, int64, error) {
	var assessments []*model.Assessment
	var total int64

	// Подсчитываем общее количество
	if err := r.db.WithContext(ctx).Model(&model.Assessment{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count assessments: %w", err)
	}

	offset := (page - 1) * pageSize
	err := r.db.WithContext(ctx).
		Offset(offset).
		Limit(pageSize).
		Order("created_at DESC").
		Find(&assessments).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list assessments: %w", err)
	}

	return assessments, total, nil
}
