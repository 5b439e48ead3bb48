package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"road-risk-go/internal/repository"
	"road-risk-go/internal/service"
	"road-risk-go/pkg/models"
)

func TestAssessmentService_RecordAndGet(t *testing.T) {
	audit := service.NewAssessmentService(newMemoryRepository(), quietLogger())
	result := models.RiskResponse{AccidentRiskScore: 0.31, RiskLevel: "Medium"}

	id, err := audit.Record(context.Background(), exampleRequest(), result, "linear-v1")
	require.NoError(t, err)
	assert.Len(t, id, 36)

	got, err := audit.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, result, got.Result)
	assert.Equal(t, "linear-v1", got.Model)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestAssessmentService_NotFound(t *testing.T) {
	audit := service.NewAssessmentService(newMemoryRepository(), quietLogger())
	_, err := audit.GetByID(context.Background(), "missing")
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestAssessmentService_ListPagination(t *testing.T) {
	audit := service.NewAssessmentService(newMemoryRepository(), quietLogger())
	for i := 0; i < 3; i++ {
		_, err := audit.Record(context.Background(), exampleRequest(), models.RiskResponse{RiskLevel: "Low"}, "m")
		require.NoError(t, err)
	}

	page, err := audit.List(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Len(t, page.Assessments, 2)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 2, page.Size)

	page, err = audit.List(context.Background(), 2, 2)
	require.NoError(t, err)
	assert.Len(t, page.Assessments, 1)
}

func TestAssessmentService_RecordError(t *testing.T) {
	repo := newMemoryRepository()
	repo.failErr = errDatabaseDown
	audit := service.NewAssessmentService(repo, quietLogger())

	_, err := audit.Record(context.Background(), exampleRequest(), models.RiskResponse{}, "m")
	assert.True(t, errors.Is(err, errDatabaseDown))

	_, err = audit.List(context.Background(), 1, 10)
	assert.True(t, errors.Is(err, errDatabaseDown))
}
