package scoring

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"road-risk-go/internal/encoder"
)

// LinearModel линейная регрессия: intercept + <coefficients, x>
type LinearModel struct {
	name         string
	intercept    float64
	coefficients []float64
}

// NewLinearModel создает линейную модель
func NewLinearModel(name string, intercept float64, coefficients []float64) (*LinearModel, error) {
	if len(coefficients) != encoder.FeatureCount {
		return nil, fmt.Errorf("linear model %q: expected %d coefficients, got %d", name, encoder.FeatureCount, len(coefficients))
	}
	coef := make([]float64, len(coefficients))
	copy(coef, coefficients)
	return &LinearModel{name: name, intercept: intercept, coefficients: coef}, nil
}

// Score вычисляет оценку
func (m *LinearModel) Score(_ context.Context, features []float64) (float64, error) {
	if err := checkLength(features); err != nil {
		return 0, err
	}
	return m.intercept + floats.Dot(m.coefficients, features), nil
}

// Name возвращает имя модели
func (m *LinearModel) Name() string {
	return m.name
}
