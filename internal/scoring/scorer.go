package scoring

import (
	"context"
	"fmt"

	"road-risk-go/internal/encoder"
)

// Scorer обученная модель: упорядоченный вектор признаков на входе, оценка на выходе.
// Реализации должны допускать конкурентные вызовы либо оборачиваться в Guard.
type Scorer interface {
	Score(ctx context.Context, features []float64) (float64, error)
	Name() string
}

// HealthChecker реализуют бэкенды, доступность которых можно проверить
type HealthChecker interface {
	CheckHealth(ctx context.Context) error
}

// Func адаптер функции к интерфейсу Scorer
type Func func(ctx context.Context, features []float64) (float64, error)

// Score вызывает функцию
func (f Func) Score(ctx context.Context, features []float64) (float64, error) {
	return f(ctx, features)
}

// Name возвращает имя адаптера
func (f Func) Name() string {
	return "func"
}

func checkLength(features []float64) error {
	if len(features) != encoder.FeatureCount {
		return fmt.Errorf("expected %d features, got %d", encoder.FeatureCount, len(features))
	}
	return nil
}
