package scoring

import (
	"context"
	"fmt"

	"road-risk-go/internal/encoder"
)

// Способы агрегации деревьев ансамбля
const (
	AggregationSum  = "sum"  // градиентный бустинг: base_score + learning_rate * Σ
	AggregationMean = "mean" // случайный лес: среднее по деревьям
)

// TreeNode узел регрессионного дерева.
// Переход влево, если x[Feature] <= Threshold.
type TreeNode struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Leaf      bool    `json:"leaf"`
	Value     float64 `json:"value"`
}

// Tree регрессионное дерево, корень - узел 0
type Tree struct {
	Nodes []TreeNode `json:"nodes"`
}

// TreeEnsemble ансамбль регрессионных деревьев
type TreeEnsemble struct {
	name         string
	aggregation  string
	baseScore    float64
	learningRate float64
	trees        []Tree
}

// NewTreeEnsemble проверяет структуру деревьев и создает ансамбль
func NewTreeEnsemble(name, aggregation string, baseScore, learningRate float64, trees []Tree) (*TreeEnsemble, error) {
	switch aggregation {
	case "":
		aggregation = AggregationSum
	case AggregationSum, AggregationMean:
	default:
		return nil, fmt.Errorf("tree ensemble %q: unknown aggregation %q", name, aggregation)
	}
	if len(trees) == 0 {
		return nil, fmt.Errorf("tree ensemble %q: no trees", name)
	}
	if aggregation == AggregationSum && learningRate == 0 {
		learningRate = 1
	}

	for i, tree := range trees {
		if err := validateTree(tree); err != nil {
			return nil, fmt.Errorf("tree ensemble %q: tree %d: %w", name, i, err)
		}
	}

	return &TreeEnsemble{
		name:         name,
		aggregation:  aggregation,
		baseScore:    baseScore,
		learningRate: learningRate,
		trees:        trees,
	}, nil
}

// validateTree гарантирует завершение обхода: дочерние узлы всегда имеют больший индекс
func validateTree(tree Tree) error {
	if len(tree.Nodes) == 0 {
		return fmt.Errorf("empty tree")
	}
	for i, node := range tree.Nodes {
		if node.Leaf {
			continue
		}
		if node.Feature < 0 || node.Feature >= encoder.FeatureCount {
			return fmt.Errorf("node %d: feature index %d out of range", i, node.Feature)
		}
		for _, child := range []int{node.Left, node.Right} {
			if child <= i || child >= len(tree.Nodes) {
				return fmt.Errorf("node %d: invalid child index %d", i, child)
			}
		}
	}
	return nil
}

func (t Tree) predict(features []float64) float64 {
	i := 0
	for {
		node := t.Nodes[i]
		if node.Leaf {
			return node.Value
		}
		if features[node.Feature] <= node.Threshold {
			i = node.Left
		} else {
			i = node.Right
		}
	}
}

// Score вычисляет оценку ансамбля
func (e *TreeEnsemble) Score(_ context.Context, features []float64) (float64, error) {
	if err := checkLength(features); err != nil {
		return 0, err
	}

	sum := 0.0
	for _, tree := range e.trees {
		sum += tree.predict(features)
	}

	if e.aggregation == AggregationMean {
		return sum / float64(len(e.trees)), nil
	}
	return e.baseScore + e.learningRate*sum, nil
}

// Name возвращает имя модели
func (e *TreeEnsemble) Name() string {
	return e.name
}
