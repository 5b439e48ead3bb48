package scoring

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"road-risk-go/internal/encoder"
)

// Типы артефактов модели
const (
	ArtifactLinear       = "linear"
	ArtifactTreeEnsemble = "tree_ensemble"
)

// Artifact файл обученной модели
type Artifact struct {
	Type         string    `json:"type"`
	Name         string    `json:"name"`
	FeatureNames []string  `json:"feature_names,omitempty"`
	Intercept    float64   `json:"intercept,omitempty"`
	Coefficients []float64 `json:"coefficients,omitempty"`
	Aggregation  string    `json:"aggregation,omitempty"`
	BaseScore    float64   `json:"base_score,omitempty"`
	LearningRate float64   `json:"learning_rate,omitempty"`
	Trees        []Tree    `json:"trees,omitempty"`
}

// LoadArtifact загружает модель из файла один раз при старте процесса
func LoadArtifact(path string) (Scorer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model artifact: %w", err)
	}
	scorer, err := ParseArtifact(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load model artifact %s: %w", path, err)
	}
	return scorer, nil
}

// ParseArtifact создает модель из JSON описания артефакта
func ParseArtifact(data []byte) (Scorer, error) {
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to parse artifact: %w", err)
	}

	if len(a.FeatureNames) > 0 {
		if err := checkFeatureOrder(a.FeatureNames); err != nil {
			return nil, err
		}
	}

	name := a.Name
	if name == "" {
		name = a.Type
	}

	switch a.Type {
	case ArtifactLinear:
		return NewLinearModel(name, a.Intercept, a.Coefficients)
	case ArtifactTreeEnsemble:
		return NewTreeEnsemble(name, a.Aggregation, a.BaseScore, a.LearningRate, a.Trees)
	default:
		return nil, fmt.Errorf("unsupported artifact type %q", a.Type)
	}
}

// checkFeatureOrder сверяет порядок признаков артефакта с порядком кодировщика
func checkFeatureOrder(names []string) error {
	expected := encoder.FeatureNames()
	if len(names) != len(expected) {
		return fmt.Errorf("artifact has %d features, encoder produces %d", len(names), len(expected))
	}
	for i := range expected {
		if names[i] != expected[i] {
			return fmt.Errorf("feature order mismatch at %d: artifact [%s], encoder [%s]",
				i, strings.Join(names, ", "), strings.Join(expected, ", "))
		}
	}
	return nil
}
