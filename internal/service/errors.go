package service

import "fmt"

// ScoringError ошибка вызова модели; повторные попытки не выполняются
type ScoringError struct {
	Model string
	Err   error
}

func (e *ScoringError) Error() string {
	return fmt.Sprintf("model %s scoring failed: %v", e.Model, e.Err)
}

func (e *ScoringError) Unwrap() error {
	return e.Err
}
