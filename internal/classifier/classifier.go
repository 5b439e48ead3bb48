package classifier

// Level уровень риска аварии
type Level string

const (
	Low    Level = "Low"
	Medium Level = "Medium"
	High   Level = "High"
)

// Пороги уровней: нижняя граница включается в уровень
const (
	MediumThreshold = 0.3
	HighThreshold   = 0.6
)

// Classify переводит оценку модели в уровень риска.
// Оценка вне диапазона 0..1 не ограничивается.
func Classify(score float64) Level {
	switch {
	case score < MediumThreshold:
		return Low
	case score < HighThreshold:
		return Medium
	default:
		return High
	}
}

// String возвращает строковое представление уровня
func (l Level) String() string {
	return string(l)
}
