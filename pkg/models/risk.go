package models

import "time"

// Значения категориальных признаков
const (
	LightingDaylight = "daylight"
	LightingDim      = "dim"
	LightingNight    = "night"

	WeatherClear = "clear"
	WeatherRainy = "rainy"
	WeatherFoggy = "foggy"

	RoadTypeRural   = "rural"
	RoadTypeUrban   = "urban"
	RoadTypeHighway = "highway"

	TimeOfDayMorning   = "morning"
	TimeOfDayAfternoon = "afternoon"
	TimeOfDayEvening   = "evening"
)

// RiskRequest представляет запрос на оценку риска аварии
type RiskRequest struct {
	PublicRoad           bool    `json:"public_road"`            // Дорога общего пользования
	RoadSignsPresent     bool    `json:"road_signs_present"`     // Наличие дорожных знаков
	Lighting             string  `json:"lighting"`               // daylight / dim / night
	Weather              string  `json:"weather"`                // clear / rainy / foggy
	RoadType             string  `json:"road_type"`              // rural / urban / highway
	TimeOfDay            string  `json:"time_of_day"`            // morning / afternoon / evening
	Holiday              bool    `json:"holiday"`                // Праздничный день
	SchoolSeason         bool    `json:"school_season"`          // Учебный сезон
	NumReportedAccidents int     `json:"num_reported_accidents"` // Зарегистрированные аварии в районе
	NumLanes             int     `json:"num_lanes"`              // Количество полос
	Curvature            float64 `json:"curvature"`              // Кривизна дороги (0 - прямая, 1 - очень извилистая)
	SpeedLimit           float64 `json:"speed_limit"`            // Ограничение скорости, км/ч
}

// RiskResponse представляет результат оценки риска
type RiskResponse struct {
	AccidentRiskScore float64 `json:"accident_risk_score"` // Выход модели, не ограничивается диапазоном 0..1
	RiskLevel         string  `json:"risk_level"`          // Low / Medium / High
}

// ErrorResponse единый формат ошибки API
type ErrorResponse struct {
	Error string      `json:"error"`           // Текст ошибки
	Code  string      `json:"code"`            // Машиночитаемый код ошибки
	Field string      `json:"field,omitempty"` // Поле запроса, вызвавшее ошибку
	Value interface{} `json:"value,omitempty"` // Недопустимое значение
}

// MessageResponse ответ проверки доступности сервиса
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse представляет ответ проверки здоровья сервиса
type HealthResponse struct {
	Status      string `json:"status"`       // Статус сервиса (healthy/unhealthy)
	ModelLoaded bool   `json:"model_loaded"` // Загружена ли модель
	Model       string `json:"model"`        // Имя бэкенда модели
	Version     string `json:"version"`      // Версия сервиса
}

// AssessmentResponse сохраненная оценка риска
type AssessmentResponse struct {
	ID        string       `json:"id"`
	Request   RiskRequest  `json:"request"`
	Result    RiskResponse `json:"result"`
	Model     string       `json:"model"`
	CreatedAt time.Time    `json:"created_at"`
}

// ListAssessmentsResponse ответ со списком оценок
type ListAssessmentsResponse struct {
	Assessments []AssessmentResponse `json:"assessments"`
	Total       int64                `json:"total"`
	Page        int                  `json:"page"`
	Size        int                  `json:"size"`
}
