package encoder

import (
	"math"

	"road-risk-go/pkg/models"
)

// FeatureCount длина вектора признаков модели
const FeatureCount = 12

// Порядок признаков должен в точности совпадать с порядком при обучении модели
var featureNames = [FeatureCount]string{
	"public_road",
	"road_signs_present",
	"lighting",
	"weather",
	"road_type",
	"time_of_day",
	"holiday",
	"school_season",
	"num_reported_accidents",
	"num_lanes",
	"curvature",
	"speed_limit",
}

// category категориальный признак; код значения равен его индексу в values
type category struct {
	field  string
	values []string
}

var (
	lighting  = category{"lighting", []string{models.LightingDaylight, models.LightingDim, models.LightingNight}}
	weather   = category{"weather", []string{models.WeatherClear, models.WeatherRainy, models.WeatherFoggy}}
	roadType  = category{"road_type", []string{models.RoadTypeRural, models.RoadTypeUrban, models.RoadTypeHighway}}
	timeOfDay = category{"time_of_day", []string{models.TimeOfDayMorning, models.TimeOfDayAfternoon, models.TimeOfDayEvening}}
)

func (c category) code(value string) (float64, error) {
	for i, v := range c.values {
		if v == value {
			return float64(i), nil
		}
	}
	allowed := make([]string, len(c.values))
	copy(allowed, c.values)
	return 0, &ValidationError{Kind: InvalidCategory, Field: c.field, Value: value, Allowed: allowed}
}

// FeatureNames возвращает имена признаков в порядке вектора
func FeatureNames() []string {
	names := make([]string, FeatureCount)
	copy(names, featureNames[:])
	return names
}

// AllowedValues возвращает допустимые значения категориального поля
func AllowedValues(field string) []string {
	for _, c := range []category{lighting, weather, roadType, timeOfDay} {
		if c.field == field {
			values := make([]string, len(c.values))
			copy(values, c.values)
			return values
		}
	}
	return nil
}

// Encoder преобразует запрос в числовой вектор признаков
type Encoder struct{}

// NewEncoder создает новый кодировщик
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Encode проверяет запрос и возвращает вектор из FeatureCount элементов
func (e *Encoder) Encode(req models.RiskRequest) ([]float64, error) {
	lightingCode, err := lighting.code(req.Lighting)
	if err != nil {
		return nil, err
	}
	weatherCode, err := weather.code(req.Weather)
	if err != nil {
		return nil, err
	}
	roadTypeCode, err := roadType.code(req.RoadType)
	if err != nil {
		return nil, err
	}
	timeOfDayCode, err := timeOfDay.code(req.TimeOfDay)
	if err != nil {
		return nil, err
	}

	if err := validateRanges(req); err != nil {
		return nil, err
	}

	return []float64{
		boolToFloat(req.PublicRoad),
		boolToFloat(req.RoadSignsPresent),
		lightingCode,
		weatherCode,
		roadTypeCode,
		timeOfDayCode,
		boolToFloat(req.Holiday),
		boolToFloat(req.SchoolSeason),
		float64(req.NumReportedAccidents),
		float64(req.NumLanes),
		req.Curvature,
		req.SpeedLimit,
	}, nil
}

// validateRanges проверяет ограничения числовых полей
func validateRanges(req models.RiskRequest) error {
	if req.NumReportedAccidents < 0 {
		return outOfRange("num_reported_accidents", req.NumReportedAccidents, "must be >= 0")
	}
	if req.NumLanes < 1 {
		return outOfRange("num_lanes", req.NumLanes, "must be >= 1")
	}
	if !isFinite(req.Curvature) || req.Curvature < 0 || req.Curvature > 1 {
		return outOfRange("curvature", req.Curvature, "must be between 0 and 1")
	}
	if !isFinite(req.SpeedLimit) || req.SpeedLimit < 0 {
		return outOfRange("speed_limit", req.SpeedLimit, "must be >= 0")
	}
	return nil
}

func boolToFloat(v bool) float64 {
	if v {
		return 1
	}
	return 0
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
