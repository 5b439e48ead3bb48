package model

import (
	"time"
)

// Assessment представляет сохраненную оценку риска в базе данных
type Assessment struct {
	ID string `gorm:"primaryKey;type:varchar(36)" json:"id"`

	// Исходные признаки запроса
	PublicRoad           bool    `gorm:"not null" json:"public_road"`
	RoadSignsPresent     bool    `gorm:"not null" json:"road_signs_present"`
	Lighting             string  `gorm:"type:varchar(16);not null" json:"lighting"`
	Weather              string  `gorm:"type:varchar(16);not null" json:"weather"`
	RoadType             string  `gorm:"type:varchar(16);not null" json:"road_type"`
	TimeOfDay            string  `gorm:"type:varchar(16);not null" json:"time_of_day"`
	Holiday              bool    `gorm:"not null" json:"holiday"`
	SchoolSeason         bool    `gorm:"not null" json:"school_season"`
	NumReportedAccidents int     `gorm:"not null" json:"num_reported_accidents"`
	NumLanes             int     `gorm:"not null" json:"num_lanes"`
	Curvature            float64 `gorm:"not null" json:"curvature"`
	SpeedLimit           float64 `gorm:"not null" json:"speed_limit"`

	// Результат
	RiskScore float64 `gorm:"not null" json:"risk_score"`
	RiskLevel string  `gorm:"type:varchar(8);not null;index" json:"risk_level"`
	Model     string  `gorm:"type:varchar(255)" json:"model"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// TableName указывает имя таблицы для Assessment
func (Assessment) TableName() string {
	return "assessments"
}
