package encoder

import (
	"bytes"
	"encoding/json"
	"math"
	"regexp"
	"sort"
	"strconv"

	"road-risk-go/pkg/models"
)

// Decode строго разбирает JSON тело запроса: неизвестные и отсутствующие
// поля отклоняются, значения приводятся к объявленным типам.
// Допустимость категорий проверяет Encode.
func (e *Encoder) Decode(body []byte) (*models.RiskRequest, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return nil, &ValidationError{Kind: InvalidRequest, Reason: "request body must be a JSON object"}
	}

	for _, name := range featureNames {
		if _, ok := raw[name]; !ok {
			return nil, &ValidationError{Kind: MissingField, Field: name}
		}
	}

	if len(raw) > FeatureCount {
		known := make(map[string]struct{}, FeatureCount)
		for _, name := range featureNames {
			known[name] = struct{}{}
		}
		var unknown []string
		for key := range raw {
			if _, ok := known[key]; !ok {
				unknown = append(unknown, key)
			}
		}
		sort.Strings(unknown)
		return nil, &ValidationError{Kind: UnknownField, Field: unknown[0]}
	}

	var (
		req models.RiskRequest
		err error
	)
	if req.PublicRoad, err = decodeBool("public_road", raw["public_road"]); err != nil {
		return nil, err
	}
	if req.RoadSignsPresent, err = decodeBool("road_signs_present", raw["road_signs_present"]); err != nil {
		return nil, err
	}
	if req.Lighting, err = decodeString("lighting", raw["lighting"]); err != nil {
		return nil, err
	}
	if req.Weather, err = decodeString("weather", raw["weather"]); err != nil {
		return nil, err
	}
	if req.RoadType, err = decodeString("road_type", raw["road_type"]); err != nil {
		return nil, err
	}
	if req.TimeOfDay, err = decodeString("time_of_day", raw["time_of_day"]); err != nil {
		return nil, err
	}
	if req.Holiday, err = decodeBool("holiday", raw["holiday"]); err != nil {
		return nil, err
	}
	if req.SchoolSeason, err = decodeBool("school_season", raw["school_season"]); err != nil {
		return nil, err
	}
	if req.NumReportedAccidents, err = decodeInt("num_reported_accidents", raw["num_reported_accidents"]); err != nil {
		return nil, err
	}
	if req.NumLanes, err = decodeInt("num_lanes", raw["num_lanes"]); err != nil {
		return nil, err
	}
	if req.Curvature, err = decodeFloat("curvature", raw["curvature"]); err != nil {
		return nil, err
	}
	if req.SpeedLimit, err = decodeFloat("speed_limit", raw["speed_limit"]); err != nil {
		return nil, err
	}

	return &req, nil
}

// numberSyntax десятичная запись числа в формате JSON; hex, "_" и "Inf" не допускаются
var numberSyntax = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// numberText возвращает текст числа из json.Number или числовой строки
func numberText(v interface{}) (string, bool) {
	switch n := v.(type) {
	case json.Number:
		return n.String(), true
	case string:
		return n, numberSyntax.MatchString(n)
	default:
		return "", false
	}
}

// rawValue разбирает значение поля, сохраняя числа как json.Number
func rawValue(raw json.RawMessage) interface{} {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return string(raw)
	}
	return v
}

func decodeBool(field string, raw json.RawMessage) (bool, error) {
	switch v := rawValue(raw).(type) {
	case bool:
		return v, nil
	case json.Number:
		switch v.String() {
		case "0":
			return false, nil
		case "1":
			return true, nil
		}
		return false, invalidType(field, v, "a boolean")
	case string:
		switch v {
		case "true", "1":
			return true, nil
		case "false", "0":
			return false, nil
		}
		return false, invalidType(field, v, "a boolean")
	default:
		return false, invalidType(field, v, "a boolean")
	}
}

func decodeString(field string, raw json.RawMessage) (string, error) {
	v := rawValue(raw)
	s, ok := v.(string)
	if !ok {
		return "", invalidType(field, v, "a string")
	}
	return s, nil
}

func decodeInt(field string, raw json.RawMessage) (int, error) {
	v := rawValue(raw)
	text, ok := numberText(v)
	if !ok {
		return 0, invalidType(field, v, "an integer")
	}

	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		if i > math.MaxInt32 || i < math.MinInt32 {
			return 0, invalidType(field, v, "an integer")
		}
		return int(i), nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || !isFinite(f) || f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, invalidType(field, v, "an integer")
	}
	return int(f), nil
}

func decodeFloat(field string, raw json.RawMessage) (float64, error) {
	v := rawValue(raw)
	text, ok := numberText(v)
	if !ok {
		return 0, invalidType(field, v, "a number")
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil || !isFinite(f) {
		return 0, invalidType(field, v, "a number")
	}
	return f, nil
}
