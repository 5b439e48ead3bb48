package encoder_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"road-risk-go/internal/encoder"
)

const exampleBody = `{
	"public_road": true,
	"road_signs_present": false,
	"lighting": "night",
	"weather": "foggy",
	"road_type": "highway",
	"time_of_day": "evening",
	"holiday": false,
	"school_season": true,
	"num_reported_accidents": 3,
	"num_lanes": 4,
	"curvature": 0.65,
	"speed_limit": 100
}`

func decodeErr(t *testing.T, body string) *encoder.ValidationError {
	t.Helper()
	req, err := encoder.NewEncoder().Decode([]byte(body))
	assert.Nil(t, req)
	var verr *encoder.ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	return verr
}

func TestDecode_Example(t *testing.T) {
	req, err := encoder.NewEncoder().Decode([]byte(exampleBody))
	require.NoError(t, err)
	assert.Equal(t, validRequest(), *req)
}

func TestDecode_FieldOrderIrrelevant(t *testing.T) {
	body := `{"speed_limit": 100, "curvature": 0.65, "num_lanes": 4, "num_reported_accidents": 3,
		"school_season": true, "holiday": false, "time_of_day": "evening", "road_type": "highway",
		"weather": "foggy", "lighting": "night", "road_signs_present": false, "public_road": true}`

	enc := encoder.NewEncoder()
	req, err := enc.Decode([]byte(body))
	require.NoError(t, err)
	vec, err := enc.Encode(*req)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0, 2, 2, 2, 2, 0, 1, 3, 4, 0.65, 100}, vec)
}

func TestDecode_Coercion(t *testing.T) {
	body := `{
		"public_road": 1,
		"road_signs_present": "false",
		"lighting": "dim",
		"weather": "rainy",
		"road_type": "urban",
		"time_of_day": "morning",
		"holiday": 0,
		"school_season": "1",
		"num_reported_accidents": "2",
		"num_lanes": 3.0,
		"curvature": "0.25",
		"speed_limit": 60
	}`
	req, err := encoder.NewEncoder().Decode([]byte(body))
	require.NoError(t, err)
	assert.True(t, req.PublicRoad)
	assert.False(t, req.RoadSignsPresent)
	assert.False(t, req.Holiday)
	assert.True(t, req.SchoolSeason)
	assert.Equal(t, 2, req.NumReportedAccidents)
	assert.Equal(t, 3, req.NumLanes)
	assert.Equal(t, 0.25, req.Curvature)
	assert.Equal(t, 60.0, req.SpeedLimit)
}

func TestDecode_NotAnObject(t *testing.T) {
	for _, body := range []string{``, `null`, `[]`, `"text"`, `{"public_road": }`} {
		verr := decodeErr(t, body)
		assert.Equal(t, encoder.InvalidRequest, verr.Kind, "body %q", body)
	}
}

func TestDecode_MissingField(t *testing.T) {
	verr := decodeErr(t, `{"public_road": true}`)
	assert.Equal(t, encoder.MissingField, verr.Kind)
	assert.Equal(t, "road_signs_present", verr.Field)
}

func TestDecode_UnknownField(t *testing.T) {
	body := exampleBody[:len(exampleBody)-1] + `, "zeta": 1, "alpha": 2}`
	verr := decodeErr(t, body)
	assert.Equal(t, encoder.UnknownField, verr.Kind)
	assert.Equal(t, "alpha", verr.Field)
}

func TestDecode_InvalidType(t *testing.T) {
	tests := []struct {
		field string
		value string
	}{
		{"public_road", `"maybe"`},
		{"holiday", `2`},
		{"school_season", `null`},
		{"lighting", `2`},
		{"weather", `true`},
		{"num_reported_accidents", `1.5`},
		{"num_lanes", `"four"`},
		{"num_lanes", `[4]`},
		{"curvature", `"NaN"`},
		{"speed_limit", `false`},
	}
	for _, tt := range tests {
		t.Run(tt.field+"="+tt.value, func(t *testing.T) {
			body := replaceField(t, tt.field, tt.value)
			verr := decodeErr(t, body)
			assert.Equal(t, encoder.InvalidType, verr.Kind)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestDecode_DoesNotCheckCategories(t *testing.T) {
	enc := encoder.NewEncoder()
	req, err := enc.Decode([]byte(replaceField(t, "weather", `"snowy"`)))
	require.NoError(t, err)
	assert.Equal(t, "snowy", req.Weather)

	_, err = enc.Encode(*req)
	var verr *encoder.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, encoder.InvalidCategory, verr.Kind)
}

// replaceField собирает тело запроса из примера с одним измененным полем
func replaceField(t *testing.T, field, value string) string {
	t.Helper()
	values := map[string]string{
		"public_road":            `true`,
		"road_signs_present":     `false`,
		"lighting":               `"night"`,
		"weather":                `"foggy"`,
		"road_type":              `"highway"`,
		"time_of_day":            `"evening"`,
		"holiday":                `false`,
		"school_season":          `true`,
		"num_reported_accidents": `3`,
		"num_lanes":              `4`,
		"curvature":              `0.65`,
		"speed_limit":            `100`,
	}
	_, ok := values[field]
	require.True(t, ok, "unknown field %s", field)
	values[field] = value

	body := "{"
	for i, name := range encoder.FeatureNames() {
		if i > 0 {
			body += ","
		}
		body += `"` + name + `":` + values[name]
	}
	return body + "}"
}

func TestDecode_IntegerBounds(t *testing.T) {
	for _, value := range []string{`3000000000`, `3e9`, `"3000000000"`, `-3000000000`} {
		t.Run(value, func(t *testing.T) {
			verr := decodeErr(t, replaceField(t, "num_reported_accidents", value))
			assert.Equal(t, encoder.InvalidType, verr.Kind)
			assert.Equal(t, "num_reported_accidents", verr.Field)
		})
	}

	req, err := encoder.NewEncoder().Decode([]byte(replaceField(t, "num_reported_accidents", `2147483647`)))
	require.NoError(t, err)
	assert.Equal(t, 2147483647, req.NumReportedAccidents)
}

func TestDecode_NumericStringsAreDecimal(t *testing.T) {
	tests := []struct {
		field string
		value string
	}{
		{"curvature", `"0x1p-1"`},
		{"curvature", `"0_5"`},
		{"curvature", `"Inf"`},
		{"curvature", `" 0.5"`},
		{"speed_limit", `"+60"`},
		{"num_lanes", `"0x4"`},
		{"num_lanes", `"1_0"`},
	}
	for _, tt := range tests {
		t.Run(tt.field+"="+tt.value, func(t *testing.T) {
			verr := decodeErr(t, replaceField(t, tt.field, tt.value))
			assert.Equal(t, encoder.InvalidType, verr.Kind)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	req, err := encoder.NewEncoder().Decode([]byte(replaceField(t, "curvature", `"5e-1"`)))
	require.NoError(t, err)
	assert.Equal(t, 0.5, req.Curvature)
}
