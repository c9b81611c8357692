package export

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitexport/internal/fitbit"
)

func decode(t *testing.T, s string) map[string]any {
	t.Helper()
	var m map[string]any
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	require.NoError(t, dec.Decode(&m))
	return m
}

func lines(s string) []string {
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func TestToCSV(t *testing.T) {
	headers := []string{"a", "b", "c"}

	t.Run("Header plus one line per row", func(t *testing.T) {
		rows := [][]string{{"1", "2", "3"}, {"4", "", "6"}}
		out := ToCSV(rows, headers)

		assert.Equal(t, "a,b,c\n1,2,3\n4,,6\n", out)
		got := lines(out)
		require.Len(t, got, len(rows)+1)
		for _, l := range got {
			assert.Len(t, strings.Split(l, ","), len(headers))
		}
	})

	t.Run("No rows", func(t *testing.T) {
		assert.Equal(t, "a,b,c\n", ToCSV(nil, headers))
	})
}

func TestFlatten(t *testing.T) {
	cols := []Column{
		{Name: "date", Path: "dateOfSleep"},
		{Name: "main", Path: "isMainSleep"},
		{Name: "deep", Path: "levels.summary.deep.minutes"},
		{Name: "rem", Path: "levels.summary.rem.minutes"},
		{Name: "levels", Path: "levels"},
		{Name: "through", Path: "dateOfSleep.nested"},
	}
	rec := decode(t, `{"dateOfSleep":"2023-10-31","isMainSleep":true,"levels":{"summary":{"deep":{"minutes":73}}}}`)

	assert.Equal(t, []string{"2023-10-31", "true", "73", "", "", ""}, Flatten(rec, cols))
}

func TestScalar(t *testing.T) {
	assert.Equal(t, "92.5", scalar(json.Number("92.5")))
	assert.Equal(t, "3", scalar(float64(3)))
	assert.Equal(t, "false", scalar(false))
	assert.Equal(t, "", scalar(nil))
	assert.Equal(t, "", scalar([]any{"x"}))
}

func TestDefaultMetrics_Columns(t *testing.T) {
	byName := map[string]Metric{}
	for _, m := range DefaultMetrics("1.2") {
		byName[m.Name] = m
	}

	assert.Len(t, byName["sleep"].Columns, 33)
	assert.Len(t, byName["heart-rate"].Columns, 22)
	assert.Len(t, byName["hrv"].Columns, 3)
	assert.Equal(t, "1.2", byName["sleep"].Version)
	assert.Equal(t, "1", byName["hrv"].Version)

	for name, m := range byName {
		seen := map[string]bool{}
		for _, h := range m.Headers() {
			assert.False(t, seen[h], "%s: duplicate header %s", name, h)
			seen[h] = true
		}
	}
}

const heartRateDay = `{
	"dateTime": "2023-10-30",
	"value": {
		"restingHeartRate": 61,
		"heartRateZones": [
			{"name": "Peak", "min": 160, "max": 220, "minutes": 2, "caloriesOut": 25.1},
			{"name": "Cardio", "min": 130, "max": 160, "minutes": 11, "caloriesOut": 104.7},
			{"name": "Fat Burn", "min": 98, "max": 130, "minutes": 64},
			{"name": "Out of Range", "min": 30, "max": 98, "minutes": 1363, "caloriesOut": 1900.3}
		]
	}
}`

func TestIndexHeartRateZones(t *testing.T) {
	m := DefaultMetrics("1")[1]
	require.Equal(t, "heart-rate", m.Name)

	t.Run("Zones are matched by name", func(t *testing.T) {
		rec := decode(t, heartRateDay)
		require.NoError(t, m.Prepare(rec))

		row := Flatten(rec, m.Columns)
		require.Len(t, row, len(m.Columns))
		assert.Equal(t, []string{
			"2023-10-30", "61",
			"Out of Range", "30", "98", "1363", "1900.3",
			"Fat Burn", "98", "130", "64", "",
			"Cardio", "130", "160", "11", "104.7",
			"Peak", "160", "220", "2", "25.1",
		}, row)
	})

	t.Run("Missing zone", func(t *testing.T) {
		rec := decode(t, `{"dateTime":"2023-10-30","value":{"heartRateZones":[{"name":"Out of Range"},{"name":"Fat Burn"},{"name":"Cardio"}]}}`)
		err := m.Prepare(rec)
		assert.ErrorIs(t, err, fitbit.ErrMalformedResponse)
		assert.Contains(t, err.Error(), "Peak")
	})

	t.Run("No value object", func(t *testing.T) {
		rec := decode(t, `{"dateTime":"2023-10-30"}`)
		assert.ErrorIs(t, m.Prepare(rec), fitbit.ErrMalformedResponse)
	})
}
