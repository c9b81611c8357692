package export

import (
	"fmt"
	"strings"

	"fitexport/internal/fitbit"
)

// Metric describes one exported series: where to fetch it, how to window the
// date range, which key holds the records and how a record becomes a CSV row.
type Metric struct {
	Name     string
	Version  string
	Endpoint string
	Key      string
	Window   Window
	Columns  []Column

	// Prepare, if set, runs on every record before it is flattened.
	Prepare func(record map[string]any) error
}

func (m Metric) Headers() []string {
	h := make([]string, len(m.Columns))
	for i, c := range m.Columns {
		h[i] = c.Name
	}
	return h
}

// DefaultMetrics returns sleep, heart rate and HRV. apiVersion applies to sleep only;
// the other endpoints are only served under version 1.
func DefaultMetrics(apiVersion string) []Metric {
	return []Metric{
		{
			Name:     "sleep",
			Version:  apiVersion,
			Endpoint: "sleep/date",
			Key:      "sleep",
			Window:   Window{Days: 100, Segments: 1},
			Columns:  sleepColumns(),
		},
		{
			Name:     "heart-rate",
			Version:  "1",
			Endpoint: "activities/heart/date",
			Key:      "activities-heart",
			Window:   Window{Days: 100, Segments: 1},
			Columns:  heartRateColumns(),
			Prepare:  indexHeartRateZones,
		},
		{
			Name:     "hrv",
			Version:  "1",
			Endpoint: "hrv/date",
			Key:      "hrv",
			Window:   Window{Days: 30, Segments: 3},
			Columns: []Column{
				{Name: "dateTime", Path: "dateTime"},
				{Name: "dailyRmssd", Path: "value.dailyRmssd"},
				{Name: "deepRmssd", Path: "value.deepRmssd"},
			},
		},
	}
}

func sleepColumns() []Column {
	var cols []Column
	for _, f := range []string{
		"dateOfSleep", "duration", "efficiency", "endTime", "infoCode",
		"isMainSleep", "logId", "logType", "minutesAfterWakeup", "minutesAsleep",
		"minutesAwake", "minutesToFallAsleep", "startTime", "timeInBed", "type",
	} {
		cols = append(cols, Column{Name: f, Path: f})
	}

	// "stages" logs
	for _, stage := range []string{"deep", "light", "rem", "wake"} {
		for _, f := range []string{"count", "minutes", "thirtyDayAvgMinutes"} {
			cols = append(cols, Column{Name: stage + title(f), Path: "levels.summary." + stage + "." + f})
		}
	}
	// "classic" logs
	for _, stage := range []string{"asleep", "awake", "restless"} {
		for _, f := range []string{"count", "minutes"} {
			cols = append(cols, Column{Name: stage + title(f), Path: "levels.summary." + stage + "." + f})
		}
	}
	return cols
}

type heartRateZone struct {
	Name string // as sent by Fitbit
	Key  string
}

var heartRateZones = []heartRateZone{
	{Name: "Out of Range", Key: "outOfRange"},
	{Name: "Fat Burn", Key: "fatBurn"},
	{Name: "Cardio", Key: "cardio"},
	{Name: "Peak", Key: "peak"},
}

func heartRateColumns() []Column {
	cols := []Column{
		{Name: "dateTime", Path: "dateTime"},
		{Name: "restingHeartRate", Path: "value.restingHeartRate"},
	}
	for _, z := range heartRateZones {
		for _, f := range []string{"name", "min", "max", "minutes", "caloriesOut"} {
			cols = append(cols, Column{Name: z.Key + title(f), Path: "value.zones." + z.Key + "." + f})
		}
	}
	return cols
}

// indexHeartRateZones re-keys value.heartRateZones by zone name under value.zones so
// columns never depend on the order Fitbit lists the zones in.
func indexHeartRateZones(record map[string]any) error {
	value, _ := record["value"].(map[string]any)
	list, _ := value["heartRateZones"].([]any)

	byName := make(map[string]any, len(list))
	for _, z := range list {
		zone, ok := z.(map[string]any)
		if !ok {
			continue
		}
		if name, ok := zone["name"].(string); ok {
			byName[name] = zone
		}
	}

	zones := make(map[string]any, len(heartRateZones))
	for _, z := range heartRateZones {
		zone, ok := byName[z.Name]
		if !ok {
			return fmt.Errorf("%w: %v: heart rate zone %q missing", fitbit.ErrMalformedResponse, record["dateTime"], z.Name)
		}
		zones[z.Key] = zone
	}
	value["zones"] = zones
	return nil
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
