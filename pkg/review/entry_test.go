package review

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	date := time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC)
	e := New(date, "ken", WeatherRainy, "calm", Reflection{FreeWriting: "a quiet day"})

	require.NotEqual(t, uuid.Nil, e.ID)
	require.Equal(t, date, e.Date)
	require.Equal(t, "ken", e.UserName)
	require.Equal(t, WeatherRainy, e.Weather)
	require.Equal(t, "calm", e.MoodBase)
	require.Equal(t, e.CreatedAt, e.UpdatedAt)
	require.False(t, e.HasAnalysis())

	t.Run("unique identifiers", func(t *testing.T) {
		other := New(date, "ken", WeatherRainy, "calm", Reflection{})
		require.NotEqual(t, e.ID, other.ID)
	})

	t.Run("invalid weather falls back to sunny", func(t *testing.T) {
		e := New(date, "", Weather("tornado"), "", Reflection{})
		require.Equal(t, WeatherSunny, e.Weather)
	})
}

func TestCompletionPercentage(t *testing.T) {
	tests := []struct {
		name string
		r    Reflection
		want float64
	}{
		{"empty", Reflection{}, 0},
		{"whitespace only", Reflection{EnergySource: "  \n\t "}, 0},
		{
			"three of nine",
			Reflection{
				FreeWriting:               "wrote freely",
				CognitiveBreakthroughGood: "noticed a new habit",
				CognitiveBreakthroughBad:  "caught an old pattern",
			},
			3.0 / 9.0,
		},
		{
			"all nine",
			Reflection{
				EnergySource: "a", TimeObservation: "b", EmotionExploration: "c",
				CognitiveBreakthroughGood: "d", CognitiveBreakthroughBad: "e",
				TomorrowPlanAvoid: "f", TomorrowPlanSeed: "g",
				FreeWriting: "h", DailyMetaphor: "i",
			},
			1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Entry{Reflection: tt.r}
			require.InDelta(t, tt.want, e.CompletionPercentage(), 1e-9)
		})
	}
}

func TestStatus(t *testing.T) {
	require.Equal(t, StatusNotStarted, Entry{}.Status())
	require.Equal(t, StatusInProgress, Entry{Reflection: Reflection{FreeWriting: "x"}}.Status())

	full := Reflection{
		EnergySource: "a", TimeObservation: "b", EmotionExploration: "c",
		CognitiveBreakthroughGood: "d", CognitiveBreakthroughBad: "e",
		TomorrowPlanAvoid: "f", TomorrowPlanSeed: "g",
		FreeWriting: "h", DailyMetaphor: "i",
	}
	require.Equal(t, StatusCompleted, Entry{Reflection: full}.Status())
	require.Equal(t, "completed", StatusCompleted.String())
}

func TestWithAnalysis(t *testing.T) {
	e := New(time.Now(), "ken", WeatherSunny, "", Reflection{})

	updated := e.WithAnalysis("a thoughtful read of the day")
	require.True(t, updated.HasAnalysis())
	require.Equal(t, e.ID, updated.ID)
	require.False(t, updated.UpdatedAt.Before(e.UpdatedAt))

	// The original value is untouched.
	require.False(t, e.HasAnalysis())
}

func TestWeather(t *testing.T) {
	for _, w := range AllWeathers() {
		require.True(t, w.Valid())
		require.NotEqual(t, "Unknown", w.Label())
	}
	require.False(t, Weather("tornado").Valid())
	require.Equal(t, "Sunny", WeatherSunny.Label())
}

func TestEntryJSONRoundTrip(t *testing.T) {
	e := New(
		time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		"ken", WeatherFoggy, "wistful",
		Reflection{DailyMetaphor: "a sleeping dragon", FreeWriting: "long walk"},
	)

	data, err := json.Marshal(e)
	require.NoError(t, err)

	// Identifier serializes as a string-form UUID, dates as ISO-8601, and an
	// absent analysis is omitted entirely.
	require.Contains(t, string(data), `"id":"`+e.ID.String()+`"`)
	require.Contains(t, string(data), `"date":"2026-08-28T00:00:00Z"`)
	require.NotContains(t, string(data), "aiAnalysis")

	var decoded Entry
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, e.ID, decoded.ID)
	require.True(t, e.Date.Equal(decoded.Date))
	require.Equal(t, e.Reflection, decoded.Reflection)
	require.Equal(t, e.Weather, decoded.Weather)
}

func TestSameDay(t *testing.T) {
	morning := time.Date(2026, 8, 28, 1, 0, 0, 0, time.UTC)
	night := time.Date(2026, 8, 28, 23, 59, 0, 0, time.UTC)
	require.True(t, SameDay(morning, night))
	require.False(t, SameDay(morning, night.Add(time.Minute)))
}

func TestReflectionFieldCount(t *testing.T) {
	// The completion metrics divide by nine; keep the field list in sync.
	fields := Reflection{}.fields()
	require.Len(t, fields, 9)
	for _, f := range fields {
		require.True(t, strings.TrimSpace(f) == "")
	}
}
