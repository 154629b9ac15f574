package review

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Weather is the weather recorded with a reflection. Values are the symbols
// the original data files use, so existing reviews.json files keep loading.
type Weather string

const (
	WeatherSunny  Weather = "☀️"
	WeatherCloudy Weather = "☁️"
	WeatherRainy  Weather = "🌧️"
	WeatherSnowy  Weather = "❄️"
	WeatherWindy  Weather = "💨"
	WeatherFoggy  Weather = "🌫️"
)

// AllWeathers lists the supported weather values in display order.
func AllWeathers() []Weather {
	return []Weather{WeatherSunny, WeatherCloudy, WeatherRainy, WeatherSnowy, WeatherWindy, WeatherFoggy}
}

// Label returns the human readable name for the weather value.
func (w Weather) Label() string {
	switch w {
	case WeatherSunny:
		return "Sunny"
	case WeatherCloudy:
		return "Cloudy"
	case WeatherRainy:
		return "Rainy"
	case WeatherSnowy:
		return "Snowy"
	case WeatherWindy:
		return "Windy"
	case WeatherFoggy:
		return "Foggy"
	default:
		return "Unknown"
	}
}

// Valid reports whether w is one of the supported weather values.
func (w Weather) Valid() bool {
	switch w {
	case WeatherSunny, WeatherCloudy, WeatherRainy, WeatherSnowy, WeatherWindy, WeatherFoggy:
		return true
	}
	return false
}

// Reflection groups the nine free-text reflection dimensions. Any field may be
// empty; completion metrics only count fields that are non-blank after trimming.
type Reflection struct {
	EnergySource              string `json:"energySource"`
	TimeObservation           string `json:"timeObservation"`
	EmotionExploration        string `json:"emotionExploration"`
	CognitiveBreakthroughGood string `json:"cognitiveBreakthroughGood"`
	CognitiveBreakthroughBad  string `json:"cognitiveBreakthroughBad"`
	TomorrowPlanAvoid         string `json:"tomorrowPlanAvoid"`
	TomorrowPlanSeed          string `json:"tomorrowPlanSeed"`
	FreeWriting               string `json:"freeWriting"`
	DailyMetaphor             string `json:"dailyMetaphor"`
}

func (r Reflection) fields() [9]string {
	return [9]string{
		r.EnergySource, r.TimeObservation, r.EmotionExploration,
		r.CognitiveBreakthroughGood, r.CognitiveBreakthroughBad,
		r.TomorrowPlanAvoid, r.TomorrowPlanSeed, r.FreeWriting, r.DailyMetaphor,
	}
}

// Entry is one persisted daily-reflection record. It is treated as a value:
// mutations produce a new Entry keyed by the same identifier.
type Entry struct {
	ID       uuid.UUID `json:"id"`
	Date     time.Time `json:"date"`
	UserName string    `json:"userName"`
	Weather  Weather   `json:"weather"`
	MoodBase string    `json:"moodBase"`

	Reflection

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// AIAnalysis is empty until an analysis has been attached.
	AIAnalysis string `json:"aiAnalysis,omitempty"`
}

// New builds a fresh Entry from form input. The identifier is assigned here and
// never reused; CreatedAt and UpdatedAt are both set to the current time.
func New(date time.Time, userName string, weather Weather, moodBase string, r Reflection) Entry {
	if !weather.Valid() {
		weather = WeatherSunny
	}
	now := time.Now().UTC()
	return Entry{
		ID:         uuid.New(),
		Date:       date,
		UserName:   userName,
		Weather:    weather,
		MoodBase:   moodBase,
		Reflection: r,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// WithAnalysis returns a copy of the entry with the analysis text attached and
// UpdatedAt advanced to the mutation time.
func (e Entry) WithAnalysis(text string) Entry {
	e.AIAnalysis = text
	e.UpdatedAt = time.Now().UTC()
	return e
}

// HasAnalysis reports whether an analysis has been attached.
func (e Entry) HasAnalysis() bool {
	return strings.TrimSpace(e.AIAnalysis) != ""
}

// CompletionPercentage is the fraction of the nine reflection fields that are
// non-blank after trimming whitespace.
func (e Entry) CompletionPercentage() float64 {
	fields := e.fields()
	filled := 0
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			filled++
		}
	}
	return float64(filled) / float64(len(fields))
}

// Status describes how far along a single entry is.
type Status int

const (
	StatusNotStarted Status = iota
	StatusInProgress
	StatusCompleted
)

func (s Status) String() string {
	switch s {
	case StatusNotStarted:
		return "not started"
	case StatusInProgress:
		return "in progress"
	case StatusCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Status derives the entry status from its completion percentage.
func (e Entry) Status() Status {
	switch p := e.CompletionPercentage(); {
	case p == 0:
		return StatusNotStarted
	case p < 1:
		return StatusInProgress
	default:
		return StatusCompleted
	}
}

// SameDay reports whether a and b fall on the same calendar day in UTC.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
