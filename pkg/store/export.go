package store

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/Kenneth-cs/DeepReview/pkg/review"
)

// AppVersion is stamped into export envelopes.
const AppVersion = "1.0.0"

var csvHeader = []string{
	"date", "weather", "moodBase",
	"energySource", "timeObservation", "emotionExploration",
	"cognitiveBreakthroughGood", "cognitiveBreakthroughBad",
	"tomorrowPlanAvoid", "tomorrowPlanSeed", "freeWriting", "dailyMetaphor",
}

// ToJSON renders the collection as pretty-printed JSON with ISO-8601 dates,
// most recent entry first.
func (s *Store) ToJSON() ([]byte, error) {
	entries := s.All()
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("store: export json: %w", err)
	}
	return data, nil
}

// ToCSV renders the collection as CSV with a fixed 12-column header. Values
// are double-quote escaped with embedded quotes doubled.
func (s *Store) ToCSV() string {
	var b strings.Builder
	b.WriteString(strings.Join(csvHeader, ","))
	b.WriteByte('\n')

	for _, e := range s.All() {
		row := []string{
			e.Date.UTC().Format("2006-01-02"),
			e.Weather.Label(),
			e.MoodBase,
			e.EnergySource, e.TimeObservation, e.EmotionExploration,
			e.CognitiveBreakthroughGood, e.CognitiveBreakthroughBad,
			e.TomorrowPlanAvoid, e.TomorrowPlanSeed, e.FreeWriting, e.DailyMetaphor,
		}
		for i, v := range row {
			row[i] = `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
		}
		b.WriteString(strings.Join(row, ","))
		b.WriteByte('\n')
	}
	return b.String()
}

// ExportEnvelope is the JSON export document: the collection wrapped with
// export metadata.
type ExportEnvelope struct {
	ExportDate time.Time      `json:"exportDate"`
	Reviews    []review.Entry `json:"reviews"`
	TotalCount int            `json:"totalCount"`
	AppVersion string         `json:"appVersion"`
}

// ExportJSON renders the collection inside the metadata envelope as
// pretty-printed JSON with ISO-8601 dates, most recent entry first.
func (s *Store) ExportJSON() ([]byte, error) {
	entries := s.All()
	env := ExportEnvelope{
		ExportDate: s.nowFn().UTC(),
		Reviews:    entries,
		TotalCount: len(entries),
		AppVersion: AppVersion,
	}
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("store: export envelope: %w", err)
	}
	return data, nil
}

// Archive is the envelope used by the binary export format.
type Archive struct {
	ExportedAt time.Time      `msgpack:"exported_at"`
	AppVersion string         `msgpack:"app_version"`
	TotalCount int            `msgpack:"total_count"`
	Entries    []review.Entry `msgpack:"entries"`
}

// ExportArchive encodes the collection into a compact msgpack archive.
func (s *Store) ExportArchive() ([]byte, error) {
	entries := s.All()
	arc := Archive{
		ExportedAt: s.nowFn().UTC(),
		AppVersion: AppVersion,
		TotalCount: len(entries),
		Entries:    entries,
	}
	data, err := msgpack.Marshal(arc)
	if err != nil {
		return nil, fmt.Errorf("store: export archive: %w", err)
	}
	return data, nil
}

// DecodeArchive decodes a msgpack archive produced by ExportArchive.
func DecodeArchive(data []byte) (Archive, error) {
	var arc Archive
	if err := msgpack.Unmarshal(data, &arc); err != nil {
		return Archive{}, fmt.Errorf("store: decode archive: %w", err)
	}
	return arc, nil
}
