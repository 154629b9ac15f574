package store

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Kenneth-cs/DeepReview/pkg/review"
)

func TestToJSON(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Load())
	require.NoError(t, s.Add(entryOn(t, time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC), review.Reflection{
		FreeWriting: "exported",
	})))

	data, err := s.ToJSON()
	require.NoError(t, err)

	// Pretty-printed, ISO-8601 dates, camel-cased keys.
	require.Contains(t, string(data), "\n  ")
	require.Contains(t, string(data), `"date": "2026-08-27T00:00:00Z"`)
	require.Contains(t, string(data), `"freeWriting": "exported"`)

	var decoded []review.Entry
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
}

func TestExportJSONEnvelope(t *testing.T) {
	fixed := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	s, _ := newTestStore(t, WithClock(func() time.Time { return fixed }))
	require.NoError(t, s.Load())
	require.NoError(t, s.Add(entryOn(t, fixed, review.Reflection{FreeWriting: "wrapped"})))

	data, err := s.ExportJSON()
	require.NoError(t, err)

	require.Contains(t, string(data), `"exportDate": "2026-08-27T12:00:00Z"`)
	require.Contains(t, string(data), `"appVersion": "`+AppVersion+`"`)

	var env ExportEnvelope
	require.NoError(t, json.Unmarshal(data, &env))
	require.Equal(t, 1, env.TotalCount)
	require.Len(t, env.Reviews, 1)
	require.Equal(t, "wrapped", env.Reviews[0].FreeWriting)
	require.True(t, env.ExportDate.Equal(fixed))
}

func TestToCSV(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Load())

	t.Run("header only when empty", func(t *testing.T) {
		csv := s.ToCSV()
		lines := strings.Split(strings.TrimRight(csv, "\n"), "\n")
		require.Len(t, lines, 1)
		require.Equal(t, strings.Join(csvHeader, ","), lines[0])
		require.Len(t, csvHeader, 12)
	})

	t.Run("rows with quoting", func(t *testing.T) {
		e := review.New(
			time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC),
			"ken", review.WeatherRainy, "tired",
			review.Reflection{FreeWriting: `she said "hello", twice`},
		)
		require.NoError(t, s.Add(e))

		csv := s.ToCSV()
		lines := strings.Split(strings.TrimRight(csv, "\n"), "\n")
		require.Len(t, lines, 2)
		require.Contains(t, lines[1], `"2026-08-27"`)
		require.Contains(t, lines[1], `"`+review.WeatherRainy.Label()+`"`)
		require.Contains(t, lines[1], `"she said ""hello"", twice"`)
	})
}

func TestArchiveRoundTrip(t *testing.T) {
	fixed := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	s, _ := newTestStore(t, WithClock(func() time.Time { return fixed }))
	require.NoError(t, s.Load())

	first := entryOn(t, fixed.AddDate(0, 0, -1), review.Reflection{DailyMetaphor: "a lighthouse"})
	second := entryOn(t, fixed, review.Reflection{EnergySource: "sleep"})
	require.NoError(t, s.Add(first))
	require.NoError(t, s.Add(second))

	data, err := s.ExportArchive()
	require.NoError(t, err)

	arc, err := DecodeArchive(data)
	require.NoError(t, err)
	require.Equal(t, AppVersion, arc.AppVersion)
	require.Equal(t, 2, arc.TotalCount)
	require.True(t, arc.ExportedAt.Equal(fixed))
	require.Len(t, arc.Entries, 2)
	require.Equal(t, second.ID, arc.Entries[0].ID)
	require.Equal(t, "a lighthouse", arc.Entries[1].DailyMetaphor)
}

func TestDecodeArchiveGarbage(t *testing.T) {
	_, err := DecodeArchive([]byte("definitely not msgpack"))
	require.Error(t, err)
}
