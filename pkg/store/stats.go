package store

import (
	"strings"
	"time"

	"github.com/Kenneth-cs/DeepReview/pkg/review"
)

// StreakDays counts consecutive calendar days with at least one entry,
// walking backward from today and stopping at the first gap. Two entries
// sharing a date count as a single day of presence.
func (s *Store) StreakDays() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	days := make(map[string]bool, len(s.entries))
	for _, e := range s.entries {
		days[dayKey(e.Date)] = true
	}

	streak := 0
	cur := s.nowFn().UTC()
	for days[dayKey(cur)] {
		streak++
		cur = cur.AddDate(0, 0, -1)
	}
	return streak
}

// MonthlyReviews counts entries dated in the current calendar month.
func (s *Store) MonthlyReviews() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowFn().UTC()
	count := 0
	for _, e := range s.entries {
		d := e.Date.UTC()
		if d.Year() == now.Year() && d.Month() == now.Month() {
			count++
		}
	}
	return count
}

// TotalReviews is the size of the collection.
func (s *Store) TotalReviews() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// CompletionRate is the fraction of entries considered complete. A record
// counts as complete when its growth, old-pattern and free-writing fields are
// all non-blank; this is deliberately narrower than the per-entry Status.
func (s *Store) CompletionRate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) == 0 {
		return 0
	}
	complete := 0
	for _, e := range s.entries {
		if isComplete(e) {
			complete++
		}
	}
	return float64(complete) / float64(len(s.entries))
}

func isComplete(e review.Entry) bool {
	return strings.TrimSpace(e.CognitiveBreakthroughGood) != "" &&
		strings.TrimSpace(e.CognitiveBreakthroughBad) != "" &&
		strings.TrimSpace(e.FreeWriting) != ""
}

// HasTodayReview reports whether an entry is dated today.
func (s *Store) HasTodayReview() bool {
	_, ok := s.TodayReview()
	return ok
}

// TodayReview returns the entry dated today, if any.
func (s *Store) TodayReview() (review.Entry, bool) {
	return s.ByDate(s.nowFn())
}

// Between returns entries whose date falls within [start, end], inclusive of
// both calendar days, most recent first.
func (s *Store) Between(start, end time.Time) []review.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	from := startOfDay(start)
	to := startOfDay(end).AddDate(0, 0, 1)

	var out []review.Entry
	for _, e := range s.entries {
		d := e.Date.UTC()
		if !d.Before(from) && d.Before(to) {
			out = append(out, e)
		}
	}
	return out
}

// ThisWeek returns entries from the current ISO week (Monday through Sunday).
func (s *Store) ThisWeek() []review.Entry {
	now := s.nowFn().UTC()
	weekday := int(now.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday closes the ISO week
	}
	monday := startOfDay(now).AddDate(0, 0, 1-weekday)
	return s.Between(monday, monday.AddDate(0, 0, 6))
}

// ThisMonth returns entries from the current calendar month.
func (s *Store) ThisMonth() []review.Entry {
	now := s.nowFn().UTC()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return s.Between(first, first.AddDate(0, 1, -1))
}

// Search returns entries whose longer free-text fields contain the keyword,
// case-insensitively. An empty keyword returns all entries unfiltered.
func (s *Store) Search(keyword string) []review.Entry {
	if strings.TrimSpace(keyword) == "" {
		return s.All()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	needle := strings.ToLower(keyword)
	var out []review.Entry
	for _, e := range s.entries {
		haystacks := []string{
			e.EnergySource, e.TimeObservation, e.EmotionExploration,
			e.FreeWriting, e.DailyMetaphor,
		}
		for _, h := range haystacks {
			if strings.Contains(strings.ToLower(h), needle) {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
