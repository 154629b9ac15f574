package store

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
)

// IntegrityStatus classifies the health of the durable collection.
type IntegrityStatus string

const (
	IntegrityUnknown   IntegrityStatus = "unknown"
	IntegrityHealthy   IntegrityStatus = "healthy"
	IntegrityDegraded  IntegrityStatus = "degraded"
	IntegrityCorrupted IntegrityStatus = "corrupted"
)

// IntegrityReport is a transient computed value; it is never persisted.
type IntegrityReport struct {
	Status IntegrityStatus
	Issues []string
}

// PerformIntegrityCheck recomputes the integrity report from the in-memory
// collection and the filesystem. It publishes the resulting status on the
// store but never repairs or deletes data.
func (s *Store) PerformIntegrityCheck() IntegrityReport {
	s.mu.Lock()
	defer s.mu.Unlock()

	var issues []string

	if _, err := os.Stat(s.primaryPath); err != nil {
		issues = append(issues, fmt.Sprintf("primary file %s is missing", primaryFileName))
	}

	seen := make(map[uuid.UUID]int, len(s.entries))
	for _, e := range s.entries {
		if e.ID == uuid.Nil {
			issues = append(issues, fmt.Sprintf("entry dated %s has an empty identifier", e.Date.Format("2006-01-02")))
			continue
		}
		seen[e.ID]++
	}
	for id, n := range seen {
		if n > 1 {
			issues = append(issues, fmt.Sprintf("identifier %s appears %d times", id, n))
		}
	}

	report := IntegrityReport{Status: classifyIssues(len(issues)), Issues: issues}
	s.integrity = report.Status
	if len(issues) > 0 {
		s.integrityMsg = strings.Join(issues, "; ")
	} else {
		s.integrityMsg = ""
	}
	return report
}

func classifyIssues(n int) IntegrityStatus {
	switch {
	case n == 0:
		return IntegrityHealthy
	case n <= 2:
		return IntegrityDegraded
	default:
		return IntegrityCorrupted
	}
}

// IntegrityStatus returns the last published status, IntegrityUnknown before
// the first check.
func (s *Store) IntegrityStatus() IntegrityStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.integrity
}

// IntegrityMessage summarizes the issues found by the last check, or empty.
func (s *Store) IntegrityMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.integrityMsg
}
