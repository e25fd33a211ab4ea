package services

import (
	"log/slog"
	"sync"
	"time"

	"quoting-service/internal/models"
)

// DefaultQuestionnaireID is used when no normalized coverage carries a
// questionnaire reference.
const DefaultQuestionnaireID = "Venda"

type coverageEntry struct {
	coverages []models.Coverage
	mainSusep string
	touchedAt time.Time
}

// CoverageService holds each session's editable coverage selection. The
// state is quote-scoped and deliberately not persisted: on a reload the list
// is empty and a fresh quote is fetched.
type CoverageService struct {
	mu       sync.Mutex
	sessions map[string]*coverageEntry
}

func NewCoverageService() *CoverageService {
	return &CoverageService{sessions: make(map[string]*coverageEntry)}
}

// SetInitialCoverages replaces the session's coverage list from a raw quote
// envelope, discarding all prior edits.
func (s *CoverageService) SetInitialCoverages(sessionID string, env *models.QuoteEnvelope, preferredProductID int) []models.Coverage {
	coverages, mainSusep := NormalizeQuote(env, preferredProductID)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = &coverageEntry{
		coverages: coverages,
		mainSusep: mainSusep,
		touchedAt: time.Now(),
	}
	slog.Info("coverages normalized", "session_id", sessionID, "count", len(coverages), "main_susep", mainSusep)
	return cloneCoverages(coverages)
}

// Coverages returns a copy of the session's current coverage list.
func (s *CoverageService) Coverages(sessionID string) []models.Coverage {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	entry.touchedAt = time.Now()
	return cloneCoverages(entry.coverages)
}

func (s *CoverageService) MainSusep(sessionID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.sessions[sessionID]; ok {
		return entry.mainSusep
	}
	return ""
}

// HasCoverages reports whether a quote has been loaded for this session.
// The quote endpoint only fetches when this is false, so re-requests never
// reset user edits.
func (s *CoverageService) HasCoverages(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[sessionID]
	return ok && len(entry.coverages) > 0
}

// Toggle flips a coverage's active flag. Mandatory coverages cannot be
// deactivated; toggling one is a no-op, not an error.
func (s *CoverageService) Toggle(sessionID, coverageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	for i := range entry.coverages {
		if entry.coverages[i].ID == coverageID {
			if !entry.coverages[i].IsMandatory {
				entry.coverages[i].IsActive = !entry.coverages[i].IsActive
			}
			entry.touchedAt = time.Now()
			return nil
		}
	}
	return ErrCoverageNotFound
}

// AdjustCapital sets the contracted capital as given. The store does not
// clamp or reject out-of-range values; callers clamp to
// [MinCapital, MaxCapital] before calling (the permissive policy keeps
// slider-style clients simple, and the calculator prices whatever ratio
// results).
func (s *CoverageService) AdjustCapital(sessionID, coverageID string, capital float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	for i := range entry.coverages {
		if entry.coverages[i].ID == coverageID {
			entry.coverages[i].CurrentCapital = capital
			entry.touchedAt = time.Now()
			return nil
		}
	}
	return ErrCoverageNotFound
}

func (s *CoverageService) TotalPremium(sessionID string) float64 {
	return TotalPremium(s.Coverages(sessionID))
}

func (s *CoverageService) TotalIndemnity(sessionID string) float64 {
	return TotalIndemnity(s.Coverages(sessionID))
}

// QuestionnaireID returns the first questionnaire reference found among the
// session's coverages, falling back to the generic sales questionnaire.
func (s *CoverageService) QuestionnaireID(sessionID string) string {
	for _, c := range s.Coverages(sessionID) {
		if c.QuestionnaireID != "" {
			return c.QuestionnaireID
		}
	}
	return DefaultQuestionnaireID
}

// Clear drops the session's coverage state.
func (s *CoverageService) Clear(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// PruneIdle removes coverage state untouched for longer than maxIdle and
// returns how many sessions were dropped.
func (s *CoverageService) PruneIdle(maxIdle time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	pruned := 0
	cutoff := time.Now().Add(-maxIdle)
	for id, entry := range s.sessions {
		if entry.touchedAt.Before(cutoff) {
			delete(s.sessions, id)
			pruned++
		}
	}
	return pruned
}

func cloneCoverages(src []models.Coverage) []models.Coverage {
	out := make([]models.Coverage, len(src))
	copy(out, src)
	return out
}
