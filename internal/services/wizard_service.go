package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"quoting-service/internal/models"
	"quoting-service/internal/repository"

	"github.com/google/uuid"
)

type wizardEntry struct {
	session   *models.WizardSession
	hydrated  bool
	touchedAt time.Time
}

// WizardService is the state machine behind the multi-step flow. Step
// position moves only by +-1 through Advance/Retreat; the service records
// validation results but does not gate Advance itself; each step's handler
// confirms the gate before calling it.
//
// Every FormData mutation is persisted synchronously, best-effort: a storage
// failure is logged and swallowed because the persisted copy is a
// convenience cache for reload survival, not the system of record.
type WizardService struct {
	mu       sync.Mutex
	sessions map[string]*wizardEntry
	repo     repository.FormStateRepository
}

func NewWizardService(repo repository.FormStateRepository) *WizardService {
	return &WizardService{
		sessions: make(map[string]*wizardEntry),
		repo:     repo,
	}
}

// defaultFormData mirrors the flow's initial state: empty fields, zero
// children, and a single blank beneficiary row ready for editing.
func defaultFormData() models.FormData {
	return models.FormData{
		ChildrenCount: "0",
		Beneficiaries: []models.Beneficiary{{ID: uuid.NewString()}},
	}
}

func (s *WizardService) CreateSession(credential string) *models.WizardSession {
	session := &models.WizardSession{
		ID:               uuid.NewString(),
		CurrentStep:      1,
		FormData:         defaultFormData(),
		ValidationStatus: models.ValidationStatus{},
		Credential:       credential,
	}
	s.mu.Lock()
	s.sessions[session.ID] = &wizardEntry{session: session, hydrated: false, touchedAt: time.Now()}
	s.mu.Unlock()
	slog.Info("wizard session created", "session_id", session.ID)
	return snapshot(session)
}

// GetSession returns a copy of the session, hydrating persisted form data
// first. An unknown ID with a persisted record is recreated at step 1 with
// the stored data merged in, which is how a reload resumes.
func (s *WizardService) GetSession(ctx context.Context, sessionID string) (*models.WizardSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, err := s.entryLocked(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return snapshot(entry.session), nil
}

// HydrateFromStorage merges persisted FormData over the session's current
// state. Idempotent: after the first call the stored copy reflects the
// in-memory one, so repeats are harmless; fields already set in memory that
// the stored record doesn't carry are never wiped.
func (s *WizardService) HydrateFromStorage(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	return s.hydrateLocked(ctx, entry)
}

func (s *WizardService) hydrateLocked(ctx context.Context, entry *wizardEntry) error {
	if entry.hydrated {
		return nil
	}
	found, err := s.repo.LoadInto(ctx, entry.session.ID, &entry.session.FormData)
	if err != nil {
		// A broken cache read is not fatal; the session continues from
		// its in-memory state.
		slog.Warn("form state hydration failed", "session_id", entry.session.ID, "error", err)
		return nil
	}
	entry.hydrated = true
	if found {
		slog.Info("form state hydrated", "session_id", entry.session.ID)
	}
	return nil
}

// entryLocked resolves a session, recreating it from persisted state when
// the in-memory copy is gone (process restart, pruned entry).
func (s *WizardService) entryLocked(ctx context.Context, sessionID string) (*wizardEntry, error) {
	if entry, ok := s.sessions[sessionID]; ok {
		if err := s.hydrateLocked(ctx, entry); err != nil {
			return nil, err
		}
		entry.touchedAt = time.Now()
		return entry, nil
	}

	form := defaultFormData()
	found, err := s.repo.LoadInto(ctx, sessionID, &form)
	if err != nil || !found {
		return nil, ErrSessionNotFound
	}
	entry := &wizardEntry{
		session: &models.WizardSession{
			ID:               sessionID,
			CurrentStep:      1,
			FormData:         form,
			ValidationStatus: models.ValidationStatus{},
		},
		hydrated:  true,
		touchedAt: time.Now(),
	}
	s.sessions[sessionID] = entry
	slog.Info("wizard session restored from storage", "session_id", sessionID)
	return entry, nil
}

// PruneIdle evicts sessions untouched for longer than maxIdle and returns
// how many were dropped. Eviction is safe: a later request for a pruned
// session restores it from its persisted form state.
func (s *WizardService) PruneIdle(maxIdle time.Duration) int {
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

// Advance moves one step forward. Callers confirm the current step's gate
// first; the machine itself does not re-validate.
func (s *WizardService) Advance(ctx context.Context, sessionID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, err := s.entryLocked(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	if entry.session.CurrentStep < StepCount {
		entry.session.CurrentStep++
	}
	return entry.session.CurrentStep, nil
}

// Retreat moves one step back, never below 1.
func (s *WizardService) Retreat(ctx context.Context, sessionID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, err := s.entryLocked(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	if entry.session.CurrentStep > 1 {
		entry.session.CurrentStep--
	}
	return entry.session.CurrentStep, nil
}

// SetFormData merges a partial update and synchronously persists the merged
// result.
func (s *WizardService) SetFormData(ctx context.Context, sessionID string, patch *models.FormDataPatch) (*models.WizardSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, err := s.entryLocked(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	patch.Apply(&entry.session.FormData)
	s.persistLocked(ctx, entry.session)
	return snapshot(entry.session), nil
}

// SetValidationStatus merges validation results without persistence:
// validation is derived from FormData and recomputed on rehydration.
func (s *WizardService) SetValidationStatus(ctx context.Context, sessionID string, partial map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, err := s.entryLocked(ctx, sessionID)
	if err != nil {
		return err
	}
	entry.session.ValidationStatus.Merge(partial)
	return nil
}

func (s *WizardService) AddBeneficiary(ctx context.Context, sessionID string) (*models.Beneficiary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, err := s.entryLocked(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	ben := models.Beneficiary{ID: uuid.NewString()}
	entry.session.FormData.Beneficiaries = append(entry.session.FormData.Beneficiaries, ben)
	s.persistLocked(ctx, entry.session)
	return &ben, nil
}

func (s *WizardService) RemoveBeneficiary(ctx context.Context, sessionID, beneficiaryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, err := s.entryLocked(ctx, sessionID)
	if err != nil {
		return err
	}
	list := entry.session.FormData.Beneficiaries
	for i := range list {
		if list[i].ID == beneficiaryID {
			entry.session.FormData.Beneficiaries = append(list[:i:i], list[i+1:]...)
			s.persistLocked(ctx, entry.session)
			return nil
		}
	}
	return ErrBeneficiaryNotFound
}

func (s *WizardService) UpdateBeneficiary(ctx context.Context, sessionID, beneficiaryID string, patch *models.BeneficiaryPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, err := s.entryLocked(ctx, sessionID)
	if err != nil {
		return err
	}
	list := entry.session.FormData.Beneficiaries
	for i := range list {
		if list[i].ID == beneficiaryID {
			patch.Apply(&list[i])
			s.persistLocked(ctx, entry.session)
			return nil
		}
	}
	return ErrBeneficiaryNotFound
}

// SetReservedProposalNumber records the widget bridge's reserved proposal
// number pass-through.
func (s *WizardService) SetReservedProposalNumber(ctx context.Context, sessionID, proposalNumber string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, err := s.entryLocked(ctx, sessionID)
	if err != nil {
		return err
	}
	entry.session.FormData.ReservedProposalNumber = proposalNumber
	s.persistLocked(ctx, entry.session)
	return nil
}

// ApplyDpsAnswers stores questionnaire answers and reports whether this was
// the first application. Re-delivering the same completion overwrites with
// identical data and returns false, which keeps the bridge idempotent.
func (s *WizardService) ApplyDpsAnswers(ctx context.Context, sessionID string, answers map[string]any) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, err := s.entryLocked(ctx, sessionID)
	if err != nil {
		return false, err
	}
	first := entry.session.FormData.DpsAnswers == nil
	entry.session.FormData.DpsAnswers = answers
	s.persistLocked(ctx, entry.session)
	return first, nil
}

// ResetDpsAnswers clears stored questionnaire answers so the applicant can
// retake the questionnaire.
func (s *WizardService) ResetDpsAnswers(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, err := s.entryLocked(ctx, sessionID)
	if err != nil {
		return err
	}
	entry.session.FormData.DpsAnswers = nil
	s.persistLocked(ctx, entry.session)
	return nil
}

// Reset clears in-memory state and persisted storage and returns to step 1.
func (s *WizardService) Reset(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	if err := s.repo.Delete(ctx, sessionID); err != nil {
		slog.Warn("form state delete failed", "session_id", sessionID, "error", err)
	}
	entry.session.CurrentStep = 1
	entry.session.FormData = defaultFormData()
	entry.session.ValidationStatus = models.ValidationStatus{}
	entry.hydrated = true
	entry.touchedAt = time.Now()
	return nil
}

func (s *WizardService) persistLocked(ctx context.Context, session *models.WizardSession) {
	if err := s.repo.Save(ctx, session.ID, &session.FormData); err != nil {
		slog.Warn("form state persist failed", "session_id", session.ID, "error", err)
	}
}

// snapshot copies the session so callers never hold a reference into the
// store's mutable state.
func snapshot(session *models.WizardSession) *models.WizardSession {
	out := *session
	out.FormData.Beneficiaries = append([]models.Beneficiary(nil), session.FormData.Beneficiaries...)
	if session.FormData.DpsAnswers != nil {
		out.FormData.DpsAnswers = make(map[string]any, len(session.FormData.DpsAnswers))
		for k, v := range session.FormData.DpsAnswers {
			out.FormData.DpsAnswers[k] = v
		}
	}
	out.ValidationStatus = models.ValidationStatus{}
	for k, v := range session.ValidationStatus {
		out.ValidationStatus[k] = v
	}
	return &out
}
