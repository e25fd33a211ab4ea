package services

import (
	"context"
	"fmt"
	"log/slog"

	"quoting-service/internal/models"
)

// QuoteService runs the external simulation and seeds the session's coverage
// selection with the normalized result.
type QuoteService struct {
	insurer            IInsurerClient
	coverages          *CoverageService
	preferredProductID int
}

func NewQuoteService(insurer IInsurerClient, coverages *CoverageService, preferredProductID int) *QuoteService {
	return &QuoteService{
		insurer:            insurer,
		coverages:          coverages,
		preferredProductID: preferredProductID,
	}
}

// BuildSimulationPayload is the quoting-profile subset of the form sent to
// the simulation endpoint.
func BuildSimulationPayload(form *models.FormData) map[string]string {
	return map[string]string{
		"mag_nome_completo":   form.FullName,
		"mag_cpf":             form.CPF,
		"mag_data_nascimento": form.BirthDate,
		"mag_sexo":            form.Gender,
		"mag_renda":           form.Income,
		"mag_estado":          form.State,
		"mag_profissao_cbo":   form.Profession,
	}
}

// Refresh fetches and normalizes a quote for the session. An already-seeded
// selection is returned untouched unless force is set, so user edits survive
// step revisits; an empty selection (first visit or restart) always fetches.
func (s *QuoteService) Refresh(ctx context.Context, session *models.WizardSession, force bool) ([]models.Coverage, error) {
	if s.coverages.HasCoverages(session.ID) && !force {
		return s.coverages.Coverages(session.ID), nil
	}

	envelope, err := s.insurer.GetSimulation(ctx, session.Credential, BuildSimulationPayload(&session.FormData))
	if err != nil {
		return nil, fmt.Errorf("simulation failed: %w", err)
	}

	list := s.coverages.SetInitialCoverages(session.ID, envelope, s.preferredProductID)
	if len(list) == 0 {
		slog.Info("simulation returned no offer", "session_id", session.ID)
		return nil, ErrNoOffer
	}

	slog.Info("coverage selection seeded", "session_id", session.ID, "coverage_count", len(list))
	return list, nil
}
