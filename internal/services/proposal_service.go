package services

import (
	"context"
	"fmt"
	"log/slog"

	"quoting-service/internal/event"
	"quoting-service/internal/models"
	"quoting-service/internal/repository"
)

// ProposalService drives the final submission: readiness checks, payload
// assembly, the external call, then the audit record and the notification
// event. The external endpoint is the system of record, so the audit write
// and the event publish are best-effort and never fail a submission the
// insurer already accepted.
type ProposalService struct {
	insurer   IInsurerClient
	coverages *CoverageService
	repo      repository.ProposalRepository
	publisher *event.ProposalPublisher
}

func NewProposalService(insurer IInsurerClient, coverages *CoverageService, repo repository.ProposalRepository, publisher *event.ProposalPublisher) *ProposalService {
	return &ProposalService{
		insurer:   insurer,
		coverages: coverages,
		repo:      repo,
		publisher: publisher,
	}
}

// GetSubmitted looks up a proposal in the local audit log.
func (s *ProposalService) GetSubmitted(ctx context.Context, proposalNumber string) (*models.SubmittedProposal, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("proposal log is not available")
	}
	return s.repo.GetByProposalNumber(ctx, proposalNumber)
}

func (s *ProposalService) Submit(ctx context.Context, session *models.WizardSession) (*models.SubmissionResponse, error) {
	if !s.coverages.HasCoverages(session.ID) {
		return nil, ErrNoOffer
	}
	if session.FormData.PaymentMethod == "credit" && session.FormData.PaymentPreAuthCode == "" {
		return nil, ErrMissingPreAuth
	}

	coverages := s.coverages.Coverages(session.ID)
	payload := BuildSubmissionPayload(&session.FormData, coverages)

	proposalNumber, err := s.insurer.SubmitProposal(ctx, session.Credential, payload)
	if err != nil {
		return nil, fmt.Errorf("proposal submission failed: %w", err)
	}

	totalPremium := TotalPremium(coverages)
	totalIndemnity := TotalIndemnity(coverages)

	if s.repo != nil {
		record := &models.SubmittedProposal{
			ProposalNumber: proposalNumber,
			SessionID:      session.ID,
			ApplicantName:  session.FormData.FullName,
			ApplicantCPF:   session.FormData.CPF,
			TotalPremium:   totalPremium,
			TotalIndemnity: totalIndemnity,
		}
		if err := s.repo.Create(ctx, record); err != nil {
			slog.Error("proposal audit record failed", "proposal_number", proposalNumber, "error", err)
		}
	}

	if s.publisher != nil {
		submitted := event.ProposalSubmittedEvent{
			ProposalNumber: proposalNumber,
			SessionID:      session.ID,
			ApplicantName:  session.FormData.FullName,
			ApplicantEmail: session.FormData.Email,
			TotalPremium:   totalPremium,
			TotalIndemnity: totalIndemnity,
		}
		if err := s.publisher.PublishProposalSubmitted(ctx, submitted); err != nil {
			slog.Error("proposal event publish failed", "proposal_number", proposalNumber, "error", err)
		}
	}

	slog.Info("proposal submitted",
		"session_id", session.ID,
		"proposal_number", proposalNumber,
		"total_premium", totalPremium)

	return &models.SubmissionResponse{
		ProposalNumber: proposalNumber,
		TotalPremium:   totalPremium,
		TotalIndemnity: totalIndemnity,
	}, nil
}
