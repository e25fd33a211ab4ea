package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"quoting-service/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type ProposalRepository interface {
	Create(ctx context.Context, proposal *models.SubmittedProposal) error
	GetByProposalNumber(ctx context.Context, proposalNumber string) (*models.SubmittedProposal, error)
}

type PostgresProposalRepository struct {
	db *sqlx.DB
}

func NewProposalRepository(db *sqlx.DB) ProposalRepository {
	return &PostgresProposalRepository{db: db}
}

func (r *PostgresProposalRepository) Create(ctx context.Context, proposal *models.SubmittedProposal) error {
	if proposal.ID == "" {
		proposal.ID = uuid.NewString()
	}
	proposal.CreatedAt = time.Now()

	query := `
		INSERT INTO submitted_proposal (
			id, proposal_number, session_id, applicant_name, applicant_cpf,
			total_premium, total_indemnity, created_at
		) VALUES (
			:id, :proposal_number, :session_id, :applicant_name, :applicant_cpf,
			:total_premium, :total_indemnity, :created_at
		)`

	_, err := r.db.NamedExecContext(ctx, query, proposal)
	if err != nil {
		slog.Error("Failed to record submitted proposal",
			"proposal_number", proposal.ProposalNumber,
			"session_id", proposal.SessionID,
			"error", err)
		return fmt.Errorf("failed to record submitted proposal: %w", err)
	}

	slog.Info("Submitted proposal recorded",
		"proposal_number", proposal.ProposalNumber,
		"session_id", proposal.SessionID)
	return nil
}

func (r *PostgresProposalRepository) GetByProposalNumber(ctx context.Context, proposalNumber string) (*models.SubmittedProposal, error) {
	var proposal models.SubmittedProposal
	query := `
		SELECT
			id, proposal_number, session_id, applicant_name, applicant_cpf,
			total_premium, total_indemnity, created_at
		FROM submitted_proposal
		WHERE proposal_number = $1`

	err := r.db.GetContext(ctx, &proposal, query, proposalNumber)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("proposal %s not found", proposalNumber)
		}
		return nil, fmt.Errorf("failed to get submitted proposal: %w", err)
	}
	return &proposal, nil
}
