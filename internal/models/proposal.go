package models

import "time"

// SubmittedProposal is the audit record kept for every proposal accepted by
// the insurer. Written once at submission, never updated.
type SubmittedProposal struct {
	ID             string    `db:"id" json:"id"`
	ProposalNumber string    `db:"proposal_number" json:"proposal_number"`
	SessionID      string    `db:"session_id" json:"session_id"`
	ApplicantName  string    `db:"applicant_name" json:"applicant_name"`
	ApplicantCPF   string    `db:"applicant_cpf" json:"applicant_cpf"`
	TotalPremium   float64   `db:"total_premium" json:"total_premium"`
	TotalIndemnity float64   `db:"total_indemnity" json:"total_indemnity"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
