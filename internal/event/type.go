package event

// ProposalSubmittedEvent is the message consumed by the back-office
// notification pipeline after the insurer accepts a proposal.
type ProposalSubmittedEvent struct {
	ProposalNumber string  `json:"proposal_number"`
	SessionID      string  `json:"session_id"`
	ApplicantName  string  `json:"applicant_name"`
	ApplicantEmail string  `json:"applicant_email"`
	TotalPremium   float64 `json:"total_premium"`
	TotalIndemnity float64 `json:"total_indemnity"`
}

const ProposalSubmittedQueue string = "proposal_submitted_events"
