package models

import "fmt"

// CreateSessionRequest opens a wizard session. The credential is the opaque
// token the caller obtained from the insurer backend; it is passed through on
// every authenticated upstream call for this session.
type CreateSessionRequest struct {
	Credential string `json:"credential"`
}

type QuoteRequest struct {
	// Force re-runs the simulation even when coverages are already loaded,
	// discarding the user's edits. The default only fetches when the list
	// is empty so cheap re-requests never reset selections.
	Force bool `json:"force"`
}

type AdjustCapitalRequest struct {
	Capital float64 `json:"capital"`
}

func (r *AdjustCapitalRequest) Validate() error {
	if r.Capital <= 0 {
		return fmt.Errorf("capital must be positive")
	}
	return nil
}

// WidgetMessageRequest relays one raw cross-origin frame message. Origin is
// the exact origin the browser observed; Data is the untouched message body.
type WidgetMessageRequest struct {
	Origin string `json:"origin"`
	Data   string `json:"data"`
}

func (r *WidgetMessageRequest) Validate() error {
	if r.Origin == "" {
		return fmt.Errorf("origin is required")
	}
	return nil
}

// WidgetInitResponse is everything the client needs to mount a provider
// frame: the URL to load and the exact origin to scope postMessage calls to.
type WidgetInitResponse struct {
	URL    string `json:"url"`
	Origin string `json:"origin"`
}

// OutboundWidgetMessage is the frame-authentication message the client posts
// into the provider frame after it loads, scoped to TargetOrigin exactly.
type OutboundWidgetMessage struct {
	Event        string `json:"event"`
	Property     string `json:"property"`
	Value        string `json:"value"`
	TargetOrigin string `json:"target_origin"`
}

type ProfessionOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type Address struct {
	ZipCode      string `json:"zip_code"`
	Street       string `json:"street"`
	Complement   string `json:"complement"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
}

type CoverageListResponse struct {
	Coverages      []Coverage `json:"coverages"`
	MainSusep      string     `json:"main_susep,omitempty"`
	TotalPremium   float64    `json:"total_premium"`
	TotalIndemnity float64    `json:"total_indemnity"`
}

type SubmissionResponse struct {
	ProposalNumber string  `json:"proposal_number"`
	TotalPremium   float64 `json:"total_premium"`
	TotalIndemnity float64 `json:"total_indemnity"`
}
