package services

import (
	"context"
	"testing"

	"quoting-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSubmissionFixture(t *testing.T) (*ProposalService, *CoverageService, *fakeInsurerClient, *models.WizardSession) {
	t.Helper()

	insurer := &fakeInsurerClient{proposalNumber: "PROP-42"}
	coverages := NewCoverageService()
	proposals := NewProposalService(insurer, coverages, nil, nil)

	wizard := NewWizardService(newFakeFormStateRepo())
	session := wizard.CreateSession("nonce")
	session.FormData = completeForm()
	return proposals, coverages, insurer, session
}

func seedSubmittableCoverages(t *testing.T, coverages *CoverageService, sessionID string) {
	t.Helper()
	list := coverages.SetInitialCoverages(sessionID, quoteEnvelope(models.QuoteProduct{
		IDProduto:  2096,
		Coberturas: []models.QuoteCoverage{rawCoverage("m1", "Morte")},
	}), testPreferredProduct)
	require.NotEmpty(t, list)
}

func TestProposalService_SubmitWithoutQuoteIsNoOffer(t *testing.T) {
	proposals, _, _, session := newSubmissionFixture(t)

	_, err := proposals.Submit(context.Background(), session)
	assert.ErrorIs(t, err, ErrNoOffer)
}

func TestProposalService_SubmitRequiresPreAuthForCredit(t *testing.T) {
	proposals, coverages, _, session := newSubmissionFixture(t)
	seedSubmittableCoverages(t, coverages, session.ID)
	session.FormData.PaymentPreAuthCode = ""

	_, err := proposals.Submit(context.Background(), session)
	assert.ErrorIs(t, err, ErrMissingPreAuth)
}

func TestProposalService_SubmitSendsAssembledPayload(t *testing.T) {
	proposals, coverages, insurer, session := newSubmissionFixture(t)
	seedSubmittableCoverages(t, coverages, session.ID)

	resp, err := proposals.Submit(context.Background(), session)
	require.NoError(t, err)

	assert.Equal(t, "PROP-42", resp.ProposalNumber)
	assert.Equal(t, coverages.TotalPremium(session.ID), resp.TotalPremium)
	assert.Equal(t, coverages.TotalIndemnity(session.ID), resp.TotalIndemnity)

	require.NotNil(t, insurer.submitted)
	assert.Equal(t, "João da Silva", insurer.submitted["mag_nome_completo"])
	assert.Equal(t, "PRE-123", insurer.submitted["payment_pre_auth_code"])
	assert.Contains(t, insurer.submitted, "final_simulation_config")
}
