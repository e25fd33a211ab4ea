package services

import (
	"context"
	"testing"

	"quoting-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuoteFixture(t *testing.T) (*QuoteService, *CoverageService, *fakeInsurerClient, *models.WizardSession) {
	t.Helper()

	insurer := &fakeInsurerClient{
		simulation: quoteEnvelope(models.QuoteProduct{
			IDProduto:  2096,
			Coberturas: []models.QuoteCoverage{rawCoverage("m1", "Morte")},
		}),
	}
	coverages := NewCoverageService()
	quote := NewQuoteService(insurer, coverages, testPreferredProduct)
	wizard := NewWizardService(newFakeFormStateRepo())
	return quote, coverages, insurer, wizard.CreateSession("nonce")
}

func TestQuoteService_RefreshSeedsSelection(t *testing.T) {
	ctx := context.Background()
	quote, coverages, insurer, session := newQuoteFixture(t)

	list, err := quote.Refresh(ctx, session, false)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, coverages.HasCoverages(session.ID))
	assert.Equal(t, 1, insurer.simulations)
}

func TestQuoteService_RefreshSkipsWhenLoaded(t *testing.T) {
	ctx := context.Background()
	quote, coverages, insurer, session := newQuoteFixture(t)

	_, err := quote.Refresh(ctx, session, false)
	require.NoError(t, err)

	list := coverages.Coverages(session.ID)
	require.NoError(t, coverages.Toggle(session.ID, list[0].ID))

	// A cheap re-request must not reset the user's edits.
	refreshed, err := quote.Refresh(ctx, session, false)
	require.NoError(t, err)
	assert.Equal(t, 1, insurer.simulations)
	assert.False(t, refreshed[0].IsActive)
}

func TestQuoteService_ForceRefetches(t *testing.T) {
	ctx := context.Background()
	quote, coverages, insurer, session := newQuoteFixture(t)

	_, err := quote.Refresh(ctx, session, false)
	require.NoError(t, err)
	list := coverages.Coverages(session.ID)
	require.NoError(t, coverages.Toggle(session.ID, list[0].ID))

	refreshed, err := quote.Refresh(ctx, session, true)
	require.NoError(t, err)
	assert.Equal(t, 2, insurer.simulations)
	assert.True(t, refreshed[0].IsActive, "force discards edits and reseeds")
}

func TestQuoteService_EmptySimulationIsNoOffer(t *testing.T) {
	ctx := context.Background()
	quote, coverages, insurer, session := newQuoteFixture(t)
	insurer.simulation = &models.QuoteEnvelope{}

	_, err := quote.Refresh(ctx, session, false)
	assert.ErrorIs(t, err, ErrNoOffer)
	assert.False(t, coverages.HasCoverages(session.ID))
}
