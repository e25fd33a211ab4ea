package services

import (
	"testing"
	"time"

	"quoting-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCoverageService(t *testing.T) (*CoverageService, []models.Coverage) {
	t.Helper()

	mandatory := rawCoverage("m1", "Morte")
	mandatory.Obrigatoria = true
	optional := rawCoverage("o1", "Invalidez por Acidente")

	s := NewCoverageService()
	list := s.SetInitialCoverages("sess-1", quoteEnvelope(models.QuoteProduct{
		IDProduto:  2096,
		Coberturas: []models.QuoteCoverage{mandatory, optional},
	}), testPreferredProduct)
	require.Len(t, list, 2)
	return s, list
}

func TestCoverageService_ToggleMandatoryIsNoOp(t *testing.T) {
	s, list := seedCoverageService(t)

	err := s.Toggle("sess-1", list[0].ID)

	assert.NoError(t, err, "toggling a mandatory coverage is accepted, not an error")
	assert.True(t, s.Coverages("sess-1")[0].IsActive, "mandatory coverage stays active")
}

func TestCoverageService_ToggleOptionalFlips(t *testing.T) {
	s, list := seedCoverageService(t)

	require.NoError(t, s.Toggle("sess-1", list[1].ID))
	assert.False(t, s.Coverages("sess-1")[1].IsActive)

	require.NoError(t, s.Toggle("sess-1", list[1].ID))
	assert.True(t, s.Coverages("sess-1")[1].IsActive)
}

func TestCoverageService_ToggleUnknownCoverage(t *testing.T) {
	s, _ := seedCoverageService(t)

	assert.ErrorIs(t, s.Toggle("sess-1", "missing"), ErrCoverageNotFound)
	assert.ErrorIs(t, s.Toggle("other-session", "missing"), ErrSessionNotFound)
}

func TestCoverageService_AdjustCapitalStoresAsGiven(t *testing.T) {
	s, list := seedCoverageService(t)

	require.NoError(t, s.AdjustCapital("sess-1", list[0].ID, 5000))

	assert.Equal(t, 5000.0, s.Coverages("sess-1")[0].CurrentCapital,
		"the store is permissive; range clamping happens at the API layer")
}

func TestCoverageService_CoveragesReturnsACopy(t *testing.T) {
	s, _ := seedCoverageService(t)

	copy1 := s.Coverages("sess-1")
	copy1[0].CurrentCapital = 1

	assert.NotEqual(t, 1.0, s.Coverages("sess-1")[0].CurrentCapital)
}

func TestCoverageService_SetInitialCoveragesDiscardsEdits(t *testing.T) {
	s, list := seedCoverageService(t)
	require.NoError(t, s.Toggle("sess-1", list[1].ID))

	s.SetInitialCoverages("sess-1", quoteEnvelope(models.QuoteProduct{
		IDProduto:  2096,
		Coberturas: []models.QuoteCoverage{rawCoverage("o1", "Invalidez por Acidente")},
	}), testPreferredProduct)

	refreshed := s.Coverages("sess-1")
	require.Len(t, refreshed, 1)
	assert.True(t, refreshed[0].IsActive)
}

func TestCoverageService_QuestionnaireIDFallsBack(t *testing.T) {
	s, _ := seedCoverageService(t)
	assert.Equal(t, DefaultQuestionnaireID, s.QuestionnaireID("sess-1"))
	assert.Equal(t, DefaultQuestionnaireID, s.QuestionnaireID("unknown-session"))
}

func TestCoverageService_Totals(t *testing.T) {
	s, list := seedCoverageService(t)

	expected := TotalPremium(list)
	assert.Equal(t, expected, s.TotalPremium("sess-1"))
	assert.Equal(t, TotalIndemnity(list), s.TotalIndemnity("sess-1"))
}

func TestCoverageService_PruneIdle(t *testing.T) {
	s, _ := seedCoverageService(t)

	assert.Equal(t, 0, s.PruneIdle(time.Hour), "fresh sessions survive")
	assert.True(t, s.HasCoverages("sess-1"))

	assert.Equal(t, 1, s.PruneIdle(0))
	assert.False(t, s.HasCoverages("sess-1"))
}
