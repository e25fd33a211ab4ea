package services

import (
	"context"
	"fmt"
	"testing"

	"quoting-service/internal/config"
	"quoting-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInsurerClient struct {
	professions    []models.ProfessionOption
	simulation     *models.QuoteEnvelope
	simulations    int
	widgetToken    string
	questionToken  string
	paymentToken   string
	proposalNumber string
	submitted      map[string]string
	err            error
}

func (f *fakeInsurerClient) GetProfessions(context.Context) ([]models.ProfessionOption, error) {
	return f.professions, f.err
}

func (f *fakeInsurerClient) GetSimulation(_ context.Context, _ string, _ map[string]string) (*models.QuoteEnvelope, error) {
	f.simulations++
	return f.simulation, f.err
}

func (f *fakeInsurerClient) GetWidgetToken(context.Context, string) (string, error) {
	return f.widgetToken, f.err
}

func (f *fakeInsurerClient) GetQuestionnaireToken(context.Context, string) (string, error) {
	return f.questionToken, f.err
}

func (f *fakeInsurerClient) GetPaymentToken(context.Context, string) (string, error) {
	return f.paymentToken, f.err
}

func (f *fakeInsurerClient) ReserveProposalNumber(context.Context, string, string) (string, error) {
	return f.proposalNumber, f.err
}

func (f *fakeInsurerClient) SubmitProposal(_ context.Context, _ string, payload map[string]string) (string, error) {
	f.submitted = payload
	return f.proposalNumber, f.err
}

func testWidgetConfig() config.WidgetConfig {
	return config.WidgetConfig{
		QuestionnaireOrigin: "https://questionnaire.example.com",
		PaymentOrigin:       "https://payment.example.com",
		PaymentCNPJ:         "33608308000173",
		ThemePrimary:        "0266e8",
		ThemeAccent:         "efb700",
	}
}

func newBridgeFixture(t *testing.T) (*WidgetBridge, *WizardService, *CoverageService, *fakeInsurerClient, *models.WizardSession) {
	t.Helper()

	insurer := &fakeInsurerClient{
		widgetToken:    "wtok",
		questionToken:  "qtok",
		paymentToken:   "ptok",
		proposalNumber: "PROP-42",
	}
	wizard := NewWizardService(newFakeFormStateRepo())
	coverages := NewCoverageService()
	bridge := NewWidgetBridge(testWidgetConfig(), insurer, wizard, coverages)
	session := wizard.CreateSession("nonce")
	return bridge, wizard, coverages, insurer, session
}

func TestWidgetBridge_InitQuestionnaireBuildsURLAndReserves(t *testing.T) {
	ctx := context.Background()
	bridge, wizard, _, _, session := newBridgeFixture(t)

	resp, err := bridge.Init(ctx, session, ProviderQuestionnaire)
	require.NoError(t, err)

	assert.Equal(t, "https://questionnaire.example.com", resp.Origin)
	// Without a quoted selection the questionnaire id falls back to the
	// generic sales questionnaire, which happens to match the fixed sales
	// path segment.
	assert.Equal(t,
		"https://questionnaire.example.com/questionario-Questionario/v2/responder/Venda/Venda/PROP-42/0266e8/efb700?listenForToken=true",
		resp.URL)

	current, err := wizard.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "PROP-42", current.FormData.ReservedProposalNumber)
}

func TestWidgetBridge_InitQuestionnaireUsesQuotedQuestionnaireID(t *testing.T) {
	ctx := context.Background()
	bridge, _, coverages, _, session := newBridgeFixture(t)

	raw := rawCoverage("m1", "Morte")
	raw.QuestionariosPorFaixa = []models.QuoteQuestionnaireBand{
		{Questionarios: []models.QuoteQuestionnaire{{IDQuestionario: "DPS-123"}}},
	}
	coverages.SetInitialCoverages(session.ID, quoteEnvelope(models.QuoteProduct{
		IDProduto:  2096,
		Coberturas: []models.QuoteCoverage{raw},
	}), testPreferredProduct)

	resp, err := bridge.Init(ctx, session, ProviderQuestionnaire)
	require.NoError(t, err)

	assert.Equal(t,
		"https://questionnaire.example.com/questionario-Questionario/v2/responder/DPS-123/Venda/PROP-42/0266e8/efb700?listenForToken=true",
		resp.URL)
}

func TestWidgetBridge_InitPaymentRequiresCreditMethod(t *testing.T) {
	ctx := context.Background()
	bridge, wizard, _, _, session := newBridgeFixture(t)

	_, err := bridge.Init(ctx, session, ProviderPayment)
	assert.ErrorIs(t, err, ErrPaymentMethodUnset)

	_, err = wizard.SetFormData(ctx, session.ID, &models.FormDataPatch{PaymentMethod: strPtr("debit")})
	require.NoError(t, err)
	session, err = wizard.GetSession(ctx, session.ID)
	require.NoError(t, err)

	_, err = bridge.Init(ctx, session, ProviderPayment)
	assert.ErrorIs(t, err, ErrDebitUnavailable)
}

func TestWidgetBridge_InitPaymentBuildsURLWithTotalAndCPF(t *testing.T) {
	ctx := context.Background()
	bridge, wizard, coverages, _, session := newBridgeFixture(t)

	raw := rawCoverage("m1", "Morte")
	coverages.SetInitialCoverages(session.ID, quoteEnvelope(models.QuoteProduct{
		IDProduto:  2096,
		Coberturas: []models.QuoteCoverage{raw},
	}), testPreferredProduct)

	_, err := wizard.SetFormData(ctx, session.ID, &models.FormDataPatch{
		PaymentMethod:      strPtr("credit"),
		CPF:                strPtr("123.456.789-01"),
		PaymentPreAuthCode: strPtr("STALE"),
	})
	require.NoError(t, err)
	session, err = wizard.GetSession(ctx, session.ID)
	require.NoError(t, err)

	resp, err := bridge.Init(ctx, session, ProviderPayment)
	require.NoError(t, err)

	total := coverages.TotalPremium(session.ID)
	expected := fmt.Sprintf(
		"https://payment.example.com/widget-cartao-credito/v3/?cnpj=33608308000173&acao=PreAutorizacao&valorCompra=%.2f&chave=cpf&valor=12345678901&chave=ModeloProposta&valor=EIS",
		total)
	assert.Equal(t, expected, resp.URL)

	current, err := wizard.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Empty(t, current.FormData.PaymentPreAuthCode, "re-entering the widget invalidates the old pre-authorization")
}

func TestWidgetBridge_FrameTokenPerProvider(t *testing.T) {
	ctx := context.Background()
	bridge, _, _, _, session := newBridgeFixture(t)

	msg, err := bridge.FrameToken(ctx, session, ProviderQuestionnaire)
	require.NoError(t, err)
	assert.Equal(t, "notify", msg.Event)
	assert.Equal(t, "Token", msg.Property)
	assert.Equal(t, "qtok", msg.Value)
	assert.Equal(t, "https://questionnaire.example.com", msg.TargetOrigin)

	msg, err = bridge.FrameToken(ctx, session, ProviderPayment)
	require.NoError(t, err)
	assert.Equal(t, "Auth", msg.Property)
	assert.Equal(t, "ptok", msg.Value)
	assert.Equal(t, "https://payment.example.com", msg.TargetOrigin)

	_, err = bridge.FrameToken(ctx, session, WidgetProvider("other"))
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestWidgetBridge_DiscardsWrongOrigin(t *testing.T) {
	ctx := context.Background()
	bridge, wizard, _, _, session := newBridgeFixture(t)

	applied, err := bridge.HandleMessage(ctx, session.ID, ProviderQuestionnaire,
		"https://evil.example.com", `{"Resposta":"{\"q1\":\"sim\"}","Id":"DPS-1"}`)

	require.NoError(t, err)
	assert.False(t, applied)

	current, err := wizard.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Nil(t, current.FormData.DpsAnswers, "messages from unexpected origins never touch state")
}

func TestWidgetBridge_IgnoresFrameNoise(t *testing.T) {
	ctx := context.Background()
	bridge, _, _, _, session := newBridgeFixture(t)

	for _, data := range []string{"", "loaded", "[1,2,3]", "{not json"} {
		applied, err := bridge.HandleMessage(ctx, session.ID, ProviderQuestionnaire,
			"https://questionnaire.example.com", data)
		require.NoError(t, err)
		assert.False(t, applied, "noise %q must be ignored silently", data)
	}
}

func TestWidgetBridge_QuestionnaireCompletionAdvancesOnce(t *testing.T) {
	ctx := context.Background()
	bridge, wizard, _, _, session := newBridgeFixture(t)

	completion := `{"Resposta":"{\"q1\":\"nao\"}","Id":"DPS-1"}`

	applied, err := bridge.HandleMessage(ctx, session.ID, ProviderQuestionnaire,
		"https://questionnaire.example.com", completion)
	require.NoError(t, err)
	assert.True(t, applied)

	current, err := wizard.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, current.CurrentStep)
	assert.Equal(t, map[string]any{"q1": "nao"}, current.FormData.DpsAnswers)

	// The provider may re-deliver the same completion; the wizard must not
	// move again.
	applied, err = bridge.HandleMessage(ctx, session.ID, ProviderQuestionnaire,
		"https://questionnaire.example.com", completion)
	require.NoError(t, err)
	assert.True(t, applied)

	current, err = wizard.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, current.CurrentStep, "duplicate completions never double-advance")
}

func TestWidgetBridge_PaymentCompletionDoesNotAdvance(t *testing.T) {
	ctx := context.Background()
	bridge, wizard, _, _, session := newBridgeFixture(t)

	applied, err := bridge.HandleMessage(ctx, session.ID, ProviderPayment,
		"https://payment.example.com", `{"Valor":{"CodigoPreAutorizacao":"PRE-999"}}`)
	require.NoError(t, err)
	assert.True(t, applied)

	current, err := wizard.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "PRE-999", current.FormData.PaymentPreAuthCode)
	assert.Equal(t, 1, current.CurrentStep, "the payment step requires an explicit user submission")
}

func TestWidgetBridge_PaymentMessageWithoutCodeIgnored(t *testing.T) {
	ctx := context.Background()
	bridge, wizard, _, _, session := newBridgeFixture(t)

	applied, err := bridge.HandleMessage(ctx, session.ID, ProviderPayment,
		"https://payment.example.com", `{"Valor":{}}`)
	require.NoError(t, err)
	assert.False(t, applied)

	current, err := wizard.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Empty(t, current.FormData.PaymentPreAuthCode)
}
