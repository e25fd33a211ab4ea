package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"quoting-service/internal/config"
	"quoting-service/internal/models"

	gojson "github.com/goccy/go-json"
)

type WidgetProvider string

const (
	ProviderQuestionnaire WidgetProvider = "questionnaire"
	ProviderPayment       WidgetProvider = "payment"
)

// WidgetBridge drives the two embedded third-party frames through one
// protocol shape: obtain a provider token, obtain a session identifier,
// build the frame URL, hand the client a frame-authentication message scoped
// to the provider's exact origin, and apply origin-checked completion
// messages back into the wizard.
//
// Inbound messages are untrusted: anything from a non-allow-listed origin is
// discarded unconditionally, and anything that is not valid structured data
// for the provider's protocol is treated as frame-internal noise and
// silently ignored. Completion application is idempotent: the same payload
// delivered twice leaves the same state and never advances the wizard a
// second time.
type WidgetBridge struct {
	cfg       config.WidgetConfig
	insurer   IInsurerClient
	wizard    *WizardService
	coverages *CoverageService
}

func NewWidgetBridge(cfg config.WidgetConfig, insurer IInsurerClient, wizard *WizardService, coverages *CoverageService) *WidgetBridge {
	return &WidgetBridge{
		cfg:       cfg,
		insurer:   insurer,
		wizard:    wizard,
		coverages: coverages,
	}
}

// Init runs the provider handshake prefix and returns the frame URL plus the
// exact origin the client must scope its messages to. Token or reservation
// failures are returned for the step to surface with a retry affordance.
func (b *WidgetBridge) Init(ctx context.Context, session *models.WizardSession, provider WidgetProvider) (*models.WidgetInitResponse, error) {
	switch provider {
	case ProviderQuestionnaire:
		return b.initQuestionnaire(ctx, session)
	case ProviderPayment:
		return b.initPayment(ctx, session)
	default:
		return nil, ErrUnknownProvider
	}
}

func (b *WidgetBridge) initQuestionnaire(ctx context.Context, session *models.WizardSession) (*models.WidgetInitResponse, error) {
	widgetToken, err := b.insurer.GetWidgetToken(ctx, session.Credential)
	if err != nil {
		return nil, fmt.Errorf("failed to obtain widget token: %w", err)
	}

	proposalNumber, err := b.insurer.ReserveProposalNumber(ctx, session.Credential, widgetToken)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve proposal number: %w", err)
	}
	if err := b.wizard.SetReservedProposalNumber(ctx, session.ID, proposalNumber); err != nil {
		return nil, err
	}

	questionnaireID := b.coverages.QuestionnaireID(session.ID)
	frameURL := fmt.Sprintf("%s/questionario-Questionario/v2/responder/%s/Venda/%s/%s/%s?listenForToken=true",
		b.cfg.QuestionnaireOrigin, questionnaireID, proposalNumber, b.cfg.ThemePrimary, b.cfg.ThemeAccent)

	slog.Info("questionnaire widget initialized",
		"session_id", session.ID, "questionnaire_id", questionnaireID, "proposal_number", proposalNumber)

	return &models.WidgetInitResponse{URL: frameURL, Origin: b.cfg.QuestionnaireOrigin}, nil
}

func (b *WidgetBridge) initPayment(ctx context.Context, session *models.WizardSession) (*models.WidgetInitResponse, error) {
	switch session.FormData.PaymentMethod {
	case "credit":
	case "debit":
		return nil, ErrDebitUnavailable
	default:
		return nil, ErrPaymentMethodUnset
	}

	// Switching into the payment widget invalidates any earlier
	// pre-authorization.
	empty := ""
	if _, err := b.wizard.SetFormData(ctx, session.ID, &models.FormDataPatch{PaymentPreAuthCode: &empty}); err != nil {
		return nil, err
	}

	total := b.coverages.TotalPremium(session.ID)
	cleanedCPF := digitsOnly(session.FormData.CPF)
	frameURL := fmt.Sprintf("%s/widget-cartao-credito/v3/?cnpj=%s&acao=PreAutorizacao&valorCompra=%.2f&chave=cpf&valor=%s&chave=ModeloProposta&valor=EIS",
		b.cfg.PaymentOrigin, b.cfg.PaymentCNPJ, total, cleanedCPF)

	slog.Info("payment widget initialized", "session_id", session.ID, "purchase_amount", total)

	return &models.WidgetInitResponse{URL: frameURL, Origin: b.cfg.PaymentOrigin}, nil
}

// FrameToken fetches the frame-specific authentication token the client
// pushes into the loaded frame. The returned message carries the exact
// target origin; the client must never post it with a wildcard.
func (b *WidgetBridge) FrameToken(ctx context.Context, session *models.WizardSession, provider WidgetProvider) (*models.OutboundWidgetMessage, error) {
	switch provider {
	case ProviderQuestionnaire:
		token, err := b.insurer.GetQuestionnaireToken(ctx, session.Credential)
		if err != nil {
			return nil, fmt.Errorf("failed to authenticate questionnaire frame: %w", err)
		}
		return &models.OutboundWidgetMessage{
			Event:        "notify",
			Property:     "Token",
			Value:        token,
			TargetOrigin: b.cfg.QuestionnaireOrigin,
		}, nil
	case ProviderPayment:
		token, err := b.insurer.GetPaymentToken(ctx, session.Credential)
		if err != nil {
			return nil, fmt.Errorf("failed to authenticate payment frame: %w", err)
		}
		return &models.OutboundWidgetMessage{
			Event:        "notify",
			Property:     "Auth",
			Value:        token,
			TargetOrigin: b.cfg.PaymentOrigin,
		}, nil
	default:
		return nil, ErrUnknownProvider
	}
}

type paymentCompletion struct {
	Valor struct {
		CodigoPreAutorizacao string `json:"CodigoPreAutorizacao"`
	} `json:"Valor"`
}

type questionnaireCompletion struct {
	Resposta string `json:"Resposta"`
	ID       string `json:"Id"`
}

// HandleMessage applies one raw inbound frame message. The returned bool
// reports whether the message carried a completion that was applied; origin
// mismatches and parse noise return (false, nil); they are protocol noise,
// never user-facing errors.
func (b *WidgetBridge) HandleMessage(ctx context.Context, sessionID string, provider WidgetProvider, origin, data string) (bool, error) {
	expectedOrigin, err := b.expectedOrigin(provider)
	if err != nil {
		return false, err
	}
	if origin != expectedOrigin {
		slog.Debug("discarded widget message from unexpected origin",
			"session_id", sessionID, "provider", provider, "origin", origin)
		return false, nil
	}

	trimmed := strings.TrimSpace(data)
	if !strings.HasPrefix(trimmed, "{") {
		return false, nil
	}

	switch provider {
	case ProviderPayment:
		return b.applyPaymentCompletion(ctx, sessionID, trimmed)
	case ProviderQuestionnaire:
		return b.applyQuestionnaireCompletion(ctx, sessionID, trimmed)
	default:
		return false, ErrUnknownProvider
	}
}

func (b *WidgetBridge) applyPaymentCompletion(ctx context.Context, sessionID, data string) (bool, error) {
	var msg paymentCompletion
	if err := gojson.Unmarshal([]byte(data), &msg); err != nil {
		slog.Debug("ignored unparseable payment widget message", "session_id", sessionID)
		return false, nil
	}
	code := msg.Valor.CodigoPreAutorizacao
	if code == "" {
		return false, nil
	}

	// Recording the code does not advance the wizard: the payment step
	// requires an explicit user submission.
	if _, err := b.wizard.SetFormData(ctx, sessionID, &models.FormDataPatch{PaymentPreAuthCode: &code}); err != nil {
		return false, err
	}
	slog.Info("payment pre-authorization received", "session_id", sessionID)
	return true, nil
}

func (b *WidgetBridge) applyQuestionnaireCompletion(ctx context.Context, sessionID, data string) (bool, error) {
	var msg questionnaireCompletion
	if err := gojson.Unmarshal([]byte(data), &msg); err != nil {
		slog.Debug("ignored unparseable questionnaire widget message", "session_id", sessionID)
		return false, nil
	}
	if msg.Resposta == "" || msg.ID == "" {
		return false, nil
	}

	var answers map[string]any
	if err := gojson.Unmarshal([]byte(msg.Resposta), &answers); err != nil {
		slog.Debug("ignored questionnaire completion with unparseable answers", "session_id", sessionID)
		return false, nil
	}

	first, err := b.wizard.ApplyDpsAnswers(ctx, sessionID, answers)
	if err != nil {
		return false, err
	}
	if first {
		if _, err := b.wizard.Advance(ctx, sessionID); err != nil {
			return false, err
		}
		slog.Info("questionnaire completed", "session_id", sessionID, "questionnaire_id", msg.ID)
	}
	return true, nil
}

func (b *WidgetBridge) expectedOrigin(provider WidgetProvider) (string, error) {
	switch provider {
	case ProviderQuestionnaire:
		return b.cfg.QuestionnaireOrigin, nil
	case ProviderPayment:
		return b.cfg.PaymentOrigin, nil
	default:
		return "", ErrUnknownProvider
	}
}
