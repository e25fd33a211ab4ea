package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"quoting-service/internal/config"
	"quoting-service/internal/models"

	gojson "github.com/goccy/go-json"
)

// IInsurerClient is the full external insurer surface the flow consumes.
// Every authenticated call carries the session's opaque credential; failures
// are returned as-is for the caller to surface as a step-local retryable
// error. No automatic retries here.
type IInsurerClient interface {
	GetProfessions(ctx context.Context) ([]models.ProfessionOption, error)
	GetSimulation(ctx context.Context, credential string, payload map[string]string) (*models.QuoteEnvelope, error)
	GetWidgetToken(ctx context.Context, credential string) (string, error)
	GetQuestionnaireToken(ctx context.Context, credential string) (string, error)
	GetPaymentToken(ctx context.Context, credential string) (string, error)
	ReserveProposalNumber(ctx context.Context, credential, widgetToken string) (string, error)
	SubmitProposal(ctx context.Context, credential string, payload map[string]string) (string, error)
}

type InsurerClient struct {
	cfg  config.InsurerConfig
	http *http.Client
}

func NewInsurerClient(cfg config.InsurerConfig) IInsurerClient {
	return &InsurerClient{
		cfg:  cfg,
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

type rawProfession struct {
	Auxiliar  string `json:"Auxiliar"`
	Descricao string `json:"Descricao"`
}

func (c *InsurerClient) GetProfessions(ctx context.Context) ([]models.ProfessionOption, error) {
	body, err := c.do(ctx, http.MethodGet, "/professions", "", nil)
	if err != nil {
		return nil, err
	}

	var raw []rawProfession
	if err := gojson.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse professions response: %w", err)
	}

	options := make([]models.ProfessionOption, 0, len(raw))
	for _, p := range raw {
		options = append(options, models.ProfessionOption{Value: p.Auxiliar, Label: p.Descricao})
	}
	return options, nil
}

func (c *InsurerClient) GetSimulation(ctx context.Context, credential string, payload map[string]string) (*models.QuoteEnvelope, error) {
	form := url.Values{}
	for k, v := range payload {
		form.Set(k, v)
	}

	body, err := c.doForm(ctx, "/simulation", credential, form)
	if err != nil {
		return nil, err
	}

	var envelope models.QuoteEnvelope
	if err := gojson.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse simulation response: %w", err)
	}
	return &envelope, nil
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (c *InsurerClient) GetWidgetToken(ctx context.Context, credential string) (string, error) {
	return c.fetchToken(ctx, "/widget/token", credential)
}

func (c *InsurerClient) GetQuestionnaireToken(ctx context.Context, credential string) (string, error) {
	return c.fetchToken(ctx, "/questionnaire/token", credential)
}

func (c *InsurerClient) GetPaymentToken(ctx context.Context, credential string) (string, error) {
	return c.fetchToken(ctx, "/payment/token", credential)
}

func (c *InsurerClient) fetchToken(ctx context.Context, path, credential string) (string, error) {
	body, err := c.do(ctx, http.MethodPost, path, credential, nil)
	if err != nil {
		return "", err
	}

	var resp tokenResponse
	if err := gojson.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to parse token response: %w", err)
	}
	if resp.Token == "" {
		return "", fmt.Errorf("token endpoint %s returned an empty token", path)
	}
	return resp.Token, nil
}

type reserveResponse struct {
	ProposalNumber string `json:"proposalNumber"`
}

func (c *InsurerClient) ReserveProposalNumber(ctx context.Context, credential, widgetToken string) (string, error) {
	payload, _ := gojson.Marshal(map[string]string{"token": widgetToken})
	body, err := c.do(ctx, http.MethodPost, "/proposal/reserve", credential, strings.NewReader(string(payload)))
	if err != nil {
		return "", err
	}

	var resp reserveResponse
	if err := gojson.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to parse reserve response: %w", err)
	}
	if resp.ProposalNumber == "" {
		return "", fmt.Errorf("reserve endpoint returned an empty proposal number")
	}
	return resp.ProposalNumber, nil
}

type submitResponse struct {
	ProposalNumber string `json:"proposal_number"`
}

func (c *InsurerClient) SubmitProposal(ctx context.Context, credential string, payload map[string]string) (string, error) {
	form := url.Values{}
	for k, v := range payload {
		form.Set(k, v)
	}

	body, err := c.doForm(ctx, "/proposal", credential, form)
	if err != nil {
		return "", err
	}

	var resp submitResponse
	if err := gojson.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to parse submission response: %w", err)
	}
	if resp.ProposalNumber == "" {
		return "", fmt.Errorf("submission did not return a proposal number")
	}
	return resp.ProposalNumber, nil
}

func (c *InsurerClient) do(ctx context.Context, method, path, credential string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, credential, path)
}

func (c *InsurerClient) doForm(ctx context.Context, path, credential string, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.send(req, credential, path)
}

func (c *InsurerClient) send(req *http.Request, credential, path string) ([]byte, error) {
	if credential != "" {
		req.Header.Set(c.cfg.CredentialHeader, credential)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		slog.Error("insurer API call failed", "path", path, "error", err)
		return nil, fmt.Errorf("failed to call insurer API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read insurer response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		slog.Error("insurer API returned non-200", "path", path, "status", resp.StatusCode)
		return nil, fmt.Errorf("insurer API %s returned status %d", path, resp.StatusCode)
	}
	return body, nil
}
