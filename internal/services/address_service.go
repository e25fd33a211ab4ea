package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"quoting-service/internal/config"
	"quoting-service/internal/models"

	gojson "github.com/goccy/go-json"
)

// AddressService resolves Brazilian postal codes (CEP) against the public
// ViaCEP service to prefill the address step.
type AddressService struct {
	cfg  config.AddressConfig
	http *http.Client
}

type IAddressService interface {
	LookupCEP(ctx context.Context, cep string) (*models.Address, error)
}

func NewAddressService(cfg config.AddressConfig) IAddressService {
	return &AddressService{
		cfg:  cfg,
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

type viaCEPResponse struct {
	CEP        string `json:"cep"`
	Logradouro string `json:"logradouro"`
	Complement string `json:"complemento"`
	Bairro     string `json:"bairro"`
	Localidade string `json:"localidade"`
	UF         string `json:"uf"`
	Erro       bool   `json:"erro"`
}

func (s *AddressService) LookupCEP(ctx context.Context, cep string) (*models.Address, error) {
	clean := digitsOnly(cep)
	if len(clean) != 8 {
		return nil, fmt.Errorf("CEP must have 8 digits")
	}

	reqURL := fmt.Sprintf("%s/%s/json/", s.cfg.CEPBaseURL, clean)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := s.http.Do(req)
	if err != nil {
		slog.Error("CEP lookup failed", "cep", clean, "error", err)
		return nil, fmt.Errorf("failed to call CEP API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("CEP API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read CEP response: %w", err)
	}

	var parsed viaCEPResponse
	if err := gojson.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse CEP response: %w", err)
	}
	if parsed.Erro {
		return nil, fmt.Errorf("CEP %s not found", clean)
	}

	return &models.Address{
		ZipCode:      parsed.CEP,
		Street:       parsed.Logradouro,
		Complement:   parsed.Complement,
		Neighborhood: parsed.Bairro,
		City:         parsed.Localidade,
		State:        parsed.UF,
	}, nil
}
