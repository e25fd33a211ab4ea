package services

import (
	"testing"

	"quoting-service/internal/models"

	gojson "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSubmissionPayload_ApplicantFields(t *testing.T) {
	form := completeForm()
	form.ReservedProposalNumber = "PROP-42"

	payload := BuildSubmissionPayload(&form, nil)

	assert.Equal(t, "João da Silva", payload["mag_nome_completo"])
	assert.Equal(t, "123.456.789-01", payload["mag_cpf"])
	assert.Equal(t, "joao@example.com", payload["mag_email"])
	assert.Equal(t, "11999990000", payload["mag_celular"])
	assert.Equal(t, "SP", payload["mag_estado"])
	assert.Equal(t, "1990-05-20", payload["mag_data_nascimento"])
	assert.Equal(t, "223280", payload["mag_profissao_cbo"])
	assert.Equal(t, "01310-100", payload["mag_cep"])
	assert.Equal(t, "solteiro", payload["mag_estado_civil"])
	assert.Equal(t, "0", payload["mag_num_filhos"])
	assert.Equal(t, "nao", payload["mag_ppe"])
	assert.Equal(t, "PRE-123", payload["payment_pre_auth_code"])
	assert.Equal(t, "PROP-42", payload["reserved_proposal_number"])
}

func TestBuildSubmissionPayload_BeneficiaryTriples(t *testing.T) {
	form := completeForm()
	second := validBeneficiary()
	second.ID = "ben-2"
	second.FullName = "Pedro Souza"
	second.Relationship = "filho"
	form.Beneficiaries = append(form.Beneficiaries, second)

	payload := BuildSubmissionPayload(&form, nil)

	assert.Equal(t, "Maria Souza", payload["mag_ben[0][nome]"])
	assert.Equal(t, form.Beneficiaries[0].BirthDate, payload["mag_ben[0][nasc]"])
	assert.Equal(t, "conjuge", payload["mag_ben[0][parentesco]"])
	assert.Equal(t, "Pedro Souza", payload["mag_ben[1][nome]"])
	assert.Equal(t, "filho", payload["mag_ben[1][parentesco]"])
}

func TestBuildSubmissionPayload_SimulationConfigGroupsActiveByProduct(t *testing.T) {
	form := completeForm()
	coverages := []models.Coverage{
		{
			ProductID:       2096,
			ItemID:          "m1",
			Name:            "Morte",
			SusepProcess:    "15414.900000/2020-01",
			IsMandatory:     true,
			CalculationType: models.CalculationProportional,
			BaseCapital:     100000,
			BasePremium:     50,
			FixedCost:       5,
			CurrentCapital:  200000,
			IsActive:        true,
		},
		{
			ProductID:      2096,
			ItemID:         "o1",
			Name:           "Invalidez",
			CurrentCapital: 50000,
			IsActive:       false,
		},
		{
			ProductID:      1000,
			ItemID:         "x1",
			Name:           "Assistência",
			BasePremium:    10,
			CurrentCapital: 20000,
			IsActive:       true,
		},
	}

	payload := BuildSubmissionPayload(&form, coverages)

	var config struct {
		VLTotal  float64 `json:"VL_TOTAL"`
		Produtos []struct {
			IDProduto  int    `json:"idProduto"`
			Descricao  string `json:"descricao"`
			Coberturas []struct {
				ItemProdutoID     string  `json:"itemProdutoId"`
				CapitalContratado float64 `json:"capitalContratado"`
				PremioCalculado   float64 `json:"premioCalculado"`
			} `json:"coberturas"`
		} `json:"produtos"`
	}
	require.NoError(t, gojson.Unmarshal([]byte(payload["final_simulation_config"]), &config))

	assert.Equal(t, 115.0, config.VLTotal)
	require.Len(t, config.Produtos, 2, "inactive coverages never contribute a product")

	assert.Equal(t, 2096, config.Produtos[0].IDProduto)
	assert.Equal(t, "Produto 2096", config.Produtos[0].Descricao)
	require.Len(t, config.Produtos[0].Coberturas, 1, "the inactive coverage is omitted")
	assert.Equal(t, "m1", config.Produtos[0].Coberturas[0].ItemProdutoID)
	assert.Equal(t, 200000.0, config.Produtos[0].Coberturas[0].CapitalContratado)
	assert.Equal(t, 105.0, config.Produtos[0].Coberturas[0].PremioCalculado)

	assert.Equal(t, 1000, config.Produtos[1].IDProduto)
}

func TestBuildSubmissionPayload_WidgetAnswers(t *testing.T) {
	form := completeForm()
	form.DpsAnswers = map[string]any{"q1": "nao"}

	payload := BuildSubmissionPayload(&form, nil)
	assert.JSONEq(t, `{"q1":"nao"}`, payload["widget_answers"])

	form.DpsAnswers = nil
	payload = BuildSubmissionPayload(&form, nil)
	assert.Equal(t, "{}", payload["widget_answers"], "absent answers serialize as an empty object")
}

func TestBuildSubmissionPayload_Deterministic(t *testing.T) {
	form := completeForm()
	coverages := []models.Coverage{
		{ProductID: 2096, ItemID: "m1", Name: "Morte", IsActive: true, CurrentCapital: 100000},
		{ProductID: 1000, ItemID: "x1", Name: "Assistência", IsActive: true, CurrentCapital: 20000},
	}

	first := BuildSubmissionPayload(&form, coverages)
	second := BuildSubmissionPayload(&form, coverages)

	assert.Equal(t, first, second, "same snapshot always yields the same payload")
}
