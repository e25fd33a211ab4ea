package services

import (
	"fmt"
	"strconv"

	"quoting-service/internal/models"

	gojson "github.com/goccy/go-json"
)

type submissionCoverage struct {
	ItemProdutoID       string  `json:"itemProdutoId"`
	Descricao           string  `json:"descricao"`
	NumeroProcessoSusep string  `json:"numeroProcessoSusep"`
	Obrigatoria         bool    `json:"obrigatoria"`
	TipoID              int     `json:"tipoId"`
	CapitalBase         float64 `json:"capitalBase"`
	PremioBase          float64 `json:"premioBase"`
	CustoFixo           float64 `json:"custoFixo"`
	CapitalContratado   float64 `json:"capitalContratado"`
	PremioCalculado     float64 `json:"premioCalculado"`
}

type submissionProduct struct {
	IDProduto  int                  `json:"idProduto"`
	Descricao  string               `json:"descricao"`
	Coberturas []submissionCoverage `json:"coberturas"`
}

type simulationConfig struct {
	VLTotal  float64             `json:"VL_TOTAL"`
	Produtos []submissionProduct `json:"produtos"`
}

// BuildSubmissionPayload flattens the completed form and the contracted
// coverage selection into the provider's flat string map. Active coverages
// are grouped by product in first-appearance order so the same inputs always
// produce the same payload; inactive coverages are omitted entirely.
func BuildSubmissionPayload(form *models.FormData, coverages []models.Coverage) map[string]string {
	var products []*submissionProduct
	byProduct := make(map[int]*submissionProduct)
	for _, c := range coverages {
		if !c.IsActive {
			continue
		}
		product, ok := byProduct[c.ProductID]
		if !ok {
			product = &submissionProduct{
				IDProduto: c.ProductID,
				Descricao: fmt.Sprintf("Produto %d", c.ProductID),
			}
			byProduct[c.ProductID] = product
			products = append(products, product)
		}
		product.Coberturas = append(product.Coberturas, submissionCoverage{
			ItemProdutoID:       c.ItemID,
			Descricao:           c.Name,
			NumeroProcessoSusep: c.SusepProcess,
			Obrigatoria:         c.IsMandatory,
			TipoID:              int(c.CalculationType),
			CapitalBase:         c.BaseCapital,
			PremioBase:          c.BasePremium,
			CustoFixo:           c.FixedCost,
			CapitalContratado:   c.CurrentCapital,
			PremioCalculado:     ComputePremium(c),
		})
	}

	config := simulationConfig{
		VLTotal:  TotalPremium(coverages),
		Produtos: make([]submissionProduct, 0, len(products)),
	}
	for _, p := range products {
		config.Produtos = append(config.Produtos, *p)
	}
	configJSON, _ := gojson.Marshal(config)

	answers := form.DpsAnswers
	if answers == nil {
		answers = map[string]any{}
	}
	answersJSON, _ := gojson.Marshal(answers)

	payload := map[string]string{
		"mag_nome_completo":        form.FullName,
		"mag_cpf":                  form.CPF,
		"mag_email":                form.Email,
		"mag_celular":              form.Phone,
		"mag_estado":               form.State,
		"mag_data_nascimento":      form.BirthDate,
		"mag_sexo":                 form.Gender,
		"mag_renda":                form.Income,
		"mag_profissao_cbo":        form.Profession,
		"mag_cep":                  form.ZipCode,
		"mag_logradouro":           form.Street,
		"mag_numero":               form.Number,
		"mag_complemento":          form.Complement,
		"mag_bairro":               form.Neighborhood,
		"mag_cidade":               form.City,
		"mag_estado_civil":         form.MaritalStatus,
		"mag_tel_residencial":      form.HomePhone,
		"mag_rg_num":               form.RGNumber,
		"mag_rg_orgao":             form.RGIssuer,
		"mag_rg_data":              form.RGDate,
		"mag_num_filhos":           form.ChildrenCount,
		"mag_profissao_empresa":    form.Company,
		"mag_ppe":                  form.IsPPE,
		"final_simulation_config":  string(configJSON),
		"payment_pre_auth_code":    form.PaymentPreAuthCode,
		"reserved_proposal_number": form.ReservedProposalNumber,
		"widget_answers":           string(answersJSON),
	}

	for i, ben := range form.Beneficiaries {
		idx := strconv.Itoa(i)
		payload["mag_ben["+idx+"][nome]"] = ben.FullName
		payload["mag_ben["+idx+"][nasc]"] = ben.BirthDate
		payload["mag_ben["+idx+"][parentesco]"] = ben.Relationship
	}

	return payload
}
