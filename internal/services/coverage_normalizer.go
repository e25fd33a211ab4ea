package services

import (
	"fmt"
	"strconv"
	"strings"

	"quoting-service/internal/models"
)

// RegulatoryCapitalFloor is the minimum contractable capital in currency
// units, applied regardless of what the upstream quote reports.
const RegulatoryCapitalFloor = 20000

// NormalizeQuote turns the raw simulation envelope into the ordered,
// name-deduplicated coverage list the rest of the flow works with, plus the
// main SUSEP process number for compliance display.
//
// The decoder is total: every absent level yields defaults, never an error.
// An entirely missing product list is the soft "no offer" condition and
// returns an empty list with an empty SUSEP number.
func NormalizeQuote(env *models.QuoteEnvelope, preferredProductID int) ([]models.Coverage, string) {
	products := quotedProducts(env)
	if len(products) == 0 {
		return []models.Coverage{}, ""
	}

	// When the preferred product is among the results, only its items are
	// offered; otherwise every returned product contributes.
	toProcess := products
	for _, p := range products {
		if p.IDProduto == preferredProductID {
			toProcess = []models.QuoteProduct{p}
			break
		}
	}

	mainSusep := ""
	if len(toProcess[0].Coberturas) > 0 {
		mainSusep = toProcess[0].Coberturas[0].NumeroProcessoSusep
	}

	seen := make(map[string]bool)
	coverages := make([]models.Coverage, 0)
	for _, product := range toProcess {
		for _, raw := range product.Coberturas {
			c := buildCoverage(product.IDProduto, raw)
			// First occurrence wins across products.
			if seen[c.Name] {
				continue
			}
			seen[c.Name] = true
			coverages = append(coverages, c)
		}
	}

	return coverages, mainSusep
}

func quotedProducts(env *models.QuoteEnvelope) []models.QuoteProduct {
	if env == nil || env.Valor == nil || len(env.Valor.Simulacoes) == 0 {
		return nil
	}
	return env.Valor.Simulacoes[0].Produtos
}

func buildCoverage(productID int, raw models.QuoteCoverage) models.Coverage {
	baseCapital := parseAmount(raw.CapitalBase)

	reportedMin := parseAmount(raw.ValorMinimoCapital)
	if reportedMin == 0 {
		reportedMin = baseCapital
	}
	minCapital := max(reportedMin, RegulatoryCapitalFloor)

	itemID := raw.ItemProdutoID
	if itemID == "" {
		itemID = raw.ID
	}
	idPart := itemID
	if idPart == "" {
		idPart = raw.Descricao
	}

	name := raw.Descricao
	if name == "" {
		name = "Cobertura sem nome"
	}
	description := raw.DescricaoDigitalCurta
	if description == "" {
		description = "Descrição não fornecida."
	}
	longDescription := raw.DescricaoDigitalLonga
	if longDescription == "" {
		longDescription = "Detalhes não fornecidos."
	}
	susep := raw.NumeroProcessoSusep
	if susep == "" {
		susep = "N/A"
	}

	return models.Coverage{
		ID:              fmt.Sprintf("%d-%s", productID, idPart),
		ProductID:       productID,
		ItemID:          itemID,
		Name:            name,
		Description:     description,
		LongDescription: longDescription,
		SusepProcess:    susep,
		IsMandatory:     raw.Obrigatoria,
		IsAdjustable:    raw.TipoID == int(models.CalculationProportional),
		CalculationType: models.CalculationType(raw.TipoID),
		MinCapital:      minCapital,
		MaxCapital:      parseAmount(raw.Limite),
		BaseCapital:     baseCapital,
		BasePremium:     parseAmount(raw.PremioBase),
		FixedCost:       parseAmount(raw.CustoFixo),
		QuestionnaireID: firstQuestionnaireID(raw),
		IsActive:        true,
		CurrentCapital:  max(baseCapital, minCapital),
	}
}

func firstQuestionnaireID(raw models.QuoteCoverage) string {
	for _, band := range raw.QuestionariosPorFaixa {
		for _, q := range band.Questionarios {
			if q.IDQuestionario != "" {
				return q.IDQuestionario
			}
		}
	}
	return ""
}

// parseAmount reads the insurer's stringly-typed monetary fields. Anything
// unparseable is zero, never an error, so downstream math never branches on
// absence.
func parseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
