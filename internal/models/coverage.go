package models

// CalculationType mirrors the insurer's tipoId for a coverage item. Type 3
// coverages are capital-adjustable and priced proportionally to the
// contracted capital; every other type is a flat add-on.
type CalculationType int

const (
	CalculationUnknown      CalculationType = 0
	CalculationProportional CalculationType = 3
)

// Coverage is one insurable benefit line item in its normalized,
// user-editable form. IsActive and CurrentCapital are the only fields mutated
// after normalization; everything else is fixed by the quote.
type Coverage struct {
	ID              string          `json:"id"`
	ProductID       int             `json:"product_id"`
	ItemID          string          `json:"item_id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	LongDescription string          `json:"long_description"`
	SusepProcess    string          `json:"susep_process"`
	IsMandatory     bool            `json:"is_mandatory"`
	IsAdjustable    bool            `json:"is_adjustable"`
	CalculationType CalculationType `json:"calculation_type"`
	MinCapital      float64         `json:"min_capital"`
	MaxCapital      float64         `json:"max_capital"`
	BaseCapital     float64         `json:"base_capital"`
	BasePremium     float64         `json:"base_premium"`
	FixedCost       float64         `json:"fixed_cost"`
	QuestionnaireID string          `json:"questionnaire_id,omitempty"`
	IsActive        bool            `json:"is_active"`
	CurrentCapital  float64         `json:"current_capital"`
}

// Quote envelope: the raw, provider-shaped simulation response. Every level
// may be absent; monetary figures arrive as strings. The normalizer is the
// only consumer.

type QuoteEnvelope struct {
	Valor *QuoteValue `json:"Valor"`
}

type QuoteValue struct {
	Simulacoes []QuoteSimulation `json:"simulacoes"`
}

type QuoteSimulation struct {
	Produtos []QuoteProduct `json:"produtos"`
}

type QuoteProduct struct {
	IDProduto  int             `json:"idProduto"`
	Coberturas []QuoteCoverage `json:"coberturas"`
}

type QuoteCoverage struct {
	ItemProdutoID         string                   `json:"itemProdutoId"`
	ID                    string                   `json:"id"`
	Descricao             string                   `json:"descricao"`
	DescricaoDigitalCurta string                   `json:"descricaoDigitalCurta"`
	DescricaoDigitalLonga string                   `json:"descricaoDigitalLonga"`
	NumeroProcessoSusep   string                   `json:"numeroProcessoSusep"`
	Obrigatoria           bool                     `json:"obrigatoria"`
	TipoID                int                      `json:"tipoId"`
	ValorMinimoCapital    string                   `json:"valorMinimoCapitalContratacao"`
	CapitalBase           string                   `json:"capitalBase"`
	Limite                string                   `json:"limite"`
	PremioBase            string                   `json:"premioBase"`
	CustoFixo             string                   `json:"custoFixo"`
	QuestionariosPorFaixa []QuoteQuestionnaireBand `json:"questionariosPorFaixa"`
}

type QuoteQuestionnaireBand struct {
	Questionarios []QuoteQuestionnaire `json:"questionarios"`
}

type QuoteQuestionnaire struct {
	IDQuestionario string `json:"idQuestionario"`
}
