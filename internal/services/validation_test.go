package services

import (
	"testing"
	"time"

	"quoting-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func adultBirthDate() string {
	return time.Now().AddDate(-30, 0, 0).Format("2006-01-02")
}

func minorBirthDate() string {
	return time.Now().AddDate(-10, 0, 0).Format("2006-01-02")
}

func validBeneficiary() models.Beneficiary {
	return models.Beneficiary{
		ID:           "ben-1",
		FullName:     "Maria Souza",
		RG:           "12.345.678-9",
		CPF:          "123.456.789-01",
		BirthDate:    adultBirthDate(),
		Relationship: "conjuge",
	}
}

func completeForm() models.FormData {
	return models.FormData{
		FullName:           "João da Silva",
		CPF:                "123.456.789-01",
		Email:              "joao@example.com",
		Phone:              "11999990000",
		State:              "SP",
		Consent:            true,
		BirthDate:          "1990-05-20",
		Gender:             "M",
		Income:             "5000",
		Profession:         "223280",
		ZipCode:            "01310-100",
		Street:             "Av. Paulista",
		Number:             "1000",
		Neighborhood:       "Bela Vista",
		City:               "São Paulo",
		MaritalStatus:      "solteiro",
		RGNumber:           "12.345.678-9",
		RGIssuer:           "SSP",
		RGDate:             "2010-01-01",
		ChildrenCount:      "0",
		Company:            "Empresa X",
		IsPPE:              "nao",
		Beneficiaries:      []models.Beneficiary{validBeneficiary()},
		DpsAnswers:         map[string]any{"q1": "nao"},
		PaymentMethod:      "credit",
		PaymentPreAuthCode: "PRE-123",
	}
}

func TestAgeOn_ExactBirthdayIsAdult(t *testing.T) {
	on := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

	age, ok := AgeOn("2006-06-15", on)
	require.True(t, ok)
	assert.Equal(t, 18, age, "turns 18 on the birthday itself")

	age, ok = AgeOn("2006-06-16", on)
	require.True(t, ok)
	assert.Equal(t, 17, age, "one day short is still 17")
}

func TestAgeOn_UnparseableDate(t *testing.T) {
	_, ok := AgeOn("15/06/2006", time.Now())
	assert.False(t, ok)
}

func TestIsMinor_Boundary(t *testing.T) {
	on := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	assert.False(t, IsMinor("2006-06-15", on))
	assert.True(t, IsMinor("2006-06-16", on))
	assert.False(t, IsMinor("not-a-date", on), "unparseable dates are not minors; required checks catch them")
}

func TestStepGate_CompleteFormPassesEveryStep(t *testing.T) {
	form := completeForm()
	for step := 1; step <= StepCount; step++ {
		assert.True(t, StepGate(step, &form), "step %d should pass with a complete form", step)
	}
}

func TestStepGate_OneInvalidFieldBlocks(t *testing.T) {
	cases := []struct {
		name   string
		step   int
		mutate func(*models.FormData)
	}{
		{"missing name", 1, func(f *models.FormData) { f.FullName = "  " }},
		{"email without at", 2, func(f *models.FormData) { f.Email = "joao.example.com" }},
		{"consent not given", 2, func(f *models.FormData) { f.Consent = false }},
		{"missing birth date", 3, func(f *models.FormData) { f.BirthDate = "" }},
		{"short zip code", 6, func(f *models.FormData) { f.ZipCode = "0131" }},
		{"negative children count", 7, func(f *models.FormData) { f.ChildrenCount = "-1" }},
		{"non-numeric children count", 7, func(f *models.FormData) { f.ChildrenCount = "dois" }},
		{"no beneficiaries", 8, func(f *models.FormData) { f.Beneficiaries = nil }},
		{"beneficiary short cpf", 8, func(f *models.FormData) { f.Beneficiaries[0].CPF = "123" }},
		{"questionnaire pending", 9, func(f *models.FormData) { f.DpsAnswers = nil }},
		{"payment method unset", 10, func(f *models.FormData) { f.PaymentMethod = "" }},
		{"pre-auth missing", 10, func(f *models.FormData) { f.PaymentPreAuthCode = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := completeForm()
			tc.mutate(&form)
			assert.False(t, StepGate(tc.step, &form))
		})
	}
}

func TestValidateStep_ClearsResolvedErrors(t *testing.T) {
	form := completeForm()
	form.Email = "broken"

	errs := ValidateStep(2, &form)
	assert.Equal(t, "E-mail inválido.", errs["email"])

	form.Email = "joao@example.com"
	errs = ValidateStep(2, &form)
	assert.Empty(t, errs["email"], "a passing field maps to an empty message so merges clear it")
}

func TestValidateStep_MinorBeneficiaryNeedsRepresentative(t *testing.T) {
	form := completeForm()
	minor := validBeneficiary()
	minor.BirthDate = minorBirthDate()
	form.Beneficiaries = []models.Beneficiary{minor}

	assert.False(t, StepGate(8, &form), "a minor without a representative blocks the step")

	minor.LegalRepresentative = models.LegalRepresentative{
		FullName: "Carlos Souza",
		RG:       "98.765.432-1",
		CPF:      "987.654.321-09",
	}
	form.Beneficiaries = []models.Beneficiary{minor}
	assert.True(t, StepGate(8, &form))
}

func TestValidateStep_RepresentativeIgnoredForAdults(t *testing.T) {
	form := completeForm()
	adult := validBeneficiary()
	adult.LegalRepresentative = models.LegalRepresentative{FullName: "incompleto"}
	form.Beneficiaries = []models.Beneficiary{adult}

	assert.True(t, StepGate(8, &form), "a half-filled representative on an adult never blocks")
}

func TestValidateStep_StepsWithoutFieldsAlwaysPass(t *testing.T) {
	empty := models.FormData{}
	for _, step := range []int{4, 5, 11} {
		assert.True(t, StepGate(step, &empty), "step %d owns no form fields", step)
	}
}
