package services

import (
	"strconv"
	"strings"
	"time"

	"quoting-service/internal/models"
)

// StepCount is the number of wizard steps. Step ownership of FormData fields
// follows the flow: 1 name, 2 contact, 3 quoting profile, 4 coverage
// customization, 5 summary, 6 address, 7 detailed profile, 8 beneficiaries,
// 9 health questionnaire, 10 payment, 11 submission.
const StepCount = 11

const requiredMsg = "Campo obrigatório."

// AdultAge is the age at which a beneficiary no longer needs a legal
// representative.
const AdultAge = 18

// AgeOn computes a person's age at the given date using calendar year/month/
// day arithmetic. Timestamp subtraction is deliberately avoided: it produces
// timezone-driven off-by-one errors at the birthday boundary.
func AgeOn(birthDate string, on time.Time) (int, bool) {
	birth, err := time.Parse("2006-01-02", birthDate)
	if err != nil {
		return 0, false
	}
	age := on.Year() - birth.Year()
	if on.Month() < birth.Month() || (on.Month() == birth.Month() && on.Day() < birth.Day()) {
		age--
	}
	return age, true
}

// IsMinor reports whether the birth date belongs to someone under 18 as of
// now. An unparseable date is not treated as a minor; required-field checks
// catch it separately.
func IsMinor(birthDate string, now time.Time) bool {
	age, ok := AgeOn(birthDate, now)
	return ok && age < AdultAge
}

// ValidateStep recomputes the validation entries for the fields the given
// step owns. Fields that pass map to an empty message so a merge clears
// their previous errors.
func ValidateStep(step int, f *models.FormData) map[string]string {
	switch step {
	case 1:
		return map[string]string{
			"full_name": requiredIf(strings.TrimSpace(f.FullName) == ""),
		}
	case 2:
		out := map[string]string{
			"cpf":   requiredIf(f.CPF == ""),
			"phone": requiredIf(f.Phone == ""),
			"state": requiredIf(f.State == ""),
		}
		if !strings.Contains(f.Email, "@") {
			out["email"] = "E-mail inválido."
		} else {
			out["email"] = ""
		}
		if !f.Consent {
			out["consent"] = "É necessário aceitar os termos."
		} else {
			out["consent"] = ""
		}
		return out
	case 3:
		return map[string]string{
			"birth_date": requiredIf(f.BirthDate == ""),
			"gender":     requiredIf(f.Gender == ""),
			"income":     requiredIf(f.Income == ""),
			"profession": requiredIf(f.Profession == ""),
		}
	case 6:
		out := map[string]string{
			"street":       requiredIf(strings.TrimSpace(f.Street) == ""),
			"number":       requiredIf(strings.TrimSpace(f.Number) == ""),
			"neighborhood": requiredIf(strings.TrimSpace(f.Neighborhood) == ""),
			"city":         requiredIf(strings.TrimSpace(f.City) == ""),
		}
		if len(digitsOnly(f.ZipCode)) != 8 {
			out["zip_code"] = "CEP inválido."
		} else {
			out["zip_code"] = ""
		}
		return out
	case 7:
		out := map[string]string{
			"marital_status": requiredIf(f.MaritalStatus == ""),
			"rg_number":      requiredIf(strings.TrimSpace(f.RGNumber) == ""),
			"rg_issuer":      requiredIf(strings.TrimSpace(f.RGIssuer) == ""),
			"rg_date":        requiredIf(f.RGDate == ""),
			"company":        requiredIf(strings.TrimSpace(f.Company) == ""),
			"is_ppe":         requiredIf(f.IsPPE == ""),
		}
		if n, err := strconv.Atoi(strings.TrimSpace(f.ChildrenCount)); err != nil || n < 0 {
			out["children_count"] = "Valor inválido."
		} else {
			out["children_count"] = ""
		}
		return out
	case 8:
		if beneficiariesValid(f.Beneficiaries, time.Now()) {
			return map[string]string{"beneficiaries": ""}
		}
		return map[string]string{
			"beneficiaries": "Preencha todos os campos obrigatórios de todos os beneficiários.",
		}
	case 9:
		if f.DpsAnswers == nil {
			return map[string]string{"dps_answers": "Questionário de saúde pendente."}
		}
		return map[string]string{"dps_answers": ""}
	case 10:
		out := map[string]string{
			"payment_method": requiredIf(f.PaymentMethod == ""),
		}
		if f.PaymentPreAuthCode == "" {
			out["payment_pre_auth_code"] = "Pagamento não autorizado."
		} else {
			out["payment_pre_auth_code"] = ""
		}
		return out
	default:
		// Steps 4, 5 and 11 own no form fields; their readiness is
		// handled by the coverage and submission endpoints.
		return map[string]string{}
	}
}

// StepGate reports whether forward navigation from the step is allowed: the
// logical AND of "no error" across exactly the fields the step owns.
func StepGate(step int, f *models.FormData) bool {
	for _, msg := range ValidateStep(step, f) {
		if msg != "" {
			return false
		}
	}
	return true
}

// beneficiariesValid requires at least one beneficiary, every one fully
// filled, and a fully populated legal representative for each minor. A
// representative on an adult beneficiary is ignored even if partially
// filled.
func beneficiariesValid(beneficiaries []models.Beneficiary, now time.Time) bool {
	if len(beneficiaries) == 0 {
		return false
	}
	for _, b := range beneficiaries {
		if strings.TrimSpace(b.FullName) == "" ||
			len(digitsOnly(b.CPF)) != 11 ||
			strings.TrimSpace(b.RG) == "" ||
			b.BirthDate == "" ||
			b.Relationship == "" {
			return false
		}
		if _, ok := AgeOn(b.BirthDate, now); !ok {
			return false
		}
		if IsMinor(b.BirthDate, now) {
			rep := b.LegalRepresentative
			if strings.TrimSpace(rep.FullName) == "" ||
				len(digitsOnly(rep.CPF)) != 11 ||
				strings.TrimSpace(rep.RG) == "" {
				return false
			}
		}
	}
	return true
}

func requiredIf(missing bool) string {
	if missing {
		return requiredMsg
	}
	return ""
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
