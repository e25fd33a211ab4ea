package models

// LegalRepresentative is the adult responsible for a minor beneficiary's
// proceeds. Required and fully populated when the beneficiary is under 18;
// otherwise ignored even if partially filled.
type LegalRepresentative struct {
	FullName  string `json:"full_name"`
	RG        string `json:"rg"`
	CPF       string `json:"cpf"`
	BirthDate string `json:"birth_date"`
}

type Beneficiary struct {
	ID                  string              `json:"id"`
	FullName            string              `json:"full_name"`
	RG                  string              `json:"rg"`
	CPF                 string              `json:"cpf"`
	BirthDate           string              `json:"birth_date"`
	Relationship        string              `json:"relationship"`
	LegalRepresentative LegalRepresentative `json:"legal_representative"`
}

// FormData is everything the wizard collects across its steps. Each field is
// owned by exactly one step; DpsAnswers, ReservedProposalNumber and
// PaymentPreAuthCode are opaque pass-throughs written only by the widget
// bridge.
type FormData struct {
	// Step 1-2: identity and contact
	FullName string `json:"full_name"`
	CPF      string `json:"cpf"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	State    string `json:"state"`
	Consent  bool   `json:"consent"`

	// Step 3: quoting profile
	BirthDate  string `json:"birth_date"`
	Gender     string `json:"gender"`
	Income     string `json:"income"`
	Profession string `json:"profession"`

	// Step 6: address
	ZipCode      string `json:"zip_code"`
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`

	// Step 7: detailed profile
	MaritalStatus string `json:"marital_status"`
	HomePhone     string `json:"home_phone"`
	RGNumber      string `json:"rg_number"`
	RGIssuer      string `json:"rg_issuer"`
	RGDate        string `json:"rg_date"`
	ChildrenCount string `json:"children_count"`
	Company       string `json:"company"`
	IsPPE         string `json:"is_ppe"`

	// Step 8
	Beneficiaries []Beneficiary `json:"beneficiaries"`

	// Step 10
	PaymentMethod string `json:"payment_method"`

	// Widget bridge pass-throughs
	DpsAnswers             map[string]any `json:"dps_answers,omitempty"`
	ReservedProposalNumber string         `json:"reserved_proposal_number,omitempty"`
	PaymentPreAuthCode     string         `json:"payment_pre_auth_code,omitempty"`
}

// FormDataPatch is a partial FormData for merge updates. Nil pointer fields
// are left untouched; a pointer to the zero value clears the field.
// Beneficiaries are edited through their own operations, never patched here.
type FormDataPatch struct {
	FullName           *string `json:"full_name,omitempty"`
	CPF                *string `json:"cpf,omitempty"`
	Email              *string `json:"email,omitempty"`
	Phone              *string `json:"phone,omitempty"`
	State              *string `json:"state,omitempty"`
	Consent            *bool   `json:"consent,omitempty"`
	BirthDate          *string `json:"birth_date,omitempty"`
	Gender             *string `json:"gender,omitempty"`
	Income             *string `json:"income,omitempty"`
	Profession         *string `json:"profession,omitempty"`
	ZipCode            *string `json:"zip_code,omitempty"`
	Street             *string `json:"street,omitempty"`
	Number             *string `json:"number,omitempty"`
	Complement         *string `json:"complement,omitempty"`
	Neighborhood       *string `json:"neighborhood,omitempty"`
	City               *string `json:"city,omitempty"`
	MaritalStatus      *string `json:"marital_status,omitempty"`
	HomePhone          *string `json:"home_phone,omitempty"`
	RGNumber           *string `json:"rg_number,omitempty"`
	RGIssuer           *string `json:"rg_issuer,omitempty"`
	RGDate             *string `json:"rg_date,omitempty"`
	ChildrenCount      *string `json:"children_count,omitempty"`
	Company            *string `json:"company,omitempty"`
	IsPPE              *string `json:"is_ppe,omitempty"`
	PaymentMethod      *string `json:"payment_method,omitempty"`
	PaymentPreAuthCode *string `json:"payment_pre_auth_code,omitempty"`
}

// Apply merges the patch into f.
func (p *FormDataPatch) Apply(f *FormData) {
	setStr := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setStr(&f.FullName, p.FullName)
	setStr(&f.CPF, p.CPF)
	setStr(&f.Email, p.Email)
	setStr(&f.Phone, p.Phone)
	setStr(&f.State, p.State)
	if p.Consent != nil {
		f.Consent = *p.Consent
	}
	setStr(&f.BirthDate, p.BirthDate)
	setStr(&f.Gender, p.Gender)
	setStr(&f.Income, p.Income)
	setStr(&f.Profession, p.Profession)
	setStr(&f.ZipCode, p.ZipCode)
	setStr(&f.Street, p.Street)
	setStr(&f.Number, p.Number)
	setStr(&f.Complement, p.Complement)
	setStr(&f.Neighborhood, p.Neighborhood)
	setStr(&f.City, p.City)
	setStr(&f.MaritalStatus, p.MaritalStatus)
	setStr(&f.HomePhone, p.HomePhone)
	setStr(&f.RGNumber, p.RGNumber)
	setStr(&f.RGIssuer, p.RGIssuer)
	setStr(&f.RGDate, p.RGDate)
	setStr(&f.ChildrenCount, p.ChildrenCount)
	setStr(&f.Company, p.Company)
	setStr(&f.IsPPE, p.IsPPE)
	setStr(&f.PaymentMethod, p.PaymentMethod)
	setStr(&f.PaymentPreAuthCode, p.PaymentPreAuthCode)
}

// BeneficiaryPatch partially updates one beneficiary. The legal
// representative sub-object is deep-merged, never replaced wholesale, so
// partial edits across fields do not clobber each other.
type BeneficiaryPatch struct {
	FullName            *string                   `json:"full_name,omitempty"`
	RG                  *string                   `json:"rg,omitempty"`
	CPF                 *string                   `json:"cpf,omitempty"`
	BirthDate           *string                   `json:"birth_date,omitempty"`
	Relationship        *string                   `json:"relationship,omitempty"`
	LegalRepresentative *LegalRepresentativePatch `json:"legal_representative,omitempty"`
}

type LegalRepresentativePatch struct {
	FullName  *string `json:"full_name,omitempty"`
	RG        *string `json:"rg,omitempty"`
	CPF       *string `json:"cpf,omitempty"`
	BirthDate *string `json:"birth_date,omitempty"`
}

func (p *BeneficiaryPatch) Apply(b *Beneficiary) {
	if p.FullName != nil {
		b.FullName = *p.FullName
	}
	if p.RG != nil {
		b.RG = *p.RG
	}
	if p.CPF != nil {
		b.CPF = *p.CPF
	}
	if p.BirthDate != nil {
		b.BirthDate = *p.BirthDate
	}
	if p.Relationship != nil {
		b.Relationship = *p.Relationship
	}
	if rep := p.LegalRepresentative; rep != nil {
		if rep.FullName != nil {
			b.LegalRepresentative.FullName = *rep.FullName
		}
		if rep.RG != nil {
			b.LegalRepresentative.RG = *rep.RG
		}
		if rep.CPF != nil {
			b.LegalRepresentative.CPF = *rep.CPF
		}
		if rep.BirthDate != nil {
			b.LegalRepresentative.BirthDate = *rep.BirthDate
		}
	}
}

// ValidationStatus maps a validated field name to its error message. A field
// with no entry is valid. Validation is ephemeral: it is derived from
// FormData and never persisted.
type ValidationStatus map[string]string

// Merge applies a partial status. An empty message clears the field's error.
func (v ValidationStatus) Merge(partial map[string]string) {
	for field, msg := range partial {
		if msg == "" {
			delete(v, field)
		} else {
			v[field] = msg
		}
	}
}

// WizardSession is one applicant's run through the flow. CurrentStep moves
// only by +-1 through the wizard service's own transitions.
type WizardSession struct {
	ID               string           `json:"id"`
	CurrentStep      int              `json:"current_step"`
	FormData         FormData         `json:"form_data"`
	ValidationStatus ValidationStatus `json:"validation_status"`
	// Credential is the opaque insurer token passed through on
	// authenticated upstream calls. Never validated here.
	Credential string `json:"-"`
}
