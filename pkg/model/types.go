package model

import "time"

// FieldType tags the input widget and the rule set of a field.
type FieldType string

const (
	FieldTypeText        FieldType = "text"
	FieldTypeTextarea    FieldType = "textarea"
	FieldTypeNumber      FieldType = "number"
	FieldTypeEmail       FieldType = "email"
	FieldTypePhone       FieldType = "phone"
	FieldTypeDate        FieldType = "date"
	FieldTypeTime        FieldType = "time"
	FieldTypeSelect      FieldType = "select"
	FieldTypeMultiSelect FieldType = "multiSelect"
	FieldTypeCheckbox    FieldType = "checkbox"
	FieldTypeRadio       FieldType = "radio"
	FieldTypeFile        FieldType = "file"
	FieldTypeSignature   FieldType = "signature"
	FieldTypeCPF         FieldType = "cpf"
	FieldTypeCNPJ        FieldType = "cnpj"
	FieldTypeCEP         FieldType = "cep"
)

// Canonical rule names stored under FieldDefinition.Validations.
const (
	RuleRequired       = "required"
	RuleMinLength      = "minLength"
	RuleMaxLength      = "maxLength"
	RulePattern        = "pattern"
	RuleRows           = "rows"
	RuleMin            = "min"
	RuleMax            = "max"
	RuleStep           = "step"
	RuleCustomDomain   = "customDomain"
	RuleFormat         = "format"
	RuleMinDate        = "minDate"
	RuleMaxDate        = "maxDate"
	RuleMinTime        = "minTime"
	RuleMaxTime        = "maxTime"
	RuleOptions        = "options"
	RuleMinSelect      = "minSelect"
	RuleMaxSelect      = "maxSelect"
	RuleDefaultChecked = "defaultChecked"
	RuleMaxSize        = "maxSize"
	RuleAllowedTypes   = "allowedTypes"
	RuleWidth          = "width"
	RuleHeight         = "height"
	RuleValidate       = "validate"
	RuleAutoComplete   = "autoComplete"
)

// FieldDefinition is one input of a form.
type FieldDefinition struct {
	ID          string    `json:"id"`
	Type        FieldType `json:"type"`
	Label       string    `json:"label"`
	Validations Rules     `json:"validations,omitempty"`
}

// FormSchema is the persisted shape of a form. Field order is significant.
type FormSchema struct {
	ID        string            `json:"id,omitempty"`
	Title     string            `json:"title"`
	CompanyID string            `json:"companyId"`
	Fields    []FieldDefinition `json:"fields"`
	Theme     *ThemeConfig      `json:"theme,omitempty"`
	CreatedAt time.Time         `json:"createdAt,omitzero"`
	UpdatedAt time.Time         `json:"updatedAt,omitzero"`
}

// Field returns the definition with the given id.
func (s FormSchema) Field(id string) (FieldDefinition, bool) {
	for _, field := range s.Fields {
		if field.ID == id {
			return field, true
		}
	}
	return FieldDefinition{}, false
}

// ThemeConfig carries optional display settings for a form.
type ThemeConfig struct {
	BackgroundColor string `json:"backgroundColor,omitempty"`
	PrimaryColor    string `json:"primaryColor,omitempty"`
	SecondaryColor  string `json:"secondaryColor,omitempty"`
	FontFamily      string `json:"fontFamily,omitempty"`
	FontSize        string `json:"fontSize,omitempty"`
	LogoURL         string `json:"logoUrl,omitempty"`
}

// Answer is a recorded value plus the label and type of its field at the time
// it was recorded.
type Answer struct {
	Label string    `json:"label"`
	Type  FieldType `json:"type,omitempty"`
	Value any       `json:"value"`
}

// AnswerSet maps field ids to answers.
type AnswerSet map[string]Answer

// Value returns the raw value recorded for fieldID, or nil.
func (a AnswerSet) Value(fieldID string) any {
	if a == nil {
		return nil
	}
	answer, ok := a[fieldID]
	if !ok {
		return nil
	}
	return answer.Value
}

// Clone returns a shallow copy of the set.
func (a AnswerSet) Clone() AnswerSet {
	out := make(AnswerSet, len(a)+1)
	for id, answer := range a {
		out[id] = answer
	}
	return out
}

// FileValue is the persistable form of an uploaded file. Data holds a base64
// data URL.
type FileValue struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Size int64  `json:"size"`
	Data string `json:"data,omitempty"`
}

// SubmissionStatus tracks admin review of a submission.
type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionReviewed SubmissionStatus = "reviewed"
)

// Valid reports whether s is a known status.
func (s SubmissionStatus) Valid() bool {
	return s == SubmissionPending || s == SubmissionReviewed
}

// Submission is the stored answer set of one user for one form.
type Submission struct {
	ID          string           `json:"id"`
	FormID      string           `json:"formId"`
	UserID      string           `json:"userId"`
	Answers     AnswerSet        `json:"answers"`
	SubmittedAt time.Time        `json:"submittedAt"`
	Status      SubmissionStatus `json:"status"`
	FormTitle   string           `json:"formTitle,omitempty"`
	UserName    string           `json:"userName,omitempty"`
}

// Company is a tenant with its branding.
type Company struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	BackgroundColor string    `json:"backgroundColor,omitempty"`
	PrimaryColor    string    `json:"primaryColor,omitempty"`
	SecondaryColor  string    `json:"secondaryColor,omitempty"`
	LogoURL         string    `json:"logoUrl,omitempty"`
	CreatedAt       time.Time `json:"createdAt,omitzero"`
}

// Role is the authorization level of a user.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User is a person that fills forms, or an administrator.
type User struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       Role      `json:"role"`
	CompanyIDs []string  `json:"companyIds,omitempty"`
	CreatedAt  time.Time `json:"createdAt,omitzero"`
}

// IsAdmin reports whether the user has the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
