package validation

import "strings"

// Supported locales.
const (
	LocalePtBR = "pt-BR"
	LocaleEN   = "en"
)

// Message keys. Most match a FailureKind; format failures carry a key per
// input kind so the text can name what was wrong.
const (
	msgRequired        = "required"
	msgTooShort        = "tooShort"
	msgTooLong         = "tooLong"
	msgBelowMin        = "belowMin"
	msgAboveMax        = "aboveMax"
	msgDomain          = "domainNotAllowed"
	msgTooFew          = "tooFewSelected"
	msgTooMany         = "tooManySelected"
	msgFileTooLarge    = "fileTooLarge"
	msgUnknownType     = "unknownFieldType"
	msgBadEmail        = "badEmail"
	msgBadNumber       = "badNumber"
	msgBadPattern      = "badPattern"
	msgBadDate         = "badDate"
	msgBadTime         = "badTime"
	msgMinDate         = "minDate"
	msgMaxDate         = "maxDate"
	msgMinTime         = "minTime"
	msgMaxTime         = "maxTime"
	msgBadCPF          = "badCPF"
	msgBadCNPJ         = "badCNPJ"
	msgFileTypeBlocked = "fileTypeNotAllowed"
	msgBadFile         = "badFile"
)

// Messages maps message keys to templates. "{value}" is replaced by the
// rule parameter.
type Messages map[string]string

var defaultMessages = map[string]Messages{
	LocalePtBR: {
		msgRequired:        "Campo obrigatório",
		msgTooShort:        "Mínimo {value} caracteres",
		msgTooLong:         "Máximo {value} caracteres",
		msgBelowMin:        "Valor mínimo: {value}",
		msgAboveMax:        "Valor máximo: {value}",
		msgDomain:          "Domínio deve ser {value}",
		msgTooFew:          "Selecione no mínimo {value} opções",
		msgTooMany:         "Selecione no máximo {value} opções",
		msgFileTooLarge:    "Arquivo deve ser menor que {value}MB",
		msgUnknownType:     "Tipo de campo não suportado: {value}",
		msgBadEmail:        "Email inválido",
		msgBadNumber:       "Número inválido",
		msgBadPattern:      "Formato inválido",
		msgBadDate:         "Data inválida",
		msgBadTime:         "Hora inválida",
		msgMinDate:         "Data mínima: {value}",
		msgMaxDate:         "Data máxima: {value}",
		msgMinTime:         "Hora mínima: {value}",
		msgMaxTime:         "Hora máxima: {value}",
		msgBadCPF:          "CPF inválido",
		msgBadCNPJ:         "CNPJ inválido",
		msgFileTypeBlocked: "Tipo de arquivo não permitido",
		msgBadFile:         "Arquivo inválido",
	},
	LocaleEN: {
		msgRequired:        "This field is required",
		msgTooShort:        "Minimum {value} characters",
		msgTooLong:         "Maximum {value} characters",
		msgBelowMin:        "Minimum value: {value}",
		msgAboveMax:        "Maximum value: {value}",
		msgDomain:          "Domain must be {value}",
		msgTooFew:          "Select at least {value} options",
		msgTooMany:         "Select at most {value} options",
		msgFileTooLarge:    "File must be smaller than {value}MB",
		msgUnknownType:     "Unsupported field type: {value}",
		msgBadEmail:        "Invalid email",
		msgBadNumber:       "Invalid number",
		msgBadPattern:      "Invalid format",
		msgBadDate:         "Invalid date",
		msgBadTime:         "Invalid time",
		msgMinDate:         "Earliest date: {value}",
		msgMaxDate:         "Latest date: {value}",
		msgMinTime:         "Earliest time: {value}",
		msgMaxTime:         "Latest time: {value}",
		msgBadCPF:          "Invalid CPF",
		msgBadCNPJ:         "Invalid CNPJ",
		msgFileTypeBlocked: "File type not allowed",
		msgBadFile:         "Invalid file",
	},
}

// NormalizeLocale maps loose locale tags onto a supported locale.
func NormalizeLocale(locale string) string {
	lower := strings.ToLower(strings.TrimSpace(locale))
	switch {
	case lower == "":
		return LocalePtBR
	case strings.HasPrefix(lower, "pt"):
		return LocalePtBR
	case strings.HasPrefix(lower, "en"):
		return LocaleEN
	}
	return LocalePtBR
}

func (e *Engine) message(key, value string) string {
	tmpl, ok := e.messages[key]
	if !ok {
		tmpl = defaultMessages[LocalePtBR][key]
	}
	if value == "" {
		return strings.TrimSpace(strings.ReplaceAll(tmpl, "{value}", ""))
	}
	return strings.ReplaceAll(tmpl, "{value}", value)
}
