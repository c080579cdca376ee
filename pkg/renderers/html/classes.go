package html

// ChromeClass is a semantic CSS class emitted around form controls.
type ChromeClass string

const (
	ClassForm    ChromeClass = "fb-form"
	ClassHeader  ChromeClass = "fb-header"
	ClassField   ChromeClass = "fb-field"
	ClassInvalid ChromeClass = "fb-field--invalid"
	ClassActions ChromeClass = "fb-actions"
	ClassErrors  ChromeClass = "fb-errors"
	ClassRule    ChromeClass = "fb-rule"
)

func classMap() map[string]string {
	return map[string]string{
		"form":    string(ClassForm),
		"header":  string(ClassHeader),
		"field":   string(ClassField),
		"invalid": string(ClassInvalid),
		"actions": string(ClassActions),
		"errors":  string(ClassErrors),
		"rule":    string(ClassRule),
	}
}
