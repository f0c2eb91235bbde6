package validator

import (
	"regexp"
	"strings"
)

var EmailRX = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+\\/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$")

type Validator struct {
	Errors map[string]string
}

func New() *Validator {
	return &Validator{Errors: make(map[string]string)}
}

func (v *Validator) IsValid() bool {
	return len(v.Errors) == 0
}

// AddError records the first error seen for a key; later ones are dropped so
// a response carries one message per violated field.
func (v *Validator) AddError(key, message string) {
	if _, exists := v.Errors[key]; !exists {
		v.Errors[key] = message
	}
}

func (v *Validator) Check(ok bool, key, message string) {
	if !ok {
		v.AddError(key, message)
	}
}

func (v *Validator) CheckNotBlank(value, key, message string) {
	v.Check(strings.TrimSpace(value) != "", key, message)
}

func (v *Validator) CheckEmail(email, message string) {
	v.Check(EmailRX.MatchString(email), "email", message)
}

func (v *Validator) IsMatch(value string, rx *regexp.Regexp) bool {
	return rx.MatchString(value)
}

func (v *Validator) IsUnique(values []string) bool {
	uniqueValues := make(map[string]bool)

	for _, val := range values {
		if _, exists := uniqueValues[val]; exists {
			return false
		}
		uniqueValues[val] = true
	}
	return true
}
