package service

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

// SessionIDRule is the validator tag applied to session ids at every layer: a canonical
// hyphenated lower-case UUID. Braced, urn: and bare 32-hex forms are rejected.
const SessionIDRule = "required,uuid"

var sessionValidator = sync.OnceValue(func() *validator.Validate {
	return validator.New()
})

// ValidSessionID reports whether id satisfies SessionIDRule.
func ValidSessionID(id string) bool {
	return sessionValidator().Var(id, SessionIDRule) == nil
}
