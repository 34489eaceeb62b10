package handler

import (
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"

	"docuchat/internal/service"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

func validSessionID(id string) bool {
	return service.ValidSessionID(id)
}

type pageParams struct {
	Limit  int `validate:"min=1,max=100"`
	Offset int `validate:"min=0"`
}

// firstInvalidField returns the struct field name of the first failed rule, or "" if payload
// is valid.
func firstInvalidField(payload any) string {
	err := getValidator().Struct(payload)
	if err == nil {
		return ""
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Field()
	}
	return "payload"
}
