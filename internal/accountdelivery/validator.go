package accountdelivery

import (
	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-playground/validator/v10"
)

// ValidIBAN validates the IBAN shape of a request field.
var ValidIBAN validator.Func = func(fl validator.FieldLevel) bool {
	if iban, ok := fl.Field().Interface().(string); ok {
		return domain.ValidateIBAN(iban) == nil
	}

	return false
}
