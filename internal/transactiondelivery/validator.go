package transactiondelivery

import (
	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-playground/validator/v10"
)

// ValidCategory validates whether the category can be chosen by the user.
var ValidCategory validator.Func = func(fl validator.FieldLevel) bool {
	if c, ok := fl.Field().Interface().(string); ok {
		return domain.IsUserCategory(c)
	}

	return false
}
