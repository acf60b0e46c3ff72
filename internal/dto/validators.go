package dto

import (
	"errors"
	"reflect"
	"sync"

	"github.com/SscSPs/bank_backoffice_api/internal/core/domain"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var registerOnce sync.Once
var registerErr error

// RegisterValidators installs the custom binding rules used by the request DTOs.
// Safe to call more than once.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("gin binding validator is not go-playground/validator")
			return
		}
		v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
		registerErr = v.RegisterValidation("money", validateMoney)
	})
	return registerErr
}

func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}

// validateMoney accepts positive amounts with at most two decimal places.
func validateMoney(fl validator.FieldLevel) bool {
	_, err := domain.ParseAmount(fl.Field().String())
	return err == nil
}
