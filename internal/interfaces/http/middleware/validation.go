package middleware

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/condoledger/backend/internal/domain/shared/valueobject"
)

// SetupValidator configures gin's validator with custom tags. Field
// names in validation errors use the json/form tag instead of the Go
// field name.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	// period validates YYYY-MM billing period strings
	_ = v.RegisterValidation("period", func(fl validator.FieldLevel) bool {
		_, err := valueobject.ParsePeriod(fl.Field().String())
		return err == nil
	})
}
