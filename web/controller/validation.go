package controller

import (
	"reflect"
	"strings"
	"sync"

	"github.com/userdesk/userdesk/logger"
	"github.com/userdesk/userdesk/web/service"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators installs the custom rules and reports field errors under
// their JSON names.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			logger.Warning("gin validator engine is not go-playground/validator")
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		if err := v.RegisterValidation("notnumeric", notNumeric); err != nil {
			logger.Error("register notnumeric validator:", err)
		}
	})
}

// notNumeric rejects strings made only of decimal digits, which would be
// indistinguishable from ids in slugs.
func notNumeric(fl validator.FieldLevel) bool {
	return !service.IsNumeric(fl.Field().String())
}

func jsonFieldName(fe validator.FieldError) string {
	if name := fe.Field(); name != "" {
		return name
	}
	return fe.StructField()
}
