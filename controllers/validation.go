package controllers

import (
	"reflect"
	"strings"
	"sync"

	"civicreport-be/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators adds the enum tags used in request bindings and
// reports field names by their json tag.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})
		_ = v.RegisterValidation("specialization", func(fl validator.FieldLevel) bool {
			return models.Specialization(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
			return models.Role(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("status", func(fl validator.FieldLevel) bool {
			return models.IssueStatus(fl.Field().String()).Valid()
		})
	})
}
