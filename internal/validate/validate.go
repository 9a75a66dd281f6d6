// Package validate checks use-case inputs declared with validator struct tags.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/kompox/shipyard/domain/model"
	utilvalidation "k8s.io/apimachinery/pkg/util/validation"
)

var (
	once sync.Once
	v    *validator.Validate
)

// Validator returns the shared validator with json field names and custom tags registered:
//
//	dns1123      value is a DNS-1123 label
//	nowhitespace value contains no whitespace
func Validator() *validator.Validate {
	once.Do(func() {
		v = validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("dns1123", func(fl validator.FieldLevel) bool {
			return len(utilvalidation.IsDNS1123Label(fl.Field().String())) == 0
		})
		_ = v.RegisterValidation("nowhitespace", func(fl validator.FieldLevel) bool {
			return strings.IndexFunc(fl.Field().String(), unicode.IsSpace) < 0
		})
	})
	return v
}

// Struct validates s and returns a *model.ValidationError for the first failing field.
func Struct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &model.ValidationError{Message: err.Error()}
	}
	fe := verrs[0]
	return &model.ValidationError{Field: fieldPath(fe), Message: message(fe)}
}

// fieldPath strips the top-level struct name from the namespace ("CreateInput.name" -> "name").
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "dns1123":
		return "must be a lowercase RFC 1123 label (a-z, 0-9, '-')"
	case "nowhitespace":
		return "cannot contain whitespace"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "url", "http_url":
		return "must be a valid URL"
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}
