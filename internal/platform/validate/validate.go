// Package validate wraps go-playground/validator with english messages that
// name command-line flags instead of struct fields
package validate

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	perr "apmarchive/internal/platform/errors"
	"apmarchive/internal/platform/logger"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// FieldError aliases validator.FieldError
type FieldError = validator.FieldError

// Svc holds a singleton validator and translator
type Svc struct {
	Validator  *validator.Validate
	Translator ut.Translator
}

var (
	vOnce sync.Once
	vSvc  *Svc
)

// Init initializes the singleton validator with english translations and flag tag names
func Init() *Svc {
	vOnce.Do(func() {
		enLoc := en.New()
		uni := ut.New(enLoc, enLoc)
		trans, _ := uni.GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())

		// prefer flag names in messages: `flag:"es-url"` renders as --es-url
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag := fld.Tag.Get("flag")
			if tag == "-" || tag == "" {
				return fld.Name
			}
			if idx := strings.Index(tag, ","); idx >= 0 {
				tag = tag[:idx]
			}
			return "--" + tag
		})

		_ = en_translations.RegisterDefaultTranslations(v, trans)

		registerNotSet(v, trans)
		registerURL(v, trans)

		vSvc = &Svc{Validator: v, Translator: trans}
	})
	return vSvc
}

// Get returns the validator singleton, initializing on first use
func Get() *Svc {
	if vSvc == nil {
		return Init()
	}
	return vSvc
}

// Struct validates v and maps the first failure to a project error.
// A missing required value becomes ErrorCodeConfig, anything else ErrorCodeValidation
func Struct(v any) error {
	err := Get().Validator.Struct(v)
	if err == nil {
		return nil
	}
	var inv *validator.InvalidValidationError
	if errors.As(err, &inv) {
		logger.Get().Error().Err(inv).Msg("validator internal error")
		return perr.Wrap(inv, perr.ErrorCodeValidation, "validation error")
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		code := perr.ErrorCodeValidation
		if fe.Tag() == "required" {
			code = perr.ErrorCodeConfig
		}
		return perr.WithField(perr.New(code, fe.Translate(Get().Translator)), fe.Field())
	}
	return perr.Wrap(err, perr.ErrorCodeValidation, "validation error")
}

// custom translations with short messages

func registerNotSet(v *validator.Validate, trans ut.Translator) {
	_ = v.RegisterTranslation("required", trans,
		func(ut ut.Translator) error {
			return ut.Add("required", "{0} is not set", true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T("required", fe.Field())
			return msg
		},
	)
}

func registerURL(v *validator.Validate, trans ut.Translator) {
	_ = v.RegisterTranslation("url", trans,
		func(ut ut.Translator) error {
			return ut.Add("url", "{0} must be an absolute URL, got {1}", true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T("url", fe.Field(), fe.Value().(string))
			return msg
		},
	)
}
