// Package validation checks command inputs with go-playground/validator and
// renders failures as readable English messages.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// rule is a custom tag. A nil check keeps the built-in validation and only
// replaces its message.
type rule struct {
	check   validator.Func
	message string
}

// Messages receive the field name as {0} and the rejected value as {1}.
var rules = map[string]rule{
	"dir":             {message: "{0} must be a valid existing directory: {1}"},
	"path_read":       {check: isReadablePath, message: "{0} must have read access to path: {1}"},
	"template_name":   {check: isTemplateName, message: "{0} must be a template name made of letters, digits, dots, dashes and underscores: {1}"},
	"template_source": {check: isTemplateSource, message: "{0} must be owner/repo[@ref] or a git URL: {1}"},
	"yaml":            {check: isYAMLFile, message: "{0} must be a valid YAML file: {1}"},
}

// ValidationError is one rejected field with its translated message.
type ValidationError struct {
	Field  string
	Detail string
}

func (e *ValidationError) Error() string {
	return e.Detail
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	var b strings.Builder
	b.WriteString("validation error\n")
	for _, err := range ve {
		b.WriteString(err.Detail)
		b.WriteByte('\n')
	}
	return b.String()
}

// Validator pairs a validator instance with its English translator.
type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

func NewValidator() (*Validator, error) {
	validate := validator.New()

	// Messages name fields by their "cli" tag when present.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if name := fld.Tag.Get("cli"); name != "" {
			return name
		}
		return fld.Name
	})

	locale := en.New()
	trans, found := ut.New(locale, locale).GetTranslator("en")
	if !found {
		return nil, errors.New("translator not found")
	}
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	for tag, r := range rules {
		if r.check != nil {
			if err := validate.RegisterValidation(tag, r.check); err != nil {
				return nil, err
			}
		}
		if err := validate.RegisterTranslation(tag, trans, addMessage(tag, r.message), translate(tag)); err != nil {
			return nil, fmt.Errorf("failed to register custom translation for %s: %w", tag, err)
		}
	}

	return &Validator{validate: validate, trans: trans}, nil
}

func addMessage(tag, message string) validator.RegisterTranslationsFunc {
	return func(t ut.Translator) error {
		return t.Add(tag, message, true)
	}
}

func translate(tag string) validator.TranslationFunc {
	return func(t ut.Translator, fe validator.FieldError) string {
		msg, _ := t.T(tag, fe.Field(), fmt.Sprintf("%v", fe.Value()))
		return msg
	}
}

// Struct validates s. The returned error carries the translated messages and
// wraps validator.ValidationErrors.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	var msg strings.Builder
	for _, e := range verrs {
		msg.WriteString(e.Translate(v.trans))
		msg.WriteByte('\n')
	}
	return fmt.Errorf("validation error:\n%s: %w", msg.String(), verrs)
}

// ParseValidationErrors converts an error returned by Struct into one entry
// per rejected field.
func (v *Validator) ParseValidationErrors(err error) ValidationErrors {
	ves := ValidationErrors{}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, verr := range verrs {
			ves = append(ves, ValidationError{
				Field:  verr.StructNamespace(),
				Detail: verr.Translate(v.trans),
			})
		}
	}

	return ves
}
