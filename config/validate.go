package config

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/ClevertecFrontendLab/check-test/pkg/errs"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

const (
	jsonTagName        = "json"
	emptyTagName       = "-"
	requiredTagName    = "required"
	positiveIntTagName = "positive_int"
)

// ValidateCfg checks the validity of the config. A missing required input is
// reported as errs.ErrMissingInput for the first such input, every other
// violation is collected into errs.ErrInvalidConfig.
func ValidateCfg(cfg *CheckConfig) error {
	validate, trans, err := getValidator()
	if err != nil {
		return err
	}
	validateErr := validate.Struct(cfg)
	if validateErr == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(validateErr, &validationErrs) {
		return validateErr
	}
	messages := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		if e.Tag() == requiredTagName {
			return errs.ErrMissingInput(e.Field())
		}
		messages = append(messages, e.Translate(trans))
	}
	return errs.ErrInvalidConfig(messages)
}

func getValidator() (*validator.Validate, ut.Translator, error) {
	enObj := en.New()
	uni := ut.New(enObj, enObj)
	trans, _ := uni.GetTranslator("en")
	validate := validator.New()
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, err
	}
	if err := configureValidator(validate, trans); err != nil {
		return nil, nil, err
	}
	return validate, trans, nil
}

// configureValidator configure the struct validator
func configureValidator(validate *validator.Validate, trans ut.Translator) error {
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		// nolint: gomnd
		name := strings.SplitN(fld.Tag.Get(jsonTagName), ",", 2)[0]
		if name == emptyTagName || name == "" {
			return fld.Name
		}
		return name
	})

	if err := validate.RegisterValidation(positiveIntTagName, func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Field().String())
		return err == nil && n > 0
	}); err != nil {
		return err
	}

	return validate.RegisterTranslation(positiveIntTagName, trans, func(ut ut.Translator) error {
		return ut.Add(positiveIntTagName, "{0} must be a positive integer, got {1}", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T(positiveIntTagName, fe.Field(), fmt.Sprint(fe.Value()))
		return t
	})
}
