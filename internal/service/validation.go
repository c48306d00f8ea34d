package service

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"quiz_backend/internal/model"

	"github.com/go-playground/validator/v10"
)

// FormValidationError 表单校验失败，Errors 以表单字段名为键
type FormValidationError struct {
	Errors model.FormErrors
	Err    error
}

func (e *FormValidationError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return "invalid form"
}

func (e *FormValidationError) Unwrap() error {
	return e.Err
}

var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)

var fieldMessages = map[string]string{
	"required":   "This field is required.",
	"username":   "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.",
	"email":      "Enter a valid email address.",
	"eqfield":    "The two password fields didn't match.",
	"notnumeric": "This password is entirely numeric.",
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("notnumeric", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return strings.Trim(s, "0123456789") != ""
	})
	return v
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "max":
		return "Ensure this value has at most " + fe.Param() + " characters."
	case "min":
		return "This password is too short. It must contain at least " + fe.Param() + " characters."
	}
	if msg, ok := fieldMessages[fe.Tag()]; ok {
		return msg
	}
	return "Enter a valid value."
}

// validateForm 返回 nil 表示通过
func validateForm(v *validator.Validate, form interface{}) model.FormErrors {
	err := v.Struct(form)
	if err == nil {
		return nil
	}
	errs := model.FormErrors{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs[""] = err.Error()
		return errs
	}
	for _, fe := range verrs {
		if _, seen := errs[fe.Field()]; !seen {
			errs[fe.Field()] = messageFor(fe)
		}
	}
	return errs
}
