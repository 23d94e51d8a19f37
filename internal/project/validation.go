package project

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	validator "github.com/go-playground/validator/v10"
)

// Slug rules: 1-100 chars of [a-zA-Z0-9_-], first and last char
// alphanumeric. A single alphanumeric char satisfies both ends at once.
var slugRegex = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9_-]*[a-zA-Z0-9])?$`)

const (
	NameMinLength = 3
	NameMaxLength = 100
	SlugMaxLength = 100
)

func validateURLSlug(fl validator.FieldLevel) bool {
	return slugRegex.MatchString(fl.Field().String())
}

func validateProjectType(fl validator.FieldLevel) bool {
	switch Type(fl.Field().String()) {
	case TypeMod:
		return true
	}
	return false
}

var validate = func() *validator.Validate {
	v := validator.New()
	// Error keys follow the json field names so the frontend can map them
	// straight onto form inputs.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	if err := v.RegisterValidation("url_slug", validateURLSlug); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("project_type", validateProjectType); err != nil {
		panic(err)
	}
	return v
}()

// ValidationError carries field-scoped messages; callers render them next to
// the offending inputs and never hit the network while any are present.
type ValidationError struct {
	Errors map[string]string `json:"errors"`
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

func Validate(i any) error {
	err := validate.Struct(i)
	if err == nil {
		return nil
	}

	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	errors := make(map[string]string)
	for _, fe := range fieldErrors {
		field := fe.Field()

		switch fe.Tag() {
		case "required":
			errors[field] = "Required"
		case "min":
			errors[field] = fmt.Sprintf("Must be longer than %s characters", fe.Param())
		case "max":
			errors[field] = fmt.Sprintf("Must be shorter than %s characters", fe.Param())
		case "url_slug":
			errors[field] = fmt.Sprintf("'%v' is not a valid slug.", fe.Value())
		case "project_type":
			errors[field] = fmt.Sprintf("'%v' is not a valid project type.", fe.Value())
		case "url":
			errors[field] = "Must be a valid URL"
		default:
			errors[field] = "Invalid"
		}
	}

	return &ValidationError{Errors: errors}
}
