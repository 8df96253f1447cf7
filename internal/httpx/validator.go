package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = validate.RegisterValidation("is_string", validateIsString)
	_ = validate.RegisterValidation("notblank", validateNotBlank)
}

// is_string accepts only JSON strings. Payload fields declared as any hold
// whatever the client sent.
func validateIsString(fl validator.FieldLevel) bool {
	return fl.Field().Kind() == reflect.String
}

// notblank fails strings that are empty once trimmed, the way required
// treats a blank form value. Non-string values pass.
func validateNotBlank(fl validator.FieldLevel) bool {
	if fl.Field().Kind() != reflect.String {
		return true
	}
	return strings.TrimSpace(fl.Field().String()) != ""
}

// ValidateStruct checks every rule on every field and collects all failures,
// keyed by JSON field name. It returns nil when s is valid.
func ValidateStruct(s any) map[string][]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return map[string][]string{"_": {err.Error()}}
	}

	fields := make(map[string][]string, len(validationErrors))
	for _, fe := range validationErrors {
		field := fe.Field()
		fields[field] = append(fields[field], message(field, fe.Tag(), fe.Param()))
	}
	return fields
}

func message(field, tag, param string) string {
	switch tag {
	case "required", "notblank":
		return fmt.Sprintf("The %s field is required.", field)
	case "is_string":
		return fmt.Sprintf("The %s must be a string.", field)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", field)
	case "min":
		return fmt.Sprintf("The %s must be at least %s characters.", field, param)
	case "max":
		return fmt.Sprintf("The %s may not be greater than %s characters.", field, param)
	default:
		return fmt.Sprintf("The %s is invalid.", field)
	}
}

// DecodeJSON reads the request body into dst. An empty body leaves dst
// untouched so that field validation reports what is missing.
func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(dst)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// PathID parses a positive integer path parameter.
func PathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
