package helper

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// NewValidator reports fields by their json name.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// ValidationErrors flattens validator errors into field → messages.
// Field names use the json tag when the validator was built with RegisterTagNameFunc.
func ValidationErrors(err error) map[string][]string {
	out := map[string][]string{}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		if err != nil {
			out["_"] = []string{err.Error()}
		}
		return out
	}
	for _, fe := range ve {
		field := fe.Field()
		if ns := fe.Namespace(); strings.Contains(ns, ".") {
			field = ns[strings.Index(ns, ".")+1:]
		}
		out[field] = append(out[field], describeTag(fe))
	}
	return out
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	case "email":
		return "must be a valid email"
	case "uuid", "uuid4":
		return "must be a valid uuid"
	case "datetime":
		return fmt.Sprintf("must match layout %s", fe.Param())
	case "dive":
		return "is invalid"
	}
	return "failed " + fe.Tag()
}

// ValidationFailed renders err as 422 when it came from the validator, 400 otherwise.
func ValidationFailed(c *fiber.Ctx, err error) error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return JsonValidationError(c, ValidationErrors(err))
	}
	return JsonError(c, fiber.StatusBadRequest, err.Error())
}
