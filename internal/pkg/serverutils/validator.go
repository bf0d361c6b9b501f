package serverutils

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func requestValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// ValidateRequest checks a request DTO and returns a 400 fiber error naming
// the first field that failed.
func ValidateRequest(req interface{}) error {
	err := requestValidator().Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Missing required field: %s", fe.Field()))
	case "min", "gt":
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Field %s must not be empty", fe.Field()))
	default:
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Invalid field %s: %s", fe.Field(), fe.Tag()))
	}
}
