package analysis

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func resultValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(jsonFieldName)
	})
	return validate
}

// CleanJSON strips the markdown code fences models like to wrap JSON in.
func CleanJSON(text string) []byte {
	b := bytes.TrimSpace([]byte(text))
	b = bytes.TrimPrefix(b, []byte("```json"))
	b = bytes.TrimPrefix(b, []byte("```"))
	b = bytes.TrimSuffix(b, []byte("```"))
	return bytes.TrimSpace(b)
}

// DecodeResult parses raw JSON into the shape expected for mode and checks
// it structurally. Anything short of a complete result is a
// MalformedResultError; partial results are never returned.
func DecodeResult(mode Mode, raw []byte) (Result, error) {
	res, err := NewResult(mode)
	if err != nil {
		return nil, err
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, &MalformedResultError{Mode: mode, Reason: "empty payload"}
	}
	if raw[0] != '{' {
		return nil, &MalformedResultError{Mode: mode, Reason: "payload is not an object"}
	}
	if err := json.Unmarshal(raw, res); err != nil {
		return nil, &MalformedResultError{Mode: mode, Reason: err.Error()}
	}
	if err := ValidateResult(res); err != nil {
		return nil, err
	}
	return res, nil
}

// ValidateResult checks required fields and value ranges of a result.
func ValidateResult(res Result) error {
	if res == nil {
		return &MalformedResultError{Reason: "missing result"}
	}
	err := resultValidator().Struct(res)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &MalformedResultError{
			Mode:   res.Mode(),
			Reason: fmt.Sprintf("field %s failed %q", trimNamespace(fe.Namespace()), fe.Tag()),
		}
	}
	return &MalformedResultError{Mode: res.Mode(), Reason: err.Error()}
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// trimNamespace drops the leading struct type name from a validator
// namespace ("OptimizationResult.analysis.drivers" -> "analysis.drivers").
func trimNamespace(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
