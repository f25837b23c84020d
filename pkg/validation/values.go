package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-docwizard/pkg/answers"
	"github.com/goliatone/go-docwizard/pkg/schema"
)

const (
	datePattern = `^\d{4}-\d{2}-\d{2}$`
	iinPattern  = `^\d{12}$`
)

// valueSchema returns the JSON schema a filled-in field value must satisfy,
// or nil when the field type carries no value constraints.
func valueSchema(field schema.Field) *openapi3.Schema {
	switch field.Type {
	case schema.FieldNumber:
		s := openapi3.NewFloat64Schema()
		if field.Min != nil {
			s = s.WithMin(float64(*field.Min))
		}
		if field.Max != nil {
			s = s.WithMax(float64(*field.Max))
		}
		return s
	case schema.FieldDate:
		return openapi3.NewStringSchema().WithPattern(datePattern)
	case schema.FieldText:
		if isIIN(field.Name) {
			return openapi3.NewStringSchema().WithPattern(iinPattern)
		}
	}
	return nil
}

func isIIN(name string) bool {
	return strings.Contains(strings.ToLower(name), "iin")
}

// checkValue validates a non-empty field value and returns a user-facing
// message, or "" when the value is acceptable.
func checkValue(field schema.Field, value any) string {
	s := valueSchema(field)
	if s == nil {
		return ""
	}

	var input any
	if field.Type == schema.FieldNumber {
		n, ok := answers.Number(value)
		if !ok {
			return "Неверный формат данных"
		}
		input = n
	} else {
		input = answers.Stringify(value)
	}

	err := s.VisitJSON(input)
	if err == nil {
		return ""
	}
	return messageFor(field, err)
}

func messageFor(field schema.Field, err error) string {
	var schemaErr *openapi3.SchemaError
	if !errors.As(err, &schemaErr) {
		return "Произошла ошибка валидации"
	}
	switch schemaErr.SchemaField {
	case "minimum":
		return fmt.Sprintf("Минимальное значение: %d", *field.Min)
	case "maximum":
		return fmt.Sprintf("Максимальное значение: %d", *field.Max)
	case "pattern":
		if field.Type == schema.FieldDate {
			return "Дата должна быть в формате ГГГГ-ММ-ДД"
		}
		if isIIN(field.Name) {
			return "ИИН должен содержать 12 цифр"
		}
		return "Неверный формат данных"
	default:
		return "Неверный формат данных"
	}
}

// countSchema bounds the length of a list answer.
func countSchema(lo, hi *int) *openapi3.Schema {
	s := openapi3.NewArraySchema()
	if lo != nil && *lo > 0 {
		s = s.WithMinItems(int64(*lo))
	}
	if hi != nil {
		s = s.WithMaxItems(int64(*hi))
	}
	return s
}

// checkCount validates the number of items in a list answer against bounds
// and returns the failing bound name ("minItems" / "maxItems") or "".
func checkCount(items []any, lo, hi *int) string {
	if items == nil {
		items = []any{}
	}
	err := countSchema(lo, hi).VisitJSON(items)
	if err == nil {
		return ""
	}
	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		return schemaErr.SchemaField
	}
	return "minItems"
}
