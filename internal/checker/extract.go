package checker

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/noah-ing/pricehawk/internal/model"
	"github.com/oliveagle/jsonpath"
	"github.com/shopspring/decimal"
)

// ExtractPrice pulls a price value out of a JSON response body using a
// JSONPath expression and coerces it to a decimal
func ExtractPrice(body []byte, expression string) (model.Price, error) {
	value, err := extract(body, expression)
	if err != nil {
		return model.Price{}, err
	}
	return coercePrice(value)
}

// ExtractString pulls a string value out of a JSON response body
func ExtractString(body []byte, expression string) (string, error) {
	value, err := extract(body, expression)
	if err != nil {
		return "", err
	}

	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("expression %s yielded %T, want string", expression, value)
	}
	return strings.TrimSpace(s), nil
}

func extract(body []byte, expression string) (interface{}, error) {
	var data interface{}
	decoder := json.NewDecoder(strings.NewReader(string(body)))
	decoder.UseNumber()
	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("parse JSON response: %w", err)
	}

	value, err := jsonpath.JsonPathLookup(data, expression)
	if err != nil {
		return nil, fmt.Errorf("evaluate %s: %w", expression, err)
	}
	if value == nil {
		return nil, fmt.Errorf("expression %s yielded null", expression)
	}

	return value, nil
}

// coercePrice converts the extracted value to a Price. Retailer APIs return
// prices as numbers, numeric strings, or strings with currency symbols
// ("$1,299.99"), all of which must parse.
func coercePrice(value interface{}) (model.Price, error) {
	switch v := value.(type) {
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return model.Price{}, fmt.Errorf("invalid numeric price %q: %w", v.String(), err)
		}
		return model.NewPrice(d), nil
	case float64:
		return model.PriceFromFloat(v), nil
	case int:
		return model.NewPrice(decimal.NewFromInt(int64(v))), nil
	case int64:
		return model.NewPrice(decimal.NewFromInt(v)), nil
	case string:
		return model.PriceFromString(sanitizePriceString(v))
	default:
		return model.Price{}, fmt.Errorf("cannot coerce %T to price", value)
	}
}

func sanitizePriceString(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimLeft(s, "$€£¥ ")
	s = strings.ReplaceAll(s, ",", "")
	return s
}
