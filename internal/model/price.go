package model

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Price is a monetary amount. It wraps decimal.Decimal so that price math is
// exact, and stores as BSON Decimal128 in MongoDB.
type Price struct {
	decimal.Decimal
}

// NewPrice creates a Price from a decimal value
func NewPrice(d decimal.Decimal) Price {
	return Price{Decimal: d}
}

// PriceFromFloat creates a Price from a float64
func PriceFromFloat(f float64) Price {
	return Price{Decimal: decimal.NewFromFloat(f)}
}

// PriceFromString parses a Price from its string representation
func PriceFromString(s string) (Price, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Price{}, fmt.Errorf("invalid price %q: %w", s, err)
	}
	return Price{Decimal: d}, nil
}

// MarshalBSONValue implements bson.ValueMarshaler
func (p Price) MarshalBSONValue() (bsontype.Type, []byte, error) {
	d128, err := primitive.ParseDecimal128(p.String())
	if err != nil {
		return 0, nil, fmt.Errorf("encode price %q: %w", p.String(), err)
	}
	return bson.MarshalValue(d128)
}

// UnmarshalBSONValue implements bson.ValueUnmarshaler. Decimal128 is the
// canonical representation; doubles, strings, and integers are accepted for
// documents written before prices moved to Decimal128.
func (p *Price) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}

	switch t {
	case bsontype.Decimal128:
		d128, ok := rv.Decimal128OK()
		if !ok {
			return fmt.Errorf("decode price: malformed decimal128")
		}
		d, err := decimal.NewFromString(d128.String())
		if err != nil {
			return fmt.Errorf("decode price: %w", err)
		}
		p.Decimal = d
	case bsontype.Double:
		p.Decimal = decimal.NewFromFloat(rv.Double())
	case bsontype.String:
		d, err := decimal.NewFromString(rv.StringValue())
		if err != nil {
			return fmt.Errorf("decode price: %w", err)
		}
		p.Decimal = d
	case bsontype.Int32:
		p.Decimal = decimal.NewFromInt32(rv.Int32())
	case bsontype.Int64:
		p.Decimal = decimal.NewFromInt(rv.Int64())
	case bsontype.Null:
		p.Decimal = decimal.Zero
	default:
		return fmt.Errorf("decode price: unsupported BSON type %s", t)
	}

	return nil
}
