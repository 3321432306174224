package checker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPriceNumber(t *testing.T) {
	price, err := ExtractPrice([]byte(`{"price": 129.99}`), "$.price")
	require.NoError(t, err)
	assert.Equal(t, "129.99", price.String())
}

func TestExtractPriceNested(t *testing.T) {
	body := []byte(`{"offers": {"price": 42.5, "priceCurrency": "EUR"}}`)

	price, err := ExtractPrice(body, "$.offers.price")
	require.NoError(t, err)
	assert.Equal(t, "42.5", price.String())

	currency, err := ExtractString(body, "$.offers.priceCurrency")
	require.NoError(t, err)
	assert.Equal(t, "EUR", currency)
}

func TestExtractPriceNumericString(t *testing.T) {
	price, err := ExtractPrice([]byte(`{"price": "19.95"}`), "$.price")
	require.NoError(t, err)
	assert.Equal(t, "19.95", price.String())
}

func TestExtractPriceStringWithCurrencySymbol(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`"$1,299.99"`, "1299.99"},
		{`"€49.90"`, "49.9"},
		{`"£15"`, "15"},
		{`" 7.25 "`, "7.25"},
	}

	for _, tt := range tests {
		price, err := ExtractPrice([]byte(`{"price": `+tt.raw+`}`), "$.price")
		require.NoError(t, err, "raw %s", tt.raw)
		assert.Equal(t, tt.want, price.String(), "raw %s", tt.raw)
	}
}

func TestExtractPriceExactDecimal(t *testing.T) {
	// 0.1 + 0.2 style values must not pick up float noise
	price, err := ExtractPrice([]byte(`{"price": 0.30}`), "$.price")
	require.NoError(t, err)
	assert.Equal(t, "0.3", price.String())
}

func TestExtractPriceArrayIndex(t *testing.T) {
	body := []byte(`{"product": {"variants": [{"price": "24.99"}, {"price": "29.99"}]}}`)

	price, err := ExtractPrice(body, "$.product.variants[0].price")
	require.NoError(t, err)
	assert.Equal(t, "24.99", price.String())
}

func TestExtractPriceMissingPath(t *testing.T) {
	_, err := ExtractPrice([]byte(`{"name": "widget"}`), "$.price")
	assert.Error(t, err)
}

func TestExtractPriceNullValue(t *testing.T) {
	_, err := ExtractPrice([]byte(`{"price": null}`), "$.price")
	assert.Error(t, err)
}

func TestExtractPriceInvalidJSON(t *testing.T) {
	_, err := ExtractPrice([]byte(`not json`), "$.price")
	assert.Error(t, err)
}

func TestExtractPriceUnparseableString(t *testing.T) {
	_, err := ExtractPrice([]byte(`{"price": "call for price"}`), "$.price")
	assert.Error(t, err)
}

func TestExtractStringWrongType(t *testing.T) {
	_, err := ExtractString([]byte(`{"currency": 5}`), "$.currency")
	assert.Error(t, err)
}
