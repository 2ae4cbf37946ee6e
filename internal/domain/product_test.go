package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrice_UnmarshalNumber(t *testing.T) {
	var p Product
	require.NoError(t, json.Unmarshal([]byte(`{"id":"p1","price":10.5}`), &p))
	assert.Equal(t, 10.5, p.Price.Amount())
}

func TestPrice_UnmarshalCurrencyString(t *testing.T) {
	var p Product
	require.NoError(t, json.Unmarshal([]byte(`{"id":"p1","price":"$5.00"}`), &p))
	assert.Equal(t, 5.00, p.Price.Amount())
}

func TestPrice_UnparsableCoercesToZero(t *testing.T) {
	var p Product
	require.NoError(t, json.Unmarshal([]byte(`{"id":"p1","price":"call us"}`), &p))
	assert.Equal(t, 0.0, p.Price.Amount())

	require.NoError(t, json.Unmarshal([]byte(`{"id":"p2","price":[1]}`), &p))
	assert.Equal(t, 0.0, p.Price.Amount())
}

func TestPrice_MarshalAsNumber(t *testing.T) {
	data, err := json.Marshal(Product{ID: "p1", Price: ParsePrice("$5.00")})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"price":5`)
}
