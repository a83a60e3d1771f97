package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceScan(t *testing.T) {
	testCases := []struct {
		name     string
		src      interface{}
		expected Price
	}{
		{name: "decimal text from the store", src: "12.50", expected: NewPrice(12.5)},
		{name: "decimal bytes from the store", src: []byte("7.25"), expected: NewPrice(7.25)},
		{name: "float", src: float64(3.5), expected: NewPrice(3.5)},
		{name: "integer", src: int64(9), expected: NewPrice(9)},
		{name: "null", src: nil, expected: Price{}},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			var p Price
			require.NoError(t, p.Scan(tt.src))
			assert.Equal(t, tt.expected, p)
		})
	}
}

func TestPriceScanRejectsGarbage(t *testing.T) {
	var p Price
	assert.Error(t, p.Scan("twelve"))
	assert.Error(t, p.Scan(true))
}

func TestPriceMarshalJSON(t *testing.T) {
	var fromStore Price
	require.NoError(t, fromStore.Scan("12.50"))

	out, err := json.Marshal(map[string]Price{"price": fromStore})
	require.NoError(t, err)
	assert.JSONEq(t, `{"price": 12.5}`, string(out))

	out, err = json.Marshal(map[string]Price{"price": {}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"price": null}`, string(out))
	assert.NotContains(t, string(out), `"null"`)
}

func TestPriceUnmarshalJSON(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected Price
		wantErr  bool
	}{
		{name: "number", input: `{"price": 8.75}`, expected: NewPrice(8.75)},
		{name: "numeric string", input: `{"price": "12.50"}`, expected: NewPrice(12.5)},
		{name: "null", input: `{"price": null}`, expected: Price{}},
		{name: "empty string", input: `{"price": ""}`, expected: Price{}},
		{name: "not a number", input: `{"price": "abc"}`, wantErr: true},
		{name: "not finite", input: `{"price": "NaN"}`, wantErr: true},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			var body struct {
				Price Price `json:"price"`
			}
			err := json.Unmarshal([]byte(tt.input), &body)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, body.Price)
		})
	}
}

func TestFlagUnmarshalJSON(t *testing.T) {
	testCases := []struct {
		input    string
		expected bool
		wantErr  bool
	}{
		{input: `true`, expected: true},
		{input: `false`, expected: false},
		{input: `1`, expected: true},
		{input: `0`, expected: false},
		{input: `"1"`, expected: true},
		{input: `"true"`, expected: true},
		{input: `"false"`, expected: false},
		{input: `"yes"`, wantErr: true},
		{input: `2`, wantErr: true},
	}

	for _, tt := range testCases {
		t.Run(tt.input, func(t *testing.T) {
			var f Flag
			err := json.Unmarshal([]byte(tt.input), &f)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, f.Bool())
		})
	}
}

func TestOptionalFlagKeepsAbsenceDistinct(t *testing.T) {
	var body struct {
		IsActive *Flag `json:"is_active"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{}`), &body))
	assert.Nil(t, body.IsActive)

	require.NoError(t, json.Unmarshal([]byte(`{"is_active": 0}`), &body))
	require.NotNil(t, body.IsActive)
	assert.False(t, body.IsActive.Bool())
}
