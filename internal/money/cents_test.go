package money

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want Cents
	}{
		{0, 0},
		{10.00, 1000},
		{5.50, 550},
		{0.01, 1},
		{99.99, 9999},
		// Float artifacts must round to the nearest cent.
		{19.99, 1999},
		{0.1 + 0.2, 30},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FromFloat(tt.in), "FromFloat(%v)", tt.in)
	}
}

func TestCents_String(t *testing.T) {
	tests := []struct {
		in   Cents
		want string
	}{
		{0, "$0.00"},
		{1000, "$10.00"},
		{550, "$5.50"},
		{5, "$0.05"},
		{123456, "$1234.56"},
		{-550, "-$5.50"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.in.String())
	}
}

func TestCents_UnmarshalJSON(t *testing.T) {
	var c Cents
	require.NoError(t, json.Unmarshal([]byte("10.00"), &c))
	assert.Equal(t, Cents(1000), c)

	require.NoError(t, json.Unmarshal([]byte("7"), &c))
	assert.Equal(t, Cents(700), c)

	assert.Error(t, json.Unmarshal([]byte(`"ten"`), &c))
}

func TestCents_JSONRoundTrip(t *testing.T) {
	for _, c := range []Cents{0, 1, 550, 1000, 9999999} {
		data, err := json.Marshal(c)
		require.NoError(t, err)

		var back Cents
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, c, back)
	}
}

func TestCents_SummingManyLinesDoesNotDrift(t *testing.T) {
	// 0.10 added ten thousand times is exactly 1000.00 in cents,
	// which plain float64 accumulation cannot guarantee.
	var total Cents
	for i := 0; i < 10000; i++ {
		total += FromFloat(0.10)
	}
	assert.Equal(t, Cents(100000), total)
	assert.Equal(t, "$1000.00", total.String())
}
