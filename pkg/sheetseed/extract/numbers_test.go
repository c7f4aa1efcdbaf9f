package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"1234,56", 1234.56},
		{"1234.56", 1234.56},
		{"  12 ", 12},
		{"-3,5", -3.5},
		{"0", 0},
		{"1e3", 1000},
	}

	for _, tt := range tests {
		got := ParseNumber(tt.input)
		require.NotNil(t, got, tt.input)
		assert.InDelta(t, tt.expected, *got, 1e-9, tt.input)
	}
}

func TestParseNumberAbsent(t *testing.T) {
	for _, input := range []string{"", "   ", "abc", "1.234,56", "$100", "NaN", "inf"} {
		assert.Nil(t, ParseNumber(input), "ParseNumber(%q)", input)
	}
}

func TestParseNumberCommaAndDotAgree(t *testing.T) {
	for _, pair := range [][2]string{{"10,5", "10.5"}, {"0,01", "0.01"}, {"1450", "1450"}} {
		comma, dot := ParseNumber(pair[0]), ParseNumber(pair[1])
		require.NotNil(t, comma)
		require.NotNil(t, dot)
		assert.Equal(t, *dot, *comma)
	}
}
