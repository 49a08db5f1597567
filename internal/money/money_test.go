package money_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/practiva/ledger/internal/money"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int64
	}{
		{name: "Plain", input: "125.50", want: 12550},
		{name: "DollarSign", input: "$125.50", want: 12550},
		{name: "GroupingCommas", input: "$1,250,000.75", want: 125000075},
		{name: "Whitespace", input: " 42.00 ", want: 4200},
		{name: "Negative", input: "-12.34", want: -1234},
		{name: "WholeNumber", input: "99", want: 9900},
		{name: "SubCentRounds", input: "0.999", want: 100},
		{name: "Empty", input: "", want: 0},
		{name: "Garbage", input: "n/a", want: 0},
		{name: "SymbolsOnly", input: "$,", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, money.Parse(tt.input))
		})
	}
}

func TestParseAny(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  int64
	}{
		{name: "Float", input: float64(125.5), want: 12550},
		{name: "String", input: "$125.50", want: 12550},
		{name: "Nil", input: nil, want: 0},
		{name: "Bool", input: true, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, money.ParseAny(tt.input))
		})
	}
}

func TestFormatter(t *testing.T) {
	f, err := money.NewFormatter("USD")
	require.NoError(t, err)

	assert.Contains(t, f.Format(12550), "125.50")
	assert.Contains(t, f.Format(0), "0.00")
}

func TestNewFormatter_BadCode(t *testing.T) {
	_, err := money.NewFormatter("not-a-currency")
	assert.Error(t, err)
}
