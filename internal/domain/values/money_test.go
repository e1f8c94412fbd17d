package values

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	tests := []struct {
		name     string
		amount   decimal.Decimal
		currency string
		want     string
		wantErr  bool
	}{
		{
			name:     "valid BDT amount",
			amount:   decimal.NewFromFloat(2800.00),
			currency: BDT,
			want:     "2800.00 BDT",
		},
		{
			name:     "rounds to two decimals half-up",
			amount:   decimal.NewFromFloat(10.005),
			currency: BDT,
			want:     "10.01 BDT",
		},
		{
			name:     "negative amount allowed",
			amount:   decimal.NewFromFloat(-50.25),
			currency: USD,
			want:     "-50.25 USD",
		},
		{
			name:     "lowercase currency normalized",
			amount:   decimal.NewFromInt(5),
			currency: "bdt",
			want:     "5.00 BDT",
		},
		{
			name:     "empty currency",
			amount:   decimal.NewFromInt(1),
			currency: "",
			wantErr:  true,
		},
		{
			name:     "unsupported currency",
			amount:   decimal.NewFromInt(1),
			currency: "XXX",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			money, err := NewMoney(tt.amount, tt.currency)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, money.String())
		})
	}
}

func TestMoneyAdd(t *testing.T) {
	a := MustNewMoney(decimal.NewFromFloat(2500.00), BDT)
	b := MustNewMoney(decimal.NewFromFloat(300.00), BDT)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, "2800.00 BDT", sum.String())
}

func TestMoneyAddRoundsToTwoDecimals(t *testing.T) {
	// For same-currency pairs, a.Add(b).Amount() == round(a+b, 2).
	pairs := []struct {
		a, b string
	}{
		{"0.01", "0.02"},
		{"1234.56", "0.44"},
		{"-10.10", "10.10"},
		{"999999.99", "0.01"},
	}

	for _, p := range pairs {
		a, err := NewMoneyFromString(p.a, BDT)
		require.NoError(t, err)
		b, err := NewMoneyFromString(p.b, BDT)
		require.NoError(t, err)

		sum, err := a.Add(b)
		require.NoError(t, err)

		expected := a.Amount().Add(b.Amount()).Round(2)
		assert.True(t, sum.Amount().Equal(expected), "add(%s, %s)", p.a, p.b)
	}
}

func TestMoneyCrossCurrencyFails(t *testing.T) {
	bdt := MustNewMoney(decimal.NewFromInt(100), BDT)
	usd := MustNewMoney(decimal.NewFromInt(100), USD)

	_, err := bdt.Add(usd)
	assert.Error(t, err)

	_, err = bdt.Sub(usd)
	assert.Error(t, err)

	_, err = bdt.Compare(usd)
	assert.Error(t, err)
}

func TestMoneyMul(t *testing.T) {
	price := MustNewMoney(decimal.NewFromInt(1000), BDT)

	lineAmount := price.Mul(decimal.NewFromInt(2))
	assert.Equal(t, "2000.00 BDT", lineAmount.String())

	// 15% VAT on 2000.00
	tax := lineAmount.Mul(decimal.NewFromFloat(0.15))
	assert.Equal(t, "300.00 BDT", tax.String())

	// rounding applies half-up
	odd := MustNewMoney(decimal.NewFromFloat(0.33), BDT).Mul(decimal.NewFromFloat(0.5))
	assert.Equal(t, "0.17 BDT", odd.String())
}

func TestMoneyFromMinorUnits(t *testing.T) {
	m, err := NewMoneyFromMinorUnits(280000, BDT)
	require.NoError(t, err)
	assert.Equal(t, "2800.00 BDT", m.String())
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	original := MustNewMoney(decimal.NewFromFloat(1234.56), BDT)

	data, err := json.Marshal(original)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"1234.56","currency":"BDT"}`, string(data))

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, original.Equal(decoded))
}
