package datagen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateSimpleInterest(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1250.0, CalculateSimpleInterest(5000, 12.5, 24), 1e-9)
	assert.InDelta(t, 0.0, CalculateSimpleInterest(5000, 0, 24), 1e-9)
	assert.InDelta(t, 100.0, CalculateSimpleInterest(1000, 10, 12), 1e-9)
}

func TestCalculateEMI(t *testing.T) {
	t.Parallel()

	t.Run("sanity bounds", func(t *testing.T) {
		t.Parallel()

		emi, err := CalculateEMI(5000, 12.5, 24)
		require.NoError(t, err)
		assert.Greater(t, emi, 0.0)
		assert.Less(t, emi, 5000.0*2)
		assert.InDelta(t, 236.54, emi, 0.01)
	})

	t.Run("zero rate", func(t *testing.T) {
		t.Parallel()

		emi, err := CalculateEMI(1200, 0, 12)
		require.NoError(t, err)
		assert.Equal(t, 100.0, emi)

		emi, err = CalculateEMI(5000, 0, 24)
		require.NoError(t, err)
		assert.Equal(t, 5000.0/24, emi)
	})

	t.Run("zero months", func(t *testing.T) {
		t.Parallel()

		_, err := CalculateEMI(5000, 12.5, 0)
		require.ErrorIs(t, err, ErrDivisionByZero)

		_, err = CalculateEMI(5000, 0, 0)
		require.ErrorIs(t, err, ErrDivisionByZero)
	})

	t.Run("total repaid exceeds principal", func(t *testing.T) {
		t.Parallel()

		emi, err := CalculateEMI(100000, 9, 60)
		require.NoError(t, err)
		assert.Greater(t, emi*60, 100000.0)
	})
}

func TestIsValidLoanAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		amount   float64
		expected bool
	}{
		{name: "below min", amount: 999.99, expected: false},
		{name: "at min", amount: 1000, expected: true},
		{name: "inside", amount: 5000, expected: true},
		{name: "at max", amount: 1000000, expected: true},
		{name: "above max", amount: 1000000.01, expected: false},
		{name: "negative", amount: -5000, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, IsValidLoanAmount(tt.amount, 1000, 1000000))
		})
	}
}

func TestFormatCurrency(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "₹5000.00", FormatCurrency(5000))
	assert.Equal(t, "₹1234.50", FormatCurrency(1234.5))
	assert.Equal(t, "₹2.68", FormatCurrency(2.675))
	assert.Equal(t, "₹0.00", FormatCurrency(0))
	assert.Equal(t, "₹-12.30", FormatCurrency(-12.3))
}
