package composer

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestToBaseUnits(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		decimals int32
		want     string
		wantErr  bool
	}{
		{name: "whole", amount: "1", decimals: 6, want: "1000000"},
		{name: "fractional", amount: "1.5", decimals: 6, want: "1500000"},
		{name: "full precision", amount: "0.000001", decimals: 6, want: "1"},
		{name: "large", amount: "12345.678901", decimals: 6, want: "12345678901"},
		{name: "eighteen decimals", amount: "2.5", decimals: 18, want: "2500000000000000000"},
		{name: "too precise", amount: "0.0000001", decimals: 6, wantErr: true},
		{name: "zero", amount: "0", decimals: 6, wantErr: true},
		{name: "negative", amount: "-1", decimals: 6, wantErr: true},
		{name: "not a number", amount: "1,5", decimals: 6, wantErr: true},
		{name: "empty", amount: "", decimals: 6, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToBaseUnits(tt.amount, tt.decimals)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestBaseUnitsRoundTrip(t *testing.T) {
	base, err := ToBaseUnits("1.5", 6)
	require.NoError(t, err)
	require.Equal(t, "1500000", base)

	human, err := FromBaseUnits(base, 6)
	require.NoError(t, err)
	require.Equal(t, "1.5", human)
}

func TestFromBaseUnitsRejectsNonInteger(t *testing.T) {
	_, err := FromBaseUnits("1.5", 6)
	require.Error(t, err)
}

func TestGasHeadroom(t *testing.T) {
	require.Equal(t, uint64(130000), GasHeadroom(100000))
	require.Equal(t, uint64(130), GasHeadroom(100))
	// rounding, not truncation
	require.Equal(t, uint64(13), GasHeadroom(10))
	require.Equal(t, uint64(1), GasHeadroom(1))
}

func TestCalcFeeRoundsUp(t *testing.T) {
	price := decimal.RequireFromString("0.0025")

	require.Equal(t, "1300", CalcFee(520000, price))
	// 130000 * 0.0025 = 325 exactly
	require.Equal(t, "325", CalcFee(130000, price))
	// 1 * 0.0025 rounds up, never undershoots
	require.Equal(t, "1", CalcFee(1, price))
}
