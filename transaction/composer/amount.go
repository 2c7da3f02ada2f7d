package composer

import (
	"cosmossdk.io/math"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ToBaseUnits converts a human decimal amount to an integer
// base-denomination string by fixed-point scaling with the token's declared
// decimal count. Never floating point: "1.5" with 6 decimals is exactly
// "1500000".
func ToBaseUnits(amount string, decimals int32) (string, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return "", errors.Wrapf(err, "amount %q", amount)
	}
	if d.Sign() <= 0 {
		return "", errors.Errorf("amount %q must be positive", amount)
	}
	if -d.Exponent() > decimals {
		return "", errors.Errorf("amount %q has more than %d decimal places", amount, decimals)
	}

	base := d.Shift(decimals)
	// Guard the integer form through sdk math so a malformed scale can never
	// reach the chain.
	i, ok := math.NewIntFromString(base.String())
	if !ok {
		return "", errors.Errorf("amount %q does not scale to an integer", amount)
	}
	return i.String(), nil
}

// FromBaseUnits renders an integer base-denomination amount back to its
// human decimal form.
func FromBaseUnits(base string, decimals int32) (string, error) {
	i, ok := math.NewIntFromString(base)
	if !ok {
		return "", errors.Errorf("base amount %q is not an integer", base)
	}
	return decimal.NewFromBigInt(i.BigInt(), -decimals).String(), nil
}

var gasHeadroom = decimal.RequireFromString("1.3")

// GasHeadroom applies the safety multiplier to a simulated gas figure:
// round(gasUsed * 1.3).
func GasHeadroom(gasUsed uint64) uint64 {
	return uint64(decimal.NewFromInt(int64(gasUsed)).Mul(gasHeadroom).Round(0).IntPart())
}

// CalcFee computes the fee in base denomination for a gas limit at the
// chain's gas price, rounded up so the fee never undershoots.
func CalcFee(gasLimit uint64, gasPrice decimal.Decimal) string {
	return decimal.NewFromInt(int64(gasLimit)).Mul(gasPrice).Ceil().String()
}
