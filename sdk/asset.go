package sdk

import (
	"strconv"

	"github.com/holiman/uint256"
)

// Asset names the token mint a pool or treasury is bound to.
type Asset string

// String returns the raw mint string for logging or ledger calls.
// Example payload: sdk.Asset("CHAR").String()
func (a Asset) String() string {
	return string(a)
}

// Amount is a token quantity in base units.
type Amount uint64

// String renders the amount as plain decimal for event lines.
func (a Amount) String() string {
	return strconv.FormatUint(uint64(a), 10)
}

// MulDiv computes a*num/den with 256 bit intermediates. ok is false on a zero denominator or
// when the result no longer fits into an Amount.
// Example payload: sdk.MulDiv(10_000_000, 425, 1000)
func MulDiv(a Amount, num, den uint64) (Amount, bool) {
	if den == 0 {
		return 0, false
	}
	res, overflow := new(uint256.Int).MulDivOverflow(
		uint256.NewInt(uint64(a)),
		uint256.NewInt(num),
		uint256.NewInt(den),
	)
	if overflow || !res.IsUint64() {
		return 0, false
	}
	return Amount(res.Uint64()), true
}

// AddAmount adds without wrapping around.
func AddAmount(a, b Amount) (Amount, bool) {
	sum := new(uint256.Int).Add(uint256.NewInt(uint64(a)), uint256.NewInt(uint64(b)))
	if !sum.IsUint64() {
		return 0, false
	}
	return Amount(sum.Uint64()), true
}
