// internal/workers/assistant/resolve-cost/money.go
package resolvecost

import (
	"math/big"
	"strconv"
)

// weeks per month, as an exact ratio
var monthlyFactor = big.NewRat(4333, 1000)

// Monthly converts a weekly price to monthly, rounded half-up to cents.
// The arithmetic is done on the decimal value of weekly so that exact
// half-cent results round up instead of falling to binary noise.
func Monthly(weekly float64) float64 {
	r, ok := new(big.Rat).SetString(strconv.FormatFloat(weekly, 'f', -1, 64))
	if !ok {
		return 0
	}
	r.Mul(r, monthlyFactor)
	r.Mul(r, big.NewRat(100, 1))

	cents := roundHalfUp(r)
	out, _ := new(big.Rat).SetFrac(cents, big.NewInt(100)).Float64()
	return out
}

// MonthlyPtr is Monthly over an optional value.
func MonthlyPtr(weekly *float64) *float64 {
	if weekly == nil {
		return nil
	}
	m := Monthly(*weekly)
	return &m
}

// roundHalfUp rounds to the nearest integer, halves away from zero.
func roundHalfUp(r *big.Rat) *big.Int {
	num := new(big.Int).Abs(r.Num())
	den := r.Denom()

	// floor((2*num + den) / (2*den))
	twice := new(big.Int).Lsh(num, 1)
	twice.Add(twice, den)
	q := new(big.Int).Quo(twice, new(big.Int).Lsh(den, 1))
	if r.Sign() < 0 {
		q.Neg(q)
	}
	return q
}
