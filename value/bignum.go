package value

import "math/big"

func bigFromFloat64(f float64) *big.Float {
	return new(big.Float).SetFloat64(f)
}
