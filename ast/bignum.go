package ast

import "math/big"

// bigFromInt builds a big.Float constant node value for lengths the
// assembler synthesizes itself (constant-length sequence literals).
func bigFromInt(n int) *big.Float {
	return new(big.Float).SetInt64(int64(n))
}
