package utils

import (
	"strings"

	"golang.org/x/exp/constraints"
)

// BlockSize is the unit sizes are reported in.
const BlockSize = 512

// CeilDiv rounds n up to the next multiple of d and returns the quotient.
// n is expected to be non-negative.
func CeilDiv[T constraints.Integer](n, d T) T {
	return (n + d - 1) / d
}

// Blocks converts a byte count to BlockSize units.
func Blocks(bytes int64) int64 {
	return CeilDiv(bytes, BlockSize)
}

// JoinPath joins dir & name with a single separator, without cleaning dir.
// Cleaning would rewrite paths like "./a" that get recorded verbatim.
func JoinPath(dir, name string) string {
	if strings.HasSuffix(dir, "/") {
		return dir + name
	}
	return dir + "/" + name
}
