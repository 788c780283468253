package utils

import (
	"math"
	"math/big"
	"strings"
)

// ScaleRawValue interprets a raw transfer value as a decimal scaled down by
// 10^decimals. The raw value may exceed float64 integer range (e.g. 18
// decimal wei amounts), so it is parsed through big.Float before converting.
// Example: raw="1000000000000000000", decimals=18 => 1.0
// An empty or unparsable raw value yields 0.
func ScaleRawValue(raw string, decimals int) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}

	amount, _, err := big.ParseFloat(raw, 10, 256, big.ToNearestEven)
	if err != nil {
		return 0
	}

	divisor := new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))
	value, _ := new(big.Float).Quo(amount, divisor).Float64()
	return value
}

// RoundTo rounds v to the given number of fractional digits.
func RoundTo(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}
