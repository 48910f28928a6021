package stats

import (
	"math"

	"github.com/shopspring/decimal"
)

// Numeric boundary policy: every ratio in the system divides through these
// helpers, so the zero-denominator answer is always 0 and rounding is always
// two decimal places. Nothing downstream ever sees NaN or Inf.

func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*100) / 100
}

// Percent returns round2(num/den*100), or 0 when den == 0.
func Percent(num, den int64) float64 {
	if den == 0 {
		return 0
	}
	return Round2(float64(num) / float64(den) * 100)
}

// PercentFloat is Percent over float64 operands.
func PercentFloat(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return Round2(num / den * 100)
}

// RatePercent expresses num/den as a percentage for exact decimal operands
// (collection rate, claim payment rate). Same zero-denominator policy.
func RatePercent(num, den decimal.Decimal) float64 {
	if den.IsZero() {
		return 0
	}
	rate, _ := num.Div(den).Mul(decimal.NewFromInt(100)).Round(2).Float64()
	return rate
}

// Amount coerces an exact money sum into the rounded float64 that crosses
// the JSON/spreadsheet boundary.
func Amount(d decimal.Decimal) float64 {
	v, _ := d.Round(2).Float64()
	return v
}

// Normalize recursively rewrites a value into a representation safe for
// cross-boundary serialization: wide integers and exact decimals become
// float64, maps and slices are walked uniformly with no per-metric special
// cases. Unknown scalar types pass through untouched.
func Normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = Normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = Normalize(item)
		}
		return out
	case [][]any:
		out := make([][]any, len(val))
		for i, row := range val {
			norm := make([]any, len(row))
			for j, cell := range row {
				norm[j] = Normalize(cell)
			}
			out[i] = norm
		}
		return out
	case decimal.Decimal:
		return Amount(val)
	case *decimal.Decimal:
		if val == nil {
			return nil
		}
		return Amount(*val)
	case int:
		return float64(val)
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	case uint:
		return float64(val)
	case uint32:
		return float64(val)
	case uint64:
		return float64(val)
	case float32:
		return Round2(float64(val))
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return float64(0)
		}
		return val
	default:
		return v
	}
}
