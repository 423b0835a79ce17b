package accounting

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultPrecision is the number of fractional digits item values are
// quantized to. Legal precisions range from 0 to MaxPrecision.
const (
	DefaultPrecision int32 = 2
	MaxPrecision     int32 = 4
)

const (
	arg1Pattern = `(?P<arg1>-?\d+([.,]\d*)?)`
	arg2Pattern = `(?P<arg2>-?\d+([.,]\d*)?)`
)

var (
	addRE = regexp.MustCompile(arg1Pattern + `\+` + arg2Pattern)
	subRE = regexp.MustCompile(arg1Pattern + `-` + arg2Pattern)
	mulRE = regexp.MustCompile(arg1Pattern + `\*` + arg2Pattern)
	divRE = regexp.MustCompile(arg1Pattern + `/` + arg2Pattern)
	// innermost parenthesized sub-expression: no nested parens inside
	parRE = regexp.MustCompile(`\((?P<arg>[^()]+)\)`)
)

// Eval evaluates an arithmetic expression involving add, subtract, multiply
// and divide and returns a decimal quantized to the given number of
// fractional digits. Both ',' and '.' are accepted as fraction separator.
// Malformed expressions and out-of-range precisions fail with ErrValueParse.
func Eval(expr string, prec int32) (decimal.Decimal, error) {
	if prec < 0 || prec > MaxPrecision {
		return decimal.Zero, fmt.Errorf("%w: precision %d out of range [0..%d]", ErrValueParse, prec, MaxPrecision)
	}
	d, err := eval(expr)
	if err != nil {
		return decimal.Zero, err
	}
	return Quantize(d, prec), nil
}

// eval reduces the expression without quantizing, so nested sub-expressions
// are not prematurely rounded. The reduction repeatedly resolves the
// innermost parenthesized sub-expression, then the leftmost of {*, /}, then
// the leftmost of {+, -}.
func eval(expr string) (decimal.Decimal, error) {
	txt := expr
	for {
		txt = strings.ReplaceAll(strings.TrimSpace(txt), " ", "")
		if txt == "" {
			return decimal.Zero, nil
		}

		if loc := parRE.FindStringSubmatchIndex(txt); loc != nil {
			v, err := eval(txt[loc[2]:loc[3]])
			if err != nil {
				return decimal.Zero, err
			}
			txt = txt[:loc[0]] + v.String() + txt[loc[1]:]
			continue
		}

		mulLoc := mulRE.FindStringSubmatchIndex(txt)
		divLoc := divRE.FindStringSubmatchIndex(txt)
		if mulLoc != nil && (divLoc == nil || mulLoc[0] < divLoc[0]) {
			reduced, err := evalPair(txt, mulLoc, decimal.Decimal.Mul)
			if err != nil {
				return decimal.Zero, err
			}
			txt = reduced
			continue
		}
		if divLoc != nil {
			a2 := txt[divLoc[6]:divLoc[7]]
			if d, err := parseOperand(a2); err == nil && d.IsZero() {
				return decimal.Zero, fmt.Errorf("%w: division by zero in %q", ErrValueParse, expr)
			}
			reduced, err := evalPair(txt, divLoc, decimal.Decimal.Div)
			if err != nil {
				return decimal.Zero, err
			}
			txt = reduced
			continue
		}

		addLoc := addRE.FindStringSubmatchIndex(txt)
		subLoc := subRE.FindStringSubmatchIndex(txt)
		if addLoc != nil && (subLoc == nil || addLoc[0] < subLoc[0]) {
			reduced, err := evalPair(txt, addLoc, decimal.Decimal.Add)
			if err != nil {
				return decimal.Zero, err
			}
			txt = reduced
			continue
		}
		if subLoc != nil {
			reduced, err := evalPair(txt, subLoc, decimal.Decimal.Sub)
			if err != nil {
				return decimal.Zero, err
			}
			txt = reduced
			continue
		}
		break
	}
	d, err := parseOperand(txt)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrValueParse, expr)
	}
	return d, nil
}

// evalPair replaces the matched binary operation with its result. When a
// negative left operand yields a positive result the replacement keeps an
// explicit '+' so the preceding term still sees an operator, e.g.
// "5-2*-3" reduces to "5+6" and not "56".
func evalPair(txt string, loc []int, op func(decimal.Decimal, decimal.Decimal) decimal.Decimal) (string, error) {
	a, b := txt[loc[2]:loc[3]], txt[loc[6]:loc[7]]
	da, err := parseOperand(a)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrValueParse, a)
	}
	db, err := parseOperand(b)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrValueParse, b)
	}
	v := op(da, db)
	repl := v.String()
	if strings.HasPrefix(a, "-") && v.IsPositive() {
		repl = "+" + repl
	}
	return txt[:loc[0]] + repl + txt[loc[1]:], nil
}

// parseOperand normalizes the fraction separator and parses a single decimal
// literal. A trailing separator ("12.") is tolerated.
func parseOperand(s string) (decimal.Decimal, error) {
	s = strings.TrimSuffix(strings.ReplaceAll(s, ",", "."), ".")
	return decimal.NewFromString(s)
}

// Quantize rounds d to the given number of fractional digits using banker's
// rounding, the rounding mode of the persisted snapshots.
func Quantize(d decimal.Decimal, prec int32) decimal.Decimal {
	return d.RoundBank(prec)
}

// Number is the set of inputs ToDecimal converts from.
type Number interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64 | ~string | decimal.Decimal
}

// ToDecimal converts an already-decimal value, an integer, a floating value or
// a textual arithmetic expression into a decimal quantized to prec fractional
// digits. Callers must not ignore the error: a malformed expression never
// silently defaults to zero.
func ToDecimal[T Number](v T, prec int32) (decimal.Decimal, error) {
	if prec < 0 || prec > MaxPrecision {
		return decimal.Zero, fmt.Errorf("%w: precision %d out of range [0..%d]", ErrValueParse, prec, MaxPrecision)
	}
	switch x := any(v).(type) {
	case decimal.Decimal:
		return Quantize(x, prec), nil
	case int:
		return decimal.New(int64(x), 0).RoundBank(prec), nil
	case int32:
		return decimal.New(int64(x), 0).RoundBank(prec), nil
	case int64:
		return decimal.New(x, 0).RoundBank(prec), nil
	case float32:
		return Quantize(decimal.NewFromFloat32(x), prec), nil
	case float64:
		return Quantize(decimal.NewFromFloat(x), prec), nil
	case string:
		return Eval(x, prec)
	default:
		// Named types based on the constraint's underlying types.
		return Eval(fmt.Sprint(v), prec)
	}
}
