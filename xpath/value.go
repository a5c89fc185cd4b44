package xpath

import (
	"math"
	"strconv"
	"strings"
)

type ValueType int8

const (
	TypeAny ValueType = iota
	TypeNumber
	TypeString
	TypeBoolean
)

func (t ValueType) String() string {
	switch t {
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeBoolean:
		return "boolean"
	default:
		return "any"
	}
}

type Value interface {
	Type() ValueType
	String() string
	Number() float64
	Bool() bool
}

type Number float64

func (n Number) Type() ValueType {
	return TypeNumber
}

func (n Number) String() string {
	return formatNumber(float64(n))
}

func (n Number) Number() float64 {
	return float64(n)
}

func (n Number) Bool() bool {
	f := float64(n)
	return f != 0 && !math.IsNaN(f)
}

type String string

func (s String) Type() ValueType {
	return TypeString
}

func (s String) String() string {
	return string(s)
}

func (s String) Number() float64 {
	return parseNumber(string(s))
}

func (s String) Bool() bool {
	return len(s) > 0
}

type Boolean bool

func (b Boolean) Type() ValueType {
	return TypeBoolean
}

func (b Boolean) String() string {
	if b {
		return "true"
	}
	return "false"
}

func (b Boolean) Number() float64 {
	if b {
		return 1
	}
	return 0
}

func (b Boolean) Bool() bool {
	return bool(b)
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	case f == math.Trunc(f) && math.Abs(f) < 1e21:
		return strconv.FormatFloat(f, 'f', 0, 64)
	default:
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
}

// parseNumber converts str following the Number production of XPath 1.0
// with an optional leading minus; anything else is NaN.
func parseNumber(str string) float64 {
	str = strings.TrimSpace(str)
	if !isNumber(strings.TrimPrefix(str, "-")) {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

func isNumber(str string) bool {
	var digits, dots int
	for _, c := range str {
		switch {
		case c >= '0' && c <= '9':
			digits++
		case c == '.':
			dots++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}
